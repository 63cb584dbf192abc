package usecase

import (
	"context"
	"strings"
	"time"

	"focusgarden/internal/modules/session/domain"
	sessiondto "focusgarden/internal/modules/session/dto"
	sessionin "focusgarden/internal/modules/session/port/in"
	sessionout "focusgarden/internal/modules/session/port/out"
	"focusgarden/internal/platform/clock"
)

type DailyLogInteractor struct {
	clock clock.Clock
	store sessionout.DailyLogStore
	loc   *time.Location
}

func NewDailyLogInteractor(clk clock.Clock, store sessionout.DailyLogStore, loc *time.Location) sessionin.DailyLogUsecase {
	if loc == nil {
		loc = time.Local
	}
	return &DailyLogInteractor{clock: clk, store: store, loc: loc}
}

func (i *DailyLogInteractor) WriteDailyLog(ctx context.Context, input sessiondto.DailyLogInput) (sessiondto.DailyLogOutput, error) {
	day, err := i.day(input.Day)
	if err != nil {
		return sessiondto.DailyLogOutput{}, err
	}
	var written domain.DailyLog
	err = i.store.Update(ctx, day, func(log *domain.DailyLog) error {
		next, err := log.Write(input.Text, input.Append, i.clock.Now())
		if err != nil {
			return err
		}
		*log = next
		written = next
		return nil
	})
	if err != nil {
		return sessiondto.DailyLogOutput{}, err
	}
	return dailyLogOutput(day, written, true), nil
}

func (i *DailyLogInteractor) DailyLog(ctx context.Context, day string) (sessiondto.DailyLogOutput, error) {
	day, err := i.day(day)
	if err != nil {
		return sessiondto.DailyLogOutput{}, err
	}
	log, found, err := i.store.Get(ctx, day)
	if err != nil {
		return sessiondto.DailyLogOutput{}, err
	}
	return dailyLogOutput(day, log, found), nil
}

func (i *DailyLogInteractor) day(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.DayOf(i.clock.Now(), i.loc), nil
	}
	return domain.ParseDay(raw)
}

func dailyLogOutput(day string, log domain.DailyLog, found bool) sessiondto.DailyLogOutput {
	out := sessiondto.DailyLogOutput{Day: day, Text: log.Text}
	if found && !log.UpdatedAt.IsZero() {
		at := log.UpdatedAt
		out.UpdatedAt = &at
	}
	return out
}
