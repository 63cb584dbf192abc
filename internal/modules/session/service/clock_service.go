package service

import (
	"context"
	"fmt"
	"log/slog"

	cadence "focusgarden/internal/modules/cadence/domain"
	"focusgarden/internal/modules/session/domain"
	sessionout "focusgarden/internal/modules/session/port/out"
	"focusgarden/internal/platform/clock"
	"focusgarden/internal/platform/logging"
	"focusgarden/internal/platform/tx"
)

// ClockService is the only writer of the session record. All operations
// go through one serial tx.Manager so a tick never interleaves with a
// start or stop.
type ClockService struct {
	clock  clock.Clock
	store  sessionout.RecordStore
	tx     tx.Manager
	logger *slog.Logger
}

func NewClockService(clock clock.Clock, store sessionout.RecordStore, txm tx.Manager, logger *slog.Logger) *ClockService {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &ClockService{clock: clock, store: store, tx: txm, logger: logging.OrDiscard(logger)}
}

// Remaining derives the seconds left on rec from the current time.
func (s *ClockService) Remaining(rec domain.Record) int {
	return domain.Remaining(rec, s.clock.Now())
}

func (s *ClockService) Start(ctx context.Context, params domain.StartParams) (domain.Record, error) {
	var rec domain.Record
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		current, err := s.store.Load(ctx)
		if err != nil {
			return err
		}
		replaced := current.IsActive
		next, err := domain.Start(current, params, s.clock.Now())
		if err != nil {
			return err
		}
		if err := s.store.Save(ctx, next); err != nil {
			return err
		}
		if replaced {
			s.logger.Warn("replaced running session", "previous_minutes", current.DurationMinutes, "previous_elapsed", current.ElapsedSeconds)
		}
		rec = next
		return nil
	})
	if err != nil {
		return domain.Record{}, err
	}
	s.logger.Info("session started", "minutes", rec.DurationMinutes, "break", rec.IsBreak, "mode", rec.Mode)
	return rec, nil
}

// Stop persists the inactive record even when nothing was running.
func (s *ClockService) Stop(ctx context.Context) (domain.Record, error) {
	var rec domain.Record
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		current, err := s.store.Load(ctx)
		if err != nil {
			return err
		}
		rec = domain.Stop(current, s.clock.Now())
		return s.store.Save(ctx, rec)
	})
	if err != nil {
		return domain.Record{}, err
	}
	return rec, nil
}

// Tick advances the running session. On completion the inactive record,
// with the cadence decision applied, is stored before the event is
// returned, so a later tick cannot report the same completion.
func (s *ClockService) Tick(ctx context.Context) (domain.Record, *domain.CompletionEvent, *cadence.Decision, error) {
	var (
		rec      domain.Record
		event    *domain.CompletionEvent
		decision *cadence.Decision
	)
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		current, err := s.store.Load(ctx)
		if err != nil {
			return err
		}
		next, ev := domain.Advance(current, s.clock.Now())
		if ev != nil {
			d := cadence.AfterCompletion(
				cadence.State{PomodoroCount: next.PomodoroCount, IsLongBreak: next.IsLongBreak},
				cadence.Completion{Mode: ev.Mode, WasBreak: ev.IsBreak, DurationMinutes: ev.DurationMinutes, FocusMinutes: ev.LastFocusMinutes},
			)
			next = domain.ApplyDecision(next, d)
			decision = &d
		}
		if next.Version != current.Version {
			if err := s.store.Save(ctx, next); err != nil {
				return fmt.Errorf("persist tick: %w", err)
			}
		}
		rec, event = next, ev
		return nil
	})
	if err != nil {
		return domain.Record{}, nil, nil, err
	}
	return rec, event, decision, nil
}

func (s *ClockService) PatchCadence(ctx context.Context, patch domain.CadencePatch) (domain.Record, error) {
	var rec domain.Record
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		current, err := s.store.Load(ctx)
		if err != nil {
			return err
		}
		next, err := domain.ApplyCadence(current, patch)
		if err != nil {
			return err
		}
		if err := s.store.Save(ctx, next); err != nil {
			return err
		}
		rec = next
		return nil
	})
	if err != nil {
		return domain.Record{}, err
	}
	return rec, nil
}

func (s *ClockService) Current(ctx context.Context) (domain.Record, error) {
	var rec domain.Record
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		current, err := s.store.Load(ctx)
		rec = current
		return err
	})
	return rec, err
}
