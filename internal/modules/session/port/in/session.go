package in

import (
	"context"

	"focusgarden/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error)
	Stop(ctx context.Context) (dto.SessionOutput, error)
	Tick(ctx context.Context) (dto.TickOutput, error)
	UpdateBreakState(ctx context.Context, input dto.BreakStateInput) (dto.SessionOutput, error)
	StartBreak(ctx context.Context, input dto.StartBreakInput) (dto.SessionOutput, error)
	StartNextFocus(ctx context.Context, input dto.NextFocusInput) (dto.SessionOutput, error)
	Current(ctx context.Context) (dto.SessionOutput, error)
	Stats(ctx context.Context) (dto.StatsOutput, error)
}

// DailyLogUsecase reads and writes the free-text journal of a day. An
// empty day means today.
type DailyLogUsecase interface {
	WriteDailyLog(ctx context.Context, input dto.DailyLogInput) (dto.DailyLogOutput, error)
	DailyLog(ctx context.Context, day string) (dto.DailyLogOutput, error)
}
