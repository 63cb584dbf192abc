package in

import (
	"context"
	"time"

	"focusgarden/internal/modules/coordinator/dto"
	sessiondto "focusgarden/internal/modules/session/dto"
)

type Usecase interface {
	RunDaemon(ctx context.Context) error
	StartDaemon(ctx context.Context) error
	StopDaemon(ctx context.Context) error
	DaemonStatus(ctx context.Context) (dto.DaemonStatusOutput, error)

	ToggleFocusSession(ctx context.Context, input dto.ToggleInput) (sessiondto.SessionOutput, error)
	UpdateBreakState(ctx context.Context, input dto.BreakStateInput) (sessiondto.SessionOutput, error)
	StartBreak(ctx context.Context, input dto.StartBreakInput) (sessiondto.SessionOutput, error)
	StartNextFocus(ctx context.Context, input dto.NextFocusInput) (sessiondto.SessionOutput, error)
	Session(ctx context.Context) (sessiondto.SessionOutput, error)
	AwaitRefresh(ctx context.Context, since uint64, timeout time.Duration) (uint64, error)
}
