package in

import (
	"context"
	"time"

	"focusgarden/internal/modules/coordinator/dto"
	coordin "focusgarden/internal/modules/coordinator/port/in"
	sessiondto "focusgarden/internal/modules/session/dto"
)

type CLIHandler struct {
	usecase coordin.Usecase
}

func NewCLIHandler(usecase coordin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) RunDaemon(ctx context.Context) error {
	return h.usecase.RunDaemon(ctx)
}

func (h CLIHandler) StartDaemon(ctx context.Context) error {
	return h.usecase.StartDaemon(ctx)
}

func (h CLIHandler) StopDaemon(ctx context.Context) error {
	return h.usecase.StopDaemon(ctx)
}

func (h CLIHandler) DaemonStatus(ctx context.Context) (dto.DaemonStatusOutput, error) {
	return h.usecase.DaemonStatus(ctx)
}

func (h CLIHandler) StartFocus(ctx context.Context, minutes int, goalRef, mode string, force bool) (sessiondto.SessionOutput, error) {
	return h.usecase.ToggleFocusSession(ctx, dto.ToggleInput{Enable: true, Duration: minutes, SelectedGoal: goalRef, PomodoroMode: mode, Force: force})
}

func (h CLIHandler) StopFocus(ctx context.Context) (sessiondto.SessionOutput, error) {
	return h.usecase.ToggleFocusSession(ctx, dto.ToggleInput{Enable: false})
}

func (h CLIHandler) NextFocus(ctx context.Context, input dto.NextFocusInput) (sessiondto.SessionOutput, error) {
	return h.usecase.StartNextFocus(ctx, input)
}

func (h CLIHandler) StartBreak(ctx context.Context, long bool, mode string, force bool) (sessiondto.SessionOutput, error) {
	return h.usecase.StartBreak(ctx, dto.StartBreakInput{IsLongBreak: long, PomodoroMode: mode, Force: force})
}

func (h CLIHandler) UpdateBreakState(ctx context.Context, input dto.BreakStateInput) (sessiondto.SessionOutput, error) {
	return h.usecase.UpdateBreakState(ctx, input)
}

func (h CLIHandler) Session(ctx context.Context) (sessiondto.SessionOutput, error) {
	return h.usecase.Session(ctx)
}

func (h CLIHandler) AwaitRefresh(ctx context.Context, since uint64, timeout time.Duration) (uint64, error) {
	return h.usecase.AwaitRefresh(ctx, since, timeout)
}
