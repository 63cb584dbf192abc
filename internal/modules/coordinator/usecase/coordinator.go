package usecase

import (
	"context"
	"time"

	"focusgarden/internal/modules/coordinator/domain"
	"focusgarden/internal/modules/coordinator/dto"
	coordin "focusgarden/internal/modules/coordinator/port/in"
	sessiondto "focusgarden/internal/modules/session/dto"
)

type servicePort interface {
	RunDaemon(ctx context.Context) error
	StartDaemon(ctx context.Context) error
	StopDaemon(ctx context.Context) error
	DaemonStatus(ctx context.Context) (domain.RuntimeStatus, error)
	ToggleFocusSession(ctx context.Context, req domain.ToggleFocusSession) (sessiondto.SessionOutput, error)
	UpdateBreakState(ctx context.Context, req domain.UpdateBreakState) (sessiondto.SessionOutput, error)
	StartBreak(ctx context.Context, req domain.StartBreak) (sessiondto.SessionOutput, error)
	StartNextFocus(ctx context.Context, req domain.StartNextFocus) (sessiondto.SessionOutput, error)
	Session(ctx context.Context) (sessiondto.SessionOutput, error)
	AwaitRefresh(ctx context.Context, since uint64, timeout time.Duration) (uint64, error)
}

type Interactor struct {
	svc servicePort
}

func NewInteractor(svc servicePort) coordin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) RunDaemon(ctx context.Context) error {
	return i.svc.RunDaemon(ctx)
}

func (i *Interactor) StartDaemon(ctx context.Context) error {
	return i.svc.StartDaemon(ctx)
}

func (i *Interactor) StopDaemon(ctx context.Context) error {
	return i.svc.StopDaemon(ctx)
}

func (i *Interactor) DaemonStatus(ctx context.Context) (dto.DaemonStatusOutput, error) {
	status, err := i.svc.DaemonStatus(ctx)
	if err != nil {
		return dto.DaemonStatusOutput{}, err
	}
	return dto.DaemonStatusOutput{
		Running:    status.Running,
		PID:        status.PID,
		StartedAt:  status.StartedAt,
		SocketPath: status.SocketPath,
		Status: dto.StatusOutput{
			Online:         status.Status.Online,
			PID:            status.Status.PID,
			StartedAt:      status.Status.StartedAt,
			TickInterval:   status.Status.TickInterval,
			Ticks:          status.Status.Ticks,
			LastTickAt:     status.Status.LastTickAt,
			LastTickError:  status.Status.LastTickError,
			Completions:    status.Status.Completions,
			GardenRevision: status.Status.GardenRevision,
		},
	}, nil
}

func (i *Interactor) ToggleFocusSession(ctx context.Context, input dto.ToggleInput) (sessiondto.SessionOutput, error) {
	return i.svc.ToggleFocusSession(ctx, domain.ToggleFocusSession{
		Enable:       input.Enable,
		Duration:     input.Duration,
		SelectedGoal: input.SelectedGoal,
		IsBreak:      input.IsBreak,
		PomodoroMode: input.PomodoroMode,
		Force:        input.Force,
	})
}

func (i *Interactor) UpdateBreakState(ctx context.Context, input dto.BreakStateInput) (sessiondto.SessionOutput, error) {
	return i.svc.UpdateBreakState(ctx, domain.UpdateBreakState{
		IsBreakTime:   input.IsBreakTime,
		IsLongBreak:   input.IsLongBreak,
		PomodoroCount: input.PomodoroCount,
		PomodoroMode:  input.PomodoroMode,
	})
}

func (i *Interactor) StartBreak(ctx context.Context, input dto.StartBreakInput) (sessiondto.SessionOutput, error) {
	return i.svc.StartBreak(ctx, domain.StartBreak{IsLongBreak: input.IsLongBreak, PomodoroMode: input.PomodoroMode, Force: input.Force})
}

func (i *Interactor) StartNextFocus(ctx context.Context, input dto.NextFocusInput) (sessiondto.SessionOutput, error) {
	return i.svc.StartNextFocus(ctx, domain.StartNextFocus{
		PomodoroMode:   input.PomodoroMode,
		IsFirstSession: input.IsFirstSession,
		CustomDuration: input.CustomDuration,
		SelectedGoal:   input.SelectedGoal,
		Force:          input.Force,
	})
}

func (i *Interactor) Session(ctx context.Context) (sessiondto.SessionOutput, error) {
	return i.svc.Session(ctx)
}

func (i *Interactor) AwaitRefresh(ctx context.Context, since uint64, timeout time.Duration) (uint64, error) {
	return i.svc.AwaitRefresh(ctx, since, timeout)
}
