package out

import (
	"context"
	"time"

	"focusgarden/internal/modules/coordinator/domain"
	sessiondto "focusgarden/internal/modules/session/dto"
)

// DaemonStore keeps the launch record of the running coordinator next to
// its socket. ReadLaunch returns an error wrapping os.ErrNotExist when no
// coordinator has been launched.
type DaemonStore interface {
	WriteLaunch(ctx context.Context, launch domain.Launch) error
	ReadLaunch(ctx context.Context) (domain.Launch, error)
	// Clear removes the launch record and the socket.
	Clear(ctx context.Context) error
	SocketPath() string
	LogPath() string
}

// IPCServer serves the coordinator's message API on a local socket.
type IPCServer interface {
	Serve(ctx context.Context, socketPath string, handler IPCHandler) error
}

// IPCHandler is what a running coordinator exposes to presenters.
type IPCHandler interface {
	ToggleFocusSession(ctx context.Context, req domain.ToggleFocusSession) (sessiondto.SessionOutput, error)
	UpdateBreakState(ctx context.Context, req domain.UpdateBreakState) (sessiondto.SessionOutput, error)
	StartBreak(ctx context.Context, req domain.StartBreak) (sessiondto.SessionOutput, error)
	StartNextFocus(ctx context.Context, req domain.StartNextFocus) (sessiondto.SessionOutput, error)
	Session(ctx context.Context) (sessiondto.SessionOutput, error)
	Status(ctx context.Context) (domain.Status, error)
	AwaitRefresh(ctx context.Context, since uint64, timeout time.Duration) (uint64, error)
	Stop(ctx context.Context) error
}

// IPCClient talks to a coordinator from another process.
type IPCClient interface {
	ToggleFocusSession(ctx context.Context, socketPath string, req domain.ToggleFocusSession) (sessiondto.SessionOutput, error)
	UpdateBreakState(ctx context.Context, socketPath string, req domain.UpdateBreakState) (sessiondto.SessionOutput, error)
	StartBreak(ctx context.Context, socketPath string, req domain.StartBreak) (sessiondto.SessionOutput, error)
	StartNextFocus(ctx context.Context, socketPath string, req domain.StartNextFocus) (sessiondto.SessionOutput, error)
	Session(ctx context.Context, socketPath string) (sessiondto.SessionOutput, error)
	Status(ctx context.Context, socketPath string) (domain.Status, error)
	AwaitRefresh(ctx context.Context, socketPath string, since uint64, timeout time.Duration) (uint64, error)
	Stop(ctx context.Context, socketPath string) error
}
