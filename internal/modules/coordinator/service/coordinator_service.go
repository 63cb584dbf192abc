package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"focusgarden/internal/modules/coordinator/domain"
	coordout "focusgarden/internal/modules/coordinator/port/out"
	sessiondto "focusgarden/internal/modules/session/dto"
	sessionin "focusgarden/internal/modules/session/port/in"
	"focusgarden/internal/platform/clock"
	apperrors "focusgarden/internal/platform/errors"
	"focusgarden/internal/platform/logging"
)

const (
	daemonStartTimeout  = 5 * time.Second
	defaultTickInterval = time.Second
	maxRefreshWait      = time.Minute
)

type TickerFunc func(d time.Duration) clock.Ticker

type Settings struct {
	TickInterval time.Duration
	// DaemonArgs are passed to this executable to run the coordinator in
	// the foreground, e.g. {"daemon", "run", "--data-dir", dir}.
	DaemonArgs []string
}

type runtimeState struct {
	cancel      context.CancelFunc
	startedAt   time.Time
	ticks       uint64
	completions uint64
	lastTickAt  time.Time
	lastTickErr string
}

// CoordinatorService drives the session clock from a fixed ticker inside
// the daemon process and relays presenter requests. Outside the daemon
// the same methods forward to it over IPC.
type CoordinatorService struct {
	session   sessionin.Usecase
	daemon    coordout.DaemonStore
	ipcServer coordout.IPCServer
	ipcClient coordout.IPCClient
	clock     clock.Clock
	newTicker TickerFunc
	settings  Settings
	logger    *slog.Logger
	refresh   *refresher

	mu      sync.RWMutex
	runtime *runtimeState
}

func NewCoordinatorService(
	session sessionin.Usecase,
	daemon coordout.DaemonStore,
	ipcServer coordout.IPCServer,
	ipcClient coordout.IPCClient,
	clk clock.Clock,
	newTicker TickerFunc,
	settings Settings,
	logger *slog.Logger,
) *CoordinatorService {
	if settings.TickInterval <= 0 {
		settings.TickInterval = defaultTickInterval
	}
	return &CoordinatorService{
		session:   session,
		daemon:    daemon,
		ipcServer: ipcServer,
		ipcClient: ipcClient,
		clock:     clk,
		newTicker: newTicker,
		settings:  settings,
		logger:    logging.OrDiscard(logger),
		refresh:   newRefresher(),
	}
}

func (s *CoordinatorService) RunDaemon(ctx context.Context) error {
	if err := s.cleanupStaleArtifacts(ctx); err != nil {
		return err
	}
	if socketReachable(s.daemon.SocketPath()) {
		return fmt.Errorf("coordinator already running on %s", s.daemon.SocketPath())
	}
	if s.ipcServer == nil {
		return fmt.Errorf("ipc server is not configured")
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	startedAt := s.clock.Now()
	s.mu.Lock()
	s.runtime = &runtimeState{cancel: cancel, startedAt: startedAt}
	s.mu.Unlock()

	if err := s.daemon.WriteLaunch(ctx, domain.Launch{PID: os.Getpid(), StartedAt: startedAt, Args: os.Args[1:]}); err != nil {
		s.cleanupRuntime(context.Background())
		return err
	}
	s.logger.Info("coordinator started", "pid", os.Getpid(), "socket", s.daemon.SocketPath(), "interval", s.settings.TickInterval)

	ipcErr := make(chan error, 1)
	go func() {
		ipcErr <- s.ipcServer.Serve(runCtx, s.daemon.SocketPath(), s)
	}()

	ticker := s.newTicker(s.settings.TickInterval)
	defer ticker.Stop()

	// catch up on a session that expired while no coordinator was running
	s.tick(runCtx)
	for {
		select {
		case <-runCtx.Done():
			s.cleanupRuntime(context.Background())
			s.logger.Info("coordinator stopped")
			return nil
		case err := <-ipcErr:
			s.cleanupRuntime(context.Background())
			if err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		case <-ticker.C():
			s.tick(runCtx)
		}
	}
}

// tick runs one clock step. A failed step is logged and retried by the
// next tick.
func (s *CoordinatorService) tick(ctx context.Context) {
	out, err := s.session.Tick(ctx)
	now := s.clock.Now()

	s.mu.Lock()
	if rt := s.runtime; rt != nil {
		rt.ticks++
		rt.lastTickAt = now
		rt.lastTickErr = ""
		if err != nil {
			rt.lastTickErr = err.Error()
		}
		if out.Completed != nil {
			rt.completions++
		}
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("tick failed", "error", err)
	}
	if out.Completed != nil && out.Completed.GardenChanged() {
		rev := s.refresh.bump()
		s.logger.Debug("garden refreshed", "revision", rev)
	}
}

func (s *CoordinatorService) StartDaemon(ctx context.Context) error {
	if err := s.cleanupStaleArtifacts(ctx); err != nil {
		return err
	}
	status, err := s.DaemonStatus(ctx)
	if err == nil && status.Running {
		if socketReachable(s.daemon.SocketPath()) {
			return nil
		}
		return fmt.Errorf("%w: daemon process is alive but socket is unavailable", apperrors.ErrDaemonUnavailable)
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.daemon.LogPath()), 0o755); err != nil {
		return fmt.Errorf("create daemon log dir: %w", err)
	}
	logFile, err := os.OpenFile(s.daemon.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open daemon log: %w", err)
	}
	defer logFile.Close()

	cmd := exec.Command(execPath, s.settings.DaemonArgs...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}
	if err := s.daemon.WriteLaunch(ctx, domain.Launch{PID: cmd.Process.Pid, StartedAt: s.clock.Now(), Args: s.settings.DaemonArgs}); err != nil {
		return err
	}
	_ = cmd.Process.Release()

	if err := waitForSocket(s.daemon.SocketPath(), daemonStartTimeout); err != nil {
		_ = s.daemon.Clear(ctx)
		return fmt.Errorf("%w: %v", apperrors.ErrDaemonUnavailable, err)
	}
	return nil
}

func (s *CoordinatorService) StopDaemon(ctx context.Context) error {
	s.mu.RLock()
	rt := s.runtime
	s.mu.RUnlock()
	if rt != nil {
		rt.cancel()
		return nil
	}

	if s.ipcClient != nil && socketReachable(s.daemon.SocketPath()) {
		_ = s.ipcClient.Stop(ctx, s.daemon.SocketPath())
	}
	launch, err := s.daemon.ReadLaunch(ctx)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s.daemon.Clear(ctx)
		}
		return err
	}
	pid := launch.PID
	if !processAlive(pid) {
		return s.daemon.Clear(ctx)
	}
	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil && !errors.Is(err, syscall.ESRCH) {
		return fmt.Errorf("stop daemon pid=%d: %w", pid, err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && processAlive(pid) {
		time.Sleep(100 * time.Millisecond)
	}
	if processAlive(pid) {
		_ = syscall.Kill(pid, syscall.SIGKILL)
	}
	return s.daemon.Clear(ctx)
}

func (s *CoordinatorService) DaemonStatus(ctx context.Context) (domain.RuntimeStatus, error) {
	out := domain.RuntimeStatus{SocketPath: s.daemon.SocketPath()}
	launch, err := s.daemon.ReadLaunch(ctx)
	if err == nil {
		out.PID = launch.PID
		out.StartedAt = launch.StartedAt
		out.Running = processAlive(launch.PID)
	}
	if out.Running {
		if status, err := s.Status(ctx); err == nil {
			out.Status = status
		}
	}
	return out, nil
}

func (s *CoordinatorService) ToggleFocusSession(ctx context.Context, req domain.ToggleFocusSession) (sessiondto.SessionOutput, error) {
	if !s.inProcess() {
		return forward(s, func(socket string) (sessiondto.SessionOutput, error) {
			return s.ipcClient.ToggleFocusSession(ctx, socket, req)
		})
	}
	if !req.Enable {
		return s.session.Stop(ctx)
	}
	return s.session.Start(ctx, sessiondto.StartInput{
		DurationMinutes: req.Duration,
		GoalRef:         req.SelectedGoal,
		IsBreak:         req.IsBreak,
		Mode:            req.PomodoroMode,
		Force:           req.Force,
	})
}

func (s *CoordinatorService) UpdateBreakState(ctx context.Context, req domain.UpdateBreakState) (sessiondto.SessionOutput, error) {
	if !s.inProcess() {
		return forward(s, func(socket string) (sessiondto.SessionOutput, error) {
			return s.ipcClient.UpdateBreakState(ctx, socket, req)
		})
	}
	return s.session.UpdateBreakState(ctx, sessiondto.BreakStateInput{
		IsBreakTime:   req.IsBreakTime,
		IsLongBreak:   req.IsLongBreak,
		PomodoroCount: req.PomodoroCount,
		Mode:          req.PomodoroMode,
	})
}

func (s *CoordinatorService) StartBreak(ctx context.Context, req domain.StartBreak) (sessiondto.SessionOutput, error) {
	if !s.inProcess() {
		return forward(s, func(socket string) (sessiondto.SessionOutput, error) {
			return s.ipcClient.StartBreak(ctx, socket, req)
		})
	}
	return s.session.StartBreak(ctx, sessiondto.StartBreakInput{IsLongBreak: req.IsLongBreak, Mode: req.PomodoroMode, Force: req.Force})
}

func (s *CoordinatorService) StartNextFocus(ctx context.Context, req domain.StartNextFocus) (sessiondto.SessionOutput, error) {
	if !s.inProcess() {
		return forward(s, func(socket string) (sessiondto.SessionOutput, error) {
			return s.ipcClient.StartNextFocus(ctx, socket, req)
		})
	}
	return s.session.StartNextFocus(ctx, sessiondto.NextFocusInput{
		Mode:           req.PomodoroMode,
		IsFirstSession: req.IsFirstSession,
		CustomDuration: req.CustomDuration,
		GoalRef:        req.SelectedGoal,
		Force:          req.Force,
	})
}

func (s *CoordinatorService) Session(ctx context.Context) (sessiondto.SessionOutput, error) {
	if !s.inProcess() {
		return forward(s, func(socket string) (sessiondto.SessionOutput, error) {
			return s.ipcClient.Session(ctx, socket)
		})
	}
	return s.session.Current(ctx)
}

func (s *CoordinatorService) Status(ctx context.Context) (domain.Status, error) {
	s.mu.RLock()
	rt := s.runtime
	var status domain.Status
	if rt != nil {
		status = domain.Status{
			Online:        true,
			PID:           os.Getpid(),
			StartedAt:     rt.startedAt,
			TickInterval:  s.settings.TickInterval,
			Ticks:         rt.ticks,
			LastTickAt:    rt.lastTickAt,
			LastTickError: rt.lastTickErr,
			Completions:   rt.completions,
		}
	}
	s.mu.RUnlock()
	if rt != nil {
		status.GardenRevision, _ = s.refresh.current()
		return status, nil
	}
	return forward(s, func(socket string) (domain.Status, error) {
		return s.ipcClient.Status(ctx, socket)
	})
}

// AwaitRefresh blocks until the garden revision passes since or timeout
// elapses, and returns the revision seen last.
func (s *CoordinatorService) AwaitRefresh(ctx context.Context, since uint64, timeout time.Duration) (uint64, error) {
	if timeout <= 0 || timeout > maxRefreshWait {
		timeout = maxRefreshWait
	}
	if !s.inProcess() {
		return forward(s, func(socket string) (uint64, error) {
			return s.ipcClient.AwaitRefresh(ctx, socket, since, timeout)
		})
	}
	return s.refresh.await(ctx, since, timeout)
}

// Stop is the IPC request to shut the daemon down.
func (s *CoordinatorService) Stop(ctx context.Context) error {
	return s.StopDaemon(ctx)
}

func (s *CoordinatorService) inProcess() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runtime != nil
}

func forward[T any](s *CoordinatorService, call func(socket string) (T, error)) (T, error) {
	var zero T
	if s.ipcClient == nil || !socketReachable(s.daemon.SocketPath()) {
		return zero, apperrors.ErrDaemonUnavailable
	}
	return call(s.daemon.SocketPath())
}

func (s *CoordinatorService) cleanupRuntime(ctx context.Context) {
	s.mu.Lock()
	s.runtime = nil
	s.mu.Unlock()
	if err := s.daemon.Clear(ctx); err != nil {
		s.logger.Warn("clear launch record", "error", err)
	}
}

func (s *CoordinatorService) cleanupStaleArtifacts(ctx context.Context) error {
	launch, err := s.daemon.ReadLaunch(ctx)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	} else if !processAlive(launch.PID) {
		s.logger.Info("removing stale launch record", "pid", launch.PID, "started_at", launch.StartedAt)
		if err := s.daemon.Clear(ctx); err != nil {
			return err
		}
	}
	if _, statErr := os.Stat(s.daemon.SocketPath()); statErr == nil && !socketReachable(s.daemon.SocketPath()) {
		if err := os.Remove(s.daemon.SocketPath()); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove stale daemon socket: %w", err)
		}
	}
	return nil
}

func waitForSocket(path string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if socketReachable(path) {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("daemon socket not ready: %s", path)
}

func socketReachable(path string) bool {
	conn, err := net.DialTimeout("unix", path, 150*time.Millisecond)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
