package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	coordadapter "focusgarden/internal/modules/coordinator/adapter/out"
	"focusgarden/internal/modules/coordinator/domain"
	coordout "focusgarden/internal/modules/coordinator/port/out"
	"focusgarden/internal/modules/coordinator/service"
	gardendto "focusgarden/internal/modules/garden/dto"
	sessiondto "focusgarden/internal/modules/session/dto"
	"focusgarden/internal/platform/clock"
	apperrors "focusgarden/internal/platform/errors"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC) }

type fakeTicker struct {
	ch chan time.Time
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               {}

type tickResult struct {
	out sessiondto.TickOutput
	err error
}

type fakeSession struct {
	mu      sync.Mutex
	results []tickResult
	started []sessiondto.StartInput
	stops   int
	ticked  chan struct{}
}

func newFakeSession(results ...tickResult) *fakeSession {
	return &fakeSession{results: results, ticked: make(chan struct{}, 16)}
}

func (f *fakeSession) Tick(context.Context) (sessiondto.TickOutput, error) {
	f.mu.Lock()
	var r tickResult
	if len(f.results) > 0 {
		r = f.results[0]
		f.results = f.results[1:]
	}
	f.mu.Unlock()
	f.ticked <- struct{}{}
	return r.out, r.err
}

func (f *fakeSession) Start(_ context.Context, input sessiondto.StartInput) (sessiondto.SessionOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, input)
	return sessiondto.SessionOutput{IsActive: true, DurationMinutes: input.DurationMinutes, GoalRef: input.GoalRef}, nil
}

func (f *fakeSession) Stop(context.Context) (sessiondto.SessionOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	return sessiondto.SessionOutput{}, nil
}

func (f *fakeSession) UpdateBreakState(context.Context, sessiondto.BreakStateInput) (sessiondto.SessionOutput, error) {
	return sessiondto.SessionOutput{}, nil
}

func (f *fakeSession) StartBreak(_ context.Context, input sessiondto.StartBreakInput) (sessiondto.SessionOutput, error) {
	return sessiondto.SessionOutput{IsActive: true, IsBreak: true, Mode: input.Mode}, nil
}

func (f *fakeSession) StartNextFocus(_ context.Context, input sessiondto.NextFocusInput) (sessiondto.SessionOutput, error) {
	return sessiondto.SessionOutput{IsActive: true, DurationMinutes: input.CustomDuration}, nil
}

func (f *fakeSession) Current(context.Context) (sessiondto.SessionOutput, error) {
	return sessiondto.SessionOutput{Mode: "pomodoro"}, nil
}

func (f *fakeSession) Stats(context.Context) (sessiondto.StatsOutput, error) {
	return sessiondto.StatsOutput{}, nil
}

// blockingServer stands in for the socket server and serves nothing.
type blockingServer struct{}

func (blockingServer) Serve(ctx context.Context, _ string, _ coordout.IPCHandler) error {
	<-ctx.Done()
	return nil
}

func newService(t *testing.T, session *fakeSession, ticker *fakeTicker) (*service.CoordinatorService, coordout.DaemonStore) {
	t.Helper()
	dir := t.TempDir()
	store := coordadapter.NewFileDaemonStore(filepath.Join(dir, "run", "coordinator.launch"), filepath.Join(dir, "run", "c.sock"), filepath.Join(dir, "coordinator.log"))
	newTicker := func(time.Duration) clock.Ticker { return ticker }
	svc := service.NewCoordinatorService(session, store, blockingServer{}, coordadapter.NewJSONRPCClient(), fixedClock{}, newTicker, service.Settings{TickInterval: time.Second}, nil)
	return svc, store
}

func waitTick(t *testing.T, session *fakeSession) {
	t.Helper()
	select {
	case <-session.ticked:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for tick")
	}
}

func eventually(t *testing.T, svc *service.CoordinatorService, cond func(domain.Status) bool) domain.Status {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		status, err := svc.Status(context.Background())
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if cond(status) {
			return status
		}
		if time.Now().After(deadline) {
			t.Fatalf("condition not met, last status %+v", status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRunDaemonDrivesTicksAndSignalsGardenRefresh(t *testing.T) {
	t.Parallel()
	plant := gardendto.PlantOutput{Type: "sprout", Variant: "Seedling"}
	session := newFakeSession(
		tickResult{},
		tickResult{err: apperrors.ErrStoreUnavailable},
		tickResult{out: sessiondto.TickOutput{Completed: &sessiondto.CompletionOutput{Plant: &plant}}},
	)
	ticker := &fakeTicker{ch: make(chan time.Time)}
	svc, store := newService(t, session, ticker)

	runErr := make(chan error, 1)
	go func() { runErr <- svc.RunDaemon(context.Background()) }()
	waitTick(t, session)

	launch, err := store.ReadLaunch(context.Background())
	if err != nil {
		t.Fatalf("expected launch record while running: %v", err)
	}
	if launch.PID != os.Getpid() || !launch.StartedAt.Equal(fixedClock{}.Now()) {
		t.Fatalf("unexpected launch record: %+v", launch)
	}
	if _, err := svc.ToggleFocusSession(context.Background(), domain.ToggleFocusSession{Enable: true, Duration: 25, SelectedGoal: "shortTerm-0", PomodoroMode: "pomodoro"}); err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if _, err := svc.ToggleFocusSession(context.Background(), domain.ToggleFocusSession{Enable: false}); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	session.mu.Lock()
	if len(session.started) != 1 || session.started[0].DurationMinutes != 25 || session.started[0].GoalRef != "shortTerm-0" || session.stops != 1 {
		t.Fatalf("unexpected relayed calls: %+v stops=%d", session.started, session.stops)
	}
	session.mu.Unlock()

	ticker.ch <- time.Now()
	waitTick(t, session)
	eventually(t, svc, func(s domain.Status) bool { return s.Online && s.Ticks == 2 && s.GardenRevision == 0 })

	refreshed := make(chan uint64, 1)
	go func() {
		rev, _ := svc.AwaitRefresh(context.Background(), 0, 5*time.Second)
		refreshed <- rev
	}()
	ticker.ch <- time.Now()
	waitTick(t, session)
	select {
	case rev := <-refreshed:
		if rev != 1 {
			t.Fatalf("expected revision 1, got %d", rev)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("refresh was not signalled")
	}

	status, err := svc.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Ticks != 3 || status.Completions != 1 || status.LastTickError != "" {
		t.Fatalf("unexpected status: %+v", status)
	}

	if err := svc.StopDaemon(context.Background()); err != nil {
		t.Fatalf("stop daemon: %v", err)
	}
	select {
	case err := <-runErr:
		if err != nil {
			t.Fatalf("run daemon: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("daemon did not stop")
	}
	if _, err := store.ReadLaunch(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected launch record removed, got %v", err)
	}
}

func TestDaemonStatusReportsLaunchRecord(t *testing.T) {
	t.Parallel()
	svc, store := newService(t, newFakeSession(), &fakeTicker{ch: make(chan time.Time)})
	ctx := context.Background()

	status, err := svc.DaemonStatus(ctx)
	if err != nil {
		t.Fatalf("daemon status: %v", err)
	}
	if status.Running || status.PID != 0 {
		t.Fatalf("expected no daemon, got %+v", status)
	}

	startedAt := time.Date(2026, 6, 1, 8, 30, 0, 0, time.UTC)
	if err := store.WriteLaunch(ctx, domain.Launch{PID: os.Getpid(), StartedAt: startedAt}); err != nil {
		t.Fatalf("write launch: %v", err)
	}
	status, err = svc.DaemonStatus(ctx)
	if err != nil {
		t.Fatalf("daemon status: %v", err)
	}
	if !status.Running || status.PID != os.Getpid() || !status.StartedAt.Equal(startedAt) {
		t.Fatalf("unexpected status: %+v", status)
	}
	if status.Status.Online {
		t.Fatalf("no socket is served, status must be offline: %+v", status.Status)
	}
}

func TestFailedTickIsRecordedAndRetried(t *testing.T) {
	t.Parallel()
	session := newFakeSession(tickResult{err: apperrors.ErrStoreUnavailable}, tickResult{})
	ticker := &fakeTicker{ch: make(chan time.Time)}
	svc, _ := newService(t, session, ticker)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- svc.RunDaemon(ctx) }()
	waitTick(t, session)
	eventually(t, svc, func(s domain.Status) bool { return s.Ticks == 1 && s.LastTickError != "" })

	ticker.ch <- time.Now()
	waitTick(t, session)
	eventually(t, svc, func(s domain.Status) bool { return s.Ticks == 2 && s.LastTickError == "" })

	cancel()
	select {
	case err := <-runErr:
		if err != nil {
			t.Fatalf("run daemon: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("daemon did not stop on cancel")
	}
}

func TestRequestsWithoutDaemonFail(t *testing.T) {
	t.Parallel()
	svc, _ := newService(t, newFakeSession(), &fakeTicker{ch: make(chan time.Time)})
	if _, err := svc.ToggleFocusSession(context.Background(), domain.ToggleFocusSession{Enable: true, Duration: 25}); !errors.Is(err, apperrors.ErrDaemonUnavailable) {
		t.Fatalf("expected daemon unavailable, got %v", err)
	}
	if _, err := svc.AwaitRefresh(context.Background(), 0, time.Second); !errors.Is(err, apperrors.ErrDaemonUnavailable) {
		t.Fatalf("expected daemon unavailable, got %v", err)
	}
	status, err := svc.DaemonStatus(context.Background())
	if err != nil {
		t.Fatalf("daemon status: %v", err)
	}
	if status.Running {
		t.Fatalf("expected not running")
	}
}
