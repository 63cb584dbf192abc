package out_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	out "focusgarden/internal/modules/coordinator/adapter/out"
	"focusgarden/internal/modules/coordinator/domain"
	sessiondto "focusgarden/internal/modules/session/dto"
	apperrors "focusgarden/internal/platform/errors"
)

type fakeIPCHandler struct {
	mu      sync.Mutex
	toggles []domain.ToggleFocusSession
	patched domain.UpdateBreakState
	stopped bool
}

func (h *fakeIPCHandler) ToggleFocusSession(_ context.Context, req domain.ToggleFocusSession) (sessiondto.SessionOutput, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.toggles = append(h.toggles, req)
	if req.Enable && req.Duration <= 0 {
		return sessiondto.SessionOutput{}, fmt.Errorf("%w: duration must be positive", apperrors.ErrInvalidInput)
	}
	if req.Enable && !req.Force && len(h.toggles) > 1 {
		return sessiondto.SessionOutput{}, apperrors.ErrActiveSessionExists
	}
	return sessiondto.SessionOutput{IsActive: req.Enable, DurationMinutes: req.Duration, GoalRef: req.SelectedGoal, Mode: req.PomodoroMode}, nil
}

func (h *fakeIPCHandler) UpdateBreakState(_ context.Context, req domain.UpdateBreakState) (sessiondto.SessionOutput, error) {
	h.mu.Lock()
	h.patched = req
	h.mu.Unlock()
	out := sessiondto.SessionOutput{IsBreak: req.IsBreakTime}
	if req.PomodoroCount != nil {
		out.PomodoroCount = *req.PomodoroCount
	}
	return out, nil
}

func (h *fakeIPCHandler) StartBreak(_ context.Context, req domain.StartBreak) (sessiondto.SessionOutput, error) {
	minutes := 5
	if req.IsLongBreak {
		minutes = 15
	}
	return sessiondto.SessionOutput{IsActive: true, IsBreak: true, DurationMinutes: minutes}, nil
}

func (h *fakeIPCHandler) StartNextFocus(_ context.Context, req domain.StartNextFocus) (sessiondto.SessionOutput, error) {
	return sessiondto.SessionOutput{IsActive: true, DurationMinutes: req.CustomDuration, GoalRef: req.SelectedGoal}, nil
}

func (h *fakeIPCHandler) Session(context.Context) (sessiondto.SessionOutput, error) {
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	return sessiondto.SessionOutput{IsActive: true, StartTime: &start, DurationMinutes: 25, RemainingSeconds: 1200}, nil
}

func (h *fakeIPCHandler) Status(context.Context) (domain.Status, error) {
	return domain.Status{Online: true, PID: 42, Ticks: 7, GardenRevision: 3, TickInterval: time.Second}, nil
}

func (h *fakeIPCHandler) AwaitRefresh(_ context.Context, since uint64, _ time.Duration) (uint64, error) {
	return since + 1, nil
}

func (h *fakeIPCHandler) Stop(context.Context) error {
	h.mu.Lock()
	h.stopped = true
	h.mu.Unlock()
	return nil
}

func TestJSONRPCServerClientContract(t *testing.T) {
	t.Parallel()
	h := &fakeIPCHandler{}
	server := out.NewJSONRPCServer()
	client := out.NewJSONRPCClient()
	socketPath := filepath.Join(t.TempDir(), "coordinator.sock")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(ctx, socketPath, h)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := client.Status(context.Background(), socketPath); err == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	status, err := client.Status(context.Background(), socketPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.Online || status.PID != 42 || status.GardenRevision != 3 || status.TickInterval != time.Second {
		t.Fatalf("unexpected status: %+v", status)
	}

	started, err := client.ToggleFocusSession(context.Background(), socketPath, domain.ToggleFocusSession{Enable: true, Duration: 25, SelectedGoal: "shortTerm-0", PomodoroMode: "pomodoro"})
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !started.IsActive || started.DurationMinutes != 25 || started.GoalRef != "shortTerm-0" {
		t.Fatalf("unexpected toggle output: %+v", started)
	}

	_, err = client.ToggleFocusSession(context.Background(), socketPath, domain.ToggleFocusSession{Enable: true, Duration: 25})
	if !errors.Is(err, apperrors.ErrActiveSessionExists) {
		t.Fatalf("expected active session error across the wire, got %v", err)
	}
	_, err = client.ToggleFocusSession(context.Background(), socketPath, domain.ToggleFocusSession{Enable: true})
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input across the wire, got %v", err)
	}

	count := 3
	long := true
	patched, err := client.UpdateBreakState(context.Background(), socketPath, domain.UpdateBreakState{IsBreakTime: true, IsLongBreak: &long, PomodoroCount: &count})
	if err != nil {
		t.Fatalf("update break state: %v", err)
	}
	if !patched.IsBreak || patched.PomodoroCount != 3 {
		t.Fatalf("unexpected patch output: %+v", patched)
	}
	h.mu.Lock()
	gotLong := h.patched.IsLongBreak != nil && *h.patched.IsLongBreak
	h.mu.Unlock()
	if !gotLong {
		t.Fatalf("optional fields must survive the wire")
	}

	brk, err := client.StartBreak(context.Background(), socketPath, domain.StartBreak{IsLongBreak: true})
	if err != nil || brk.DurationMinutes != 15 {
		t.Fatalf("start break: %+v %v", brk, err)
	}
	next, err := client.StartNextFocus(context.Background(), socketPath, domain.StartNextFocus{PomodoroMode: "custom", CustomDuration: 40, SelectedGoal: "midTerm-1"})
	if err != nil || next.DurationMinutes != 40 || next.GoalRef != "midTerm-1" {
		t.Fatalf("start next focus: %+v %v", next, err)
	}

	session, err := client.Session(context.Background(), socketPath)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if session.StartTime == nil || !session.StartTime.Equal(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected session start time: %v", session.StartTime)
	}

	rev, err := client.AwaitRefresh(context.Background(), socketPath, 4, time.Second)
	if err != nil || rev != 5 {
		t.Fatalf("await refresh: %d %v", rev, err)
	}

	if err := client.Stop(context.Background(), socketPath); err != nil {
		t.Fatalf("stop: %v", err)
	}
	h.mu.Lock()
	stopped := h.stopped
	h.mu.Unlock()
	if !stopped {
		t.Fatalf("expected stop to reach handler")
	}

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("server did not stop")
	}
}

func TestClientReportsUnavailableDaemon(t *testing.T) {
	t.Parallel()
	client := out.NewJSONRPCClient()
	_, err := client.Session(context.Background(), filepath.Join(t.TempDir(), "missing.sock"))
	if !errors.Is(err, apperrors.ErrDaemonUnavailable) {
		t.Fatalf("expected daemon unavailable, got %v", err)
	}
}
