package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	goalout "focusgarden/internal/modules/goal/adapter/out"
	goaldto "focusgarden/internal/modules/goal/dto"
	goalin "focusgarden/internal/modules/goal/port/in"
	"focusgarden/internal/modules/goal/service"
	"focusgarden/internal/modules/goal/usecase"
	apperrors "focusgarden/internal/platform/errors"
	"focusgarden/internal/platform/kv"
	"focusgarden/internal/platform/tx"
)

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

func newInteractor() (*kv.MemoryStore, goalin.Usecase) {
	store := kv.NewMemoryStore()
	svc := service.NewGoalService(fixedClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}, goalout.NewKVGoalStore(store), tx.NoopManager{})
	return store, usecase.NewInteractor(svc)
}

func TestAddListAndAccrue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, uc := newInteractor()

	first, err := uc.Add(ctx, goaldto.AddInput{Tier: "shortTerm", Title: "Write chapter"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if first.Ref != "shortTerm-0" {
		t.Fatalf("expected shortTerm-0, got %s", first.Ref)
	}
	if _, err := uc.Add(ctx, goaldto.AddInput{Tier: "longTerm", Title: "Learn Go"}); err != nil {
		t.Fatalf("add long term: %v", err)
	}

	listed, err := uc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 || listed[0].Ref != "longTerm-0" || listed[1].Ref != "shortTerm-0" {
		t.Fatalf("expected tier-ordered goals, got %+v", listed)
	}

	accrued, err := uc.AccrueTime(ctx, goaldto.AccrueInput{Ref: "shortTerm-0", Seconds: 1500})
	if err != nil {
		t.Fatalf("accrue: %v", err)
	}
	if accrued.TimeSpent != 1500 || accrued.Progress != 5 {
		t.Fatalf("expected 1500s / 5%%, got %+v", accrued)
	}
}

func TestAddAndAccrueRejectInvalidInput(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, uc := newInteractor()

	if _, err := uc.Add(ctx, goaldto.AddInput{Tier: "someday", Title: "x"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid tier error, got %v", err)
	}
	if _, err := uc.Add(ctx, goaldto.AddInput{Tier: "midTerm", Title: "  "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected empty title error, got %v", err)
	}
	if _, err := uc.AccrueTime(ctx, goaldto.AccrueInput{Ref: "midTerm", Seconds: 60}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected malformed ref error, got %v", err)
	}
	if _, err := uc.AccrueTime(ctx, goaldto.AccrueInput{Ref: "midTerm-3", Seconds: 60}); !errors.Is(err, apperrors.ErrGoalNotFound) {
		t.Fatalf("expected goal not found, got %v", err)
	}
	if _, ok := store.Raw(kv.KeyGoals); ok {
		t.Fatalf("rejected operations must not write the goals record")
	}
}

func TestAddFromSeparateProcessesKeepsEveryGoal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "focusgarden.db")
	clk := fixedClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}

	// each interactor owns its connection and queue, as the daemon and a CLI invocation do
	newProcess := func() goalin.Usecase {
		store, err := kv.NewSQLiteStore(dbPath)
		if err != nil {
			t.Fatalf("open store: %v", err)
		}
		queue := tx.NewSerialManager()
		t.Cleanup(func() {
			queue.Close()
			_ = store.Close()
		})
		return usecase.NewInteractor(service.NewGoalService(clk, goalout.NewKVGoalStore(store), queue))
	}
	processes := []goalin.Usecase{newProcess(), newProcess()}

	const perProcess = 10
	var wg sync.WaitGroup
	errs := make(chan error, len(processes)*perProcess)
	for p, uc := range processes {
		wg.Add(1)
		go func(p int, uc goalin.Usecase) {
			defer wg.Done()
			for i := 0; i < perProcess; i++ {
				_, err := uc.Add(ctx, goaldto.AddInput{Tier: "shortTerm", Title: fmt.Sprintf("goal %d-%d", p, i)})
				errs <- err
			}
		}(p, uc)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	goals, err := processes[0].List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	titles := map[string]bool{}
	for _, g := range goals {
		titles[g.Title] = true
	}
	if len(titles) != len(processes)*perProcess {
		t.Fatalf("expected %d distinct goals, got %d", len(processes)*perProcess, len(titles))
	}
}
