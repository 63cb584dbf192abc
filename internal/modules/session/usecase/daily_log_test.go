package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	sessionout "focusgarden/internal/modules/session/adapter/out"
	"focusgarden/internal/modules/session/domain"
	sessiondto "focusgarden/internal/modules/session/dto"
	"focusgarden/internal/modules/session/usecase"
	apperrors "focusgarden/internal/platform/errors"
	"focusgarden/internal/platform/kv"
)

func TestDailyLogWriteAppendAndShow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	// 02:00 UTC is still the previous evening five hours west
	clk := &manualClock{now: time.Date(2026, 6, 2, 2, 0, 0, 0, time.UTC)}
	store := kv.NewMemoryStore()
	uc := usecase.NewDailyLogInteractor(clk, sessionout.NewKVDailyLogStore(store), time.FixedZone("UTC-5", -5*60*60))

	empty, err := uc.DailyLog(ctx, "")
	if err != nil {
		t.Fatalf("read empty: %v", err)
	}
	if empty.Day != "2026-06-01" || empty.Text != "" || empty.UpdatedAt != nil {
		t.Fatalf("unexpected empty log: %+v", empty)
	}

	if _, err := uc.WriteDailyLog(ctx, sessiondto.DailyLogInput{Text: "Drafted chapter two.\n"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	clk.Advance(time.Minute)
	out, err := uc.WriteDailyLog(ctx, sessiondto.DailyLogInput{Text: "Tired after lunch.", Append: true})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if out.Text != "Drafted chapter two.\nTired after lunch." {
		t.Fatalf("unexpected text %q", out.Text)
	}

	shown, err := uc.DailyLog(ctx, "2026-06-01")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if shown.Text != out.Text || shown.UpdatedAt == nil || !shown.UpdatedAt.Equal(clk.Now()) {
		t.Fatalf("unexpected stored log: %+v", shown)
	}

	if _, err := uc.WriteDailyLog(ctx, sessiondto.DailyLogInput{Day: "2026-05-31", Text: "Rest day."}); err != nil {
		t.Fatalf("write other day: %v", err)
	}
	replaced, err := uc.WriteDailyLog(ctx, sessiondto.DailyLogInput{Text: "Rewritten."})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if replaced.Text != "Rewritten." {
		t.Fatalf("write without append must replace, got %q", replaced.Text)
	}
	other, err := uc.DailyLog(ctx, "2026-05-31")
	if err != nil || other.Text != "Rest day." {
		t.Fatalf("other day disturbed: %+v err=%v", other, err)
	}
}

func TestDailyLogRejectsBadInputWithoutWriting(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &manualClock{now: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)}
	store := kv.NewMemoryStore()
	uc := usecase.NewDailyLogInteractor(clk, sessionout.NewKVDailyLogStore(store), time.UTC)

	if _, err := uc.WriteDailyLog(ctx, sessiondto.DailyLogInput{Day: "June 1", Text: "x"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid day, got %v", err)
	}
	tooLong := strings.Repeat("a", domain.MaxDailyLogRunes+1)
	if _, err := uc.WriteDailyLog(ctx, sessiondto.DailyLogInput{Text: tooLong}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid length, got %v", err)
	}
	if _, ok := store.Raw(kv.KeyDailyLog); ok {
		t.Fatalf("rejected writes must not touch the store")
	}
}
