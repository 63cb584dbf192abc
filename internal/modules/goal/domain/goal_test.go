package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"focusgarden/internal/modules/goal/domain"
	apperrors "focusgarden/internal/platform/errors"
)

func TestParseRef(t *testing.T) {
	t.Parallel()
	ref, err := domain.ParseRef("shortTerm-0")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ref.Tier != domain.TierShortTerm || ref.Index != 0 {
		t.Fatalf("unexpected ref %+v", ref)
	}
	if ref.String() != "shortTerm-0" {
		t.Fatalf("unexpected string form %s", ref)
	}
	for _, raw := range []string{"", "shortTerm", "weekly-1", "midTerm-x", "longTerm--1"} {
		if _, err := domain.ParseRef(raw); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%q: expected invalid input, got %v", raw, err)
		}
	}
}

func TestRefJSONUsesTextForm(t *testing.T) {
	t.Parallel()
	payload, err := json.Marshal(struct {
		Goal *domain.Ref `json:"selectedGoal"`
	}{Goal: &domain.Ref{Tier: domain.TierMidTerm, Index: 2}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(payload) != `{"selectedGoal":"midTerm-2"}` {
		t.Fatalf("unexpected payload %s", payload)
	}
}

func TestProgressFormula(t *testing.T) {
	t.Parallel()
	cases := map[int]int{0: 0, 1500: 5, 14400: 50, 28800: 100, 40000: 100}
	for seconds, want := range cases {
		if got := domain.Progress(seconds); got != want {
			t.Fatalf("progress(%d): expected %d, got %d", seconds, want, got)
		}
	}
}

func TestAccrueUpdatesTimeAndProgress(t *testing.T) {
	t.Parallel()
	goals := domain.Goals{domain.TierShortTerm: {{Title: "Ship v1", TimeSpent: 1500, Progress: 5}}}
	goal, err := goals.Accrue(domain.Ref{Tier: domain.TierShortTerm, Index: 0}, 1500)
	if err != nil {
		t.Fatalf("accrue: %v", err)
	}
	if goal.TimeSpent != 3000 || goal.Progress != 10 {
		t.Fatalf("unexpected goal %+v", goal)
	}
	if goals[domain.TierShortTerm][0].TimeSpent != 3000 {
		t.Fatalf("accrual must be written back into the tier list")
	}
	if _, err := goals.Accrue(domain.Ref{Tier: domain.TierLongTerm, Index: 0}, 60); !errors.Is(err, apperrors.ErrGoalNotFound) {
		t.Fatalf("expected goal not found, got %v", err)
	}
}
