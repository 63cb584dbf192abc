package service

import (
	"context"
	"fmt"
	"strings"

	"focusgarden/internal/modules/goal/domain"
	goalout "focusgarden/internal/modules/goal/port/out"
	"focusgarden/internal/platform/clock"
	apperrors "focusgarden/internal/platform/errors"
	"focusgarden/internal/platform/tx"
)

type GoalService struct {
	clock clock.Clock
	store goalout.GoalStore
	tx    tx.Manager
}

func NewGoalService(clock clock.Clock, store goalout.GoalStore, txm tx.Manager) *GoalService {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &GoalService{clock: clock, store: store, tx: txm}
}

func (s *GoalService) Add(ctx context.Context, tier domain.Tier, title, deadline string) (domain.Ref, domain.Goal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Ref{}, domain.Goal{}, fmt.Errorf("%w: goal title is required", apperrors.ErrInvalidInput)
	}
	var (
		ref  domain.Ref
		goal domain.Goal
	)
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		return s.store.Update(ctx, func(goals domain.Goals) error {
			goal = domain.Goal{Title: title, Deadline: strings.TrimSpace(deadline), CreatedAt: s.clock.Now()}
			goals[tier] = append(goals[tier], goal)
			ref = domain.Ref{Tier: tier, Index: len(goals[tier]) - 1}
			return nil
		})
	})
	if err != nil {
		return domain.Ref{}, domain.Goal{}, err
	}
	return ref, goal, nil
}

func (s *GoalService) List(ctx context.Context) (domain.Goals, error) {
	return s.store.Load(ctx)
}

// Accrue adds focus seconds to a goal. A reference that does not resolve
// fails with ErrGoalNotFound and leaves the store untouched.
func (s *GoalService) Accrue(ctx context.Context, ref domain.Ref, seconds int) (domain.Goal, error) {
	var goal domain.Goal
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		return s.store.Update(ctx, func(goals domain.Goals) error {
			var err error
			goal, err = goals.Accrue(ref, seconds)
			return err
		})
	})
	if err != nil {
		return domain.Goal{}, err
	}
	return goal, nil
}
