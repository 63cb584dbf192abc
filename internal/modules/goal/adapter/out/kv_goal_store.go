package out

import (
	"context"

	"focusgarden/internal/modules/goal/domain"
	goalout "focusgarden/internal/modules/goal/port/out"
	"focusgarden/internal/platform/kv"
)

type KVGoalStore struct {
	store kv.Store
}

func NewKVGoalStore(store kv.Store) goalout.GoalStore {
	return &KVGoalStore{store: store}
}

func (s *KVGoalStore) Load(ctx context.Context) (domain.Goals, error) {
	goals := domain.Goals{}
	if _, err := s.store.Get(ctx, kv.KeyGoals, &goals); err != nil {
		return nil, err
	}
	return withAllTiers(goals), nil
}

func (s *KVGoalStore) Update(ctx context.Context, fn func(goals domain.Goals) error) error {
	goals := domain.Goals{}
	return s.store.Update(ctx, kv.KeyGoals, &goals, func(bool) error {
		goals = withAllTiers(goals)
		return fn(goals)
	})
}

func withAllTiers(goals domain.Goals) domain.Goals {
	if goals == nil {
		goals = domain.Goals{}
	}
	for _, tier := range domain.Tiers {
		if goals[tier] == nil {
			goals[tier] = []domain.Goal{}
		}
	}
	return goals
}
