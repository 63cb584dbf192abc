package out

import (
	"context"

	"focusgarden/internal/modules/garden/domain"
	gardenout "focusgarden/internal/modules/garden/port/out"
	"focusgarden/internal/platform/kv"
)

type KVGardenStore struct {
	store kv.Store
}

func NewKVGardenStore(store kv.Store) gardenout.GardenStore {
	return &KVGardenStore{store: store}
}

func (s *KVGardenStore) Load(ctx context.Context) (domain.Garden, domain.Streaks, error) {
	garden := domain.Garden{}
	if _, err := s.store.Get(ctx, kv.KeyGarden, &garden); err != nil {
		return domain.Garden{}, domain.Streaks{}, err
	}
	if garden.Plants == nil {
		garden.Plants = []domain.Plant{}
	}
	streaks := domain.Streaks{}
	if _, err := s.store.Get(ctx, kv.KeyStreaks, &streaks); err != nil {
		return domain.Garden{}, domain.Streaks{}, err
	}
	return garden, streaks, nil
}

func (s *KVGardenStore) Save(ctx context.Context, garden domain.Garden, streaks domain.Streaks) error {
	return s.store.Set(ctx, map[string]any{
		kv.KeyGarden:  garden,
		kv.KeyStreaks: streaks,
	})
}
