package out

import (
	"context"

	"focusgarden/internal/modules/session/domain"
	sessionout "focusgarden/internal/modules/session/port/out"
	"focusgarden/internal/platform/kv"
)

type KVRecordStore struct {
	store kv.Store
}

func NewKVRecordStore(store kv.Store) sessionout.RecordStore {
	return &KVRecordStore{store: store}
}

func (s *KVRecordStore) Load(ctx context.Context) (domain.Record, error) {
	rec := domain.Idle()
	if _, err := s.store.Get(ctx, kv.KeyFocusSession, &rec); err != nil {
		return domain.Record{}, err
	}
	return rec.Normalize(), nil
}

func (s *KVRecordStore) Save(ctx context.Context, record domain.Record) error {
	return s.store.Set(ctx, map[string]any{kv.KeyFocusSession: record})
}
