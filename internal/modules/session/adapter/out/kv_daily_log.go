package out

import (
	"context"

	"focusgarden/internal/modules/session/domain"
	sessionout "focusgarden/internal/modules/session/port/out"
	"focusgarden/internal/platform/kv"
)

// KVDailyLogStore keeps every day's log in one document keyed by day.
type KVDailyLogStore struct {
	store kv.Store
}

func NewKVDailyLogStore(store kv.Store) sessionout.DailyLogStore {
	return &KVDailyLogStore{store: store}
}

func (s *KVDailyLogStore) Get(ctx context.Context, day string) (domain.DailyLog, bool, error) {
	logs := map[string]domain.DailyLog{}
	if _, err := s.store.Get(ctx, kv.KeyDailyLog, &logs); err != nil {
		return domain.DailyLog{}, false, err
	}
	log, ok := logs[day]
	return log, ok, nil
}

func (s *KVDailyLogStore) Update(ctx context.Context, day string, fn func(log *domain.DailyLog) error) error {
	logs := map[string]domain.DailyLog{}
	return s.store.Update(ctx, kv.KeyDailyLog, &logs, func(bool) error {
		if logs == nil {
			logs = map[string]domain.DailyLog{}
		}
		log, ok := logs[day]
		if !ok {
			log = domain.DailyLog{Date: day}
		}
		if err := fn(&log); err != nil {
			return err
		}
		logs[day] = log
		return nil
	})
}
