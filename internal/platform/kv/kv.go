// Package kv is the persistent key-value store shared by the coordinator
// and presenters. Values are JSON documents keyed by record name.
package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	apperrors "focusgarden/internal/platform/errors"
)

const (
	KeyFocusSession      = "focusSession"
	KeyGoals             = "goals"
	KeyGarden            = "garden"
	KeyStreaks           = "streaks"
	KeyCompletedSessions = "completedSessions"
	KeyDailyLog          = "dailyLog"
)

type Store interface {
	// Get decodes the value stored under key into dst. found is false when
	// the key has never been written; dst is left untouched in that case.
	Get(ctx context.Context, key string, dst any) (found bool, err error)
	// Set writes every entry or none of them.
	Set(ctx context.Context, entries map[string]any) error
	// Update decodes key into dst, calls fn and writes dst back in one
	// transaction. Writers in other processes cannot interleave with it.
	// found is false for a key never written; dst is left untouched then.
	// Nothing is written when fn fails.
	Update(ctx context.Context, key string, dst any, fn func(found bool) error) error
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", apperrors.ErrStoreUnavailable, op, err)
}

// MemoryStore keeps encoded values in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string][]byte{}}
}

func (s *MemoryStore) Get(_ context.Context, key string, dst any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, unavailable("decode "+key, err)
	}
	return true, nil
}

func (s *MemoryStore) Set(_ context.Context, entries map[string]any) error {
	encoded := make(map[string][]byte, len(entries))
	for key, value := range entries {
		raw, err := json.Marshal(value)
		if err != nil {
			return unavailable("encode "+key, err)
		}
		encoded[key] = raw
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, raw := range encoded {
		s.values[key] = raw
	}
	return nil
}

func (s *MemoryStore) Update(_ context.Context, key string, dst any, fn func(found bool) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, found := s.values[key]
	if found {
		if err := json.Unmarshal(raw, dst); err != nil {
			return unavailable("decode "+key, err)
		}
	}
	if err := fn(found); err != nil {
		return err
	}
	encoded, err := json.Marshal(dst)
	if err != nil {
		return unavailable("encode "+key, err)
	}
	s.values[key] = encoded
	return nil
}

// Raw returns the stored JSON for key, for assertions in tests.
func (s *MemoryStore) Raw(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.values[key]
	return raw, ok
}
