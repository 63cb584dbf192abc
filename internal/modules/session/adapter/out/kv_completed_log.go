package out

import (
	"context"

	"focusgarden/internal/modules/session/domain"
	sessionout "focusgarden/internal/modules/session/port/out"
	"focusgarden/internal/platform/id"
	"focusgarden/internal/platform/kv"
)

// KVCompletedLog keeps the completion log as one JSON array. Callers
// serialize appends; the log has no writer other than the coordinator.
type KVCompletedLog struct {
	store kv.Store
	idGen id.Generator
}

func NewKVCompletedLog(store kv.Store, idGen id.Generator) sessionout.CompletedLog {
	return &KVCompletedLog{store: store, idGen: idGen}
}

func (l *KVCompletedLog) Append(ctx context.Context, session domain.CompletedSession) error {
	entries, err := l.List(ctx)
	if err != nil {
		return err
	}
	if session.ID == "" {
		session.ID = l.idGen.New()
	}
	entries = append(entries, session)
	return l.store.Set(ctx, map[string]any{kv.KeyCompletedSessions: entries})
}

func (l *KVCompletedLog) List(ctx context.Context) ([]domain.CompletedSession, error) {
	entries := []domain.CompletedSession{}
	if _, err := l.store.Get(ctx, kv.KeyCompletedSessions, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
