package out

import (
	"context"

	"focusgarden/internal/modules/session/domain"
)

// RecordStore holds the session singleton. Load returns domain.Idle when
// nothing has been stored.
type RecordStore interface {
	Load(ctx context.Context) (domain.Record, error)
	Save(ctx context.Context, record domain.Record) error
}

type CompletedLog interface {
	Append(ctx context.Context, session domain.CompletedSession) error
	List(ctx context.Context) ([]domain.CompletedSession, error)
}

// Notifier delivers the completion notice. Implementations must not block
// on user interaction.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Journal records finished sessions outside the store, e.g. as notes.
type Journal interface {
	Record(ctx context.Context, entry domain.JournalEntry) (string, error)
}

// DailyLogStore keeps one DailyLog per day. Update must not interleave
// with another writer of the same store.
type DailyLogStore interface {
	Get(ctx context.Context, day string) (domain.DailyLog, bool, error)
	Update(ctx context.Context, day string, fn func(log *domain.DailyLog) error) error
}
