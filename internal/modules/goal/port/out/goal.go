package out

import (
	"context"

	"focusgarden/internal/modules/goal/domain"
)

type GoalStore interface {
	Load(ctx context.Context) (domain.Goals, error)
	// Update hands fn the stored goals and persists what fn leaves behind.
	// Another process writing goals at the same time waits for it.
	Update(ctx context.Context, fn func(goals domain.Goals) error) error
}
