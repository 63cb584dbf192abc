package out

import (
	"context"

	"focusgarden/internal/modules/garden/domain"
)

// GardenStore persists the garden and streak records together. Save must
// write both or neither.
type GardenStore interface {
	Load(ctx context.Context) (domain.Garden, domain.Streaks, error)
	Save(ctx context.Context, garden domain.Garden, streaks domain.Streaks) error
}
