package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"focusgarden/internal/modules/garden/domain"
	gardenout "focusgarden/internal/modules/garden/port/out"
	"focusgarden/internal/platform/clock"
	apperrors "focusgarden/internal/platform/errors"
	"focusgarden/internal/platform/logging"
	"focusgarden/internal/platform/random"
	"focusgarden/internal/platform/tx"
)

type GardenService struct {
	clock  clock.Clock
	grower domain.Grower
	store  gardenout.GardenStore
	tx     tx.Manager
	logger *slog.Logger
}

// NewGardenService wires the evolution engine. txm must serialize every
// garden writer in the process; a SerialManager shared by nothing else is
// the expected choice.
func NewGardenService(clock clock.Clock, rng random.Source, loc *time.Location, store gardenout.GardenStore, txm tx.Manager, logger *slog.Logger) *GardenService {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &GardenService{
		clock:  clock,
		grower: domain.Grower{Rng: rng, Location: loc},
		store:  store,
		tx:     txm,
		logger: logging.OrDiscard(logger),
	}
}

// ProcessCompletedSession applies one completed focus session to the
// garden and streaks as a single read-modify-write.
func (s *GardenService) ProcessCompletedSession(ctx context.Context, session domain.CompletedSession) (domain.Outcome, error) {
	if session.DurationMinutes <= 0 {
		return domain.Outcome{}, fmt.Errorf("%w: session duration must be positive", apperrors.ErrInvalidInput)
	}
	var outcome domain.Outcome
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		garden, streaks, err := s.store.Load(ctx)
		if err != nil {
			return fmt.Errorf("load garden: %w", err)
		}
		outcome = s.grower.Grow(garden, streaks, session, s.clock.Now())
		if err := s.store.Save(ctx, outcome.Garden, outcome.Streaks); err != nil {
			return fmt.Errorf("save garden: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Outcome{}, err
	}
	s.logger.Info("garden grew",
		"plant", outcome.NewPlant.Variant,
		"type", outcome.NewPlant.Type,
		"evolutions", len(outcome.Evolutions),
		"streak", outcome.Streaks.Current,
		"plants", len(outcome.Garden.Plants),
	)
	return outcome, nil
}

func (s *GardenService) State(ctx context.Context) (domain.Garden, domain.Streaks, error) {
	return s.store.Load(ctx)
}
