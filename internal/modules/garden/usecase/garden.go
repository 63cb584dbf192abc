package usecase

import (
	"context"

	"focusgarden/internal/modules/garden/domain"
	gardendto "focusgarden/internal/modules/garden/dto"
	gardenin "focusgarden/internal/modules/garden/port/in"
	"focusgarden/internal/modules/garden/service"
)

type Interactor struct {
	svc *service.GardenService
}

func NewInteractor(svc *service.GardenService) gardenin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) ProcessCompletedSession(ctx context.Context, input gardendto.ProcessInput) (gardendto.ProcessOutput, error) {
	outcome, err := i.svc.ProcessCompletedSession(ctx, domain.CompletedSession{
		DurationMinutes: input.DurationMinutes,
		GoalRef:         input.GoalRef,
	})
	if err != nil {
		return gardendto.ProcessOutput{}, err
	}
	return gardendto.ProcessOutput{
		NewPlant:   toPlant(outcome.NewPlant),
		Plants:     toPlants(outcome.Garden.Plants),
		Streaks:    toStreaks(outcome.Streaks),
		Summary:    toSummary(outcome.Garden.LastWeekSummary),
		Evolutions: toPlants(outcome.Evolutions),
	}, nil
}

func (i *Interactor) State(ctx context.Context) (gardendto.StateOutput, error) {
	garden, streaks, err := i.svc.State(ctx)
	if err != nil {
		return gardendto.StateOutput{}, err
	}
	return gardendto.StateOutput{
		Plants:  toPlants(garden.Plants),
		Streaks: toStreaks(streaks),
		Summary: toSummary(garden.LastWeekSummary),
	}, nil
}

func toPlants(plants []domain.Plant) []gardendto.PlantOutput {
	out := make([]gardendto.PlantOutput, 0, len(plants))
	for _, p := range plants {
		out = append(out, toPlant(p))
	}
	return out
}

func toPlant(p domain.Plant) gardendto.PlantOutput {
	return gardendto.PlantOutput{
		Type:                   string(p.Type),
		Variant:                p.Variant,
		Icon:                   p.Icon,
		CreatedAt:              p.CreatedAt,
		SessionDurationMinutes: p.SessionDurationMinutes,
		GoalRef:                p.GoalRef,
		EvolvedFrom:            p.EvolvedFrom,
		IsStreakReward:         p.IsStreakReward,
		StreakDays:             p.StreakDays,
		IsProgressReward:       p.IsProgressReward,
	}
}

func toStreaks(s domain.Streaks) gardendto.StreakOutput {
	return gardendto.StreakOutput{Current: s.Current, LongestStreak: s.LongestStreak, LastSessionDate: s.LastSessionDate}
}

func toSummary(s *domain.WeeklySummary) *gardendto.SummaryOutput {
	if s == nil {
		return nil
	}
	counts := make(map[string]int, len(s.PlantCounts))
	for t, n := range s.PlantCounts {
		counts[string(t)] = n
	}
	return &gardendto.SummaryOutput{Date: s.Date, PlantCount: s.PlantCount, PlantCounts: counts, Message: s.Message}
}
