package usecase

import (
	"context"

	"focusgarden/internal/modules/goal/domain"
	goaldto "focusgarden/internal/modules/goal/dto"
	goalin "focusgarden/internal/modules/goal/port/in"
	"focusgarden/internal/modules/goal/service"
)

type Interactor struct {
	svc *service.GoalService
}

func NewInteractor(svc *service.GoalService) goalin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Add(ctx context.Context, input goaldto.AddInput) (goaldto.GoalOutput, error) {
	tier, err := domain.ParseTier(input.Tier)
	if err != nil {
		return goaldto.GoalOutput{}, err
	}
	ref, goal, err := i.svc.Add(ctx, tier, input.Title, input.Deadline)
	if err != nil {
		return goaldto.GoalOutput{}, err
	}
	return toOutput(ref, goal), nil
}

func (i *Interactor) List(ctx context.Context) ([]goaldto.GoalOutput, error) {
	goals, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []goaldto.GoalOutput{}
	for _, tier := range domain.Tiers {
		for idx, goal := range goals[tier] {
			out = append(out, toOutput(domain.Ref{Tier: tier, Index: idx}, goal))
		}
	}
	return out, nil
}

func (i *Interactor) AccrueTime(ctx context.Context, input goaldto.AccrueInput) (goaldto.GoalOutput, error) {
	ref, err := domain.ParseRef(input.Ref)
	if err != nil {
		return goaldto.GoalOutput{}, err
	}
	goal, err := i.svc.Accrue(ctx, ref, input.Seconds)
	if err != nil {
		return goaldto.GoalOutput{}, err
	}
	return toOutput(ref, goal), nil
}

func toOutput(ref domain.Ref, goal domain.Goal) goaldto.GoalOutput {
	return goaldto.GoalOutput{
		Ref:       ref.String(),
		Tier:      string(ref.Tier),
		Title:     goal.Title,
		Deadline:  goal.Deadline,
		Progress:  goal.Progress,
		TimeSpent: goal.TimeSpent,
		CreatedAt: goal.CreatedAt,
	}
}
