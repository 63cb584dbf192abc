package in

import (
	"context"

	"focusgarden/internal/modules/goal/dto"
)

type Usecase interface {
	Add(ctx context.Context, input dto.AddInput) (dto.GoalOutput, error)
	List(ctx context.Context) ([]dto.GoalOutput, error)
	AccrueTime(ctx context.Context, input dto.AccrueInput) (dto.GoalOutput, error)
}
