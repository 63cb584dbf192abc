package in

import (
	"context"

	goaldto "focusgarden/internal/modules/goal/dto"
	goalin "focusgarden/internal/modules/goal/port/in"
)

type CLIHandler struct {
	usecase goalin.Usecase
}

func NewCLIHandler(usecase goalin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, tier, title, deadline string) (goaldto.GoalOutput, error) {
	return h.usecase.Add(ctx, goaldto.AddInput{Tier: tier, Title: title, Deadline: deadline})
}

func (h CLIHandler) List(ctx context.Context) ([]goaldto.GoalOutput, error) {
	return h.usecase.List(ctx)
}
