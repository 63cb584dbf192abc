package in

import (
	"context"

	"focusgarden/internal/modules/garden/dto"
)

type Usecase interface {
	ProcessCompletedSession(ctx context.Context, input dto.ProcessInput) (dto.ProcessOutput, error)
	State(ctx context.Context) (dto.StateOutput, error)
}
