package in

import (
	"context"

	gardendto "focusgarden/internal/modules/garden/dto"
	gardenin "focusgarden/internal/modules/garden/port/in"
)

type CLIHandler struct {
	usecase gardenin.Usecase
}

func NewCLIHandler(usecase gardenin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) State(ctx context.Context) (gardendto.StateOutput, error) {
	return h.usecase.State(ctx)
}
