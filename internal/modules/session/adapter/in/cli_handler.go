package in

import (
	"context"

	sessiondto "focusgarden/internal/modules/session/dto"
	sessionin "focusgarden/internal/modules/session/port/in"
)

// CLIHandler serves the read-only commands that work without a running
// daemon.
type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Current(ctx context.Context) (sessiondto.SessionOutput, error) {
	return h.usecase.Current(ctx)
}

func (h CLIHandler) Stats(ctx context.Context) (sessiondto.StatsOutput, error) {
	return h.usecase.Stats(ctx)
}
