package in

import (
	"context"

	sessiondto "focusgarden/internal/modules/session/dto"
	sessionin "focusgarden/internal/modules/session/port/in"
)

type DailyLogCLIHandler struct {
	usecase sessionin.DailyLogUsecase
}

func NewDailyLogCLIHandler(usecase sessionin.DailyLogUsecase) DailyLogCLIHandler {
	return DailyLogCLIHandler{usecase: usecase}
}

func (h DailyLogCLIHandler) Write(ctx context.Context, day, text string, appendLine bool) (sessiondto.DailyLogOutput, error) {
	return h.usecase.WriteDailyLog(ctx, sessiondto.DailyLogInput{Day: day, Text: text, Append: appendLine})
}

func (h DailyLogCLIHandler) Show(ctx context.Context, day string) (sessiondto.DailyLogOutput, error) {
	return h.usecase.DailyLog(ctx, day)
}
