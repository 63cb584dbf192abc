package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	cadence "focusgarden/internal/modules/cadence/domain"
	gardendto "focusgarden/internal/modules/garden/dto"
	gardenin "focusgarden/internal/modules/garden/port/in"
	goal "focusgarden/internal/modules/goal/domain"
	goaldto "focusgarden/internal/modules/goal/dto"
	goalin "focusgarden/internal/modules/goal/port/in"
	"focusgarden/internal/modules/session/domain"
	sessiondto "focusgarden/internal/modules/session/dto"
	sessionin "focusgarden/internal/modules/session/port/in"
	sessionout "focusgarden/internal/modules/session/port/out"
	"focusgarden/internal/modules/session/service"
	apperrors "focusgarden/internal/platform/errors"
	"focusgarden/internal/platform/id"
	"focusgarden/internal/platform/logging"
)

// Collaborators are the side effects of a completed session. Goals,
// Garden and Journal may be nil.
type Collaborators struct {
	Goals           goalin.Usecase
	Garden          gardenin.Usecase
	Log             sessionout.CompletedLog
	Notifier        sessionout.Notifier
	Journal         sessionout.Journal
	IDs             id.Generator
	AutoStartBreaks bool
	Logger          *slog.Logger
}

type Interactor struct {
	svc    *service.ClockService
	deps   Collaborators
	logger *slog.Logger
}

func NewInteractor(svc *service.ClockService, deps Collaborators) sessionin.Usecase {
	if deps.IDs == nil {
		deps.IDs = id.UUID{}
	}
	return &Interactor{svc: svc, deps: deps, logger: logging.OrDiscard(deps.Logger)}
}

func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.SessionOutput, error) {
	mode, err := cadence.ParseMode(input.Mode)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	ref, err := parseGoalRef(input.GoalRef)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	rec, err := i.svc.Start(ctx, domain.StartParams{
		DurationMinutes: input.DurationMinutes,
		Goal:            ref,
		IsBreak:         input.IsBreak,
		Mode:            mode,
		Force:           input.Force,
	})
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return i.toOutput(rec), nil
}

func (i *Interactor) Stop(ctx context.Context) (sessiondto.SessionOutput, error) {
	rec, err := i.svc.Stop(ctx)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return i.toOutput(rec), nil
}

func (i *Interactor) UpdateBreakState(ctx context.Context, input sessiondto.BreakStateInput) (sessiondto.SessionOutput, error) {
	patch := domain.CadencePatch{
		IsBreakTime:   input.IsBreakTime,
		IsLongBreak:   input.IsLongBreak,
		PomodoroCount: input.PomodoroCount,
	}
	if strings.TrimSpace(input.Mode) != "" {
		mode, err := cadence.ParseMode(input.Mode)
		if err != nil {
			return sessiondto.SessionOutput{}, err
		}
		patch.Mode = &mode
	}
	rec, err := i.svc.PatchCadence(ctx, patch)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return i.toOutput(rec), nil
}

// StartBreak sizes the break by mode: pomodoro 15 or 5 minutes by
// IsLongBreak, deep focus 17, custom by the length of the last focus.
func (i *Interactor) StartBreak(ctx context.Context, input sessiondto.StartBreakInput) (sessiondto.SessionOutput, error) {
	mode, err := cadence.ParseMode(input.Mode)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	current, err := i.svc.Current(ctx)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	rec, err := i.svc.Start(ctx, domain.StartParams{
		DurationMinutes: cadence.BreakMinutes(mode, input.IsLongBreak, current.LastFocusMinutes),
		IsBreak:         true,
		Mode:            mode,
		Force:           input.Force,
	})
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return i.toOutput(rec), nil
}

func (i *Interactor) StartNextFocus(ctx context.Context, input sessiondto.NextFocusInput) (sessiondto.SessionOutput, error) {
	mode, err := cadence.ParseMode(input.Mode)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	ref, err := parseGoalRef(input.GoalRef)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	minutes, err := cadence.NextFocusMinutes(mode, input.IsFirstSession, input.CustomDuration)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	rec, err := i.svc.Start(ctx, domain.StartParams{
		DurationMinutes: minutes,
		Goal:            ref,
		Mode:            mode,
		Force:           input.Force,
	})
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return i.toOutput(rec), nil
}

func (i *Interactor) Current(ctx context.Context) (sessiondto.SessionOutput, error) {
	rec, err := i.svc.Current(ctx)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return i.toOutput(rec), nil
}

func (i *Interactor) Stats(ctx context.Context) (sessiondto.StatsOutput, error) {
	if i.deps.Log == nil {
		return sessiondto.StatsOutput{TotalFocusTime: domain.FormatMinutes(0)}, nil
	}
	entries, err := i.deps.Log.List(ctx)
	if err != nil {
		return sessiondto.StatsOutput{}, err
	}
	stats := domain.Aggregate(entries)
	return sessiondto.StatsOutput{
		TotalSessions:     stats.TotalSessions,
		TotalFocusMinutes: stats.TotalFocusMinutes,
		TotalFocusTime:    domain.FormatMinutes(stats.TotalFocusMinutes),
	}, nil
}

// Tick advances the clock and, on natural expiry, runs the completion side
// effects. Failures of independent side effects do not stop the others;
// they are joined into the returned error.
func (i *Interactor) Tick(ctx context.Context) (sessiondto.TickOutput, error) {
	rec, event, decision, err := i.svc.Tick(ctx)
	if err != nil {
		return sessiondto.TickOutput{}, err
	}
	out := sessiondto.TickOutput{Session: i.toOutput(rec)}
	if event == nil {
		return out, nil
	}
	completion, next, err := i.complete(ctx, *event, *decision)
	out.Completed = &completion
	if next != nil {
		out.Session = i.toOutput(*next)
	}
	return out, err
}

func (i *Interactor) complete(ctx context.Context, event domain.CompletionEvent, decision cadence.Decision) (sessiondto.CompletionOutput, *domain.Record, error) {
	out := sessiondto.CompletionOutput{
		FinalElapsedSeconds: event.FinalElapsedSeconds,
		IsBreak:             event.IsBreak,
		Mode:                string(event.Mode),
		DurationMinutes:     event.DurationMinutes,
		CompletedAt:         event.CompletedAt,
		NextPhase:           string(decision.NextPhase),
		NextDurationMinutes: decision.NextDurationMinutes,
	}
	if event.GoalRef != nil {
		out.GoalRef = event.GoalRef.String()
	}
	logger := i.logger.With("goal", out.GoalRef, "break", event.IsBreak, "minutes", event.DurationMinutes)
	logger.Info("session complete", "elapsed", event.FinalElapsedSeconds)

	var errs []error
	goalTitle := ""
	if event.GoalRef != nil {
		accrued, err := i.accrue(ctx, out.GoalRef, event.FinalElapsedSeconds)
		switch {
		case errors.Is(err, apperrors.ErrGoalNotFound):
			logger.Warn("goal not found, skipping time accrual")
			out.GoalSkipped = true
		case err != nil:
			errs = append(errs, err)
		default:
			goalTitle = accrued.Title
		}
	}

	if !event.IsBreak {
		if i.deps.Log != nil {
			entry := domain.CompletedSession{DurationMinutes: event.DurationMinutes, CompletedAt: event.CompletedAt, GoalRef: out.GoalRef}
			if err := i.deps.Log.Append(ctx, entry); err != nil {
				errs = append(errs, err)
			}
		}
		if i.deps.Garden != nil {
			grown, err := i.deps.Garden.ProcessCompletedSession(ctx, gardendto.ProcessInput{DurationMinutes: event.DurationMinutes, GoalRef: out.GoalRef})
			if err != nil {
				errs = append(errs, err)
			} else {
				plant := grown.NewPlant
				out.Plant = &plant
				out.Evolutions = grown.Evolutions
			}
		}
	}

	if i.deps.Journal != nil {
		entry := domain.JournalEntry{
			ID:              i.deps.IDs.New(),
			StartedAt:       event.StartedAt,
			CompletedAt:     event.CompletedAt,
			DurationMinutes: event.DurationMinutes,
			IsBreak:         event.IsBreak,
			Mode:            event.Mode,
			GoalRef:         out.GoalRef,
			GoalTitle:       goalTitle,
		}
		if out.Plant != nil {
			entry.PlantVariant, entry.PlantIcon = out.Plant.Variant, out.Plant.Icon
		}
		path, err := i.deps.Journal.Record(ctx, entry)
		if err != nil {
			errs = append(errs, err)
		}
		out.JournalPath = path
	}

	if i.deps.Notifier != nil {
		title, body := completionNotice(event.IsBreak)
		if err := i.deps.Notifier.Notify(ctx, title, body); err != nil {
			logger.Warn("notification failed", "error", err)
		}
	}

	var next *domain.Record
	if i.deps.AutoStartBreaks && decision.NextPhase == cadence.PhaseBreak {
		rec, err := i.svc.Start(ctx, domain.StartParams{DurationMinutes: decision.NextDurationMinutes, IsBreak: true, Mode: event.Mode})
		if err != nil {
			errs = append(errs, err)
		} else {
			next = &rec
			out.AutoStarted = true
		}
	}
	return out, next, errors.Join(errs...)
}

func (i *Interactor) accrue(ctx context.Context, ref string, seconds int) (goaldto.GoalOutput, error) {
	if i.deps.Goals == nil {
		return goaldto.GoalOutput{}, apperrors.ErrGoalNotFound
	}
	return i.deps.Goals.AccrueTime(ctx, goaldto.AccrueInput{Ref: ref, Seconds: seconds})
}

func completionNotice(isBreak bool) (string, string) {
	if isBreak {
		return "Break Complete", "Your break has ended. Ready to focus?"
	}
	return "Focus Session Complete", "Your focus session has ended!"
}

func parseGoalRef(raw string) (*goal.Ref, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	ref, err := goal.ParseRef(raw)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (i *Interactor) toOutput(rec domain.Record) sessiondto.SessionOutput {
	out := sessiondto.SessionOutput{
		IsActive:         rec.IsActive,
		StartTime:        rec.StartTime,
		DurationMinutes:  rec.DurationMinutes,
		ElapsedSeconds:   rec.ElapsedSeconds,
		RemainingSeconds: i.svc.Remaining(rec),
		IsBreak:          rec.IsBreak,
		PomodoroCount:    rec.PomodoroCount,
		IsLongBreak:      rec.IsLongBreak,
		Mode:             string(rec.Mode),
		Version:          rec.Version,
	}
	if rec.SelectedGoal != nil {
		out.GoalRef = rec.SelectedGoal.String()
	}
	return out
}
