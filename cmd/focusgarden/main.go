package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"focusgarden/internal/bootstrap"
	coorddto "focusgarden/internal/modules/coordinator/dto"
	sessiondto "focusgarden/internal/modules/session/dto"
	"focusgarden/internal/platform/config"
	apperrors "focusgarden/internal/platform/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	dataDir   string
	logLevel  string
	ephemeral bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "focusgarden",
		Short:         "Focus timer that grows a garden",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", defaultDataDir(), "directory for the store, socket and journal")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug|info|warn|error (overrides config.yaml)")
	root.PersistentFlags().BoolVar(&opts.ephemeral, "ephemeral", false, "keep state in memory only")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newDaemonCmd(opts))
	root.AddCommand(newFocusCmd(opts))
	root.AddCommand(newBreakCmd(opts))
	root.AddCommand(newGardenCmd(opts))
	root.AddCommand(newStreakCmd(opts))
	root.AddCommand(newGoalCmd(opts))
	root.AddCommand(newStatsCmd(opts))
	root.AddCommand(newJournalCmd(opts))
	return root
}

func defaultDataDir() string {
	if dir := strings.TrimSpace(os.Getenv("FOCUSGARDEN_HOME")); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".focusgarden"
	}
	return filepath.Join(home, ".focusgarden")
}

func loadApp(opts *rootOptions) (*bootstrap.App, error) {
	cfg, err := config.Load(opts.dataDir)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.logLevel) != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.ephemeral {
		return bootstrap.NewEphemeral(cfg)
	}
	return bootstrap.New(cfg)
}

// withApp loads the app, runs fn and releases the store afterwards.
func withApp(opts *rootOptions, fn func(app *bootstrap.App) error) error {
	app, err := loadApp(opts)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(app)
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(opts, bootstrap.RunTUI)
		},
	}
}

func newDaemonCmd(opts *rootOptions) *cobra.Command {
	daemon := &cobra.Command{Use: "daemon", Short: "Manage the coordinator daemon"}
	daemon.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run the coordinator in the foreground",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withApp(opts, func(app *bootstrap.App) error {
				return app.CoordinatorCLI.RunDaemon(ctx)
			})
		},
	})
	daemon.AddCommand(&cobra.Command{
		Use:   "start",
		Short: "Start the coordinator in the background",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				if err := app.CoordinatorCLI.StartDaemon(context.Background()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "daemon started")
				return nil
			})
		},
	})
	daemon.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop the coordinator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				if err := app.CoordinatorCLI.StopDaemon(context.Background()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "daemon stopped")
				return nil
			})
		},
	})
	daemon.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show coordinator status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				status, err := app.CoordinatorCLI.DaemonStatus(context.Background())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "running=%t pid=%d socket=%s\n", status.Running, status.PID, status.SocketPath)
				if !status.StartedAt.IsZero() {
					_, _ = fmt.Fprintf(w, "launched_at=%s\n", status.StartedAt.Local().Format(time.RFC3339))
				}
				if !status.Status.Online {
					return nil
				}
				s := status.Status
				_, _ = fmt.Fprintf(w, "online=%t tick=%s ticks=%d completions=%d garden_revision=%d\n", s.Online, s.TickInterval, s.Ticks, s.Completions, s.GardenRevision)
				if !s.StartedAt.IsZero() {
					_, _ = fmt.Fprintf(w, "started_at=%s last_tick_at=%s\n", s.StartedAt.Format(time.RFC3339), s.LastTickAt.Format(time.RFC3339))
				}
				if s.LastTickError != "" {
					_, _ = fmt.Fprintf(w, "last_tick_error=%s\n", s.LastTickError)
				}
				return nil
			})
		},
	})
	return daemon
}

func newFocusCmd(opts *rootOptions) *cobra.Command {
	focus := &cobra.Command{Use: "focus", Short: "Focus session commands"}

	var minutes int
	var goalRef, mode string
	var force bool
	start := &cobra.Command{
		Use:   "start --minutes <n>",
		Short: "Start a focus session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.CoordinatorCLI.StartFocus(context.Background(), minutes, goalRef, mode, force)
				if err != nil {
					return explain(err)
				}
				printSession(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	start.Flags().IntVar(&minutes, "minutes", 25, "session length in minutes")
	start.Flags().StringVar(&goalRef, "goal", "", "goal reference, e.g. shortTerm-0")
	start.Flags().StringVar(&mode, "mode", "pomodoro", "pomodoro|deepFocus|custom")
	start.Flags().BoolVar(&force, "force", false, "replace a running session")
	focus.AddCommand(start)

	focus.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop the running session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.CoordinatorCLI.StopFocus(context.Background())
				if err != nil {
					return explain(err)
				}
				printSession(cmd.OutOrStdout(), out)
				return nil
			})
		},
	})

	focus.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				ctx := context.Background()
				out, err := app.CoordinatorCLI.Session(ctx)
				if errors.Is(err, apperrors.ErrDaemonUnavailable) {
					out, err = app.SessionCLI.Current(ctx)
					if err == nil {
						_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "coordinator offline; showing stored session")
					}
				}
				if err != nil {
					return err
				}
				printSession(cmd.OutOrStdout(), out)
				return nil
			})
		},
	})

	var next coorddto.NextFocusInput
	nextCmd := &cobra.Command{
		Use:   "next",
		Short: "Start the next focus session for a mode",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.CoordinatorCLI.NextFocus(context.Background(), next)
				if err != nil {
					return explain(err)
				}
				printSession(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	nextCmd.Flags().StringVar(&next.PomodoroMode, "mode", "pomodoro", "pomodoro|deepFocus|custom")
	nextCmd.Flags().BoolVar(&next.IsFirstSession, "first", false, "first pomodoro of the day (25 instead of 50 minutes)")
	nextCmd.Flags().IntVar(&next.CustomDuration, "minutes", 0, "length for custom mode")
	nextCmd.Flags().StringVar(&next.SelectedGoal, "goal", "", "goal reference, e.g. shortTerm-0")
	nextCmd.Flags().BoolVar(&next.Force, "force", false, "replace a running session")
	focus.AddCommand(nextCmd)

	return focus
}

func newBreakCmd(opts *rootOptions) *cobra.Command {
	brk := &cobra.Command{Use: "break", Short: "Break commands"}

	var long, force bool
	var mode string
	start := &cobra.Command{
		Use:   "start",
		Short: "Start a break",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.CoordinatorCLI.StartBreak(context.Background(), long, mode, force)
				if err != nil {
					return explain(err)
				}
				printSession(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	start.Flags().BoolVar(&long, "long", false, "long break")
	start.Flags().StringVar(&mode, "mode", "pomodoro", "pomodoro|deepFocus|custom")
	start.Flags().BoolVar(&force, "force", false, "replace a running session")
	brk.AddCommand(start)

	var breakTime, longBreak bool
	var count int
	var stateMode string
	state := &cobra.Command{
		Use:   "state",
		Short: "Overwrite cadence bookkeeping",
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := coorddto.BreakStateInput{IsBreakTime: breakTime, PomodoroMode: stateMode}
			if cmd.Flags().Changed("long") {
				input.IsLongBreak = &longBreak
			}
			if cmd.Flags().Changed("count") {
				input.PomodoroCount = &count
			}
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.CoordinatorCLI.UpdateBreakState(context.Background(), input)
				if err != nil {
					return explain(err)
				}
				printSession(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	state.Flags().BoolVar(&breakTime, "break-time", false, "a break is due")
	state.Flags().BoolVar(&longBreak, "long", false, "next break is long")
	state.Flags().IntVar(&count, "count", 0, "completed pomodoros")
	state.Flags().StringVar(&stateMode, "mode", "", "pomodoro|deepFocus|custom (unchanged when empty)")
	brk.AddCommand(state)

	return brk
}

func newGardenCmd(opts *rootOptions) *cobra.Command {
	garden := &cobra.Command{Use: "garden", Short: "Garden commands"}
	garden.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "List plants and the weekly summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				state, err := app.GardenCLI.State(context.Background())
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if len(state.Plants) == 0 {
					_, _ = fmt.Fprintln(w, "no plants")
				}
				for _, p := range state.Plants {
					line := fmt.Sprintf("%s\t%s\t%s\t%s", p.Icon, p.Type, p.Variant, p.CreatedAt.Local().Format("2006-01-02 15:04"))
					switch {
					case p.IsStreakReward:
						line += fmt.Sprintf("\tstreak=%d", p.StreakDays)
					case p.IsProgressReward:
						line += "\tprogress reward"
					case len(p.EvolvedFrom) > 0:
						line += "\tevolved from " + strings.Join(p.EvolvedFrom, ",")
					}
					_, _ = fmt.Fprintln(w, line)
				}
				if state.Summary != nil {
					_, _ = fmt.Fprintf(w, "\n%s\n", state.Summary.Message)
				}
				return nil
			})
		},
	})
	return garden
}

func newStreakCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the daily focus streak",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				state, err := app.GardenCLI.State(context.Background())
				if err != nil {
					return err
				}
				s := state.Streaks
				last := "never"
				if s.LastSessionDate != nil {
					last = s.LastSessionDate.Local().Format("2006-01-02")
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "current=%d longest=%d last=%s\n", s.Current, s.LongestStreak, last)
				return nil
			})
		},
	}
}

func newGoalCmd(opts *rootOptions) *cobra.Command {
	goal := &cobra.Command{Use: "goal", Short: "Goal commands"}

	var tier, title, deadline string
	add := &cobra.Command{
		Use:   "add --tier <tier> --title <title>",
		Short: "Add a goal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(title) == "" {
				return fmt.Errorf("--title is required")
			}
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.GoalCLI.Add(context.Background(), tier, title, deadline)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "goal added: %s %s\n", out.Ref, out.Title)
				return nil
			})
		},
	}
	add.Flags().StringVar(&tier, "tier", "shortTerm", "longTerm|midTerm|shortTerm")
	add.Flags().StringVar(&title, "title", "", "goal title")
	add.Flags().StringVar(&deadline, "deadline", "", "free-form deadline")
	goal.AddCommand(add)

	goal.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List goals with progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				goals, err := app.GoalCLI.List(context.Background())
				if err != nil {
					return err
				}
				if len(goals) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no goals")
					return nil
				}
				for _, g := range goals {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d%%\t%ds\n", g.Ref, g.Title, g.Progress, g.TimeSpent)
				}
				return nil
			})
		},
	})
	return goal
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completed focus totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				stats, err := app.SessionCLI.Stats(context.Background())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sessions=%d focus=%s\n", stats.TotalSessions, stats.TotalFocusTime)
				return nil
			})
		},
	}
}

func newJournalCmd(opts *rootOptions) *cobra.Command {
	journal := &cobra.Command{Use: "journal", Short: "Free-text journal for a day"}

	var day string
	var appendLine bool
	write := &cobra.Command{
		Use:   "write [text...]",
		Short: "Replace the day's journal text (reads stdin when no text is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read journal text: %w", err)
				}
				text = string(raw)
			}
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.DailyLogCLI.Write(context.Background(), day, text, appendLine)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "journal saved for %s\n", out.Day)
				return nil
			})
		},
	}
	write.Flags().StringVar(&day, "day", "", "day as YYYY-MM-DD (default today)")
	write.Flags().BoolVar(&appendLine, "append", false, "add a line instead of replacing the text")
	journal.AddCommand(write)

	var showDay string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the day's journal text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(opts, func(app *bootstrap.App) error {
				out, err := app.DailyLogCLI.Show(context.Background(), showDay)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if out.UpdatedAt == nil {
					_, _ = fmt.Fprintf(w, "no journal for %s\n", out.Day)
					return nil
				}
				_, _ = fmt.Fprintf(w, "%s (updated %s)\n\n%s\n", out.Day, out.UpdatedAt.Local().Format("15:04"), out.Text)
				return nil
			})
		},
	}
	show.Flags().StringVar(&showDay, "day", "", "day as YYYY-MM-DD (default today)")
	journal.AddCommand(show)

	return journal
}

func printSession(w io.Writer, s sessiondto.SessionOutput) {
	if !s.IsActive {
		_, _ = fmt.Fprintf(w, "idle mode=%s pomodoros=%d long_break_next=%t\n", s.Mode, s.PomodoroCount, s.IsLongBreak)
		return
	}
	kind := "focus"
	if s.IsBreak {
		kind = "break"
	}
	line := fmt.Sprintf("%s %dm mode=%s remaining=%s pomodoros=%d", kind, s.DurationMinutes, s.Mode, formatClock(s.RemainingSeconds), s.PomodoroCount)
	if s.GoalRef != "" {
		line += " goal=" + s.GoalRef
	}
	_, _ = fmt.Fprintln(w, line)
}

func formatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func explain(err error) error {
	if errors.Is(err, apperrors.ErrDaemonUnavailable) {
		return fmt.Errorf("%w: run `focusgarden daemon start` first", err)
	}
	if errors.Is(err, apperrors.ErrActiveSessionExists) {
		return fmt.Errorf("%w: pass --force to replace it", err)
	}
	return err
}
