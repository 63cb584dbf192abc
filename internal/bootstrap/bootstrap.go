package bootstrap

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	coordinatorinadapter "focusgarden/internal/modules/coordinator/adapter/in"
	coordinatoroutadapter "focusgarden/internal/modules/coordinator/adapter/out"
	coordinatorservice "focusgarden/internal/modules/coordinator/service"
	coordinatorusecase "focusgarden/internal/modules/coordinator/usecase"
	gardeninadapter "focusgarden/internal/modules/garden/adapter/in"
	gardenoutadapter "focusgarden/internal/modules/garden/adapter/out"
	gardenservice "focusgarden/internal/modules/garden/service"
	gardenusecase "focusgarden/internal/modules/garden/usecase"
	goalinadapter "focusgarden/internal/modules/goal/adapter/in"
	goaloutadapter "focusgarden/internal/modules/goal/adapter/out"
	goalservice "focusgarden/internal/modules/goal/service"
	goalusecase "focusgarden/internal/modules/goal/usecase"
	sessioninadapter "focusgarden/internal/modules/session/adapter/in"
	sessionoutadapter "focusgarden/internal/modules/session/adapter/out"
	sessionout "focusgarden/internal/modules/session/port/out"
	sessionservice "focusgarden/internal/modules/session/service"
	sessionusecase "focusgarden/internal/modules/session/usecase"
	"focusgarden/internal/platform/clock"
	"focusgarden/internal/platform/config"
	"focusgarden/internal/platform/id"
	"focusgarden/internal/platform/kv"
	"focusgarden/internal/platform/logging"
	"focusgarden/internal/platform/random"
	"focusgarden/internal/platform/tx"
	uiapp "focusgarden/internal/ui/app"
)

type App struct {
	SessionCLI     sessioninadapter.CLIHandler
	DailyLogCLI    sessioninadapter.DailyLogCLIHandler
	GardenCLI      gardeninadapter.CLIHandler
	GoalCLI        goalinadapter.CLIHandler
	CoordinatorCLI coordinatorinadapter.CLIHandler

	store   kv.Store
	closers []func()
}

// New wires every module against cfg. Each writer (session clock, garden,
// goals) gets its own serial queue; the store is shared.
func New(cfg config.Config) (*App, error) {
	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	store, err := kv.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return wire(cfg, store, logger), nil
}

// NewEphemeral wires the app over an in-memory store. Nothing survives
// the process.
func NewEphemeral(cfg config.Config) (*App, error) {
	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return wire(cfg, kv.NewMemoryStore(), logger), nil
}

func wire(cfg config.Config, store kv.Store, logger *slog.Logger) *App {
	clk := clock.SystemClock{}
	ids := id.UUID{}

	goalTx := tx.NewSerialManager()
	gardenTx := tx.NewSerialManager()
	sessionTx := tx.NewSerialManager()

	goalUC := goalusecase.NewInteractor(goalservice.NewGoalService(clk, goaloutadapter.NewKVGoalStore(store), goalTx))
	gardenUC := gardenusecase.NewInteractor(gardenservice.NewGardenService(
		clk,
		random.System{},
		cfg.Location,
		gardenoutadapter.NewKVGardenStore(store),
		gardenTx,
		logger.With("module", "garden"),
	))

	var journal sessionout.Journal
	if cfg.Journal {
		journal = sessionoutadapter.NewVaultJournal(cfg.JournalDir)
	}
	sessionLogger := logger.With("module", "session")
	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewClockService(clk, sessionoutadapter.NewKVRecordStore(store), sessionTx, sessionLogger),
		sessionusecase.Collaborators{
			Goals:           goalUC,
			Garden:          gardenUC,
			Log:             sessionoutadapter.NewKVCompletedLog(store, ids),
			Notifier:        newNotifier(cfg, sessionLogger),
			Journal:         journal,
			IDs:             ids,
			AutoStartBreaks: cfg.AutoStartBreaks,
			Logger:          sessionLogger,
		},
	)

	coordinatorUC := coordinatorusecase.NewInteractor(coordinatorservice.NewCoordinatorService(
		sessionUC,
		coordinatoroutadapter.NewFileDaemonStore(cfg.LaunchPath, cfg.SocketPath, cfg.LogPath),
		coordinatoroutadapter.NewJSONRPCServer(),
		coordinatoroutadapter.NewJSONRPCClient(),
		clk,
		clk.NewTicker,
		coordinatorservice.Settings{
			TickInterval: cfg.TickInterval,
			DaemonArgs:   []string{"daemon", "run", "--data-dir", cfg.DataDir, "--log-level", cfg.LogLevel},
		},
		logger.With("module", "coordinator"),
	))

	return &App{
		SessionCLI:     sessioninadapter.NewCLIHandler(sessionUC),
		DailyLogCLI:    sessioninadapter.NewDailyLogCLIHandler(sessionusecase.NewDailyLogInteractor(clk, sessionoutadapter.NewKVDailyLogStore(store), cfg.Location)),
		GardenCLI:      gardeninadapter.NewCLIHandler(gardenUC),
		GoalCLI:        goalinadapter.NewCLIHandler(goalUC),
		CoordinatorCLI: coordinatorinadapter.NewCLIHandler(coordinatorUC),
		store:          store,
		closers:        []func(){goalTx.Close, gardenTx.Close, sessionTx.Close},
	}
}

func newNotifier(cfg config.Config, logger *slog.Logger) sessionout.Notifier {
	if len(cfg.NotifyCommand) > 0 {
		return sessionoutadapter.NewCommandNotifier(cfg.NotifyCommand, logger)
	}
	return sessionoutadapter.NewLogNotifier(logger)
}

// Close stops the writer queues and releases the store.
func (a *App) Close() error {
	for _, c := range a.closers {
		c()
	}
	if closer, ok := a.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.CoordinatorCLI, app.SessionCLI, app.GardenCLI, app.GoalCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
