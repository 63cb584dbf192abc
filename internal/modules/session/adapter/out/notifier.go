package out

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"

	sessionout "focusgarden/internal/modules/session/port/out"
	"focusgarden/internal/platform/logging"
)

// LogNotifier records completion notices in the log.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) sessionout.Notifier {
	return LogNotifier{logger: logging.OrDiscard(logger)}
}

func (n LogNotifier) Notify(_ context.Context, title, body string) error {
	n.logger.Info("notification", "title", title, "body", body)
	return nil
}

// CommandNotifier runs argv with title and body appended, e.g.
// notify-send. The command is started and not waited on.
type CommandNotifier struct {
	argv   []string
	logger *slog.Logger
}

func NewCommandNotifier(argv []string, logger *slog.Logger) sessionout.Notifier {
	return CommandNotifier{argv: append([]string(nil), argv...), logger: logging.OrDiscard(logger)}
}

func (n CommandNotifier) Notify(_ context.Context, title, body string) error {
	if len(n.argv) == 0 {
		return fmt.Errorf("notify command is empty")
	}
	args := append(append([]string(nil), n.argv[1:]...), title, body)
	cmd := exec.Command(n.argv[0], args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start notify command: %w", err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			n.logger.Warn("notify command failed", "command", n.argv[0], "error", err)
		}
	}()
	return nil
}
