package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"focusgarden/internal/modules/coordinator/domain"
	coordout "focusgarden/internal/modules/coordinator/port/out"
)

// launchFile is the on-disk shape of the coordinator's launch record.
type launchFile struct {
	PID       int       `yaml:"pid"`
	StartedAt time.Time `yaml:"started_at"`
	Socket    string    `yaml:"socket"`
	Args      []string  `yaml:"args,omitempty"`
}

// FileDaemonStore keeps the launch record as YAML in the run directory.
type FileDaemonStore struct {
	launchPath string
	socketPath string
	logPath    string
}

func NewFileDaemonStore(launchPath, socketPath, logPath string) coordout.DaemonStore {
	return &FileDaemonStore{launchPath: launchPath, socketPath: socketPath, logPath: logPath}
}

func (s *FileDaemonStore) WriteLaunch(_ context.Context, launch domain.Launch) error {
	if launch.PID <= 0 {
		return fmt.Errorf("write launch record: invalid pid %d", launch.PID)
	}
	raw, err := yaml.Marshal(launchFile{
		PID:       launch.PID,
		StartedAt: launch.StartedAt.UTC(),
		Socket:    s.socketPath,
		Args:      launch.Args,
	})
	if err != nil {
		return fmt.Errorf("encode launch record: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.launchPath), 0o755); err != nil {
		return fmt.Errorf("create daemon dir: %w", err)
	}
	// readers never see a half-written record
	tmp := s.launchPath + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write launch record: %w", err)
	}
	if err := os.Rename(tmp, s.launchPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write launch record: %w", err)
	}
	return nil
}

func (s *FileDaemonStore) ReadLaunch(_ context.Context) (domain.Launch, error) {
	raw, err := os.ReadFile(s.launchPath)
	if err != nil {
		return domain.Launch{}, err
	}
	var file launchFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return domain.Launch{}, fmt.Errorf("decode launch record: %w", err)
	}
	if file.PID <= 0 {
		return domain.Launch{}, fmt.Errorf("decode launch record: invalid pid %d", file.PID)
	}
	if file.Socket != "" && file.Socket != s.socketPath {
		return domain.Launch{}, fmt.Errorf("launch record belongs to socket %s, not %s", file.Socket, s.socketPath)
	}
	return domain.Launch{PID: file.PID, StartedAt: file.StartedAt, Args: file.Args}, nil
}

func (s *FileDaemonStore) Clear(_ context.Context) error {
	var errs []error
	for _, path := range []string{s.launchPath, s.socketPath} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", filepath.Base(path), err))
		}
	}
	return errors.Join(errs...)
}

func (s *FileDaemonStore) SocketPath() string {
	return s.socketPath
}

func (s *FileDaemonStore) LogPath() string {
	return s.logPath
}
