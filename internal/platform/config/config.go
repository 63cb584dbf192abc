package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const fileName = "config.yaml"

type Config struct {
	DataDir    string
	DBPath     string
	SocketPath string
	LaunchPath string
	LogPath    string
	JournalDir string

	TickInterval    time.Duration
	Location        *time.Location
	AutoStartBreaks bool
	NotifyCommand   []string
	Journal         bool
	LogLevel        string
}

// fileConfig is the on-disk shape of config.yaml. Absent fields keep the
// defaults.
type fileConfig struct {
	TickInterval    string   `yaml:"tick_interval"`
	Timezone        string   `yaml:"timezone"`
	AutoStartBreaks *bool    `yaml:"auto_start_breaks"`
	NotifyCommand   []string `yaml:"notify_command"`
	Journal         *bool    `yaml:"journal"`
	LogLevel        string   `yaml:"log_level"`
}

func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	return Config{
		DataDir:      dataDir,
		DBPath:       filepath.Join(dataDir, "focusgarden.db"),
		SocketPath:   filepath.Join(dataDir, "run", "coordinator.sock"),
		LaunchPath:   filepath.Join(dataDir, "run", "coordinator.launch"),
		LogPath:      filepath.Join(dataDir, "run", "coordinator.log"),
		JournalDir:   filepath.Join(dataDir, "journal"),
		TickInterval: time.Second,
		Location:     time.Local,
		LogLevel:     "info",
	}, nil
}

// Load builds the default config for dataDir and applies config.yaml from
// that directory when present.
func Load(dataDir string) (Config, error) {
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}
	raw, err := os.ReadFile(filepath.Join(dataDir, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	file := fileConfig{}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg.apply(file)
}

func (c Config) apply(file fileConfig) (Config, error) {
	if file.TickInterval != "" {
		d, err := time.ParseDuration(file.TickInterval)
		if err != nil {
			return Config{}, fmt.Errorf("tick_interval: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("tick_interval must be positive")
		}
		c.TickInterval = d
	}
	if file.Timezone != "" {
		loc, err := time.LoadLocation(file.Timezone)
		if err != nil {
			return Config{}, fmt.Errorf("timezone: %w", err)
		}
		c.Location = loc
	}
	if file.AutoStartBreaks != nil {
		c.AutoStartBreaks = *file.AutoStartBreaks
	}
	if len(file.NotifyCommand) > 0 {
		c.NotifyCommand = file.NotifyCommand
	}
	if file.Journal != nil {
		c.Journal = *file.Journal
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
	}
	return c, nil
}
