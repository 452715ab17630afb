// Package config handles the .taskpulse directory and its config.yml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/taskpulse/taskpulse/internal/clierr"
	"github.com/taskpulse/taskpulse/internal/task"
)

// Filenames inside the taskpulse directory.
const (
	ConfigFileName = "config.yml"
	DefaultDir     = ".taskpulse"
	WALDirName     = "wal"
	LockFileName   = ".lock"

	CurrentVersion  = 1
	DefaultDataFile = "tasks.json"

	fileMode = 0o600
	dirMode  = 0o750
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no taskpulse directory found (run 'taskpulse init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config is the taskpulse directory configuration.
type Config struct {
	Version  int            `yaml:"version"`
	DataFile string         `yaml:"data_file"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Velocity VelocityConfig `yaml:"velocity,omitempty"`

	// dir is the absolute path to the taskpulse directory (not serialized).
	dir string `yaml:"-"`
}

// DefaultsConfig holds default values for new records.
type DefaultsConfig struct {
	Priority string `yaml:"priority"`
}

// VelocityConfig holds velocity calculation settings.
type VelocityConfig struct {
	// LookbackDays restricts the velocity window; 0 means all history.
	LookbackDays int `yaml:"lookback_days,omitempty"`
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Version:  CurrentVersion,
		DataFile: DefaultDataFile,
		Defaults: DefaultsConfig{Priority: task.PriorityMedium},
	}
}

// Dir returns the absolute path to the taskpulse directory.
func (c *Config) Dir() string { return c.dir }

// SetDir sets the taskpulse directory path on the config.
func (c *Config) SetDir(dir string) { c.dir = dir }

// DataPath returns the absolute path to the JSON document.
func (c *Config) DataPath() string { return filepath.Join(c.dir, c.DataFile) }

// WALPath returns the absolute path to the WAL directory.
func (c *Config) WALPath() string { return filepath.Join(c.dir, WALDirName) }

// LockPath returns the absolute path to the advisory lock file.
func (c *Config) LockPath() string { return filepath.Join(c.dir, LockFileName) }

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string { return filepath.Join(c.dir, ConfigFileName) }

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.DataFile == "" {
		return fmt.Errorf("%w: data_file is required", ErrInvalid)
	}
	if err := task.ValidatePriority(c.Defaults.Priority); err != nil {
		return fmt.Errorf("%w: default priority %q not allowed", ErrInvalid, c.Defaults.Priority)
	}
	if c.Velocity.LookbackDays < 0 {
		return fmt.Errorf("%w: velocity.lookback_days must be >= 0", ErrInvalid)
	}
	return nil
}

// Init creates a new taskpulse directory with default settings.
func Init(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault()
	cfg.SetDir(absDir)

	if err := os.MkdirAll(cfg.WALPath(), dirMode); err != nil {
		return nil, fmt.Errorf("creating taskpulse directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates a config from the given taskpulse directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.dir = absDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindDir walks upward from startDir looking for a taskpulse directory
// containing config.yml. Returns the absolute path to the taskpulse directory.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, DefaultDir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return filepath.Join(dir, DefaultDir), nil
		}

		// Also check if we're inside the taskpulse directory itself.
		candidate = filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.DocumentNotFound,
				"no taskpulse directory found (run 'taskpulse init' to create one)")
		}
		dir = parent
	}
}
