// Package config loads flotilla's configuration from flotilla.yaml, the
// environment (FLOTILLA_*) and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/example/flotilla/internal/gate"
	"github.com/example/flotilla/internal/logging"
)

// FileName is the config file name looked up without extension.
const FileName = "flotilla"

// Config represents the flotilla configuration.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Scheduling SchedulingConfig `mapstructure:"scheduling" yaml:"scheduling"`
	Controller ControllerConfig `mapstructure:"controller" yaml:"controller"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// SchedulingConfig tunes the scheduling engine.
type SchedulingConfig struct {
	// GateScope is "robot" (one lock per robot) or "fleet" (one lock for all).
	GateScope string `mapstructure:"gate_scope" yaml:"gate_scope"`
	// GateTimeout bounds how long a handler waits for a gate; 0 waits forever.
	GateTimeout time.Duration `mapstructure:"gate_timeout" yaml:"gate_timeout"`
	// MaxQueueScan is the page size used when scanning a robot's queue.
	MaxQueueScan int `mapstructure:"max_queue_scan" yaml:"max_queue_scan"`
}

// ControllerConfig configures the simulated robot controller.
type ControllerConfig struct {
	// SimulateStopFailureCode makes every stop request fail with this status
	// code. 0 disables the failure.
	SimulateStopFailureCode int `mapstructure:"simulate_stop_failure_code" yaml:"simulate_stop_failure_code"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: defaultDatabasePath()},
		Log:      LogConfig{Level: logging.LevelInfo, Format: logging.FormatText},
		Scheduling: SchedulingConfig{
			GateScope:    string(gate.ScopeRobot),
			GateTimeout:  30 * time.Second,
			MaxQueueScan: 100,
		},
	}
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".flotilla", "flotilla.db")
	}
	return filepath.Join(home, ".flotilla", "flotilla.db")
}

// Load reads configuration. If path is empty, flotilla.yaml is searched in
// the working directory and $HOME/.flotilla; a missing file is not an error.
// Flags in flags (may be nil) named like "log-level" override "log.level".
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix("FLOTILLA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".flotilla"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || path != "" {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// flagBindings maps config keys to command-line flag names.
var flagBindings = map[string]string{
	"database.path":         "db",
	"log.level":             "log-level",
	"log.format":            "log-format",
	"scheduling.gate_scope": "gate-scope",
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("scheduling.gate_scope", d.Scheduling.GateScope)
	v.SetDefault("scheduling.gate_timeout", d.Scheduling.GateTimeout)
	v.SetDefault("scheduling.max_queue_scan", d.Scheduling.MaxQueueScan)
	v.SetDefault("controller.simulate_stop_failure_code", d.Controller.SimulateStopFailureCode)
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path must be set"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if f := strings.ToLower(c.Log.Format); f != logging.FormatText && f != logging.FormatJSON {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	if _, err := gate.ParseScope(c.Scheduling.GateScope); err != nil {
		errs = append(errs, err)
	}
	if c.Scheduling.GateTimeout < 0 {
		errs = append(errs, errors.New("scheduling.gate_timeout must not be negative"))
	}
	if c.Scheduling.MaxQueueScan <= 0 {
		errs = append(errs, errors.New("scheduling.max_queue_scan must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SaveConfig writes cfg as YAML to path, creating parent directories.
func SaveConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Exists reports whether a config file exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
