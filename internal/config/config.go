package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Name  string `yaml:"name"`
	Level string `yaml:"level"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// ClockConfig holds truetime settings.
type ClockConfig struct {
	NTPSync      bool          `yaml:"ntp_sync"`
	SyncInterval time.Duration `yaml:"sync_interval"`
}

// TableConfig holds per-table engine settings.
type TableConfig struct {
	WALDir string `yaml:"wal_dir"`
}

// Config is the full process configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Clock   ClockConfig   `yaml:"clock"`
	Table   TableConfig   `yaml:"table"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Name: "gamgeedb", Level: "info"},
		Metrics: MetricsConfig{Enabled: true, Addr: ":9090"},
		Clock:   ClockConfig{NTPSync: false, SyncInterval: 30 * time.Second},
		Table:   TableConfig{WALDir: "_wal"},
	}
}

// Load reads a YAML config file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the engine cannot run with.
func (c Config) Validate() error {
	if c.Logging.Name == "" {
		return fmt.Errorf("config: logging.name must not be empty")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("config: logging.level: %w", err)
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("config: metrics.addr must be set when metrics are enabled")
	}
	if c.Clock.NTPSync && c.Clock.SyncInterval <= 0 {
		return fmt.Errorf("config: clock.sync_interval must be positive")
	}
	return nil
}
