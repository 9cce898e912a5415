// Package config loads the application configuration from a YAML file with
// environment variable expansion and .env support.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given on the CLI.
const DefaultPath = "obrador.yaml"

// Config represents the application configuration.
type Config struct {
	DataDir   string          `yaml:"data_dir"`
	Backend   string          `yaml:"backend"` // "file" or "sqlite"
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// SchedulerConfig controls the background reminder check.
type SchedulerConfig struct {
	Enabled       *bool         `yaml:"enabled,omitempty"`
	CheckInterval time.Duration `yaml:"check_interval,omitempty"`
}

// SchedulerEnabled reports whether the reminder scheduler should run.
// Defaults to enabled when unset.
func (c SchedulerConfig) SchedulerEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // text, json
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen,omitempty"`
}

// Load loads configuration from the specified file. A missing file is not an
// error; the defaults describe a fully working local setup.
func Load(configPath string) (*Config, error) {
	// Load .env if present; existing process env wins.
	_ = godotenv.Load()

	config := defaults()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(config)
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.DataDir == "" {
		config.DataDir = defaults().DataDir
	}
	if config.Backend == "" {
		config.Backend = defaults().Backend
	}
	if config.Backend != "file" && config.Backend != "sqlite" {
		return nil, fmt.Errorf("unknown storage backend %q (want \"file\" or \"sqlite\")", config.Backend)
	}
	if config.Scheduler.CheckInterval < 0 {
		return nil, fmt.Errorf("scheduler check_interval must not be negative")
	}
	if config.Metrics.Enabled && config.Metrics.Listen == "" {
		config.Metrics.Listen = defaults().Metrics.Listen
	}

	applyEnvOverrides(config)
	return config, nil
}

func defaults() *Config {
	return &Config{
		DataDir: "./obrador-data",
		Backend: "file",
		Metrics: MetricsConfig{Listen: ":9141"},
	}
}

// applyEnvOverrides lets the two most operationally useful settings be
// changed without touching the file.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("OBRADOR_DATA_DIR"); v != "" {
		config.DataDir = v
	}
	if v := os.Getenv("OBRADOR_BACKEND"); v != "" {
		config.Backend = v
	}
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	enabled := true
	exampleConfig := Config{
		DataDir: "./obrador-data",
		Backend: "file",
		Scheduler: SchedulerConfig{
			Enabled:       &enabled,
			CheckInterval: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  ":9141",
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
