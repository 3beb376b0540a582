// Package config loads the host application's project configuration. The
// persistence core itself takes everything it needs as explicit
// collaborators; this package only wires those up for the CLI.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the radpipe project configuration.
type Config struct {
	// ProjectDir is where snapshots and archives live.
	ProjectDir string `yaml:"project_dir"`

	// JournalPath is the sqlite journal location. Empty disables the
	// journal; ":memory:" keeps it ephemeral.
	JournalPath string `yaml:"journal_path"`

	// Quiet suppresses human-readable load notices.
	Quiet bool `yaml:"quiet"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		ProjectDir:  ".",
		JournalPath: "",
		LogLevel:    "info",
	}
}

// Load reads configuration from path. A missing file yields the defaults;
// environment variables referenced as ${VAR} in the YAML are expanded, and a
// .env file is loaded first when one exists.
func Load(path string) (*Config, error) {
	// Best effort; absence of a .env file is the normal case.
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.ProjectDir == "" {
		cfg.ProjectDir = "."
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	return cfg, nil
}
