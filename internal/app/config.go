package app

import (
	"fmt"
	"log/slog"
	"path/filepath"
)

// Log output formats.
const (
	LogText = "text"
	LogJSON = "json"
	LogTint = "tint"
)

// Config holds everything an App instance needs to run, as resolved from
// the command line.
type Config struct {
	// ConfigPath is the build.hcl to load.
	ConfigPath string
	// ProjectRoot anchors relative paths; defaults to the config file's
	// directory.
	ProjectRoot string
	LogFormat   string
	LogLevel    string
	// ListSteps prints the available step symbols instead of running.
	ListSteps bool
	// ReportPath overrides where the run report is written.
	ReportPath string
}

// NewConfig validates and normalizes a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, fmt.Errorf("no build configuration file given")
	}
	if cfg.ProjectRoot == "" {
		cfg.ProjectRoot = filepath.Dir(cfg.ConfigPath)
	}

	switch cfg.LogFormat {
	case LogText, LogJSON, LogTint:
	case "":
		cfg.LogFormat = LogTint
	default:
		return nil, fmt.Errorf("unknown log format: %s", cfg.LogFormat)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("could not parse log level: %w", err)
	}

	return &cfg, nil
}
