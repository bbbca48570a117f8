package app

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/All1eexx/ApkForge/internal/build"
	"github.com/All1eexx/ApkForge/internal/config"
	"github.com/All1eexx/ApkForge/internal/forge"
	"github.com/All1eexx/ApkForge/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	appCfg   *Config
	cfg      *config.Config
	state    *build.State
	forge    *forge.Forge
	registry *registry.Registry
}

// NewApp constructs a fully initialized App: logger, loaded configuration
// with .env overrides applied, resolved paths, build state, orchestrator,
// and the populated step registry.
func NewApp(outW io.Writer, appConfig *Config, modules ...registry.Registrar) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	if err := config.LoadDotenv(appConfig.ProjectRoot); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load(appConfig.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if applied := cfg.ApplyEnvOverrides(); len(applied) > 0 {
		logger.Info("Environment overrides applied.", "names", applied)
	}
	logger.Debug("Configuration loaded.", "path", appConfig.ConfigPath)

	paths := build.NewPaths(appConfig.ProjectRoot, cfg)
	state := build.NewState(cfg, paths, logger)

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All step modules registered.", "count", len(modules))

	return &App{
		outW:     outW,
		logger:   logger,
		appCfg:   appConfig,
		cfg:      cfg,
		state:    state,
		forge:    forge.New(state),
		registry: reg,
	}, nil
}

// Registry returns the application's registry. This is primarily for
// testing.
func (a *App) Registry() *registry.Registry { return a.registry }

// State returns the run's build state. This is primarily for testing.
func (a *App) State() *build.State { return a.state }

// reportPath resolves where the run report is written.
func (a *App) reportPath() string {
	if a.appCfg.ReportPath != "" {
		return build.Expand(a.state.Paths.ProjectRoot, a.appCfg.ReportPath)
	}
	return filepath.Join(a.state.Paths.ProjectRoot, "pipeline_report.json")
}
