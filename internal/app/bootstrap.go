package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"kubepane/internal/config"
	"kubepane/pkg/logging"
)

// Application is the main application structure that bootstraps and runs kubepane
type Application struct {
	config   *Config
	services *Services
	logFile  io.WriteCloser
}

// For mocking in tests
var (
	loadConfig         = config.LoadConfig
	loadConfigFromPath = config.LoadConfigFromPath
)

// NewApplication loads the configuration and wires the core.
func NewApplication(cfg *Config) (*Application, error) {
	// CLI logging until the mode is known; TUI mode re-initializes it.
	logging.InitForCLI(logLevel(cfg, ""), os.Stderr)

	var kc config.KubepaneConfig
	var err error
	if cfg.ConfigPath != "" {
		kc, err = loadConfigFromPath(cfg.ConfigPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load kubepane configuration from path: %s", cfg.ConfigPath)
			return nil, fmt.Errorf("failed to load kubepane configuration from path %s: %w", cfg.ConfigPath, err)
		}
		logging.Debug("Bootstrap", "Loaded configuration from custom path: %s", cfg.ConfigPath)
	} else {
		kc, err = loadConfig()
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load kubepane configuration")
			return nil, fmt.Errorf("failed to load kubepane configuration: %w", err)
		}
		logging.Debug("Bootstrap", "Loaded configuration using layered approach")
	}

	kc = cfg.applyOverrides(kc)
	cfg.KubepaneConfig = &kc
	logging.InitForCLI(logLevel(cfg, kc.GlobalSettings.LogLevel), os.Stderr)

	services, err := InitializeServices(kc)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	logging.Info("Bootstrap", "Initial scope %s", services.Scope.Load().Target)

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// Run executes the application in the appropriate mode
func (a *Application) Run(ctx context.Context) error {
	if a.config.LogFile != "" {
		f, err := os.OpenFile(a.config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", a.config.LogFile, err)
		}
		a.logFile = f
		defer f.Close()
	}

	if a.config.NoTUI {
		return runCLIMode(ctx, a.config, a.services, a.logFile)
	}
	return runTUIMode(ctx, a.config, a.services, a.logFile)
}

// Services returns the wired core.
func (a *Application) Services() *Services {
	return a.services
}

func logLevel(cfg *Config, configured string) logging.LogLevel {
	if cfg.Debug {
		return logging.LevelDebug
	}
	return logging.ParseLevel(configured)
}
