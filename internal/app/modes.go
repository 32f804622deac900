package app

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"kubepane/internal/bus"
	"kubepane/internal/dashboard"
	"kubepane/internal/protocol"
	"kubepane/internal/tui/controller"
	"kubepane/internal/tui/design"
	"kubepane/internal/tui/model"
	"kubepane/pkg/logging"
)

// start launches the workers and the tick producer.
func start(ctx context.Context, config *Config, services *Services) {
	services.Manager.Start(ctx)
	bus.StartTicker(ctx, services.Bus.Sender(), config.KubepaneConfig.Intervals.Tick)
}

// stop cancels the workers and closes the bus.
func stop(services *Services) {
	services.Manager.Shutdown()
	services.Bus.Close()
	m := services.Bus.Metrics()
	logging.Debug("Bootstrap", "bus: published=%d delivered=%d dropped-after-close=%d max-depth=%d; stale responses discarded=%d",
		m.Published, m.Delivered, m.DroppedClosed, m.MaxDepth, services.Dispatcher.Discarded())
}

// runCLIMode runs the bus consumer headlessly, logging every applied
// response until ctx is cancelled.
func runCLIMode(ctx context.Context, config *Config, services *Services, logFile io.Writer) error {
	out := io.Writer(os.Stderr)
	if logFile != nil {
		out = io.MultiWriter(os.Stderr, logFile)
	}
	logging.InitForCLI(logLevel(config, config.KubepaneConfig.GlobalSettings.LogLevel), out)
	logging.Info("CLI", "Running in no-TUI mode. Press Ctrl+C to exit.")

	start(ctx, config, services)
	defer stop(services)

	services.Bus.Sender().Kube(protocol.ContextGet{})
	services.Bus.Sender().Kube(protocol.NamespaceGet{})
	services.Bus.Sender().Kube(protocol.APIResourcesGet{})

	err := dashboard.Run(ctx, services.Bus, services.Dispatcher)
	logging.Info("CLI", "Shutting down workers")
	return err
}

// runTUIMode executes the interactive terminal UI mode
func runTUIMode(ctx context.Context, config *Config, services *Services, logFile io.Writer) error {
	design.Initialize(true)

	// Switch logging to channel-based system for TUI integration
	logChan := logging.InitForTUI(logLevel(config, config.KubepaneConfig.GlobalSettings.LogLevel), logFile)
	defer logging.CloseTUIChannel()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	start(ctx, config, services)
	defer stop(services)

	p := controller.NewProgram(model.TUIConfig{
		Context:    ctx,
		Bus:        services.Bus,
		Dispatcher: services.Dispatcher,
		Scope:      services.Scope,
		LogChannel: logChan,
		DebugMode:  config.Debug,
	}, tea.WithContext(ctx))

	// Run the TUI until user exits
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, context.Canceled) {
		logging.Error("TUI-Lifecycle", err, "Error running TUI program")
		return err
	}
	logging.Info("TUI-Lifecycle", "TUI exited.")
	return nil
}
