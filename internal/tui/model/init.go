package model

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"kubepane/internal/protocol"
	"kubepane/internal/tui/design"
)

// InitializeModel creates the Model for cfg.
func InitializeModel(cfg TUIConfig) *Model {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = design.HeaderValueStyle

	return &Model{
		CurrentAppMode: ModeDashboard,
		LastAppMode:    ModeDashboard,
		DebugMode:      cfg.DebugMode,
		Focus:          PanePods,
		Cursors:        make(map[Pane]int),
		Keys:           DefaultKeyMap(),
		Help:           help.New(),
		Spinner:        s,
		DetailViewport: viewport.New(0, 0),
		Ctx:            ctx,
		Bus:            cfg.Bus,
		Sender:         cfg.Bus.Sender(),
		Dispatcher:     cfg.Dispatcher,
		Scope:          cfg.Scope,
		LogChannel:     cfg.LogChannel,
	}
}

// Init asks for the request-driven data and starts the bus and log pumps.
func (m *Model) Init() tea.Cmd {
	m.Request(protocol.ContextGet{})
	m.Request(protocol.NamespaceGet{})
	m.Request(protocol.APIResourcesGet{})

	cmds := []tea.Cmd{m.Spinner.Tick, WaitForBus(m.Ctx, m.Bus)}
	if cmd := ListenForLogs(m.LogChannel); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}
