package model

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"

	"kubepane/internal/bus"
	"kubepane/internal/dashboard"
	"kubepane/internal/protocol"
	"kubepane/internal/scope"
	"kubepane/pkg/logging"
)

// AppMode represents the current mode of the application
type AppMode int

const (
	ModeDashboard AppMode = iota
	ModeHelpOverlay
	ModeQuitting
)

// String provides a human-readable representation of the AppMode.
func (m AppMode) String() string {
	switch m {
	case ModeDashboard:
		return "Dashboard"
	case ModeHelpOverlay:
		return "HelpOverlay"
	case ModeQuitting:
		return "Quitting"
	default:
		return "Unknown"
	}
}

// Pane is one list the user can focus.
type Pane int

const (
	PaneContexts Pane = iota
	PaneNamespaces
	PanePods
	PaneEvents
	PaneConfigs
	PaneNetwork
	PaneKinds
	PaneResources
)

// Panes is the tab order.
var Panes = []Pane{PaneContexts, PaneNamespaces, PanePods, PaneEvents, PaneConfigs, PaneNetwork, PaneKinds, PaneResources}

func (p Pane) String() string {
	switch p {
	case PaneContexts:
		return "Contexts"
	case PaneNamespaces:
		return "Namespaces"
	case PanePods:
		return "Pods"
	case PaneEvents:
		return "Events"
	case PaneConfigs:
		return "Config"
	case PaneNetwork:
		return "Network"
	case PaneKinds:
		return "Kinds"
	case PaneResources:
		return "Resources"
	default:
		return "Unknown"
	}
}

// Area returns the protocol area whose data the pane lists.
func (p Pane) Area() protocol.Area {
	switch p {
	case PaneContexts:
		return protocol.AreaContext
	case PaneNamespaces:
		return protocol.AreaNamespace
	case PanePods:
		return protocol.AreaPod
	case PaneEvents:
		return protocol.AreaEvent
	case PaneConfigs:
		return protocol.AreaConfig
	case PaneNetwork:
		return protocol.AreaNetwork
	default:
		return protocol.AreaAPIResources
	}
}

// MessageType represents the type of status bar message
type MessageType int

const (
	StatusBarInfo MessageType = iota
	StatusBarSuccess
	StatusBarError
	StatusBarWarning
)

// Constants for UI
const (
	MaxActivityLogLines = 1000
	statusMessageTTL    = 3 * time.Second
)

// TUIConfig carries what the program needs from the bootstrap.
type TUIConfig struct {
	Context    context.Context
	Bus        *bus.Bus
	Dispatcher *dashboard.Dispatcher
	Scope      *scope.Scope
	LogChannel <-chan logging.LogEntry
	DebugMode  bool
}

// Model is the TUI state. Cluster data lives in the dispatcher's State; the
// Model only adds what is needed to navigate and render it.
type Model struct {
	// Terminal dimensions
	Width  int
	Height int

	CurrentAppMode  AppMode
	LastAppMode     AppMode
	QuittingMessage string
	DebugMode       bool

	// Navigation
	Focus   Pane
	Cursors map[Pane]int

	// UI components
	Keys           KeyMap
	Help           help.Model
	Spinner        spinner.Model
	DetailViewport viewport.Model

	// DetailShowsLog is set while the detail pane follows a container log.
	DetailShowsLog bool
	detailRendered string

	ActivityLog      []string
	ActivityLogDirty bool

	StatusMessage     string
	StatusMessageType MessageType
	statusSeq         int

	// Core wiring
	Ctx        context.Context
	Bus        *bus.Bus
	Sender     bus.Sender
	Dispatcher *dashboard.Dispatcher
	Scope      *scope.Scope
	LogChannel <-chan logging.LogEntry
}

// State returns the dashboard state the model renders.
func (m *Model) State() *dashboard.State {
	return m.Dispatcher.State()
}

// Cursor returns the clamped cursor of pane p.
func (m *Model) Cursor(p Pane) int {
	n := len(m.Items(p))
	c := m.Cursors[p]
	if c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	return c
}

// Selected returns the item under the cursor of the focused pane.
func (m *Model) Selected() (Item, bool) {
	items := m.Items(m.Focus)
	if len(items) == 0 {
		return Item{}, false
	}
	return items[m.Cursor(m.Focus)], true
}

// MoveCursor moves the focused pane's cursor by delta within bounds.
func (m *Model) MoveCursor(delta int) {
	n := len(m.Items(m.Focus))
	c := m.Cursor(m.Focus) + delta
	if c >= n {
		c = n - 1
	}
	if c < 0 {
		c = 0
	}
	m.Cursors[m.Focus] = c
}

// FocusNext cycles focus by delta through Panes.
func (m *Model) FocusNext(delta int) {
	idx := 0
	for i, p := range Panes {
		if p == m.Focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(Panes)) % len(Panes)
	m.Focus = Panes[idx]
}

// AddRawLineToActivityLog adds a pre-formatted entry to the activity log,
// keeping at most MaxActivityLogLines.
func AddRawLineToActivityLog(m *Model, entry string) {
	m.ActivityLog = append(m.ActivityLog, entry)
	if len(m.ActivityLog) > MaxActivityLogLines {
		m.ActivityLog = m.ActivityLog[len(m.ActivityLog)-MaxActivityLogLines:]
	}
	m.ActivityLogDirty = true
}
