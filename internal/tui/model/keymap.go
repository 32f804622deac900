package model

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all the key bindings for the application
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Tab         key.Binding
	ShiftTab    key.Binding
	Enter       key.Binding
	Toggle      key.Binding
	AllNs       key.Binding
	Refresh     key.Binding
	Yaml        key.Binding
	Describe    key.Binding
	FollowLog   key.Binding
	StopLog     key.Binding
	Copy        key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	Esc         key.Binding
	Help        key.Binding
	ToggleDebug key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns a KeyMap with default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous pane"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open/switch"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle selection"),
		),
		AllNs: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all namespaces"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh pane"),
		),
		Yaml: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "view yaml"),
		),
		Describe: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "summary"),
		),
		FollowLog: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "follow logs"),
		),
		StopLog: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop logs"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy detail"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "scroll detail up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "scroll detail down"),
		),
		Esc: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "toggle help"),
		),
		ToggleDebug: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "toggle debug info"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.FollowLog, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Tab, k.ShiftTab, k.Enter, k.Toggle},
		{k.AllNs, k.Refresh, k.Yaml, k.Describe, k.FollowLog, k.StopLog},
		{k.Copy, k.ScrollUp, k.ScrollDown, k.Esc, k.Help, k.ToggleDebug, k.Quit},
	}
}
