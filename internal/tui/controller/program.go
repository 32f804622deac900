package controller

import (
	tea "github.com/charmbracelet/bubbletea"

	"kubepane/internal/tui/model"
)

// NewProgram creates the Bubble Tea program for cfg. Extra options are passed
// through to tea.NewProgram.
func NewProgram(cfg model.TUIConfig, opts ...tea.ProgramOption) *tea.Program {
	m := model.InitializeModel(cfg)
	app := NewAppModel(m)

	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}, opts...)
	return tea.NewProgram(app, opts...)
}
