package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"kubepane/internal/tui/design"
	"kubepane/internal/tui/model"
)

// minHeightForActivityPane is the terminal height below which the activity
// log is hidden.
const minHeightForActivityPane = 24

// Render renders the UI according to the current model state.
func Render(m *model.Model) string {
	switch m.CurrentAppMode {
	case model.ModeQuitting:
		return design.MutedStyle.Render(m.QuittingMessage)
	case model.ModeHelpOverlay:
		return renderHelpOverlay(m)
	}
	if m.Width == 0 || m.Height == 0 {
		return design.MutedStyle.Render("Initializing... (waiting for window size)")
	}

	header := renderHeader(m, m.Width)
	tabs := renderTabs(m, m.Width)
	status := renderStatusBar(m, m.Width)

	var activity string
	if m.Height >= minHeightForActivityPane {
		activity = renderActivity(m, m.Width, design.ActivityPaneHeight+2)
	}

	used := lipgloss.Height(header) + lipgloss.Height(tabs) + lipgloss.Height(status)
	if activity != "" {
		used += lipgloss.Height(activity)
	}
	bodyHeight := max(m.Height-used, design.MinPanelHeight)

	listWidth := m.Width * 55 / 100
	detailWidth := m.Width - listWidth
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		renderList(m, m.Focus, listWidth, bodyHeight),
		renderDetail(m, detailWidth, bodyHeight),
	)

	parts := []string{header, tabs, body}
	if activity != "" {
		parts = append(parts, activity)
	}
	parts = append(parts, status)
	return design.AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func renderHelpOverlay(m *model.Model) string {
	h := m.Help
	h.ShowAll = true
	title := design.PanelTitleStyle.Render("KEYBOARD SHORTCUTS")
	content := lipgloss.JoinVertical(lipgloss.Left, title, "", h.View(m.Keys), "", design.MutedStyle.Render("esc or h to close"))
	overlay := design.OverlayStyle.Render(content)
	if m.Width == 0 || m.Height == 0 {
		return overlay
	}
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, overlay)
}

// panel wraps content in a bordered box of exactly width x height cells.
func panel(title, content string, width, height int, focused bool) string {
	style := design.PanelStyle
	if focused {
		style = design.PanelFocusedStyle
	}
	innerWidth := max(width-style.GetHorizontalFrameSize(), 1)
	innerHeight := max(height-style.GetVerticalFrameSize(), 1)

	lines := []string{design.PanelTitleStyle.Render(truncate(title, innerWidth))}
	if content != "" {
		lines = append(lines, strings.Split(content, "\n")...)
	}
	if len(lines) > innerHeight {
		lines = lines[:innerHeight]
	}
	return style.
		Width(width - style.GetHorizontalBorderSize()).
		Height(innerHeight).
		Render(strings.Join(lines, "\n"))
}
