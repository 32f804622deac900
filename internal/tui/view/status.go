package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"kubepane/internal/tui/design"
	"kubepane/internal/tui/model"
	"kubepane/pkg/logging"
)

func renderHeader(m *model.Model, width int) string {
	snap := m.Scope.Load()
	target := snap.Target

	namespaces := "all"
	if !target.AllNamespaces() {
		namespaces = strings.Join(target.Namespaces, ",")
	}
	kinds := make([]string, len(target.APIResources))
	for i, r := range target.APIResources {
		kinds[i] = r.String()
	}

	field := func(k, v string) string {
		return design.HeaderKeyStyle.Render(k+": ") + design.HeaderValueStyle.Render(v)
	}
	parts := []string{
		design.PanelTitleStyle.Render("kubepane"),
		field("context", target.Context),
		field("namespaces", namespaces),
	}
	if len(kinds) > 0 {
		parts = append(parts, field("kinds", strings.Join(kinds, ",")))
	}
	parts = append(parts, design.MutedStyle.Render(snap.Generation.String()), m.Spinner.View())

	return design.HeaderStyle.MaxWidth(width).Render(strings.Join(parts, "  "))
}

func renderStatusBar(m *model.Model, width int) string {
	var left string
	switch {
	case m.StatusMessage != "":
		style := lipgloss.NewStyle()
		switch m.StatusMessageType {
		case model.StatusBarError:
			style = design.ErrorStyle
		case model.StatusBarWarning:
			style = design.WarningStyle
		case model.StatusBarSuccess:
			style = design.SuccessStyle
		}
		left = style.Render(m.StatusMessage)
	default:
		left = m.Help.ShortHelpView(m.Keys.ShortHelp())
	}

	right := ""
	if m.DebugMode {
		right = debugInfo(m)
	} else if !m.State().LastTick.IsZero() {
		right = design.MutedStyle.Render(m.State().LastTick.Format("15:04:05"))
	}

	innerWidth := max(width-design.StatusBarStyle.GetHorizontalFrameSize(), 1)
	gap := innerWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		left = lipgloss.NewStyle().MaxWidth(max(innerWidth-lipgloss.Width(right)-1, 0)).Render(left)
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right
	return design.StatusBarStyle.Width(width).MaxWidth(width).Render(line)
}

func debugInfo(m *model.Model) string {
	mt := m.Bus.Metrics()
	return design.MutedStyle.Render(fmt.Sprintf(
		"%s | bus pub=%d del=%d depth=%d/%d closed-drops=%d | stale=%d | log-drops=%d",
		m.Scope.Generation(), mt.Published, mt.Delivered, mt.Depth, mt.MaxDepth, mt.DroppedClosed,
		m.Dispatcher.Discarded(), logging.Dropped(),
	))
}
