package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"kubepane/internal/protocol"
	"kubepane/internal/tui/design"
	"kubepane/internal/tui/model"
)

func renderTabs(m *model.Model, width int) string {
	errs := m.State().Errors
	tabs := make([]string, 0, len(model.Panes))
	for _, p := range model.Panes {
		label := p.String()
		if _, failed := errs[p.Area()]; failed {
			label += " !"
		}
		if p == m.Focus {
			tabs = append(tabs, design.TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, design.TabStyle.Render(label))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return lipgloss.NewStyle().MaxWidth(width).Render(row)
}

// renderList draws the rows of pane p, keeping the cursor visible.
func renderList(m *model.Model, p model.Pane, width, height int) string {
	style := design.PanelStyle
	innerWidth := max(width-style.GetHorizontalFrameSize(), 1)
	// title, column header, optional error line
	rowsVisible := max(height-style.GetVerticalFrameSize()-2, 1)

	var lines []string
	if err, ok := m.State().Errors[p.Area()]; ok {
		lines = append(lines, design.ErrorStyle.Render(truncate(err.Error(), innerWidth)))
		rowsVisible = max(rowsVisible-1, 1)
	}

	items := m.Items(p)
	header := model.Columns(p)
	cells := make([][]string, len(items))
	for i, it := range items {
		cells[i] = it.Cells
	}
	// two cells for the marker
	widths := columnWidths(header, cells, innerWidth-2)
	lines = append(lines, design.ColumnHeaderStyle.Render("  "+joinRow(header, widths)))

	if len(items) == 0 {
		lines = append(lines, design.MutedStyle.Render("  (none)"))
	}

	cursor := m.Cursor(p)
	start := 0
	if cursor >= rowsVisible {
		start = cursor - rowsVisible + 1
	}
	end := min(start+rowsVisible, len(items))
	for i := start; i < end; i++ {
		it := items[i]
		marker := "  "
		if it.Marked {
			marker = design.MarkedStyle.Render("● ")
		}
		row := joinRow(it.Cells, widths)
		switch {
		case i == cursor && p == m.Focus:
			row = design.SelectedRowStyle.Render(row)
		case it.Status != "":
			row = colorStatus(it, widths)
		}
		lines = append(lines, marker+row)
	}

	title := fmt.Sprintf("%s (%d)", p, len(items))
	return panel(title, strings.Join(lines, "\n"), width, height, true)
}

func joinRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		v := ""
		if i < len(cells) {
			v = cells[i]
		}
		parts[i] = cell(v, w)
	}
	return strings.Join(parts, " ")
}

// colorStatus renders a row with its status cell colored.
func colorStatus(it model.Item, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		v := ""
		if i < len(it.Cells) {
			v = it.Cells[i]
		}
		c := cell(v, w)
		if v == it.Status {
			c = design.GetStatusStyle(it.Status).Render(c)
		}
		parts[i] = c
	}
	return strings.Join(parts, " ")
}

func renderDetail(m *model.Model, width, height int) string {
	style := design.PanelStyle
	m.DetailViewport.Width = max(width-style.GetHorizontalFrameSize(), 1)
	m.DetailViewport.Height = max(height-style.GetVerticalFrameSize()-1, 1)

	areas := []protocol.Area{protocol.AreaYaml, protocol.AreaGet}
	if m.DetailShowsLog {
		areas = []protocol.Area{protocol.AreaLog}
	}
	content := m.DetailViewport.View()
	if strings.TrimSpace(m.DetailText()) == "" {
		content = design.MutedStyle.Render("enter/v/g on a row shows it here; l follows a pod's log")
	}
	for _, area := range areas {
		if err, ok := m.State().Errors[area]; ok {
			content = design.ErrorStyle.Render(truncate(err.Error(), m.DetailViewport.Width)) + "\n" + content
		}
	}
	return panel(m.DetailTitle(), content, width, height, false)
}

func renderActivity(m *model.Model, width, height int) string {
	style := design.PanelStyle
	innerWidth := max(width-style.GetHorizontalFrameSize(), 1)
	n := max(height-style.GetVerticalFrameSize()-1, 1)

	log := m.ActivityLog
	if len(log) > n {
		log = log[len(log)-n:]
	}
	lines := make([]string, len(log))
	for i, l := range log {
		lines[i] = styleLogLine(truncate(l, innerWidth))
	}
	m.ActivityLogDirty = false
	return panel("Activity", strings.Join(lines, "\n"), width, height, false)
}

func styleLogLine(line string) string {
	switch {
	case strings.Contains(line, "[ERROR]"):
		return design.ErrorStyle.Render(line)
	case strings.Contains(line, "[WARN]"):
		return design.WarningStyle.Render(line)
	case strings.Contains(line, "[DEBUG]"):
		return design.MutedStyle.Render(line)
	default:
		return line
	}
}
