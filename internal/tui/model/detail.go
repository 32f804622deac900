package model

import "strings"

// DetailTitle names what the detail pane currently shows.
func (m *Model) DetailTitle() string {
	s := m.State()
	if m.DetailShowsLog {
		if s.LogContainer.Pod == "" {
			return "Logs (stopped)"
		}
		return "Logs " + s.LogContainer.String()
	}
	if s.DetailTitle == "" {
		return "Detail"
	}
	return s.DetailTitle
}

// DetailText returns the full text of the detail pane.
func (m *Model) DetailText() string {
	s := m.State()
	if m.DetailShowsLog {
		return strings.Join(s.LogLines, "\n")
	}
	return s.Detail
}

// SyncDetail copies the detail text into the viewport when it changed. A
// followed log sticks to the bottom unless the user scrolled away.
func (m *Model) SyncDetail() {
	content := m.DetailText()
	if content == m.detailRendered {
		return
	}
	atBottom := m.DetailViewport.AtBottom() || m.detailRendered == ""
	m.DetailViewport.SetContent(content)
	m.detailRendered = content
	if m.DetailShowsLog && atBottom {
		m.DetailViewport.GotoBottom()
	} else if !m.DetailShowsLog {
		m.DetailViewport.GotoTop()
	}
}
