package controller

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"kubepane/internal/kube"
	"kubepane/internal/protocol"
	"kubepane/internal/tui/model"
)

// For mocking in tests
var clipboardWriteAll = clipboard.WriteAll

// handleKeyMsg processes a key press that came back from the bus.
func handleKeyMsg(m *model.Model, keyMsg tea.KeyMsg) (*model.Model, tea.Cmd) {
	keys := m.Keys

	if m.CurrentAppMode == model.ModeHelpOverlay {
		switch {
		case key.Matches(keyMsg, keys.Help), key.Matches(keyMsg, keys.Esc):
			m.CurrentAppMode = m.LastAppMode
		case key.Matches(keyMsg, keys.Quit):
			return quit(m)
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Quit):
		return quit(m)
	case key.Matches(keyMsg, keys.Help):
		m.LastAppMode = m.CurrentAppMode
		m.CurrentAppMode = model.ModeHelpOverlay
	case key.Matches(keyMsg, keys.ToggleDebug):
		m.DebugMode = !m.DebugMode
	case key.Matches(keyMsg, keys.Up):
		m.MoveCursor(-1)
	case key.Matches(keyMsg, keys.Down):
		m.MoveCursor(1)
	case key.Matches(keyMsg, keys.Tab):
		m.FocusNext(1)
	case key.Matches(keyMsg, keys.ShiftTab):
		m.FocusNext(-1)
	case key.Matches(keyMsg, keys.ScrollUp), key.Matches(keyMsg, keys.ScrollDown):
		var cmd tea.Cmd
		m.DetailViewport, cmd = m.DetailViewport.Update(keyMsg)
		return m, cmd
	case key.Matches(keyMsg, keys.Enter):
		return activate(m)
	case key.Matches(keyMsg, keys.Toggle):
		return toggleSelection(m)
	case key.Matches(keyMsg, keys.AllNs):
		m.Request(protocol.NamespaceSet{})
		return m, statusFor(m, "Watching all namespaces", model.StatusBarInfo)
	case key.Matches(keyMsg, keys.Refresh):
		refresh(m)
	case key.Matches(keyMsg, keys.Yaml):
		if item, ok := m.Selected(); ok && item.Ref != nil {
			m.DetailShowsLog = false
			m.Request(protocol.YamlSet{Ref: *item.Ref})
		}
	case key.Matches(keyMsg, keys.Describe):
		if item, ok := m.Selected(); ok && item.Ref != nil {
			m.DetailShowsLog = false
			m.Request(protocol.GetSet{Ref: *item.Ref})
		}
	case key.Matches(keyMsg, keys.FollowLog):
		return followLog(m)
	case key.Matches(keyMsg, keys.StopLog):
		if c := m.State().LogContainer; c.Pod != "" {
			m.Request(protocol.LogStop{Container: c})
			return m, statusFor(m, "Stopped following "+c.String(), model.StatusBarInfo)
		}
	case key.Matches(keyMsg, keys.Copy):
		if err := clipboardWriteAll(m.DetailText()); err != nil {
			return m, statusFor(m, "Copy failed: "+err.Error(), model.StatusBarError)
		}
		return m, statusFor(m, "Detail copied", model.StatusBarSuccess)
	}
	return m, nil
}

// activate performs the pane's primary action on the selected item.
func activate(m *model.Model) (*model.Model, tea.Cmd) {
	item, ok := m.Selected()
	if !ok {
		return m, nil
	}
	needsRef := m.Focus == model.PaneConfigs || m.Focus == model.PaneNetwork || m.Focus == model.PaneResources
	if needsRef && item.Ref == nil {
		// Rows such as a failed kind's error line have nothing to open.
		return m, nil
	}
	switch m.Focus {
	case model.PaneContexts:
		m.Request(protocol.ContextSet{Name: item.Context})
		return m, statusFor(m, "Switching to context "+item.Context, model.StatusBarInfo)
	case model.PaneNamespaces:
		m.Request(protocol.NamespaceSet{Namespaces: []string{item.Namespace}})
	case model.PanePods:
		return followLog(m)
	case model.PaneConfigs:
		m.DetailShowsLog = false
		m.Request(protocol.ConfigSet{Ref: *item.Ref})
	case model.PaneNetwork:
		m.DetailShowsLog = false
		m.Request(protocol.NetworkSet{Ref: *item.Ref})
	case model.PaneKinds:
		m.Request(protocol.YamlGet{Resource: *item.Kind})
		m.Focus = model.PaneResources
	case model.PaneResources:
		m.DetailShowsLog = false
		m.Request(protocol.YamlSet{Ref: *item.Ref})
	}
	return m, nil
}

// toggleSelection adds or removes the selected namespace or kind from the
// observed set. The manager applies the toggle to the scope current when the
// request is handled, so toggles still queued on the bus are not lost.
func toggleSelection(m *model.Model) (*model.Model, tea.Cmd) {
	item, ok := m.Selected()
	if !ok {
		return m, nil
	}
	switch m.Focus {
	case model.PaneNamespaces:
		m.Request(protocol.NamespaceToggle{Name: item.Namespace})
	case model.PaneKinds:
		m.Request(protocol.APIResourcesToggle{Resource: *item.Kind})
	}
	return m, nil
}

func refresh(m *model.Model) {
	switch m.Focus {
	case model.PaneContexts:
		m.Request(protocol.ContextGet{})
	case model.PaneNamespaces:
		m.Request(protocol.NamespaceGet{})
	case model.PanePods:
		m.Request(protocol.PodGet{})
	case model.PaneEvents:
		m.Request(protocol.EventGet{})
	case model.PaneConfigs:
		m.Request(protocol.ConfigGet{})
	case model.PaneNetwork:
		m.Request(protocol.NetworkGet{})
	case model.PaneKinds, model.PaneResources:
		m.Request(protocol.APIResourcesGet{})
	}
}

// followLog follows the selected pod's first container, or the next one when
// that pod is already followed.
func followLog(m *model.Model) (*model.Model, tea.Cmd) {
	if m.Focus != model.PanePods {
		return m, nil
	}
	item, ok := m.Selected()
	if !ok || item.Pod == nil {
		return m, nil
	}
	pod := item.Pod
	if len(pod.Containers) == 0 {
		return m, statusFor(m, fmt.Sprintf("Pod %s has no containers", pod.Name), model.StatusBarWarning)
	}
	container := pod.Containers[0]
	if cur := m.State().LogContainer; cur.Namespace == pod.Namespace && cur.Pod == pod.Name {
		for i, c := range pod.Containers {
			if c == cur.Container {
				container = pod.Containers[(i+1)%len(pod.Containers)]
				break
			}
		}
	}
	ref := kube.ContainerRef{Namespace: pod.Namespace, Pod: pod.Name, Container: container}
	m.DetailShowsLog = true
	m.Request(protocol.LogFollow{Container: ref})
	return m, statusFor(m, "Following "+ref.String(), model.StatusBarInfo)
}
