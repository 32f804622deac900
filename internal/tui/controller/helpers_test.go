package controller

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"kubepane/internal/bus"
	"kubepane/internal/dashboard"
	"kubepane/internal/protocol"
	"kubepane/internal/scope"
	"kubepane/internal/tui/model"
)

// recordingHandler records requests. With a scope set it also rotates it the
// way the worker manager does for scope changes.
type recordingHandler struct {
	mu       sync.Mutex
	requests []protocol.Request
	scope    *scope.Scope
}

func (h *recordingHandler) Handle(req protocol.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, req)
	if h.scope == nil {
		return
	}
	switch r := req.(type) {
	case protocol.NamespaceSet:
		h.scope.Rotate(func(t scope.Target) scope.Target { return t.WithNamespaces(r.Namespaces) })
	case protocol.NamespaceToggle:
		h.scope.Rotate(func(t scope.Target) scope.Target { return t.ToggleNamespace(r.Name) })
	case protocol.APIResourcesToggle:
		h.scope.Rotate(func(t scope.Target) scope.Target { return t.ToggleAPIResource(r.Resource) })
	}
}

func (h *recordingHandler) last() protocol.Request {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.requests) == 0 {
		return nil
	}
	return h.requests[len(h.requests)-1]
}

type fixture struct {
	model   *model.Model
	bus     *bus.Bus
	scope   *scope.Scope
	handler *recordingHandler
}

func newFixture(t *testing.T, target scope.Target) *fixture {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	b := bus.New()
	sc := scope.New(target)
	h := &recordingHandler{}
	d := dashboard.NewDispatcher(sc, h, dashboard.NewState(100))
	m := model.InitializeModel(model.TUIConfig{
		Context:    ctx,
		Bus:        b,
		Dispatcher: d,
		Scope:      sc,
	})
	return &fixture{model: m, bus: b, scope: sc, handler: h}
}

// rotating makes the handler rotate the scope on scope changes.
func (f *fixture) rotating() *fixture {
	f.handler.scope = f.scope
	return f
}

// pump delivers everything queued on the bus, as the program would, and
// returns the last command produced.
func (f *fixture) pump() tea.Cmd {
	var cmd tea.Cmd
	for {
		msg, ok := f.bus.TryReceive()
		if !ok {
			return cmd
		}
		f.model, cmd = Update(model.BusMsg{Msg: msg}, f.model)
	}
}

// press sends a key through Update and the bus.
func (f *fixture) press(k tea.KeyMsg) tea.Cmd {
	f.model, _ = Update(k, f.model)
	return f.pump()
}

func (f *fixture) apply(r protocol.Response) {
	f.bus.Publish(bus.Kube{Msg: r})
	f.pump()
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
