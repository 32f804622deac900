package controller

import (
	"bytes"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kubepane/internal/bus"
	"kubepane/internal/kube"
	"kubepane/internal/protocol"
	"kubepane/internal/scope"
	"kubepane/internal/tui/model"
)

func TestNewProgram(t *testing.T) {
	f := newFixture(t, scope.Target{Context: "dev"})
	p := NewProgram(model.TUIConfig{Bus: f.bus, Dispatcher: f.model.Dispatcher, Scope: f.scope})
	require.NotNil(t, p)
}

func TestProgramRendersPodsFromBus(t *testing.T) {
	f := newFixture(t, scope.Target{Context: "dev"})
	tm := teatest.NewTestModel(t, NewAppModel(f.model), teatest.WithInitialTermSize(120, 40))

	f.bus.Publish(bus.Kube{Msg: protocol.PodResponse{
		Header: protocol.Header{Gen: 1},
		Result: protocol.Ok([]kube.PodInfo{{Namespace: "ns-a", Name: "web-7f9c", Ready: "1/1", Status: "Running"}}),
	}})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return bytes.Contains(out, []byte("web-7f9c"))
	}, teatest.WithDuration(3*time.Second))

	// The Init requests reached the handler through the bus.
	assert.Eventually(t, func() bool {
		f.handler.mu.Lock()
		defer f.handler.mu.Unlock()
		return len(f.handler.requests) >= 3
	}, time.Second, 10*time.Millisecond)

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	final := tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second))

	app, ok := final.(AppModel)
	require.True(t, ok)
	assert.Equal(t, model.ModeQuitting, app.Model().CurrentAppMode)
	assert.Equal(t, 120, app.Model().Width)
}
