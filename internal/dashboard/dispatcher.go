package dashboard

import (
	"context"
	"errors"
	"sync/atomic"

	"kubepane/internal/bus"
	"kubepane/internal/protocol"
	"kubepane/internal/scope"
	"kubepane/pkg/logging"
)

// RequestHandler performs requests; the worker manager implements it.
type RequestHandler interface {
	Handle(req protocol.Request)
}

// Dispatcher routes bus messages: requests go to the handler, current
// responses are applied to the State, stale responses are dropped.
type Dispatcher struct {
	scope   *scope.Scope
	handler RequestHandler
	state   *State

	discarded atomic.Int64
}

// NewDispatcher creates a Dispatcher over state.
func NewDispatcher(sc *scope.Scope, handler RequestHandler, state *State) *Dispatcher {
	return &Dispatcher{scope: sc, handler: handler, state: state}
}

// State returns the state the dispatcher writes to.
func (d *Dispatcher) State() *State {
	return d.state
}

// Discarded returns how many stale responses were dropped.
func (d *Dispatcher) Discarded() int64 {
	return d.discarded.Load()
}

// Dispatch handles one message and reports whether it changed the State.
// Input messages are left to the caller.
func (d *Dispatcher) Dispatch(m bus.Message) bool {
	switch msg := m.(type) {
	case bus.Tick:
		d.state.LastTick = msg.At
		return true
	case bus.Resize:
		d.state.Width, d.state.Height = msg.Width, msg.Height
		return true
	case bus.Kube:
		switch k := msg.Msg.(type) {
		case protocol.Request:
			d.request(k)
			return true
		case protocol.Response:
			return d.response(k)
		}
	}
	return false
}

func (d *Dispatcher) request(req protocol.Request) {
	switch r := req.(type) {
	case protocol.ContextSet, protocol.NamespaceSet, protocol.NamespaceToggle,
		protocol.APIResourcesSet, protocol.APIResourcesToggle:
		d.state.ResetScoped()
	case protocol.LogFollow:
		d.state.StartLog(r.Container)
	case protocol.LogStop:
		d.state.StopLog()
	}
	d.handler.Handle(req)
}

func (d *Dispatcher) response(r protocol.Response) bool {
	if !d.scope.IsCurrent(r.Generation()) {
		d.discarded.Add(1)
		logging.Debug("Dispatcher", "discarded stale %T from %s (current %s)", r, r.Generation(), d.scope.Generation())
		return false
	}
	d.state.Apply(r)
	return true
}

// Run is the headless consumer loop: it drains the bus until ctx is done or
// the bus is closed, logging every applied response.
func Run(ctx context.Context, b *bus.Bus, d *Dispatcher) error {
	for {
		m, err := b.Receive(ctx)
		if err != nil {
			if errors.Is(err, bus.ErrClosed) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if !d.Dispatch(m) {
			continue
		}
		if k, ok := m.(bus.Kube); ok {
			if r, ok := k.Msg.(protocol.Response); ok {
				if r.Failure() != nil {
					logging.Error("Dashboard", r.Failure(), "%s request failed", r.Area())
				} else {
					logging.Info("Dashboard", "%s", Describe(r))
				}
			}
		}
	}
}
