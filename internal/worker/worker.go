// Package worker runs the background pollers and tasks that feed the
// dashboard, and the Manager that owns their lifecycle.
//
// Every worker belongs to one generation. It is built from that generation's
// Base, is never reconfigured, and stamps the generation on every response it
// publishes. Changing the Target Scope does not touch running workers: the
// Manager cancels the whole generation and spawns a new one.
package worker

import (
	"context"
	"fmt"
	"time"

	"kubepane/internal/bus"
	"kubepane/internal/kube"
	"kubepane/internal/protocol"
	"kubepane/internal/scope"
	"kubepane/pkg/logging"
)

// Worker is anything the Manager can spawn.
type Worker interface {
	// ID is the identity of the worker's handle, e.g. "pod-poller".
	ID() string
	// Run does the work until it is finished or ctx is cancelled.
	Run(ctx context.Context)
}

// Poller is a Worker that repeats on a fixed interval until cancelled.
type Poller interface {
	Worker
	Interval() time.Duration
}

// Base is what every worker of a generation shares. It is built once per
// generation and copied into each worker.
type Base struct {
	Generation scope.Generation
	// Target is the scope the generation was spawned for.
	Target scope.Target
	Scope  *scope.Scope
	Sender bus.Sender
	Client kube.Client

	// RunCtx outlives the generation; API calls run under it so a call
	// already in flight when the generation is cancelled can complete.
	RunCtx  context.Context
	Timeout time.Duration

	// token is cancelled when the generation is superseded.
	token context.Context
}

// Header stamps a response with the base's generation.
func (b Base) Header() protocol.Header {
	return protocol.Header{Gen: b.Generation}
}

// CallContext returns the context for one API call.
func (b Base) CallContext() (context.Context, context.CancelFunc) {
	ctx := b.RunCtx
	if ctx == nil {
		ctx = context.Background()
	}
	if b.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.Timeout)
}

// Publish sends r on the bus unless it only reports a cancellation.
func (b Base) Publish(r protocol.Response) {
	if kube.IsCancelled(r.Failure()) {
		return
	}
	b.Sender.Kube(r)
}

// Token is the generation's cancellation token.
func (b Base) Token() context.Context {
	if b.token == nil {
		return context.Background()
	}
	return b.token
}

// Handle controls one spawned worker.
type Handle struct {
	ID         string
	Generation scope.Generation

	cancel context.CancelFunc
	done   chan struct{}
}

// Abort asks the worker to stop. It does not wait.
func (h *Handle) Abort() {
	h.cancel()
}

// Done is closed once the worker has returned.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Spawn starts w under b's generation token.
func Spawn(b Base, w Worker) *Handle {
	ctx, cancel := context.WithCancel(b.Token())
	h := &Handle{
		ID:         w.ID(),
		Generation: b.Generation,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
	go func() {
		defer close(h.done)
		defer cancel()
		w.Run(ctx)
	}()
	return h
}

// safely runs one iteration, turning a panic into a logged internal error.
// It reports whether the iteration completed.
func safely(id string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Worker", &kube.Error{Kind: kube.KindInternal, Op: id, Err: fmt.Errorf("panic: %v", r)}, "worker %s abandoned an iteration", id)
			ok = false
		}
	}()
	fn()
	return true
}
