// Package bus is the single event stream of the dashboard: many producers
// (terminal input, the ticker, every worker) publish, one consumer (the UI
// loop) receives.
//
// The queue is unbounded so a producer never blocks on a slow consumer.
// Messages from one producer are received in the order they were published.
package bus

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned by Receive once the bus is closed and drained.
var ErrClosed = errors.New("bus closed")

// Metrics tracks bus throughput.
type Metrics struct {
	Published     int64
	Delivered     int64
	DroppedClosed int64
	Depth         int
	MaxDepth      int
	LastPublished time.Time
}

// Bus is an unbounded multi-producer, single-consumer queue of Messages.
type Bus struct {
	mu      sync.Mutex
	queue   []Message
	closed  bool
	metrics Metrics

	// ready holds one token while the queue is non-empty or the bus is closed.
	ready chan struct{}
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{ready: make(chan struct{}, 1)}
}

// Publish appends m to the queue. It never blocks. Publishing on a closed bus
// is a no-op.
func (b *Bus) Publish(m Message) {
	b.mu.Lock()
	if b.closed {
		b.metrics.DroppedClosed++
		b.mu.Unlock()
		return
	}
	b.queue = append(b.queue, m)
	b.metrics.Published++
	b.metrics.LastPublished = time.Now()
	if len(b.queue) > b.metrics.MaxDepth {
		b.metrics.MaxDepth = len(b.queue)
	}
	b.mu.Unlock()
	b.signal()
}

func (b *Bus) signal() {
	select {
	case b.ready <- struct{}{}:
	default:
	}
}

// TryReceive returns the next message without blocking.
func (b *Bus) TryReceive() (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return nil, false
	}
	m := b.queue[0]
	b.queue[0] = nil
	b.queue = b.queue[1:]
	if len(b.queue) == 0 {
		// Let the backing array go once drained.
		b.queue = nil
	}
	b.metrics.Delivered++
	return m, true
}

// Receive blocks until a message is available, ctx is done, or the bus is
// closed and drained. Only one goroutine may call Receive.
func (b *Bus) Receive(ctx context.Context) (Message, error) {
	for {
		if m, ok := b.TryReceive(); ok {
			if b.Len() > 0 {
				b.signal()
			}
			return m, nil
		}
		if b.isClosed() {
			b.signal()
			return nil, ErrClosed
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-b.ready:
		}
	}
}

// Close stops accepting messages. Messages already queued can still be received.
func (b *Bus) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.signal()
}

func (b *Bus) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Len returns the number of queued messages.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Metrics returns a copy of the bus metrics.
func (b *Bus) Metrics() Metrics {
	b.mu.Lock()
	defer b.mu.Unlock()
	m := b.metrics
	m.Depth = len(b.queue)
	return m
}

// Sender returns a publish-only handle to the bus.
func (b *Bus) Sender() Sender {
	return Sender{bus: b}
}

// Sender is the publish side of a Bus. It is a small value meant to be
// copied into every producer.
type Sender struct {
	bus *Bus
}

// Send publishes m. The zero Sender discards.
func (s Sender) Send(m Message) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(m)
}
