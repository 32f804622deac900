package logcollect

import (
	"context"
	"time"

	"kubepane/internal/bus"
	"kubepane/internal/kube"
	"kubepane/internal/protocol"
	"kubepane/internal/scope"
	"kubepane/pkg/logging"
)

// DefaultFlushInterval is the batching window used when none is configured.
const DefaultFlushInterval = 200 * time.Millisecond

// Collector drains a Buffer on a fixed interval and publishes each non-empty
// batch as one LogResponse.
type Collector struct {
	sender     bus.Sender
	buffer     *Buffer
	container  kube.ContainerRef
	generation scope.Generation
	interval   time.Duration
}

// New creates a Collector for one container's log.
func New(sender bus.Sender, buffer *Buffer, container kube.ContainerRef, gen scope.Generation, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	return &Collector{
		sender:     sender,
		buffer:     buffer,
		container:  container,
		generation: gen,
		interval:   interval,
	}
}

// Flush publishes whatever is buffered. Nothing is published for an empty
// buffer. It reports whether a response was sent.
func (c *Collector) Flush() bool {
	lines := c.buffer.Take()
	if lines == nil {
		return false
	}
	c.sender.Kube(protocol.LogResponse{
		Header:    protocol.Header{Gen: c.generation},
		Container: c.container,
		Result:    protocol.Ok(lines),
	})
	return true
}

// Run flushes every interval until ctx is done or streamDone delivers the
// stream's outcome. When the stream ends the remaining lines are flushed and
// a failure is published as a terminal error response. When ctx ends first
// the collector stops without flushing.
func (c *Collector) Run(ctx context.Context, streamDone <-chan error) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Flush()
		case err := <-streamDone:
			c.Flush()
			if err != nil && !kube.IsCancelled(err) {
				logging.Warn("LogCollector", "log stream for %s ended: %v", c.container, err)
				c.sender.Kube(protocol.LogResponse{
					Header:    protocol.Header{Gen: c.generation},
					Container: c.container,
					Result:    protocol.Fail[[]string](err),
				})
			}
			return
		}
	}
}
