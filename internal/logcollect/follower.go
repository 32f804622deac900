package logcollect

import (
	"context"
	"time"

	"kubepane/internal/kube"
	"kubepane/internal/worker"
	"kubepane/pkg/logging"
)

// Follower is the worker that streams one container log into a Buffer and
// runs a Collector over it.
type Follower struct {
	base      worker.Base
	container kube.ContainerRef
	tailLines int64
	interval  time.Duration
}

// NewFollowerFunc returns the factory the worker manager uses to build log
// follows.
func NewFollowerFunc(tailLines int64, interval time.Duration) worker.LogFollowerFunc {
	return func(b worker.Base, ref kube.ContainerRef) worker.Worker {
		return &Follower{base: b, container: ref, tailLines: tailLines, interval: interval}
	}
}

func (f *Follower) ID() string {
	return worker.LogFollowID(f.container)
}

// Run streams until the log ends or ctx is cancelled. The stream itself runs
// under ctx, so aborting the handle closes it.
func (f *Follower) Run(ctx context.Context) {
	buffer := NewBuffer()
	collector := New(f.base.Sender, buffer, f.container, f.base.Generation, f.interval)

	logging.Debug("LogCollector", "following %s", f.container)
	streamDone := make(chan error, 1)
	go func() {
		streamDone <- f.base.Client.StreamLogs(ctx, f.base.Target, f.container, f.tailLines, func(line string) {
			buffer.Append(line)
		})
	}()

	collector.Run(ctx, streamDone)
}
