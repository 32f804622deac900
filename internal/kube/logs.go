package kube

import (
	"bufio"
	"context"
	"io"

	corev1 "k8s.io/api/core/v1"

	"kubepane/internal/scope"
)

// maxLogLineSize bounds a single log line; longer lines end the stream with an error.
const maxLogLineSize = 1024 * 1024

// StreamLogs follows one container's log.
func (g *Gateway) StreamLogs(ctx context.Context, t scope.Target, ref ContainerRef, tailLines int64, onLine func(string)) error {
	cs, err := g.forContext(t.Context)
	if err != nil {
		return err
	}

	opts := &corev1.PodLogOptions{
		Container: ref.Container,
		Follow:    true,
	}
	if tailLines > 0 {
		opts.TailLines = &tailLines
	}

	stream, err := cs.stream.CoreV1().Pods(ref.Namespace).GetLogs(ref.Pod, opts).Stream(ctx)
	if err != nil {
		return Classify("stream logs", err)
	}
	defer stream.Close()

	return Classify("stream logs", scanLines(ctx, stream, onLine))
}

func scanLines(ctx context.Context, r io.Reader, onLine func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLogLineSize)
	for scanner.Scan() {
		onLine(scanner.Text())
	}
	// The body is torn down when ctx ends; whatever read error that causes
	// is reported as the cancellation.
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return scanner.Err()
}
