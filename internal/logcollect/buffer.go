// Package logcollect follows container logs and batches the streamed lines
// into one response per flush interval.
package logcollect

import "sync"

// Buffer accumulates log lines between flushes. The streaming side appends
// and the collector takes; both hold the lock only briefly.
type Buffer struct {
	mu    sync.Mutex
	lines []string
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append adds lines in order.
func (b *Buffer) Append(lines ...string) {
	b.mu.Lock()
	b.lines = append(b.lines, lines...)
	b.mu.Unlock()
}

// Take returns every buffered line and leaves the buffer empty. It returns
// nil when nothing was buffered.
func (b *Buffer) Take() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.lines) == 0 {
		return nil
	}
	out := b.lines
	b.lines = nil
	return out
}

// Len returns the number of buffered lines.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}
