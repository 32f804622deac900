package model

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"kubepane/internal/bus"
	"kubepane/internal/protocol"
	"kubepane/pkg/logging"
)

// WaitForBus blocks on the bus and hands the next message to the program.
// It is re-issued after every BusMsg, so the program is the bus' only consumer.
func WaitForBus(ctx context.Context, b *bus.Bus) tea.Cmd {
	return func() tea.Msg {
		m, err := b.Receive(ctx)
		if err != nil {
			return BusClosedMsg{Err: err}
		}
		return BusMsg{Msg: m}
	}
}

// ListenForLogs forwards logging entries into the program.
func ListenForLogs(ch <-chan logging.LogEntry) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		entry, ok := <-ch
		if !ok {
			return LogChannelClosedMsg{}
		}
		return NewLogEntryMsg{Entry: entry}
	}
}

// Request publishes req onto the bus. The dispatcher routes it when the
// program receives it back.
func (m *Model) Request(req protocol.Request) {
	m.Sender.Kube(req)
}

// SetStatusMessage shows msg in the status bar and schedules its removal.
func (m *Model) SetStatusMessage(msg string, msgType MessageType, d time.Duration) tea.Cmd {
	m.statusSeq++
	seq := m.statusSeq
	m.StatusMessage = msg
	m.StatusMessageType = msgType
	if d <= 0 {
		d = statusMessageTTL
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return ClearStatusBarMsg{Seq: seq} })
}

// ClearStatusMessage drops the status message if it is the one seq refers to.
func (m *Model) ClearStatusMessage(seq int) {
	if seq == m.statusSeq {
		m.StatusMessage = ""
	}
}
