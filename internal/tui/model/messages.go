package model

import (
	"kubepane/internal/bus"
	"kubepane/pkg/logging"
)

// BusMsg carries one message received from the event bus into the program.
type BusMsg struct {
	Msg bus.Message
}

// BusClosedMsg reports that the bus consumer stopped.
type BusClosedMsg struct {
	Err error
}

// NewLogEntryMsg carries one entry of the logging channel.
type NewLogEntryMsg struct {
	Entry logging.LogEntry
}

// LogChannelClosedMsg reports that the logging channel was closed.
type LogChannelClosedMsg struct{}

// ClearStatusBarMsg clears the status message it was scheduled for.
type ClearStatusBarMsg struct {
	Seq int
}
