package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIModeWritesText(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelInfo, &buf)

	Info("Worker", "spawned %d pollers", 3)
	Debug("Worker", "hidden")
	Error("Gateway", errors.New("boom"), "list failed")

	out := buf.String()
	assert.Contains(t, out, "spawned 3 pollers")
	assert.Contains(t, out, "subsystem=Worker")
	assert.Contains(t, out, "error=boom")
	assert.NotContains(t, out, "hidden")
}

func TestTUIModeDeliversEntries(t *testing.T) {
	ch := InitForTUI(LevelDebug, nil)
	defer CloseTUIChannel()
	require.NotNil(t, ch)

	Warn("Manager", "rotating to generation %d", 7)

	entry := <-ch
	assert.Equal(t, LevelWarn, entry.Level)
	assert.Equal(t, "Manager", entry.Subsystem)
	assert.Equal(t, "rotating to generation 7", entry.Message)
	assert.Contains(t, entry.String(), "[WARN] Manager: rotating to generation 7")
}

func TestTUIModeDropsWhenFull(t *testing.T) {
	ch := initCommon(true, LevelInfo, nil, 1)
	defer CloseTUIChannel()

	before := Dropped()
	Info("Test", "first")
	Info("Test", "second")

	assert.Len(t, ch, 1)
	assert.Equal(t, before+1, Dropped())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"info", LevelInfo},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}
