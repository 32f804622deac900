package bus

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kubepane/internal/protocol"
)

func TestPublishReceiveFIFO(t *testing.T) {
	b := New()
	b.Publish(Tick{At: time.Unix(1, 0)})
	b.Publish(Resize{Width: 80, Height: 24})
	b.Publish(Input{Event: tea.KeyMsg{Type: tea.KeyEnter}})

	ctx := context.Background()
	m1, err := b.Receive(ctx)
	require.NoError(t, err)
	m2, _ := b.Receive(ctx)
	m3, _ := b.Receive(ctx)

	assert.Equal(t, Tick{At: time.Unix(1, 0)}, m1)
	assert.Equal(t, Resize{Width: 80, Height: 24}, m2)
	assert.IsType(t, Input{}, m3)
	assert.Equal(t, 0, b.Len())
}

func TestReceiveBlocksUntilPublish(t *testing.T) {
	b := New()
	got := make(chan Message, 1)
	go func() {
		m, err := b.Receive(context.Background())
		if err == nil {
			got <- m
		}
	}()

	select {
	case <-got:
		t.Fatal("Receive returned before anything was published")
	case <-time.After(20 * time.Millisecond):
	}

	b.Sender().Kube(protocol.PodGet{})
	select {
	case m := <-got:
		assert.Equal(t, Kube{Msg: protocol.PodGet{}}, m)
	case <-time.After(time.Second):
		t.Fatal("Receive did not wake up")
	}
}

func TestReceiveHonorsContext(t *testing.T) {
	b := New()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := b.Receive(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCloseDrainsThenReportsClosed(t *testing.T) {
	b := New()
	b.Publish(Tick{})
	b.Close()
	b.Publish(Tick{})

	_, err := b.Receive(context.Background())
	require.NoError(t, err)
	_, err = b.Receive(context.Background())
	assert.ErrorIs(t, err, ErrClosed)

	m := b.Metrics()
	assert.Equal(t, int64(1), m.Published)
	assert.Equal(t, int64(1), m.Delivered)
	assert.Equal(t, int64(1), m.DroppedClosed)
}

func TestProducersNeverBlock(t *testing.T) {
	b := New()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100000; i++ {
			b.Publish(Tick{})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("publishing without a consumer blocked")
	}
	assert.Equal(t, 100000, b.Len())
	assert.Equal(t, 100000, b.Metrics().MaxDepth)
}

// Each producer's messages arrive in publish order even when producers interleave.
func TestPerProducerOrdering(t *testing.T) {
	b := New()
	const producers, perProducer = 4, 500

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := b.Sender()
			for i := 0; i < perProducer; i++ {
				s.Send(Resize{Width: p, Height: i})
			}
		}()
	}

	last := make([]int, producers)
	for i := range last {
		last[i] = -1
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for n := 0; n < producers*perProducer; n++ {
		m, err := b.Receive(ctx)
		require.NoError(t, err)
		r := m.(Resize)
		assert.Greater(t, r.Height, last[r.Width])
		last[r.Width] = r.Height
	}
	wg.Wait()
}

func TestZeroSenderDiscards(t *testing.T) {
	var s Sender
	assert.NotPanics(t, func() { s.Send(Tick{}) })
}

func TestStartTicker(t *testing.T) {
	b := New()
	ctx, cancel := context.WithCancel(context.Background())
	StartTicker(ctx, b.Sender(), 5*time.Millisecond)

	rctx, rcancel := context.WithTimeout(context.Background(), time.Second)
	defer rcancel()
	m, err := b.Receive(rctx)
	require.NoError(t, err)
	assert.IsType(t, Tick{}, m)
	cancel()
}
