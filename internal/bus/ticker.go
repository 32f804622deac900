package bus

import (
	"context"
	"time"
)

// StartTicker publishes a Tick every interval until ctx is done.
func StartTicker(ctx context.Context, s Sender, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case t := <-ticker.C:
				s.Send(Tick{At: t})
			}
		}
	}()
}
