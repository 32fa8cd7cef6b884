package session

import (
	"context"
	"time"
)

// RunTimer ticks e every interval until the engine leaves Ready, the
// countdown reaches zero or ctx is done. Reaching zero never submits.
func RunTimer(ctx context.Context, e *Engine, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			remaining, ok := e.Tick()
			if !ok || remaining == 0 {
				return
			}
		}
	}
}
