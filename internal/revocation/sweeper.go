package revocation

import (
	"context"
	"log"
	"time"
)

// Sweeper deletes expired allow-list entries in bulk. Implemented by stores
// that filter expired entries by predicate instead of reaping them on read.
type Sweeper interface {
	Sweep(ctx context.Context) error
}

// RunSweeper calls s.Sweep every interval until ctx is cancelled. Sweep
// errors are logged and the loop keeps running.
func RunSweeper(ctx context.Context, s Sweeper, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				log.Printf("revocation: sweep failed: %v", err)
			}
		}
	}
}
