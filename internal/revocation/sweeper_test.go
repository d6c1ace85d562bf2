package revocation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type countingSweeper struct {
	mu  sync.Mutex
	n   int
	err error
}

func (c *countingSweeper) Sweep(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return c.err
}

func (c *countingSweeper) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func TestRunSweeper_SweepsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &countingSweeper{}

	done := make(chan struct{})
	go func() {
		RunSweeper(ctx, s, time.Millisecond)
		close(done)
	}()

	deadline := time.After(time.Second)
	for s.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("no sweep before deadline")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunSweeper did not return after cancel")
	}
}

func TestRunSweeper_KeepsGoingAfterError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := &countingSweeper{err: errors.New("db down")}

	go RunSweeper(ctx, s, time.Millisecond)

	deadline := time.After(time.Second)
	for s.count() < 2 {
		select {
		case <-deadline:
			t.Fatal("sweeper stopped after an error")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}
