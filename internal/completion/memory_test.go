package completion

import (
	"context"
	"sync"
	"testing"
)

func TestMemoryStore_MarkDoneIsIdempotent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.MarkDone(ctx, "t1", "a"); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	if err := s.MarkDone(ctx, "t1", "a"); err != nil {
		t.Fatalf("second MarkDone: %v", err)
	}
	done, err := s.IsDone(ctx, "t1", "a")
	if err != nil {
		t.Fatalf("IsDone: %v", err)
	}
	if !done {
		t.Error("IsDone should be true after MarkDone")
	}
}

func TestMemoryStore_ViewersAreIndependent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.MarkDone(ctx, "t1", "a"); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	if done, _ := s.IsDone(ctx, "t1", "b"); done {
		t.Error("marking done for a must not change b's flag")
	}
	if done, _ := s.IsDone(ctx, "t1", "a"); !done {
		t.Error("a's flag lost")
	}
}

func TestMemoryStore_MarkUndone(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	// Undoing an absent membership is not an error.
	if err := s.MarkUndone(ctx, "t1", "a"); err != nil {
		t.Fatalf("MarkUndone absent: %v", err)
	}
	if err := s.MarkDone(ctx, "t1", "a"); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
	if err := s.MarkUndone(ctx, "t1", "a"); err != nil {
		t.Fatalf("MarkUndone: %v", err)
	}
	if done, _ := s.IsDone(ctx, "t1", "a"); done {
		t.Error("IsDone should be false after MarkUndone")
	}
}

func TestMemoryStore_CascadeDeleteClearsAllViewers(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_ = s.MarkDone(ctx, "t1", "a")
	_ = s.MarkDone(ctx, "t1", "b")
	_ = s.MarkDone(ctx, "t2", "a")

	if err := s.CascadeDelete(ctx, "t1"); err != nil {
		t.Fatalf("CascadeDelete: %v", err)
	}
	if done, _ := s.IsDone(ctx, "t1", "a"); done {
		t.Error("a still done after cascade delete")
	}
	if done, _ := s.IsDone(ctx, "t1", "b"); done {
		t.Error("b still done after cascade delete")
	}
	if done, _ := s.IsDone(ctx, "t2", "a"); !done {
		t.Error("cascade delete of t1 must not touch t2")
	}
}

func TestMemoryStore_ConcurrentToggles(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	viewers := []string{"a", "b", "c", "d"}
	for _, v := range viewers {
		v := v
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				_ = s.MarkDone(ctx, "t1", v)
				_ = s.MarkUndone(ctx, "t1", v)
				_ = s.MarkDone(ctx, "t1", v)
			}
		}()
	}
	wg.Wait()

	for _, v := range viewers {
		if done, _ := s.IsDone(ctx, "t1", v); !done {
			t.Errorf("viewer %s: final state should be done", v)
		}
	}
}
