package repository

import (
	"context"
	"sync"
	"testing"

	"classtrack/backend/internal/event/domain"
)

func testEvent(actor string) *domain.Event {
	return &domain.Event{
		Type:      domain.TypeCreated,
		ActorID:   actor,
		TaskID:    "t1",
		Recipient: domain.Broadcast(),
	}
}

func TestMemoryRepository_AppendAssignsIncreasingIDs(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		id, err := repo.Append(ctx, testEvent("u1"))
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
		if id <= last {
			t.Fatalf("id %d not greater than previous %d", id, last)
		}
		last = id
	}
}

func TestMemoryRepository_AppendRejectsInvalidEvent(t *testing.T) {
	repo := NewMemoryRepository()
	if _, err := repo.Append(context.Background(), &domain.Event{Type: "bogus"}); err == nil {
		t.Fatal("Append should reject an invalid event")
	}
}

func TestMemoryRepository_RangeOrderNoGapsNoDuplicates(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Append(ctx, testEvent("u1")); err != nil {
				t.Errorf("Append: %v", err)
			}
		}()
	}
	wg.Wait()

	events, err := repo.Range(ctx, 0, 100)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(events) != 50 {
		t.Fatalf("len = %d, want 50", len(events))
	}
	for i, e := range events {
		if e.ID != int64(i+1) {
			t.Fatalf("events[%d].ID = %d, want %d (strictly increasing, no gaps)", i, e.ID, i+1)
		}
	}
}

func TestMemoryRepository_RangeResumesAfterCursor(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		if _, err := repo.Append(ctx, testEvent("u1")); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	events, err := repo.Range(ctx, 7, 100)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("len = %d, want 3", len(events))
	}
	if events[0].ID != 8 {
		t.Errorf("first id = %d, want 8", events[0].ID)
	}
}

func TestMemoryRepository_RangeClampsLimit(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		if _, err := repo.Append(ctx, testEvent("u1")); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	events, err := repo.Range(ctx, 0, 3)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("len = %d, want 3", len(events))
	}

	// Zero and negative limits are clamped up to one event.
	events, err = repo.Range(ctx, 0, 0)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("len = %d, want 1", len(events))
	}
}

func TestMemoryRepository_LastID(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	id, err := repo.LastID(ctx)
	if err != nil {
		t.Fatalf("LastID: %v", err)
	}
	if id != 0 {
		t.Errorf("empty log LastID = %d, want 0", id)
	}
	for i := 0; i < 3; i++ {
		if _, err := repo.Append(ctx, testEvent("u1")); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	id, err = repo.LastID(ctx)
	if err != nil {
		t.Fatalf("LastID: %v", err)
	}
	if id != 3 {
		t.Errorf("LastID = %d, want 3", id)
	}
}

func TestMemoryRepository_RangeReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	if _, err := repo.Append(ctx, testEvent("u1")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	events, _ := repo.Range(ctx, 0, 10)
	events[0].ActorID = "mutated"
	again, _ := repo.Range(ctx, 0, 10)
	if again[0].ActorID != "u1" {
		t.Error("Range must return copies; stored event was mutated")
	}
}
