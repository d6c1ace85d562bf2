package revocation

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryStore_ActivateAndIsActive(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Activate(ctx, "tok-1", "u1", 5*time.Minute); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	active, err := store.IsActive(ctx, "tok-1")
	if err != nil {
		t.Fatalf("IsActive: %v", err)
	}
	if !active {
		t.Error("IsActive should be true after Activate")
	}
}

func TestMemoryStore_AbsenceMeansInactive(t *testing.T) {
	store := NewMemoryStore()
	active, err := store.IsActive(context.Background(), "never-activated")
	if err != nil {
		t.Fatalf("IsActive: %v", err)
	}
	if active {
		t.Error("token that was never activated must not be active")
	}
}

func TestMemoryStore_RevokeIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Activate(ctx, "tok-1", "u1", 5*time.Minute); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if err := store.Revoke(ctx, "tok-1"); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if active, _ := store.IsActive(ctx, "tok-1"); active {
		t.Error("token should be inactive after Revoke")
	}
	// Second revoke and revoking an unknown token are not errors.
	if err := store.Revoke(ctx, "tok-1"); err != nil {
		t.Errorf("second Revoke: %v", err)
	}
	if err := store.Revoke(ctx, "unknown"); err != nil {
		t.Errorf("Revoke unknown: %v", err)
	}
}

func TestMemoryStore_TTLExpiresWithWallClock(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Activate(ctx, "tok-1", "u1", 50*time.Millisecond); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if active, _ := store.IsActive(ctx, "tok-1"); !active {
		t.Fatal("token must be active within its TTL")
	}
	time.Sleep(100 * time.Millisecond)
	if active, _ := store.IsActive(ctx, "tok-1"); active {
		t.Error("token must not be active after its TTL elapses")
	}
}

func TestMemoryStore_ExpiryReapsEntry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now().UTC()
	store.nowF = func() time.Time { return now }
	ctx := context.Background()

	if err := store.Activate(ctx, "tok-1", "u1", time.Minute); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if active, _ := store.IsActive(ctx, "tok-1"); !active {
		t.Fatal("token must be active before its TTL elapses")
	}

	now = now.Add(time.Minute + time.Second)
	if active, _ := store.IsActive(ctx, "tok-1"); active {
		t.Error("token must not be active after its TTL elapses")
	}
	store.mu.RLock()
	remaining := len(store.m)
	store.mu.RUnlock()
	if remaining != 0 {
		t.Errorf("expired entry should have been reaped, %d left", remaining)
	}
}

func TestMemoryStore_ClockAdvances(t *testing.T) {
	store := NewMemoryStore()
	first := store.nowF()
	time.Sleep(5 * time.Millisecond)
	if !store.nowF().After(first) {
		t.Error("store clock must follow the wall clock, not the construction time")
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		tok := "tok-" + string(rune('0'+i))
		go func() {
			defer wg.Done()
			_ = store.Activate(ctx, tok, "u1", time.Minute)
		}()
		go func() {
			defer wg.Done()
			_, _ = store.IsActive(ctx, tok)
		}()
	}
	wg.Wait()
}
