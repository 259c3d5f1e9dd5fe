package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/snap-protocol/snap/pkg/task"
)

func TestMemoryReplayStoreDetectsDuplicate(t *testing.T) {
	s := NewMemoryReplayStore(time.Hour)
	defer s.Close()
	ctx := context.Background()

	seen, err := s.HasSeen(ctx, "addr-a", "msg-1")
	if err != nil {
		t.Fatalf("HasSeen: %v", err)
	}
	if seen {
		t.Fatal("HasSeen should be false before MarkSeen")
	}

	if err := s.MarkSeen(ctx, "addr-a", "msg-1", time.Now().Unix()); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}

	seen, err = s.HasSeen(ctx, "addr-a", "msg-1")
	if err != nil {
		t.Fatalf("HasSeen: %v", err)
	}
	if !seen {
		t.Fatal("HasSeen should be true after MarkSeen")
	}

	// Different sender, same id: not a duplicate.
	seen, err = s.HasSeen(ctx, "addr-b", "msg-1")
	if err != nil {
		t.Fatalf("HasSeen: %v", err)
	}
	if seen {
		t.Fatal("HasSeen should be false for a different sender")
	}
}

func TestMemoryReplayStoreExpiry(t *testing.T) {
	s := NewMemoryReplayStore(50 * time.Millisecond)
	defer s.Close()
	ctx := context.Background()

	past := time.Now().Add(-time.Hour).Unix()
	if err := s.MarkSeen(ctx, "addr-a", "msg-1", past); err != nil {
		t.Fatalf("MarkSeen: %v", err)
	}

	seen, err := s.HasSeen(ctx, "addr-a", "msg-1")
	if err != nil {
		t.Fatalf("HasSeen: %v", err)
	}
	if seen {
		t.Error("entry with an already-past expiry should read as not seen")
	}
}

func TestCheckAndMarkAtomicUnderConcurrency(t *testing.T) {
	s := NewMemoryReplayStore(time.Hour)
	defer s.Close()
	ctx := context.Background()
	now := time.Now().Unix()

	const attempts = 50
	var wg sync.WaitGroup
	var alreadySeenCount int32
	var mu sync.Mutex

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen, err := s.CheckAndMark(ctx, "addr-a", "msg-1", now)
			if err != nil {
				t.Errorf("CheckAndMark: %v", err)
				return
			}
			if seen {
				mu.Lock()
				alreadySeenCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if alreadySeenCount != attempts-1 {
		t.Fatalf("alreadySeen = %d, want %d (exactly one caller should win the race)", alreadySeenCount, attempts-1)
	}
}

func TestMemoryTaskStoreRoundTrip(t *testing.T) {
	s := NewMemoryTaskStore()
	ctx := context.Background()

	tk := task.New("task-1", "ctx-1")
	if err := s.Set(ctx, tk.ID, tk); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := s.Get(ctx, "task-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get should find the stored task")
	}
	if got.Status.State != task.StateSubmitted {
		t.Errorf("state = %s, want submitted", got.Status.State)
	}

	if err := s.Delete(ctx, "task-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, ok, err = s.Get(ctx, "task-1")
	if err != nil {
		t.Fatalf("Get after delete: %v", err)
	}
	if ok {
		t.Error("Get should not find a deleted task")
	}
}
