package event

import (
	"testing"
	"time"
)

func TestBusDeliversInOrder(t *testing.T) {
	b := &bus{q: make(chan Queueable, 4)}

	first := NewMessageAppended(1, 1)
	second := NewMessageAppended(1, 2)
	b.NQ(first)
	b.NQ(second)

	if got := b.DQ(); got != first {
		t.Fatalf("expected first event, got %v", got)
	}
	if got := b.DQ(); got != second {
		t.Fatalf("expected second event, got %v", got)
	}
	if got := b.DQ(); got != nil {
		t.Fatalf("expected empty queue, got %v", got)
	}
}

func TestBusShedsWhenFull(t *testing.T) {
	b := &bus{q: make(chan Queueable, 1)}

	b.NQ(NewMessageAppended(1, 1))
	// the queue is full, the second enqueue must not block
	done := make(chan struct{})
	go func() {
		b.NQ(NewMessageAppended(1, 2))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("NQ blocked on a full queue")
	}
}

func TestEventExpiry(t *testing.T) {
	fresh := CreateBase(TypeMessageAppended, time.Now().Add(time.Minute))
	if fresh.Expired() {
		t.Fatal("fresh event reported expired")
	}
	stale := CreateBase(TypeMessageAppended, time.Now().Add(-time.Second))
	if !stale.Expired() {
		t.Fatal("stale event reported fresh")
	}
}
