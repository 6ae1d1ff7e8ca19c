package event

import (
	"time"
)

const busCapacity = 4096

type (
	// Queueable is what travels through the bus: typed, droppable by a
	// subscriber, and expiring so that stale events are never delivered.
	Queueable interface {
		Process()
		IsProcessed() bool
		Drop()
		IsDropped() bool
		Expired() bool
		Type() string
	}

	// Base carries the bookkeeping shared by all event types; concrete
	// events embed it and add their payload.
	Base struct {
		processed bool
		dropped   bool
		expireAt  time.Time
		eventType string
	}

	bus struct {
		q chan Queueable
	}
)

// Bus is the process-wide event queue. Services enqueue after their state
// change commits; the worker drains on its own goroutine.
var Bus = &bus{q: make(chan Queueable, busCapacity)}

func CreateBase(eventType string, expiresAt time.Time) *Base {
	return &Base{
		expireAt:  expiresAt,
		eventType: eventType,
	}
}

func (b *Base) Process()          { b.processed = true }
func (b *Base) IsProcessed() bool { return b.processed }
func (b *Base) Drop()             { b.dropped = true }
func (b *Base) IsDropped() bool   { return b.dropped }
func (b *Base) Type() string      { return b.eventType }

func (b *Base) Expired() bool {
	return time.Now().After(b.expireAt)
}

// NQ enqueues without blocking; when the queue is full the event is shed.
// Events are advisory, request handling never waits on them.
func (b *bus) NQ(event Queueable) {
	select {
	case b.q <- event:
	default:
	}
}

// DQ returns the next event or nil when the queue is empty.
func (b *bus) DQ() Queueable {
	select {
	case q := <-b.q:
		return q
	default:
		return nil
	}
}
