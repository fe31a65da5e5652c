// Package notify is the in-process event bus behind the instructor
// notification stream. Subscriptions live for the duration of an SSE
// connection; events are dropped for slow subscribers rather than
// blocking publishers.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types published on the bus.
const (
	EventBookingCreated     = "booking_created"
	EventBookingRescheduled = "booking_rescheduled"
	EventBookingStatus      = "booking_status"
	EventBookingCancelled   = "booking_cancelled"
)

// Event is one notification delivered to instructor subscribers.
type Event struct {
	Type         string    `json:"type"`
	BookingID    uuid.UUID `json:"booking_id"`
	InstructorID uuid.UUID `json:"instructor_id"`
	Message      string    `json:"message"`
	Time         time.Time `json:"time"`
}

type subscriber struct {
	ch           chan Event
	instructorID uuid.UUID
}

// Bus fan-outs booking events to subscribed instructors. State is
// process-wide; subscriptions do not survive a restart.
type Bus struct {
	mu   sync.Mutex
	subs map[chan Event]subscriber
}

// NewBus constructs an empty Bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[chan Event]subscriber)}
}

// Subscribe registers a channel receiving events addressed to the given
// instructor.
func (b *Bus) Subscribe(instructorID uuid.UUID) chan Event {
	ch := make(chan Event, 32)
	b.mu.Lock()
	b.subs[ch] = subscriber{ch: ch, instructorID: instructorID}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscription channel.
func (b *Bus) Unsubscribe(ch chan Event) {
	if ch == nil {
		return
	}
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
	close(ch)
}

// Publish delivers the event to the instructor's subscribers. Slow
// subscribers miss the event.
func (b *Bus) Publish(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}

	b.mu.Lock()
	for _, sub := range b.subs {
		if sub.instructorID == ev.InstructorID {
			select {
			case sub.ch <- ev:
			default:
			}
		}
	}
	b.mu.Unlock()
}
