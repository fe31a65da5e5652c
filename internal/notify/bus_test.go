package notify

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesMatchingSubscriber(t *testing.T) {
	bus := NewBus()
	instructor := uuid.New()
	other := uuid.New()

	ch := bus.Subscribe(instructor)
	defer bus.Unsubscribe(ch)
	otherCh := bus.Subscribe(other)
	defer bus.Unsubscribe(otherCh)

	bus.Publish(Event{
		Type:         EventBookingCreated,
		BookingID:    uuid.New(),
		InstructorID: instructor,
		Message:      "new booking",
	})

	select {
	case ev := <-ch:
		assert.Equal(t, EventBookingCreated, ev.Type)
		assert.Equal(t, instructor, ev.InstructorID)
		assert.False(t, ev.Time.IsZero())
	default:
		t.Fatal("expected event for subscribed instructor")
	}

	select {
	case <-otherCh:
		t.Fatal("event delivered to wrong instructor")
	default:
	}
}

func TestSlowSubscriberDropsEvents(t *testing.T) {
	bus := NewBus()
	instructor := uuid.New()

	ch := bus.Subscribe(instructor)
	defer bus.Unsubscribe(ch)

	// Fill the buffer and then some; Publish must not block.
	for i := 0; i < 100; i++ {
		bus.Publish(Event{Type: EventBookingStatus, InstructorID: instructor})
	}

	assert.Equal(t, cap(ch), len(ch))
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe(uuid.New())
	bus.Unsubscribe(ch)

	_, open := <-ch
	require.False(t, open)

	// Unsubscribe of nil is a no-op.
	bus.Unsubscribe(nil)
}
