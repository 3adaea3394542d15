package events

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	t.Run("handlers receive matching events only", func(t *testing.T) {
		bus := NewEventBus()

		var got []string
		bus.Subscribe(EventBookingCreated, func(ev *Event) error {
			got = append(got, ev.Type)
			return nil
		})

		require.NoError(t, bus.PublishJSON(EventBookingCreated, BookingEventPayload{BookingID: "b1"}))
		require.NoError(t, bus.PublishJSON(EventVenueDeleted, VenueEventPayload{VenueID: "v1"}))

		assert.Equal(t, []string{EventBookingCreated}, got)
	})

	t.Run("payload round trips", func(t *testing.T) {
		bus := NewEventBus()

		var got BookingEventPayload
		bus.Subscribe(EventBookingCreated, func(ev *Event) error {
			return json.Unmarshal(ev.Payload, &got)
		})

		require.NoError(t, bus.PublishJSON(EventBookingCreated, BookingEventPayload{BookingID: "b1", Guests: 2}))
		assert.Equal(t, "b1", got.BookingID)
		assert.Equal(t, 2, got.Guests)
	})

	t.Run("multiple handlers all fire", func(t *testing.T) {
		bus := NewEventBus()

		count := 0
		for i := 0; i < 3; i++ {
			bus.Subscribe(EventLoggedIn, func(*Event) error {
				count++
				return nil
			})
		}

		require.NoError(t, bus.PublishJSON(EventLoggedIn, SessionEventPayload{Name: "alice"}))
		assert.Equal(t, 3, count)
	})

	t.Run("nil bus publish is a no-op", func(t *testing.T) {
		var bus *EventBus
		assert.NoError(t, bus.PublishJSON(EventLoggedIn, nil))
	})

	t.Run("created at is stamped", func(t *testing.T) {
		bus := NewEventBus()
		var stamped bool
		bus.Subscribe(EventLoggedOut, func(ev *Event) error {
			stamped = !ev.CreatedAt.IsZero()
			return nil
		})
		require.NoError(t, bus.PublishJSON(EventLoggedOut, SessionEventPayload{}))
		assert.True(t, stamped)
	})
}

func TestObserve(t *testing.T) {
	t.Run("published events reach the audit log", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		bus := NewEventBus()
		Observe(bus, &logger)

		require.NoError(t, bus.PublishJSON(EventBookingCreated, BookingEventPayload{BookingID: "b1"}))
		require.NoError(t, bus.PublishJSON(EventVenueDeleted, VenueEventPayload{VenueID: "v9"}))

		logged := buf.String()
		assert.Contains(t, logged, EventBookingCreated)
		assert.Contains(t, logged, "b1")
		assert.Contains(t, logged, EventVenueDeleted)
		assert.Contains(t, logged, "v9")
	})

	t.Run("covers every published event type", func(t *testing.T) {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)

		bus := NewEventBus()
		Observe(bus, &logger)

		for _, eventType := range AllEvents {
			buf.Reset()
			bus.Publish(&Event{Type: eventType})
			assert.Contains(t, buf.String(), eventType)
		}
	})
}
