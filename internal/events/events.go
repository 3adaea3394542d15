package events

import (
	"encoding/json"
	"sync"
	"time"

	"holidaze/internal/metrics"

	"github.com/rs/zerolog"
)

const (
	EventLoggedIn         = "logged_in"
	EventLoggedOut        = "logged_out"
	EventRegistered       = "registered"
	EventVenueCreated     = "venue_created"
	EventVenueUpdated     = "venue_updated"
	EventVenueDeleted     = "venue_deleted"
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
	EventProfileUpdated   = "profile_updated"
)

// VenueEventPayload is the venue snapshot carried by venue events.
type VenueEventPayload struct {
	VenueID   string  `json:"venue_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	MaxGuests int     `json:"max_guests"`
	Owner     string  `json:"owner,omitempty"`
}

// BookingEventPayload is the booking snapshot carried by booking events.
type BookingEventPayload struct {
	BookingID string    `json:"booking_id"`
	VenueID   string    `json:"venue_id,omitempty"`
	VenueName string    `json:"venue_name,omitempty"`
	Customer  string    `json:"customer,omitempty"`
	DateFrom  time.Time `json:"date_from"`
	DateTo    time.Time `json:"date_to"`
	Guests    int       `json:"guests"`
}

// SessionEventPayload accompanies login, logout and registration events.
type SessionEventPayload struct {
	Name         string `json:"name"`
	VenueManager bool   `json:"venue_manager"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// AllEvents lists every event type the services publish.
var AllEvents = []string{
	EventLoggedIn,
	EventLoggedOut,
	EventRegistered,
	EventVenueCreated,
	EventVenueUpdated,
	EventVenueDeleted,
	EventBookingCreated,
	EventBookingCancelled,
	EventProfileUpdated,
}

// Observe attaches the standard cross-cutting consumers: every published
// event is counted in metrics and written to the audit log.
func Observe(bus *EventBus, logger *zerolog.Logger) {
	handler := func(event *Event) error {
		metrics.IncDomainEvent(event.Type)
		payload := event.Payload
		if len(payload) == 0 {
			payload = []byte("{}")
		}
		logger.Info().
			Str("event", event.Type).
			RawJSON("payload", payload).
			Msg("domain event")
		return nil
	}
	for _, eventType := range AllEvents {
		bus.Subscribe(eventType, handler)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
