package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const (
	EventBookingCreated    = "booking_created"
	EventBookingSinkFailed = "booking_sink_failed"
	EventSessionLoggedIn   = "session_logged_in"
)

// BookingEventPayload is the booking snapshot carried by booking events.
type BookingEventPayload struct {
	BookingID     int64     `json:"booking_id,omitempty"`
	ChatID        int64     `json:"chat_id,omitempty"`
	Type          string    `json:"booking_type"`
	Departure     string    `json:"departure"`
	Arrival       string    `json:"arrival"`
	TravelDate    time.Time `json:"travel_date"`
	Passengers    int       `json:"passengers"`
	PaymentStatus string    `json:"payment_status"`
	// Sink names the failed sink for EventBookingSinkFailed.
	Sink  string `json:"sink,omitempty"`
	Error string `json:"error,omitempty"`
}

// SessionEventPayload is published when a chat becomes authenticated.
type SessionEventPayload struct {
	ChatID   int64  `json:"chat_id"`
	Username string `json:"username"`
	Method   string `json:"method"`
}

type Event struct {
	// Seq is assigned by the bus, starting at 1.
	Seq       uint64
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

type EventHandler func(event *Event) error

// EventBus is an in-process, synchronous pub/sub. Handlers run in
// subscription order on the publisher's goroutine.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
	seq         atomic.Uint64
}

func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish delivers event to every subscriber of its type. A failing handler
// does not stop the others; their errors are joined.
func (b *EventBus) Publish(event *Event) error {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	event.Seq = b.seq.Add(1)
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(event); err != nil {
			errs = append(errs, fmt.Errorf("%s handler: %w", event.Type, err))
		}
	}
	return errors.Join(errs...)
}

// PublishJSON marshals payload and publishes it. A nil bus discards events.
func (b *EventBus) PublishJSON(eventType string, payload any) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	return b.Publish(&Event{Type: eventType, Payload: raw})
}
