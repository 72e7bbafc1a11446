package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Event is the JSON envelope published on the bus
type Event struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Handler processes a received event
type Handler func(ctx context.Context, event *Event) error

// Bus is a thin NATS wrapper used for fire-and-forget fanout. A nil
// *Bus is valid and drops every publish, so callers don't need to
// branch on whether the bus is configured.
type Bus struct {
	conn *nats.Conn
}

// Connect establishes a NATS connection with sane reconnect defaults
func Connect(url string) (*Bus, error) {
	conn, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to nats: %w", err)
	}
	return &Bus{conn: conn}, nil
}

// Publish sends an event to the subject. Publishing on a nil bus is a no-op.
func (b *Bus) Publish(_ context.Context, subject, eventType string, data interface{}) error {
	if b == nil || b.conn == nil {
		return nil
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	event := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      payload,
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := b.conn.Publish(subject, raw); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Subscribe registers a queue subscription for the subject pattern
func (b *Bus) Subscribe(ctx context.Context, subject, queue string, handler Handler) error {
	if b == nil || b.conn == nil {
		return fmt.Errorf("event bus not connected")
	}

	_, err := b.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			return
		}
		_ = handler(ctx, &event)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	return nil
}

// Close drains the connection
func (b *Bus) Close() {
	if b == nil || b.conn == nil {
		return
	}
	_ = b.conn.Drain()
}
