// Package mq publishes workflow events to a message broker.
package mq

import (
	"context"
	"encoding/json"
	"fmt"
)

// AttrEventType names the attribute carrying the event type.
const AttrEventType = "event_type"

// EventInspectionCompleted is published once the audit rows of a report
// have been written.
const EventInspectionCompleted = "inspection.completed"

// Message represents a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// EventType returns the event type attribute, if any.
func (m Message) EventType() string {
	return m.Attributes[AttrEventType]
}

// Handler processes a message. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, msg Message) error

// Backend defines the broker-agnostic operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// MQ wraps a backend with a JSON event API bound to one channel.
type MQ struct {
	backend Backend
	channel string
}

// New constructs an MQ for the provided backend and channel.
func New(backend Backend, channel string) *MQ {
	return &MQ{backend: backend, channel: channel}
}

// Channel returns the channel events are published on.
func (m *MQ) Channel() string {
	return m.channel
}

// PublishEvent marshals payload as JSON and publishes it tagged with
// eventType. It returns the broker's message id.
func (m *MQ) PublishEvent(ctx context.Context, eventType string, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return m.backend.Publish(ctx, m.channel, data, map[string]string{AttrEventType: eventType})
}

// Subscribe consumes messages from the channel until ctx is done.
func (m *MQ) Subscribe(ctx context.Context, handler Handler) error {
	return m.backend.Subscribe(ctx, m.channel, handler)
}

// Close closes the underlying backend.
func (m *MQ) Close() error {
	return m.backend.Close()
}
