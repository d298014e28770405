// Package pubsub carries registry events onto an asynchronous message bus.
package pubsub

import (
	"context"
)

// Message is what travels over the bus for one registry publish.
type Message struct {
	// Topic is the registry topic the event was published on (e.g., "squareMeter88").
	Topic string
	// Payload is the JSON array of the publish arguments.
	Payload []byte
	// Metadata can contain arbitrary key-value pairs for context.
	Metadata map[string]string
}

// Handler defines the function signature for processing a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher defines the contract for sending messages to the bus.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber defines the contract for receiving messages from the bus.
type Subscriber interface {
	// Subscribe starts listening to the given topic, processing messages with the handler.
	// It returns once the subscription is active; delivery continues until the context
	// is canceled or the subscriber is closed.
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
