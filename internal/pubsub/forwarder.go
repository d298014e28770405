package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nfrund/patterns/internal/events"
)

// Metadata key naming the registry subscriber that forwarded a message.
const metaKeyForwarder = "forwarder"

// Forwarder republishes registry topics onto a Publisher. Each forwarded
// publish becomes one Message whose payload is the JSON array of arguments.
type Forwarder struct {
	ctx      context.Context
	registry events.Emitter
	pub      Publisher
}

// NewForwarder creates a forwarder that subscribes on registry and publishes
// to pub. ctx is attached to every outgoing message.
func NewForwarder(ctx context.Context, registry events.Emitter, pub Publisher) *Forwarder {
	return &Forwarder{
		ctx:      ctx,
		registry: registry,
		pub:      pub,
	}
}

// Forward subscribes to topic and returns the handle, which the caller can
// pass to Unsubscribe to stop forwarding. A marshal or publish failure is the
// handle's error, so it surfaces from the registry's Publish.
func (f *Forwarder) Forward(topic string) *events.Handler {
	var h *events.Handler
	h = events.NewNamedHandler("forward:"+topic, func(args ...any) error {
		if args == nil {
			args = []any{}
		}
		payload, err := json.Marshal(args)
		if err != nil {
			return fmt.Errorf("encode arguments for %s: %w", topic, err)
		}

		msg := Message{
			Topic:    topic,
			Payload:  payload,
			Metadata: map[string]string{metaKeyForwarder: h.ID()},
		}
		if err := f.pub.Publish(f.ctx, msg); err != nil {
			return fmt.Errorf("forward %s: %w", topic, err)
		}
		return nil
	})

	f.registry.Subscribe(topic, h)
	slog.Debug("Forwarding topic", "topic", topic, "forwarder", h.ID())
	return h
}

// DecodeArgs unpacks a forwarded message's payload back into its arguments.
// Numbers come back as float64, following encoding/json.
func DecodeArgs(msg Message) ([]any, error) {
	var args []any
	if err := json.Unmarshal(msg.Payload, &args); err != nil {
		return nil, fmt.Errorf("decode arguments for %s: %w", msg.Topic, err)
	}
	return args, nil
}
