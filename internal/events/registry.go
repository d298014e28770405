package events

import (
	"log/slog"
	"slices"
	"sort"
	"sync"
)

// Emitter is the capability a type exposes when it lets others subscribe to
// and publish its topics.
type Emitter interface {
	Subscribe(topic string, h *Handler)
	Unsubscribe(topic string, handlers ...*Handler) bool
	Publish(topic string, args ...any) (bool, error)
}

// Compile-time interface compliance check
var _ Emitter = (*Registry)(nil)

// Registry maps topic names to ordered subscriber lists.
// The zero value is not usable; call NewRegistry.
type Registry struct {
	topics map[string][]*Handler
	mu     sync.Mutex
}

// NewRegistry creates a new, empty registry.
func NewRegistry() *Registry {
	return &Registry{
		topics: make(map[string][]*Handler),
	}
}

// Subscribe appends h to the topic's subscriber list, creating the list on
// first use. Subscribing the same handle twice delivers to it twice.
func (r *Registry) Subscribe(topic string, h *Handler) {
	if h == nil {
		slog.Warn("Ignoring nil subscriber", "topic", topic)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.topics[topic] = append(r.topics[topic], h)
	slog.Debug("Subscriber added", "topic", topic, "subscriber", h.Name(), "total_subscribers", len(r.topics[topic]))
}

// Unsubscribe removes subscribers from a topic.
//
// With no handlers it clears the topic, keeping the key. Otherwise every
// occurrence of each given handle is removed. It reports false, without
// changing anything, when the topic was never subscribed.
func (r *Registry) Unsubscribe(topic string, handlers ...*Handler) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs, exists := r.topics[topic]
	if !exists {
		return false
	}

	if len(handlers) == 0 {
		r.topics[topic] = []*Handler{}
		slog.Debug("All subscribers removed", "topic", topic, "removed", len(subs))
		return true
	}

	for _, h := range handlers {
		// Reverse scan so deleting index i leaves indices below i untouched.
		for i := len(subs) - 1; i >= 0; i-- {
			if subs[i] == h {
				subs = slices.Delete(subs, i, i+1)
			}
		}
	}
	r.topics[topic] = subs
	slog.Debug("Subscribers removed", "topic", topic, "total_subscribers", len(subs))
	return true
}

// Publish invokes every subscriber of topic with args, in subscription order,
// before returning. It reports false when the topic is unknown or empty.
//
// Delivery works on a snapshot taken when Publish starts: subscribers added or
// removed by a handler take effect on the next Publish. The first subscriber
// error stops delivery and is returned as a *PublishError. Panics are not
// recovered.
func (r *Registry) Publish(topic string, args ...any) (bool, error) {
	r.mu.Lock()
	snapshot := slices.Clone(r.topics[topic])
	r.mu.Unlock()

	if len(snapshot) == 0 {
		return false, nil
	}

	for i, h := range snapshot {
		if err := h.Call(args...); err != nil {
			return true, &PublishError{
				Topic:     topic,
				Index:     i,
				HandlerID: h.ID(),
				Err:       err,
			}
		}
	}
	return true, nil
}

// Classify returns nil when topic has subscribers, ErrUnknownTopic when it was
// never subscribed, and ErrEmptyTopic when its list has been emptied.
func (r *Registry) Classify(topic string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs, exists := r.topics[topic]
	switch {
	case !exists:
		return ErrUnknownTopic
	case len(subs) == 0:
		return ErrEmptyTopic
	default:
		return nil
	}
}

// Has reports whether topic has ever been subscribed.
func (r *Registry) Has(topic string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.topics[topic]
	return exists
}

// Len returns the number of subscribers currently on topic.
func (r *Registry) Len(topic string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.topics[topic])
}

// Topics returns every known topic name, including emptied ones, sorted.
func (r *Registry) Topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.topics))
	for name := range r.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
