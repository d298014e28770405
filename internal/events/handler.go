package events

import "github.com/google/uuid"

// HandlerFunc is the callback run when a topic is published.
type HandlerFunc func(args ...any) error

// Handler is a subscription handle. Two handles are the same subscriber only
// if they are the same pointer.
type Handler struct {
	id   string
	name string
	fn   HandlerFunc
}

// NewHandler wraps fn in a new handle.
func NewHandler(fn HandlerFunc) *Handler {
	return NewNamedHandler("", fn)
}

// NewNamedHandler wraps fn in a new handle carrying a name for log output.
func NewNamedHandler(name string, fn HandlerFunc) *Handler {
	return &Handler{
		id:   uuid.NewString(),
		name: name,
		fn:   fn,
	}
}

// ID returns the handle's generated identifier.
func (h *Handler) ID() string {
	return h.id
}

// Name returns the handle's name, or its ID when unnamed.
func (h *Handler) Name() string {
	if h.name == "" {
		return h.id
	}
	return h.name
}

// Call invokes the wrapped function. A handle without a function is a no-op.
func (h *Handler) Call(args ...any) error {
	if h.fn == nil {
		return nil
	}
	return h.fn(args...)
}
