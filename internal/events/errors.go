package events

import (
	"errors"
	"fmt"
)

// Sentinel errors describing why a topic has nobody to deliver to. Publish and
// Unsubscribe report these cases as a false result; Classify turns them into
// error values for callers that prefer them.
var (
	ErrUnknownTopic = errors.New("topic has never been subscribed")
	ErrEmptyTopic   = errors.New("topic has no subscribers")
)

// PublishError is returned by Publish when a subscriber fails. Delivery stops
// at the failing subscriber.
type PublishError struct {
	Topic     string `json:"topic"`
	Index     int    `json:"index"`
	HandlerID string `json:"handler_id"`
	Err       error  `json:"error"`
}

// Error implements the error interface
func (e *PublishError) Error() string {
	return fmt.Sprintf("publish %q: subscriber %d (%s): %v", e.Topic, e.Index, e.HandlerID, e.Err)
}

// Unwrap returns the subscriber's error
func (e *PublishError) Unwrap() error {
	return e.Err
}
