// Package salesoffice is a host type that lets buyers subscribe to price
// announcements for flats of a given size.
package salesoffice

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/nfrund/patterns/internal/events"
)

// SalesOffice forwards its event operations to a registry it owns.
type SalesOffice struct {
	Name   string
	events *events.Registry
}

// Compile-time interface compliance check
var _ events.Emitter = (*SalesOffice)(nil)

// New creates a sales office publishing on reg. A nil reg gets a fresh registry.
func New(name string, reg *events.Registry) *SalesOffice {
	if reg == nil {
		reg = events.NewRegistry()
	}
	return &SalesOffice{
		Name:   name,
		events: reg,
	}
}

// Topic returns the topic name buyers subscribe to for flats of the given size.
func Topic(squareMeters int) string {
	return fmt.Sprintf("squareMeter%d", squareMeters)
}

// Subscribe implements events.Emitter.
func (o *SalesOffice) Subscribe(topic string, h *events.Handler) {
	o.events.Subscribe(topic, h)
}

// Unsubscribe implements events.Emitter.
func (o *SalesOffice) Unsubscribe(topic string, handlers ...*events.Handler) bool {
	return o.events.Unsubscribe(topic, handlers...)
}

// Publish implements events.Emitter.
func (o *SalesOffice) Publish(topic string, args ...any) (bool, error) {
	return o.events.Publish(topic, args...)
}

// AnnouncePrice publishes price to everyone watching flats of squareMeters.
// It reports whether anybody was listening.
func (o *SalesOffice) AnnouncePrice(squareMeters, price int) (bool, error) {
	topic := Topic(squareMeters)
	delivered, err := o.events.Publish(topic, price)
	if err != nil {
		return delivered, fmt.Errorf("announce price for %s: %w", topic, err)
	}
	if !delivered {
		slog.Info("No buyers watching", "office", o.Name, "topic", topic)
	}
	return delivered, nil
}

// PriceListener returns a handler that writes "price= <currency><amount>"
// lines to w.
func PriceListener(name string, w io.Writer, currency string) *events.Handler {
	return events.NewNamedHandler(name, func(args ...any) error {
		if len(args) == 0 {
			return fmt.Errorf("listener %s: missing price", name)
		}
		_, err := fmt.Fprintf(w, "price= %s%v\n", currency, args[0])
		return err
	})
}
