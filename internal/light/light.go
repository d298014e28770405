// Package light models a push-button light as a two-state machine.
package light

import (
	"fmt"
	"log/slog"

	"github.com/nfrund/patterns/internal/events"
)

// TopicSwitched is published with the new state's name after every press.
const TopicSwitched = "light.switched"

// Button is the physical control the light drives. Only its label matters here.
type Button interface {
	SetLabel(label string)
}

// State decides what a button press does to the light.
type State interface {
	Name() string
	Press(l *Light)
}

type offState struct{}

func (offState) Name() string { return "off" }

func (offState) Press(l *Light) {
	slog.Info("light on")
	l.button.SetLabel("next press: off")
	l.current = On
}

type onState struct{}

func (onState) Name() string { return "on" }

func (onState) Press(l *Light) {
	slog.Info("light off")
	l.button.SetLabel("next press: on")
	l.current = Off
}

// The two states. They carry no data, so one value of each is shared.
var (
	Off State = offState{}
	On  State = onState{}
)

// Light delegates button presses to its current state.
type Light struct {
	current State
	button  Button
	emitter events.Emitter
}

// New creates a light that starts off. emitter may be nil.
func New(button Button, emitter events.Emitter) *Light {
	return &Light{
		current: Off,
		button:  button,
		emitter: emitter,
	}
}

// Init labels the button for the initial state.
func (l *Light) Init() {
	l.button.SetLabel("lights off")
}

// State returns the current state.
func (l *Light) State() State {
	return l.current
}

// Press hands the press to the current state and announces the result.
func (l *Light) Press() error {
	l.current.Press(l)
	if l.emitter == nil {
		return nil
	}
	if _, err := l.emitter.Publish(TopicSwitched, l.current.Name()); err != nil {
		return fmt.Errorf("announce light %s: %w", l.current.Name(), err)
	}
	return nil
}

// LabelRecorder is a Button that remembers every label it was given.
type LabelRecorder struct {
	Labels []string
}

// SetLabel implements Button.
func (r *LabelRecorder) SetLabel(label string) {
	r.Labels = append(r.Labels, label)
}

// Current returns the most recent label, or "" if none was set.
func (r *LabelRecorder) Current() string {
	if len(r.Labels) == 0 {
		return ""
	}
	return r.Labels[len(r.Labels)-1]
}
