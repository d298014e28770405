package light

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/patterns/internal/events"
)

func TestLight_Press(t *testing.T) {
	button := &LabelRecorder{}
	l := New(button, nil)
	l.Init()

	assert.Equal(t, Off, l.State())
	assert.Equal(t, "lights off", button.Current())

	require.NoError(t, l.Press())
	assert.Equal(t, On, l.State())
	assert.Equal(t, "next press: off", button.Current())

	require.NoError(t, l.Press())
	assert.Equal(t, Off, l.State())
	assert.Equal(t, "next press: on", button.Current())

	assert.Equal(t, []string{"lights off", "next press: off", "next press: on"}, button.Labels)
}

func TestLight_Alternates(t *testing.T) {
	l := New(&LabelRecorder{}, nil)
	for i := 1; i <= 7; i++ {
		require.NoError(t, l.Press())
		if i%2 == 1 {
			assert.Equal(t, "on", l.State().Name(), "press %d", i)
		} else {
			assert.Equal(t, "off", l.State().Name(), "press %d", i)
		}
	}
}

func TestLight_Announces(t *testing.T) {
	reg := events.NewRegistry()
	var seen []any
	reg.Subscribe(TopicSwitched, events.NewHandler(func(args ...any) error {
		seen = append(seen, args[0])
		return nil
	}))

	l := New(&LabelRecorder{}, reg)
	require.NoError(t, l.Press())
	require.NoError(t, l.Press())
	assert.Equal(t, []any{"on", "off"}, seen)

	t.Run("Subscriber failure is returned but the switch still happens", func(t *testing.T) {
		broken := errors.New("observer down")
		reg.Subscribe(TopicSwitched, events.NewHandler(func(args ...any) error { return broken }))

		err := l.Press()
		assert.ErrorIs(t, err, broken)
		assert.Equal(t, On, l.State())
	})
}

func TestLabelRecorder_Empty(t *testing.T) {
	assert.Equal(t, "", (&LabelRecorder{}).Current())
}
