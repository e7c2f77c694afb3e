package animation

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Signal is a named marker on an animation's timeline. Playback crossing the marker emits an Event.
type Signal struct {
	// ID uniquely identifies the signal.
	ID uuid.UUID `yaml:"id"`

	// Name is reported with every emitted event.
	Name string `yaml:"name"`

	// Time is the marker position in seconds.
	Time float32 `yaml:"time"`

	// Enabled signals emit events; disabled ones never do.
	Enabled bool `yaml:"enabled"`
}

// NewSignal creates an enabled signal with a fresh id.
//
// Parameters:
//   - name: the signal name
//   - time: the marker position in seconds
//
// Returns:
//   - Signal: the new signal
func NewSignal(name string, time float32) Signal {
	return Signal{
		ID:      uuid.New(),
		Name:    name,
		Time:    time,
		Enabled: true,
	}
}

// Event records a signal crossed during playback.
type Event struct {
	SignalID uuid.UUID
	Name     string
}

// LoopMode controls what playback does at the ends of the time slice.
type LoopMode int

const (
	// LoopModeOnce stops at the end of the slice.
	LoopModeOnce LoopMode = iota

	// LoopModeLoop wraps around to the other end of the slice.
	LoopModeLoop

	// LoopModePingPong reverses the playback direction at either end of the slice.
	LoopModePingPong
)

var loopModeNames = []string{"once", "loop", "ping_pong"}

func (m LoopMode) String() string {
	if m < 0 || int(m) >= len(loopModeNames) {
		return "unknown"
	}
	return loopModeNames[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m LoopMode) MarshalText() ([]byte, error) {
	if m < 0 || int(m) >= len(loopModeNames) {
		return nil, errors.Errorf("unknown loop mode %d", int(m))
	}
	return []byte(loopModeNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *LoopMode) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for i, n := range loopModeNames {
		if n == name {
			*m = LoopMode(i)
			return nil
		}
	}
	return errors.Errorf("unknown loop mode %q", string(text))
}
