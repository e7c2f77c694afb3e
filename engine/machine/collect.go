package machine

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/pkg/errors"
)

// EventStrategy chooses which contributing animations report their signal events.
type EventStrategy uint8

const (
	// CollectAll reports the events of every contributing animation.
	CollectAll EventStrategy = iota
	// CollectMaxWeight reports the events of the animation with the largest contribution.
	CollectMaxWeight
	// CollectMinWeight reports the events of the animation with the smallest contribution.
	CollectMinWeight
)

var eventStrategyNames = []string{"all", "max_weight", "min_weight"}

func (s EventStrategy) String() string {
	if int(s) >= len(eventStrategyNames) {
		return "unknown"
	}
	return eventStrategyNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s EventStrategy) MarshalText() ([]byte, error) {
	if int(s) >= len(eventStrategyNames) {
		return nil, errors.Errorf("unknown event strategy %d", int(s))
	}
	return []byte(eventStrategyNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *EventStrategy) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for i, n := range eventStrategyNames {
		if n == name {
			*s = EventStrategy(i)
			return nil
		}
	}
	return errors.Errorf("unknown event strategy %q", string(text))
}

// AnimationEvent is a signal event together with the animation that fired it and that
// animation's share of the layer output.
type AnimationEvent struct {
	Animation animation.Handle
	Weight    float32
	Event     animation.Event
}

// CollectAnimationEvents returns the pending signal events of the animations that contributed to
// the last evaluation. Events stay queued on their animations.
//
// Parameters:
//   - animations: the animations played by the layer
//   - params: the machine parameters
//   - strategy: which contributing animations report
//
// Returns:
//   - []AnimationEvent: the events, in graph order
func (l *Layer) CollectAnimationEvents(animations *animation.Container, params *ParameterContainer, strategy EventStrategy) []AnimationEvent {
	if animations == nil {
		return nil
	}
	contrib := l.contributions(params, animations)
	if len(contrib) == 0 {
		return nil
	}

	switch strategy {
	case CollectMaxWeight, CollectMinWeight:
		best := 0
		for i := 1; i < len(contrib); i++ {
			if strategy == CollectMaxWeight && contrib[i].weight > contrib[best].weight ||
				strategy == CollectMinWeight && contrib[i].weight < contrib[best].weight {
				best = i
			}
		}
		contrib = contrib[best : best+1]
	}

	var out []AnimationEvent
	for _, wa := range contrib {
		a, ok := animations.Get(wa.handle)
		if !ok {
			continue
		}
		for _, e := range a.Events() {
			out = append(out, AnimationEvent{Animation: wa.handle, Weight: wa.weight, Event: e})
		}
	}
	return out
}
