package animator

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/machine"
)

// AnimatorBuilderOption is a functional option for configuring an Animator during construction.
type AnimatorBuilderOption func(*animator)

// WithName is an option builder that names the Animator.
//
// Parameters:
//   - name: the animator name, used in logs
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the name option to an animator
func WithName(name string) AnimatorBuilderOption {
	return func(a *animator) {
		a.name = name
	}
}

// WithAnimations is an option builder that sets the animation container driven by the Animator.
//
// Parameters:
//   - c: the animations
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the animations option to an animator
func WithAnimations(c *animation.Container) AnimatorBuilderOption {
	return func(a *animator) {
		a.backend.SetAnimations(c)
	}
}

// WithMachine is an option builder that sets the state machine of a machine backend.
// Ignored by player backends.
//
// Parameters:
//   - m: the state machine
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the machine option to an animator
func WithMachine(m machine.Machine) AnimatorBuilderOption {
	return func(a *animator) {
		a.backend.SetMachine(m)
	}
}

// WithEventStrategy is an option builder that sets how contributing animations are chosen to
// report their events.
//
// Parameters:
//   - s: the strategy
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the strategy option to an animator
func WithEventStrategy(s machine.EventStrategy) AnimatorBuilderOption {
	return func(a *animator) {
		a.backend.SetEventStrategy(s)
	}
}
