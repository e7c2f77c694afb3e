package engine

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/crowd"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithTickRate sets the engine tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.engineTickRate = tickInterval(fps)
	}
}

// WithCrowd sets the crowd updated by the engine. The caller keeps ownership and stops it.
//
// Parameters:
//   - c: a pre-configured Crowd instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCrowd(c crowd.Crowd) EngineBuilderOption {
	return func(e *engine) {
		e.crowd = c
		e.ownsCrowd = false
	}
}

// WithMaxDelta caps the delta time passed to a single tick.
// Values <= 0 are ignored.
//
// Parameters:
//   - seconds: the largest delta in seconds (default 0.25)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithMaxDelta(seconds float32) EngineBuilderOption {
	return func(e *engine) {
		if seconds > 0 {
			e.maxDelta = seconds
		}
	}
}

// WithTickCallback registers the tick callback during construction.
func WithTickCallback(callback func(deltaTime float32)) EngineBuilderOption {
	return func(e *engine) {
		e.tickCallback = callback
	}
}
