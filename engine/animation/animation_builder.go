package animation

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/track"
)

// AnimationBuilderOption is a functional option for configuring an Animation during construction.
type AnimationBuilderOption func(*animation)

// WithName sets the animation name.
//
// Parameters:
//   - name: the animation name
//
// Returns:
//   - AnimationBuilderOption: option function to apply
func WithName(name string) AnimationBuilderOption {
	return func(a *animation) {
		a.name = name
	}
}

// WithTracks adds tracks to the animation.
//
// Parameters:
//   - tracks: the tracks to add
//
// Returns:
//   - AnimationBuilderOption: option function to apply
func WithTracks(tracks ...*track.Track) AnimationBuilderOption {
	return func(a *animation) {
		for _, t := range tracks {
			a.AddTrack(t)
		}
	}
}

// WithTimeSlice sets an explicit playable range instead of fitting the tracks.
//
// Parameters:
//   - start: the slice start in seconds
//   - end: the slice end in seconds
//
// Returns:
//   - AnimationBuilderOption: option function to apply
func WithTimeSlice(start, end float32) AnimationBuilderOption {
	return func(a *animation) {
		a.SetTimeSlice(TimeSlice{Start: start, End: end})
	}
}

// WithSpeed sets the playback speed. Negative values play in reverse.
//
// Parameters:
//   - speed: the speed multiplier (default 1)
//
// Returns:
//   - AnimationBuilderOption: option function to apply
func WithSpeed(speed float32) AnimationBuilderOption {
	return func(a *animation) {
		a.speed = speed
	}
}

// WithLoopMode sets the behavior at the ends of the time slice.
//
// Parameters:
//   - mode: the loop mode (default LoopModeLoop)
//
// Returns:
//   - AnimationBuilderOption: option function to apply
func WithLoopMode(mode LoopMode) AnimationBuilderOption {
	return func(a *animation) {
		a.loopMode = mode
	}
}

// WithEnabled sets whether the animation plays.
func WithEnabled(enabled bool) AnimationBuilderOption {
	return func(a *animation) {
		a.enabled = enabled
	}
}

// WithWeight sets the player blend weight.
func WithWeight(weight float32) AnimationBuilderOption {
	return func(a *animation) {
		a.SetWeight(weight)
	}
}

// WithSignals adds timeline signals.
//
// Parameters:
//   - signals: the signals to add
//
// Returns:
//   - AnimationBuilderOption: option function to apply
func WithSignals(signals ...Signal) AnimationBuilderOption {
	return func(a *animation) {
		for _, s := range signals {
			a.AddSignal(s)
		}
	}
}

// WithRootMotion enables root motion extraction.
//
// Parameters:
//   - settings: the root node and the ignored motion components
//
// Returns:
//   - AnimationBuilderOption: option function to apply
func WithRootMotion(settings RootMotionSettings) AnimationBuilderOption {
	return func(a *animation) {
		a.SetRootMotionSettings(&settings)
	}
}

// WithMaxEventCapacity bounds the number of pending events.
// Values < 0 are treated as 0.
//
// Parameters:
//   - capacity: the bound (default DefaultMaxEventCapacity)
//
// Returns:
//   - AnimationBuilderOption: option function to apply
func WithMaxEventCapacity(capacity int) AnimationBuilderOption {
	return func(a *animation) {
		a.SetMaxEventCapacity(capacity)
	}
}
