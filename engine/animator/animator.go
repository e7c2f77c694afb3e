package animator

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/machine"
	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
)

// animator is the implementation of the Animator interface.
type animator struct {
	name        string
	backendType AnimatorBackendType
	backend     AnimatorBackend
}

// Animator drives the animations of a single character.
//
// Each Update ticks the animations it owns, computes one output pose and records the signal
// events fired on the way. The Animator delegates to an AnimatorBackend, either a layered state
// machine or a direct player with crossfades.
//
// Methods specific to a particular backend type no-op when called on an Animator using a
// different backend. The machine-only methods (SetMachine, SetParameter) no-op on player
// backends, and the player-only methods (PlayAnimation, BlendToAnimation, SetAnimationTime,
// SetAnimationSpeed, CancelBlend) no-op on machine backends.
//
// An Animator is safe for concurrent use, although updating it from several goroutines at once
// serializes on its lock.
type Animator interface {
	// Name returns the animator name.
	//
	// Returns:
	//   - string: the name given with WithName
	Name() string

	// BackendType returns the type of backend this animator is using.
	//
	// Returns:
	//   - AnimatorBackendType: the backend type (BackendTypeMachine or BackendTypePlayer)
	BackendType() AnimatorBackendType

	// Update advances the animations by dt, recomputes the output pose and collects the events
	// fired during the step. Events of the previous update are discarded.
	//
	// Parameters:
	//   - dt: elapsed time since the last update in seconds
	Update(dt float32)

	// Pose returns the output pose of the last update. The pose is owned by the animator and
	// overwritten by the next Update.
	//
	// Returns:
	//   - *pose.AnimationPose: the output pose
	Pose() *pose.AnimationPose

	// Events returns the signal events fired during the last update.
	//
	// Returns:
	//   - []EventRecord: a copy of the events
	Events() []EventRecord

	// RootMotion returns the root motion of the last update.
	//
	// Returns:
	//   - pose.RootMotion: the blended root motion
	//   - bool: false if no contributing animation extracts root motion
	RootMotion() (pose.RootMotion, bool)

	// Animations returns the container of animations driven by this animator.
	//
	// Returns:
	//   - *animation.Container: the animations
	Animations() *animation.Container

	// SetAnimations replaces the animation container.
	//
	// Parameters:
	//   - c: the new container, nil installs an empty one
	SetAnimations(c *animation.Container)

	// EventStrategy returns how contributing animations are chosen to report events.
	EventStrategy() machine.EventStrategy

	// SetEventStrategy changes how contributing animations are chosen to report events.
	//
	// Parameters:
	//   - s: the strategy (default machine.CollectAll)
	SetEventStrategy(s machine.EventStrategy)

	// Machine returns the state machine. Returns nil on player backends.
	//
	// Returns:
	//   - machine.Machine: the state machine
	Machine() machine.Machine

	// SetMachine replaces the state machine. No-op on player backends.
	//
	// Parameters:
	//   - m: the new machine, nil installs an empty one
	SetMachine(m machine.Machine)

	// SetParameter writes a machine parameter. No-op on player backends.
	//
	// Parameters:
	//   - name: the parameter name
	//   - p: the value
	SetParameter(name string, p machine.Parameter)

	// PlayAnimation rewinds an animation and plays it alone. No-op on machine backends.
	//
	// Parameters:
	//   - h: the animation to play
	//   - mode: the loop mode to play it with
	PlayAnimation(h animation.Handle, mode animation.LoopMode)

	// BlendToAnimation crossfades from the current animation to another one. No-op on machine
	// backends.
	//
	// Parameters:
	//   - h: the animation to blend to
	//   - duration: the crossfade time in seconds, <= 0 switches at once
	BlendToAnimation(h animation.Handle, duration float32)

	// SetAnimationTime moves the cursor of an animation. No-op on machine backends.
	//
	// Parameters:
	//   - h: the animation
	//   - time: the playback time in seconds
	SetAnimationTime(h animation.Handle, time float32)

	// SetAnimationSpeed changes the speed of an animation. No-op on machine backends.
	//
	// Parameters:
	//   - h: the animation
	//   - speed: the speed multiplier (1.0 = normal, negative plays backward)
	SetAnimationSpeed(h animation.Handle, speed float32)

	// IsBlending reports whether a crossfade is in progress. Returns false on machine backends.
	//
	// Returns:
	//   - bool: true if blending
	IsBlending() bool

	// BlendProgress returns the crossfade progress. Returns 0 on machine backends.
	//
	// Returns:
	//   - float32: progress from 0.0 (start) to 1.0 (complete), or 0.0 if not blending
	BlendProgress() float32

	// CancelBlend stops an in-progress crossfade and keeps the current animation. No-op on
	// machine backends.
	CancelBlend()
}

var _ Animator = &animator{}

// NewAnimator creates a new Animator with the specified backend type, configured by the
// provided options.
//
// Parameters:
//   - backendType: the type of backend to use (BackendTypeMachine or BackendTypePlayer)
//   - options: variadic list of AnimatorBuilderOption functions to configure the Animator
//
// Returns:
//   - Animator: a new Animator configured with the specified backend and options
func NewAnimator(backendType AnimatorBackendType, options ...AnimatorBuilderOption) Animator {
	a := &animator{
		backendType: backendType,
	}
	switch backendType {
	case BackendTypePlayer:
		a.backend = newPlayerAnimatorBackend()
	case BackendTypeMachine:
		fallthrough
	default:
		a.backendType = BackendTypeMachine
		a.backend = newMachineAnimatorBackend()
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

func (a *animator) Name() string {
	return a.name
}

func (a *animator) BackendType() AnimatorBackendType {
	return a.backendType
}

func (a *animator) Update(dt float32) {
	a.backend.Update(dt)
}

func (a *animator) Pose() *pose.AnimationPose {
	return a.backend.Pose()
}

func (a *animator) Events() []EventRecord {
	return a.backend.Events()
}

func (a *animator) RootMotion() (pose.RootMotion, bool) {
	return a.backend.RootMotion()
}

func (a *animator) Animations() *animation.Container {
	return a.backend.Animations()
}

func (a *animator) SetAnimations(c *animation.Container) {
	a.backend.SetAnimations(c)
}

func (a *animator) EventStrategy() machine.EventStrategy {
	return a.backend.EventStrategy()
}

func (a *animator) SetEventStrategy(s machine.EventStrategy) {
	a.backend.SetEventStrategy(s)
}

func (a *animator) Machine() machine.Machine {
	return a.backend.Machine()
}

func (a *animator) SetMachine(m machine.Machine) {
	a.backend.SetMachine(m)
}

func (a *animator) SetParameter(name string, p machine.Parameter) {
	a.backend.SetParameter(name, p)
}

func (a *animator) PlayAnimation(h animation.Handle, mode animation.LoopMode) {
	a.backend.PlayAnimation(h, mode)
}

func (a *animator) BlendToAnimation(h animation.Handle, duration float32) {
	a.backend.BlendToAnimation(h, duration)
}

func (a *animator) SetAnimationTime(h animation.Handle, time float32) {
	a.backend.SetAnimationTime(h, time)
}

func (a *animator) SetAnimationSpeed(h animation.Handle, speed float32) {
	a.backend.SetAnimationSpeed(h, speed)
}

func (a *animator) IsBlending() bool {
	return a.backend.IsBlending()
}

func (a *animator) BlendProgress() float32 {
	return a.backend.BlendProgress()
}

func (a *animator) CancelBlend() {
	a.backend.CancelBlend()
}
