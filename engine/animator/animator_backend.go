package animator

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/machine"
	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
)

// AnimatorBackendType identifies the type of backend driving an Animator.
type AnimatorBackendType int

const (
	// BackendTypeMachine drives the animations through a layered state machine.
	BackendTypeMachine AnimatorBackendType = iota

	// BackendTypePlayer plays animations directly, blending every enabled animation by its weight
	// and crossfading between animations on request.
	BackendTypePlayer
)

func (t AnimatorBackendType) String() string {
	switch t {
	case BackendTypeMachine:
		return "machine"
	case BackendTypePlayer:
		return "player"
	}
	return "unknown"
}

// EventRecord is a signal event fired during the last update.
type EventRecord struct {
	// Layer is the index of the machine layer that reported the event, or -1 on player backends.
	Layer int

	Animation animation.Handle
	Weight    float32
	Event     animation.Event
}

// AnimatorBackend is the union interface that all animator backends implement. Methods that do
// not apply to a given backend type are implemented as no-ops.
type AnimatorBackend interface {
	commonAnimatorBackend
	machineAnimatorBackend
	playerAnimatorBackend
}

// commonAnimatorBackend holds the operations shared by every backend.
type commonAnimatorBackend interface {
	// Update advances the animations by dt and recomputes the output pose and events.
	Update(dt float32)

	// Pose returns the output of the last update.
	Pose() *pose.AnimationPose

	// Events returns the signal events of the last update.
	Events() []EventRecord

	// RootMotion returns the blended root motion of the last update.
	RootMotion() (pose.RootMotion, bool)

	Animations() *animation.Container
	SetAnimations(c *animation.Container)

	EventStrategy() machine.EventStrategy
	SetEventStrategy(s machine.EventStrategy)
}

// machineAnimatorBackend holds the state machine operations.
type machineAnimatorBackend interface {
	Machine() machine.Machine
	SetMachine(m machine.Machine)
	SetParameter(name string, p machine.Parameter)
}

// playerAnimatorBackend holds the direct playback operations.
type playerAnimatorBackend interface {
	PlayAnimation(h animation.Handle, mode animation.LoopMode)
	BlendToAnimation(h animation.Handle, duration float32)
	SetAnimationTime(h animation.Handle, time float32)
	SetAnimationSpeed(h animation.Handle, speed float32)
	IsBlending() bool
	BlendProgress() float32
	CancelBlend()
}

// baseAnimatorBackend carries the state shared by the concrete backends.
type baseAnimatorBackend struct {
	mu *sync.Mutex

	animations *animation.Container
	strategy   machine.EventStrategy
	output     *pose.AnimationPose
	events     []EventRecord
}

func newBaseAnimatorBackend() baseAnimatorBackend {
	return baseAnimatorBackend{
		mu:         &sync.Mutex{},
		animations: animation.NewContainer(),
		output:     pose.NewAnimationPose(),
	}
}

func (b *baseAnimatorBackend) Pose() *pose.AnimationPose {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.output
}

func (b *baseAnimatorBackend) Events() []EventRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]EventRecord(nil), b.events...)
}

func (b *baseAnimatorBackend) RootMotion() (pose.RootMotion, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.output.RootMotion()
}

func (b *baseAnimatorBackend) Animations() *animation.Container {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.animations
}

func (b *baseAnimatorBackend) SetAnimations(c *animation.Container) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c == nil {
		c = animation.NewContainer()
	}
	b.animations = c
}

func (b *baseAnimatorBackend) EventStrategy() machine.EventStrategy {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.strategy
}

func (b *baseAnimatorBackend) SetEventStrategy(s machine.EventStrategy) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.strategy = s
}
