package animator

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/machine"
)

// playerState tracks the animation being played and an optional crossfade toward another one.
type playerState struct {
	current animation.Handle

	blending                    bool
	blendFrom, blendTo          animation.Handle
	blendDuration, blendElapsed float32
}

// playerAnimatorBackendImpl blends every enabled animation of its container by weight. A
// crossfade scales the weights of the animations it moves between.
type playerAnimatorBackendImpl struct {
	baseAnimatorBackend
	state playerState
}

var _ AnimatorBackend = &playerAnimatorBackendImpl{}

func newPlayerAnimatorBackend() AnimatorBackend {
	return &playerAnimatorBackendImpl{baseAnimatorBackend: newBaseAnimatorBackend()}
}

func (p *playerAnimatorBackendImpl) Update(dt float32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.animations.ClearEvents()
	p.animations.UpdateAnimations(dt)

	state := &p.state
	var progress float32
	if state.blending {
		state.blendElapsed += dt
		progress = min(state.blendElapsed/state.blendDuration, 1)
	}

	p.output.Reset()
	var contributions []EventRecord
	p.animations.Each(func(h animation.Handle, a animation.Animation) bool {
		if !a.Enabled() {
			return true
		}
		w := a.Weight()
		if state.blending {
			switch h {
			case state.blendFrom:
				w *= 1 - progress
			case state.blendTo:
				w *= progress
			}
		}
		if !(w > 0) {
			return true
		}
		p.output.BlendWith(a.Pose(), w)
		contributions = append(contributions, EventRecord{Layer: -1, Animation: h, Weight: w})
		return true
	})

	if state.blending && progress >= 1 {
		if from, ok := p.animations.Get(state.blendFrom); ok && state.blendFrom != state.blendTo {
			from.SetEnabled(false)
		}
		state.current = state.blendTo
		state.blending = false
		state.blendElapsed = 0
	}

	p.events = p.events[:0]
	for _, c := range selectContributions(contributions, p.strategy) {
		a, ok := p.animations.Get(c.Animation)
		if !ok {
			continue
		}
		for _, e := range a.Events() {
			c.Event = e
			p.events = append(p.events, c)
		}
	}
}

// selectContributions keeps the records chosen by the strategy.
func selectContributions(records []EventRecord, strategy machine.EventStrategy) []EventRecord {
	if len(records) == 0 || strategy == machine.CollectAll {
		return records
	}
	best := 0
	for i := 1; i < len(records); i++ {
		if strategy == machine.CollectMaxWeight && records[i].Weight > records[best].Weight ||
			strategy == machine.CollectMinWeight && records[i].Weight < records[best].Weight {
			best = i
		}
	}
	return records[best : best+1]
}

// PlayAnimation rewinds h, enables it with the given loop mode and disables every other
// animation. Any crossfade is cancelled.
func (p *playerAnimatorBackendImpl) PlayAnimation(h animation.Handle, mode animation.LoopMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	target, ok := p.animations.Get(h)
	if !ok {
		return
	}
	p.animations.Each(func(other animation.Handle, a animation.Animation) bool {
		if other != h {
			a.SetEnabled(false)
		}
		return true
	})
	target.SetLoopMode(mode)
	target.Rewind()
	target.SetEnabled(true)
	p.state = playerState{current: h}
}

// BlendToAnimation crossfades from the current animation to h over duration seconds. A
// non-positive duration switches at once. Calling it during a crossfade disables the previous
// target and restarts the blend from the current animation.
func (p *playerAnimatorBackendImpl) BlendToAnimation(h animation.Handle, duration float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	target, ok := p.animations.Get(h)
	if !ok {
		return
	}

	state := &p.state
	// An interrupted crossfade drops its target; the new blend starts from the current animation.
	if state.blending && state.blendTo != h && state.blendTo != state.current {
		if to, ok := p.animations.Get(state.blendTo); ok {
			to.SetEnabled(false)
		}
	}
	target.Rewind()
	target.SetEnabled(true)

	if duration <= 0 || h == state.current {
		if from, ok := p.animations.Get(state.current); ok && state.current != h {
			from.SetEnabled(false)
		}
		*state = playerState{current: h}
		return
	}
	state.blending = true
	state.blendFrom = state.current
	state.blendTo = h
	state.blendDuration = duration
	state.blendElapsed = 0
}

func (p *playerAnimatorBackendImpl) SetAnimationTime(h animation.Handle, time float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if a, ok := p.animations.Get(h); ok {
		a.SetTimePosition(time)
	}
}

func (p *playerAnimatorBackendImpl) SetAnimationSpeed(h animation.Handle, speed float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if a, ok := p.animations.Get(h); ok {
		a.SetSpeed(speed)
	}
}

func (p *playerAnimatorBackendImpl) IsBlending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.blending
}

func (p *playerAnimatorBackendImpl) BlendProgress() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.state.blending {
		return 0
	}
	return min(p.state.blendElapsed/p.state.blendDuration, 1)
}

// CancelBlend stops an in-progress crossfade and keeps the current animation. The blend target
// is disabled.
func (p *playerAnimatorBackendImpl) CancelBlend() {
	p.mu.Lock()
	defer p.mu.Unlock()
	state := &p.state
	if !state.blending {
		return
	}
	if to, ok := p.animations.Get(state.blendTo); ok && state.blendTo != state.current {
		to.SetEnabled(false)
	}
	state.blending = false
	state.blendElapsed = 0
}

func (p *playerAnimatorBackendImpl) Machine() machine.Machine {
	return nil
}

func (p *playerAnimatorBackendImpl) SetMachine(_ machine.Machine) {}

func (p *playerAnimatorBackendImpl) SetParameter(_ string, _ machine.Parameter) {}
