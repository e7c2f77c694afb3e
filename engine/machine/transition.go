package machine

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/pool"
)

// TransitionHandle addresses a transition inside a layer.
type TransitionHandle = pool.Handle[*Transition]

// Transition is a timed blend from one state to another, started when its condition holds while
// the source state is active.
type Transition struct {
	Name      string
	Source    StateHandle
	Dest      StateHandle
	Duration  float32
	Condition LogicNode

	blendFactor float32
}

// NewTransition creates a transition gated by a rule parameter.
//
// Parameters:
//   - name: the transition name
//   - source: the state the transition leaves
//   - dest: the state the transition enters
//   - duration: the blend duration in seconds, <= 0 switches at once
//   - rule: the name of the rule parameter gating the transition
//
// Returns:
//   - *Transition: the new transition
func NewTransition(name string, source, dest StateHandle, duration float32, rule string) *Transition {
	return &Transition{
		Name:      name,
		Source:    source,
		Dest:      dest,
		Duration:  duration,
		Condition: Rule(rule),
	}
}

// BlendFactor returns the progress of the transition in [0, 1].
func (t *Transition) BlendFactor() float32 {
	return t.blendFactor
}

// IsDone reports whether the blend has completed.
func (t *Transition) IsDone() bool {
	return t.blendFactor >= 1
}

// Reset rewinds the transition progress.
func (t *Transition) Reset() {
	t.blendFactor = 0
}

func (t *Transition) update(dt float32) {
	if t.Duration <= 0 {
		t.blendFactor = 1
		return
	}
	t.blendFactor = min(t.blendFactor+dt/t.Duration, 1)
}
