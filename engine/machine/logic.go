package machine

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
)

// LogicNode is a boolean condition gating a transition. A nil LogicNode never holds.
type LogicNode interface {
	// Evaluate reports whether the condition holds.
	//
	// Parameters:
	//   - params: the machine parameters
	//   - animations: the animations the layer plays, may be nil
	//
	// Returns:
	//   - bool: true if the condition holds
	Evaluate(params *ParameterContainer, animations *animation.Container) bool
}

// ParameterCondition holds while the named rule parameter is true. Missing parameters are false.
type ParameterCondition struct {
	Rule string
}

// AndCondition holds when both operands hold.
type AndCondition struct {
	Lhs, Rhs LogicNode
}

// OrCondition holds when either operand holds.
type OrCondition struct {
	Lhs, Rhs LogicNode
}

// XorCondition holds when exactly one operand holds.
type XorCondition struct {
	Lhs, Rhs LogicNode
}

// NotCondition negates its operand.
type NotCondition struct {
	Operand LogicNode
}

// AnimationEndedCondition holds when the animation exists and has reached the end of a
// non-looping playback.
type AnimationEndedCondition struct {
	Animation animation.Handle
}

var (
	_ LogicNode = ParameterCondition{}
	_ LogicNode = AndCondition{}
	_ LogicNode = OrCondition{}
	_ LogicNode = XorCondition{}
	_ LogicNode = NotCondition{}
	_ LogicNode = AnimationEndedCondition{}
)

// Rule creates a condition reading the named rule parameter.
func Rule(name string) LogicNode {
	return ParameterCondition{Rule: name}
}

// And combines two conditions.
func And(lhs, rhs LogicNode) LogicNode {
	return AndCondition{Lhs: lhs, Rhs: rhs}
}

// Or combines two conditions.
func Or(lhs, rhs LogicNode) LogicNode {
	return OrCondition{Lhs: lhs, Rhs: rhs}
}

// Xor combines two conditions.
func Xor(lhs, rhs LogicNode) LogicNode {
	return XorCondition{Lhs: lhs, Rhs: rhs}
}

// Not negates a condition.
func Not(operand LogicNode) LogicNode {
	return NotCondition{Operand: operand}
}

// AnimationEnded creates a condition on the end of an animation.
func AnimationEnded(h animation.Handle) LogicNode {
	return AnimationEndedCondition{Animation: h}
}

func evaluate(n LogicNode, params *ParameterContainer, animations *animation.Container) bool {
	if n == nil {
		return false
	}
	return n.Evaluate(params, animations)
}

func (c ParameterCondition) Evaluate(params *ParameterContainer, _ *animation.Container) bool {
	if params == nil {
		return false
	}
	v, _ := params.Rule(c.Rule)
	return v
}

func (c AndCondition) Evaluate(params *ParameterContainer, animations *animation.Container) bool {
	return evaluate(c.Lhs, params, animations) && evaluate(c.Rhs, params, animations)
}

func (c OrCondition) Evaluate(params *ParameterContainer, animations *animation.Container) bool {
	return evaluate(c.Lhs, params, animations) || evaluate(c.Rhs, params, animations)
}

func (c XorCondition) Evaluate(params *ParameterContainer, animations *animation.Container) bool {
	return evaluate(c.Lhs, params, animations) != evaluate(c.Rhs, params, animations)
}

func (c NotCondition) Evaluate(params *ParameterContainer, animations *animation.Container) bool {
	return !evaluate(c.Operand, params, animations)
}

func (c AnimationEndedCondition) Evaluate(_ *ParameterContainer, animations *animation.Container) bool {
	if animations == nil {
		return false
	}
	a, ok := animations.Get(c.Animation)
	return ok && a.HasEnded()
}
