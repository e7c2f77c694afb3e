package machine

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
)

// PlayAnimation is a leaf node that outputs the current pose of one animation.
type PlayAnimation struct {
	poseNode
	animation animation.Handle
}

var _ PoseNode = &PlayAnimation{}

// NewPlayAnimation creates a leaf node playing the given animation.
//
// Parameters:
//   - h: the animation to play
//
// Returns:
//   - *PlayAnimation: the new node
func NewPlayAnimation(h animation.Handle) *PlayAnimation {
	return &PlayAnimation{poseNode: newPoseNode(), animation: h}
}

// Animation returns the handle of the played animation.
func (n *PlayAnimation) Animation() animation.Handle {
	return n.animation
}

// SetAnimation changes the played animation.
func (n *PlayAnimation) SetAnimation(h animation.Handle) {
	n.animation = h
}

func (n *PlayAnimation) Children() []NodeHandle {
	return nil
}

// evalPose copies the animation's pose. A missing animation leaves the previous output in place.
func (n *PlayAnimation) evalPose(ctx *evalContext) *pose.AnimationPose {
	if !n.visit(ctx) {
		return n.output
	}
	if ctx.animations == nil {
		return n.output
	}
	a, ok := ctx.animations.Get(n.animation)
	if !ok {
		return n.output
	}
	a.Pose().CloneInto(n.output)
	return n.output
}

func (n *PlayAnimation) collectWeights(_ *evalContext, weight float32, out *[]weightedAnimation) {
	*out = append(*out, weightedAnimation{handle: n.animation, weight: weight})
}
