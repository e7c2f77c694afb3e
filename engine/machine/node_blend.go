package machine

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
)

// BlendPose is one weighted input of a BlendAnimations node.
type BlendPose struct {
	Weight PoseWeight
	Source NodeHandle
}

// BlendAnimations blends every input by weight. For each node and component the output is the
// average of the inputs that define it, weighted by their input weights.
type BlendAnimations struct {
	poseNode
	inputs []BlendPose
}

var _ PoseNode = &BlendAnimations{}

// NewBlendAnimations creates a weighted blend node.
//
// Parameters:
//   - inputs: the weighted inputs
//
// Returns:
//   - *BlendAnimations: the new node
func NewBlendAnimations(inputs ...BlendPose) *BlendAnimations {
	return &BlendAnimations{poseNode: newPoseNode(), inputs: slices.Clone(inputs)}
}

// Inputs returns a copy of the node's inputs.
func (n *BlendAnimations) Inputs() []BlendPose {
	return slices.Clone(n.inputs)
}

// SetInputWeight changes the weight of an input. Returns false if index is out of range.
func (n *BlendAnimations) SetInputWeight(index int, w PoseWeight) bool {
	if index < 0 || index >= len(n.inputs) {
		return false
	}
	n.inputs[index].Weight = w
	return true
}

func (n *BlendAnimations) Children() []NodeHandle {
	out := make([]NodeHandle, 0, len(n.inputs))
	for _, in := range n.inputs {
		out = append(out, in.Source)
	}
	return out
}

func (n *BlendAnimations) evalPose(ctx *evalContext) *pose.AnimationPose {
	if !n.visit(ctx) {
		return n.output
	}
	n.output.Reset()
	for _, in := range n.inputs {
		w := in.Weight.Value(ctx.params)
		child, ok := ctx.eval(in.Source)
		if !ok {
			continue
		}
		n.output.BlendWith(child, w)
	}
	return n.output
}

func (n *BlendAnimations) collectWeights(ctx *evalContext, weight float32, out *[]weightedAnimation) {
	var total float32
	for _, in := range n.inputs {
		if w := in.Weight.Value(ctx.params); w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return
	}
	for _, in := range n.inputs {
		ctx.weights(in.Source, weight*in.Weight.Value(ctx.params)/total, out)
	}
}
