package machine

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
)

// DefaultBlendTime is the crossfade window used by NewIndexedBlendInput.
var DefaultBlendTime float32 = 0.2

// IndexedBlendInput is one selectable input of a BlendAnimationsByIndex node.
type IndexedBlendInput struct {
	// BlendTime is the crossfade duration in seconds used when this input becomes selected.
	// Values <= 0 switch instantly.
	BlendTime float32

	Source NodeHandle
}

// NewIndexedBlendInput creates an input with the default crossfade window.
func NewIndexedBlendInput(source NodeHandle) IndexedBlendInput {
	return IndexedBlendInput{BlendTime: DefaultBlendTime, Source: source}
}

// BlendAnimationsByIndex outputs the input selected by an index parameter, crossfading from the
// previously selected input when the index changes.
type BlendAnimationsByIndex struct {
	poseNode
	indexParameter string
	inputs         []IndexedBlendInput

	prevIndex    int
	currentIndex int
	blendTimer   float32
	blendFactor  float32
}

var _ PoseNode = &BlendAnimationsByIndex{}

// NewBlendAnimationsByIndex creates an index-selected blend node.
//
// Parameters:
//   - indexParameter: the name of the index parameter selecting the input
//   - inputs: the selectable inputs
//
// Returns:
//   - *BlendAnimationsByIndex: the new node
func NewBlendAnimationsByIndex(indexParameter string, inputs ...IndexedBlendInput) *BlendAnimationsByIndex {
	return &BlendAnimationsByIndex{
		poseNode:       newPoseNode(),
		indexParameter: indexParameter,
		inputs:         slices.Clone(inputs),
		prevIndex:      -1,
	}
}

func (n *BlendAnimationsByIndex) IndexParameter() string {
	return n.indexParameter
}

func (n *BlendAnimationsByIndex) SetIndexParameter(name string) {
	n.indexParameter = name
}

// Inputs returns a copy of the node's inputs.
func (n *BlendAnimationsByIndex) Inputs() []IndexedBlendInput {
	return slices.Clone(n.inputs)
}

// SetInputBlendTime changes the crossfade window of an input. Returns false if index is out of
// range.
func (n *BlendAnimationsByIndex) SetInputBlendTime(index int, blendTime float32) bool {
	if index < 0 || index >= len(n.inputs) {
		return false
	}
	n.inputs[index].BlendTime = blendTime
	return true
}

// ActiveIndex returns the index selected during the last evaluation, or -1 before the first one.
func (n *BlendAnimationsByIndex) ActiveIndex() int {
	if n.prevIndex < 0 {
		return -1
	}
	return n.currentIndex
}

// IsBlending reports whether a crossfade is in progress.
func (n *BlendAnimationsByIndex) IsBlending() bool {
	return n.prevIndex >= 0 && n.prevIndex != n.currentIndex
}

// BlendProgress returns the crossfade progress in [0, 1], or 0 when not blending.
func (n *BlendAnimationsByIndex) BlendProgress() float32 {
	if !n.IsBlending() {
		return 0
	}
	return n.blendFactor
}

func (n *BlendAnimationsByIndex) Children() []NodeHandle {
	out := make([]NodeHandle, 0, len(n.inputs))
	for _, in := range n.inputs {
		out = append(out, in.Source)
	}
	return out
}

// selectIndex reads the index parameter and clamps it into the input range. A missing
// parameter keeps the current selection.
func (n *BlendAnimationsByIndex) selectIndex(params *ParameterContainer) int {
	last := len(n.inputs) - 1
	if params != nil {
		if v, ok := params.Index(n.indexParameter); ok {
			return int(min(v, uint32(last)))
		}
	}
	if n.prevIndex < 0 {
		return 0
	}
	return common.Clamp(n.currentIndex, 0, last)
}

func (n *BlendAnimationsByIndex) evalPose(ctx *evalContext) *pose.AnimationPose {
	if !n.visit(ctx) {
		return n.output
	}
	n.output.Reset()
	if len(n.inputs) == 0 {
		n.prevIndex = -1
		return n.output
	}

	index := n.selectIndex(ctx.params)
	n.currentIndex = index
	if n.prevIndex < 0 || n.prevIndex >= len(n.inputs) {
		n.prevIndex = index
	}

	if n.prevIndex != index {
		target := n.inputs[index]
		if target.BlendTime > 0 {
			n.blendTimer = min(n.blendTimer+ctx.dt, target.BlendTime)
			n.blendFactor = n.blendTimer / target.BlendTime

			if prev, ok := ctx.eval(n.inputs[n.prevIndex].Source); ok {
				n.output.BlendWith(prev, 1-n.blendFactor)
			}
			if cur, ok := ctx.eval(target.Source); ok {
				n.output.BlendWith(cur, n.blendFactor)
			}
			if n.blendFactor >= 1 {
				n.prevIndex = index
				n.blendTimer = 0
				n.blendFactor = 0
			}
			return n.output
		}
		n.prevIndex = index
	}
	n.blendTimer = 0
	n.blendFactor = 0

	if cur, ok := ctx.eval(n.inputs[index].Source); ok {
		cur.CloneInto(n.output)
	}
	return n.output
}

func (n *BlendAnimationsByIndex) collectWeights(ctx *evalContext, weight float32, out *[]weightedAnimation) {
	if len(n.inputs) == 0 || n.prevIndex < 0 {
		return
	}
	index := common.Clamp(n.currentIndex, 0, len(n.inputs)-1)
	if n.IsBlending() && n.prevIndex < len(n.inputs) {
		ctx.weights(n.inputs[n.prevIndex].Source, weight*(1-n.blendFactor), out)
		ctx.weights(n.inputs[index].Source, weight*n.blendFactor, out)
		return
	}
	ctx.weights(n.inputs[index].Source, weight, out)
}
