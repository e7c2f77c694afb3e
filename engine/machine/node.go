package machine

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/pool"
	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
)

// NodeHandle addresses a pose node inside a layer.
type NodeHandle = pool.Handle[PoseNode]

// PoseNode is a node of a layer's pose graph. The set of implementations is closed:
// *PlayAnimation, *BlendAnimations, *BlendAnimationsByIndex and *BlendSpace.
//
// Every node owns a single output pose that is overwritten each time the node is evaluated.
// Within one evaluation pass a node shared by several parents is evaluated once.
type PoseNode interface {
	// Pose returns the output of the node's last evaluation.
	//
	// Returns:
	//   - *pose.AnimationPose: the node's output pose
	Pose() *pose.AnimationPose

	// Children returns the handles of the node's inputs, in input order.
	//
	// Returns:
	//   - []NodeHandle: the input handles
	Children() []NodeHandle

	evalPose(ctx *evalContext) *pose.AnimationPose
	collectWeights(ctx *evalContext, weight float32, out *[]weightedAnimation)
}

// evalContext carries everything a pose node reads while evaluating.
type evalContext struct {
	nodes      *pool.Pool[PoseNode]
	params     *ParameterContainer
	animations *animation.Container
	dt         float32
	pass       uint64
}

// eval evaluates the node addressed by h. Dangling handles yield nothing.
func (ctx *evalContext) eval(h NodeHandle) (*pose.AnimationPose, bool) {
	n, ok := ctx.nodes.Get(h)
	if !ok || n == nil {
		return nil, false
	}
	return n.evalPose(ctx), true
}

// weights walks the node addressed by h, collecting the animations it plays scaled by weight.
func (ctx *evalContext) weights(h NodeHandle, weight float32, out *[]weightedAnimation) {
	if !(weight > 0) {
		return
	}
	n, ok := ctx.nodes.Get(h)
	if !ok || n == nil {
		return
	}
	n.collectWeights(ctx, weight, out)
}

// poseNode holds the output cache shared by every node kind.
type poseNode struct {
	output *pose.AnimationPose
	pass   uint64
}

func newPoseNode() poseNode {
	return poseNode{output: pose.NewAnimationPose()}
}

func (n *poseNode) Pose() *pose.AnimationPose {
	return n.output
}

// visit reports whether the node still needs evaluating in the current pass and marks it visited.
func (n *poseNode) visit(ctx *evalContext) bool {
	if n.pass == ctx.pass {
		return false
	}
	n.pass = ctx.pass
	return true
}

// PoseWeight is a blend weight that is either constant or read from a weight parameter.
type PoseWeight struct {
	// Constant is used when Parameter is empty.
	Constant float32

	// Parameter names a weight parameter. Missing parameters weigh 0.
	Parameter string
}

// ConstantWeight creates a fixed weight.
func ConstantWeight(w float32) PoseWeight {
	return PoseWeight{Constant: w}
}

// ParameterWeight creates a weight read from the named parameter.
func ParameterWeight(name string) PoseWeight {
	return PoseWeight{Parameter: name}
}

// Value resolves the weight against the parameters.
func (w PoseWeight) Value(params *ParameterContainer) float32 {
	if w.Parameter == "" {
		return w.Constant
	}
	if params == nil {
		return 0
	}
	v, _ := params.Weight(w.Parameter)
	return v
}

// weightedAnimation is an animation together with its share of a layer's output.
type weightedAnimation struct {
	handle animation.Handle
	weight float32
}
