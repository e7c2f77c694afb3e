// Package pose holds the per-frame output of the animation runtime: local transforms keyed by
// skeleton node, plus the root motion extracted alongside them.
package pose

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/go-gl/mathgl/mgl32"
)

// AnimationPose is a sparse mapping from node to local transform plus optional root motion.
// A pose is owned by whoever produced it and is overwritten on every evaluation.
type AnimationPose struct {
	poses      map[NodeID]NodePose
	rootMotion *RootMotion
	rootWeight float32
}

// NewAnimationPose creates an empty pose.
//
// Returns:
//   - *AnimationPose: the empty pose
func NewAnimationPose() *AnimationPose {
	return &AnimationPose{poses: make(map[NodeID]NodePose)}
}

// Reset removes every node and the root motion while keeping the allocated storage.
func (p *AnimationPose) Reset() {
	clear(p.poses)
	p.rootMotion = nil
	p.rootWeight = 0
}

// Len returns the number of nodes in the pose.
func (p *AnimationPose) Len() int {
	return len(p.poses)
}

// Pose returns the local transform of a node.
//
// Parameters:
//   - id: the node to look up
//
// Returns:
//   - NodePose: the node's transform
//   - bool: true if the pose defines the node
func (p *AnimationPose) Pose(id NodeID) (NodePose, bool) {
	n, ok := p.poses[id]
	return n, ok
}

// NodeIDs returns the ids of every node in the pose in ascending order.
func (p *AnimationPose) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(p.poses))
	for id := range p.poses {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Each calls fn for every node in ascending id order.
func (p *AnimationPose) Each(fn func(id NodeID, n NodePose)) {
	for _, id := range p.NodeIDs() {
		fn(id, p.poses[id])
	}
}

// SetPosition sets the local translation of a node as a full-weight value.
func (p *AnimationPose) SetPosition(id NodeID, v mgl32.Vec3) {
	n := p.poses[id]
	n.Position = v
	n.Bindings = n.Bindings.with(BindingPosition)
	n.weights[BindingPosition] = 1
	p.poses[id] = n
}

// SetRotation sets the local rotation of a node as a full-weight value.
func (p *AnimationPose) SetRotation(id NodeID, q mgl32.Quat) {
	n := p.poses[id]
	n.Rotation = q
	n.Bindings = n.Bindings.with(BindingRotation)
	n.weights[BindingRotation] = 1
	p.poses[id] = n
}

// SetScale sets the local scale of a node as a full-weight value.
func (p *AnimationPose) SetScale(id NodeID, v mgl32.Vec3) {
	n := p.poses[id]
	n.Scale = v
	n.Bindings = n.Bindings.with(BindingScale)
	n.weights[BindingScale] = 1
	p.poses[id] = n
}

// RootMotion returns the root motion carried by the pose, if any.
func (p *AnimationPose) RootMotion() (RootMotion, bool) {
	if p.rootMotion == nil {
		return RootMotion{}, false
	}
	return *p.rootMotion, true
}

// SetRootMotion replaces the root motion. A nil value clears it.
func (p *AnimationPose) SetRootMotion(rm *RootMotion) {
	if rm == nil {
		p.rootMotion = nil
		p.rootWeight = 0
		return
	}
	c := *rm
	p.rootMotion = &c
	p.rootWeight = 1
}

// CloneInto overwrites dst with a copy of p.
//
// Parameters:
//   - dst: the pose to overwrite
func (p *AnimationPose) CloneInto(dst *AnimationPose) {
	if dst == p {
		return
	}
	clear(dst.poses)
	for id, n := range p.poses {
		dst.poses[id] = n
	}
	dst.rootWeight = p.rootWeight
	if p.rootMotion == nil {
		dst.rootMotion = nil
		return
	}
	rm := *p.rootMotion
	dst.rootMotion = &rm
}

// Clone returns an independent copy of p.
func (p *AnimationPose) Clone() *AnimationPose {
	c := NewAnimationPose()
	p.CloneInto(c)
	return c
}

// BlendWith accumulates other into p with the given weight.
//
// Blending is normalized per node and per component: each value of p becomes the weighted
// average of every contribution that defined it, so a node present in only one input keeps
// that input's value no matter how small its weight is. Start from a Reset pose to blend a set
// of inputs. Non-positive weights contribute nothing.
//
// Parameters:
//   - other: the pose to blend in
//   - weight: the contribution weight of other
func (p *AnimationPose) BlendWith(other *AnimationPose, weight float32) {
	if other == nil || !(weight > 0) {
		return
	}
	for id, src := range other.poses {
		dst := p.poses[id]
		for b := Binding(0); b < bindingCount; b++ {
			if !src.Has(b) {
				continue
			}
			accumulated := dst.weights[b]
			if !dst.Has(b) || accumulated <= 0 {
				dst.setValue(b, src)
				dst.weights[b] = weight
				continue
			}
			total := accumulated + weight
			dst.blendValue(b, src, weight/total)
			dst.weights[b] = total
		}
		p.poses[id] = dst
	}
	if other.rootMotion != nil {
		if p.rootMotion == nil || p.rootWeight <= 0 {
			rm := *other.rootMotion
			p.rootMotion = &rm
			p.rootWeight = weight
		} else {
			total := p.rootWeight + weight
			p.rootMotion.BlendWith(*other.rootMotion, weight/total)
			p.rootWeight = total
		}
	}
}

// Retain keeps only the nodes for which keep returns true.
func (p *AnimationPose) Retain(keep func(id NodeID) bool) {
	for id := range p.poses {
		if !keep(id) {
			delete(p.poses, id)
		}
	}
}

func (n *NodePose) setValue(b Binding, src NodePose) {
	switch b {
	case BindingPosition:
		n.Position = src.Position
	case BindingRotation:
		n.Rotation = src.Rotation
	case BindingScale:
		n.Scale = src.Scale
	}
	n.Bindings = n.Bindings.with(b)
}

func (n *NodePose) blendValue(b Binding, src NodePose, t float32) {
	switch b {
	case BindingPosition:
		n.Position = common.LerpVec3(n.Position, src.Position, t)
	case BindingRotation:
		n.Rotation = common.NlerpQuat(n.Rotation, src.Rotation, t)
	case BindingScale:
		n.Scale = common.LerpVec3(n.Scale, src.Scale, t)
	}
}

// BlendWith moves r toward other by weight.
func (r *RootMotion) BlendWith(other RootMotion, weight float32) {
	r.DeltaPosition = common.LerpVec3(r.DeltaPosition, other.DeltaPosition, weight)
	r.DeltaRotation = common.NlerpQuat(r.DeltaRotation, other.DeltaRotation, weight)
}
