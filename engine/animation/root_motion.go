package animation

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
	"github.com/go-gl/mathgl/mgl32"
)

// RootMotionSettings selects the node whose motion is extracted as root motion and the parts of
// that motion to leave in the pose instead.
type RootMotionSettings struct {
	// Node is the root node whose motion is extracted.
	Node pose.NodeID `yaml:"node"`

	// IgnoreX keeps X movement in the pose and out of the root motion.
	IgnoreX bool `yaml:"ignore_x"`

	// IgnoreY keeps Y movement in the pose and out of the root motion.
	IgnoreY bool `yaml:"ignore_y"`

	// IgnoreZ keeps Z movement in the pose and out of the root motion.
	IgnoreZ bool `yaml:"ignore_z"`

	// IgnoreRotations keeps rotation in the pose and out of the root motion.
	IgnoreRotations bool `yaml:"ignore_rotations"`
}

// rootMotionState remembers the root transform sampled on the previous tick.
type rootMotionState struct {
	hasPrev      bool
	prevPosition mgl32.Vec3
	prevRotation mgl32.Quat
}

func (a *animation) RootMotionSettings() (RootMotionSettings, bool) {
	if a.rootMotionSettings == nil {
		return RootMotionSettings{}, false
	}
	return *a.rootMotionSettings, true
}

func (a *animation) SetRootMotionSettings(settings *RootMotionSettings) {
	a.rootState = rootMotionState{}
	a.rootMotion = nil
	if settings == nil {
		a.rootMotionSettings = nil
		return
	}
	s := *settings
	a.rootMotionSettings = &s
}

func (a *animation) RootMotion() (pose.RootMotion, bool) {
	if a.rootMotion == nil {
		return pose.RootMotion{}, false
	}
	return *a.rootMotion, true
}

// updateRootMotion converts the root node's movement since the previous tick into root motion and
// pins the root node to its slice-start transform so the pose itself stays in place.
func (a *animation) updateRootMotion() {
	settings := a.rootMotionSettings
	if settings == nil {
		return
	}
	rm := pose.NewRootMotion()
	node, ok := a.pose.Pose(settings.Node)
	if ok {
		cycleStart, cycleEnd := a.timeSlice.Start, a.timeSlice.End
		if a.velocity() < 0 {
			cycleStart, cycleEnd = cycleEnd, cycleStart
		}

		if node.Has(pose.BindingPosition) {
			cur := node.Position
			if a.rootState.hasPrev {
				var delta mgl32.Vec3
				if a.wrapped {
					tail := a.rootPosition(cycleEnd).Sub(a.rootState.prevPosition)
					head := cur.Sub(a.rootPosition(cycleStart))
					delta = tail.Add(head)
				} else {
					delta = cur.Sub(a.rootState.prevPosition)
				}
				if settings.IgnoreX {
					delta[0] = 0
				}
				if settings.IgnoreY {
					delta[1] = 0
				}
				if settings.IgnoreZ {
					delta[2] = 0
				}
				rm.DeltaPosition = delta
			}
			a.rootState.prevPosition = cur

			pinned := a.rootPosition(a.timeSlice.Start)
			if settings.IgnoreX {
				pinned[0] = cur[0]
			}
			if settings.IgnoreY {
				pinned[1] = cur[1]
			}
			if settings.IgnoreZ {
				pinned[2] = cur[2]
			}
			a.pose.SetPosition(settings.Node, pinned)
		}

		if node.Has(pose.BindingRotation) && !settings.IgnoreRotations {
			cur := node.Rotation
			if a.rootState.hasPrev {
				if a.wrapped {
					tail := a.rootState.prevRotation.Inverse().Mul(a.rootRotation(cycleEnd))
					head := a.rootRotation(cycleStart).Inverse().Mul(cur)
					rm.DeltaRotation = tail.Mul(head).Normalize()
				} else {
					rm.DeltaRotation = a.rootState.prevRotation.Inverse().Mul(cur).Normalize()
				}
			}
			a.rootState.prevRotation = cur
			a.pose.SetRotation(settings.Node, a.rootRotation(a.timeSlice.Start))
		}
		a.rootState.hasPrev = true
	}
	a.rootMotion = &rm
	a.pose.SetRootMotion(&rm)
}

func (a *animation) rootPosition(time float32) mgl32.Vec3 {
	for _, id := range a.trackOrder {
		t := a.tracks[id]
		if t.Target() != a.rootMotionSettings.Node || t.Binding() != pose.BindingPosition {
			continue
		}
		if s, ok := t.Fetch(time); ok {
			return s.Vector
		}
	}
	return mgl32.Vec3{}
}

func (a *animation) rootRotation(time float32) mgl32.Quat {
	for _, id := range a.trackOrder {
		t := a.tracks[id]
		if t.Target() != a.rootMotionSettings.Node || t.Binding() != pose.BindingRotation {
			continue
		}
		if s, ok := t.Fetch(time); ok {
			return s.Rotation
		}
	}
	return mgl32.QuatIdent()
}
