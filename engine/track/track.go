package track

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Sample is a value fetched from a track, tagged with the component it drives.
type Sample struct {
	Binding  pose.Binding
	Vector   mgl32.Vec3
	Rotation mgl32.Quat
}

// Track is one animated channel: a binding on a skeleton node keyed over time.
// Position and scale tracks key vectors, rotation tracks key quaternions.
type Track struct {
	id      uuid.UUID
	target  pose.NodeID
	binding pose.Binding
	enabled bool

	vectors   *Frames[mgl32.Vec3]
	rotations *Frames[mgl32.Quat]
}

// NewVectorTrack creates an enabled position or scale track. A rotation binding is coerced to
// position since vectors cannot drive a rotation.
//
// Parameters:
//   - target: the node the track drives
//   - binding: BindingPosition or BindingScale
//   - frames: the initial key frames, in any order
//
// Returns:
//   - *Track: the new track
func NewVectorTrack(target pose.NodeID, binding pose.Binding, frames ...Frame[mgl32.Vec3]) *Track {
	if !binding.IsVector() {
		binding = pose.BindingPosition
	}
	return &Track{
		id:      uuid.New(),
		target:  target,
		binding: binding,
		enabled: true,
		vectors: NewFrames(frames...),
	}
}

// NewRotationTrack creates an enabled rotation track.
//
// Parameters:
//   - target: the node the track drives
//   - frames: the initial key frames, in any order
//
// Returns:
//   - *Track: the new track
func NewRotationTrack(target pose.NodeID, frames ...Frame[mgl32.Quat]) *Track {
	return &Track{
		id:        uuid.New(),
		target:    target,
		binding:   pose.BindingRotation,
		enabled:   true,
		rotations: NewFrames(frames...),
	}
}

func (t *Track) ID() uuid.UUID {
	return t.id
}

// SetID replaces the track id, used when restoring persisted tracks.
func (t *Track) SetID(id uuid.UUID) {
	t.id = id
}

func (t *Track) Target() pose.NodeID {
	return t.target
}

func (t *Track) SetTarget(target pose.NodeID) {
	t.target = target
}

func (t *Track) Binding() pose.Binding {
	return t.binding
}

func (t *Track) Enabled() bool {
	return t.enabled
}

func (t *Track) SetEnabled(enabled bool) {
	t.enabled = enabled
}

// VectorFrames returns the vector container, nil on rotation tracks.
func (t *Track) VectorFrames() *Frames[mgl32.Vec3] {
	return t.vectors
}

// RotationFrames returns the rotation container, nil on vector tracks.
func (t *Track) RotationFrames() *Frames[mgl32.Quat] {
	return t.rotations
}

// TimeLength returns the time of the track's last key.
func (t *Track) TimeLength() float32 {
	if t.rotations != nil {
		return t.rotations.MaxTime()
	}
	if t.vectors != nil {
		return t.vectors.MaxTime()
	}
	return 0
}

// Fetch samples the track at time. Disabled or empty tracks yield nothing.
//
// Parameters:
//   - time: the sample time in seconds
//
// Returns:
//   - Sample: the sampled value and its binding
//   - bool: true if the track produced a value
func (t *Track) Fetch(time float32) (Sample, bool) {
	if !t.enabled {
		return Sample{}, false
	}
	s := Sample{Binding: t.binding}
	var ok bool
	if t.rotations != nil {
		s.Rotation, ok = t.rotations.Fetch(time)
	} else if t.vectors != nil {
		s.Vector, ok = t.vectors.Fetch(time)
	}
	return s, ok
}

// Apply samples the track at time and writes the value into p.
// Returns false when nothing was written.
func (t *Track) Apply(p *pose.AnimationPose, time float32) bool {
	s, ok := t.Fetch(time)
	if !ok {
		return false
	}
	switch s.Binding {
	case pose.BindingPosition:
		p.SetPosition(t.target, s.Vector)
	case pose.BindingRotation:
		p.SetRotation(t.target, s.Rotation)
	case pose.BindingScale:
		p.SetScale(t.target, s.Vector)
	}
	return true
}
