// Package track stores key-framed animation channels and samples them by time.
package track

import (
	"sort"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Value is the set of types a frame container can interpolate.
type Value interface {
	mgl32.Vec3 | mgl32.Quat
}

// Frame is a single key: a value at a point in time.
type Frame[V Value] struct {
	// Time is the key time in seconds.
	Time float32 `yaml:"time"`

	// Value is the keyed value.
	Value V `yaml:"value"`
}

// Frames is an ordered key frame container. Frames are always sorted ascending by time, and
// frames sharing a time keep their insertion order.
type Frames[V Value] struct {
	frames  []Frame[V]
	maxTime float32
}

// NewFrames creates a container holding a sorted copy of frames.
func NewFrames[V Value](frames ...Frame[V]) *Frames[V] {
	c := &Frames[V]{}
	c.SetFrames(frames)
	return c
}

// AddKeyFrame inserts a frame, keeping the container sorted. A frame whose time equals existing
// frames is placed after them.
//
// Parameters:
//   - frame: the frame to insert
func (c *Frames[V]) AddKeyFrame(frame Frame[V]) {
	if len(c.frames) == 0 || frame.Time >= c.maxTime {
		c.frames = append(c.frames, frame)
		c.maxTime = frame.Time
		return
	}
	i := sort.Search(len(c.frames), func(i int) bool { return c.frames[i].Time > frame.Time })
	c.frames = append(c.frames, Frame[V]{})
	copy(c.frames[i+1:], c.frames[i:])
	c.frames[i] = frame
}

// SetFrames replaces every frame. The input is copied and stably sorted by time.
//
// Parameters:
//   - frames: the new frames, in any order
func (c *Frames[V]) SetFrames(frames []Frame[V]) {
	c.frames = append(c.frames[:0], frames...)
	sort.SliceStable(c.frames, func(i, j int) bool { return c.frames[i].Time < c.frames[j].Time })
	c.maxTime = 0
	if n := len(c.frames); n > 0 {
		c.maxTime = c.frames[n-1].Time
	}
}

// Frames returns a copy of the frames in time order.
func (c *Frames[V]) Frames() []Frame[V] {
	return append([]Frame[V](nil), c.frames...)
}

// Len returns the number of frames.
func (c *Frames[V]) Len() int {
	return len(c.frames)
}

// MaxTime returns the time of the last frame, or 0 when empty.
func (c *Frames[V]) MaxTime() float32 {
	return c.maxTime
}

// Fetch samples the container.
//
// Times past the last frame hold the last value and times before the first frame hold the first
// value. Between two frames vectors are interpolated linearly and rotations spherically. Two
// frames sharing a time produce a discrete jump rather than a division by zero.
//
// Parameters:
//   - time: the sample time in seconds
//
// Returns:
//   - V: the sampled value
//   - bool: false if the container is empty
func (c *Frames[V]) Fetch(time float32) (V, bool) {
	var zero V
	n := len(c.frames)
	if n == 0 {
		return zero, false
	}
	if time >= c.maxTime {
		return c.frames[n-1].Value, true
	}
	time = common.Clamp(time, 0, c.maxTime)

	right := sort.Search(n, func(i int) bool { return c.frames[i].Time >= time })
	if right == 0 {
		return c.frames[0].Value, true
	}
	left := c.frames[right-1]
	next := c.frames[right]
	span := next.Time - left.Time
	var t float32
	if span > 0 {
		t = (time - left.Time) / span
	}
	return interpolate(left.Value, next.Value, t), true
}

func interpolate[V Value](a, b V, t float32) V {
	switch av := any(a).(type) {
	case mgl32.Vec3:
		return any(common.LerpVec3(av, any(b).(mgl32.Vec3), t)).(V)
	case mgl32.Quat:
		return any(common.SlerpQuat(av, any(b).(mgl32.Quat), t)).(V)
	}
	return a
}
