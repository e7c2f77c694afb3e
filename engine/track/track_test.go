package track

import (
	"math/rand"
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vec(x, y, z float32) mgl32.Vec3 {
	return mgl32.Vec3{x, y, z}
}

func TestFetchInterpolation(t *testing.T) {
	t.Parallel()

	c := NewFrames(
		Frame[mgl32.Vec3]{Time: 0, Value: vec(0, 0, 0)},
		Frame[mgl32.Vec3]{Time: 2, Value: vec(10, 0, 0)},
	)

	tests := []struct {
		name string
		time float32
		want mgl32.Vec3
	}{
		{name: "first key", time: 0, want: vec(0, 0, 0)},
		{name: "midpoint", time: 1, want: vec(5, 0, 0)},
		{name: "quarter", time: 0.5, want: vec(2.5, 0, 0)},
		{name: "last key", time: 2, want: vec(10, 0, 0)},
		{name: "hold after end", time: 7, want: vec(10, 0, 0)},
		{name: "before start", time: -1, want: vec(0, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := c.Fetch(tt.time)
			require.True(t, ok)
			assert.True(t, got.ApproxEqual(tt.want), "fetch(%v) = %v, want %v", tt.time, got, tt.want)
		})
	}
}

func TestFetchIsMonotonicBetweenKeys(t *testing.T) {
	t.Parallel()

	c := NewFrames(
		Frame[mgl32.Vec3]{Time: 1, Value: vec(0, 0, 0)},
		Frame[mgl32.Vec3]{Time: 3, Value: vec(4, -2, 0)},
	)
	prev, _ := c.Fetch(1)
	for ti := float32(1.1); ti <= 3; ti += 0.1 {
		cur, _ := c.Fetch(ti)
		assert.GreaterOrEqual(t, cur.X(), prev.X())
		assert.LessOrEqual(t, cur.Y(), prev.Y())
		prev = cur
	}
}

func TestFetchBeforeFirstKeyHoldsFirstValue(t *testing.T) {
	t.Parallel()

	c := NewFrames(
		Frame[mgl32.Vec3]{Time: 0.5, Value: vec(3, 3, 3)},
		Frame[mgl32.Vec3]{Time: 1, Value: vec(6, 6, 6)},
	)
	got, ok := c.Fetch(0.25)
	require.True(t, ok)
	assert.Equal(t, vec(3, 3, 3), got)
}

func TestFetchEmpty(t *testing.T) {
	t.Parallel()

	c := NewFrames[mgl32.Quat]()
	_, ok := c.Fetch(0)
	assert.False(t, ok)
	assert.Zero(t, c.MaxTime())
}

func TestAddKeyFrameKeepsOrder(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	c := NewFrames[mgl32.Vec3]()
	for i := 0; i < 200; i++ {
		c.AddKeyFrame(Frame[mgl32.Vec3]{Time: float32(rng.Intn(50)) / 10, Value: vec(float32(i), 0, 0)})
	}
	frames := c.Frames()
	require.Len(t, frames, 200)
	for i := 0; i+1 < len(frames); i++ {
		assert.LessOrEqual(t, frames[i].Time, frames[i+1].Time)
	}
	assert.Equal(t, frames[len(frames)-1].Time, c.MaxTime())
}

func TestDuplicateTimesDoNotProduceNaN(t *testing.T) {
	t.Parallel()

	c := NewFrames(
		Frame[mgl32.Vec3]{Time: 0, Value: vec(0, 0, 0)},
		Frame[mgl32.Vec3]{Time: 1, Value: vec(1, 0, 0)},
		Frame[mgl32.Vec3]{Time: 2, Value: vec(4, 0, 0)},
	)
	c.AddKeyFrame(Frame[mgl32.Vec3]{Time: 1, Value: vec(2, 0, 0)})

	frames := c.Frames()
	require.Len(t, frames, 4)
	assert.Equal(t, vec(1, 0, 0), frames[1].Value, "earlier key keeps its slot")
	assert.Equal(t, vec(2, 0, 0), frames[2].Value, "new key goes after equal times")

	at, ok := c.Fetch(1)
	require.True(t, ok)
	assert.Equal(t, vec(1, 0, 0), at)

	after, ok := c.Fetch(1.5)
	require.True(t, ok)
	assert.False(t, after.X() != after.X(), "NaN")
	assert.InDelta(t, 3.0, after.X(), 1e-5)
}

func TestSetFramesSortsAndRecomputesMaxTime(t *testing.T) {
	t.Parallel()

	c := NewFrames(Frame[mgl32.Vec3]{Time: 9, Value: vec(1, 1, 1)})
	c.SetFrames([]Frame[mgl32.Vec3]{
		{Time: 2, Value: vec(2, 0, 0)},
		{Time: 0, Value: vec(0, 0, 0)},
		{Time: 1, Value: vec(1, 0, 0)},
	})
	assert.Equal(t, float32(2), c.MaxTime())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, float32(0), c.Frames()[0].Time)
}

func TestRotationTrackSlerp(t *testing.T) {
	t.Parallel()

	axis := vec(0, 1, 0)
	tr := NewRotationTrack(7,
		Frame[mgl32.Quat]{Time: 0, Value: mgl32.QuatIdent()},
		Frame[mgl32.Quat]{Time: 1, Value: mgl32.QuatRotate(mgl32.DegToRad(90), axis)},
	)
	s, ok := tr.Fetch(0.5)
	require.True(t, ok)
	assert.Equal(t, pose.BindingRotation, s.Binding)
	want := mgl32.QuatRotate(mgl32.DegToRad(45), axis)
	assert.True(t, s.Rotation.OrientationEqualThreshold(want, 1e-4), "got %v", s.Rotation)
	assert.Equal(t, float32(1), tr.TimeLength())
}

func TestTrackApplyAndDisable(t *testing.T) {
	t.Parallel()

	tr := NewVectorTrack(3, pose.BindingScale,
		Frame[mgl32.Vec3]{Time: 0, Value: vec(1, 1, 1)},
		Frame[mgl32.Vec3]{Time: 1, Value: vec(3, 3, 3)},
	)
	p := pose.NewAnimationPose()
	require.True(t, tr.Apply(p, 0.5))
	n, ok := p.Pose(3)
	require.True(t, ok)
	assert.True(t, n.Has(pose.BindingScale))
	assert.True(t, n.Scale.ApproxEqual(vec(2, 2, 2)))

	tr.SetEnabled(false)
	p.Reset()
	assert.False(t, tr.Apply(p, 0.5))
	assert.Equal(t, 0, p.Len())
}

func TestVectorTrackCoercesRotationBinding(t *testing.T) {
	t.Parallel()

	tr := NewVectorTrack(1, pose.BindingRotation)
	assert.Equal(t, pose.BindingPosition, tr.Binding())
	assert.NotEqual(t, tr.ID(), NewVectorTrack(1, pose.BindingPosition).ID())
}
