package animation

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
	"github.com/Carmen-Shannon/oxy-anim/engine/track"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootMotionExtractsDeltaAndPinsRoot(t *testing.T) {
	t.Parallel()

	a := NewAnimation(
		WithTracks(linearTrack(hip, 1, 10)),
		WithRootMotion(RootMotionSettings{Node: hip}),
	)

	a.Tick(0.25)
	rm, ok := a.RootMotion()
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{}, rm.DeltaPosition, "no history on the first tick")

	a.Tick(0.25)
	rm, ok = a.RootMotion()
	require.True(t, ok)
	assert.InDelta(t, 2.5, rm.DeltaPosition.X(), 1e-4)
	assert.InDelta(t, 0.0, hipX(t, a), 1e-6, "root is pinned to its start position")

	fromPose, ok := a.Pose().RootMotion()
	require.True(t, ok)
	assert.Equal(t, rm, fromPose)
}

func TestRootMotionAcrossLoopWrap(t *testing.T) {
	t.Parallel()

	a := NewAnimation(
		WithTracks(linearTrack(hip, 1, 10)),
		WithRootMotion(RootMotionSettings{Node: hip}),
	)
	a.Tick(0.25)
	a.Tick(0.25)
	a.Tick(0.75)

	rm, _ := a.RootMotion()
	// 5 -> 10 before the wrap, then 0 -> 2.5 after it.
	assert.InDelta(t, 7.5, rm.DeltaPosition.X(), 1e-4)
	assert.InDelta(t, 0.25, a.TimePosition(), 1e-6)
}

func TestRootMotionIgnoredAxesStayInPose(t *testing.T) {
	t.Parallel()

	a := NewAnimation(
		WithTracks(linearTrack(hip, 1, 10)),
		WithRootMotion(RootMotionSettings{Node: hip, IgnoreX: true}),
	)
	a.Tick(0.25)
	a.Tick(0.25)

	rm, _ := a.RootMotion()
	assert.Zero(t, rm.DeltaPosition.X())
	assert.InDelta(t, 5.0, hipX(t, a), 1e-4)
}

func TestRootMotionRotation(t *testing.T) {
	t.Parallel()

	axis := mgl32.Vec3{0, 1, 0}
	rot := track.NewRotationTrack(hip,
		track.Frame[mgl32.Quat]{Time: 0, Value: mgl32.QuatIdent()},
		track.Frame[mgl32.Quat]{Time: 1, Value: mgl32.QuatRotate(mgl32.DegToRad(90), axis)},
	)
	a := NewAnimation(WithTracks(rot), WithRootMotion(RootMotionSettings{Node: hip}))
	a.Tick(0.5)
	a.Tick(0.5)

	rm, _ := a.RootMotion()
	want := mgl32.QuatRotate(mgl32.DegToRad(45), axis)
	assert.True(t, rm.DeltaRotation.OrientationEqualThreshold(want, 1e-3), "got %v", rm.DeltaRotation)

	n, ok := a.Pose().Pose(hip)
	require.True(t, ok)
	assert.True(t, n.Rotation.OrientationEqualThreshold(mgl32.QuatIdent(), 1e-4))
}

func TestRootMotionDisabledAndReset(t *testing.T) {
	t.Parallel()

	a := NewAnimation(WithTracks(linearTrack(hip, 1, 10)))
	a.Tick(0.5)
	_, ok := a.RootMotion()
	assert.False(t, ok)
	_, ok = a.RootMotionSettings()
	assert.False(t, ok)

	a.SetRootMotionSettings(&RootMotionSettings{Node: 99})
	a.Tick(0.1)
	rm, ok := a.RootMotion()
	require.True(t, ok, "missing root node still yields an empty motion")
	assert.Equal(t, pose.NewRootMotion(), rm)

	a.SetRootMotionSettings(nil)
	_, ok = a.RootMotion()
	assert.False(t, ok)
}
