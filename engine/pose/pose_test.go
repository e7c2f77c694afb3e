package pose

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindingText(t *testing.T) {
	t.Parallel()

	for _, b := range []Binding{BindingPosition, BindingRotation, BindingScale} {
		text, err := b.MarshalText()
		require.NoError(t, err)
		var back Binding
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, b, back)
	}

	var b Binding
	assert.Error(t, b.UnmarshalText([]byte("skew")))
	assert.Equal(t, "binding(9)", Binding(9).String())
}

func TestBlendDisjointCoverageKeepsFullValues(t *testing.T) {
	t.Parallel()

	t1 := mgl32.Vec3{1, 2, 3}
	t2 := mgl32.Vec3{-4, 5, 6}

	a := NewAnimationPose()
	a.SetPosition(1, t1)
	b := NewAnimationPose()
	b.SetPosition(2, t2)

	out := NewAnimationPose()
	out.BlendWith(a, 0.3)
	out.BlendWith(b, 0.7)

	n1, ok := out.Pose(1)
	require.True(t, ok)
	n2, ok := out.Pose(2)
	require.True(t, ok)
	assert.True(t, n1.Position.ApproxEqual(t1), "got %v", n1.Position)
	assert.True(t, n2.Position.ApproxEqual(t2), "got %v", n2.Position)
}

func TestBlendSharedNodeIsWeightNormalized(t *testing.T) {
	t.Parallel()

	a := NewAnimationPose()
	a.SetPosition(1, mgl32.Vec3{0, 0, 0})
	b := NewAnimationPose()
	b.SetPosition(1, mgl32.Vec3{10, 0, 0})
	c := NewAnimationPose()
	c.SetPosition(1, mgl32.Vec3{20, 0, 0})

	out := NewAnimationPose()
	out.BlendWith(a, 1)
	out.BlendWith(b, 2)
	out.BlendWith(c, 1)

	n, _ := out.Pose(1)
	// (0*1 + 10*2 + 20*1) / 4
	assert.InDelta(t, 10.0, n.Position.X(), 1e-5)
}

func TestBlendIgnoresNonPositiveWeights(t *testing.T) {
	t.Parallel()

	a := NewAnimationPose()
	a.SetPosition(1, mgl32.Vec3{1, 1, 1})
	out := NewAnimationPose()
	out.BlendWith(a, 0)
	out.BlendWith(a, -1)
	out.BlendWith(nil, 1)
	assert.Equal(t, 0, out.Len())
}

func TestBlendRotationTakesShortestArc(t *testing.T) {
	t.Parallel()

	q := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	a := NewAnimationPose()
	a.SetRotation(1, q)
	b := NewAnimationPose()
	b.SetRotation(1, mgl32.Quat{W: -q.W, V: q.V.Mul(-1)})

	out := NewAnimationPose()
	out.BlendWith(a, 1)
	out.BlendWith(b, 1)

	n, _ := out.Pose(1)
	assert.True(t, n.Rotation.OrientationEqualThreshold(q, 1e-4), "got %v", n.Rotation)
}

func TestRootMotionBlend(t *testing.T) {
	t.Parallel()

	a := NewAnimationPose()
	a.SetRootMotion(&RootMotion{DeltaPosition: mgl32.Vec3{2, 0, 0}, DeltaRotation: mgl32.QuatIdent()})
	b := NewAnimationPose()
	b.SetRootMotion(&RootMotion{DeltaPosition: mgl32.Vec3{4, 0, 0}, DeltaRotation: mgl32.QuatIdent()})

	out := NewAnimationPose()
	out.BlendWith(a, 1)
	out.BlendWith(b, 1)

	rm, ok := out.RootMotion()
	require.True(t, ok)
	assert.InDelta(t, 3.0, rm.DeltaPosition.X(), 1e-5)
}

func TestCloneRetainReset(t *testing.T) {
	t.Parallel()

	p := NewAnimationPose()
	p.SetPosition(3, mgl32.Vec3{1, 0, 0})
	p.SetScale(1, mgl32.Vec3{2, 2, 2})
	p.SetRotation(2, mgl32.QuatIdent())

	c := p.Clone()
	if diff := cmp.Diff([]NodeID{1, 2, 3}, c.NodeIDs()); diff != "" {
		t.Fatalf("node ids mismatch (-want +got):\n%s", diff)
	}

	c.Retain(func(id NodeID) bool { return id != 2 })
	assert.Equal(t, []NodeID{1, 3}, c.NodeIDs())
	assert.Equal(t, 3, p.Len(), "clone must be independent")

	n, _ := c.Pose(1)
	assert.True(t, n.Has(BindingScale))
	assert.False(t, n.Has(BindingPosition))
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, n.ScaleOrDefault())

	c.Reset()
	assert.Equal(t, 0, c.Len())
	_, ok := c.RootMotion()
	assert.False(t, ok)
}
