package machine

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// weightsByIndex sums the weights of a FetchWeights result per point index.
func weightsByIndex(weights [3]BlendSpaceWeight) map[int]float32 {
	out := make(map[int]float32)
	for _, w := range weights {
		if w.Weight != 0 {
			out[w.Index] += w.Weight
		}
	}
	return out
}

func spacePoints(positions ...mgl32.Vec2) []BlendSpacePoint {
	out := make([]BlendSpacePoint, 0, len(positions))
	for _, p := range positions {
		out = append(out, BlendSpacePoint{Position: p})
	}
	return out
}

func TestBlendSpaceTriangulatesSquare(t *testing.T) {
	t.Parallel()

	n := NewBlendSpace("move")
	ok := n.SetPoints(spacePoints(
		mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}, mgl32.Vec2{1, 1}, mgl32.Vec2{0, 1},
	))
	require.True(t, ok)

	tris := n.Triangles()
	require.Len(t, tris, 2)

	var area float32
	used := make(map[int]bool)
	for _, tri := range tris {
		a, b, c := n.points[tri[0]].Position, n.points[tri[1]].Position, n.points[tri[2]].Position
		cross := b.Sub(a)[0]*c.Sub(a)[1] - b.Sub(a)[1]*c.Sub(a)[0]
		area += 0.5 * max(cross, -cross)
		for _, i := range tri {
			used[i] = true
		}
	}
	assert.InDelta(t, 1, area, 1e-5, "triangles cover the square without overlap")
	assert.Len(t, used, 4)
}

func TestBlendSpaceTriangulationNeedsThreePoints(t *testing.T) {
	t.Parallel()

	n := NewBlendSpace("move", spacePoints(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0})...)
	assert.Empty(t, n.Triangles())

	assert.False(t, n.AddPoint(BlendSpacePoint{Position: mgl32.Vec2{2, 0}}), "collinear points")
	assert.True(t, n.AddPoint(BlendSpacePoint{Position: mgl32.Vec2{0, 1}}))
	assert.NotEmpty(t, n.Triangles())

	n.ClearPoints()
	assert.Empty(t, n.Points())
	assert.Empty(t, n.Triangles())
}

func TestBlendSpaceFetchWeights(t *testing.T) {
	t.Parallel()

	n := NewBlendSpace("move")
	_, ok := n.FetchWeights(mgl32.Vec2{})
	assert.False(t, ok, "no points")

	n.SetPoints(spacePoints(mgl32.Vec2{0.5, 0.5}))
	w, ok := n.FetchWeights(mgl32.Vec2{3, 3})
	require.True(t, ok)
	assert.Equal(t, map[int]float32{0: 1}, weightsByIndex(w), "a single point always wins")

	n.SetPoints(spacePoints(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}))
	w, ok = n.FetchWeights(mgl32.Vec2{0.25, 0.7})
	require.True(t, ok)
	got := weightsByIndex(w)
	assert.InDelta(t, 0.75, got[0], 1e-5)
	assert.InDelta(t, 0.25, got[1], 1e-5)
	_, ok = n.FetchWeights(mgl32.Vec2{2, 0})
	assert.False(t, ok, "projection past the segment")

	n.SetPoints(spacePoints(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}, mgl32.Vec2{0, 1}))
	w, ok = n.FetchWeights(mgl32.Vec2{0.25, 0.25})
	require.True(t, ok)
	got = weightsByIndex(w)
	assert.InDelta(t, 0.5, got[0], 1e-5)
	assert.InDelta(t, 0.25, got[1], 1e-5)
	assert.InDelta(t, 0.25, got[2], 1e-5)
}

func TestBlendSpaceFetchWeightsOutsideUsesClosestEdge(t *testing.T) {
	t.Parallel()

	n := NewBlendSpace("move", spacePoints(mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}, mgl32.Vec2{0, 1})...)
	w, ok := n.FetchWeights(mgl32.Vec2{0.5, -0.5})
	require.True(t, ok)
	got := weightsByIndex(w)
	assert.Len(t, got, 2)
	assert.InDelta(t, 0.5, got[0], 1e-5)
	assert.InDelta(t, 0.5, got[1], 1e-5)
}

func TestBlendSpaceBoundsAndSnapping(t *testing.T) {
	t.Parallel()

	n := NewBlendSpace("move", spacePoints(mgl32.Vec2{0.26, 0.94}, mgl32.Vec2{-3, 2})...)
	assert.Equal(t, mgl32.Vec2{0, 0}, n.MinValues())
	assert.Equal(t, mgl32.Vec2{1, 1}, n.MaxValues())
	assert.Equal(t, mgl32.Vec2{0.1, 0.1}, n.SnapStep())

	n.SetMinValues(mgl32.Vec2{-1, 2})
	assert.Equal(t, mgl32.Vec2{1, 2}, n.MaxValues(), "max raised to min")
	n.SetMaxValues(mgl32.Vec2{1, 1})
	assert.Equal(t, mgl32.Vec2{-1, 1}, n.MinValues(), "min lowered to max")

	n.SetSnapStep(mgl32.Vec2{0.5, 0.5})
	n.SnapPoints()
	pts := n.Points()
	assert.Equal(t, mgl32.Vec2{0.5, 1}, pts[0].Position)
	assert.Equal(t, mgl32.Vec2{-1, 1}, pts[1].Position)

	assert.True(t, n.SetPointPosition(1, mgl32.Vec2{0, 0}))
	assert.False(t, n.SetPointPosition(2, mgl32.Vec2{0, 0}))
}

func TestBlendSpaceEvaluatesSampledPoints(t *testing.T) {
	t.Parallel()

	anims := animation.NewContainer()
	l := NewLayer()
	space := NewBlendSpace("move")
	node := l.AddNode(space)
	for i, name := range []string{"Idle", "Strafe", "Run"} {
		source := l.AddNode(NewPlayAnimation(anims.Add(holdAnimation(name, float32(10*i)))))
		position := []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}}[i]
		require.NoError(t, l.ConnectBlendSpacePoint(node, BlendSpacePoint{Position: position, Source: source}))
	}
	l.SetEntryState(l.AddState(NewState("Move", node)))

	params := NewParameterContainer()
	params.SetSamplingPoint("move", mgl32.Vec2{0.25, 0.25})
	assert.InDelta(t, 7.5, hipX(t, l.Evaluate(anims, params, 0)), 1e-5)

	contributions := l.contributions(params, anims)
	require.Len(t, contributions, 3)
	var total float32
	for _, c := range contributions {
		total += c.weight
	}
	assert.InDelta(t, 1, total, 1e-5)

	params.SetSamplingPoint("move", mgl32.Vec2{1, 0})
	assert.InDelta(t, 10, hipX(t, l.Evaluate(anims, params, 0)), 1e-5)

	params.Remove("move")
	l.Evaluate(anims, params, 0)
	assert.Zero(t, space.Pose().Len(), "no sample leaves the output empty")
}

func TestBlendSpaceConnectValidatesEdges(t *testing.T) {
	t.Parallel()

	l := NewLayer()
	leaf := l.AddNode(NewPlayAnimation(animation.Handle{}))
	space := l.AddNode(NewBlendSpace("move"))
	blend := l.AddNode(NewBlendAnimations(BlendPose{Weight: ConstantWeight(1), Source: space}))

	require.NoError(t, l.ConnectBlendSpacePoint(space, BlendSpacePoint{Source: leaf}))
	assert.ErrorIs(t, l.ConnectBlendSpacePoint(space, BlendSpacePoint{Source: blend}), ErrPoseGraphCycle)
	assert.ErrorIs(t, l.ConnectBlendSpacePoint(space, BlendSpacePoint{Source: space}), ErrPoseGraphCycle, "self edge")
	assert.ErrorIs(t, l.SetBlendSpacePointSource(space, 0, blend), ErrPoseGraphCycle)
	assert.ErrorIs(t, l.SetBlendSpacePointSource(space, 1, leaf), ErrInputIndex)
	assert.ErrorIs(t, l.ConnectBlendSpacePoint(blend, BlendSpacePoint{Source: leaf}), ErrNodeKind)
	assert.ErrorIs(t, l.ConnectBlendSpacePoint(NodeHandle{}, BlendSpacePoint{Source: leaf}), ErrInvalidNode)

	n, _ := l.Node(space)
	assert.Equal(t, []NodeHandle{leaf}, n.Children(), "rejected edges leave the graph unchanged")
}
