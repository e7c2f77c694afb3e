package machine

import (
	"math"
	"slices"

	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
	"github.com/go-gl/mathgl/mgl32"
)

// BlendSpacePoint places an input of a BlendSpace at a position of the 2D sampling plane.
type BlendSpacePoint struct {
	Position mgl32.Vec2
	Source   NodeHandle
}

// BlendSpaceWeight is the share of a blend space point in a sampled pose.
type BlendSpaceWeight struct {
	// Index addresses the point in BlendSpace.Points.
	Index  int
	Weight float32
}

// BlendSpace blends up to three of its points selected by a sampling point parameter. The points
// are triangulated; a sample inside a triangle is blended by its barycentric coordinates, a
// sample outside every triangle by its projection onto the closest triangle edge.
type BlendSpace struct {
	poseNode
	samplingParameter string
	points            []BlendSpacePoint
	triangles         [][3]int

	minValues mgl32.Vec2
	maxValues mgl32.Vec2
	snapStep  mgl32.Vec2
}

var _ PoseNode = &BlendSpace{}

// NewBlendSpace creates a blend space over the unit square with a snap step of 0.1.
//
// Parameters:
//   - samplingParameter: the name of the sampling point parameter
//   - points: the initial points
//
// Returns:
//   - *BlendSpace: the new node
func NewBlendSpace(samplingParameter string, points ...BlendSpacePoint) *BlendSpace {
	n := &BlendSpace{
		poseNode:          newPoseNode(),
		samplingParameter: samplingParameter,
		maxValues:         mgl32.Vec2{1, 1},
		snapStep:          mgl32.Vec2{0.1, 0.1},
	}
	n.SetPoints(points)
	return n
}

func (n *BlendSpace) SamplingParameter() string {
	return n.samplingParameter
}

func (n *BlendSpace) SetSamplingParameter(name string) {
	n.samplingParameter = name
}

// Points returns a copy of the node's points.
func (n *BlendSpace) Points() []BlendSpacePoint {
	return slices.Clone(n.points)
}

// Triangles returns a copy of the triangulation, as triples of point indices.
func (n *BlendSpace) Triangles() [][3]int {
	return slices.Clone(n.triangles)
}

// SetPoints replaces every point and triangulates them again.
//
// Parameters:
//   - points: the new points
//
// Returns:
//   - bool: true if the points form at least one triangle
func (n *BlendSpace) SetPoints(points []BlendSpacePoint) bool {
	n.points = slices.Clone(points)
	return n.triangulate()
}

// AddPoint appends a point and triangulates again. Returns true if the points form at least one
// triangle.
func (n *BlendSpace) AddPoint(p BlendSpacePoint) bool {
	n.points = append(n.points, p)
	return n.triangulate()
}

func (n *BlendSpace) ClearPoints() {
	n.points = nil
	n.triangles = nil
}

// SetPointPosition moves a point and triangulates again. Returns false if index is out of range.
func (n *BlendSpace) SetPointPosition(index int, position mgl32.Vec2) bool {
	if index < 0 || index >= len(n.points) {
		return false
	}
	n.points[index].Position = position
	n.triangulate()
	return true
}

func (n *BlendSpace) MinValues() mgl32.Vec2 {
	return n.minValues
}

// SetMinValues sets the lower corner of the sampling plane, raising the upper corner where it
// falls below.
func (n *BlendSpace) SetMinValues(v mgl32.Vec2) {
	n.minValues = v
	n.maxValues = mgl32.Vec2{max(n.maxValues[0], v[0]), max(n.maxValues[1], v[1])}
}

func (n *BlendSpace) MaxValues() mgl32.Vec2 {
	return n.maxValues
}

// SetMaxValues sets the upper corner of the sampling plane, lowering the lower corner where it
// rises above.
func (n *BlendSpace) SetMaxValues(v mgl32.Vec2) {
	n.maxValues = v
	n.minValues = mgl32.Vec2{min(n.minValues[0], v[0]), min(n.minValues[1], v[1])}
}

func (n *BlendSpace) SnapStep() mgl32.Vec2 {
	return n.snapStep
}

func (n *BlendSpace) SetSnapStep(step mgl32.Vec2) {
	n.snapStep = step
}

// SnapPoints rounds every point to the snap step and clamps it into the sampling plane, then
// triangulates again.
func (n *BlendSpace) SnapPoints() {
	for i := range n.points {
		p := n.points[i].Position
		for axis := 0; axis < 2; axis++ {
			v := roundToStep(p[axis], n.snapStep[axis])
			p[axis] = max(n.minValues[axis], min(v, n.maxValues[axis]))
		}
		n.points[i].Position = p
	}
	n.triangulate()
}

func roundToStep(v, step float32) float32 {
	if step <= 0 {
		return v
	}
	return float32(math.Round(float64(v/step))) * step
}

// FetchWeights computes the points blended at a sampling position. Unused slots carry a weight
// of 0.
//
// Parameters:
//   - sample: the sampling position
//
// Returns:
//   - [3]BlendSpaceWeight: the blended points and their weights
//   - bool: false if the node has no points or no triangle edge covers the sample
func (n *BlendSpace) FetchWeights(sample mgl32.Vec2) ([3]BlendSpaceWeight, bool) {
	var out [3]BlendSpaceWeight
	switch len(n.points) {
	case 0:
		return out, false
	case 1:
		out[0].Weight = 1
		return out, true
	case 2:
		if t, ok := projectOnSegment(sample, n.points[0].Position, n.points[1].Position); ok {
			out[0] = BlendSpaceWeight{Index: 0, Weight: 1 - t}
			out[1] = BlendSpaceWeight{Index: 1, Weight: t}
			return out, true
		}
	}

	for _, tri := range n.triangles {
		a, b, c := n.points[tri[0]].Position, n.points[tri[1]].Position, n.points[tri[2]].Position
		u, v, w := barycentric(sample, a, b, c)
		if u >= 0 && v >= 0 && w >= 0 {
			out[0] = BlendSpaceWeight{Index: tri[0], Weight: u}
			out[1] = BlendSpaceWeight{Index: tri[1], Weight: v}
			out[2] = BlendSpaceWeight{Index: tri[2], Weight: w}
			return out, true
		}
	}

	// Outside the triangulation the closest edge wins.
	found := false
	closest := float32(math.MaxFloat32)
	for _, tri := range n.triangles {
		for k := 0; k < 3; k++ {
			ia, ib := tri[k], tri[(k+1)%3]
			a, b := n.points[ia].Position, n.points[ib].Position
			t, ok := projectOnSegment(sample, a, b)
			if !ok {
				continue
			}
			d := sample.Sub(a.Add(b.Sub(a).Mul(t))).Len()
			if d < closest {
				closest = d
				found = true
				out[0] = BlendSpaceWeight{Index: ia, Weight: 1 - t}
				out[1] = BlendSpaceWeight{Index: ib, Weight: t}
				out[2] = BlendSpaceWeight{Index: ib}
			}
		}
	}
	return out, found
}

// projectOnSegment returns the parameter of the projection of p onto the segment ab, reporting
// false when the projection falls outside it.
func projectOnSegment(p, a, b mgl32.Vec2) (float32, bool) {
	edge := b.Sub(a)
	lenSq := edge.Dot(edge)
	if lenSq == 0 {
		return 0, false
	}
	t := p.Sub(a).Dot(edge) / lenSq
	return t, t >= 0 && t <= 1
}

// barycentric returns the weights of a, b and c at p.
func barycentric(p, a, b, c mgl32.Vec2) (float32, float32, float32) {
	v0, v1, v2 := b.Sub(a), c.Sub(a), p.Sub(a)
	d00, d01, d11 := v0.Dot(v0), v0.Dot(v1), v1.Dot(v1)
	d20, d21 := v2.Dot(v0), v2.Dot(v1)
	denom := d00*d11 - d01*d01
	if denom == 0 {
		return -1, -1, -1
	}
	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom
	return 1 - v - w, v, w
}

func (n *BlendSpace) Children() []NodeHandle {
	out := make([]NodeHandle, 0, len(n.points))
	for _, p := range n.points {
		out = append(out, p.Source)
	}
	return out
}

// sampledWeights resolves the sampling parameter into point weights.
func (n *BlendSpace) sampledWeights(params *ParameterContainer) ([3]BlendSpaceWeight, bool) {
	if params == nil {
		return [3]BlendSpaceWeight{}, false
	}
	sample, ok := params.SamplingPoint(n.samplingParameter)
	if !ok {
		return [3]BlendSpaceWeight{}, false
	}
	return n.FetchWeights(sample)
}

func (n *BlendSpace) evalPose(ctx *evalContext) *pose.AnimationPose {
	if !n.visit(ctx) {
		return n.output
	}
	n.output.Reset()
	weights, ok := n.sampledWeights(ctx.params)
	if !ok {
		return n.output
	}
	for _, w := range weights {
		if !(w.Weight > 0) {
			continue
		}
		child, ok := ctx.eval(n.points[w.Index].Source)
		if !ok {
			continue
		}
		n.output.BlendWith(child, w.Weight)
	}
	return n.output
}

func (n *BlendSpace) collectWeights(ctx *evalContext, weight float32, out *[]weightedAnimation) {
	weights, ok := n.sampledWeights(ctx.params)
	if !ok {
		return
	}
	for _, w := range weights {
		ctx.weights(n.points[w.Index].Source, weight*w.Weight, out)
	}
}

// triangulate rebuilds the Delaunay triangulation of the points with the Bowyer-Watson
// algorithm. Duplicate positions are skipped and fewer than three points yield no triangles.
func (n *BlendSpace) triangulate() bool {
	n.triangles = delaunay(n.points)
	return len(n.triangles) > 0
}

type vertex struct{ x, y float64 }

type meshEdge struct{ a, b int }

func delaunay(points []BlendSpacePoint) [][3]int {
	count := len(points)
	if count < 3 {
		return nil
	}

	verts := make([]vertex, count, count+3)
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, p := range points {
		v := vertex{float64(p.Position[0]), float64(p.Position[1])}
		verts[i] = v
		minX, minY = math.Min(minX, v.x), math.Min(minY, v.y)
		maxX, maxY = math.Max(maxX, v.x), math.Max(maxY, v.y)
	}
	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		return nil
	}
	midX, midY := (minX+maxX)/2, (minY+maxY)/2
	// Super triangle enclosing every point; its corners are indices count..count+2.
	verts = append(verts,
		vertex{midX - 100*span, midY - 100*span},
		vertex{midX + 100*span, midY - 100*span},
		vertex{midX, midY + 100*span},
	)

	tris := [][3]int{{count, count + 1, count + 2}}
	for i := 0; i < count; i++ {
		if slices.ContainsFunc(verts[:i], func(v vertex) bool { return v == verts[i] }) {
			continue
		}

		var keep, bad [][3]int
		for _, t := range tris {
			if inCircumcircle(verts, t, verts[i]) {
				bad = append(bad, t)
			} else {
				keep = append(keep, t)
			}
		}

		// The cavity boundary is made of the edges used by exactly one bad triangle.
		shared := make(map[meshEdge]int)
		var boundary []meshEdge
		for _, t := range bad {
			for k := 0; k < 3; k++ {
				e := meshEdge{t[k], t[(k+1)%3]}
				key := meshEdge{min(e.a, e.b), max(e.a, e.b)}
				if shared[key] == 0 {
					boundary = append(boundary, e)
				}
				shared[key]++
			}
		}
		for _, e := range boundary {
			if shared[meshEdge{min(e.a, e.b), max(e.a, e.b)}] == 1 {
				keep = append(keep, [3]int{e.a, e.b, i})
			}
		}
		tris = keep
	}

	out := make([][3]int, 0, len(tris))
	for _, t := range tris {
		if t[0] >= count || t[1] >= count || t[2] >= count {
			continue
		}
		if orientation(verts[t[0]], verts[t[1]], verts[t[2]]) == 0 {
			continue
		}
		out = append(out, t)
	}
	return out
}

func orientation(a, b, c vertex) float64 {
	return (b.x-a.x)*(c.y-a.y) - (b.y-a.y)*(c.x-a.x)
}

// inCircumcircle reports whether p lies strictly inside the circumcircle of t.
func inCircumcircle(verts []vertex, t [3]int, p vertex) bool {
	a, b, c := verts[t[0]], verts[t[1]], verts[t[2]]
	ax, ay := a.x-p.x, a.y-p.y
	bx, by := b.x-p.x, b.y-p.y
	cx, cy := c.x-p.x, c.y-p.y
	det := (ax*ax+ay*ay)*(bx*cy-cx*by) -
		(bx*bx+by*by)*(ax*cy-cx*ay) +
		(cx*cx+cy*cy)*(ax*by-bx*ay)
	if orientation(a, b, c) < 0 {
		det = -det
	}
	return det > 1e-12
}
