package machine

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
	"github.com/Carmen-Shannon/oxy-anim/engine/track"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

const (
	hip   pose.NodeID = 1
	spine pose.NodeID = 2
)

// holdAnimation creates a one second animation holding hip at x.
func holdAnimation(name string, x float32, options ...animation.AnimationBuilderOption) animation.Animation {
	frames := []track.Frame[mgl32.Vec3]{
		{Time: 0, Value: mgl32.Vec3{x, 0, 0}},
		{Time: 1, Value: mgl32.Vec3{x, 0, 0}},
	}
	opts := append([]animation.AnimationBuilderOption{
		animation.WithName(name),
		animation.WithTracks(
			track.NewVectorTrack(hip, pose.BindingPosition, frames...),
			track.NewVectorTrack(spine, pose.BindingPosition, frames...),
		),
	}, options...)
	return animation.NewAnimation(opts...)
}

func hipX(t *testing.T, p *pose.AnimationPose) float32 {
	t.Helper()
	n, ok := p.Pose(hip)
	require.True(t, ok, "hip missing from pose")
	require.True(t, n.Has(pose.BindingPosition))
	return n.Position.X()
}

// playState adds a PlayAnimation node and a state rooted at it.
func playState(l *Layer, name string, h animation.Handle) StateHandle {
	return l.AddState(NewState(name, l.AddNode(NewPlayAnimation(h))))
}

func drainEvents(l *Layer) []Event {
	var out []Event
	for {
		e, ok := l.PopEvent()
		if !ok {
			return out
		}
		out = append(out, e)
	}
}
