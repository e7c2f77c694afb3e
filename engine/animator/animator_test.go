package animator

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/machine"
	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
	"github.com/Carmen-Shannon/oxy-anim/engine/track"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hip pose.NodeID = 1

func holdAnimation(name string, x float32, options ...animation.AnimationBuilderOption) animation.Animation {
	opts := append([]animation.AnimationBuilderOption{
		animation.WithName(name),
		animation.WithTracks(track.NewVectorTrack(hip, pose.BindingPosition,
			track.Frame[mgl32.Vec3]{Time: 0, Value: mgl32.Vec3{x, 0, 0}},
			track.Frame[mgl32.Vec3]{Time: 1, Value: mgl32.Vec3{x, 0, 0}},
		)),
	}, options...)
	return animation.NewAnimation(opts...)
}

func hipX(t *testing.T, a Animator) float32 {
	t.Helper()
	n, ok := a.Pose().Pose(hip)
	require.True(t, ok, "hip missing from pose")
	return n.Position.X()
}

func newLocomotion(t *testing.T) (Animator, animation.Handle) {
	t.Helper()

	anims := animation.NewContainer()
	step := animation.NewSignal("Step", 0.5)
	walkAnim := anims.Add(holdAnimation("Walk", 1, animation.WithSignals(step)))
	runAnim := anims.Add(holdAnimation("Run", 3))

	l := machine.NewLayer(machine.WithLayerName("Locomotion"))
	walk := l.AddState(machine.NewState("Walk", l.AddNode(machine.NewPlayAnimation(walkAnim))))
	run := l.AddState(machine.NewState("Run", l.AddNode(machine.NewPlayAnimation(runAnim))))
	l.AddTransition(machine.NewTransition("WalkToRun", walk, run, 0, "Run"))
	l.SetEntryState(walk)

	a := NewAnimator(BackendTypeMachine,
		WithName("hero"),
		WithAnimations(anims),
		WithMachine(machine.NewMachine(machine.WithLayers(l))),
	)
	return a, walkAnim
}

func TestMachineAnimatorUpdate(t *testing.T) {
	t.Parallel()

	a, walkAnim := newLocomotion(t)
	assert.Equal(t, "hero", a.Name())
	assert.Equal(t, BackendTypeMachine, a.BackendType())

	a.Update(0.6)
	assert.Equal(t, float32(1), hipX(t, a))
	events := a.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventRecord{Layer: 0, Animation: walkAnim, Weight: 1, Event: events[0].Event}, events[0])
	assert.Equal(t, "Step", events[0].Event.Name)

	a.Update(0.1)
	assert.Empty(t, a.Events(), "events only cover the last update")

	a.SetParameter("Run", machine.RuleParameter(true))
	a.Update(0.1)
	a.Update(0.1)
	assert.Equal(t, float32(3), hipX(t, a))
}

func TestMachineAnimatorIgnoresPlayerCalls(t *testing.T) {
	t.Parallel()

	a, walkAnim := newLocomotion(t)
	a.BlendToAnimation(walkAnim, 1)
	assert.False(t, a.IsBlending())
	assert.Equal(t, float32(0), a.BlendProgress())
	assert.NotNil(t, a.Machine())
}

func newPlayer(t *testing.T) (Animator, animation.Handle, animation.Handle) {
	t.Helper()

	anims := animation.NewContainer()
	idle := anims.Add(holdAnimation("Idle", 0))
	walk := anims.Add(holdAnimation("Walk", 10, animation.WithEnabled(false)))
	return NewAnimator(BackendTypePlayer, WithAnimations(anims)), idle, walk
}

func TestPlayerCrossfade(t *testing.T) {
	t.Parallel()

	a, idle, walk := newPlayer(t)
	assert.Nil(t, a.Machine())

	a.PlayAnimation(idle, animation.LoopModeLoop)
	a.Update(0.25)
	assert.Equal(t, float32(0), hipX(t, a))

	a.BlendToAnimation(walk, 1)
	assert.True(t, a.IsBlending())

	a.Update(0.25)
	assert.InDelta(t, 2.5, hipX(t, a), 1e-5)
	assert.InDelta(t, 0.25, a.BlendProgress(), 1e-6)

	a.Update(0.25)
	a.Update(0.25)
	assert.InDelta(t, 7.5, hipX(t, a), 1e-5)

	a.Update(0.25)
	assert.Equal(t, float32(10), hipX(t, a))
	assert.False(t, a.IsBlending())
	assert.Equal(t, float32(0), a.BlendProgress())

	from, _ := a.Animations().Get(idle)
	assert.False(t, from.Enabled(), "the animation blended away from is disabled")
}

func TestPlayerBlendInterruptedByNewTarget(t *testing.T) {
	t.Parallel()

	a, idle, walk := newPlayer(t)
	run := a.Animations().Add(holdAnimation("Run", 20, animation.WithEnabled(false)))

	a.PlayAnimation(idle, animation.LoopModeLoop)
	a.BlendToAnimation(walk, 1)
	a.Update(0.5)
	assert.InDelta(t, 5, hipX(t, a), 1e-5)

	a.BlendToAnimation(run, 1)
	assert.True(t, a.IsBlending())
	assert.Equal(t, float32(0), a.BlendProgress())
	walkAnim, _ := a.Animations().Get(walk)
	assert.False(t, walkAnim.Enabled(), "the interrupted target is disabled")

	a.Update(0.25)
	assert.InDelta(t, 5, hipX(t, a), 1e-5, "blend restarts from the current animation")

	for range 4 {
		a.Update(0.25)
	}
	assert.InDelta(t, 20, hipX(t, a), 1e-5)
	assert.False(t, a.IsBlending())

	idleAnim, _ := a.Animations().Get(idle)
	runAnim, _ := a.Animations().Get(run)
	assert.False(t, idleAnim.Enabled())
	assert.True(t, runAnim.Enabled())
}

func TestPlayerCancelBlend(t *testing.T) {
	t.Parallel()

	a, idle, walk := newPlayer(t)
	a.PlayAnimation(idle, animation.LoopModeLoop)
	a.BlendToAnimation(walk, 1)
	a.Update(0.25)

	a.CancelBlend()
	assert.False(t, a.IsBlending())
	a.Update(0.25)
	assert.Equal(t, float32(0), hipX(t, a))

	to, _ := a.Animations().Get(walk)
	assert.False(t, to.Enabled())
}

func TestPlayerPlayAnimationDisablesOthers(t *testing.T) {
	t.Parallel()

	a, idle, walk := newPlayer(t)
	a.SetAnimationTime(walk, 0.5)
	a.PlayAnimation(walk, animation.LoopModeOnce)

	w, _ := a.Animations().Get(walk)
	i, _ := a.Animations().Get(idle)
	assert.True(t, w.Enabled())
	assert.False(t, i.Enabled())
	assert.Equal(t, animation.LoopModeOnce, w.LoopMode())
	assert.Equal(t, float32(0), w.TimePosition(), "PlayAnimation rewinds")

	a.SetAnimationSpeed(walk, 2)
	assert.Equal(t, float32(2), w.Speed())
}

func TestPlayerEventsAndStrategy(t *testing.T) {
	t.Parallel()

	anims := animation.NewContainer()
	step := animation.NewSignal("Step", 0.5)
	light := anims.Add(holdAnimation("Light", 0, animation.WithSignals(step), animation.WithWeight(0.25)))
	heavy := anims.Add(holdAnimation("Heavy", 4, animation.WithSignals(step), animation.WithWeight(0.75)))

	a := NewAnimator(BackendTypePlayer, WithAnimations(anims), WithEventStrategy(machine.CollectMaxWeight))
	a.Update(0.6)

	assert.InDelta(t, 3, hipX(t, a), 1e-5)
	events := a.Events()
	require.Len(t, events, 1)
	assert.Equal(t, heavy, events[0].Animation)
	assert.Equal(t, -1, events[0].Layer)

	a.SetEventStrategy(machine.CollectAll)
	a.Update(1)
	events = a.Events()
	require.Len(t, events, 2)
	assert.Equal(t, light, events[0].Animation)
}

func TestPlayerRootMotion(t *testing.T) {
	t.Parallel()

	anims := animation.NewContainer()
	walk := anims.Add(animation.NewAnimation(
		animation.WithTracks(track.NewVectorTrack(hip, pose.BindingPosition,
			track.Frame[mgl32.Vec3]{Time: 0, Value: mgl32.Vec3{0, 0, 0}},
			track.Frame[mgl32.Vec3]{Time: 1, Value: mgl32.Vec3{0, 0, 4}},
		)),
		animation.WithRootMotion(animation.RootMotionSettings{Node: hip}),
	))

	a := NewAnimator(BackendTypePlayer, WithAnimations(anims))
	a.PlayAnimation(walk, animation.LoopModeLoop)
	a.Update(0.25)
	a.Update(0.25)

	rm, ok := a.RootMotion()
	require.True(t, ok)
	assert.InDelta(t, 1, rm.DeltaPosition.Z(), 1e-5)
	assert.Equal(t, float32(0), hipX(t, a))
}
