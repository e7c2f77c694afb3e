package machine

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type walkLayer struct {
	layer      *Layer
	anims      *animation.Container
	params     *ParameterContainer
	idle, walk StateHandle
	toWalk     TransitionHandle
}

func newWalkLayer(t *testing.T, duration float32) walkLayer {
	t.Helper()

	w := walkLayer{anims: animation.NewContainer(), params: NewParameterContainer()}
	w.layer = NewLayer(WithLayerName("Base"))
	w.idle = playState(w.layer, "Idle", w.anims.Add(holdAnimation("Idle", 0)))
	w.walk = playState(w.layer, "Walk", w.anims.Add(holdAnimation("Walk", 10)))
	w.toWalk = w.layer.AddTransition(NewTransition("IdleToWalk", w.idle, w.walk, duration, "walk"))
	w.layer.AddTransition(NewTransition("WalkToIdle", w.walk, w.idle, duration, "idle"))
	w.layer.SetEntryState(w.idle)
	return w
}

func (w walkLayer) eval(t *testing.T, dt float32) float32 {
	t.Helper()
	return hipX(t, w.layer.Evaluate(w.anims, w.params, dt))
}

func TestLayerWithoutActiveStateIsEmpty(t *testing.T) {
	t.Parallel()

	l := NewLayer()
	assert.Equal(t, 0, l.Evaluate(animation.NewContainer(), nil, 0.1).Len())
}

func TestLayerTransitionLifecycle(t *testing.T) {
	t.Parallel()

	w := newWalkLayer(t, 1)

	assert.Equal(t, float32(0), w.eval(t, 0.25), "armed transition is inert")
	assert.Empty(t, drainEvents(w.layer))

	w.params.SetRule("walk", true)
	assert.Equal(t, float32(0), w.eval(t, 0.25))
	assert.Equal(t, w.toWalk, w.layer.ActiveTransition())
	assert.Equal(t, w.idle, w.layer.ActiveState(), "source stays active while blending")
	assert.Equal(t, []Event{
		{Kind: EventStateLeave, State: w.idle},
		{Kind: EventStateEnter, State: w.walk},
		{Kind: EventActiveTransitionChanged, Transition: w.toWalk},
	}, drainEvents(w.layer))

	assert.InDelta(t, 2.5, w.eval(t, 0.25), 1e-5)
	assert.InDelta(t, 5, w.eval(t, 0.5), 1e-5)

	assert.True(t, w.layer.ActiveTransition().IsNone())
	assert.Equal(t, w.walk, w.layer.ActiveState())
	assert.Equal(t, []Event{
		{Kind: EventActiveTransitionChanged},
		{Kind: EventActiveStateChanged, State: w.walk, Prev: w.idle},
	}, drainEvents(w.layer))

	tr, ok := w.layer.Transition(w.toWalk)
	require.True(t, ok)
	assert.Equal(t, float32(0), tr.BlendFactor(), "finished transitions are reset")

	assert.Equal(t, float32(10), w.eval(t, 0.25))
}

func TestLayerFirstDeclaredTransitionWins(t *testing.T) {
	t.Parallel()

	anims := animation.NewContainer()
	l := NewLayer()
	idle := playState(l, "Idle", anims.Add(holdAnimation("Idle", 0)))
	walk := playState(l, "Walk", anims.Add(holdAnimation("Walk", 10)))
	run := playState(l, "Run", anims.Add(holdAnimation("Run", 20)))

	l.AddTransition(NewTransition("IdleToIdle", idle, idle, 0, "go"))
	first := l.AddTransition(NewTransition("IdleToRun", idle, run, 0, "go"))
	l.AddTransition(NewTransition("IdleToWalk", idle, walk, 0, "go"))
	l.SetEntryState(idle)

	params := NewParameterContainer()
	params.SetRule("go", true)
	for i := 0; i < 5; i++ {
		l.Reset()
		l.Evaluate(anims, params, 0.1)
		assert.Equal(t, run, l.ActiveState())
		events := drainEvents(l)
		require.NotEmpty(t, events)
		assert.Contains(t, events, Event{Kind: EventActiveTransitionChanged, Transition: first})
	}
}

func TestLayerZeroDurationSwitchesInOneUpdate(t *testing.T) {
	t.Parallel()

	w := newWalkLayer(t, 0)
	w.params.SetRule("walk", true)

	w.eval(t, 0.1)
	assert.Equal(t, w.walk, w.layer.ActiveState())
	assert.Equal(t, float32(10), w.eval(t, 0.1))
}

func TestLayerStateActions(t *testing.T) {
	t.Parallel()

	anims := animation.NewContainer()
	idleAnim := anims.Add(holdAnimation("Idle", 0))
	attackAnim := anims.Add(holdAnimation("Attack", 10, animation.WithLoopMode(animation.LoopModeOnce)))

	l := NewLayer()
	idle := playState(l, "Idle", idleAnim)
	attack := playState(l, "Attack", attackAnim)
	l.AddTransition(NewTransition("Attack", idle, attack, 0, "attack"))
	l.SetEntryState(idle)

	is, _ := l.State(idle)
	is.OnLeave = []StateAction{{Kind: ActionDisable, Animation: idleAnim}}
	as, _ := l.State(attack)
	as.OnEnter = []StateAction{{Kind: ActionRewind, Animation: attackAnim}, {Kind: ActionEnable, Animation: attackAnim}}

	a, _ := anims.Get(attackAnim)
	a.Tick(0.6)
	a.SetEnabled(false)

	params := NewParameterContainer()
	params.SetRule("attack", true)
	l.Evaluate(anims, params, 0.1)

	i, _ := anims.Get(idleAnim)
	assert.False(t, i.Enabled())
	assert.True(t, a.Enabled())
	assert.Equal(t, float32(0), a.TimePosition())
}

func TestLayerMaskDropsNodes(t *testing.T) {
	t.Parallel()

	anims := animation.NewContainer()
	l := NewLayer(WithLayerMask(NewLayerMask(spine)))
	l.SetEntryState(playState(l, "Idle", anims.Add(holdAnimation("Idle", 3))))

	out := l.Evaluate(anims, nil, 0.1)
	assert.Equal(t, []pose.NodeID{hip}, out.NodeIDs())
}

func TestLayerEventQueueCapacity(t *testing.T) {
	t.Parallel()

	w := newWalkLayer(t, 0)
	w.layer = NewLayer(WithEventQueueCapacity(2))
	w.idle = playState(w.layer, "Idle", w.anims.Add(holdAnimation("Idle", 0)))
	w.walk = playState(w.layer, "Walk", w.anims.Add(holdAnimation("Walk", 10)))
	w.layer.AddTransition(NewTransition("IdleToWalk", w.idle, w.walk, 1, "walk"))
	w.layer.SetEntryState(w.idle)
	w.params.SetRule("walk", true)

	w.eval(t, 0.1)
	assert.Equal(t, 2, w.layer.EventCount(), "pushes beyond capacity are dropped")
}

func TestLayerRemoveActiveTransition(t *testing.T) {
	t.Parallel()

	w := newWalkLayer(t, 1)
	w.params.SetRule("walk", true)
	w.eval(t, 0.1)

	_, ok := w.layer.RemoveTransition(w.toWalk)
	require.True(t, ok)
	assert.True(t, w.layer.ActiveTransition().IsNone())
	assert.Len(t, w.layer.Transitions(), 1)
	assert.Equal(t, float32(0), w.eval(t, 0.1))
}

func TestCollectAnimationEvents(t *testing.T) {
	t.Parallel()

	anims := animation.NewContainer()
	step := animation.NewSignal("Step", 0.5)
	idleAnim := anims.Add(holdAnimation("Idle", 0, animation.WithSignals(step)))
	walkAnim := anims.Add(holdAnimation("Walk", 10, animation.WithSignals(step)))

	l := NewLayer()
	idle := playState(l, "Idle", idleAnim)
	walk := playState(l, "Walk", walkAnim)
	l.AddTransition(NewTransition("IdleToWalk", idle, walk, 1, "walk"))
	l.SetEntryState(idle)

	params := NewParameterContainer()
	anims.UpdateAnimations(0.6)
	l.Evaluate(anims, params, 0.6)

	events := l.CollectAnimationEvents(anims, params, CollectAll)
	require.Len(t, events, 1, "only the active state's animation contributes")
	assert.Equal(t, idleAnim, events[0].Animation)
	assert.Equal(t, "Step", events[0].Event.Name)
	assert.Equal(t, float32(1), events[0].Weight)

	params.SetRule("walk", true)
	l.Evaluate(anims, params, 0.25)
	l.Evaluate(anims, params, 0.25)

	all := l.CollectAnimationEvents(anims, params, CollectAll)
	require.Len(t, all, 2)
	assert.Equal(t, idleAnim, all[0].Animation)
	assert.InDelta(t, 0.75, all[0].Weight, 1e-6)
	assert.Equal(t, walkAnim, all[1].Animation)
	assert.InDelta(t, 0.25, all[1].Weight, 1e-6)

	maxWeight := l.CollectAnimationEvents(anims, params, CollectMaxWeight)
	require.Len(t, maxWeight, 1)
	assert.Equal(t, idleAnim, maxWeight[0].Animation)

	minWeight := l.CollectAnimationEvents(anims, params, CollectMinWeight)
	require.Len(t, minWeight, 1)
	assert.Equal(t, walkAnim, minWeight[0].Animation)

	assert.Len(t, l.CollectAnimationEvents(anims, params, CollectAll), 2, "collection does not drain")
}
