package machine

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-anim/common/logger"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/pool"
	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
	"github.com/pkg/errors"
)

// Layer is a state machine over a pose graph. Each state outputs the pose of its root node and
// transitions blend between the poses of two states over time.
type Layer struct {
	name   string
	weight float32
	mask   LayerMask
	debug  bool

	nodes           *pool.Pool[PoseNode]
	states          *pool.Pool[*State]
	transitions     *pool.Pool[*Transition]
	transitionOrder []TransitionHandle

	entryState       StateHandle
	activeState      StateHandle
	activeTransition TransitionHandle

	// contribution of the last evaluation, read when collecting animation events
	lastSource StateHandle
	lastDest   StateHandle
	lastFactor float32

	events *EventQueue
	output *pose.AnimationPose
	pass   uint64
}

// NewLayer creates an empty layer.
//
// Parameters:
//   - options: functional options to configure the layer
//
// Returns:
//   - *Layer: the new layer
func NewLayer(options ...LayerBuilderOption) *Layer {
	l := &Layer{
		weight:      1,
		nodes:       pool.New[PoseNode](),
		states:      pool.New[*State](),
		transitions: pool.New[*Transition](),
		events:      NewEventQueue(DefaultEventQueueCapacity),
		output:      pose.NewAnimationPose(),
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *Layer) Name() string {
	return l.name
}

func (l *Layer) SetName(name string) {
	l.name = name
}

func (l *Layer) Weight() float32 {
	return l.weight
}

func (l *Layer) SetWeight(weight float32) {
	l.weight = weight
}

// Mask returns the layer mask for in-place edits.
func (l *Layer) Mask() *LayerMask {
	return &l.mask
}

func (l *Layer) SetMask(mask LayerMask) {
	l.mask = mask.Clone()
}

func (l *Layer) Debug() bool {
	return l.debug
}

func (l *Layer) SetDebug(debug bool) {
	l.debug = debug
}

// AddNode stores a pose node. The inputs of n may reference any existing node; nothing can
// reference n yet, so adding never creates a cycle.
//
// Parameters:
//   - n: the node to add
//
// Returns:
//   - NodeHandle: the handle of the node
func (l *Layer) AddNode(n PoseNode) NodeHandle {
	return l.nodes.Spawn(n)
}

// Node returns a pose node by handle.
func (l *Layer) Node(h NodeHandle) (PoseNode, bool) {
	return l.nodes.Get(h)
}

// RemoveNode removes a pose node. Inputs still pointing at it stop contributing.
func (l *Layer) RemoveNode(h NodeHandle) (PoseNode, bool) {
	return l.nodes.Free(h)
}

// Nodes returns the handles of every pose node.
func (l *Layer) Nodes() []NodeHandle {
	return l.nodes.Handles()
}

// reaches reports whether to can be reached from from by following node inputs.
func (l *Layer) reaches(from, to NodeHandle) bool {
	seen := make(map[NodeHandle]struct{})
	stack := []NodeHandle{from}
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if h == to {
			return true
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		n, ok := l.nodes.Get(h)
		if !ok || n == nil {
			continue
		}
		stack = append(stack, n.Children()...)
	}
	return false
}

// checkEdge validates a parent -> source input edge.
func (l *Layer) checkEdge(parent, source NodeHandle) error {
	if parent == source || l.reaches(source, parent) {
		return errors.Wrapf(ErrPoseGraphCycle, "connect %s -> %s", parent, source)
	}
	return nil
}

func (l *Layer) blendNode(h NodeHandle) (*BlendAnimations, error) {
	n, ok := l.nodes.Get(h)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidNode, "node %s", h)
	}
	b, ok := n.(*BlendAnimations)
	if !ok {
		return nil, errors.Wrapf(ErrNodeKind, "node %s is %T, want blend", h, n)
	}
	return b, nil
}

func (l *Layer) indexNode(h NodeHandle) (*BlendAnimationsByIndex, error) {
	n, ok := l.nodes.Get(h)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidNode, "node %s", h)
	}
	b, ok := n.(*BlendAnimationsByIndex)
	if !ok {
		return nil, errors.Wrapf(ErrNodeKind, "node %s is %T, want blend by index", h, n)
	}
	return b, nil
}

func (l *Layer) blendSpaceNode(h NodeHandle) (*BlendSpace, error) {
	n, ok := l.nodes.Get(h)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidNode, "node %s", h)
	}
	b, ok := n.(*BlendSpace)
	if !ok {
		return nil, errors.Wrapf(ErrNodeKind, "node %s is %T, want blend space", h, n)
	}
	return b, nil
}

// ConnectBlendInput appends a weighted input to a BlendAnimations node.
//
// Parameters:
//   - blend: the BlendAnimations node
//   - input: the input to append
//
// Returns:
//   - error: ErrPoseGraphCycle if the edge would close a cycle, ErrInvalidNode or ErrNodeKind
//     for a bad target; the graph is unchanged on error
func (l *Layer) ConnectBlendInput(blend NodeHandle, input BlendPose) error {
	b, err := l.blendNode(blend)
	if err != nil {
		return err
	}
	if err := l.checkEdge(blend, input.Source); err != nil {
		return err
	}
	b.inputs = append(b.inputs, input)
	return nil
}

// SetBlendInputSource rewires one input of a BlendAnimations node.
//
// Parameters:
//   - blend: the BlendAnimations node
//   - index: the input index
//   - source: the new input node
//
// Returns:
//   - error: ErrPoseGraphCycle, ErrInputIndex, ErrInvalidNode or ErrNodeKind; the graph is
//     unchanged on error
func (l *Layer) SetBlendInputSource(blend NodeHandle, index int, source NodeHandle) error {
	b, err := l.blendNode(blend)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(b.inputs) {
		return errors.Wrapf(ErrInputIndex, "input %d of %d", index, len(b.inputs))
	}
	if err := l.checkEdge(blend, source); err != nil {
		return err
	}
	b.inputs[index].Source = source
	return nil
}

// ConnectIndexedInput appends a selectable input to a BlendAnimationsByIndex node.
//
// Parameters:
//   - node: the BlendAnimationsByIndex node
//   - input: the input to append
//
// Returns:
//   - error: ErrPoseGraphCycle, ErrInvalidNode or ErrNodeKind; the graph is unchanged on error
func (l *Layer) ConnectIndexedInput(node NodeHandle, input IndexedBlendInput) error {
	b, err := l.indexNode(node)
	if err != nil {
		return err
	}
	if err := l.checkEdge(node, input.Source); err != nil {
		return err
	}
	b.inputs = append(b.inputs, input)
	return nil
}

// SetIndexedInputSource rewires one input of a BlendAnimationsByIndex node.
//
// Parameters:
//   - node: the BlendAnimationsByIndex node
//   - index: the input index
//   - source: the new input node
//
// Returns:
//   - error: ErrPoseGraphCycle, ErrInputIndex, ErrInvalidNode or ErrNodeKind; the graph is
//     unchanged on error
func (l *Layer) SetIndexedInputSource(node NodeHandle, index int, source NodeHandle) error {
	b, err := l.indexNode(node)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(b.inputs) {
		return errors.Wrapf(ErrInputIndex, "input %d of %d", index, len(b.inputs))
	}
	if err := l.checkEdge(node, source); err != nil {
		return err
	}
	b.inputs[index].Source = source
	return nil
}

// ConnectBlendSpacePoint appends a point to a BlendSpace node and triangulates its points again.
//
// Parameters:
//   - node: the BlendSpace node
//   - point: the point to append
//
// Returns:
//   - error: ErrPoseGraphCycle, ErrInvalidNode or ErrNodeKind; the graph is unchanged on error
func (l *Layer) ConnectBlendSpacePoint(node NodeHandle, point BlendSpacePoint) error {
	b, err := l.blendSpaceNode(node)
	if err != nil {
		return err
	}
	if err := l.checkEdge(node, point.Source); err != nil {
		return err
	}
	b.AddPoint(point)
	return nil
}

// SetBlendSpacePointSource rewires the input of one BlendSpace point.
//
// Parameters:
//   - node: the BlendSpace node
//   - index: the point index
//   - source: the new input node
//
// Returns:
//   - error: ErrPoseGraphCycle, ErrInputIndex, ErrInvalidNode or ErrNodeKind; the graph is
//     unchanged on error
func (l *Layer) SetBlendSpacePointSource(node NodeHandle, index int, source NodeHandle) error {
	b, err := l.blendSpaceNode(node)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(b.points) {
		return errors.Wrapf(ErrInputIndex, "point %d of %d", index, len(b.points))
	}
	if err := l.checkEdge(node, source); err != nil {
		return err
	}
	b.points[index].Source = source
	return nil
}

// AddState stores a state.
func (l *Layer) AddState(s *State) StateHandle {
	return l.states.Spawn(s)
}

func (l *Layer) State(h StateHandle) (*State, bool) {
	return l.states.Get(h)
}

// RemoveState removes a state. Removing the active state leaves the layer without one.
func (l *Layer) RemoveState(h StateHandle) (*State, bool) {
	s, ok := l.states.Free(h)
	if !ok {
		return nil, false
	}
	if l.activeState == h {
		l.activeState = StateHandle{}
	}
	if l.entryState == h {
		l.entryState = StateHandle{}
	}
	return s, true
}

// States returns the handles of every state.
func (l *Layer) States() []StateHandle {
	return l.states.Handles()
}

// FindState returns the first state with the given name.
func (l *Layer) FindState(name string) (StateHandle, *State, bool) {
	var (
		found  StateHandle
		result *State
	)
	l.states.Each(func(h StateHandle, s *State) bool {
		if s.Name == name {
			found, result = h, s
			return false
		}
		return true
	})
	return found, result, result != nil
}

// SetStateRoot changes the pose node a state outputs. Returns false for a stale state.
func (l *Layer) SetStateRoot(h StateHandle, root NodeHandle) bool {
	s, ok := l.states.Get(h)
	if !ok {
		return false
	}
	s.Root = root
	return true
}

// AddTransition stores a transition. Transitions are tried in the order they were added.
func (l *Layer) AddTransition(t *Transition) TransitionHandle {
	h := l.transitions.Spawn(t)
	l.transitionOrder = append(l.transitionOrder, h)
	return h
}

func (l *Layer) Transition(h TransitionHandle) (*Transition, bool) {
	return l.transitions.Get(h)
}

// RemoveTransition removes a transition, cancelling it if it is active.
func (l *Layer) RemoveTransition(h TransitionHandle) (*Transition, bool) {
	t, ok := l.transitions.Free(h)
	if !ok {
		return nil, false
	}
	l.transitionOrder = slices.DeleteFunc(l.transitionOrder, func(o TransitionHandle) bool { return o == h })
	if l.activeTransition == h {
		l.activeTransition = TransitionHandle{}
	}
	return t, true
}

// Transitions returns the transition handles in declaration order.
func (l *Layer) Transitions() []TransitionHandle {
	return slices.Clone(l.transitionOrder)
}

// SetEntryState sets the state the layer starts in and makes it active.
func (l *Layer) SetEntryState(h StateHandle) {
	l.entryState = h
	l.activeState = h
}

func (l *Layer) EntryState() StateHandle {
	return l.entryState
}

// ActiveState returns the active state. While a transition blends, this is still its source.
func (l *Layer) ActiveState() StateHandle {
	return l.activeState
}

// ActiveTransition returns the blending transition, or the none handle.
func (l *Layer) ActiveTransition() TransitionHandle {
	return l.activeTransition
}

// Reset returns the layer to its entry state, cancels transitions and drops pending events.
func (l *Layer) Reset() {
	l.activeState = l.entryState
	l.activeTransition = TransitionHandle{}
	l.transitions.Each(func(_ TransitionHandle, t *Transition) bool {
		t.Reset()
		return true
	})
	l.lastSource, l.lastDest, l.lastFactor = StateHandle{}, StateHandle{}, 0
	l.events.Clear()
	l.output.Reset()
}

// Pose returns the output of the last evaluation.
func (l *Layer) Pose() *pose.AnimationPose {
	return l.output
}

// PopEvent removes and returns the oldest machine event.
func (l *Layer) PopEvent() (Event, bool) {
	return l.events.Pop()
}

// EventCount returns the number of pending machine events.
func (l *Layer) EventCount() int {
	return l.events.Len()
}

func (l *Layer) pushEvent(e Event) {
	if !l.events.Push(e) && l.debug {
		logger.Debug("layer event queue full", "layer", l.name, "event", e.Kind)
	}
}

// Evaluate advances the state machine by dt and computes the layer pose.
//
// Parameters:
//   - animations: the animations played by the layer's pose nodes
//   - params: the machine parameters
//   - dt: elapsed time in seconds
//
// Returns:
//   - *pose.AnimationPose: the layer output, owned by the layer
func (l *Layer) Evaluate(animations *animation.Container, params *ParameterContainer, dt float32) *pose.AnimationPose {
	l.pass++
	ctx := &evalContext{nodes: l.nodes, params: params, animations: animations, dt: dt, pass: l.pass}
	l.output.Reset()
	l.lastSource, l.lastDest, l.lastFactor = l.activeState, StateHandle{}, 0

	if !l.transitions.IsValid(l.activeTransition) {
		l.activeTransition = TransitionHandle{}
		l.selectTransition(ctx)
	}

	if t, ok := l.transitions.Get(l.activeTransition); ok {
		l.lastSource, l.lastDest, l.lastFactor = t.Source, t.Dest, t.blendFactor
		if src, ok := l.statePose(ctx, t.Source); ok {
			l.output.BlendWith(src, 1-t.blendFactor)
		}
		if dst, ok := l.statePose(ctx, t.Dest); ok {
			l.output.BlendWith(dst, t.blendFactor)
		}

		t.update(dt)
		if t.IsDone() {
			t.Reset()
			l.activeTransition = TransitionHandle{}
			l.pushEvent(Event{Kind: EventActiveTransitionChanged})
			prev := l.activeState
			l.activeState = t.Dest
			l.pushEvent(Event{Kind: EventActiveStateChanged, State: t.Dest, Prev: prev})
			if l.debug {
				logger.Debug("transition finished", "layer", l.name, "transition", t.Name)
			}
		}
	} else if src, ok := l.statePose(ctx, l.activeState); ok {
		src.CloneInto(l.output)
	}

	l.output.Retain(l.mask.ShouldAnimate)
	return l.output
}

// selectTransition activates the first declared transition leaving the active state whose
// condition holds.
func (l *Layer) selectTransition(ctx *evalContext) {
	if !l.states.IsValid(l.activeState) {
		return
	}
	for _, h := range l.transitionOrder {
		t, ok := l.transitions.Get(h)
		if !ok || t.Source != l.activeState || t.Dest == l.activeState {
			continue
		}
		if !evaluate(t.Condition, ctx.params, ctx.animations) {
			continue
		}
		t.Reset()
		l.activeTransition = h

		if src, ok := l.states.Get(t.Source); ok {
			applyActions(src.OnLeave, ctx.animations)
		}
		l.pushEvent(Event{Kind: EventStateLeave, State: t.Source})
		if dst, ok := l.states.Get(t.Dest); ok {
			applyActions(dst.OnEnter, ctx.animations)
		}
		l.pushEvent(Event{Kind: EventStateEnter, State: t.Dest})
		l.pushEvent(Event{Kind: EventActiveTransitionChanged, Transition: h})
		if l.debug {
			logger.Debug("transition started", "layer", l.name, "transition", t.Name, "source", t.Source, "dest", t.Dest)
		}
		return
	}
}

func (l *Layer) statePose(ctx *evalContext, h StateHandle) (*pose.AnimationPose, bool) {
	s, ok := l.states.Get(h)
	if !ok {
		return nil, false
	}
	return ctx.eval(s.Root)
}

// contributions returns the animations that made up the last evaluation, merged by handle and
// kept in graph order.
func (l *Layer) contributions(params *ParameterContainer, animations *animation.Container) []weightedAnimation {
	ctx := &evalContext{nodes: l.nodes, params: params, animations: animations, pass: l.pass}
	var out []weightedAnimation
	if l.lastDest.IsSome() {
		if s, ok := l.states.Get(l.lastSource); ok {
			ctx.weights(s.Root, 1-l.lastFactor, &out)
		}
		if s, ok := l.states.Get(l.lastDest); ok {
			ctx.weights(s.Root, l.lastFactor, &out)
		}
	} else if s, ok := l.states.Get(l.lastSource); ok {
		ctx.weights(s.Root, 1, &out)
	}

	merged := out[:0]
	for _, wa := range out {
		i := slices.IndexFunc(merged, func(m weightedAnimation) bool { return m.handle == wa.handle })
		if i >= 0 {
			merged[i].weight += wa.weight
			continue
		}
		merged = append(merged, wa)
	}
	return merged
}
