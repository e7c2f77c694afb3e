package definition

import (
	"fmt"
	"os"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/machine"
	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Pose node kinds of a NodeDocument.
const (
	NodeKindPlay         = "play"
	NodeKindBlend        = "blend"
	NodeKindBlendByIndex = "blend_by_index"
	NodeKindBlendSpace   = "blend_space"
)

// MachineDocument is the YAML form of a state machine.
type MachineDocument struct {
	Parameters []ParameterDocument `yaml:"parameters,omitempty"`
	Layers     []LayerDocument     `yaml:"layers"`
}

// ParameterDocument is a named parameter with its initial value.
type ParameterDocument struct {
	Name          string                `yaml:"name"`
	Kind          machine.ParameterKind `yaml:"kind"`
	Weight        float32               `yaml:"weight,omitempty"`
	Rule          bool                  `yaml:"rule,omitempty"`
	Index         uint32                `yaml:"index,omitempty"`
	SamplingPoint *mgl32.Vec2           `yaml:"sampling_point,omitempty,flow"`
}

func (p ParameterDocument) parameter() machine.Parameter {
	out := machine.Parameter{Kind: p.Kind, Weight: p.Weight, Rule: p.Rule, Index: p.Index}
	if p.SamplingPoint != nil {
		out.SamplingPoint = *p.SamplingPoint
	}
	return out
}

func parameterDocument(name string, p machine.Parameter) ParameterDocument {
	doc := ParameterDocument{Name: name, Kind: p.Kind, Weight: p.Weight, Rule: p.Rule, Index: p.Index}
	if p.Kind == machine.ParameterKindSamplingPoint {
		sp := p.SamplingPoint
		doc.SamplingPoint = &sp
	}
	return doc
}

// LayerDocument is one layer: its pose graph, states and transitions.
type LayerDocument struct {
	Name        string               `yaml:"name"`
	Weight      *float32             `yaml:"weight,omitempty"`
	Mask        []pose.NodeID        `yaml:"mask,omitempty,flow"`
	Nodes       []NodeDocument       `yaml:"nodes"`
	States      []StateDocument      `yaml:"states"`
	Transitions []TransitionDocument `yaml:"transitions,omitempty"`
	Entry       string               `yaml:"entry,omitempty"`
}

// NodeDocument is a pose node keyed by an id unique within its layer. SamplingParameter and the
// sampling plane bounds apply to blend_space nodes; unset bounds keep the node defaults.
type NodeDocument struct {
	ID                string          `yaml:"id"`
	Kind              string          `yaml:"kind"`
	Animation         string          `yaml:"animation,omitempty"`
	IndexParameter    string          `yaml:"index_parameter,omitempty"`
	SamplingParameter string          `yaml:"sampling_parameter,omitempty"`
	MinValues         *mgl32.Vec2     `yaml:"min_values,omitempty,flow"`
	MaxValues         *mgl32.Vec2     `yaml:"max_values,omitempty,flow"`
	SnapStep          *mgl32.Vec2     `yaml:"snap_step,omitempty,flow"`
	Inputs            []InputDocument `yaml:"inputs,omitempty"`
}

// InputDocument is an input of a blend node. Weight and Parameter apply to blend nodes,
// BlendTime to blend_by_index nodes and Position to blend_space nodes.
type InputDocument struct {
	Source    string      `yaml:"source"`
	Weight    float32     `yaml:"weight,omitempty"`
	Parameter string      `yaml:"parameter,omitempty"`
	BlendTime *float32    `yaml:"blend_time,omitempty"`
	Position  *mgl32.Vec2 `yaml:"position,omitempty,flow"`
}

// StateDocument is a state rooted at a pose node.
type StateDocument struct {
	Name    string           `yaml:"name"`
	Root    string           `yaml:"root"`
	OnEnter []ActionDocument `yaml:"on_enter,omitempty"`
	OnLeave []ActionDocument `yaml:"on_leave,omitempty"`
}

// ActionDocument is a state action on a named animation.
type ActionDocument struct {
	Kind      machine.StateActionKind `yaml:"kind"`
	Animation string                  `yaml:"animation"`
}

// TransitionDocument is a transition between two named states.
type TransitionDocument struct {
	Name      string         `yaml:"name"`
	Source    string         `yaml:"source"`
	Dest      string         `yaml:"dest"`
	Duration  float32        `yaml:"duration"`
	Condition *LogicDocument `yaml:"condition,omitempty"`
}

// LogicDocument is a transition condition. Exactly one field is set. And and Or fold any number
// of operands from left to right; Xor takes exactly two.
type LogicDocument struct {
	Rule           string          `yaml:"rule,omitempty"`
	And            []LogicDocument `yaml:"and,omitempty"`
	Or             []LogicDocument `yaml:"or,omitempty"`
	Xor            []LogicDocument `yaml:"xor,omitempty"`
	Not            *LogicDocument  `yaml:"not,omitempty"`
	AnimationEnded string          `yaml:"animation_ended,omitempty"`
}

// DecodeMachine parses a YAML machine document.
func DecodeMachine(data []byte) (MachineDocument, error) {
	var doc MachineDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return MachineDocument{}, errors.Wrap(err, "decode machine")
	}
	return doc, nil
}

// EncodeMachine renders a machine document as YAML.
func EncodeMachine(doc MachineDocument) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "encode machine")
	}
	return data, nil
}

// LoadMachine reads a machine document and builds it against the given animations.
//
// Parameters:
//   - path: the file path
//   - animations: the container animation names are resolved against
//   - options: build settings
//
// Returns:
//   - machine.Machine: the machine
//   - error: read, decode or build errors, wrapped with the path
func LoadMachine(path string, animations *animation.Container, options ...BuildOption) (machine.Machine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read machine %s", path)
	}
	doc, err := DecodeMachine(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	m, err := doc.Build(animations, options...)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return m, nil
}

// Build creates a runtime machine from the document. Animation names resolve against animations.
//
// Parameters:
//   - animations: the animation container
//   - options: build settings, such as WithConfig
//
// Returns:
//   - machine.Machine: the machine
//   - error: ErrUnknownAnimation, ErrUnknownNode, ErrUnknownState, ErrInvalidDocument or
//     machine.ErrPoseGraphCycle, wrapped with the offending layer
func (d MachineDocument) Build(animations *animation.Container, options ...BuildOption) (machine.Machine, error) {
	s := newBuildSettings(options...)
	if animations == nil {
		animations = animation.NewContainer()
	}

	params := machine.NewParameterContainer()
	for _, p := range d.Parameters {
		params.Set(p.Name, p.parameter())
	}

	m := machine.NewMachine(machine.WithParameters(params))
	for i, ld := range d.Layers {
		l, err := ld.build(animations, s)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d %q", i, ld.Name)
		}
		m.AddLayer(l)
	}
	return m, nil
}

func resolveAnimation(animations *animation.Container, name string) (animation.Handle, error) {
	h, _, ok := animations.FindByName(name)
	if !ok {
		return animation.Handle{}, errors.Wrapf(ErrUnknownAnimation, "%q", name)
	}
	return h, nil
}

func (ld LayerDocument) build(animations *animation.Container, s buildSettings) (*machine.Layer, error) {
	if err := ld.checkAcyclic(); err != nil {
		return nil, err
	}

	opts := []machine.LayerBuilderOption{
		machine.WithLayerName(ld.Name),
		machine.WithLayerMask(machine.NewLayerMask(ld.Mask...)),
		machine.WithEventQueueCapacity(s.eventQueueCapacity),
		machine.WithDebug(s.debug),
	}
	if ld.Weight != nil {
		opts = append(opts, machine.WithLayerWeight(*ld.Weight))
	}
	l := machine.NewLayer(opts...)

	// Nodes first, edges second, so inputs may reference nodes declared later.
	nodes := make(map[string]machine.NodeHandle, len(ld.Nodes))
	for _, nd := range ld.Nodes {
		if _, dup := nodes[nd.ID]; dup || nd.ID == "" {
			return nil, errors.Wrapf(ErrInvalidDocument, "node id %q is empty or duplicated", nd.ID)
		}
		var n machine.PoseNode
		switch nd.Kind {
		case NodeKindPlay:
			h, err := resolveAnimation(animations, nd.Animation)
			if err != nil {
				return nil, errors.Wrapf(err, "node %q", nd.ID)
			}
			n = machine.NewPlayAnimation(h)
		case NodeKindBlend:
			n = machine.NewBlendAnimations()
		case NodeKindBlendByIndex:
			n = machine.NewBlendAnimationsByIndex(nd.IndexParameter)
		case NodeKindBlendSpace:
			space := machine.NewBlendSpace(nd.SamplingParameter)
			if nd.MinValues != nil {
				space.SetMinValues(*nd.MinValues)
			}
			if nd.MaxValues != nil {
				space.SetMaxValues(*nd.MaxValues)
			}
			if nd.SnapStep != nil {
				space.SetSnapStep(*nd.SnapStep)
			}
			n = space
		default:
			return nil, errors.Wrapf(ErrInvalidDocument, "node %q has unknown kind %q", nd.ID, nd.Kind)
		}
		nodes[nd.ID] = l.AddNode(n)
	}

	for _, nd := range ld.Nodes {
		parent := nodes[nd.ID]
		for _, in := range nd.Inputs {
			source, ok := nodes[in.Source]
			if !ok {
				return nil, errors.Wrapf(ErrUnknownNode, "input %q of node %q", in.Source, nd.ID)
			}
			var err error
			switch nd.Kind {
			case NodeKindBlend:
				w := machine.ConstantWeight(in.Weight)
				if in.Parameter != "" {
					w = machine.ParameterWeight(in.Parameter)
				}
				err = l.ConnectBlendInput(parent, machine.BlendPose{Weight: w, Source: source})
			case NodeKindBlendByIndex:
				blendTime := s.defaultBlendTime
				if in.BlendTime != nil {
					blendTime = *in.BlendTime
				}
				err = l.ConnectIndexedInput(parent, machine.IndexedBlendInput{BlendTime: blendTime, Source: source})
			case NodeKindBlendSpace:
				var position mgl32.Vec2
				if in.Position != nil {
					position = *in.Position
				}
				err = l.ConnectBlendSpacePoint(parent, machine.BlendSpacePoint{Position: position, Source: source})
			default:
				err = errors.Wrapf(ErrInvalidDocument, "%s node %q takes no inputs", nd.Kind, nd.ID)
			}
			if err != nil {
				return nil, err
			}
		}
	}

	states := make(map[string]machine.StateHandle, len(ld.States))
	for _, sd := range ld.States {
		if _, dup := states[sd.Name]; dup {
			return nil, errors.Wrapf(ErrInvalidDocument, "duplicate state %q", sd.Name)
		}
		root, ok := nodes[sd.Root]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownNode, "root %q of state %q", sd.Root, sd.Name)
		}
		state := machine.NewState(sd.Name, root)
		var err error
		if state.OnEnter, err = buildActions(animations, sd.OnEnter); err != nil {
			return nil, errors.Wrapf(err, "state %q", sd.Name)
		}
		if state.OnLeave, err = buildActions(animations, sd.OnLeave); err != nil {
			return nil, errors.Wrapf(err, "state %q", sd.Name)
		}
		states[sd.Name] = l.AddState(state)
	}

	for _, td := range ld.Transitions {
		src, ok := states[td.Source]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownState, "source %q of transition %q", td.Source, td.Name)
		}
		dst, ok := states[td.Dest]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownState, "dest %q of transition %q", td.Dest, td.Name)
		}
		t := &machine.Transition{Name: td.Name, Source: src, Dest: dst, Duration: td.Duration}
		if td.Condition != nil {
			cond, err := td.Condition.build(animations)
			if err != nil {
				return nil, errors.Wrapf(err, "transition %q", td.Name)
			}
			t.Condition = cond
		}
		l.AddTransition(t)
	}

	if ld.Entry != "" {
		entry, ok := states[ld.Entry]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownState, "entry %q", ld.Entry)
		}
		l.SetEntryState(entry)
	}
	return l, nil
}

// checkAcyclic rejects documents whose node inputs form a cycle, naming the node that closes it.
func (ld LayerDocument) checkAcyclic() error {
	const (
		white = iota
		grey
		black
	)
	inputs := make(map[string][]string, len(ld.Nodes))
	for _, nd := range ld.Nodes {
		for _, in := range nd.Inputs {
			inputs[nd.ID] = append(inputs[nd.ID], in.Source)
		}
	}
	colour := make(map[string]int, len(ld.Nodes))

	var visit func(id string) error
	visit = func(id string) error {
		switch colour[id] {
		case grey:
			return errors.Wrapf(machine.ErrPoseGraphCycle, "node %q", id)
		case black:
			return nil
		}
		colour[id] = grey
		for _, src := range inputs[id] {
			if err := visit(src); err != nil {
				return err
			}
		}
		colour[id] = black
		return nil
	}
	for _, nd := range ld.Nodes {
		if err := visit(nd.ID); err != nil {
			return err
		}
	}
	return nil
}

func buildActions(animations *animation.Container, docs []ActionDocument) ([]machine.StateAction, error) {
	var out []machine.StateAction
	for _, ad := range docs {
		h, err := resolveAnimation(animations, ad.Animation)
		if err != nil {
			return nil, errors.Wrapf(err, "%s action", ad.Kind)
		}
		out = append(out, machine.StateAction{Kind: ad.Kind, Animation: h})
	}
	return out, nil
}

func (ld *LogicDocument) build(animations *animation.Container) (machine.LogicNode, error) {
	fold := func(docs []LogicDocument, join func(lhs, rhs machine.LogicNode) machine.LogicNode) (machine.LogicNode, error) {
		if len(docs) == 0 {
			return nil, errors.Wrap(ErrInvalidDocument, "empty operand list")
		}
		var acc machine.LogicNode
		for i := range docs {
			n, err := docs[i].build(animations)
			if err != nil {
				return nil, err
			}
			if acc == nil {
				acc = n
				continue
			}
			acc = join(acc, n)
		}
		return acc, nil
	}

	switch {
	case ld.Rule != "":
		return machine.Rule(ld.Rule), nil
	case len(ld.And) > 0:
		return fold(ld.And, machine.And)
	case len(ld.Or) > 0:
		return fold(ld.Or, machine.Or)
	case len(ld.Xor) > 0:
		if len(ld.Xor) != 2 {
			return nil, errors.Wrapf(ErrInvalidDocument, "xor takes 2 operands, got %d", len(ld.Xor))
		}
		return fold(ld.Xor, machine.Xor)
	case ld.Not != nil:
		n, err := ld.Not.build(animations)
		if err != nil {
			return nil, err
		}
		return machine.Not(n), nil
	case ld.AnimationEnded != "":
		h, err := resolveAnimation(animations, ld.AnimationEnded)
		if err != nil {
			return nil, err
		}
		return machine.AnimationEnded(h), nil
	}
	return nil, errors.Wrap(ErrInvalidDocument, "empty condition")
}

// FromMachine captures the definition of a runtime machine. Node ids are generated from the node
// handles and animations are referenced by name.
//
// Parameters:
//   - m: the machine
//   - animations: the container the machine plays
//
// Returns:
//   - MachineDocument: the document
//   - error: ErrInvalidDocument if a condition or node cannot be expressed
func FromMachine(m machine.Machine, animations *animation.Container) (MachineDocument, error) {
	var doc MachineDocument
	params := m.Parameters()
	for _, name := range params.Names() {
		p, _ := params.Get(name)
		doc.Parameters = append(doc.Parameters, parameterDocument(name, p))
	}

	animName := func(h animation.Handle) string {
		if a, ok := animations.Get(h); ok {
			return a.Name()
		}
		return ""
	}

	for _, l := range m.Layers() {
		weight := l.Weight()
		ld := LayerDocument{Name: l.Name(), Weight: &weight, Mask: l.Mask().Inner()}

		nodeID := func(h machine.NodeHandle) string {
			return fmt.Sprintf("node%d_%d", h.Index, h.Generation)
		}
		for _, h := range l.Nodes() {
			n, _ := l.Node(h)
			nd := NodeDocument{ID: nodeID(h)}
			switch node := n.(type) {
			case *machine.PlayAnimation:
				nd.Kind = NodeKindPlay
				nd.Animation = animName(node.Animation())
			case *machine.BlendAnimations:
				nd.Kind = NodeKindBlend
				for _, in := range node.Inputs() {
					nd.Inputs = append(nd.Inputs, InputDocument{Source: nodeID(in.Source), Weight: in.Weight.Constant, Parameter: in.Weight.Parameter})
				}
			case *machine.BlendAnimationsByIndex:
				nd.Kind = NodeKindBlendByIndex
				nd.IndexParameter = node.IndexParameter()
				for _, in := range node.Inputs() {
					blendTime := in.BlendTime
					nd.Inputs = append(nd.Inputs, InputDocument{Source: nodeID(in.Source), BlendTime: &blendTime})
				}
			case *machine.BlendSpace:
				nd.Kind = NodeKindBlendSpace
				nd.SamplingParameter = node.SamplingParameter()
				minValues, maxValues, snapStep := node.MinValues(), node.MaxValues(), node.SnapStep()
				nd.MinValues, nd.MaxValues, nd.SnapStep = &minValues, &maxValues, &snapStep
				for _, p := range node.Points() {
					position := p.Position
					nd.Inputs = append(nd.Inputs, InputDocument{Source: nodeID(p.Source), Position: &position})
				}
			default:
				return MachineDocument{}, errors.Wrapf(ErrInvalidDocument, "unsupported node %T", n)
			}
			ld.Nodes = append(ld.Nodes, nd)
		}

		stateNames := make(map[machine.StateHandle]string)
		for _, h := range l.States() {
			s, _ := l.State(h)
			stateNames[h] = s.Name
			sd := StateDocument{Name: s.Name, Root: nodeID(s.Root)}
			for _, a := range s.OnEnter {
				sd.OnEnter = append(sd.OnEnter, ActionDocument{Kind: a.Kind, Animation: animName(a.Animation)})
			}
			for _, a := range s.OnLeave {
				sd.OnLeave = append(sd.OnLeave, ActionDocument{Kind: a.Kind, Animation: animName(a.Animation)})
			}
			ld.States = append(ld.States, sd)
		}
		for _, h := range l.Transitions() {
			t, _ := l.Transition(h)
			td := TransitionDocument{Name: t.Name, Source: stateNames[t.Source], Dest: stateNames[t.Dest], Duration: t.Duration}
			if t.Condition != nil {
				cond, err := logicToDocument(t.Condition, animName)
				if err != nil {
					return MachineDocument{}, errors.Wrapf(err, "transition %q", t.Name)
				}
				td.Condition = &cond
			}
			ld.Transitions = append(ld.Transitions, td)
		}
		ld.Entry = stateNames[l.EntryState()]
		doc.Layers = append(doc.Layers, ld)
	}
	return doc, nil
}

func logicToDocument(n machine.LogicNode, animName func(animation.Handle) string) (LogicDocument, error) {
	pair := func(lhs, rhs machine.LogicNode) ([]LogicDocument, error) {
		l, err := logicToDocument(lhs, animName)
		if err != nil {
			return nil, err
		}
		r, err := logicToDocument(rhs, animName)
		if err != nil {
			return nil, err
		}
		return []LogicDocument{l, r}, nil
	}

	var (
		doc LogicDocument
		err error
	)
	switch c := n.(type) {
	case machine.ParameterCondition:
		doc.Rule = c.Rule
	case machine.AndCondition:
		doc.And, err = pair(c.Lhs, c.Rhs)
	case machine.OrCondition:
		doc.Or, err = pair(c.Lhs, c.Rhs)
	case machine.XorCondition:
		doc.Xor, err = pair(c.Lhs, c.Rhs)
	case machine.NotCondition:
		var inner LogicDocument
		inner, err = logicToDocument(c.Operand, animName)
		doc.Not = &inner
	case machine.AnimationEndedCondition:
		doc.AnimationEnded = animName(c.Animation)
	default:
		err = errors.Wrapf(ErrInvalidDocument, "unsupported condition %T", n)
	}
	return doc, err
}
