package machine

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
)

// Machine owns the parameters and the layers of an animation state machine and blends the layer
// outputs into a single pose.
type Machine interface {
	// Parameters returns the parameter container read during evaluation.
	//
	// Returns:
	//   - *ParameterContainer: the machine parameters
	Parameters() *ParameterContainer

	// SetParameter stores a parameter value.
	//
	// Parameters:
	//   - name: the parameter name
	//   - p: the value
	SetParameter(name string, p Parameter)

	// AddLayer appends a layer and returns its index.
	AddLayer(l *Layer) int

	// Layer returns the layer at index i.
	Layer(i int) (*Layer, bool)

	// FindLayer returns the first layer with the given name and its index.
	FindLayer(name string) (*Layer, int, bool)

	// Layers returns the layers in evaluation order.
	Layers() []*Layer

	// Evaluate advances every layer by dt and blends their outputs by layer weight.
	// Layers with a weight <= 0 are still advanced but do not contribute.
	//
	// Parameters:
	//   - animations: the animations the layers play
	//   - dt: elapsed time in seconds
	//
	// Returns:
	//   - *pose.AnimationPose: the final pose, owned by the machine
	Evaluate(animations *animation.Container, dt float32) *pose.AnimationPose

	// Pose returns the result of the last evaluation.
	Pose() *pose.AnimationPose

	// Reset returns every layer to its entry state.
	Reset()
}

type machine struct {
	params *ParameterContainer
	layers []*Layer
	output *pose.AnimationPose
}

var _ Machine = &machine{}

// NewMachine creates a machine.
//
// Parameters:
//   - options: functional options to configure the machine
//
// Returns:
//   - Machine: the new machine
func NewMachine(options ...MachineBuilderOption) Machine {
	m := &machine{
		params: NewParameterContainer(),
		output: pose.NewAnimationPose(),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *machine) Parameters() *ParameterContainer {
	return m.params
}

func (m *machine) SetParameter(name string, p Parameter) {
	m.params.Set(name, p)
}

func (m *machine) AddLayer(l *Layer) int {
	m.layers = append(m.layers, l)
	return len(m.layers) - 1
}

func (m *machine) Layer(i int) (*Layer, bool) {
	if i < 0 || i >= len(m.layers) {
		return nil, false
	}
	return m.layers[i], true
}

func (m *machine) FindLayer(name string) (*Layer, int, bool) {
	for i, l := range m.layers {
		if l.Name() == name {
			return l, i, true
		}
	}
	return nil, -1, false
}

func (m *machine) Layers() []*Layer {
	return append([]*Layer(nil), m.layers...)
}

func (m *machine) Evaluate(animations *animation.Container, dt float32) *pose.AnimationPose {
	m.output.Reset()
	for _, l := range m.layers {
		out := l.Evaluate(animations, m.params, dt)
		if l.Weight() > 0 {
			m.output.BlendWith(out, l.Weight())
		}
	}
	return m.output
}

func (m *machine) Pose() *pose.AnimationPose {
	return m.output
}

func (m *machine) Reset() {
	for _, l := range m.layers {
		l.Reset()
	}
}
