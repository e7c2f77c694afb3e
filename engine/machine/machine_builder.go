package machine

// MachineBuilderOption is a functional option for configuring a Machine during construction.
type MachineBuilderOption func(*machine)

// WithLayers appends layers to the machine.
//
// Parameters:
//   - layers: the layers, evaluated in order
//
// Returns:
//   - MachineBuilderOption: option function to apply
func WithLayers(layers ...*Layer) MachineBuilderOption {
	return func(m *machine) {
		m.layers = append(m.layers, layers...)
	}
}

// WithParameters replaces the machine's parameter container.
//
// Parameters:
//   - params: the parameters to read during evaluation
//
// Returns:
//   - MachineBuilderOption: option function to apply
func WithParameters(params *ParameterContainer) MachineBuilderOption {
	return func(m *machine) {
		if params != nil {
			m.params = params
		}
	}
}
