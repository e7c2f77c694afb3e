package machine

// LayerBuilderOption is a functional option for configuring a Layer during construction.
type LayerBuilderOption func(*Layer)

// WithLayerName sets the layer name.
//
// Parameters:
//   - name: the layer name
//
// Returns:
//   - LayerBuilderOption: option function to apply
func WithLayerName(name string) LayerBuilderOption {
	return func(l *Layer) {
		l.name = name
	}
}

// WithLayerWeight sets the weight of the layer when the machine blends its layers.
//
// Parameters:
//   - weight: the layer weight (default 1)
//
// Returns:
//   - LayerBuilderOption: option function to apply
func WithLayerWeight(weight float32) LayerBuilderOption {
	return func(l *Layer) {
		l.weight = weight
	}
}

// WithLayerMask sets the nodes the layer must not animate.
func WithLayerMask(mask LayerMask) LayerBuilderOption {
	return func(l *Layer) {
		l.mask = mask.Clone()
	}
}

// WithEventQueueCapacity bounds the number of pending machine events.
//
// Parameters:
//   - capacity: the bound (default DefaultEventQueueCapacity)
//
// Returns:
//   - LayerBuilderOption: option function to apply
func WithEventQueueCapacity(capacity int) LayerBuilderOption {
	return func(l *Layer) {
		l.events = NewEventQueue(capacity)
	}
}

// WithDebug logs transition activity at debug level.
func WithDebug(debug bool) LayerBuilderOption {
	return func(l *Layer) {
		l.debug = debug
	}
}
