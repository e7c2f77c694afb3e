package animator

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/machine"
)

// machineAnimatorBackendImpl ticks the animation container and evaluates a state machine over it.
type machineAnimatorBackendImpl struct {
	baseAnimatorBackend
	machine machine.Machine
}

var _ AnimatorBackend = &machineAnimatorBackendImpl{}

func newMachineAnimatorBackend() AnimatorBackend {
	return &machineAnimatorBackendImpl{
		baseAnimatorBackend: newBaseAnimatorBackend(),
		machine:             machine.NewMachine(),
	}
}

func (m *machineAnimatorBackendImpl) Update(dt float32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.animations.ClearEvents()
	m.animations.UpdateAnimations(dt)
	m.output = m.machine.Evaluate(m.animations, dt)

	m.events = m.events[:0]
	params := m.machine.Parameters()
	for i, l := range m.machine.Layers() {
		for _, e := range l.CollectAnimationEvents(m.animations, params, m.strategy) {
			m.events = append(m.events, EventRecord{Layer: i, Animation: e.Animation, Weight: e.Weight, Event: e.Event})
		}
	}
}

func (m *machineAnimatorBackendImpl) Machine() machine.Machine {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.machine
}

func (m *machineAnimatorBackendImpl) SetMachine(mc machine.Machine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mc == nil {
		mc = machine.NewMachine()
	}
	m.machine = mc
}

func (m *machineAnimatorBackendImpl) SetParameter(name string, p machine.Parameter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.machine.SetParameter(name, p)
}

func (m *machineAnimatorBackendImpl) PlayAnimation(_ animation.Handle, _ animation.LoopMode) {}

func (m *machineAnimatorBackendImpl) BlendToAnimation(_ animation.Handle, _ float32) {}

func (m *machineAnimatorBackendImpl) SetAnimationTime(_ animation.Handle, _ float32) {}

func (m *machineAnimatorBackendImpl) SetAnimationSpeed(_ animation.Handle, _ float32) {}

func (m *machineAnimatorBackendImpl) IsBlending() bool {
	return false
}

func (m *machineAnimatorBackendImpl) BlendProgress() float32 {
	return 0
}

func (m *machineAnimatorBackendImpl) CancelBlend() {}
