package pose

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// NodeID is an opaque identifier of a skeleton node. The engine never interprets it beyond
// equality and ordering.
type NodeID uint32

// --- Bindings ---

// Binding names the local transform component a value drives.
type Binding int

const (
	// BindingPosition drives the local translation of a node.
	BindingPosition Binding = iota

	// BindingRotation drives the local rotation of a node.
	BindingRotation

	// BindingScale drives the local scale of a node.
	BindingScale

	bindingCount
)

var bindingNames = [bindingCount]string{"position", "rotation", "scale"}

func (b Binding) String() string {
	if b < 0 || b >= bindingCount {
		return fmt.Sprintf("binding(%d)", int(b))
	}
	return bindingNames[b]
}

// IsVector reports whether the binding carries a vector value.
func (b Binding) IsVector() bool {
	return b == BindingPosition || b == BindingScale
}

// MarshalText implements encoding.TextMarshaler.
func (b Binding) MarshalText() ([]byte, error) {
	if b < 0 || b >= bindingCount {
		return nil, errors.Errorf("unknown binding %d", int(b))
	}
	return []byte(bindingNames[b]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Binding) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for i, n := range bindingNames {
		if n == name {
			*b = Binding(i)
			return nil
		}
	}
	return errors.Errorf("unknown binding %q", string(text))
}

// BindingMask is a set of bindings.
type BindingMask uint8

// Has reports whether b is in the set.
func (m BindingMask) Has(b Binding) bool {
	return m&(1<<b) != 0
}

func (m BindingMask) with(b Binding) BindingMask {
	return m | 1<<b
}

// --- Node pose ---

// NodePose is the local transform of one node. Only the components flagged in Bindings are
// meaningful; the others keep their zero value and are never applied.
type NodePose struct {
	// Position is the local translation.
	Position mgl32.Vec3

	// Rotation is the local orientation.
	Rotation mgl32.Quat

	// Scale is the local scale.
	Scale mgl32.Vec3

	// Bindings flags the components that carry a value.
	Bindings BindingMask

	// weights holds the accumulated blend weight per binding.
	weights [bindingCount]float32
}

// Has reports whether the pose defines the given component.
func (n NodePose) Has(b Binding) bool {
	return n.Bindings.Has(b)
}

// ScaleOrDefault returns the scale if defined, otherwise a unit scale.
func (n NodePose) ScaleOrDefault() mgl32.Vec3 {
	if n.Has(BindingScale) {
		return n.Scale
	}
	return mgl32.Vec3{1, 1, 1}
}

// --- Root motion ---

// RootMotion is the motion of the root node since the previous tick, in the node's local space.
// Applying it to an entity moves it through the world instead of in place.
type RootMotion struct {
	// DeltaPosition is the translation since the previous tick.
	DeltaPosition mgl32.Vec3

	// DeltaRotation is the rotation since the previous tick.
	DeltaRotation mgl32.Quat
}

// NewRootMotion returns a root motion with no movement.
func NewRootMotion() RootMotion {
	return RootMotion{DeltaRotation: mgl32.QuatIdent()}
}
