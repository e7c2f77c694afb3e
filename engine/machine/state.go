package machine

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/pool"
	"github.com/pkg/errors"
)

// StateHandle addresses a state inside a layer.
type StateHandle = pool.Handle[*State]

// StateActionKind selects what a StateAction does to its animation.
type StateActionKind uint8

const (
	// ActionRewind moves the animation back to its start.
	ActionRewind StateActionKind = iota
	// ActionEnable enables the animation.
	ActionEnable
	// ActionDisable disables the animation.
	ActionDisable
)

var stateActionKindNames = [...]string{"rewind", "enable", "disable"}

func (k StateActionKind) String() string {
	if int(k) < len(stateActionKindNames) {
		return stateActionKindNames[k]
	}
	return "unknown"
}

func (k StateActionKind) MarshalText() ([]byte, error) {
	if int(k) >= len(stateActionKindNames) {
		return nil, errors.Errorf("unknown state action %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *StateActionKind) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for i, n := range stateActionKindNames {
		if n == name {
			*k = StateActionKind(i)
			return nil
		}
	}
	return errors.Errorf("unknown state action %q", string(text))
}

// StateAction is applied to an animation when a state is entered or left.
type StateAction struct {
	Kind      StateActionKind
	Animation animation.Handle
}

// Apply runs the action. Missing animations are ignored.
func (sa StateAction) Apply(animations *animation.Container) {
	if animations == nil {
		return
	}
	a, ok := animations.Get(sa.Animation)
	if !ok {
		return
	}
	switch sa.Kind {
	case ActionRewind:
		a.Rewind()
	case ActionEnable:
		a.SetEnabled(true)
	case ActionDisable:
		a.SetEnabled(false)
	}
}

// State is a node of a layer's state machine. Its pose is the output of its root pose node.
type State struct {
	Name    string
	Root    NodeHandle
	OnEnter []StateAction
	OnLeave []StateAction
}

// NewState creates a state rooted at the given pose node.
//
// Parameters:
//   - name: the state name
//   - root: the pose node whose output is the state's pose
//
// Returns:
//   - *State: the new state
func NewState(name string, root NodeHandle) *State {
	return &State{Name: name, Root: root}
}

func applyActions(actions []StateAction, animations *animation.Container) {
	for _, a := range actions {
		a.Apply(animations)
	}
}
