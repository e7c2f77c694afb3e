package machine

import (
	"slices"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// ParameterKind tells which field of a Parameter is meaningful.
type ParameterKind int

const (
	// ParameterKindWeight is a float used as a blend weight.
	ParameterKindWeight ParameterKind = iota

	// ParameterKindRule is a boolean used by transition conditions.
	ParameterKindRule

	// ParameterKindIndex is an unsigned index used to select a blend input.
	ParameterKindIndex

	// ParameterKindSamplingPoint is a 2D position sampled by blend spaces.
	ParameterKindSamplingPoint
)

var parameterKindNames = []string{"weight", "rule", "index", "sampling_point"}

func (k ParameterKind) String() string {
	if k < 0 || int(k) >= len(parameterKindNames) {
		return "unknown"
	}
	return parameterKindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k ParameterKind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(parameterKindNames) {
		return nil, errors.Errorf("unknown parameter kind %d", int(k))
	}
	return []byte(parameterKindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ParameterKind) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for i, n := range parameterKindNames {
		if n == name {
			*k = ParameterKind(i)
			return nil
		}
	}
	return errors.Errorf("unknown parameter kind %q", string(text))
}

// Parameter is a named runtime value written by game logic between updates.
type Parameter struct {
	Kind          ParameterKind
	Weight        float32
	Rule          bool
	Index         uint32
	SamplingPoint mgl32.Vec2
}

// WeightParameter creates a weight parameter.
func WeightParameter(w float32) Parameter {
	return Parameter{Kind: ParameterKindWeight, Weight: w}
}

// RuleParameter creates a rule parameter.
func RuleParameter(r bool) Parameter {
	return Parameter{Kind: ParameterKindRule, Rule: r}
}

// IndexParameter creates an index parameter.
func IndexParameter(i uint32) Parameter {
	return Parameter{Kind: ParameterKindIndex, Index: i}
}

// SamplingPointParameter creates a sampling point parameter.
func SamplingPointParameter(p mgl32.Vec2) Parameter {
	return Parameter{Kind: ParameterKindSamplingPoint, SamplingPoint: p}
}

// ParameterContainer maps parameter names to values. It is written between updates and only
// read during evaluation.
type ParameterContainer struct {
	values map[string]Parameter
}

// NewParameterContainer creates an empty container.
//
// Returns:
//   - *ParameterContainer: the new container
func NewParameterContainer() *ParameterContainer {
	return &ParameterContainer{values: make(map[string]Parameter)}
}

// Set stores a parameter, replacing any previous value and kind.
//
// Parameters:
//   - name: the parameter name
//   - p: the value
func (c *ParameterContainer) Set(name string, p Parameter) {
	c.values[name] = p
}

func (c *ParameterContainer) SetWeight(name string, w float32) {
	c.Set(name, WeightParameter(w))
}

func (c *ParameterContainer) SetRule(name string, r bool) {
	c.Set(name, RuleParameter(r))
}

func (c *ParameterContainer) SetIndex(name string, i uint32) {
	c.Set(name, IndexParameter(i))
}

func (c *ParameterContainer) SetSamplingPoint(name string, p mgl32.Vec2) {
	c.Set(name, SamplingPointParameter(p))
}

// Get returns a parameter by name.
func (c *ParameterContainer) Get(name string) (Parameter, bool) {
	p, ok := c.values[name]
	return p, ok
}

// Weight returns the value of a weight parameter. Missing parameters and parameters of another
// kind report false.
func (c *ParameterContainer) Weight(name string) (float32, bool) {
	p, ok := c.values[name]
	if !ok || p.Kind != ParameterKindWeight {
		return 0, false
	}
	return p.Weight, true
}

// Rule returns the value of a rule parameter. Missing parameters and parameters of another kind
// report false.
func (c *ParameterContainer) Rule(name string) (bool, bool) {
	p, ok := c.values[name]
	if !ok || p.Kind != ParameterKindRule {
		return false, false
	}
	return p.Rule, true
}

// Index returns the value of an index parameter. Missing parameters and parameters of another
// kind report false.
func (c *ParameterContainer) Index(name string) (uint32, bool) {
	p, ok := c.values[name]
	if !ok || p.Kind != ParameterKindIndex {
		return 0, false
	}
	return p.Index, true
}

// SamplingPoint returns the value of a sampling point parameter. Missing parameters and
// parameters of another kind report false.
func (c *ParameterContainer) SamplingPoint(name string) (mgl32.Vec2, bool) {
	p, ok := c.values[name]
	if !ok || p.Kind != ParameterKindSamplingPoint {
		return mgl32.Vec2{}, false
	}
	return p.SamplingPoint, true
}

// Remove deletes a parameter.
func (c *ParameterContainer) Remove(name string) bool {
	if _, ok := c.values[name]; !ok {
		return false
	}
	delete(c.values, name)
	return true
}

// Names returns every parameter name in sorted order.
func (c *ParameterContainer) Names() []string {
	names := make([]string, 0, len(c.values))
	for n := range c.values {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func (c *ParameterContainer) Len() int {
	return len(c.values)
}
