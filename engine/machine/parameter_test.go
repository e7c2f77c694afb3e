package machine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterContainerTypedAccess(t *testing.T) {
	t.Parallel()

	c := NewParameterContainer()
	c.SetWeight("blend", 0.25)
	c.SetRule("walk", true)
	c.SetIndex("gait", 2)
	c.SetSamplingPoint("move", mgl32.Vec2{0.5, -1})

	w, ok := c.Weight("blend")
	require.True(t, ok)
	assert.Equal(t, float32(0.25), w)

	r, ok := c.Rule("walk")
	require.True(t, ok)
	assert.True(t, r)

	i, ok := c.Index("gait")
	require.True(t, ok)
	assert.Equal(t, uint32(2), i)

	sp, ok := c.SamplingPoint("move")
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec2{0.5, -1}, sp)
	_, ok = c.SamplingPoint("gait")
	assert.False(t, ok, "kind mismatch")

	_, ok = c.Weight("walk")
	assert.False(t, ok, "kind mismatch")
	_, ok = c.Rule("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"blend", "gait", "move", "walk"}, c.Names())
	assert.True(t, c.Remove("gait"))
	assert.False(t, c.Remove("gait"))
	assert.Equal(t, 3, c.Len())
}

func TestParameterKindText(t *testing.T) {
	t.Parallel()

	for _, k := range []ParameterKind{ParameterKindWeight, ParameterKindRule, ParameterKindIndex, ParameterKindSamplingPoint} {
		text, err := k.MarshalText()
		require.NoError(t, err)

		var back ParameterKind
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, k, back)
	}

	var k ParameterKind
	assert.Error(t, k.UnmarshalText([]byte("vector")))
	_, err := ParameterKind(9).MarshalText()
	assert.Error(t, err)
}
