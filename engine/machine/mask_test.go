package machine

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
	"github.com/stretchr/testify/assert"
)

func TestLayerMaskSortedUnique(t *testing.T) {
	t.Parallel()

	m := NewLayerMask(5, 1, 3, 1)
	assert.Equal(t, []pose.NodeID{1, 3, 5}, m.Inner())

	m.Add(4)
	m.Add(3)
	assert.Equal(t, []pose.NodeID{1, 3, 4, 5}, m.Inner())

	assert.True(t, m.Remove(1))
	assert.False(t, m.Remove(1))
	assert.Equal(t, 3, m.Len())

	assert.True(t, m.Contains(4))
	assert.False(t, m.ShouldAnimate(4))
	assert.True(t, m.ShouldAnimate(2))
}

func TestLayerMaskMergeAndClone(t *testing.T) {
	t.Parallel()

	m := NewLayerMask(2, 8)
	m.Merge(NewLayerMask(1, 8, 9))
	assert.Equal(t, []pose.NodeID{1, 2, 8, 9}, m.Inner())

	c := m.Clone()
	c.Add(3)
	assert.False(t, m.Contains(3))

	inner := m.Inner()
	inner[0] = 100
	assert.True(t, m.Contains(1), "Inner returns a copy")
}
