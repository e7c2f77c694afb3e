package machine

import (
	"slices"
	"sort"

	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
)

// LayerMask is a sorted set of nodes a layer must not animate.
type LayerMask struct {
	excluded []pose.NodeID
}

// NewLayerMask creates a mask excluding the given nodes. Duplicates are dropped.
//
// Parameters:
//   - ids: the excluded nodes, in any order
//
// Returns:
//   - LayerMask: the mask
func NewLayerMask(ids ...pose.NodeID) LayerMask {
	excluded := slices.Clone(ids)
	slices.Sort(excluded)
	return LayerMask{excluded: slices.Compact(excluded)}
}

func (m *LayerMask) search(id pose.NodeID) (int, bool) {
	i := sort.Search(len(m.excluded), func(i int) bool { return m.excluded[i] >= id })
	return i, i < len(m.excluded) && m.excluded[i] == id
}

// Add excludes a node. Adding an excluded node is a no-op.
func (m *LayerMask) Add(id pose.NodeID) {
	i, found := m.search(id)
	if found {
		return
	}
	m.excluded = slices.Insert(m.excluded, i, id)
}

// Remove stops excluding a node.
//
// Returns:
//   - bool: true if the node was excluded
func (m *LayerMask) Remove(id pose.NodeID) bool {
	i, found := m.search(id)
	if !found {
		return false
	}
	m.excluded = slices.Delete(m.excluded, i, i+1)
	return true
}

// Contains reports whether a node is excluded.
func (m *LayerMask) Contains(id pose.NodeID) bool {
	_, found := m.search(id)
	return found
}

// ShouldAnimate reports whether a layer with this mask may animate the node.
func (m *LayerMask) ShouldAnimate(id pose.NodeID) bool {
	return !m.Contains(id)
}

// Merge excludes every node excluded by other.
func (m *LayerMask) Merge(other LayerMask) {
	for _, id := range other.excluded {
		m.Add(id)
	}
}

// Inner returns a sorted copy of the excluded nodes.
func (m *LayerMask) Inner() []pose.NodeID {
	return slices.Clone(m.excluded)
}

func (m *LayerMask) Len() int {
	return len(m.excluded)
}

// Clone returns an independent copy of the mask.
func (m LayerMask) Clone() LayerMask {
	return LayerMask{excluded: slices.Clone(m.excluded)}
}
