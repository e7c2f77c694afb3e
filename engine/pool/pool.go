// Package pool provides a generation-checked arena. Handles into a pool stay small and copyable,
// and a handle to a freed slot is detected instead of silently aliasing the slot's next occupant.
package pool

import (
	"fmt"
)

// Handle addresses a single slot of a Pool[T]. The zero Handle is the "none" handle and never
// resolves to a value.
type Handle[T any] struct {
	Index      uint32 `yaml:"index" toml:"index"`
	Generation uint32 `yaml:"generation" toml:"generation"`
}

// None returns the handle that never resolves.
func None[T any]() Handle[T] {
	return Handle[T]{}
}

// IsNone reports whether h is the none handle.
func (h Handle[T]) IsNone() bool {
	return h.Generation == 0
}

// IsSome reports whether h may resolve to a value.
func (h Handle[T]) IsSome() bool {
	return h.Generation != 0
}

func (h Handle[T]) String() string {
	if h.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%d:%d", h.Index, h.Generation)
}

type slot[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// Pool stores values in reusable slots addressed by generation-checked handles.
// A Pool is not safe for concurrent use.
type Pool[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

// New creates an empty pool.
//
// Returns:
//   - *Pool[T]: the new pool
func New[T any]() *Pool[T] {
	return &Pool[T]{}
}

// Spawn stores v in a free slot, reusing freed slots before growing.
//
// Parameters:
//   - v: the value to store
//
// Returns:
//   - Handle[T]: the handle addressing the stored value
func (p *Pool[T]) Spawn(v T) Handle[T] {
	var index uint32
	if n := len(p.free); n > 0 {
		index = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		index = uint32(len(p.slots))
		p.slots = append(p.slots, slot[T]{})
	}
	s := &p.slots[index]
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	s.value = v
	s.occupied = true
	p.count++
	return Handle[T]{Index: index, Generation: s.generation}
}

// Free removes the value addressed by h and returns it. Stale or none handles are ignored.
//
// Parameters:
//   - h: the handle of the value to remove
//
// Returns:
//   - T: the removed value, or the zero value
//   - bool: true if a value was removed
func (p *Pool[T]) Free(h Handle[T]) (T, bool) {
	var zero T
	if !p.IsValid(h) {
		return zero, false
	}
	s := &p.slots[h.Index]
	v := s.value
	s.value = zero
	s.occupied = false
	p.free = append(p.free, h.Index)
	p.count--
	return v, true
}

// IsValid reports whether h addresses a live value.
func (p *Pool[T]) IsValid(h Handle[T]) bool {
	if h.IsNone() || int(h.Index) >= len(p.slots) {
		return false
	}
	s := &p.slots[h.Index]
	return s.occupied && s.generation == h.Generation
}

// Get returns the value addressed by h.
//
// Parameters:
//   - h: the handle to resolve
//
// Returns:
//   - T: the value, or the zero value for a stale handle
//   - bool: true if h resolved
func (p *Pool[T]) Get(h Handle[T]) (T, bool) {
	if !p.IsValid(h) {
		var zero T
		return zero, false
	}
	return p.slots[h.Index].value, true
}

// Set replaces the value addressed by h. Returns false for a stale handle.
func (p *Pool[T]) Set(h Handle[T], v T) bool {
	if !p.IsValid(h) {
		return false
	}
	p.slots[h.Index].value = v
	return true
}

// Len returns the number of live values.
func (p *Pool[T]) Len() int {
	return p.count
}

// Each calls fn for every live value in slot order until fn returns false.
func (p *Pool[T]) Each(fn func(h Handle[T], v T) bool) {
	for i := range p.slots {
		s := &p.slots[i]
		if !s.occupied {
			continue
		}
		if !fn(Handle[T]{Index: uint32(i), Generation: s.generation}, s.value) {
			return
		}
	}
}

// Handles returns the handles of every live value in slot order.
func (p *Pool[T]) Handles() []Handle[T] {
	out := make([]Handle[T], 0, p.count)
	p.Each(func(h Handle[T], _ T) bool {
		out = append(out, h)
		return true
	})
	return out
}

// Clear frees every slot. Generations are kept so outstanding handles stay stale.
func (p *Pool[T]) Clear() {
	var zero T
	p.free = p.free[:0]
	for i := len(p.slots) - 1; i >= 0; i-- {
		s := &p.slots[i]
		s.value = zero
		s.occupied = false
		p.free = append(p.free, uint32(i))
	}
	p.count = 0
}
