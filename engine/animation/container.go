package animation

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/pool"
)

// Handle addresses an animation stored in a Container.
type Handle = pool.Handle[Animation]

// Container owns the animations referenced by pose graphs and players.
type Container struct {
	pool *pool.Pool[Animation]
}

// NewContainer creates an empty container.
//
// Returns:
//   - *Container: the new container
func NewContainer() *Container {
	return &Container{pool: pool.New[Animation]()}
}

// Add stores an animation and returns its handle.
//
// Parameters:
//   - a: the animation to store
//
// Returns:
//   - Handle: the handle addressing the animation
func (c *Container) Add(a Animation) Handle {
	return c.pool.Spawn(a)
}

// Remove deletes an animation. Handles to it become stale.
//
// Parameters:
//   - h: the handle of the animation
//
// Returns:
//   - Animation: the removed animation, or nil
//   - bool: true if an animation was removed
func (c *Container) Remove(h Handle) (Animation, bool) {
	return c.pool.Free(h)
}

// Get resolves a handle. Stale handles resolve to nil, false.
func (c *Container) Get(h Handle) (Animation, bool) {
	return c.pool.Get(h)
}

// Len returns the number of stored animations.
func (c *Container) Len() int {
	return c.pool.Len()
}

// Handles returns the handles of every stored animation.
func (c *Container) Handles() []Handle {
	return c.pool.Handles()
}

// Each calls fn for every animation until fn returns false.
func (c *Container) Each(fn func(h Handle, a Animation) bool) {
	c.pool.Each(fn)
}

// FindByName returns the first animation with the given name.
//
// Parameters:
//   - name: the animation name
//
// Returns:
//   - Handle: the handle, or the none handle
//   - Animation: the animation, or nil
//   - bool: true if an animation was found
func (c *Container) FindByName(name string) (Handle, Animation, bool) {
	var (
		found  Handle
		result Animation
	)
	c.pool.Each(func(h Handle, a Animation) bool {
		if a.Name() == name {
			found, result = h, a
			return false
		}
		return true
	})
	return found, result, result != nil
}

// UpdateAnimations ticks every enabled animation by dt.
//
// Parameters:
//   - dt: elapsed time in seconds
func (c *Container) UpdateAnimations(dt float32) {
	c.pool.Each(func(_ Handle, a Animation) bool {
		if a.Enabled() {
			a.Tick(dt)
		}
		return true
	})
}

// ClearEvents drops the pending events of every animation.
func (c *Container) ClearEvents() {
	c.pool.Each(func(_ Handle, a Animation) bool {
		a.ClearEvents()
		return true
	})
}
