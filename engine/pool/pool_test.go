package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnGet(t *testing.T) {
	t.Parallel()

	p := New[string]()
	a := p.Spawn("a")
	b := p.Spawn("b")

	require.True(t, a.IsSome())
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, p.Len())

	v, ok := p.Get(a)
	require.True(t, ok)
	assert.Equal(t, "a", v)

	_, ok = p.Get(None[string]())
	assert.False(t, ok)
	assert.Equal(t, "none", None[string]().String())
}

func TestStaleHandleAfterReuse(t *testing.T) {
	t.Parallel()

	p := New[int]()
	h := p.Spawn(1)
	v, ok := p.Free(h)
	require.True(t, ok)
	assert.Equal(t, 1, v)

	reused := p.Spawn(2)
	assert.Equal(t, h.Index, reused.Index)
	assert.NotEqual(t, h.Generation, reused.Generation)

	_, ok = p.Get(h)
	assert.False(t, ok, "stale handle must not resolve to the new occupant")
	assert.False(t, p.Set(h, 5))
	_, ok = p.Free(h)
	assert.False(t, ok)

	got, ok := p.Get(reused)
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestEachAndClear(t *testing.T) {
	t.Parallel()

	p := New[int]()
	h0 := p.Spawn(10)
	h1 := p.Spawn(20)
	h2 := p.Spawn(30)
	p.Free(h1)

	assert.Equal(t, []Handle[int]{h0, h2}, p.Handles())

	sum := 0
	p.Each(func(_ Handle[int], v int) bool {
		sum += v
		return true
	})
	assert.Equal(t, 40, sum)

	p.Clear()
	assert.Equal(t, 0, p.Len())
	assert.False(t, p.IsValid(h0))
	assert.Empty(t, p.Handles())
}
