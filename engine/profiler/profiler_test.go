package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfilerReportsEachInterval(t *testing.T) {
	t.Parallel()

	now := time.Unix(0, 0)
	clock := func() time.Time { return now }
	p := NewProfiler(WithInterval(time.Second), WithClock(clock))

	for i := 0; i < 3; i++ {
		now = now.Add(250 * time.Millisecond)
		assert.False(t, p.Tick(10*time.Millisecond, 4))
	}
	now = now.Add(250 * time.Millisecond)
	assert.True(t, p.Tick(30*time.Millisecond, 4))

	s := p.Last()
	assert.InDelta(t, 4, s.TicksPerSecond, 1e-9)
	assert.Equal(t, 15*time.Millisecond, s.AvgTickTime)
	assert.Equal(t, 16, s.Updates)
	assert.Greater(t, s.SysMB, 0.0)

	now = now.Add(100 * time.Millisecond)
	assert.False(t, p.Tick(0, 0), "counters restart after a report")
}
