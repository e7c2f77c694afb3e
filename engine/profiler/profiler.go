package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/common/logger"
)

// Stats is one report of the profiler.
type Stats struct {
	// TicksPerSecond is the number of ticks per second over the last interval.
	TicksPerSecond float64

	// AvgTickTime is the mean work time reported per tick.
	AvgTickTime time.Duration

	// Updates is the number of animator updates reported over the last interval.
	Updates int

	HeapMB      float64
	AllocRateMB float64
	SysMB       float64
	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
}

// Profiler tracks tick rate, animator throughput and memory statistics.
// Outputs stats through the shared logger at a configurable interval.
type Profiler struct {
	tickCount      int
	updateCount    int
	work           time.Duration
	lastTime       time.Time
	updateInterval time.Duration
	now            func() time.Time
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
}

// ProfilerBuilderOption is a functional option for configuring a Profiler during construction.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often statistics are reported.
//
// Parameters:
//   - d: the report interval (default 1 second)
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithInterval(d time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProfiler creates a new Profiler.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per crowd tick.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: ticks per second, mean tick time, animator updates, heap usage, allocation
// rate, GC count/pause times, total memory.
//
// Parameters:
//   - work: the time spent in the tick
//   - updates: the number of animators updated in the tick
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(work time.Duration, updates int) bool {
	p.tickCount++
	p.updateCount += updates
	p.work += work

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.last = Stats{
		TicksPerSecond: float64(p.tickCount) / elapsed.Seconds(),
		AvgTickTime:    p.work / time.Duration(p.tickCount),
		Updates:        p.updateCount,
		HeapMB:         float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:    float64(allocDelta) / 1024 / 1024 / elapsed.Seconds(),
		SysMB:          float64(p.memStats.Sys) / 1024 / 1024,
		GCCount:        gcCount,
		LastPauseUs:    lastPauseUs,
		MaxPauseUs:     maxPauseUs,
	}
	logger.Info("profiler",
		"tps", p.last.TicksPerSecond,
		"tick", p.last.AvgTickTime,
		"updates", p.last.Updates,
		"heap_mb", p.last.HeapMB,
		"alloc_mb_s", p.last.AllocRateMB,
		"gc", gcCount,
		"gc_last_us", lastPauseUs,
		"gc_max_us", maxPauseUs,
		"sys_mb", p.last.SysMB,
	)

	p.tickCount = 0
	p.updateCount = 0
	p.work = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recent report.
func (p *Profiler) Last() Stats {
	return p.last
}
