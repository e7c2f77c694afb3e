package crowd

import (
	"time"

	"github.com/Carmen-Shannon/oxy-anim/config"
	"github.com/Carmen-Shannon/oxy-anim/engine/profiler"
)

// CrowdBuilderOption is a functional option for configuring a Crowd during construction.
type CrowdBuilderOption func(*crowd)

// WithWorkers sets the number of worker goroutines updating animators in parallel.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - CrowdBuilderOption: option function to apply
func WithWorkers(n int) CrowdBuilderOption {
	return func(c *crowd) {
		if n < 1 {
			n = 1
		}
		c.workers = n
	}
}

// WithQueueSize sets the capacity of the worker task queue.
//
// Parameters:
//   - n: the queue capacity (default 256)
//
// Returns:
//   - CrowdBuilderOption: option function to apply
func WithQueueSize(n int) CrowdBuilderOption {
	return func(c *crowd) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

// WithIdleTimeout sets how long an idle worker waits for work.
func WithIdleTimeout(d time.Duration) CrowdBuilderOption {
	return func(c *crowd) {
		if d > 0 {
			c.idleTimeout = d
		}
	}
}

// WithProfiler attaches a profiler ticked once per crowd tick.
//
// Parameters:
//   - p: the profiler, nil disables profiling
//
// Returns:
//   - CrowdBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) CrowdBuilderOption {
	return func(c *crowd) {
		c.profiler = p
	}
}

// WithProfiling attaches a default profiler when enabled is true.
func WithProfiling(enabled bool) CrowdBuilderOption {
	return func(c *crowd) {
		if enabled && c.profiler == nil {
			c.profiler = profiler.NewProfiler()
		}
		if !enabled {
			c.profiler = nil
		}
	}
}

// WithConfig applies the crowd section of a runtime configuration.
//
// Parameters:
//   - cfg: the crowd configuration
//
// Returns:
//   - CrowdBuilderOption: option function to apply
func WithConfig(cfg config.CrowdConfig) CrowdBuilderOption {
	return func(c *crowd) {
		if cfg.Workers > 0 {
			WithWorkers(cfg.Workers)(c)
		}
		WithQueueSize(cfg.QueueSize)(c)
		WithIdleTimeout(cfg.IdleTimeout())(c)
		WithProfiling(cfg.Profiling)(c)
	}
}
