package crowd

import (
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-anim/common/logger"
	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/profiler"
)

// Crowd updates many independent animators in parallel.
// Thread-safe for concurrent access. Each animator is updated by at most one worker per tick.
type Crowd interface {
	// Add registers an animator.
	//
	// Parameters:
	//   - a: the animator to register
	//
	// Returns:
	//   - uint64: the id of the animator inside the crowd
	Add(a animator.Animator) uint64

	// Remove unregisters an animator.
	//
	// Parameters:
	//   - id: the animator id
	//
	// Returns:
	//   - animator.Animator: the removed animator
	//   - bool: true if the id was registered
	Remove(id uint64) (animator.Animator, bool)

	// Get returns a registered animator.
	Get(id uint64) (animator.Animator, bool)

	// Len returns the number of registered animators.
	Len() int

	// IDs returns the registered ids in ascending order.
	IDs() []uint64

	// Tick updates every animator by dt on the worker pool and waits for all of them.
	//
	// Parameters:
	//   - dt: elapsed time since the last tick in seconds
	//
	// Returns:
	//   - map[uint64][]animator.EventRecord: the events fired per animator, animators without
	//     events are omitted
	Tick(dt float32) map[uint64][]animator.EventRecord

	// Stop shuts the worker pool down. Later ticks update animators on the calling goroutine.
	Stop()
}

type crowd struct {
	mu *sync.RWMutex

	animators map[uint64]animator.Animator
	nextID    atomic.Uint64

	// pool persists across ticks so workers are reused instead of spawned per tick
	pool        worker.DynamicWorkerPool
	workers     int
	queueSize   int
	idleTimeout time.Duration
	stopped     atomic.Bool
	// runMu is held for reading by a tick while it submits to the pool, and for writing by Stop.
	runMu sync.RWMutex

	profiler *profiler.Profiler
}

var _ Crowd = &crowd{}

// NewCrowd creates a Crowd and starts its worker pool.
//
// Parameters:
//   - options: functional options to configure the crowd
//
// Returns:
//   - Crowd: the new crowd
func NewCrowd(options ...CrowdBuilderOption) Crowd {
	c := &crowd{
		mu:          &sync.RWMutex{},
		animators:   make(map[uint64]animator.Animator),
		workers:     max(runtime.NumCPU()-1, 1),
		queueSize:   256,
		idleTimeout: time.Second,
	}
	for _, opt := range options {
		opt(c)
	}

	// Initialize the pool after options so WithWorkers can override the default.
	c.pool = worker.NewDynamicWorkerPool(c.workers, c.queueSize, c.idleTimeout)
	logger.Debug("crowd started", "workers", c.workers, "queue", c.queueSize)
	return c
}

func (c *crowd) Add(a animator.Animator) uint64 {
	id := c.nextID.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.animators[id] = a
	return id
}

func (c *crowd) Remove(id uint64) (animator.Animator, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	a, ok := c.animators[id]
	if ok {
		delete(c.animators, id)
	}
	return a, ok
}

func (c *crowd) Get(id uint64) (animator.Animator, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.animators[id]
	return a, ok
}

func (c *crowd) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.animators)
}

func (c *crowd) IDs() []uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]uint64, 0, len(c.animators))
	for id := range c.animators {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (c *crowd) Tick(dt float32) map[uint64][]animator.EventRecord {
	start := time.Now()
	c.mu.RLock()
	ids := make([]uint64, 0, len(c.animators))
	for id := range c.animators {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	targets := make([]animator.Animator, len(ids))
	for i, id := range ids {
		targets[i] = c.animators[id]
	}
	c.mu.RUnlock()

	results := make([][]animator.EventRecord, len(targets))
	c.runMu.RLock()
	if c.stopped.Load() {
		for i, a := range targets {
			a.Update(dt)
			results[i] = a.Events()
		}
	} else {
		// A WaitGroup gives the per-tick barrier; pool.Wait blocks until workers go idle.
		var wg sync.WaitGroup
		for i, a := range targets {
			wg.Add(1)
			c.pool.SubmitTask(worker.Task{
				ID: i,
				Do: func() (any, error) {
					defer wg.Done()
					a.Update(dt)
					results[i] = a.Events()
					return nil, nil
				},
			})
		}
		wg.Wait()
	}
	c.runMu.RUnlock()

	out := make(map[uint64][]animator.EventRecord)
	for i, events := range results {
		if len(events) > 0 {
			out[ids[i]] = events
		}
	}

	if c.profiler != nil {
		c.profiler.Tick(time.Since(start), len(targets))
	}
	return out
}

func (c *crowd) Stop() {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	if c.stopped.Swap(true) {
		return
	}
	c.pool.Stop()
	logger.Debug("crowd stopped")
}
