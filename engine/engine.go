package engine

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/common/logger"
	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/crowd"
)

// engine implements the Engine interface.
// Drives a crowd of animators from a fixed-rate tick loop.
type engine struct {
	mu              *sync.Mutex
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates

	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	crowd     crowd.Crowd
	ownsCrowd bool

	engineTickRate time.Duration
	maxDelta       float32
	tickCallback   func(deltaTime float32)
	eventCallback  func(events map[uint64][]animator.EventRecord)
}

// Engine runs the animation update loop.
// Every tick it calls the tick callback, updates the crowd and hands the fired events to the
// event callback, all on the engine goroutine.
type Engine interface {
	// Crowd returns the crowd updated by the engine.
	//
	// Returns:
	//   - crowd.Crowd: the crowd instance
	Crowd() crowd.Crowd

	// SetTickRate sets the engine tick rate in ticks per second.
	// If the engine is running, the change takes effect on the next tick.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// TickRate returns the interval between ticks.
	TickRate() time.Duration

	// SetTickCallback registers the function called each tick before the crowd is updated.
	// Use this for parameter changes and gameplay driven state.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetEventCallback registers the function receiving the events of each tick.
	// It is not called for ticks without events.
	//
	// Parameters:
	//   - callback: function receiving the events keyed by animator id
	SetEventCallback(callback func(events map[uint64][]animator.EventRecord))

	// Run starts the tick loop and blocks until Quit is called.
	Run()

	// Quit stops the tick loop. Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Without WithCrowd the engine creates and owns a default crowd, stopped on Quit.
//
// Parameters:
//   - options: functional options for engine configuration (tick rate, crowd, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:              &sync.Mutex{},
		tickRateChannel: make(chan time.Duration, 1),
		quitChannel:     make(chan struct{}),
		engineTickRate:  time.Second / 60,
		maxDelta:        0.25,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.crowd == nil {
		e.crowd = crowd.NewCrowd()
		e.ownsCrowd = true
	}
	return e
}

func (e *engine) Crowd() crowd.Crowd {
	return e.crowd
}

func (e *engine) Run() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.wg.Add(1)
	go e.handleEngine()
	e.wg.Wait()

	if e.ownsCrowd {
		e.crowd.Stop()
	}
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handleEngine runs the fixed-rate tick loop until the quit channel is closed.
// Long stalls are clamped to maxDelta so a paused process does not fast-forward every animator.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.TickRate())
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := min(float32(now.Sub(lastTick).Seconds()), e.maxDelta)
			lastTick = now
			e.tick(dt)
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.mu.Lock()
			e.engineTickRate = newRate
			e.mu.Unlock()
			logger.Debug("tick rate changed", "interval", newRate)
		}
	}
}

func (e *engine) tick(dt float32) {
	e.mu.Lock()
	tickCallback, eventCallback := e.tickCallback, e.eventCallback
	e.mu.Unlock()

	if tickCallback != nil {
		tickCallback(dt)
	}
	events := e.crowd.Tick(dt)
	if eventCallback != nil && len(events) > 0 {
		eventCallback(events)
	}
}

func (e *engine) SetTickRate(fps float64) {
	newRate := tickInterval(fps)

	e.mu.Lock()
	running := e.running
	if !running {
		e.engineTickRate = newRate
	}
	e.mu.Unlock()
	if !running {
		return
	}

	// Replace any pending value. Other callers can refill the slot after the drain, so retry.
	for {
		select {
		case e.tickRateChannel <- newRate:
			return
		default:
		}
		select {
		case <-e.tickRateChannel:
		default:
		}
	}
}

func (e *engine) TickRate() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.engineTickRate
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

func (e *engine) SetEventCallback(callback func(events map[uint64][]animator.EventRecord)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.eventCallback = callback
}

func tickInterval(fps float64) time.Duration {
	return time.Duration(float64(time.Second) / common.FirstPositive(fps, 60))
}
