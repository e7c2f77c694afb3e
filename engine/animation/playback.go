package animation

import (
	"math"
)

func (a *animation) Tick(dt float32) {
	if !a.enabled {
		return
	}
	prev := a.timePosition
	a.wrapped = false

	step := dt * a.velocity()
	length := a.timeSlice.Length()
	switch {
	case length <= 0:
		a.timePosition = a.timeSlice.Start
	case step == 0:
	case a.loopMode == LoopModeLoop:
		a.timePosition = a.advanceLooped(prev, step, length)
	case a.loopMode == LoopModePingPong:
		a.timePosition = a.advancePingPong(prev, step, length)
	default:
		next := min(max(prev+step, a.timeSlice.Start), a.timeSlice.End)
		a.crossSignals(prev, next)
		a.timePosition = next
	}

	a.updatePose()
	a.updateRootMotion()
}

// advanceLooped moves the cursor by step, wrapping at the slice bounds.
func (a *animation) advanceLooped(pos, step, length float32) float32 {
	start, end := a.timeSlice.Start, a.timeSlice.End
	forward := step > 0
	remaining := abs32(step)
	remaining = a.reduceCycles(remaining, length)

	for remaining > 0 {
		bound, restart := end, start
		if !forward {
			bound, restart = start, end
		}
		room := abs32(bound - pos)
		if remaining < room {
			next := pos + remaining
			if !forward {
				next = pos - remaining
			}
			a.crossSignals(pos, next)
			return next
		}
		a.crossSignals(pos, bound)
		remaining -= room
		pos = restart
		a.wrapped = true
		a.fireSignalsAt(restart)
	}
	return pos
}

// advancePingPong moves the cursor by step, reflecting at the slice bounds and flipping the
// playback direction on every bounce.
func (a *animation) advancePingPong(pos, step, length float32) float32 {
	start, end := a.timeSlice.Start, a.timeSlice.End
	remaining := a.reduceCycles(abs32(step), 2*length)

	for remaining > 0 {
		forward := a.velocity() > 0
		bound := end
		if !forward {
			bound = start
		}
		room := abs32(bound - pos)
		if remaining < room {
			next := pos + remaining
			if !forward {
				next = pos - remaining
			}
			a.crossSignals(pos, next)
			return next
		}
		a.crossSignals(pos, bound)
		remaining -= room
		pos = bound
		a.direction = -a.direction
	}
	return pos
}

// reduceCycles drops whole periods from distance while keeping enough of them to saturate the
// event queue. The final cursor position is unchanged.
func (a *animation) reduceCycles(distance, period float32) float32 {
	keep := float32(a.maxEventCapacity + 1)
	if period <= 0 || distance <= period*keep {
		return distance
	}
	return float32(math.Mod(float64(distance), float64(period))) + period*keep
}

// crossSignals queues an event for every enabled signal passed over when moving the cursor from
// "from" to "to". A signal sitting exactly on "from" was handled by the previous step and does
// not fire again.
func (a *animation) crossSignals(from, to float32) {
	if from == to {
		return
	}
	for i := range a.signals {
		s := &a.signals[i]
		if !s.Enabled {
			continue
		}
		var crossed bool
		if to > from {
			crossed = from < s.Time && s.Time <= to
		} else {
			crossed = from > s.Time && s.Time >= to
		}
		if crossed {
			a.pushEvent(s)
		}
	}
}

// fireSignalsAt queues events for enabled signals located exactly at time, used when a loop
// wraps and the cursor jumps onto the opposite bound.
func (a *animation) fireSignalsAt(time float32) {
	for i := range a.signals {
		s := &a.signals[i]
		if s.Enabled && s.Time == time {
			a.pushEvent(s)
		}
	}
}

func (a *animation) pushEvent(s *Signal) {
	if len(a.events) >= a.maxEventCapacity {
		return
	}
	a.events = append(a.events, Event{SignalID: s.ID, Name: s.Name})
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
