// Package animation implements time-bounded collections of tracks that advance a play cursor,
// emit signal events and extract root motion.
package animation

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
	"github.com/Carmen-Shannon/oxy-anim/engine/track"
	"github.com/google/uuid"
)

// DefaultMaxEventCapacity bounds the pending events of an animation unless overridden with
// WithMaxEventCapacity.
var DefaultMaxEventCapacity = 32

// TimeSlice is the playable range of an animation in seconds.
type TimeSlice struct {
	Start float32 `yaml:"start"`
	End   float32 `yaml:"end"`
}

// Length returns the duration of the slice.
func (s TimeSlice) Length() float32 {
	return s.End - s.Start
}

// animation is the implementation of the Animation interface.
type animation struct {
	name string

	tracks     map[uuid.UUID]*track.Track
	trackOrder []uuid.UUID

	timeSlice     TimeSlice
	explicitSlice bool
	timePosition  float32
	speed         float32
	direction     float32
	loopMode      LoopMode
	enabled       bool
	weight        float32

	signals          []Signal
	events           []Event
	maxEventCapacity int

	rootMotionSettings *RootMotionSettings
	rootMotion         *pose.RootMotion
	rootState          rootMotionState
	wrapped            bool

	pose *pose.AnimationPose
}

// Animation defines the public interface of a single animation clip and its playback state.
//
// An Animation owns its tracks (keyed by track id), a time slice, a play cursor, a loop mode and
// a list of timeline signals. Every Tick advances the cursor, queues events for the signals that
// were crossed and re-samples the pose at the new time.
type Animation interface {
	// Name returns the animation name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// SetName renames the animation.
	//
	// Parameters:
	//   - name: the new name
	SetName(name string)

	// AddTrack adds a track, replacing any track with the same id. The time slice grows to cover
	// the track unless it was set explicitly.
	//
	// Parameters:
	//   - t: the track to add
	AddTrack(t *track.Track)

	// RemoveTrack removes the track with the given id.
	//
	// Parameters:
	//   - id: the id of the track to remove
	//
	// Returns:
	//   - bool: true if a track was removed
	RemoveTrack(id uuid.UUID) bool

	// Track returns the track with the given id.
	//
	// Parameters:
	//   - id: the track id
	//
	// Returns:
	//   - *track.Track: the track, or nil
	//   - bool: true if the track exists
	Track(id uuid.UUID) (*track.Track, bool)

	// Tracks returns every track in insertion order.
	//
	// Returns:
	//   - []*track.Track: the tracks
	Tracks() []*track.Track

	// TimeSlice returns the playable range.
	//
	// Returns:
	//   - TimeSlice: the range in seconds
	TimeSlice() TimeSlice

	// SetTimeSlice sets the playable range explicitly. The cursor is clamped into the new range.
	// An inverted range is swapped.
	//
	// Parameters:
	//   - slice: the new range
	SetTimeSlice(slice TimeSlice)

	// Length returns the duration of the time slice.
	//
	// Returns:
	//   - float32: the duration in seconds
	Length() float32

	// FitLengthToContent sets the time slice to [0, longest track].
	FitLengthToContent()

	// TimePosition returns the play cursor.
	//
	// Returns:
	//   - float32: the cursor in seconds
	TimePosition() float32

	// SetTimePosition moves the play cursor without emitting events. Looping animations wrap the
	// time into the slice, the others clamp it. The pose is re-sampled.
	//
	// Parameters:
	//   - time: the new cursor in seconds
	SetTimePosition(time float32)

	Speed() float32

	// SetSpeed sets the playback speed multiplier. Negative values play in reverse.
	//
	// Parameters:
	//   - speed: the new speed
	SetSpeed(speed float32)

	LoopMode() LoopMode

	SetLoopMode(mode LoopMode)

	Enabled() bool

	// SetEnabled enables or disables playback. Disabled animations do not advance.
	//
	// Parameters:
	//   - enabled: the new state
	SetEnabled(enabled bool)

	Weight() float32

	// SetWeight sets the contribution of the animation when a player blends every enabled
	// animation together. Negative weights are stored as 0.
	//
	// Parameters:
	//   - weight: the new weight
	SetWeight(weight float32)

	// Rewind moves the cursor to the start of playback (the slice end for reverse playback),
	// restores forward ping-pong direction and clears root motion history.
	Rewind()

	// HasEnded reports whether a non-looping animation reached the end of playback.
	//
	// Returns:
	//   - bool: true if playback is finished
	HasEnded() bool

	// AddSignal adds a timeline signal.
	//
	// Parameters:
	//   - s: the signal to add
	//
	// Returns:
	//   - uuid.UUID: the signal id
	AddSignal(s Signal) uuid.UUID

	// RemoveSignal removes a signal by id.
	//
	// Parameters:
	//   - id: the signal id
	//
	// Returns:
	//   - bool: true if a signal was removed
	RemoveSignal(id uuid.UUID) bool

	// SetSignalEnabled toggles a signal.
	//
	// Parameters:
	//   - id: the signal id
	//   - enabled: the new state
	//
	// Returns:
	//   - bool: true if the signal exists
	SetSignalEnabled(id uuid.UUID, enabled bool) bool

	// Signals returns a copy of the signals.
	//
	// Returns:
	//   - []Signal: the signals
	Signals() []Signal

	MaxEventCapacity() int

	// SetMaxEventCapacity bounds the number of pending events. Events past the bound are dropped.
	//
	// Parameters:
	//   - capacity: the new bound
	SetMaxEventCapacity(capacity int)

	// Events returns a copy of the pending events without removing them.
	//
	// Returns:
	//   - []Event: the pending events, oldest first
	Events() []Event

	// PopEvent removes and returns the oldest pending event.
	//
	// Returns:
	//   - Event: the event
	//   - bool: false if no event was pending
	PopEvent() (Event, bool)

	// TakeEvents removes and returns every pending event.
	//
	// Returns:
	//   - []Event: the drained events, oldest first
	TakeEvents() []Event

	// ClearEvents drops every pending event.
	ClearEvents()

	// RootMotionSettings returns the root motion settings, if root motion is enabled.
	//
	// Returns:
	//   - RootMotionSettings: the settings
	//   - bool: true if root motion is enabled
	RootMotionSettings() (RootMotionSettings, bool)

	// SetRootMotionSettings enables root motion extraction, or disables it when nil.
	//
	// Parameters:
	//   - settings: the settings, or nil
	SetRootMotionSettings(settings *RootMotionSettings)

	// RootMotion returns the root motion extracted by the last tick.
	//
	// Returns:
	//   - pose.RootMotion: the motion
	//   - bool: true if root motion is enabled and was extracted
	RootMotion() (pose.RootMotion, bool)

	// Tick advances the cursor by dt scaled by the speed, queues events for crossed signals,
	// re-samples the pose and extracts root motion.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Tick(dt float32)

	// Pose returns the pose sampled at the current cursor. The pose is owned by the animation
	// and overwritten on the next tick.
	//
	// Returns:
	//   - *pose.AnimationPose: the current pose
	Pose() *pose.AnimationPose

	// SamplePose writes the pose at an arbitrary time into dst without touching playback state.
	//
	// Parameters:
	//   - time: the sample time in seconds
	//   - dst: the pose to overwrite
	SamplePose(time float32, dst *pose.AnimationPose)

	// Clone returns an independent copy sharing the immutable tracks.
	//
	// Returns:
	//   - Animation: the copy
	Clone() Animation
}

var _ Animation = &animation{}

// NewAnimation creates an animation configured by the given options. By default the animation
// loops, plays forward at speed 1, is enabled with weight 1, and its time slice fits its tracks.
//
// Parameters:
//   - options: variadic list of AnimationBuilderOption functions to configure the animation
//
// Returns:
//   - Animation: the new animation
func NewAnimation(options ...AnimationBuilderOption) Animation {
	a := &animation{
		tracks:           make(map[uuid.UUID]*track.Track),
		speed:            1,
		direction:        1,
		loopMode:         LoopModeLoop,
		enabled:          true,
		weight:           1,
		maxEventCapacity: DefaultMaxEventCapacity,
		pose:             pose.NewAnimationPose(),
	}
	for _, opt := range options {
		opt(a)
	}
	if !a.explicitSlice {
		a.FitLengthToContent()
	}
	a.timePosition = a.startBound()
	a.updatePose()
	return a
}

func (a *animation) Name() string {
	return a.name
}

func (a *animation) SetName(name string) {
	a.name = name
}

func (a *animation) AddTrack(t *track.Track) {
	if t == nil {
		return
	}
	if _, exists := a.tracks[t.ID()]; !exists {
		a.trackOrder = append(a.trackOrder, t.ID())
	}
	a.tracks[t.ID()] = t
	if !a.explicitSlice && t.TimeLength() > a.timeSlice.End {
		a.timeSlice.End = t.TimeLength()
	}
}

func (a *animation) RemoveTrack(id uuid.UUID) bool {
	if _, ok := a.tracks[id]; !ok {
		return false
	}
	delete(a.tracks, id)
	a.trackOrder = slices.DeleteFunc(a.trackOrder, func(o uuid.UUID) bool { return o == id })
	return true
}

func (a *animation) Track(id uuid.UUID) (*track.Track, bool) {
	t, ok := a.tracks[id]
	return t, ok
}

func (a *animation) Tracks() []*track.Track {
	out := make([]*track.Track, 0, len(a.trackOrder))
	for _, id := range a.trackOrder {
		out = append(out, a.tracks[id])
	}
	return out
}

func (a *animation) TimeSlice() TimeSlice {
	return a.timeSlice
}

func (a *animation) SetTimeSlice(slice TimeSlice) {
	if slice.End < slice.Start {
		slice.Start, slice.End = slice.End, slice.Start
	}
	a.timeSlice = slice
	a.explicitSlice = true
	a.timePosition = common.Clamp(a.timePosition, slice.Start, slice.End)
}

func (a *animation) Length() float32 {
	return a.timeSlice.Length()
}

func (a *animation) FitLengthToContent() {
	var end float32
	for _, t := range a.tracks {
		end = max(end, t.TimeLength())
	}
	a.timeSlice = TimeSlice{Start: 0, End: end}
	a.timePosition = common.Clamp(a.timePosition, 0, end)
}

func (a *animation) TimePosition() float32 {
	return a.timePosition
}

func (a *animation) SetTimePosition(time float32) {
	a.timePosition = a.normalizeTime(time)
	a.updatePose()
}

func (a *animation) Speed() float32 {
	return a.speed
}

func (a *animation) SetSpeed(speed float32) {
	a.speed = speed
}

func (a *animation) LoopMode() LoopMode {
	return a.loopMode
}

func (a *animation) SetLoopMode(mode LoopMode) {
	a.loopMode = mode
	if mode != LoopModePingPong {
		a.direction = 1
	}
}

func (a *animation) Enabled() bool {
	return a.enabled
}

func (a *animation) SetEnabled(enabled bool) {
	a.enabled = enabled
}

func (a *animation) Weight() float32 {
	return a.weight
}

func (a *animation) SetWeight(weight float32) {
	a.weight = max(weight, 0)
}

func (a *animation) Rewind() {
	a.direction = 1
	a.timePosition = a.startBound()
	a.rootState = rootMotionState{}
	a.rootMotion = nil
	a.updatePose()
}

func (a *animation) HasEnded() bool {
	if a.loopMode != LoopModeOnce {
		return false
	}
	if a.velocity() < 0 {
		return a.timePosition <= a.timeSlice.Start
	}
	return a.timePosition >= a.timeSlice.End
}

func (a *animation) AddSignal(s Signal) uuid.UUID {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	a.signals = append(a.signals, s)
	return s.ID
}

func (a *animation) RemoveSignal(id uuid.UUID) bool {
	n := len(a.signals)
	a.signals = slices.DeleteFunc(a.signals, func(s Signal) bool { return s.ID == id })
	return len(a.signals) != n
}

func (a *animation) SetSignalEnabled(id uuid.UUID, enabled bool) bool {
	for i := range a.signals {
		if a.signals[i].ID == id {
			a.signals[i].Enabled = enabled
			return true
		}
	}
	return false
}

func (a *animation) Signals() []Signal {
	return slices.Clone(a.signals)
}

func (a *animation) MaxEventCapacity() int {
	return a.maxEventCapacity
}

func (a *animation) SetMaxEventCapacity(capacity int) {
	a.maxEventCapacity = max(capacity, 0)
	if len(a.events) > a.maxEventCapacity {
		a.events = a.events[:a.maxEventCapacity]
	}
}

func (a *animation) Events() []Event {
	return slices.Clone(a.events)
}

func (a *animation) PopEvent() (Event, bool) {
	if len(a.events) == 0 {
		return Event{}, false
	}
	e := a.events[0]
	a.events = a.events[1:]
	return e, true
}

func (a *animation) TakeEvents() []Event {
	out := a.events
	a.events = nil
	return out
}

func (a *animation) ClearEvents() {
	a.events = a.events[:0]
}

func (a *animation) Pose() *pose.AnimationPose {
	return a.pose
}

func (a *animation) SamplePose(time float32, dst *pose.AnimationPose) {
	dst.Reset()
	for _, id := range a.trackOrder {
		a.tracks[id].Apply(dst, time)
	}
}

func (a *animation) Clone() Animation {
	c := *a
	c.tracks = make(map[uuid.UUID]*track.Track, len(a.tracks))
	for id, t := range a.tracks {
		c.tracks[id] = t
	}
	c.trackOrder = slices.Clone(a.trackOrder)
	c.signals = slices.Clone(a.signals)
	c.events = slices.Clone(a.events)
	if a.rootMotionSettings != nil {
		s := *a.rootMotionSettings
		c.rootMotionSettings = &s
	}
	if a.rootMotion != nil {
		rm := *a.rootMotion
		c.rootMotion = &rm
	}
	c.pose = a.pose.Clone()
	return &c
}

// velocity is the signed cursor speed including the ping-pong direction.
func (a *animation) velocity() float32 {
	return a.speed * a.direction
}

func (a *animation) startBound() float32 {
	if a.speed < 0 {
		return a.timeSlice.End
	}
	return a.timeSlice.Start
}

func (a *animation) normalizeTime(time float32) float32 {
	start, end := a.timeSlice.Start, a.timeSlice.End
	if a.loopMode == LoopModeLoop && (time < start || time > end) {
		return common.WrapF(time, start, end)
	}
	return common.Clamp(time, start, end)
}

func (a *animation) updatePose() {
	a.SamplePose(a.timePosition, a.pose)
}
