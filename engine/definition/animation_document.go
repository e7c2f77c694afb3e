package definition

import (
	"os"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/pose"
	"github.com/Carmen-Shannon/oxy-anim/engine/track"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AnimationDocument is the YAML form of an animation.
type AnimationDocument struct {
	Name       string                        `yaml:"name"`
	TimeSlice  *TimeSliceDocument            `yaml:"time_slice,omitempty"`
	Speed      *float32                      `yaml:"speed,omitempty"`
	LoopMode   animation.LoopMode            `yaml:"loop_mode"`
	Enabled    *bool                         `yaml:"enabled,omitempty"`
	Weight     *float32                      `yaml:"weight,omitempty"`
	MaxEvents  int                           `yaml:"max_events,omitempty"`
	RootMotion *animation.RootMotionSettings `yaml:"root_motion,omitempty"`
	Tracks     []TrackDocument               `yaml:"tracks"`
	Signals    []animation.Signal            `yaml:"signals,omitempty"`
}

// TimeSliceDocument is an explicit playable range in seconds.
type TimeSliceDocument struct {
	Start float32 `yaml:"start"`
	End   float32 `yaml:"end"`
}

// TrackDocument is the YAML form of a track. Position and scale tracks use Vectors, rotation
// tracks use Rotations.
type TrackDocument struct {
	ID        uuid.UUID                 `yaml:"id"`
	Target    pose.NodeID               `yaml:"target"`
	Binding   pose.Binding              `yaml:"binding"`
	Enabled   *bool                     `yaml:"enabled,omitempty"`
	Vectors   []track.Frame[mgl32.Vec3] `yaml:"vectors,omitempty"`
	Rotations []RotationKey             `yaml:"rotations,omitempty"`
}

// RotationKey is a rotation frame with the quaternion stored as x, y, z, w.
type RotationKey struct {
	Time  float32    `yaml:"time"`
	Value [4]float32 `yaml:"value,flow"`
}

func quatToKey(q mgl32.Quat) [4]float32 {
	return [4]float32{q.V[0], q.V[1], q.V[2], q.W}
}

func keyToQuat(v [4]float32) mgl32.Quat {
	return mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
}

// FromAnimation captures the definition of a runtime animation. Playback state is not captured.
//
// Parameters:
//   - a: the animation
//
// Returns:
//   - AnimationDocument: the document
func FromAnimation(a animation.Animation) AnimationDocument {
	slice := a.TimeSlice()
	speed := a.Speed()
	enabled := a.Enabled()
	weight := a.Weight()
	doc := AnimationDocument{
		Name:      a.Name(),
		TimeSlice: &TimeSliceDocument{Start: slice.Start, End: slice.End},
		Speed:     &speed,
		LoopMode:  a.LoopMode(),
		Enabled:   &enabled,
		Weight:    &weight,
		MaxEvents: a.MaxEventCapacity(),
		Signals:   a.Signals(),
	}
	if rm, ok := a.RootMotionSettings(); ok {
		doc.RootMotion = &rm
	}
	for _, t := range a.Tracks() {
		trackEnabled := t.Enabled()
		td := TrackDocument{
			ID:      t.ID(),
			Target:  t.Target(),
			Binding: t.Binding(),
			Enabled: &trackEnabled,
		}
		if t.Binding().IsVector() {
			td.Vectors = t.VectorFrames().Frames()
		} else {
			for _, f := range t.RotationFrames().Frames() {
				td.Rotations = append(td.Rotations, RotationKey{Time: f.Time, Value: quatToKey(f.Value)})
			}
		}
		doc.Tracks = append(doc.Tracks, td)
	}
	return doc
}

// Build creates a runtime animation from the document.
//
// Parameters:
//   - options: build settings, such as WithConfig
//
// Returns:
//   - animation.Animation: the animation
//   - error: ErrInvalidDocument if a track carries frames of the wrong kind
func (d AnimationDocument) Build(options ...BuildOption) (animation.Animation, error) {
	s := newBuildSettings(options...)

	tracks := make([]*track.Track, 0, len(d.Tracks))
	for i, td := range d.Tracks {
		var t *track.Track
		if td.Binding.IsVector() {
			if len(td.Rotations) > 0 {
				return nil, errors.Wrapf(ErrInvalidDocument, "animation %q track %d: %s track with rotation keys", d.Name, i, td.Binding)
			}
			t = track.NewVectorTrack(td.Target, td.Binding, td.Vectors...)
		} else {
			if len(td.Vectors) > 0 {
				return nil, errors.Wrapf(ErrInvalidDocument, "animation %q track %d: rotation track with vector keys", d.Name, i)
			}
			frames := make([]track.Frame[mgl32.Quat], 0, len(td.Rotations))
			for _, k := range td.Rotations {
				frames = append(frames, track.Frame[mgl32.Quat]{Time: k.Time, Value: keyToQuat(k.Value)})
			}
			t = track.NewRotationTrack(td.Target, frames...)
		}
		if td.ID != uuid.Nil {
			t.SetID(td.ID)
		}
		if td.Enabled != nil {
			t.SetEnabled(*td.Enabled)
		}
		tracks = append(tracks, t)
	}

	signals := make([]animation.Signal, 0, len(d.Signals))
	for _, sig := range d.Signals {
		if sig.ID == uuid.Nil {
			sig.ID = uuid.New()
		}
		signals = append(signals, sig)
	}

	maxEvents := common.FirstPositive(d.MaxEvents, s.maxEventCapacity)
	opts := []animation.AnimationBuilderOption{
		animation.WithName(d.Name),
		animation.WithTracks(tracks...),
		animation.WithLoopMode(d.LoopMode),
		animation.WithSignals(signals...),
		animation.WithMaxEventCapacity(maxEvents),
	}
	if d.TimeSlice != nil {
		opts = append(opts, animation.WithTimeSlice(d.TimeSlice.Start, d.TimeSlice.End))
	}
	if d.Speed != nil {
		opts = append(opts, animation.WithSpeed(*d.Speed))
	}
	if d.Enabled != nil {
		opts = append(opts, animation.WithEnabled(*d.Enabled))
	}
	if d.Weight != nil {
		opts = append(opts, animation.WithWeight(*d.Weight))
	}
	if d.RootMotion != nil {
		opts = append(opts, animation.WithRootMotion(*d.RootMotion))
	}
	return animation.NewAnimation(opts...), nil
}

// DecodeAnimation parses a YAML animation document.
func DecodeAnimation(data []byte) (AnimationDocument, error) {
	var doc AnimationDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return AnimationDocument{}, errors.Wrap(err, "decode animation")
	}
	return doc, nil
}

// EncodeAnimation renders an animation document as YAML.
func EncodeAnimation(doc AnimationDocument) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "encode animation %q", doc.Name)
	}
	return data, nil
}

// LoadAnimation reads and builds an animation from a YAML file.
//
// Parameters:
//   - path: the file path
//   - options: build settings
//
// Returns:
//   - animation.Animation: the animation
//   - error: read, decode or build errors, wrapped with the path
func LoadAnimation(path string, options ...BuildOption) (animation.Animation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read animation %s", path)
	}
	doc, err := DecodeAnimation(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	a, err := doc.Build(options...)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return a, nil
}

// SaveAnimation writes the definition of an animation to a YAML file.
func SaveAnimation(path string, a animation.Animation) error {
	data, err := EncodeAnimation(FromAnimation(a))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write animation %s", path)
	}
	return nil
}
