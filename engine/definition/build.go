package definition

import (
	"github.com/Carmen-Shannon/oxy-anim/config"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/machine"
)

type buildSettings struct {
	maxEventCapacity   int
	defaultBlendTime   float32
	eventQueueCapacity int
	debug              bool
}

// BuildOption is a functional option for turning documents into runtime objects.
type BuildOption func(*buildSettings)

func newBuildSettings(options ...BuildOption) buildSettings {
	s := buildSettings{
		maxEventCapacity:   animation.DefaultMaxEventCapacity,
		defaultBlendTime:   machine.DefaultBlendTime,
		eventQueueCapacity: machine.DefaultEventQueueCapacity,
	}
	for _, opt := range options {
		opt(&s)
	}
	return s
}

// WithConfig applies the animation and machine defaults of a runtime configuration.
//
// Parameters:
//   - cfg: the configuration
//
// Returns:
//   - BuildOption: option function to apply
func WithConfig(cfg config.Config) BuildOption {
	return func(s *buildSettings) {
		s.maxEventCapacity = cfg.Animation.MaxEventCapacity
		s.defaultBlendTime = cfg.Machine.DefaultBlendTime
		s.eventQueueCapacity = cfg.Machine.EventQueueCapacity
		s.debug = cfg.Machine.Debug
	}
}

// WithDefaultBlendTime sets the crossfade time of index inputs that do not declare one.
func WithDefaultBlendTime(t float32) BuildOption {
	return func(s *buildSettings) {
		s.defaultBlendTime = t
	}
}
