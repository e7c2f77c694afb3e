// Package config loads the runtime configuration of the animation engine from TOML.
package config

import (
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Config is the root of the TOML document.
type Config struct {
	Log         LogConfig         `toml:"log"`
	Animation   AnimationConfig   `toml:"animation"`
	Machine     MachineConfig     `toml:"machine"`
	Crowd       CrowdConfig       `toml:"crowd"`
	Definitions DefinitionsConfig `toml:"definitions"`
}

// LogConfig controls the shared logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// AnimationConfig holds defaults applied to newly created animations.
type AnimationConfig struct {
	// MaxEventCapacity bounds the number of pending signal events per animation.
	MaxEventCapacity int `toml:"max_event_capacity"`
}

// MachineConfig holds defaults applied to state machines and their pose nodes.
type MachineConfig struct {
	// DefaultBlendTime is the crossfade window in seconds used by index blend inputs.
	DefaultBlendTime float32 `toml:"default_blend_time"`
	// EventQueueCapacity bounds the number of pending machine events per layer.
	EventQueueCapacity int `toml:"event_queue_capacity"`
	// Debug enables state change logging on every layer.
	Debug bool `toml:"debug"`
}

// CrowdConfig controls the parallel animator ticker.
type CrowdConfig struct {
	// Workers is the maximum number of pool workers. Values <= 0 select NumCPU-1.
	Workers int `toml:"workers"`
	// QueueSize is the capacity of the pool task queue.
	QueueSize int `toml:"queue_size"`
	// IdleTimeoutMs is how long an idle worker lives before exiting.
	IdleTimeoutMs int `toml:"idle_timeout_ms"`
	// Profiling enables periodic tick statistics.
	Profiling bool `toml:"profiling"`
}

// DefinitionsConfig points at the YAML definition directory.
type DefinitionsConfig struct {
	Dir   string `toml:"dir"`
	Watch bool   `toml:"watch"`
}

// Default returns the configuration used when no file is supplied.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Animation: AnimationConfig{
			MaxEventCapacity: 32,
		},
		Machine: MachineConfig{
			DefaultBlendTime:   0.2,
			EventQueueCapacity: 2048,
		},
		Crowd: CrowdConfig{
			QueueSize:     256,
			IdleTimeoutMs: 1000,
		},
		Definitions: DefinitionsConfig{Dir: "definitions"},
	}
}

// Parse decodes a TOML document on top of the defaults, so omitted keys keep their default value.
//
// Parameters:
//   - data: the raw TOML bytes
//
// Returns:
//   - Config: the decoded configuration
//   - error: an error if the document is malformed or holds invalid values
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the TOML file at path.
//
// Parameters:
//   - path: the configuration file path
//
// Returns:
//   - Config: the decoded configuration
//   - error: an error if the file cannot be read or parsed
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "load config %s", path)
	}
	return cfg, nil
}

// Encode renders the configuration back to TOML.
func (c Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "encode config")
	}
	return data, nil
}

// Validate rejects values the engine cannot work with.
func (c Config) Validate() error {
	if c.Animation.MaxEventCapacity < 0 {
		return errors.Errorf("animation.max_event_capacity must not be negative, got %d", c.Animation.MaxEventCapacity)
	}
	if c.Machine.DefaultBlendTime < 0 {
		return errors.Errorf("machine.default_blend_time must not be negative, got %v", c.Machine.DefaultBlendTime)
	}
	if c.Machine.EventQueueCapacity < 0 {
		return errors.Errorf("machine.event_queue_capacity must not be negative, got %d", c.Machine.EventQueueCapacity)
	}
	if c.Crowd.QueueSize < 0 {
		return errors.Errorf("crowd.queue_size must not be negative, got %d", c.Crowd.QueueSize)
	}
	return nil
}

// IdleTimeout returns the crowd worker idle timeout as a duration.
func (c CrowdConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMs) * time.Millisecond
}
