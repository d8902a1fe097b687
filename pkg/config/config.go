// Package config loads and watches the ringview YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/taigrr/ringview/pkg/ar"
	"github.com/taigrr/ringview/pkg/controls"
	"github.com/taigrr/ringview/pkg/logging"
	"github.com/taigrr/ringview/pkg/render"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Rotation modes.
const (
	RotationParity     = "parity"
	RotationNormalized = "normalized"
)

// Config is the viewer configuration file.
type Config struct {
	Finish     string         `yaml:"finish"`
	AutoRotate bool           `yaml:"autoRotate"`
	FPS        int            `yaml:"fps"`
	Rotation   RotationConfig `yaml:"rotation"`
	Orbit      OrbitConfig    `yaml:"orbit"`
	Render     RenderConfig   `yaml:"render"`
	AR         ARConfig       `yaml:"ar"`
	Log        LogConfig      `yaml:"log"`
}

// RotationConfig controls the assembly spin.
type RotationConfig struct {
	Mode string  `yaml:"mode"`
	Step float64 `yaml:"step"`
}

// OrbitConfig controls the camera orbit.
type OrbitConfig struct {
	EnableZoom      bool    `yaml:"enableZoom"`
	MinDistance     float64 `yaml:"minDistance"`
	MaxDistance     float64 `yaml:"maxDistance"`
	AutoRotateSpeed float64 `yaml:"autoRotateSpeed"`
	RotateSpeed     float64 `yaml:"rotateSpeed"`
	ZoomSpeed       float64 `yaml:"zoomSpeed"`
	Damping         bool    `yaml:"damping"`
}

// RenderConfig controls presentation.
type RenderConfig struct {
	Environment   string  `yaml:"environment"`
	Exposure      float64 `yaml:"exposure"`
	ContactShadow bool    `yaml:"contactShadow"`
	Wireframe     bool    `yaml:"wireframe"`
}

// ARConfig controls the AR handoff.
type ARConfig struct {
	Enabled bool   `yaml:"enabled"`
	Asset   string `yaml:"asset"` // empty exports the ring to a temporary GLB
	Orbit   string `yaml:"orbit"`
}

// LogConfig mirrors logging.Options.
type LogConfig struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the settings the viewer runs with when no file is given.
func DefaultConfig() Config {
	return Config{
		Finish:     "18K Yellow Gold",
		AutoRotate: true,
		FPS:        60,
		Rotation: RotationConfig{
			Mode: RotationParity,
			Step: controls.DefaultRotationStep,
		},
		Orbit: OrbitConfig{
			EnableZoom:      true,
			MinDistance:     controls.DefaultMinDistance,
			MaxDistance:     controls.DefaultMaxDistance,
			AutoRotateSpeed: controls.DefaultAutoRotateSpeed,
			RotateSpeed:     controls.DefaultRotateSpeed,
			ZoomSpeed:       controls.DefaultZoomSpeed,
			Damping:         true,
		},
		Render: RenderConfig{
			Environment:   "studio",
			Exposure:      render.DefaultExposure,
			ContactShadow: true,
		},
		AR: ARConfig{
			Orbit: ar.DefaultOrbit.String(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path over DefaultConfig and validates the result.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	if c.FPS < 1 || c.FPS > 240 {
		return invalid("fps %d outside 1..240", c.FPS)
	}
	switch c.Rotation.Mode {
	case RotationParity, RotationNormalized:
	default:
		return invalid("rotation mode %q", c.Rotation.Mode)
	}
	if c.Rotation.Step < 0 {
		return invalid("rotation step %g is negative", c.Rotation.Step)
	}
	o := c.Orbit
	if o.MinDistance <= 0 || o.MaxDistance < o.MinDistance {
		return invalid("orbit distance range [%g, %g]", o.MinDistance, o.MaxDistance)
	}
	if o.RotateSpeed < 0 || o.ZoomSpeed < 0 {
		return invalid("orbit speeds must not be negative")
	}
	if _, err := render.EnvironmentPreset(c.Render.Environment); err != nil {
		return invalid("%v", err)
	}
	if c.Render.Exposure <= 0 {
		return invalid("exposure %g must be positive", c.Render.Exposure)
	}
	if _, err := ar.ParseOrbit(c.AR.Orbit); err != nil {
		return invalid("ar orbit: %v", err)
	}
	if err := c.LogOptions().Validate(); err != nil {
		return invalid("%v", err)
	}
	return nil
}

// RotationSettings converts to the controller configuration.
func (c Config) RotationSettings() controls.RotationConfig {
	return controls.RotationConfig{
		Step:      c.Rotation.Step,
		Normalize: c.Rotation.Mode == RotationNormalized,
	}
}

// OrbitSettings converts to the adapter configuration.
func (c Config) OrbitSettings() controls.OrbitConfig {
	oc := controls.DefaultOrbitConfig()
	oc.EnableZoom = c.Orbit.EnableZoom
	oc.MinDistance = c.Orbit.MinDistance
	oc.MaxDistance = c.Orbit.MaxDistance
	oc.AutoRotate = c.AutoRotate
	oc.AutoRotateSpeed = c.Orbit.AutoRotateSpeed
	oc.RotateSpeed = c.Orbit.RotateSpeed
	oc.ZoomSpeed = c.Orbit.ZoomSpeed
	oc.Damping = c.Orbit.Damping
	oc.FPS = c.FPS
	return oc
}

// LogOptions converts to logging options.
func (c Config) LogOptions() logging.Options {
	return logging.Options{Level: c.Log.Level, File: c.Log.File, Format: c.Log.Format}
}

// ARSettings returns the AR viewer settings with the configured orbit.
func (c Config) ARSettings() ar.Settings {
	s := ar.DefaultSettings()
	if o, err := ar.ParseOrbit(c.AR.Orbit); err == nil {
		s.Orbit = s.ClampOrbit(o)
	}
	s.AutoRotate = c.AutoRotate
	return s
}
