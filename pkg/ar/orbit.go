// Package ar holds the AR viewer collaborator: the asset the ring is handed
// off as, its camera orbit defaults and the load/capability signals the
// viewer shell reports in its status banner.
package ar

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/taigrr/ringview/pkg/math3d"
)

// Orbit is an AR camera position as theta (azimuth), phi (polar) and radius.
// Angles are radians, radius is meters.
type Orbit struct {
	Theta  float64
	Phi    float64
	Radius float64
}

// DefaultOrbit is the orbit the AR viewer opens at and returns to on reset.
var DefaultOrbit = Orbit{Theta: 0, Phi: math3d.Deg2Rad(75), Radius: 0.8}

var errOrbitFormat = errors.New("orbit must be \"<theta> <phi> <radius>\"")

// String formats the orbit as "0deg 75deg 0.8m".
func (o Orbit) String() string {
	return fmt.Sprintf("%sdeg %sdeg %sm",
		trim(math3d.Rad2Deg(o.Theta)), trim(math3d.Rad2Deg(o.Phi)), trim(o.Radius))
}

func trim(f float64) string {
	return strconv.FormatFloat(math.Round(f*1000)/1000, 'f', -1, 64)
}

// ParseOrbit parses an orbit string such as "0deg 75deg 0.8m".
// Angles accept deg or rad; the radius accepts m, cm or mm.
func ParseOrbit(s string) (Orbit, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return Orbit{}, errOrbitFormat
	}
	theta, err := parseAngle(fields[0])
	if err != nil {
		return Orbit{}, fmt.Errorf("theta: %w", err)
	}
	phi, err := parseAngle(fields[1])
	if err != nil {
		return Orbit{}, fmt.Errorf("phi: %w", err)
	}
	radius, err := parseLength(fields[2])
	if err != nil {
		return Orbit{}, fmt.Errorf("radius: %w", err)
	}
	return Orbit{Theta: theta, Phi: phi, Radius: radius}, nil
}

func parseAngle(s string) (float64, error) {
	switch {
	case strings.HasSuffix(s, "deg"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "deg"), 64)
		return math3d.Deg2Rad(v), err
	case strings.HasSuffix(s, "rad"):
		return strconv.ParseFloat(strings.TrimSuffix(s, "rad"), 64)
	}
	return 0, fmt.Errorf("angle %q needs a deg or rad unit", s)
}

func parseLength(s string) (float64, error) {
	for _, u := range []struct {
		suffix string
		scale  float64
	}{{"mm", 0.001}, {"cm", 0.01}, {"m", 1}} {
		if strings.HasSuffix(s, u.suffix) {
			v, err := strconv.ParseFloat(strings.TrimSuffix(s, u.suffix), 64)
			return v * u.scale, err
		}
	}
	return 0, fmt.Errorf("length %q needs an m, cm or mm unit", s)
}

// Settings are the AR viewer's camera and presentation parameters.
type Settings struct {
	Orbit             Orbit
	FieldOfView       float64 // degrees
	MinFieldOfView    float64
	MaxFieldOfView    float64
	MinRadius         float64 // meters
	MaxRadius         float64
	RotationPerSecond float64 // radians
	AutoRotate        bool
	AutoRotateDelay   float64 // seconds of idle before the turntable resumes
	Modes             []string
	Environment       string
}

// DefaultSettings returns the settings the ring asset is presented with.
func DefaultSettings() Settings {
	return Settings{
		Orbit:             DefaultOrbit,
		FieldOfView:       45,
		MinFieldOfView:    20,
		MaxFieldOfView:    90,
		MinRadius:         0.3,
		MaxRadius:         3,
		RotationPerSecond: math3d.Deg2Rad(30),
		AutoRotate:        true,
		AutoRotateDelay:   1,
		Modes:             []string{"webxr", "scene-viewer", "quick-look"},
		Environment:       "neutral",
	}
}

// ClampOrbit keeps the radius inside the settings bounds and phi inside (0, pi).
func (s Settings) ClampOrbit(o Orbit) Orbit {
	o.Radius = math3d.Clamp(o.Radius, s.MinRadius, s.MaxRadius)
	o.Phi = math3d.Clamp(o.Phi, 1e-3, math.Pi-1e-3)
	return o
}

// ClampFOV keeps a field of view inside the settings bounds.
func (s Settings) ClampFOV(fov float64) float64 {
	return math3d.Clamp(fov, s.MinFieldOfView, s.MaxFieldOfView)
}
