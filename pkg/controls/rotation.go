// Package controls holds the per-frame animation and camera input state
// of the ring viewer. Updates are plain functions over plain structs so
// they can be stepped without a render loop.
package controls

// RotationMode is the state of the rotation controller.
type RotationMode int

const (
	Rotating RotationMode = iota
	Paused
)

func (m RotationMode) String() string {
	if m == Paused {
		return "paused"
	}
	return "rotating"
}

// DefaultRotationStep is the yaw advance per rendered frame, in radians.
const DefaultRotationStep = 0.005

// ReferenceFPS converts the per-frame step to a per-second rate when
// rotation is normalized by elapsed time.
const ReferenceFPS = 60

// RotationState is the mutable animation state of the assembly's spin.
type RotationState struct {
	Mode RotationMode
	Yaw  float64
}

// RotationInput carries the events observed since the previous frame.
type RotationInput struct {
	HoverStart bool
	HoverEnd   bool
}

// RotationConfig selects how the step is applied.
type RotationConfig struct {
	// Step is the yaw increment per frame in radians.
	Step float64
	// Normalize scales the step by dt*ReferenceFPS so speed no longer
	// depends on the display refresh rate.
	Normalize bool
}

// DefaultRotationConfig advances a fixed step per frame.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{Step: DefaultRotationStep}
}

// NewRotationState returns the state every (re)mount starts in.
func NewRotationState() RotationState {
	return RotationState{Mode: Rotating}
}

// Advance applies hover transitions, then spins the yaw if rotating.
// Hover transitions take effect in the same frame they are reported.
func Advance(s RotationState, dt float64, in RotationInput, cfg RotationConfig) RotationState {
	if in.HoverStart {
		s.Mode = Paused
	}
	if in.HoverEnd {
		s.Mode = Rotating
	}
	if s.Mode != Rotating {
		return s
	}

	step := cfg.Step
	if cfg.Normalize {
		step = cfg.Step * ReferenceFPS * dt
	}
	s.Yaw += step
	return s
}

// RotationController wraps RotationState for callers that prefer methods
// over the pure Advance function.
type RotationController struct {
	cfg     RotationConfig
	state   RotationState
	pending RotationInput
}

// NewRotationController creates a controller in the Rotating state.
func NewRotationController(cfg RotationConfig) *RotationController {
	return &RotationController{cfg: cfg, state: NewRotationState()}
}

// HoverStart pauses rotation immediately.
func (c *RotationController) HoverStart() {
	c.state.Mode = Paused
	c.pending.HoverStart, c.pending.HoverEnd = true, false
}

// HoverEnd resumes rotation immediately.
func (c *RotationController) HoverEnd() {
	c.state.Mode = Rotating
	c.pending.HoverStart, c.pending.HoverEnd = false, true
}

// Step advances one frame and returns the new yaw.
func (c *RotationController) Step(dt float64) float64 {
	c.state = Advance(c.state, dt, c.pending, c.cfg)
	c.pending = RotationInput{}
	return c.state.Yaw
}

// State returns a copy of the current state.
func (c *RotationController) State() RotationState {
	return c.state
}

// Reset returns to the initial Rotating state with zero yaw.
func (c *RotationController) Reset() {
	c.state = NewRotationState()
	c.pending = RotationInput{}
}
