package controls

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceRotating(t *testing.T) {
	s := NewRotationState()
	cfg := DefaultRotationConfig()

	for range 10 {
		s = Advance(s, 1.0/60, RotationInput{}, cfg)
	}

	assert.Equal(t, Rotating, s.Mode)
	assert.InDelta(t, 0.05, s.Yaw, 1e-12)
}

func TestAdvanceIgnoresDtInParityMode(t *testing.T) {
	cfg := DefaultRotationConfig()
	a := Advance(NewRotationState(), 1.0/30, RotationInput{}, cfg)
	b := Advance(NewRotationState(), 1.0/144, RotationInput{}, cfg)
	assert.Equal(t, a.Yaw, b.Yaw)
}

func TestAdvanceNormalized(t *testing.T) {
	cfg := RotationConfig{Step: DefaultRotationStep, Normalize: true}

	s := NewRotationState()
	for range 30 {
		s = Advance(s, 1.0/30, RotationInput{}, cfg)
	}
	// One second of wall time at any frame rate covers 60 reference steps.
	assert.InDelta(t, 0.3, s.Yaw, 1e-9)
}

func TestHoverPausesInSameFrame(t *testing.T) {
	cfg := DefaultRotationConfig()
	s := Advance(NewRotationState(), 1.0/60, RotationInput{}, cfg)
	before := s.Yaw

	s = Advance(s, 1.0/60, RotationInput{HoverStart: true}, cfg)
	assert.Equal(t, Paused, s.Mode)
	assert.Equal(t, before, s.Yaw, "yaw must not advance in the hover frame")

	for range 5 {
		s = Advance(s, 1.0/60, RotationInput{}, cfg)
	}
	assert.Equal(t, before, s.Yaw)

	s = Advance(s, 1.0/60, RotationInput{HoverEnd: true}, cfg)
	assert.Equal(t, Rotating, s.Mode)
	assert.InDelta(t, before+DefaultRotationStep, s.Yaw, 1e-12)
}

func TestAdvanceIsPure(t *testing.T) {
	s := RotationState{Mode: Rotating, Yaw: 1}
	_ = Advance(s, 1, RotationInput{HoverStart: true}, DefaultRotationConfig())
	assert.Equal(t, RotationState{Mode: Rotating, Yaw: 1}, s)
}

func TestRotationController(t *testing.T) {
	c := NewRotationController(DefaultRotationConfig())

	c.Step(1.0 / 60)
	c.Step(1.0 / 60)
	assert.InDelta(t, 0.01, c.State().Yaw, 1e-12)

	c.HoverStart()
	assert.Equal(t, Paused, c.State().Mode)
	assert.InDelta(t, 0.01, c.Step(1.0/60), 1e-12)

	c.HoverEnd()
	assert.Equal(t, Rotating, c.State().Mode)
	assert.InDelta(t, 0.015, c.Step(1.0/60), 1e-12)

	c.Reset()
	assert.Equal(t, NewRotationState(), c.State())
}

func TestRotationModeString(t *testing.T) {
	assert.Equal(t, "rotating", Rotating.String())
	assert.Equal(t, "paused", Paused.String())
}
