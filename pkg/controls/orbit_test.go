package controls

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/ringview/pkg/math3d"
)

var startPosition = math3d.V3(0, 2, 5)

func settle(o *OrbitAdapter) {
	for range 600 {
		o.Update(1.0 / 60)
	}
}

func TestOrbitStartsAtCameraPosition(t *testing.T) {
	o := NewOrbitAdapter(DefaultOrbitConfig(), startPosition)

	assert.InDelta(t, math.Sqrt(29), o.Distance(), 1e-9)
	assert.True(t, o.CameraPosition().ApproxEqual(startPosition, 1e-9))
}

func TestSetDistanceClamps(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"far", 100, DefaultMaxDistance},
		{"negative", -5, DefaultMinDistance},
		{"zero", 0, DefaultMinDistance},
		{"inside", 4.5, 4.5},
		{"min", 3, 3},
		{"max", 8, 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := NewOrbitAdapter(DefaultOrbitConfig(), startPosition)
			o.SetDistance(tc.in)
			assert.Equal(t, tc.want, o.goal.Distance)

			settle(o)
			assert.InDelta(t, tc.want, o.Distance(), 1e-3)
			assert.GreaterOrEqual(t, o.Distance(), DefaultMinDistance)
			assert.LessOrEqual(t, o.Distance(), DefaultMaxDistance)
		})
	}
}

func TestZoom(t *testing.T) {
	o := NewOrbitAdapter(DefaultOrbitConfig(), startPosition)

	o.Zoom(1000)
	assert.Equal(t, DefaultMinDistance, o.goal.Distance)

	o.Zoom(0.001)
	assert.Equal(t, DefaultMaxDistance, o.goal.Distance)

	o.Zoom(-1)
	assert.Equal(t, DefaultMaxDistance, o.goal.Distance)

	o.Zoom(2)
	assert.Equal(t, 4.0, o.goal.Distance)
}

func TestWheel(t *testing.T) {
	o := NewOrbitAdapter(DefaultOrbitConfig(), startPosition)
	start := o.goal.Distance

	o.Wheel(1)
	assert.Less(t, o.goal.Distance, start)

	o.Wheel(-200)
	assert.Equal(t, DefaultMaxDistance, o.goal.Distance)
}

func TestNonFiniteGesturesIgnored(t *testing.T) {
	o := NewOrbitAdapter(DefaultOrbitConfig(), startPosition)
	goal := o.goal

	o.Zoom(math.NaN())
	o.Wheel(math.NaN())
	o.Wheel(math.Inf(-1))
	o.SetDistance(math.NaN())
	o.Rotate(math.NaN(), 0)
	o.Rotate(0, math.Inf(1))
	assert.Equal(t, goal, o.goal)

	o.Update(math.NaN())
	settle(o)
	d := o.Distance()
	require.False(t, math.IsNaN(d))
	assert.GreaterOrEqual(t, d, DefaultMinDistance)
	assert.LessOrEqual(t, d, DefaultMaxDistance)

	o.Wheel(1)
	settle(o)
	assert.Less(t, o.Distance(), goal.Distance)
}

func TestZoomDisabled(t *testing.T) {
	cfg := DefaultOrbitConfig()
	cfg.EnableZoom = false
	o := NewOrbitAdapter(cfg, startPosition)
	start := o.goal.Distance

	o.Zoom(3)
	o.Wheel(5)
	assert.Equal(t, start, o.goal.Distance)
}

func TestPanDisabled(t *testing.T) {
	o := NewOrbitAdapter(DefaultOrbitConfig(), startPosition)
	assert.False(t, o.PanEnabled())
	assert.False(t, o.Pan(10, 10))
	assert.Equal(t, math3d.Zero3(), o.Target())
}

func TestRotatePolarStaysInsideRange(t *testing.T) {
	cfg := DefaultOrbitConfig()
	cfg.Damping = false
	o := NewOrbitAdapter(cfg, startPosition)

	o.Rotate(0, 100)
	o.Update(0)
	assert.Greater(t, o.Current().Polar, 0.0)

	o.Rotate(0, -100)
	o.Update(0)
	assert.Less(t, o.Current().Polar, math.Pi)

	pos := o.CameraPosition()
	assert.False(t, math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsNaN(pos.Z))
}

func TestToggleAutoRotateTwice(t *testing.T) {
	o := NewOrbitAdapter(DefaultOrbitConfig(), startPosition)
	initial := o.AutoRotate()

	assert.Equal(t, !initial, o.ToggleAutoRotate())
	assert.Equal(t, initial, o.ToggleAutoRotate())
	assert.Equal(t, initial, o.AutoRotate())
}

func TestAutoRotateRate(t *testing.T) {
	cfg := DefaultOrbitConfig()
	cfg.Damping = false
	o := NewOrbitAdapter(cfg, startPosition)

	o.Update(1)
	// Speed 2 is one revolution per 30 seconds.
	assert.InDelta(t, -2*math.Pi/30, o.Current().Azimuth, 1e-9)
	assert.InDelta(t, math.Sqrt(29), o.Distance(), 1e-9)
}

func TestAutoRotateHoldsWhileOrbiting(t *testing.T) {
	cfg := DefaultOrbitConfig()
	cfg.Damping = false
	o := NewOrbitAdapter(cfg, startPosition)

	o.BeginOrbit()
	require.True(t, o.Orbiting())
	o.Update(1)
	assert.Equal(t, 0.0, o.Current().Azimuth)

	o.EndOrbit()
	o.Update(1)
	assert.NotEqual(t, 0.0, o.Current().Azimuth)
}

func TestAutoRotateOff(t *testing.T) {
	cfg := DefaultOrbitConfig()
	cfg.AutoRotate = false
	o := NewOrbitAdapter(cfg, startPosition)
	settle(o)
	assert.True(t, o.CameraPosition().ApproxEqual(startPosition, 1e-9))
}

func TestDampingEasesTowardGoal(t *testing.T) {
	cfg := DefaultOrbitConfig()
	cfg.AutoRotate = false
	o := NewOrbitAdapter(cfg, startPosition)

	o.SetDistance(3)
	o.Update(1.0 / 60)
	mid := o.Distance()
	assert.Less(t, mid, math.Sqrt(29))
	assert.Greater(t, mid, 3.0)

	settle(o)
	assert.InDelta(t, 3.0, o.Distance(), 1e-3)
}

func TestOrbitReset(t *testing.T) {
	o := NewOrbitAdapter(DefaultOrbitConfig(), startPosition)
	o.Rotate(1, 0.3)
	o.SetDistance(8)
	o.BeginOrbit()
	settle(o)

	o.Reset()
	assert.False(t, o.Orbiting())
	assert.True(t, o.CameraPosition().ApproxEqual(startPosition, 1e-9))
}

func TestInteractionStateLabel(t *testing.T) {
	assert.Equal(t, "Stop Rotation", NewInteractionState(true).ToggleLabel())
	assert.Equal(t, "Auto Rotate", NewInteractionState(false).ToggleLabel())
}
