package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taigrr/ringview/pkg/ar"
	"github.com/taigrr/ringview/pkg/controls"
	"go.uber.org/goleak"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, controls.DefaultRotationConfig(), cfg.RotationSettings())
	oc := cfg.OrbitSettings()
	assert.Equal(t, 3.0, oc.MinDistance)
	assert.Equal(t, 8.0, oc.MaxDistance)
	assert.True(t, oc.AutoRotate)
	assert.Equal(t, ar.DefaultOrbit, cfg.ARSettings().Orbit)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ringview.yaml")
	writeFile(t, path, `
finish: 18K Rose Gold
autoRotate: false
rotation:
  mode: normalized
orbit:
  maxDistance: 6
ar:
  orbit: 45deg 60deg 1.5m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "18K Rose Gold", cfg.Finish)
	assert.False(t, cfg.AutoRotate)
	assert.True(t, cfg.RotationSettings().Normalize)
	assert.Equal(t, controls.DefaultRotationStep, cfg.Rotation.Step)
	assert.Equal(t, 6.0, cfg.Orbit.MaxDistance)
	assert.Equal(t, 3.0, cfg.Orbit.MinDistance)
	assert.False(t, cfg.OrbitSettings().AutoRotate)
	assert.InDelta(t, 1.5, cfg.ARSettings().Orbit.Radius, 1e-9)
	assert.False(t, cfg.ARSettings().AutoRotate)
	assert.Equal(t, 60, cfg.FPS)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ringview.yaml")
	cfg := DefaultConfig()
	cfg.Finish = "Platinum"
	cfg.Render.Wireframe = true
	cfg.Log.File = "/tmp/ringview.log"

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"fps", func(c *Config) { c.FPS = 0 }},
		{"rotation mode", func(c *Config) { c.Rotation.Mode = "spin" }},
		{"negative step", func(c *Config) { c.Rotation.Step = -1 }},
		{"distance range", func(c *Config) { c.Orbit.MinDistance, c.Orbit.MaxDistance = 8, 3 }},
		{"environment", func(c *Config) { c.Render.Environment = "forest" }},
		{"exposure", func(c *Config) { c.Render.Exposure = 0 }},
		{"ar orbit", func(c *Config) { c.AR.Orbit = "far away" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "fps: [")
	_, err = Load(bad)
	assert.Error(t, err)

	invalidFile := filepath.Join(dir, "invalid.yaml")
	writeFile(t, invalidFile, "fps: 0\n")
	_, err = Load(invalidFile)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestWatchReloads(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "ringview.yaml")
	require.NoError(t, Save(path, DefaultConfig()))

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c Config) { changes <- c }, nil)
	}()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)
	cfg := DefaultConfig()
	cfg.Finish = "18K White Gold"
	require.NoError(t, Save(path, cfg))

	select {
	case got := <-changes:
		assert.Equal(t, "18K White Gold", got.Finish)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}

	cancel()
	require.NoError(t, <-done)
}
