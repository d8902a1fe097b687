package ar

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"sync"

	"github.com/taigrr/ringview/pkg/math3d"
	"github.com/taigrr/ringview/pkg/models"
	"go.uber.org/zap"
)

// ErrUnavailable is returned by Activate when no AR handoff is possible.
var ErrUnavailable = errors.New("ar: no viewer available")

// Viewer is what the ring viewer needs from an AR viewer.
type Viewer interface {
	CanActivateAR(ctx context.Context) (bool, error)
	ResetOrientation()
	OnLoad(fn func())
	OnError(fn func(error))
	Load(ctx context.Context, path string)
}

// Status summarizes a Viewer for display.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusUnavailable
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "AR: loading"
	case StatusReady:
		return "AR: ready"
	case StatusUnavailable:
		return "AR: unavailable"
	case StatusFailed:
		return "AR: failed to load"
	default:
		return ""
	}
}

// AssetViewer is a local Viewer. It loads a GLB asset in the background and
// hands it to the platform's default opener when AR is activated.
type AssetViewer struct {
	settings Settings
	logger   *zap.Logger
	lookPath func(string) (string, error)
	goos     string

	wg sync.WaitGroup

	mu         sync.Mutex
	gen        int
	status     Status
	path       string
	mesh       *models.Mesh
	orbit      Orbit
	turntable  float64
	idle       float64
	autoRotate bool
	onLoad     []func()
	onError    []func(error)
}

var _ Viewer = (*AssetViewer)(nil)

// Option configures an AssetViewer.
type Option func(*AssetViewer)

// WithSettings replaces DefaultSettings.
func WithSettings(s Settings) Option {
	return func(v *AssetViewer) { v.settings = s }
}

// WithLogger sets the logger. The default discards.
func WithLogger(l *zap.Logger) Option {
	return func(v *AssetViewer) { v.logger = l }
}

// WithLookPath replaces exec.LookPath when probing for an opener.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(v *AssetViewer) { v.lookPath = fn }
}

// WithPlatform overrides runtime.GOOS when choosing an opener.
func WithPlatform(goos string) Option {
	return func(v *AssetViewer) { v.goos = goos }
}

// NewAssetViewer creates a viewer with no asset loaded.
func NewAssetViewer(opts ...Option) *AssetViewer {
	v := &AssetViewer{
		settings: DefaultSettings(),
		logger:   zap.NewNop(),
		lookPath: exec.LookPath,
		goos:     runtime.GOOS,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.orbit = v.settings.Orbit
	v.autoRotate = v.settings.AutoRotate
	return v
}

// Settings returns the viewer's settings.
func (v *AssetViewer) Settings() Settings { return v.settings }

// OnLoad registers fn to run after each successful load.
func (v *AssetViewer) OnLoad(fn func()) {
	v.mu.Lock()
	v.onLoad = append(v.onLoad, fn)
	v.mu.Unlock()
}

// OnError registers fn to run when a load fails.
func (v *AssetViewer) OnError(fn func(error)) {
	v.mu.Lock()
	v.onError = append(v.onError, fn)
	v.mu.Unlock()
}

// Load starts loading the GLB at path. A later Load supersedes an earlier
// one still in flight; only the latest reports through OnLoad or OnError.
func (v *AssetViewer) Load(ctx context.Context, path string) {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.status = StatusLoading
	v.mu.Unlock()

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		mesh, err := models.LoadGLB(path)
		if err == nil && ctx.Err() != nil {
			mesh.Release()
			mesh, err = nil, ctx.Err()
		}
		v.finish(gen, path, mesh, err)
	}()
}

func (v *AssetViewer) finish(gen int, path string, mesh *models.Mesh, err error) {
	v.mu.Lock()
	if gen != v.gen {
		v.mu.Unlock()
		if mesh != nil {
			mesh.Release()
		}
		return
	}
	if err != nil {
		v.status = StatusFailed
		listeners := append([]func(error){}, v.onError...)
		v.mu.Unlock()

		err = fmt.Errorf("load ar asset %s: %w", path, err)
		v.logger.Warn("ar asset failed", zap.String("path", path), zap.Error(err))
		for _, fn := range listeners {
			fn(err)
		}
		return
	}
	if v.mesh != nil {
		v.mesh.Release()
	}
	v.mesh, v.path, v.status = mesh, path, StatusReady
	listeners := append([]func(){}, v.onLoad...)
	v.mu.Unlock()

	v.logger.Debug("ar asset loaded",
		zap.String("path", path),
		zap.Int("triangles", mesh.TriangleCount()))
	for _, fn := range listeners {
		fn()
	}
}

// Wait blocks until every in-flight Load has reported.
func (v *AssetViewer) Wait() { v.wg.Wait() }

// Close waits for loads and drops the loaded asset.
func (v *AssetViewer) Close() {
	v.Wait()
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mesh != nil {
		v.mesh.Release()
		v.mesh = nil
	}
	v.onLoad, v.onError = nil, nil
}

// Status reports the load state.
func (v *AssetViewer) Status() Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// Mesh returns the loaded asset, or nil.
func (v *AssetViewer) Mesh() *models.Mesh {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mesh
}

func (v *AssetViewer) opener() string {
	switch v.goos {
	case "darwin":
		return "open"
	case "windows":
		return "explorer"
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open"
	}
	return ""
}

// CanActivateAR reports whether an asset is loaded and the platform has an
// opener to hand it to.
func (v *AssetViewer) CanActivateAR(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if v.Mesh() == nil {
		return false, nil
	}
	name := v.opener()
	if name == "" {
		return false, nil
	}
	if _, err := v.lookPath(name); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("look up %s: %w", name, err)
	}
	return true, nil
}

// Activate hands the loaded asset to the platform opener.
func (v *AssetViewer) Activate(ctx context.Context) error {
	ok, err := v.CanActivateAR(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnavailable
	}
	v.mu.Lock()
	path := v.path
	v.mu.Unlock()

	name := v.opener()
	v.logger.Info("handing off ar asset", zap.String("opener", name), zap.String("path", path))
	if err := exec.CommandContext(ctx, name, path).Run(); err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	return nil
}

// ResetOrientation stops the turntable at zero and returns to the default orbit.
func (v *AssetViewer) ResetOrientation() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.turntable = 0
	v.idle = 0
	v.orbit = v.settings.Orbit
}

// ToggleAutoRotate flips the turntable and returns the new state.
func (v *AssetViewer) ToggleAutoRotate() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.autoRotate = !v.autoRotate
	return v.autoRotate
}

// AutoRotate reports whether the turntable is enabled.
func (v *AssetViewer) AutoRotate() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.autoRotate
}

// Interact marks user input, holding the turntable for AutoRotateDelay.
func (v *AssetViewer) Interact() {
	v.mu.Lock()
	v.idle = 0
	v.mu.Unlock()
}

// Advance moves the turntable by dt seconds.
func (v *AssetViewer) Advance(dt float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.autoRotate {
		return
	}
	if v.idle < v.settings.AutoRotateDelay {
		v.idle += dt
		return
	}
	v.turntable += v.settings.RotationPerSecond * dt
}

// Turntable returns the accumulated turntable rotation in radians.
func (v *AssetViewer) Turntable() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.turntable
}

// Orbit returns the current camera orbit.
func (v *AssetViewer) Orbit() Orbit {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.orbit
}

// Pose returns the orbit the handoff opens at: the camera orbit turned by
// the turntable, with theta in [0, 2π).
func (v *AssetViewer) Pose() Orbit {
	v.mu.Lock()
	defer v.mu.Unlock()
	o := v.orbit
	o.Theta = math3d.WrapAngle(o.Theta + v.turntable)
	return o
}

// SetOrbit moves the camera, clamped to the settings bounds.
func (v *AssetViewer) SetOrbit(o Orbit) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.orbit = v.settings.ClampOrbit(o)
	v.idle = 0
}
