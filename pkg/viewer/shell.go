// Package viewer runs the ring viewer: it owns the scene, camera, lights,
// interaction state and renderer, and drives them from a frame loop.
//
// Input methods may be called from any goroutine. They queue an event that
// the next Frame applies, in order, before advancing the scene.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/taigrr/ringview/pkg/ar"
	"github.com/taigrr/ringview/pkg/config"
	"github.com/taigrr/ringview/pkg/controls"
	"github.com/taigrr/ringview/pkg/math3d"
	"github.com/taigrr/ringview/pkg/models"
	"github.com/taigrr/ringview/pkg/render"
	"github.com/taigrr/ringview/pkg/scene"
	"go.uber.org/zap"
)

// ErrNotMounted is returned by Frame and SavePNG outside Mount/Unmount.
var ErrNotMounted = errors.New("viewer: not mounted")

// Pick ids written by the renderer.
const (
	bandID int32 = 1
	partID int32 = 2
)

const fullTurn = 2 * math.Pi

// Default framebuffer size in pixels.
const (
	DefaultWidth  = 160
	DefaultHeight = 96
)

// State is what listeners observe after a frame.
type State struct {
	Interaction controls.InteractionState
	Rotation    controls.RotationMode
	AR          ar.Status
	Finish      string
	Wireframe   bool
}

// ToggleLabel is the text of the auto-rotate toggle.
func (s State) ToggleLabel() string {
	return s.Interaction.ToggleLabel()
}

// Presenter receives every frame drawn by the loop.
type Presenter func(fb *render.Framebuffer, st State)

// Shell is a mountable ring viewer.
type Shell struct {
	cfg       config.Config
	logger    *zap.Logger
	width     int
	height    int
	loop      bool
	presenter Presenter

	// queue only accepts input between Mount and Unmount.
	queueMu sync.Mutex
	queue   []event
	open    bool

	listenerMu sync.Mutex
	listeners  map[uint64]func(State)
	nextID     uint64

	sessionMu sync.Mutex
	session   *session

	// frameMu guards everything below; it is held for a whole Frame.
	frameMu     sync.Mutex
	mounted     bool
	assembly    *scene.Assembly
	model       *models.Model
	meshes      map[*scene.Node]*models.Mesh
	instances   []render.Instance
	renderer    *render.Renderer
	rotation    *controls.RotationController
	orbit       *controls.OrbitAdapter
	interaction controls.InteractionState
	arStatus    ar.Status
	published   State
	hasState    bool
}

type session struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Option configures a Shell.
type Option func(*Shell)

// WithLogger sets the logger. The default discards.
func WithLogger(l *zap.Logger) Option {
	return func(s *Shell) { s.logger = l }
}

// WithSize sets the framebuffer size in pixels.
func WithSize(width, height int) Option {
	return func(s *Shell) { s.width, s.height = width, height }
}

// WithPresenter sets the function that displays each frame.
func WithPresenter(p Presenter) Option {
	return func(s *Shell) { s.presenter = p }
}

// WithoutFrameLoop leaves frame timing to the caller, who calls Frame.
func WithoutFrameLoop() Option {
	return func(s *Shell) { s.loop = false }
}

// New creates an unmounted shell.
func New(cfg config.Config, opts ...Option) *Shell {
	s := &Shell{
		cfg:       cfg,
		logger:    zap.NewNop(),
		width:     DefaultWidth,
		height:    DefaultHeight,
		loop:      true,
		listeners: make(map[uint64]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.FPS <= 0 {
		s.cfg.FPS = 60
	}
	return s
}

// Mount builds the scene and, unless WithoutFrameLoop was given, starts the
// frame loop. The loop stops when ctx is cancelled or on Unmount.
func (s *Shell) Mount(ctx context.Context) error {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	s.frameMu.Lock()
	if s.mounted {
		s.frameMu.Unlock()
		return errors.New("viewer: already mounted")
	}
	env, err := render.EnvironmentPreset(s.cfg.Render.Environment)
	if err != nil {
		s.frameMu.Unlock()
		return fmt.Errorf("mount: %w", err)
	}

	rig := scene.StudioRig()
	if err := scene.ValidateLights(rig); err != nil {
		s.frameMu.Unlock()
		return fmt.Errorf("mount: %w", err)
	}
	s.renderer = render.NewRenderer(s.width, s.height, rig, env)
	s.renderer.Shader.Exposure = s.cfg.Render.Exposure
	s.renderer.Wireframe = s.cfg.Render.Wireframe
	if !s.cfg.Render.ContactShadow {
		s.renderer.Shadow = nil
	}
	if err := s.rebuild(s.cfg.Finish); err != nil {
		s.renderer.Release()
		s.frameMu.Unlock()
		return fmt.Errorf("mount: %w", err)
	}
	s.rotation = controls.NewRotationController(s.cfg.RotationSettings())
	s.orbit = controls.NewOrbitAdapter(s.cfg.OrbitSettings(), render.DefaultCameraPosition)
	s.interaction = controls.NewInteractionState(s.cfg.AutoRotate)
	s.arStatus = ar.StatusIdle
	s.hasState = false
	s.mounted = true
	s.queueMu.Lock()
	s.queue, s.open = nil, true
	s.queueMu.Unlock()
	s.frameMu.Unlock()

	s.logger.Info("viewer mounted",
		zap.String("finish", s.cfg.Finish),
		zap.Int("triangles", s.model.TriangleCount()),
		zap.Int("width", s.width),
		zap.Int("height", s.height))

	ctx, cancel := context.WithCancel(ctx)
	sess := &session{cancel: cancel, done: make(chan struct{})}
	s.session = sess
	if !s.loop {
		close(sess.done)
		return nil
	}
	go s.run(ctx, sess.done)
	return nil
}

// rebuild replaces the ring with one for finish, keeping the current yaw.
func (s *Shell) rebuild(finish string) error {
	yaw := 0.0
	if s.assembly != nil {
		yaw = s.assembly.Yaw()
	}
	assembly := scene.BuildRing(finish)
	model, err := models.Tessellate(assembly)
	if err != nil {
		return fmt.Errorf("tessellate %q: %w", finish, err)
	}
	if s.model != nil {
		s.model.Release()
	}
	assembly.SetYaw(yaw)
	s.assembly, s.model = assembly, model
	s.cfg.Finish = finish

	s.meshes = make(map[*scene.Node]*models.Mesh, len(model.Parts))
	for _, p := range model.Parts {
		s.meshes[p.Node] = p.Mesh
	}
	s.instances = make([]render.Instance, 0, len(model.Parts))
	return nil
}

func (s *Shell) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.FPS))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if err := s.Frame(dt); err != nil {
				s.logger.Debug("frame loop stopped", zap.Error(err))
				return
			}
		}
	}
}

// Unmount stops the frame loop, waits for the frame in flight and releases
// the renderer and meshes. Only the first call after a Mount has an effect.
// It must not be called from a listener or presenter.
func (s *Shell) Unmount() {
	s.sessionMu.Lock()
	sess := s.session
	s.sessionMu.Unlock()
	if sess == nil {
		return
	}

	sess.once.Do(func() {
		sess.cancel()
		<-sess.done

		s.frameMu.Lock()
		defer s.frameMu.Unlock()
		s.mounted = false
		s.renderer.Release()
		s.model.Release()
		s.assembly, s.model, s.meshes, s.instances = nil, nil, nil, nil
		s.interaction = controls.InteractionState{}

		s.queueMu.Lock()
		s.queue, s.open = nil, false
		s.queueMu.Unlock()

		s.logger.Info("viewer unmounted")
	})
}

// Mounted reports whether the shell is between Mount and Unmount.
func (s *Shell) Mounted() bool {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	return s.mounted
}

// post queues e for the next frame. Input outside a mount is dropped.
func (s *Shell) post(e event) {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	if !s.open {
		return
	}
	s.queue = append(s.queue, e)
}

func (s *Shell) drain() []event {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	q := s.queue
	s.queue = nil
	return q
}

// HoverStart reports the pointer entering the band.
func (s *Shell) HoverStart() { s.post(hoverEvent{on: true}) }

// HoverEnd reports the pointer leaving the band.
func (s *Shell) HoverEnd() { s.post(hoverEvent{on: false}) }

// PointerMove reports the pointer at a terminal cell. The hover state
// follows whether the band was drawn under it in the previous frame.
func (s *Shell) PointerMove(col, row int) { s.post(pointerEvent{col: col, row: row}) }

// BeginDrag marks the start of an orbit drag.
func (s *Shell) BeginDrag() { s.post(dragStartEvent{}) }

// EndDrag marks the end of an orbit drag.
func (s *Shell) EndDrag() { s.post(dragEndEvent{}) }

// Drag orbits the camera by a pointer delta in framebuffer pixels.
func (s *Shell) Drag(dx, dy float64) { s.post(dragEvent{dx: dx, dy: dy}) }

// Pinch zooms by a gesture scale; above 1 moves closer.
func (s *Shell) Pinch(scale float64) { s.post(pinchEvent{scale: scale}) }

// Wheel zooms by scroll steps; positive moves closer.
func (s *Shell) Wheel(steps float64) { s.post(wheelEvent{steps: steps}) }

// ToggleAutoRotate flips the camera auto-rotation.
func (s *Shell) ToggleAutoRotate() { s.post(toggleEvent{}) }

// SetAutoRotate sets the camera auto-rotation.
func (s *Shell) SetAutoRotate(on bool) { s.post(autoRotateEvent{on: on}) }

// ResetView returns the camera and the ring spin to their mount state.
func (s *Shell) ResetView() { s.post(resetEvent{}) }

// SetARStatus sets the AR status shown to listeners.
func (s *Shell) SetARStatus(st ar.Status) { s.post(arStatusEvent{status: st}) }

// SetFinish rebuilds the ring in another finish.
func (s *Shell) SetFinish(finish string) { s.post(finishEvent{finish: finish}) }

// SetWireframe switches wireframe rendering.
func (s *Shell) SetWireframe(on bool) { s.post(wireframeEvent{on: on}) }

// Resize changes the framebuffer size in pixels.
func (s *Shell) Resize(width, height int) { s.post(resizeEvent{width: width, height: height}) }

// AutoRotate reports the auto-rotation as of the last frame.
func (s *Shell) AutoRotate() bool {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	if !s.mounted {
		return s.cfg.AutoRotate
	}
	return s.orbit.AutoRotate()
}

// OnStateChange registers fn to run on the frame goroutine whenever the
// State differs from the last one published. The returned func removes it.
func (s *Shell) OnStateChange(fn func(State)) func() {
	s.listenerMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenerMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenerMu.Lock()
			delete(s.listeners, id)
			s.listenerMu.Unlock()
		})
	}
}

func (s *Shell) setHovered(on bool) {
	if on == s.interaction.Hovered {
		return
	}
	s.interaction.Hovered = on
	if on {
		s.rotation.HoverStart()
	} else {
		s.rotation.HoverEnd()
	}
}

// Frame applies queued input, advances the spin and the camera, and draws
// one frame. dt is the elapsed time in seconds.
func (s *Shell) Frame(dt float64) error {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	if !s.mounted {
		return ErrNotMounted
	}

	for _, e := range s.drain() {
		e.apply(s)
	}

	s.assembly.SetYaw(s.rotation.Step(dt))
	s.orbit.Update(dt)
	s.interaction.Orbiting = s.orbit.Orbiting()
	s.interaction.AutoRotate = s.orbit.AutoRotate()

	s.renderer.Camera.SetPosition(s.orbit.CameraPosition())
	s.renderer.Camera.SetTarget(s.orbit.Target())
	s.renderer.Render(s.collect())

	st := s.state()
	if s.presenter != nil {
		s.presenter(s.renderer.Framebuffer(), st)
	}
	if !s.hasState || st != s.published {
		s.published, s.hasState = st, true
		s.notify(st)
	}
	return nil
}

// collect places every tessellated leaf at its current world transform.
func (s *Shell) collect() []render.Instance {
	s.instances = s.instances[:0]
	band := s.assembly.Band()
	s.assembly.Walk(func(n *scene.Node, world math3d.Mat4, _ int) bool {
		mesh, ok := s.meshes[n]
		if !ok {
			return true
		}
		id := partID
		if n == band {
			id = bandID
		}
		s.instances = append(s.instances, render.Instance{Mesh: mesh, Transform: world, ID: id})
		return true
	})
	return s.instances
}

func (s *Shell) state() State {
	return State{
		Interaction: s.interaction,
		Rotation:    s.rotation.State().Mode,
		AR:          s.arStatus,
		Finish:      s.cfg.Finish,
		Wireframe:   s.renderer.Wireframe,
	}
}

func (s *Shell) notify(st State) {
	s.listenerMu.Lock()
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenerMu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// State returns the state as of the last frame.
func (s *Shell) State() State {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	if !s.mounted {
		return State{}
	}
	return s.state()
}

// Yaw returns the ring's current rotation about the vertical axis.
func (s *Shell) Yaw() float64 {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	if !s.mounted {
		return 0
	}
	return s.assembly.Yaw()
}

// Camera returns the displayed camera placement.
func (s *Shell) Camera() controls.Spherical {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	if !s.mounted {
		return controls.Spherical{}
	}
	return s.orbit.Current()
}

// Stats returns the renderer's culling statistics for the last frame.
func (s *Shell) Stats() render.CullingStats {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	if !s.mounted {
		return render.CullingStats{}
	}
	return s.renderer.Stats()
}

// TriangleCount returns the triangles drawn per frame.
func (s *Shell) TriangleCount() int {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	if !s.mounted {
		return 0
	}
	return s.model.TriangleCount()
}

// SavePNG writes the last frame to path.
func (s *Shell) SavePNG(path string) error {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()
	if !s.mounted {
		return ErrNotMounted
	}
	return s.renderer.Framebuffer().SavePNG(path)
}
