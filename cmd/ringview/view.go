package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/ringview/pkg/ar"
	"github.com/taigrr/ringview/pkg/config"
	"github.com/taigrr/ringview/pkg/logging"
	"github.com/taigrr/ringview/pkg/render"
	"github.com/taigrr/ringview/pkg/viewer"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type viewOptions struct {
	ar      bool
	arAsset string
	stats   bool
}

func newViewCmd(root *rootOptions) *cobra.Command {
	opts := &viewOptions{}
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View the ring interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd, root, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.ar, "ar", false, "prepare the ring for the AR viewer (A to open)")
	cmd.Flags().StringVar(&opts.arAsset, "ar-asset", "", "GLB to hand to the AR viewer instead of the exported ring")
	cmd.Flags().BoolVar(&opts.stats, "hud", false, "show FPS and polygon stats")
	return cmd
}

func runView(cmd *cobra.Command, root *rootOptions, opts *viewOptions) error {
	cfg, err := root.load(cmd)
	if err != nil {
		return err
	}
	logger, err := logging.ForTerminal(cfg.LogOptions())
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Any-event mouse tracking with SGR coordinates, for hover and drag.
	fmt.Fprint(os.Stdout, "\x1b[?1003h")
	fmt.Fprint(os.Stdout, "\x1b[?1006h")
	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	screen := render.NewTerminalRenderer(term, width, height)
	fbWidth, fbHeight := screen.FramebufferSize()
	hud := NewHUD()
	if opts.stats {
		hud.ToggleStats()
	}

	// Resizes arrive on the event goroutine but the terminal is drawn on
	// the frame goroutine; the presenter picks the new size up.
	var pendingSize atomic.Pointer[[2]int]
	// The AR turntable advances with the frames once the viewer exists.
	var arRef atomic.Pointer[ar.AssetViewer]
	lastFrame := time.Now()
	present := func(fb *render.Framebuffer, st viewer.State) {
		now := time.Now()
		if v := arRef.Load(); v != nil {
			v.Advance(now.Sub(lastFrame).Seconds())
			hud.SetARPose(v.Pose())
		}
		lastFrame = now
		if size := pendingSize.Swap(nil); size != nil {
			screen.SetSize(size[0], size[1])
		}
		screen.Render(fb)
		w, h := screen.Size()
		hud.UpdateFPS()
		hud.Render(screen.Screen(), w, h, st)
		if err := screen.Flush(); err != nil {
			logger.Warn("flush terminal", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shell := viewer.New(cfg,
		viewer.WithLogger(logger),
		viewer.WithSize(fbWidth, fbHeight),
		viewer.WithPresenter(present))
	if err := shell.Mount(ctx); err != nil {
		return err
	}
	defer shell.Unmount()
	hud.SetPolyCount(shell.TriangleCount())

	var arViewer *ar.AssetViewer
	if opts.ar || cfg.AR.Enabled {
		v, cleanup, err := startAR(ctx, cfg, opts.arAsset, shell, logger)
		if err != nil {
			return err
		}
		defer cleanup()
		defer v.Close()
		arViewer = v
		arRef.Store(v)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return handleEvents(gctx, term, shell, hud, arViewer, &pendingSize, logger)
	})
	if root.configPath != "" {
		g.Go(func() error {
			return config.Watch(gctx, root.configPath,
				func(next config.Config) {
					root.apply(cmd, &next)
					logger.Info("config reloaded", zap.String("finish", next.Finish))
					shell.SetFinish(next.Finish)
					shell.SetAutoRotate(next.AutoRotate)
					shell.SetWireframe(next.Render.Wireframe)
					if arViewer != nil {
						arViewer.SetOrbit(next.ARSettings().Orbit)
					}
				},
				func(err error) {
					logger.Warn("config reload failed", zap.Error(err))
				})
		})
	}
	return g.Wait()
}

// startAR exports (or takes) the GLB asset and starts loading it, reporting
// progress through the shell's AR status.
func startAR(ctx context.Context, cfg config.Config, asset string, shell *viewer.Shell, logger *zap.Logger) (*ar.AssetViewer, func(), error) {
	cleanup := func() {}
	if asset == "" {
		asset = cfg.AR.Asset
	}
	if asset == "" {
		dir, err := os.MkdirTemp("", "ringview-ar-")
		if err != nil {
			return nil, nil, fmt.Errorf("create ar asset dir: %w", err)
		}
		cleanup = func() { _ = os.RemoveAll(dir) }
		asset = filepath.Join(dir, "ring.glb")
		if err := exportRing(cfg.Finish, asset); err != nil {
			cleanup()
			return nil, nil, err
		}
	}

	v := ar.NewAssetViewer(ar.WithSettings(cfg.ARSettings()), ar.WithLogger(logger))
	v.OnLoad(func() {
		ok, err := v.CanActivateAR(ctx)
		switch {
		case err != nil:
			logger.Warn("ar capability probe failed", zap.Error(err))
			shell.SetARStatus(ar.StatusUnavailable)
		case ok:
			shell.SetARStatus(ar.StatusReady)
		default:
			shell.SetARStatus(ar.StatusUnavailable)
		}
	})
	v.OnError(func(error) { shell.SetARStatus(ar.StatusFailed) })

	shell.SetARStatus(ar.StatusLoading)
	v.Load(ctx, asset)
	return v, cleanup, nil
}

// handleEvents forwards terminal input to the shell until the user quits
// or ctx ends.
func handleEvents(ctx context.Context, term *uv.Terminal, shell *viewer.Shell, hud *HUD, arViewer *ar.AssetViewer, pendingSize *atomic.Pointer[[2]int], logger *zap.Logger) error {
	var mouseDown bool
	var lastMouseX, lastMouseY int

	interact := func() {
		if arViewer != nil {
			arViewer.Interact()
		}
	}

	events := term.Events()
	for {
		var ev uv.Event
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-events:
			if !ok {
				return nil
			}
			ev = e
		}

		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			pendingSize.Store(&[2]int{ev.Width, ev.Height})
			shell.Resize(ev.Width, ev.Height*2)

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("escape", "ctrl+c"):
				return nil
			case ev.MatchString("space"):
				shell.ToggleAutoRotate()
				if arViewer != nil {
					arViewer.ToggleAutoRotate()
				}
			case ev.MatchString("r"):
				shell.ResetView()
				if arViewer != nil {
					arViewer.ResetOrientation()
				}
			case ev.MatchString("x"):
				shell.SetWireframe(!shell.State().Wireframe)
			case ev.MatchString("+", "="):
				shell.Wheel(2)
			case ev.MatchString("-", "_"):
				shell.Wheel(-2)
			case ev.MatchString("?", "shift+/"):
				hud.ToggleStats()
			case ev.MatchString("a"):
				if arViewer == nil {
					continue
				}
				logger.Info("ar handoff", zap.Stringer("pose", arViewer.Pose()))
				if err := arViewer.Activate(ctx); err != nil {
					logger.Warn("ar handoff failed", zap.Error(err))
					if errors.Is(err, ar.ErrUnavailable) {
						shell.SetARStatus(ar.StatusUnavailable)
					}
				}
			}

		case uv.MouseClickEvent:
			mouseDown = true
			lastMouseX, lastMouseY = ev.X, ev.Y
			shell.BeginDrag()
			interact()

		case uv.MouseReleaseEvent:
			mouseDown = false
			shell.EndDrag()

		case uv.MouseMotionEvent:
			if !mouseDown {
				shell.PointerMove(ev.X, ev.Y)
				continue
			}
			dx, dy := ev.X-lastMouseX, ev.Y-lastMouseY
			lastMouseX, lastMouseY = ev.X, ev.Y
			// Cells are one pixel wide and two tall.
			shell.Drag(float64(dx), float64(dy*2))
			interact()

		case uv.MouseWheelEvent:
			switch ev.Button {
			case uv.MouseWheelUp:
				shell.Wheel(1)
			case uv.MouseWheelDown:
				shell.Wheel(-1)
			}
			interact()
		}
	}
}
