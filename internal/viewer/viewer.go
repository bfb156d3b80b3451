// Package viewer implements the live ocean window: SDL2 events, the frame
// loop and the keyboard control surface.
package viewer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Beygs/Waves/internal/config"
	"github.com/Beygs/Waves/internal/engine/camera"
	"github.com/Beygs/Waves/internal/engine/debug"
	"github.com/Beygs/Waves/internal/engine/framebuffer"
	"github.com/Beygs/Waves/internal/engine/input"
	"github.com/Beygs/Waves/internal/engine/picking"
	"github.com/Beygs/Waves/internal/engine/renderer"
	"github.com/Beygs/Waves/internal/engine/scene"
	"github.com/Beygs/Waves/internal/engine/window"
	"github.com/Beygs/Waves/internal/logger"
	"github.com/Beygs/Waves/pkg/ocean"
)

const title = "Waves"

// pickStep is the ray-march increment for probing, in world units.
const pickStep = 0.02

// Viewer is the live ocean window.
type Viewer struct {
	cfg        *config.Config
	configPath string // Save target; empty saves to the user config dir
	log        *zap.Logger
	running    bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	scene      *scene.Scene
	rig        *camera.Rig
	controller *Controller
	shots      *debug.ScreenshotCapture

	capture *framebuffer.Target // Created on first offscreen capture

	screenshotRequested bool
	captureRequested    bool
}

// New creates the window, GL renderer and scene described by cfg.
func New(cfg *config.Config, configPath string) (*Viewer, error) {
	v := &Viewer{
		cfg:        cfg,
		configPath: configPath,
		log:        logger.Named("viewer"),
		shots:      debug.NewScreenshotCapture(cfg.Render.OutputDir, "waves"),
	}

	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("segments", cfg.Surface.Segments),
		zap.String("noise", cfg.Noise.Backend),
	)

	src, err := cfg.NoiseSource()
	if err != nil {
		return nil, fmt.Errorf("noise: %w", err)
	}
	v.scene, err = scene.New(scene.Config{
		Width:    cfg.Surface.Width,
		Depth:    cfg.Surface.Depth,
		Segments: cfg.Surface.Segments,
		Workers:  cfg.Surface.Workers,
		Noise:    src,
		Params:   cfg.Waves,
	})
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	for _, key := range cfg.Waves.OutOfRange() {
		v.log.Warn("wave parameter outside panel range", zap.String("param", key))
	}

	// Window first: the renderer needs its GL context.
	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	dw, dh := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:        dw,
		Height:       dh,
		ClearColor:   cfg.Graphics.ClearColor,
		SunAzimuth:   cfg.Graphics.SunAzimuth,
		SunElevation: cfg.Graphics.SunElevation,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.input = input.New()
	v.rig = camera.NewRig(camera.Lens{FOV: cfg.Camera.FOV, Near: cfg.Camera.Near, Far: cfg.Camera.Far}, cfg.Camera.AutoOrbit)
	v.controller = NewController(v.scene.Params)

	v.log.Info("viewer initialized successfully")
	return v, nil
}

// Run starts the frame loop and returns when the window closes or ctx is
// cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	v.running = true

	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting frame loop")

	for v.running {
		if ctx.Err() != nil {
			break
		}

		if v.input.Update() {
			v.running = false
			break
		}
		for _, event := range v.input.Events() {
			v.handleEvent(event)
		}

		if err := v.render(ctx); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		v.window.SwapBuffers()

		frameCount++
		if elapsed := time.Since(fpsTimer); elapsed >= time.Second {
			fps := float64(frameCount) / elapsed.Seconds()
			v.window.SetTitle(v.titleText(fps))
			v.log.Debug("fps", zap.Float64("fps", fps))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.capture != nil {
		v.capture.Destroy()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

func (v *Viewer) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		v.renderer.Resize(v.window.DrawableSize())
	case input.EventKeyDown:
		v.handleAction(ActionFor(event.Key, event.Mods), event)
	case input.EventMouseDrag:
		if !v.rig.Auto() {
			v.rig.Orbit.HandleDrag(float32(event.DX), float32(event.DY))
		}
	case input.EventMouseWheel:
		if !v.rig.Auto() {
			v.rig.Orbit.HandleZoom(float32(event.DY))
		}
	case input.EventMouseClick:
		v.probeAt(event.X, event.Y)
	}
}

// probeAt logs the ocean sample under a window position.
func (v *Viewer) probeAt(x, y int) {
	ww, wh := v.window.GetSize()
	dw, dh := v.window.DrawableSize()
	if ww <= 0 || wh <= 0 {
		return
	}

	t := v.scene.Clock.Elapsed()
	inv, ok := v.rig.ViewProjection(t, v.renderer.Aspect()).Inverse()
	if !ok {
		return
	}
	sx := float32(x) * float32(dw) / float32(ww)
	sy := float32(y) * float32(dh) / float32(wh)
	ray := picking.ScreenToRay(sx, sy, float32(dw), float32(dh), inv)

	p := v.scene.Params.Snapshot()
	height := func(px, pz float64) float64 { return v.scene.Surface.ElevationAt(px, pz, t, p) }
	hit, ok := ray.IntersectSurface(height, pickStep, v.cfg.Camera.Far)
	if !ok {
		v.log.Info("probe missed the ocean")
		return
	}

	s := v.scene.Probe(float64(hit.X), float64(hit.Z), t)
	v.log.Info("probe",
		zap.Float64("x", s.X),
		zap.Float64("z", s.Z),
		zap.Float64("time", t),
		zap.Float64("elevation", s.Elevation),
		zap.String("color", s.Color.Hex()),
	)
}

func (v *Viewer) handleAction(a Action, event input.Event) {
	coarse := event.Mods&input.ModShift != 0

	switch a {
	case ActionQuit:
		v.running = false
	case ActionNextField:
		v.controller.Select(1)
		v.log.Info("selected", zap.String("param", v.controller.Status()))
	case ActionPrevField:
		v.controller.Select(-1)
		v.log.Info("selected", zap.String("param", v.controller.Status()))
	case ActionIncrease, ActionDecrease:
		dir := 1
		if a == ActionDecrease {
			dir = -1
		}
		if err := v.controller.Step(dir, coarse); err != nil {
			v.log.Warn("parameter step failed", zap.Error(err))
			return
		}
		if !event.Repeat {
			v.log.Info("parameter changed", zap.String("param", v.controller.Status()))
		}
	case ActionTogglePause:
		paused := v.scene.Clock.Toggle()
		v.log.Info("clock", zap.Bool("paused", paused), zap.Float64("time", v.scene.Clock.Elapsed()))
	case ActionResetClock:
		v.scene.Clock.Reset()
	case ActionToggleOrbit:
		v.rig.SetAuto(!v.rig.Auto())
		v.log.Info("camera", zap.Bool("auto_orbit", v.rig.Auto()))
	case ActionToggleShade:
		if v.renderer.Shade > 0 {
			v.renderer.Shade = 0
		} else {
			v.renderer.Shade = 1
		}
	case ActionResetParams:
		v.scene.Params.Set(ocean.DefaultParams())
		v.log.Info("parameters reset")
	case ActionScreenshot:
		v.screenshotRequested = true
	case ActionCapture:
		v.captureRequested = true
	case ActionSave:
		v.save()
	}
}

func (v *Viewer) render(ctx context.Context) error {
	frame, err := v.scene.Advance(ctx)
	if err != nil {
		return err
	}

	v.renderer.Upload(frame.Mesh)
	v.renderer.Begin()
	v.renderer.DrawOcean(v.rig.ViewProjection(frame.Time, v.renderer.Aspect()), frame.Params)

	if v.screenshotRequested {
		v.screenshotRequested = false
		pixels, w, h := v.renderer.ReadPixels()
		v.saveCapture(pixels, w, h)
	}
	if v.captureRequested {
		v.captureRequested = false
		v.captureOffscreen(frame)
	}
	return nil
}

// captureOffscreen draws frame again into an offscreen target at the render
// resolution and saves it.
func (v *Viewer) captureOffscreen(frame scene.Frame) {
	w, h := v.cfg.Render.Width, v.cfg.Render.Height
	if v.capture == nil {
		target, err := framebuffer.New(w, h)
		if err != nil {
			v.log.Error("offscreen capture unavailable", zap.Error(err))
			return
		}
		v.capture = target
	}
	v.capture.Resize(w, h)

	restore := v.capture.Bind()
	v.renderer.Begin()
	v.renderer.DrawOcean(v.rig.ViewProjection(frame.Time, v.capture.Aspect()), frame.Params)
	pixels := v.capture.ReadPixels()
	restore()

	v.saveCapture(pixels, w, h)
}

func (v *Viewer) saveCapture(pixels []byte, w, h int) {
	path, err := v.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

func (v *Viewer) save() {
	v.cfg.Waves = v.scene.Params.Snapshot()
	path := v.configPath
	var err error
	if path == "" {
		path, err = v.cfg.Save()
	} else {
		err = v.cfg.SaveTo(path)
	}
	if err != nil {
		v.log.Error("failed to save config", zap.Error(err))
		return
	}
	v.log.Info("config saved", zap.String("path", path))
}

func (v *Viewer) titleText(fps float64) string {
	s := fmt.Sprintf("%s - %.0f fps - %s", title, fps, v.controller.Status())
	if v.scene.Clock.Paused() {
		s += " [paused]"
	}
	return s
}
