// Wave Tuner - an ImGui tool for tuning the ocean parameters against a live
// software-rendered preview.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Beygs/Waves/internal/config"
	"github.com/Beygs/Waves/internal/engine/camera"
	"github.com/Beygs/Waves/internal/engine/debug"
	"github.com/Beygs/Waves/internal/engine/raster"
	"github.com/Beygs/Waves/internal/engine/scene"
	"github.com/Beygs/Waves/internal/engine/ui"
	"github.com/Beygs/Waves/internal/logger"
	"github.com/Beygs/Waves/pkg/ocean"
)

// The preview trades resolution for interactivity.
const (
	previewWidth    = 640
	previewHeight   = 360
	previewSegments = 160
)

func main() {
	runtime.LockOSThread()

	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	app, err := NewApp(cfg, config.ConfigPath())
	if err != nil {
		logger.Error("failed to start tuner", zap.Error(err))
		os.Exit(1)
	}
	defer app.Close()

	app.Run()
}

// App holds the tuner state. Everything except the dialog goroutines runs
// on the main thread.
type App struct {
	cfg     *config.Config
	cfgPath string // Preset file; empty saves to the user config dir
	log     *zap.Logger
	ctx     context.Context

	backend *ui.Backend
	scene   *scene.Scene
	raster  *raster.Renderer
	rig     *camera.Rig
	panel   *ui.Panel
	preview ui.Texture
	shots   *debug.ScreenshotCapture

	// Dialog results are handed back here and applied in render.
	dialogs chan dialogResult

	statusMsg           string
	statusTime          time.Time
	screenshotRequested bool // Captured at the start of the next frame
	lastProbe           ocean.Sample
}

// NewApp creates the tuner window and the preview pipeline.
func NewApp(cfg *config.Config, cfgPath string) (*App, error) {
	app := &App{
		cfg:     cfg,
		cfgPath: cfgPath,
		log:     logger.Named("tuner"),
		ctx:     context.Background(),
		shots:   debug.NewScreenshotCapture(cfg.Render.OutputDir, "tuner"),
		dialogs: make(chan dialogResult, 1),
	}

	src, err := cfg.NoiseSource()
	if err != nil {
		return nil, fmt.Errorf("noise: %w", err)
	}
	app.scene, err = scene.New(scene.Config{
		Width:    cfg.Surface.Width,
		Depth:    cfg.Surface.Depth,
		Segments: previewSegments,
		Workers:  cfg.Surface.Workers,
		Noise:    src,
		Params:   cfg.Waves,
	})
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	app.raster, err = raster.New(previewWidth, previewHeight)
	if err != nil {
		return nil, fmt.Errorf("rasterizer: %w", err)
	}
	app.raster.SetClearColor(cfg.Graphics.ClearColor)
	app.raster.SetWorkers(cfg.Surface.Workers)

	app.rig = camera.NewRig(camera.Lens{FOV: cfg.Camera.FOV, Near: cfg.Camera.Near, Far: cfg.Camera.Far}, cfg.Camera.AutoOrbit)
	app.panel = ui.NewPanel(app.scene.Params)

	app.backend, err = ui.NewBackend("Wave Tuner", 1280, 760, cfg.Graphics.ClearColor)
	if err != nil {
		return nil, err
	}
	app.updateTitle()

	for _, key := range cfg.Waves.OutOfRange() {
		app.log.Warn("wave parameter outside panel range", zap.String("param", key))
	}
	return app, nil
}

// Close releases GPU resources.
func (app *App) Close() {
	app.preview.Release()
}

// Run starts the main application loop.
func (app *App) Run() {
	app.backend.Run(app.render)
}

func (app *App) render() {
	// Capture at frame start so the front buffer holds the previous frame.
	if app.screenshotRequested {
		app.screenshotRequested = false
		app.captureWindow()
	}

	app.applyDialogResults()
	app.handleShortcuts()
	app.renderPreviewImage()

	if imgui.BeginMainMenuBar() {
		if imgui.BeginMenu("File") {
			if imgui.MenuItemBool("Open...") {
				app.openPresetDialog()
			}
			if imgui.MenuItemBool("Save") {
				app.save()
			}
			if imgui.MenuItemBool("Save As...") {
				app.savePresetDialog()
			}
			imgui.Separator()
			if imgui.MenuItemBool("Save Preview PNG") {
				app.savePreview()
			}
			if imgui.MenuItemBool("Reset") {
				app.reset()
			}
			imgui.Separator()
			if imgui.MenuItemBool("Exit") {
				logger.Sync()
				os.Exit(0)
			}
			imgui.EndMenu()
		}
		imgui.EndMainMenuBar()
	}

	posX, posY, width, height := ui.GetViewport()
	leftPanelWidth := float32(360)
	statusBarHeight := float32(30)
	contentHeight := height - statusBarHeight

	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	imgui.SetNextWindowPos(imgui.NewVec2(posX, posY))
	imgui.SetNextWindowSize(imgui.NewVec2(leftPanelWidth, contentHeight))
	if imgui.BeginV("Parameters", nil, flags) {
		if app.panel.Draw() {
			app.updateTitle()
		}
		imgui.Separator()
		app.renderPlayback()
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(posX+leftPanelWidth, posY))
	imgui.SetNextWindowSize(imgui.NewVec2(width-leftPanelWidth, contentHeight))
	if imgui.BeginV("Preview", nil, flags) {
		avail := imgui.ContentRegionAvail()
		app.preview.Draw(avail.X, avail.Y)
	}
	imgui.End()

	imgui.SetNextWindowPos(imgui.NewVec2(posX, posY+contentHeight))
	imgui.SetNextWindowSize(imgui.NewVec2(width, statusBarHeight))
	statusFlags := flags | imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoScrollbar
	if imgui.BeginV("##StatusBar", nil, statusFlags) {
		app.renderStatusBar()
	}
	imgui.End()
}

func (app *App) handleShortcuts() {
	switch {
	case ui.IsChordPressed(imgui.KeyS):
		app.save()
	case ui.IsChordPressed(imgui.KeyO):
		app.openPresetDialog()
	case ui.IsKeyPressed(imgui.KeyF12):
		app.screenshotRequested = true
	}
}

// renderPreviewImage displaces the preview mesh for the current time and
// rasterizes it into the preview texture.
func (app *App) renderPreviewImage() {
	frame, err := app.scene.Advance(app.ctx)
	if err != nil {
		app.setStatus(fmt.Sprintf("Displacement failed: %v", err))
		return
	}
	img, err := app.raster.Render(app.ctx, frame.Mesh, app.rig.ViewProjection(frame.Time, app.raster.Aspect()), frame.Params)
	if err != nil {
		app.setStatus(fmt.Sprintf("Preview failed: %v", err))
		return
	}
	app.preview.Update(img)
	app.lastProbe = app.scene.Probe(0, 0, frame.Time)
}

func (app *App) renderPlayback() {
	if !imgui.TreeNodeExStrV("Playback", imgui.TreeNodeFlagsDefaultOpen) {
		return
	}
	clock := app.scene.Clock

	paused := clock.Paused()
	if imgui.Checkbox("Paused", &paused) {
		if paused {
			clock.Pause()
		} else {
			clock.Resume()
		}
	}
	t := float32(clock.Elapsed())
	if imgui.SliderFloatV("Time", &t, 0, 120, "%.2f s", imgui.SliderFlagsNone) {
		clock.Set(float64(t))
	}
	if imgui.Button("Reset Clock") {
		clock.Reset()
	}

	auto := app.rig.Auto()
	if imgui.Checkbox("Auto Orbit", &auto) {
		app.rig.SetAuto(auto)
	}
	imgui.TreePop()
}

func (app *App) renderStatusBar() {
	if app.statusMsg != "" && time.Since(app.statusTime) < 3*time.Second {
		imgui.Text(app.statusMsg)
		return
	}
	s := app.lastProbe
	imgui.Text(fmt.Sprintf("t = %.2f s", app.scene.Clock.Elapsed()))
	imgui.SameLine()
	imgui.TextDisabled(fmt.Sprintf("origin elevation %+.4f  color %s", s.Elevation, s.Color.Hex()))
}

func (app *App) setStatus(msg string) {
	app.statusMsg = msg
	app.statusTime = time.Now()
}

func (app *App) updateTitle() {
	name := "unsaved"
	if app.cfgPath != "" {
		name = filepath.Base(app.cfgPath)
	}
	app.backend.SetWindowTitle(fmt.Sprintf("Wave Tuner - %s", name))
}

func (app *App) reset() {
	app.scene.Params.Set(ocean.DefaultParams())
	app.setStatus("Parameters reset to defaults")
}

// save writes the current parameters to the preset file, or to the user
// config dir when no preset is open.
func (app *App) save() {
	app.cfg.Waves = app.scene.Params.Snapshot()

	path := app.cfgPath
	var err error
	if path == "" {
		path, err = app.cfg.Save()
	} else {
		err = app.cfg.SaveTo(path)
	}
	if err != nil {
		app.log.Error("save failed", zap.Error(err))
		app.setStatus(fmt.Sprintf("Save failed: %v", err))
		return
	}
	app.log.Info("preset saved", zap.String("path", path))
	app.setStatus("Saved " + path)
}

func (app *App) savePreview() {
	path, err := app.shots.CaptureFromImage(app.raster.Image())
	if err != nil {
		app.setStatus(fmt.Sprintf("Preview save failed: %v", err))
		return
	}
	app.setStatus("Preview saved: " + path)
}
