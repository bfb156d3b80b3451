// Package main renders the ocean headlessly to a numbered PNG sequence
// using the software rasterizer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/Beygs/Waves/internal/config"
	"github.com/Beygs/Waves/internal/engine/camera"
	"github.com/Beygs/Waves/internal/engine/debug"
	"github.com/Beygs/Waves/internal/engine/raster"
	"github.com/Beygs/Waves/internal/engine/scene"
	"github.com/Beygs/Waves/internal/logger"
)

var (
	flagFrames      = flag.Int("frames", 0, "Number of frames to render")
	flagFPS         = flag.Float64("fps", 0, "Frames per second of scene time")
	flagStart       = flag.Float64("start", -1, "Scene time of the first frame in seconds")
	flagOut         = flag.String("out", "", "Output directory")
	flagFrameWidth  = flag.Int("frame-width", 0, "Frame width in pixels")
	flagFrameHeight = flag.Int("frame-height", 0, "Frame height in pixels")
	flagProbe       = flag.Bool("probe", true, "Print the origin elevation and color for every frame")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	applyRenderFlags(&cfg.Render)
	cfg.Normalize()

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Error("render failed", zap.Error(err))
		os.Exit(1)
	}
}

func applyRenderFlags(rc *config.RenderConfig) {
	if *flagFrames > 0 {
		rc.Frames = *flagFrames
	}
	if *flagFPS > 0 {
		rc.FPS = *flagFPS
	}
	if *flagStart >= 0 {
		rc.Start = *flagStart
	}
	if *flagOut != "" {
		rc.OutputDir = *flagOut
	}
	if *flagFrameWidth > 0 {
		rc.Width = *flagFrameWidth
	}
	if *flagFrameHeight > 0 {
		rc.Height = *flagFrameHeight
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	rc := cfg.Render

	src, err := cfg.NoiseSource()
	if err != nil {
		return fmt.Errorf("noise: %w", err)
	}
	for _, key := range cfg.Waves.OutOfRange() {
		logger.Warn("wave parameter outside panel range", zap.String("param", key))
	}

	sc, err := scene.New(scene.Config{
		Width:    cfg.Surface.Width,
		Depth:    cfg.Surface.Depth,
		Segments: rc.Segments,
		Workers:  cfg.Surface.Workers,
		Noise:    src,
		Params:   cfg.Waves,
	})
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}

	r, err := raster.New(rc.Width, rc.Height)
	if err != nil {
		return fmt.Errorf("rasterizer: %w", err)
	}
	r.SetClearColor(cfg.Graphics.ClearColor)
	r.SetWorkers(cfg.Surface.Workers)

	rig := camera.NewRig(camera.Lens{FOV: cfg.Camera.FOV, Near: cfg.Camera.Near, Far: cfg.Camera.Far}, cfg.Camera.AutoOrbit)
	shots := debug.NewScreenshotCapture(rc.OutputDir, "ocean")

	logger.Info("rendering",
		zap.Int("frames", rc.Frames),
		zap.Float64("fps", rc.FPS),
		zap.Float64("start", rc.Start),
		zap.Int("width", rc.Width),
		zap.Int("height", rc.Height),
		zap.Int("segments", rc.Segments),
		zap.String("out", rc.OutputDir),
	)

	began := time.Now()
	for i := 0; i < rc.Frames; i++ {
		t := rc.Start + float64(i)/rc.FPS

		frame, err := sc.At(ctx, t)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		img, err := r.Render(ctx, frame.Mesh, rig.ViewProjection(t, r.Aspect()), frame.Params)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		path, err := shots.SaveFrame(i, img)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		logger.Debug("frame written", zap.Int("frame", i), zap.String("path", path))

		if *flagProbe {
			s := sc.Probe(0, 0, t)
			fmt.Printf("t=%.4f elevation=%+.6f color=%s\n", t, s.Elevation, s.Color.Hex())
		}
	}

	logger.Info("render complete",
		zap.Int("frames", rc.Frames),
		zap.Duration("elapsed", time.Since(began)),
	)
	return nil
}
