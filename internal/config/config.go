// Package config handles configuration loading, normalization and
// persistence for the ocean tools.
package config

import (
	"runtime"

	"github.com/Beygs/Waves/pkg/noise"
	"github.com/Beygs/Waves/pkg/ocean"
)

// Config holds all settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Surface  SurfaceConfig  `yaml:"surface"`
	Waves    ocean.Params   `yaml:"waves"`
	Noise    NoiseConfig    `yaml:"noise"`
	Camera   CameraConfig   `yaml:"camera"`
	Render   RenderConfig   `yaml:"render"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings for the live viewer.
type GraphicsConfig struct {
	Width      int       `yaml:"width"`
	Height     int       `yaml:"height"`
	Fullscreen bool      `yaml:"fullscreen"`
	VSync      bool      `yaml:"vsync"`
	ClearColor ocean.RGB `yaml:"clear_color"`

	// Sun for the optional Lambert shading, degrees.
	SunAzimuth   float64 `yaml:"sun_azimuth"`
	SunElevation float64 `yaml:"sun_elevation"`
}

// SurfaceConfig describes the reference plane.
type SurfaceConfig struct {
	Width    float64 `yaml:"width"`    // Extent along X, world units
	Depth    float64 `yaml:"depth"`    // Extent along Z, world units
	Segments int     `yaml:"segments"` // Subdivisions per axis
	Workers  int     `yaml:"workers"`  // Displacement goroutines, 0 = GOMAXPROCS
}

// NoiseConfig selects the noise primitive behind the small waves.
type NoiseConfig struct {
	Backend string `yaml:"backend"` // simplex or perlin
	Seed    int64  `yaml:"seed"`
}

// CameraConfig holds projection and orbit settings.
type CameraConfig struct {
	FOV       float32 `yaml:"fov"` // Vertical, degrees
	Near      float32 `yaml:"near"`
	Far       float32 `yaml:"far"`
	AutoOrbit bool    `yaml:"auto_orbit"`
}

// RenderConfig holds headless rendering settings.
type RenderConfig struct {
	OutputDir string  `yaml:"output_dir"`
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Frames    int     `yaml:"frames"`
	FPS       float64 `yaml:"fps"`
	Start     float64 `yaml:"start"` // Time of the first frame, seconds
	Segments  int     `yaml:"segments"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:        1280,
			Height:       720,
			Fullscreen:   false,
			VSync:        true,
			ClearColor:   ocean.RGBFromHex(0x111122),
			SunAzimuth:   53,
			SunElevation: 63,
		},
		Surface: SurfaceConfig{
			Width:    4,
			Depth:    4,
			Segments: 512,
			Workers:  0,
		},
		Waves: ocean.DefaultParams(),
		Noise: NoiseConfig{
			Backend: noise.BackendSimplex,
			Seed:    0,
		},
		Camera: CameraConfig{
			FOV:       75,
			Near:      0.1,
			Far:       100,
			AutoOrbit: true,
		},
		Render: RenderConfig{
			OutputDir: "frames",
			Width:     960,
			Height:    540,
			Frames:    1,
			FPS:       30,
			Start:     0,
			Segments:  256,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Normalize repairs structurally invalid values that would make the mesh
// or renderers unusable. Wave parameters are left alone: the surface
// evaluates any value.
func (c *Config) Normalize() {
	if c.Surface.Segments < 1 {
		c.Surface.Segments = 1
	}
	if c.Surface.Workers <= 0 {
		c.Surface.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Surface.Width <= 0 {
		c.Surface.Width = 4
	}
	if c.Surface.Depth <= 0 {
		c.Surface.Depth = 4
	}
	if !noise.Valid(c.Noise.Backend) {
		c.Noise.Backend = noise.BackendSimplex
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		c.Camera.FOV = 75
	}
	if c.Camera.Near <= 0 {
		c.Camera.Near = 0.1
	}
	if c.Camera.Far <= c.Camera.Near {
		c.Camera.Far = c.Camera.Near * 1000
	}
	if c.Render.Segments < 1 {
		c.Render.Segments = c.Surface.Segments
	}
	if c.Render.Width < 1 {
		c.Render.Width = 1
	}
	if c.Render.Height < 1 {
		c.Render.Height = 1
	}
	if c.Render.Frames < 1 {
		c.Render.Frames = 1
	}
	if c.Render.FPS <= 0 {
		c.Render.FPS = 30
	}
}

// NoiseSource builds the configured noise primitive.
func (c *Config) NoiseSource() (noise.Source, error) {
	return noise.New(c.Noise.Backend, c.Noise.Seed)
}
