// Package scene drives the ocean frame by frame: it owns the clock, the
// live parameters and the displaced reference plane.
package scene

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Beygs/Waves/internal/engine/surface"
	"github.com/Beygs/Waves/internal/logger"
	"github.com/Beygs/Waves/pkg/noise"
	"github.com/Beygs/Waves/pkg/ocean"
)

// Config contains scene configuration options.
type Config struct {
	Width    float64 // Plane extent along X
	Depth    float64 // Plane extent along Z
	Segments int     // Subdivisions per axis
	Workers  int     // Displacement goroutines, 0 = GOMAXPROCS

	Noise  noise.Source // nil = default simplex
	Params ocean.Params
	Clock  *Clock // nil = wall clock starting now
}

// DefaultConfig returns the reference ocean: a 4x4 plane with 512
// subdivisions and the default wave parameters.
func DefaultConfig() Config {
	return Config{
		Width:    4,
		Depth:    4,
		Segments: 512,
		Params:   ocean.DefaultParams(),
	}
}

// Frame is one displaced surface. Mesh is owned by the scene and is
// rewritten by the next Advance.
type Frame struct {
	Time   float64
	Params ocean.Params
	Mesh   *surface.Mesh
}

// Scene advances the ocean.
type Scene struct {
	Clock   *Clock
	Params  *ParamStore
	Surface ocean.Surface

	workers int
	log     *zap.Logger

	mu   sync.Mutex // Guards mesh during displacement
	mesh *surface.Mesh
}

// New creates a new scene with the given configuration.
func New(cfg Config) (*Scene, error) {
	mesh, err := surface.BuildPlane(cfg.Width, cfg.Depth, cfg.Segments, cfg.Segments)
	if err != nil {
		return nil, fmt.Errorf("building plane: %w", err)
	}

	src := cfg.Noise
	if src == nil {
		src = noise.NewSimplex(0)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = NewClock()
	}

	s := &Scene{
		Clock:   clock,
		Params:  NewParamStore(cfg.Params),
		Surface: ocean.NewSurface(src),
		workers: cfg.Workers,
		log:     logger.Named("scene"),
		mesh:    mesh,
	}

	s.log.Debug("scene created",
		zap.Float64("width", cfg.Width),
		zap.Float64("depth", cfg.Depth),
		zap.Int("segments", cfg.Segments),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", len(mesh.Indices)/3))

	return s, nil
}

// Mesh returns the scene's plane. Its layout is fixed; vertex data reflects
// the last frame.
func (s *Scene) Mesh() *surface.Mesh {
	return s.mesh
}

// Advance displaces the plane for the clock's current time and the
// current parameter snapshot.
func (s *Scene) Advance(ctx context.Context) (Frame, error) {
	return s.At(ctx, s.Clock.Elapsed())
}

// At displaces the plane for an explicit time using the current parameter
// snapshot.
func (s *Scene) At(ctx context.Context, t float64) (Frame, error) {
	p := s.Params.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mesh.Displace(ctx, s.Surface, t, p, s.workers); err != nil {
		return Frame{}, err
	}
	return Frame{Time: t, Params: p, Mesh: s.mesh}, nil
}

// Probe samples the surface at a single point using the current
// parameters.
func (s *Scene) Probe(x, z, t float64) ocean.Sample {
	return s.Surface.Sample(x, z, t, s.Params.Snapshot())
}
