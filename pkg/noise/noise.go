// Package noise provides deterministic, bounded 3D noise sources.
package noise

import (
	"fmt"
	"math"
	"strings"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Backend names accepted by New.
const (
	BackendSimplex = "simplex"
	BackendPerlin  = "perlin"
)

// Source is a smooth, deterministic 3D noise function.
// Implementations must be safe for concurrent use.
type Source interface {
	Eval3(x, y, z float64) float64
}

// NewSimplex returns an OpenSimplex source for the given seed.
func NewSimplex(seed int64) Source {
	return Bounded(opensimplex.New(seed))
}

// NewPerlin returns a single-octave Perlin source for the given seed.
// Octaves are accumulated by the caller, so the library's own
// octave sum is disabled (n = 1).
func NewPerlin(seed int64) Source {
	return Bounded(perlinSource{p: perlin.NewPerlin(2, 2, 1, seed)})
}

// New returns the source for a backend name.
func New(backend string, seed int64) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSimplex:
		return NewSimplex(seed), nil
	case BackendPerlin:
		return NewPerlin(seed), nil
	default:
		return nil, fmt.Errorf("unknown noise backend %q", backend)
	}
}

// Valid reports whether New accepts the backend name.
func Valid(backend string) bool {
	_, err := New(backend, 0)
	return err == nil
}

type perlinSource struct {
	p *perlin.Perlin
}

func (s perlinSource) Eval3(x, y, z float64) float64 {
	return s.p.Noise3D(x, y, z)
}

// Bounded wraps src so every sample lies in [-1, 1].
// NaN samples become 0.
func Bounded(src Source) Source {
	if b, ok := src.(bounded); ok {
		return b
	}
	return bounded{src: src}
}

type bounded struct {
	src Source
}

func (b bounded) Eval3(x, y, z float64) float64 {
	v := b.src.Eval3(x, y, z)
	switch {
	case math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}
