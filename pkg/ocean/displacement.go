package ocean

import (
	"math"

	"github.com/Beygs/Waves/pkg/noise"
)

// normalEpsilon is the finite-difference step used by NormalAt, in
// reference-plane units.
const normalEpsilon = 1e-3

// Surface evaluates the displacement field with a specific noise source.
// The zero value is not usable; use NewSurface or Default.
type Surface struct {
	noise noise.Source
}

// NewSurface returns a Surface sampling src. The source is wrapped so its
// samples are finite and bounded.
func NewSurface(src noise.Source) Surface {
	return Surface{noise: noise.Bounded(src)}
}

// Default is the surface used by the package-level functions: simplex
// noise with seed 0.
var Default = NewSurface(noise.NewSimplex(0))

// ElevationAt evaluates Default.ElevationAt.
func ElevationAt(x, z, t float64, p Params) float64 {
	return Default.ElevationAt(x, z, t, p)
}

// NormalAt evaluates Default.NormalAt.
func NormalAt(x, z, t float64, p Params) [3]float64 {
	return Default.NormalAt(x, z, t, p)
}

// ElevationAt returns the surface height above the reference plane at
// planar position (x, z) and time t.
func (s Surface) ElevationAt(x, z, t float64, p Params) float64 {
	return BigWave(x, z, t, p) + s.SmallWaves(x, z, t, p)
}

// BigWave returns the dominant directional swell.
func BigWave(x, z, t float64, p Params) float64 {
	phase := t * p.BigSpeed
	return math.Sin(x*p.BigFrequency.X+phase) *
		math.Sin(z*p.BigFrequency.Y+phase) *
		p.BigElevation
}

// SmallWaves returns the fractal turbulence term: Octaves() samples of the
// noise source, each at double the frequency and half the amplitude of the
// previous one.
func (s Surface) SmallWaves(x, z, t float64, p Params) float64 {
	octaves := p.Octaves()
	if octaves == 0 {
		return 0
	}

	w := t * p.SmallSpeed
	freq := p.SmallFrequency
	amp := 1.0
	sum := 0.0
	for i := 0; i < octaves; i++ {
		// Past this point every octave contributes less than the
		// smallest subnormal float64.
		if amp == 0 || math.IsInf(freq, 0) {
			break
		}
		sum += s.noise.Eval3(x*freq, z*freq, w) * amp
		freq *= 2
		amp *= 0.5
	}
	return sum * p.SmallElevation
}

// NormalAt returns the unit surface normal at (x, z), derived by central
// differences of ElevationAt.
func (s Surface) NormalAt(x, z, t float64, p Params) [3]float64 {
	const e = normalEpsilon
	dx := (s.ElevationAt(x+e, z, t, p) - s.ElevationAt(x-e, z, t, p)) / (2 * e)
	dz := (s.ElevationAt(x, z+e, t, p) - s.ElevationAt(x, z-e, t, p)) / (2 * e)

	n := [3]float64{-dx, 1, -dz}
	l := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return [3]float64{0, 1, 0}
	}
	return [3]float64{n[0] / l, n[1] / l, n[2] / l}
}

// Sample evaluates both fields at one point.
func (s Surface) Sample(x, z, t float64, p Params) Sample {
	y := s.ElevationAt(x, z, t, p)
	return Sample{X: x, Z: z, Elevation: y, Color: ColorAt(y, p)}
}

// Sample is one evaluated surface point.
type Sample struct {
	X, Z      float64
	Elevation float64
	Color     RGB
}
