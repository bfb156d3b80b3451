// Package ocean implements the procedural ocean surface: a displacement
// field mapping planar positions and time to elevation, and a color field
// mapping elevation to a depth gradient.
package ocean

// Frequency holds independent wave frequencies along the two planar axes.
type Frequency struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Params is the wave parameter set read by both fields.
// It is a plain value: callers pass snapshots, never shared pointers.
type Params struct {
	BigElevation float64   `yaml:"big_elevation"`
	BigFrequency Frequency `yaml:"big_frequency"`
	BigSpeed     float64   `yaml:"big_speed"`

	SmallElevation  float64 `yaml:"small_elevation"`
	SmallFrequency  float64 `yaml:"small_frequency"`
	SmallSpeed      float64 `yaml:"small_speed"`
	SmallIterations int     `yaml:"small_iterations"` // Octave count

	DepthColor      RGB     `yaml:"depth_color"`
	SurfaceColor    RGB     `yaml:"surface_color"`
	ColorOffset     float64 `yaml:"color_offset"`
	ColorMultiplier float64 `yaml:"color_multiplier"`
}

// DefaultParams returns the calm-sea preset the application starts with.
func DefaultParams() Params {
	return Params{
		BigElevation:    0.2,
		BigFrequency:    Frequency{X: 4, Y: 1.5},
		BigSpeed:        0.75,
		SmallElevation:  0.15,
		SmallFrequency:  3,
		SmallSpeed:      0.2,
		SmallIterations: 4,
		DepthColor:      RGBFromHex(0x186691),
		SurfaceColor:    RGBFromHex(0x9bd8ff),
		ColorOffset:     0.08,
		ColorMultiplier: 5,
	}
}

// Octaves returns SmallIterations clamped to a non-negative count.
func (p Params) Octaves() int {
	if p.SmallIterations < 0 {
		return 0
	}
	return p.SmallIterations
}
