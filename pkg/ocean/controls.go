package ocean

import (
	"fmt"
	"math"
)

// Control groups, in the order the parameter panel shows them.
const (
	GroupColors     = "Colors"
	GroupSmallWaves = "Small Waves"
	GroupBigWaves   = "Big Waves"
)

// Control keys.
const (
	KeyDepthColor      = "depth_color"
	KeySurfaceColor    = "surface_color"
	KeyColorOffset     = "color_offset"
	KeyColorMultiplier = "color_multiplier"
	KeySmallElevation  = "small_elevation"
	KeySmallFrequency  = "small_frequency"
	KeySmallSpeed      = "small_speed"
	KeySmallIterations = "small_iterations"
	KeyBigElevation    = "big_elevation"
	KeyBigFrequencyX   = "big_frequency_x"
	KeyBigFrequencyY   = "big_frequency_y"
	KeyBigSpeed        = "big_speed"
)

// Control describes one editable parameter. Scalar controls carry the
// documented slider range and step; color controls have Color set and no
// range.
type Control struct {
	Key     string
	Label   string
	Group   string
	Min     float64
	Max     float64
	Step    float64
	Integer bool
	Color   bool
}

var controls = []Control{
	{Key: KeyDepthColor, Label: "Depth Color", Group: GroupColors, Color: true},
	{Key: KeySurfaceColor, Label: "Surface Color", Group: GroupColors, Color: true},
	{Key: KeyColorOffset, Label: "Offset", Group: GroupColors, Min: 0, Max: 1, Step: 0.01},
	{Key: KeyColorMultiplier, Label: "Multiplier", Group: GroupColors, Min: 0, Max: 10, Step: 0.01},

	{Key: KeySmallElevation, Label: "Elevation", Group: GroupSmallWaves, Min: 0, Max: 1, Step: 0.001},
	{Key: KeySmallFrequency, Label: "Frequency", Group: GroupSmallWaves, Min: 0, Max: 20, Step: 0.01},
	{Key: KeySmallSpeed, Label: "Speed", Group: GroupSmallWaves, Min: 0, Max: 4, Step: 0.01},
	{Key: KeySmallIterations, Label: "Iterations", Group: GroupSmallWaves, Min: 0, Max: 5, Step: 1, Integer: true},

	{Key: KeyBigElevation, Label: "Elevation", Group: GroupBigWaves, Min: 0, Max: 1, Step: 0.001},
	{Key: KeyBigFrequencyX, Label: "Frequency X", Group: GroupBigWaves, Min: 0, Max: 20, Step: 0.01},
	{Key: KeyBigFrequencyY, Label: "Frequency Y", Group: GroupBigWaves, Min: 0, Max: 20, Step: 0.01},
	{Key: KeyBigSpeed, Label: "Speed", Group: GroupBigWaves, Min: 0, Max: 10, Step: 0.01},
}

// Controls returns the editable parameters with their documented ranges.
func Controls() []Control {
	out := make([]Control, len(controls))
	copy(out, controls)
	return out
}

// ScalarControls returns the controls that have a numeric range.
func ScalarControls() []Control {
	var out []Control
	for _, c := range controls {
		if !c.Color {
			out = append(out, c)
		}
	}
	return out
}

// LookupControl finds a control by key.
func LookupControl(key string) (Control, bool) {
	for _, c := range controls {
		if c.Key == key {
			return c, true
		}
	}
	return Control{}, false
}

// Snap clamps v to the control's range and rounds it to the nearest step.
func (c Control) Snap(v float64) float64 {
	if c.Color || math.IsNaN(v) {
		return c.Min
	}
	v = math.Max(c.Min, math.Min(c.Max, v))
	if c.Step > 0 {
		n := math.Round((v - c.Min) / c.Step)
		v = math.Max(c.Min, math.Min(c.Max, c.Min+n*c.Step))
	}
	return v
}

// Scalar returns the current value of a scalar control.
func (p Params) Scalar(key string) (float64, bool) {
	switch key {
	case KeyColorOffset:
		return p.ColorOffset, true
	case KeyColorMultiplier:
		return p.ColorMultiplier, true
	case KeySmallElevation:
		return p.SmallElevation, true
	case KeySmallFrequency:
		return p.SmallFrequency, true
	case KeySmallSpeed:
		return p.SmallSpeed, true
	case KeySmallIterations:
		return float64(p.SmallIterations), true
	case KeyBigElevation:
		return p.BigElevation, true
	case KeyBigFrequencyX:
		return p.BigFrequency.X, true
	case KeyBigFrequencyY:
		return p.BigFrequency.Y, true
	case KeyBigSpeed:
		return p.BigSpeed, true
	}
	return 0, false
}

// SetScalar assigns a scalar control. Values are stored as given; callers
// that want slider semantics pass them through Control.Snap first.
func (p *Params) SetScalar(key string, v float64) error {
	switch key {
	case KeyColorOffset:
		p.ColorOffset = v
	case KeyColorMultiplier:
		p.ColorMultiplier = v
	case KeySmallElevation:
		p.SmallElevation = v
	case KeySmallFrequency:
		p.SmallFrequency = v
	case KeySmallSpeed:
		p.SmallSpeed = v
	case KeySmallIterations:
		p.SmallIterations = roundCount(v)
	case KeyBigElevation:
		p.BigElevation = v
	case KeyBigFrequencyX:
		p.BigFrequency.X = v
	case KeyBigFrequencyY:
		p.BigFrequency.Y = v
	case KeyBigSpeed:
		p.BigSpeed = v
	default:
		return fmt.Errorf("unknown scalar parameter %q", key)
	}
	return nil
}

// roundCount converts a slider value to an octave count. NaN maps to zero
// and out-of-range values saturate.
func roundCount(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	}
	return int(math.Round(v))
}

// Nudge moves a scalar control by delta steps and snaps the result.
func (p *Params) Nudge(key string, steps int) error {
	c, ok := LookupControl(key)
	if !ok || c.Color {
		return fmt.Errorf("unknown scalar parameter %q", key)
	}
	cur, _ := p.Scalar(key)
	return p.SetScalar(key, c.Snap(cur+float64(steps)*c.Step))
}

// OutOfRange lists the scalar controls whose value lies outside the
// documented range or is not finite. Such values are still evaluated.
func (p Params) OutOfRange() []string {
	var keys []string
	for _, c := range controls {
		if c.Color {
			continue
		}
		v, _ := p.Scalar(c.Key)
		if math.IsNaN(v) || math.IsInf(v, 0) || v < c.Min || v > c.Max {
			keys = append(keys, c.Key)
		}
	}
	return keys
}
