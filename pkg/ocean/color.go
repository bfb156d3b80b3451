package ocean

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RGB is a linear color with components nominally in [0, 1].
type RGB struct {
	R, G, B float64
}

// RGBFromHex builds a color from a 0xRRGGBB value.
func RGBFromHex(hex uint32) RGB {
	return RGB{
		R: float64((hex>>16)&0xff) / 255,
		G: float64((hex>>8)&0xff) / 255,
		B: float64(hex&0xff) / 255,
	}
}

// ParseHex parses "#rrggbb", "rrggbb" or "0xrrggbb".
func ParseHex(s string) (RGB, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimPrefix(v, "#")
	v = strings.TrimPrefix(strings.TrimPrefix(v, "0x"), "0X")
	if len(v) != 6 {
		return RGB{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("color %q: %w", s, err)
	}
	return RGBFromHex(uint32(n)), nil
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	r, g, b := c.bytes()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// RGBA8 returns an opaque 8-bit color, saturating out-of-range channels.
func (c RGB) RGBA8() color.RGBA {
	r, g, b := c.bytes()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Array returns the components as float32, the layout GL uniforms and
// ImGui color pickers take.
func (c RGB) Array() [3]float32 {
	return [3]float32{float32(c.R), float32(c.G), float32(c.B)}
}

// RGBFromArray is the inverse of Array.
func RGBFromArray(a [3]float32) RGB {
	return RGB{R: float64(a[0]), G: float64(a[1]), B: float64(a[2])}
}

func (c RGB) bytes() (r, g, b uint8) {
	return toByte(c.R), toByte(c.G), toByte(c.B)
}

func toByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(math.Round(v * 255))
}

// MarshalYAML writes the color as a hex string.
func (c RGB) MarshalYAML() (interface{}, error) {
	return c.Hex(), nil
}

// UnmarshalYAML accepts a hex string or an [r, g, b] float sequence.
func (c *RGB) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseHex(node.Value)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	case yaml.SequenceNode:
		var comps []float64
		if err := node.Decode(&comps); err != nil {
			return err
		}
		if len(comps) != 3 {
			return fmt.Errorf("color: want 3 components, got %d", len(comps))
		}
		*c = RGB{R: comps[0], G: comps[1], B: comps[2]}
		return nil
	default:
		return fmt.Errorf("color: unsupported YAML node at line %d", node.Line)
	}
}

// MixFactor maps an elevation to the [0, 1] position on the color gradient.
func MixFactor(elevation float64, p Params) float64 {
	f := (elevation + p.ColorOffset) * p.ColorMultiplier
	switch {
	case math.IsNaN(f):
		return 0
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// ColorAt returns the surface color for an elevation. The result never
// leaves the box spanned by DepthColor and SurfaceColor.
func ColorAt(elevation float64, p Params) RGB {
	f := MixFactor(elevation, p)
	return Mix(p.DepthColor, p.SurfaceColor, f)
}

// ColorAtRGBA is ColorAt as an opaque 8-bit color.
func ColorAtRGBA(elevation float64, p Params) color.RGBA {
	return ColorAt(elevation, p).RGBA8()
}

// Mix linearly interpolates a toward b by f. Each channel is kept within
// the range of its two endpoints.
func Mix(a, b RGB, f float64) RGB {
	return RGB{
		R: mixChannel(a.R, b.R, f),
		G: mixChannel(a.G, b.G, f),
		B: mixChannel(a.B, b.B, f),
	}
}

func mixChannel(a, b, f float64) float64 {
	if a == b {
		return a
	}
	v := a*(1-f) + b*f
	return math.Max(math.Min(a, b), math.Min(math.Max(a, b), v))
}
