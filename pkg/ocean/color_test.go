package ocean

import (
	"image/color"
	"math"
	"math/rand"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestRGBFromHex(t *testing.T) {
	c := RGBFromHex(0x186691)
	want := RGB{R: 0x18 / 255.0, G: 0x66 / 255.0, B: 0x91 / 255.0}
	if c != want {
		t.Errorf("RGBFromHex = %v, want %v", c, want)
	}
	if c.Hex() != "#186691" {
		t.Errorf("Hex() = %s, want #186691", c.Hex())
	}
	if got := c.RGBA8(); got != (color.RGBA{R: 0x18, G: 0x66, B: 0x91, A: 0xff}) {
		t.Errorf("RGBA8() = %v", got)
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"#9bd8ff", "#9bd8ff", false},
		{"9BD8FF", "#9bd8ff", false},
		{"0x111122", "#111122", false},
		{" #000000 ", "#000000", false},
		{"#fff", "", true},
		{"#gggggg", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseHex(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseHex(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHex(%q) error: %v", tt.in, err)
			}
			if c.Hex() != tt.want {
				t.Errorf("ParseHex(%q) = %s, want %s", tt.in, c.Hex(), tt.want)
			}
		})
	}
}

func TestRGBYAML(t *testing.T) {
	var doc struct {
		A RGB `yaml:"a"`
		B RGB `yaml:"b"`
	}
	src := "a: \"#186691\"\nb: [0.5, 0.25, 1]\n"
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.A != RGBFromHex(0x186691) {
		t.Errorf("a = %v", doc.A)
	}
	if doc.B != (RGB{R: 0.5, G: 0.25, B: 1}) {
		t.Errorf("b = %v", doc.B)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), "#186691") || !strings.Contains(string(out), "#8040ff") {
		t.Errorf("marshal = %q, want hex colors", out)
	}

	if err := yaml.Unmarshal([]byte("a: [1, 2]\n"), &doc); err == nil {
		t.Error("expected error for two-component color")
	}
	if err := yaml.Unmarshal([]byte("a: {r: 1}\n"), &doc); err == nil {
		t.Error("expected error for mapping color")
	}
}

func TestMixFactor(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		name      string
		elevation float64
		offset    float64
		mult      float64
		want      float64
	}{
		{"midpoint", 0.02, 0.08, 5, 0.5},
		{"below", -1, 0.08, 5, 0},
		{"above", 1, 0.08, 5, 1},
		{"zero multiplier", 0.3, 0.08, 0, 0},
		{"infinite multiplier", 0.1, 0, math.Inf(1), 1},
		{"nan", 0, 0, math.Inf(1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p.ColorOffset = tt.offset
			p.ColorMultiplier = tt.mult
			if got := MixFactor(tt.elevation, p); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("MixFactor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestColorAtEndpoints(t *testing.T) {
	p := DefaultParams()
	if got := ColorAt(-10, p); got != p.DepthColor {
		t.Errorf("deep ColorAt = %v, want depth color %v", got, p.DepthColor)
	}
	if got := ColorAt(10, p); got != p.SurfaceColor {
		t.Errorf("high ColorAt = %v, want surface color %v", got, p.SurfaceColor)
	}
	if got := ColorAtRGBA(10, p); got != p.SurfaceColor.RGBA8() {
		t.Errorf("ColorAtRGBA = %v", got)
	}
}

func TestColorAtStaysBetweenEndpoints(t *testing.T) {
	within := func(v, a, b float64) bool {
		return v >= math.Min(a, b) && v <= math.Max(a, b)
	}
	check := func(t *testing.T, p Params, e float64) {
		t.Helper()
		c := ColorAt(e, p)
		if !within(c.R, p.DepthColor.R, p.SurfaceColor.R) ||
			!within(c.G, p.DepthColor.G, p.SurfaceColor.G) ||
			!within(c.B, p.DepthColor.B, p.SurfaceColor.B) {
			t.Fatalf("ColorAt(%v) = %v escapes %v..%v", e, c, p.DepthColor, p.SurfaceColor)
		}
	}

	t.Run("sweep", func(t *testing.T) {
		p := DefaultParams()
		p.DepthColor = RGB{R: 0.9, G: 0.1, B: 0.5}
		p.SurfaceColor = RGB{R: 0.2, G: 0.8, B: 0.5}
		p.ColorMultiplier = 3.7
		for i := -200; i <= 200; i++ {
			check(t, p, float64(i)*0.01)
		}
	})

	t.Run("shared channel", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		p := DefaultParams()
		p.ColorMultiplier = 5
		for i := 0; i < 100000; i++ {
			g := rng.Float64()
			p.DepthColor = RGB{R: rng.Float64(), G: g, B: rng.Float64()}
			p.SurfaceColor = RGB{R: rng.Float64(), G: g, B: rng.Float64()}
			check(t, p, rng.Float64()*0.4-0.2)
		}
	})

	t.Run("shared channel exact", func(t *testing.T) {
		a := RGB{R: 0.1, G: 0.21855305259276428, B: 0.3}
		b := RGB{R: 0.7, G: 0.21855305259276428, B: 0.9}
		for i := 0; i <= 1000; i++ {
			if got := Mix(a, b, float64(i)/1000); got.G != a.G {
				t.Fatalf("Mix G at f=%v = %v, want %v", float64(i)/1000, got.G, a.G)
			}
		}
	})
}

func TestColorAtMonotonic(t *testing.T) {
	p := DefaultParams()

	dist := func(c RGB) float64 {
		dr, dg, db := c.R-p.SurfaceColor.R, c.G-p.SurfaceColor.G, c.B-p.SurfaceColor.B
		return math.Sqrt(dr*dr + dg*dg + db*db)
	}

	prevF := -1.0
	prevD := math.Inf(1)
	for i := -100; i <= 100; i++ {
		e := float64(i) * 0.005
		f := MixFactor(e, p)
		d := dist(ColorAt(e, p))
		if f < prevF {
			t.Fatalf("mix factor decreased at %v: %v < %v", e, f, prevF)
		}
		if f > prevF && f > 0 && prevF >= 0 && d >= prevD {
			t.Fatalf("color did not move toward surface at %v", e)
		}
		if d > prevD+1e-12 {
			t.Fatalf("color moved away from surface at %v", e)
		}
		prevF, prevD = f, d
	}
}

func TestColorAtIdempotent(t *testing.T) {
	p := DefaultParams()
	for i := 0; i < 20; i++ {
		e := float64(i)*0.03 - 0.3
		if ColorAt(e, p) != ColorAt(e, p) {
			t.Fatalf("ColorAt not idempotent at %v", e)
		}
	}
}

func TestArrayRoundTrip(t *testing.T) {
	c := RGB{R: 0.25, G: 0.5, B: 0.75}
	if got := RGBFromArray(c.Array()); got != c {
		t.Errorf("RGBFromArray(Array()) = %v, want %v", got, c)
	}
}
