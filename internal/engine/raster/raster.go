// Package raster renders a displaced ocean mesh on the CPU. It exists for
// headless output and previews where no GL context is available.
package raster

import (
	"context"
	"fmt"
	"image"
	"image/color"
	gomath "math"

	"github.com/Beygs/Waves/internal/engine/surface"
	"github.com/Beygs/Waves/internal/engine/workers"
	"github.com/Beygs/Waves/pkg/math"
	"github.com/Beygs/Waves/pkg/ocean"
)

// DefaultClearColor is the background behind the ocean.
var DefaultClearColor = ocean.RGBFromHex(0x111122)

// Renderer owns a color and a depth buffer of a fixed size.
type Renderer struct {
	width, height int
	clear         color.RGBA
	workers       int

	img   *image.RGBA
	depth []float32

	// Per-frame scratch, reused between renders.
	clip []clipVertex
	tris []screenTri
}

// New creates a renderer for width x height images.
func New(width, height int) (*Renderer, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("invalid raster size %dx%d", width, height)
	}
	return &Renderer{
		width:  width,
		height: height,
		clear:  DefaultClearColor.RGBA8(),
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		depth:  make([]float32, width*height),
	}, nil
}

// Size returns the image dimensions.
func (r *Renderer) Size() (width, height int) {
	return r.width, r.height
}

// Aspect returns width/height.
func (r *Renderer) Aspect() float32 {
	return float32(r.width) / float32(r.height)
}

// SetClearColor sets the background color.
func (r *Renderer) SetClearColor(c ocean.RGB) {
	r.clear = c.RGBA8()
}

// SetWorkers sets the number of goroutines used per frame; n <= 0 uses
// GOMAXPROCS.
func (r *Renderer) SetWorkers(n int) {
	r.workers = n
}

// Image returns the color buffer. It is overwritten by the next Render.
func (r *Renderer) Image() *image.RGBA {
	return r.img
}

// DepthAt returns the normalized device depth at pixel (x, y), or +Inf
// where nothing was drawn.
func (r *Renderer) DepthAt(x, y int) float32 {
	return r.depth[y*r.width+x]
}

// clipVertex is a vertex in clip space carrying its elevation.
type clipVertex struct {
	pos math.Vec4
	e   float32
}

// screenVertex is a projected vertex. invW and eOverW drive the
// perspective-correct interpolation of the elevation.
type screenVertex struct {
	x, y, z float32
	invW    float32
	eOverW  float32
}

type screenTri struct {
	v                      [3]screenVertex
	minX, maxX, minY, maxY int
	area                   float32
}

// Render draws the mesh seen through viewProj, coloring each pixel with
// ocean.ColorAt of its interpolated elevation under p. Rows are split into
// bands rendered concurrently.
func (r *Renderer) Render(ctx context.Context, m *surface.Mesh, viewProj math.Mat4, p ocean.Params) (*image.RGBA, error) {
	n := len(m.Positions) / 3
	if cap(r.clip) < n {
		r.clip = make([]clipVertex, n)
	}
	r.clip = r.clip[:n]

	if err := workers.Bands(ctx, n, r.workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			pos := math.Vec3{X: m.Positions[i*3], Y: m.Positions[i*3+1], Z: m.Positions[i*3+2]}
			r.clip[i] = clipVertex{pos: viewProj.MulVec4(math.Point(pos)), e: m.Positions[i*3+1]}
		}
	}); err != nil {
		return nil, fmt.Errorf("projecting vertices: %w", err)
	}

	r.tris = r.tris[:0]
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := r.clip[m.Indices[i]], r.clip[m.Indices[i+1]], r.clip[m.Indices[i+2]]
		r.tris = clipNear(r.tris, [3]clipVertex{a, b, c}, r.width, r.height)
	}

	if err := workers.Bands(ctx, r.height, r.workers, func(y0, y1 int) {
		r.clearRows(y0, y1)
		for i := range r.tris {
			r.fill(&r.tris[i], y0, y1, p)
		}
	}); err != nil {
		return nil, fmt.Errorf("rasterizing: %w", err)
	}

	return r.img, nil
}

func (r *Renderer) clearRows(y0, y1 int) {
	inf := float32(gomath.Inf(1))
	for y := y0; y < y1; y++ {
		row := r.img.Pix[y*r.img.Stride : y*r.img.Stride+r.width*4]
		for x := 0; x < len(row); x += 4 {
			row[x], row[x+1], row[x+2], row[x+3] = r.clear.R, r.clear.G, r.clear.B, r.clear.A
		}
		d := r.depth[y*r.width : (y+1)*r.width]
		for x := range d {
			d[x] = inf
		}
	}
}

// fill rasterizes the rows of t that fall inside [y0, y1).
func (r *Renderer) fill(t *screenTri, y0, y1 int, p ocean.Params) {
	minY, maxY := max(t.minY, y0), min(t.maxY, y1-1)
	if minY > maxY {
		return
	}
	v0, v1, v2 := t.v[0], t.v[1], t.v[2]
	inv := 1 / t.area

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := t.minX; x <= t.maxX; x++ {
			px := float32(x) + 0.5

			w0 := edge(v1.x, v1.y, v2.x, v2.y, px, py) * inv
			w1 := edge(v2.x, v2.y, v0.x, v0.y, px, py) * inv
			w2 := edge(v0.x, v0.y, v1.x, v1.y, px, py) * inv
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*v0.z + w1*v1.z + w2*v2.z
			if z < -1 || z > 1 {
				continue
			}
			di := y*r.width + x
			if z >= r.depth[di] {
				continue
			}
			r.depth[di] = z

			iw := w0*v0.invW + w1*v1.invW + w2*v2.invW
			e := (w0*v0.eOverW + w1*v1.eOverW + w2*v2.eOverW) / iw
			c := ocean.ColorAtRGBA(float64(e), p)

			o := y*r.img.Stride + x*4
			r.img.Pix[o], r.img.Pix[o+1], r.img.Pix[o+2], r.img.Pix[o+3] = c.R, c.G, c.B, c.A
		}
	}
}

// edge is twice the signed area of (a, b, p).
func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}
