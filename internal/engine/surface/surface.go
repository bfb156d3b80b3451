// Package surface provides the ocean reference plane and its per-frame
// displacement.
package surface

import (
	"context"
	"fmt"
	"math"

	"github.com/Beygs/Waves/internal/engine/workers"
	"github.com/Beygs/Waves/pkg/ocean"
)

// Mesh is a regular grid on the XZ plane, centered at the origin.
// Positions, Normals and Elevations are replaced by Displace; the grid
// layout and Indices never change after BuildPlane.
type Mesh struct {
	Width, Depth float64 // World extent along X and Z
	SegX, SegZ   int     // Cell count along X and Z

	Positions  []float32 // Flat array: x,y,z for each vertex
	Normals    []float32 // Flat array: nx,ny,nz for each vertex
	Elevations []float64 // Elevation for each vertex, full precision
	Indices    []uint32  // Triangle list, CCW seen from +Y

	Time   float64 // Time of the last displacement
	Params ocean.Params

	spare frame // Target of the next Displace, swapped in on success
}

type frame struct {
	positions  []float32
	normals    []float32
	elevations []float64
}

// BuildPlane creates a flat width x depth plane with segX x segZ cells.
// Vertex (ix, iz) lives at index iz*(segX+1)+ix, running from -width/2 to
// +width/2 along X and -depth/2 to +depth/2 along Z.
func BuildPlane(width, depth float64, segX, segZ int) (*Mesh, error) {
	if segX < 1 || segZ < 1 {
		return nil, fmt.Errorf("plane needs at least one segment per axis, got %dx%d", segX, segZ)
	}
	if !(width > 0) || !(depth > 0) {
		return nil, fmt.Errorf("plane extent must be positive, got %gx%g", width, depth)
	}

	cols, rows := segX+1, segZ+1
	count := cols * rows
	if uint64(count) > math.MaxUint32 {
		return nil, fmt.Errorf("plane too large: %d vertices", count)
	}

	m := &Mesh{
		Width:      width,
		Depth:      depth,
		SegX:       segX,
		SegZ:       segZ,
		Positions:  make([]float32, count*3),
		Normals:    make([]float32, count*3),
		Elevations: make([]float64, count),
		Indices:    make([]uint32, 0, segX*segZ*6),
	}

	for iz := range rows {
		for ix := range cols {
			x, z := m.GridXZ(ix, iz)
			i := (iz*cols + ix) * 3
			m.Positions[i] = float32(x)
			m.Positions[i+2] = float32(z)
			m.Normals[i+1] = 1
		}
	}

	// a---b
	// |  /|
	// | / |
	// |/  |
	// d---c   (X to the right, +Z downward)
	for iz := range segZ {
		for ix := range segX {
			a := uint32(iz*cols + ix)
			b := a + 1
			d := a + uint32(cols)
			c := d + 1
			m.Indices = append(m.Indices, a, d, b, b, d, c)
		}
	}

	return m, nil
}

// VertexCount returns the number of grid vertices.
func (m *Mesh) VertexCount() int {
	return (m.SegX + 1) * (m.SegZ + 1)
}

// GridXZ returns the world XZ position of grid vertex (ix, iz).
func (m *Mesh) GridXZ(ix, iz int) (x, z float64) {
	x = -m.Width/2 + float64(ix)*m.Width/float64(m.SegX)
	z = -m.Depth/2 + float64(iz)*m.Depth/float64(m.SegZ)
	return x, z
}

// Displace evaluates the surface at every vertex for time t and parameter
// snapshot p, then rebuilds the normals. Rows are split into bands
// evaluated concurrently by up to n goroutines; n <= 0 uses
// GOMAXPROCS. All vertices observe the same t and p.
//
// The new frame is built in spare buffers and only swapped in once both
// passes finish, so a cancelled call leaves the previous frame intact.
func (m *Mesh) Displace(ctx context.Context, s ocean.Surface, t float64, p ocean.Params, n int) error {
	rows := m.SegZ + 1
	cols := m.SegX + 1
	f := m.spareFrame()

	if err := workers.Bands(ctx, rows, n, func(z0, z1 int) {
		for iz := z0; iz < z1; iz++ {
			for ix := range cols {
				x, z := m.GridXZ(ix, iz)
				e := s.ElevationAt(x, z, t, p)
				v := iz*cols + ix
				f.elevations[v] = e
				f.positions[v*3+1] = float32(e)
			}
		}
	}); err != nil {
		return fmt.Errorf("displacing surface: %w", err)
	}

	if err := workers.Bands(ctx, rows, n, func(z0, z1 int) {
		m.normalRows(f, z0, z1)
	}); err != nil {
		return fmt.Errorf("computing normals: %w", err)
	}

	m.spare = frame{positions: m.Positions, normals: m.Normals, elevations: m.Elevations}
	m.Positions, m.Normals, m.Elevations = f.positions, f.normals, f.elevations
	m.Time = t
	m.Params = p
	return nil
}

// spareFrame returns the buffers the next displacement writes into. XZ
// components are copied from the live positions since they never change.
func (m *Mesh) spareFrame() frame {
	if len(m.spare.positions) != len(m.Positions) {
		m.spare = frame{
			positions:  append([]float32(nil), m.Positions...),
			normals:    make([]float32, len(m.Normals)),
			elevations: make([]float64, len(m.Elevations)),
		}
	}
	return m.spare
}

// normalRows rebuilds the normals of f for rows [z0, z1) from central
// differences over neighboring vertices, one-sided along the border.
func (m *Mesh) normalRows(f frame, z0, z1 int) {
	cols := m.SegX + 1
	dx := m.Width / float64(m.SegX)
	dz := m.Depth / float64(m.SegZ)

	for iz := z0; iz < z1; iz++ {
		for ix := range cols {
			xl, xr := max(ix-1, 0), min(ix+1, m.SegX)
			zl, zr := max(iz-1, 0), min(iz+1, m.SegZ)
			dhdx := (f.elevations[iz*cols+xr] - f.elevations[iz*cols+xl]) / (float64(xr-xl) * dx)
			dhdz := (f.elevations[zr*cols+ix] - f.elevations[zl*cols+ix]) / (float64(zr-zl) * dz)

			nx, ny, nz := -dhdx, 1.0, -dhdz
			l := math.Sqrt(nx*nx + ny*ny + nz*nz)
			i := (iz*cols + ix) * 3
			if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
				f.normals[i], f.normals[i+1], f.normals[i+2] = 0, 1, 0
				continue
			}
			f.normals[i] = float32(nx / l)
			f.normals[i+1] = float32(ny / l)
			f.normals[i+2] = float32(nz / l)
		}
	}
}

// ElevationRange returns the lowest and highest displaced elevation.
func (m *Mesh) ElevationRange() (lo, hi float64) {
	if len(m.Elevations) == 0 {
		return 0, 0
	}
	lo, hi = m.Elevations[0], m.Elevations[0]
	for _, e := range m.Elevations[1:] {
		lo = math.Min(lo, e)
		hi = math.Max(hi, e)
	}
	return lo, hi
}
