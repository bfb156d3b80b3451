package surface

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Beygs/Waves/pkg/noise"
	"github.com/Beygs/Waves/pkg/ocean"
)

func TestBuildPlaneLayout(t *testing.T) {
	m, err := BuildPlane(4, 4, 4, 2)
	if err != nil {
		t.Fatalf("BuildPlane: %v", err)
	}

	if got := m.VertexCount(); got != 15 {
		t.Errorf("VertexCount = %d, want 15", got)
	}
	if len(m.Positions) != 45 || len(m.Normals) != 45 || len(m.Elevations) != 15 {
		t.Errorf("buffer sizes = %d/%d/%d", len(m.Positions), len(m.Normals), len(m.Elevations))
	}
	if len(m.Indices) != 4*2*6 {
		t.Errorf("index count = %d, want 48", len(m.Indices))
	}

	// Corners
	if m.Positions[0] != -2 || m.Positions[2] != -2 {
		t.Errorf("first vertex at (%g, %g), want (-2, -2)", m.Positions[0], m.Positions[2])
	}
	last := (m.VertexCount() - 1) * 3
	if m.Positions[last] != 2 || m.Positions[last+2] != 2 {
		t.Errorf("last vertex at (%g, %g), want (2, 2)", m.Positions[last], m.Positions[last+2])
	}

	for i := 0; i < len(m.Positions); i += 3 {
		if m.Positions[i+1] != 0 {
			t.Fatalf("vertex %d not flat: y=%g", i/3, m.Positions[i+1])
		}
		if m.Normals[i+1] != 1 {
			t.Fatalf("vertex %d normal not +Y", i/3)
		}
	}
}

func TestBuildPlaneWindingFacesUp(t *testing.T) {
	m, err := BuildPlane(2, 2, 3, 3)
	if err != nil {
		t.Fatalf("BuildPlane: %v", err)
	}

	for tri := 0; tri < len(m.Indices); tri += 3 {
		p := func(k int) [3]float32 {
			i := m.Indices[tri+k] * 3
			return [3]float32{m.Positions[i], m.Positions[i+1], m.Positions[i+2]}
		}
		a, b, c := p(0), p(1), p(2)
		e1 := [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		e2 := [3]float32{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		ny := e1[2]*e2[0] - e1[0]*e2[2]
		if ny <= 0 {
			t.Fatalf("triangle %d faces down (ny=%g)", tri/3, ny)
		}
	}
}

func TestBuildPlaneIndicesInRange(t *testing.T) {
	m, err := BuildPlane(4, 4, 7, 5)
	if err != nil {
		t.Fatalf("BuildPlane: %v", err)
	}
	n := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= n {
			t.Fatalf("index %d = %d out of range (%d vertices)", i, idx, n)
		}
	}
}

func TestBuildPlaneInvalid(t *testing.T) {
	tests := []struct {
		name         string
		width, depth float64
		segX, segZ   int
	}{
		{"zero segments", 4, 4, 0, 4},
		{"negative segments", 4, 4, 4, -1},
		{"zero width", 0, 4, 4, 4},
		{"negative depth", 4, -1, 4, 4},
		{"nan width", math.NaN(), 4, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildPlane(tt.width, tt.depth, tt.segX, tt.segZ); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDisplaceMatchesElevation(t *testing.T) {
	m, err := BuildPlane(4, 4, 16, 16)
	if err != nil {
		t.Fatalf("BuildPlane: %v", err)
	}

	s := ocean.NewSurface(noise.NewSimplex(0))
	p := ocean.DefaultParams()
	const tm = 1.25

	if err := m.Displace(context.Background(), s, tm, p, 4); err != nil {
		t.Fatalf("Displace: %v", err)
	}

	cols := m.SegX + 1
	for iz := 0; iz <= m.SegZ; iz++ {
		for ix := 0; ix <= m.SegX; ix++ {
			x, z := m.GridXZ(ix, iz)
			want := s.ElevationAt(x, z, tm, p)
			v := iz*cols + ix
			if m.Elevations[v] != want {
				t.Fatalf("vertex (%d,%d): elevation %g, want %g", ix, iz, m.Elevations[v], want)
			}
			if m.Positions[v*3+1] != float32(want) {
				t.Fatalf("vertex (%d,%d): y %g, want %g", ix, iz, m.Positions[v*3+1], float32(want))
			}
		}
	}

	if m.Time != tm || m.Params != p {
		t.Error("mesh does not record the frame time and params")
	}
}

func TestDisplaceWorkerCountIndependent(t *testing.T) {
	s := ocean.NewSurface(noise.NewSimplex(3))
	p := ocean.DefaultParams()

	var ref []float64
	for _, workers := range []int{1, 2, 3, 8, 0, 100} {
		m, err := BuildPlane(4, 4, 9, 6)
		if err != nil {
			t.Fatalf("BuildPlane: %v", err)
		}
		if err := m.Displace(context.Background(), s, 0.5, p, workers); err != nil {
			t.Fatalf("Displace(workers=%d): %v", workers, err)
		}
		if ref == nil {
			ref = append([]float64(nil), m.Elevations...)
			continue
		}
		for i := range ref {
			if m.Elevations[i] != ref[i] {
				t.Fatalf("workers=%d: vertex %d differs", workers, i)
			}
		}
	}
}

func TestDisplaceNormals(t *testing.T) {
	m, err := BuildPlane(4, 4, 256, 256)
	if err != nil {
		t.Fatalf("BuildPlane: %v", err)
	}

	// Big wave only: smooth and analytic.
	p := ocean.DefaultParams()
	p.SmallIterations = 0
	if err := m.Displace(context.Background(), ocean.Default, 0.3, p, 0); err != nil {
		t.Fatalf("Displace: %v", err)
	}

	cols := m.SegX + 1
	for _, g := range [][2]int{{10, 20}, {128, 128}, {200, 37}, {250, 250}} {
		ix, iz := g[0], g[1]
		x, z := m.GridXZ(ix, iz)
		want := ocean.NormalAt(x, z, 0.3, p)
		i := (iz*cols + ix) * 3
		for k := range 3 {
			if math.Abs(float64(m.Normals[i+k])-want[k]) > 1e-2 {
				t.Errorf("normal at (%d,%d) = %v, want ~%v", ix, iz, m.Normals[i:i+3], want)
				break
			}
		}
	}

	for i := 0; i < len(m.Normals); i += 3 {
		l := math.Sqrt(float64(m.Normals[i]*m.Normals[i] + m.Normals[i+1]*m.Normals[i+1] + m.Normals[i+2]*m.Normals[i+2]))
		if math.Abs(l-1) > 1e-4 {
			t.Fatalf("normal %d has length %g", i/3, l)
		}
	}
}

func TestDisplaceCancelled(t *testing.T) {
	m, err := BuildPlane(4, 4, 8, 8)
	if err != nil {
		t.Fatalf("BuildPlane: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		err := m.Displace(ctx, ocean.Default, 0, ocean.DefaultParams(), workers)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: expected context.Canceled, got %v", workers, err)
		}
	}
}

// cancelAfter reports cancellation once Err has been consulted n times.
type cancelAfter struct {
	context.Context
	n int
}

func (c *cancelAfter) Err() error {
	if c.n > 0 {
		c.n--
		return nil
	}
	return context.Canceled
}

func TestDisplaceCancelledKeepsFrame(t *testing.T) {
	tests := []struct {
		name   string
		passes int
	}{
		{"before elevations", 0},
		{"before normals", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := BuildPlane(4, 4, 8, 8)
			if err != nil {
				t.Fatalf("BuildPlane: %v", err)
			}
			p := ocean.DefaultParams()
			if err := m.Displace(context.Background(), ocean.Default, 1, p, 1); err != nil {
				t.Fatalf("Displace: %v", err)
			}
			pos := append([]float32(nil), m.Positions...)
			nrm := append([]float32(nil), m.Normals...)
			elev := append([]float64(nil), m.Elevations...)

			ctx := &cancelAfter{Context: context.Background(), n: tt.passes}
			err = m.Displace(ctx, ocean.Default, 7, p, 1)
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("expected context.Canceled, got %v", err)
			}
			if m.Time != 1 {
				t.Errorf("Time = %g, want 1", m.Time)
			}
			for i := range pos {
				if m.Positions[i] != pos[i] || m.Normals[i] != nrm[i] {
					t.Fatalf("component %d changed by cancelled Displace", i)
				}
			}
			for i := range elev {
				if m.Elevations[i] != elev[i] {
					t.Fatalf("elevation %d changed by cancelled Displace", i)
				}
			}

			// The next successful call still lands on a consistent frame.
			if err := m.Displace(context.Background(), ocean.Default, 7, p, 1); err != nil {
				t.Fatalf("Displace: %v", err)
			}
			for iz := 0; iz <= m.SegZ; iz++ {
				for ix := 0; ix <= m.SegX; ix++ {
					x, z := m.GridXZ(ix, iz)
					v := iz*(m.SegX+1) + ix
					if m.Elevations[v] != ocean.Default.ElevationAt(x, z, 7, p) {
						t.Fatalf("vertex (%d,%d) not displaced for t=7", ix, iz)
					}
					if m.Positions[v*3] != float32(x) || m.Positions[v*3+2] != float32(z) {
						t.Fatalf("vertex (%d,%d) lost its XZ position", ix, iz)
					}
				}
			}
		})
	}
}

func TestElevationRange(t *testing.T) {
	m, err := BuildPlane(4, 4, 32, 32)
	if err != nil {
		t.Fatalf("BuildPlane: %v", err)
	}
	if lo, hi := m.ElevationRange(); lo != 0 || hi != 0 {
		t.Errorf("flat plane range = [%g, %g]", lo, hi)
	}

	p := ocean.DefaultParams()
	if err := m.Displace(context.Background(), ocean.Default, 2, p, 2); err != nil {
		t.Fatalf("Displace: %v", err)
	}
	lo, hi := m.ElevationRange()
	if lo > hi {
		t.Fatalf("lo %g > hi %g", lo, hi)
	}
	// |big| <= 0.2, |small| <= 0.15 * 1.875
	limit := p.BigElevation + p.SmallElevation*1.875
	if lo < -limit || hi > limit {
		t.Errorf("range [%g, %g] exceeds +-%g", lo, hi, limit)
	}
}
