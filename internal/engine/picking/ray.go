// Package picking turns screen positions into world-space rays and finds
// where they hit the ocean surface.
package picking

import (
	gomath "math"

	"github.com/Beygs/Waves/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized
}

// HeightFunc returns the surface elevation at (x, z).
type HeightFunc func(x, z float64) float64

// ScreenToRay converts pixel coordinates to a world-space ray. invViewProj
// is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Screen Y grows downwards

	near := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1, 1})

	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

func unproject(inv math.Mat4, ndc math.Vec4) math.Vec3 {
	c := inv.MulVec4(ndc)
	if c[3] != 0 {
		return math.Vec3{X: c[0] / c[3], Y: c[1] / c[3], Z: c[2] / c[3]}
	}
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectPlaneY returns the distance to the horizontal plane y = planeY.
// ok is false when the ray is parallel to the plane or points away from it.
func (r Ray) IntersectPlaneY(planeY float32) (t float32, ok bool) {
	if gomath.Abs(float64(r.Direction.Y)) < 1e-3 {
		return 0, false
	}
	t = (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return 0, false
	}
	return t, true
}

// bisections refines a bracketed surface crossing.
const bisections = 24

// IntersectSurface marches the ray in increments of step up to maxDist and
// returns the first point where it passes below the height field.
func (r Ray) IntersectSurface(h HeightFunc, step, maxDist float32) (math.Vec3, bool) {
	if step <= 0 || maxDist <= 0 {
		return math.Vec3{}, false
	}

	above := func(t float32) bool {
		p := r.At(t)
		return float64(p.Y) > h(float64(p.X), float64(p.Z))
	}

	if !above(0) {
		return r.Origin, true
	}

	prev := float32(0)
	for t := step; t <= maxDist+step/2; t += step {
		if above(t) {
			prev = t
			continue
		}
		lo, hi := prev, t
		for i := 0; i < bisections; i++ {
			mid := (lo + hi) / 2
			if above(mid) {
				lo = mid
			} else {
				hi = mid
			}
		}
		p := r.At(hi)
		p.Y = float32(h(float64(p.X), float64(p.Z)))
		return p, true
	}
	return math.Vec3{}, false
}
