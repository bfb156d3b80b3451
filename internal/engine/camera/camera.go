// Package camera provides the ocean viewer's camera: a perspective lens,
// the automatic orbit path and a manually driven orbit camera.
package camera

import (
	gomath "math"

	"github.com/Beygs/Waves/pkg/math"
)

// Lens is a perspective projection.
type Lens struct {
	FOV  float32 // Vertical field of view, degrees
	Near float32
	Far  float32
}

// DefaultLens returns a 75 degree lens with planes at 0.1 and 100.
func DefaultLens() Lens {
	return Lens{FOV: 75, Near: 0.1, Far: 100}
}

// Projection returns the projection matrix for the given aspect ratio
// (width/height). Non-positive aspects fall back to 1.
func (l Lens) Projection(aspect float32) math.Mat4 {
	if !(aspect > 0) {
		aspect = 1
	}
	return math.Perspective(math.Radians(l.FOV), aspect, l.Near, l.Far)
}

// AutoOrbit returns the eye position of the automatic orbit at time t:
// a slow circle of radius 1 around the Y axis whose height breathes
// between 0.49 and 1.69.
func AutoOrbit(t float64) math.Vec3 {
	h := 1 + 0.3*gomath.Cos(0.3*t)
	return math.Vec3{
		X: float32(gomath.Sin(0.2 * t)),
		Y: float32(h * h),
		Z: float32(gomath.Cos(0.2 * t)),
	}
}

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	CenterX, CenterY, CenterZ float32

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera at (1, 1, 1) looking at the origin.
func NewOrbitCamera() *OrbitCamera {
	c := &OrbitCamera{
		MinDistance:     0.3,
		MaxDistance:     20.0,
		MinPitch:        0.05,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
	c.LookFrom(math.Vec3{X: 1, Y: 1, Z: 1})
	return c
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return math.Vec3{
		X: c.CenterX + x,
		Y: c.CenterY + y,
		Z: c.CenterZ + z,
	}
}

// LookFrom places the camera at eye, keeping the current center. Distance
// and pitch are clamped to the camera's constraints.
func (c *OrbitCamera) LookFrom(eye math.Vec3) {
	d := eye.Sub(math.Vec3{X: c.CenterX, Y: c.CenterY, Z: c.CenterZ})
	dist := d.Length()
	if dist == 0 {
		return
	}
	c.Distance = math.Clamp(dist, c.MinDistance, c.MaxDistance)
	c.RotationX = math.Clamp(float32(gomath.Asin(float64(d.Y/dist))), c.MinPitch, c.MaxPitch)
	c.RotationY = float32(gomath.Atan2(float64(d.X), float64(d.Z)))
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	pos := c.Position()
	center := math.Vec3{X: c.CenterX, Y: c.CenterY, Z: c.CenterZ}
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(pos, center, up)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX = math.Clamp(c.RotationX+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = math.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// Rig combines the lens with either the automatic orbit or the manual
// orbit camera. Both always look at the origin.
type Rig struct {
	Lens  Lens
	Orbit *OrbitCamera
	auto  bool
	last  math.Vec3 // Last eye position handed out
}

// NewRig creates a rig. With auto set the eye follows AutoOrbit.
func NewRig(lens Lens, auto bool) *Rig {
	r := &Rig{Lens: lens, Orbit: NewOrbitCamera(), auto: auto}
	r.last = r.Orbit.Position()
	return r
}

// Auto reports whether the automatic orbit drives the eye.
func (r *Rig) Auto() bool {
	return r.auto
}

// SetAuto switches between the automatic and the manual orbit. Leaving the
// automatic orbit hands its last eye position to the manual camera so the
// view does not jump.
func (r *Rig) SetAuto(auto bool) {
	if r.auto && !auto {
		r.Orbit.LookFrom(r.last)
	}
	r.auto = auto
}

// Eye returns the eye position at time t.
func (r *Rig) Eye(t float64) math.Vec3 {
	if r.auto {
		r.last = AutoOrbit(t)
	} else {
		r.last = r.Orbit.Position()
	}
	return r.last
}

// ViewProjection returns projection * view for time t and the given aspect.
func (r *Rig) ViewProjection(t float64, aspect float32) math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	view := math.LookAt(r.Eye(t), math.Vec3{}, up)
	return r.Lens.Projection(aspect).Mul(view)
}
