// Package lighting provides lighting utilities for 3D rendering.
package lighting

import "math"

// SunDirection converts an azimuth (rotation around Y, degrees) and an
// elevation above the horizon (degrees) into a unit vector pointing towards
// the sun.
func SunDirection(azimuth, elevation float64) [3]float32 {
	az := azimuth * math.Pi / 180
	el := elevation * math.Pi / 180

	x := float32(math.Cos(el) * math.Sin(az))
	y := float32(math.Sin(el))
	z := float32(math.Cos(el) * math.Cos(az))

	return [3]float32{x, y, z}
}
