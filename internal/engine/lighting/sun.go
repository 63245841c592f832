// Package lighting provides lighting utilities for 3D rendering.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/runtimemesh/pkg/math"
)

// SunDirection converts an azimuth around the Y axis and an elevation
// above the horizon, both in degrees, into the direction sunlight travels.
func SunDirection(azimuth, elevation float32) math.Vec3 {
	az := azimuth * math32.Pi / 180
	el := elevation * math32.Pi / 180

	toSun := math.Vec3{
		X: math32.Cos(el) * math32.Sin(az),
		Y: math32.Sin(el),
		Z: math32.Cos(el) * math32.Cos(az),
	}
	return toSun.Scale(-1)
}
