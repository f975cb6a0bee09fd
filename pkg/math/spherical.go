package math

import "math"

// Spherical holds an offset in azimuth/elevation form. Angles are radians.
type Spherical struct {
	Azimuth   float32
	Elevation float32
	Radius    float32
}

// ToSpherical converts an offset to spherical form. Azimuth is measured
// from +X toward +Y, elevation from the XY plane toward +Z.
func ToSpherical(v Vec3) Spherical {
	horiz := math.Hypot(float64(v.X), float64(v.Y))
	return Spherical{
		Azimuth:   float32(math.Atan2(float64(v.Y), float64(v.X))),
		Elevation: float32(math.Atan2(float64(v.Z), horiz)),
		Radius:    v.Length(),
	}
}

// Vec3 converts back to a cartesian offset.
func (s Spherical) Vec3() Vec3 {
	cosEl := math.Cos(float64(s.Elevation))
	return Vec3{
		X: s.Radius * float32(cosEl*math.Cos(float64(s.Azimuth))),
		Y: s.Radius * float32(cosEl*math.Sin(float64(s.Azimuth))),
		Z: s.Radius * float32(math.Sin(float64(s.Elevation))),
	}
}

// StudioOffset converts lighting-rig angles (radians) into an offset from
// the subject. Azimuth 0 places the light in front of the subject on -Y and
// positive azimuth swings it toward +X.
func StudioOffset(azimuth, elevation, distance float32) Vec3 {
	cosEl := math.Cos(float64(elevation))
	return Vec3{
		X: distance * float32(cosEl*math.Sin(float64(azimuth))),
		Y: -distance * float32(cosEl*math.Cos(float64(azimuth))),
		Z: distance * float32(math.Sin(float64(elevation))),
	}
}
