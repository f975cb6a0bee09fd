package positioning

import (
	"github.com/Faultbox/lightrig/internal/light"
	"github.com/Faultbox/lightrig/pkg/math"
)

// minRadius is the smallest radius SetAngles keeps; anything shorter is
// replaced by a unit radius.
const minRadius = 0.0001

// Angles locates a light on the sphere around its pivot using the orbit
// convention. Azimuth and Elevation are in degrees.
type Angles struct {
	Azimuth   float32
	Elevation float32
	Distance  float32
}

// ReadAngles returns where light id sits relative to its pivot.
func ReadAngles(lights light.Accessor, pivots *light.Pivots, id string) (Angles, error) {
	pivot, err := pivots.Get(id)
	if err != nil {
		return Angles{}, err
	}
	pos, _, err := lights.Transform(id)
	if err != nil {
		return Angles{}, err
	}
	sp := math.ToSpherical(pos.Sub(pivot))
	return Angles{
		Azimuth:   math.Degrees(sp.Azimuth),
		Elevation: math.Degrees(sp.Elevation),
		Distance:  sp.Radius,
	}, nil
}

// SetAngles moves light id onto the sphere around its pivot and aims it at
// the pivot. A Distance of zero or less keeps the current radius.
func SetAngles(lights light.Accessor, pivots *light.Pivots, id string, a Angles) error {
	pivot, err := pivots.Get(id)
	if err != nil {
		return err
	}
	pos, rot, err := lights.Transform(id)
	if err != nil {
		return err
	}
	r := a.Distance
	if r <= 0 {
		r = pos.Distance(pivot)
	}
	if r <= minRadius {
		r = 1
	}
	sp := math.Spherical{
		Azimuth:   math.Radians(math.Clamp(a.Azimuth, -180, 180)),
		Elevation: math.Radians(math.Clamp(a.Elevation, -90, 90)),
		Radius:    r,
	}
	pos = pivot.Add(sp.Vec3())
	return lights.SetTransform(id, pos, light.AimRotation(pos, pivot, rot))
}
