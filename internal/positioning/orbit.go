package positioning

import (
	"github.com/Faultbox/lightrig/internal/light"
	"github.com/Faultbox/lightrig/internal/session"
	"github.com/Faultbox/lightrig/pkg/math"
)

// orbitAxisEpsilon is the length below which the horizontal right axis is
// considered undefined.
const orbitAxisEpsilon = 0.001

// updateOrbit rotates the light around its pivot: horizontal motion yaws
// about world Z, vertical motion pitches about the camera-independent right
// axis. The radius is preserved and the light keeps facing the pivot.
func updateOrbit(s *Session, id string, _ session.Event, delta math.Vec2) error {
	if delta == (math.Vec2{}) {
		return nil
	}
	pivot, err := s.deps.Pivots.Get(id)
	if err != nil {
		return err
	}
	pos, rot, err := s.deps.Lights.Transform(id)
	if err != nil {
		return err
	}
	k := s.deps.Config.OrbitRadiansPerPixel
	pos = pivot.Add(OrbitOffset(pos.Sub(pivot), delta.X*k, -delta.Y*k))
	return s.deps.Lights.SetTransform(id, pos, light.AimRotation(pos, pivot, rot))
}

// OrbitOffset yaws offset about +Z and then pitches it about PitchAxis.
func OrbitOffset(offset math.Vec3, yaw, pitch float32) math.Vec3 {
	if yaw != 0 {
		offset = math.RotateAround(offset, math.AxisZ, yaw)
	}
	if pitch != 0 {
		offset = math.RotateAround(offset, PitchAxis(offset), pitch)
	}
	return offset
}

// PitchAxis is the horizontal axis perpendicular to offset. Straight above
// or below the pivot it falls back to world X, and for a zero offset to
// world Y.
func PitchAxis(offset math.Vec3) math.Vec3 {
	right := offset.Cross(math.AxisZ)
	if right.Length() > orbitAxisEpsilon {
		return right.Normalize()
	}
	if math.Abs(offset.Z) > orbitAxisEpsilon {
		return math.AxisX
	}
	return math.AxisY
}
