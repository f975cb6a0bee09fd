package positioning

import (
	"github.com/Faultbox/lightrig/internal/light"
	"github.com/Faultbox/lightrig/internal/session"
	"github.com/Faultbox/lightrig/pkg/math"
)

// updateTarget aims the light at the surface under the cursor and makes the
// hit point its pivot. The light does not move.
func updateTarget(s *Session, id string, ev session.Event, _ math.Vec2) error {
	point, _, ok, err := s.surfaceHit(ev.Pointer)
	if err != nil || !ok {
		return err
	}
	pos, rot, err := s.deps.Lights.Transform(id)
	if err != nil {
		return err
	}
	if err := s.deps.Lights.SetTransform(id, pos, light.AimRotation(pos, point, rot)); err != nil {
		return err
	}
	return s.deps.Pivots.Set(id, point)
}
