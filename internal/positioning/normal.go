package positioning

import (
	"github.com/Faultbox/lightrig/internal/session"
	"github.com/Faultbox/lightrig/pkg/math"
)

// updateNormal places the light along the surface normal under the cursor,
// facing back onto the surface.
func updateNormal(s *Session, id string, ev session.Event, _ math.Vec2) error {
	point, normal, ok, err := s.surfaceHit(ev.Pointer)
	if err != nil || !ok {
		return err
	}
	pos := point.Add(normal.Scale(s.distances[id]))
	if err := s.deps.Lights.SetTransform(id, pos, math.TrackTo(normal.Negate())); err != nil {
		return err
	}
	return s.deps.Pivots.Set(id, point)
}
