package positioning

import (
	"github.com/Faultbox/lightrig/internal/light"
	"github.com/Faultbox/lightrig/internal/session"
	"github.com/Faultbox/lightrig/pkg/math"
)

// updateHighlight places the light so that its specular reflection off the
// surface under the cursor reaches the viewer.
func updateHighlight(s *Session, id string, ev session.Event, _ math.Vec2) error {
	point, normal, ok, err := s.surfaceHit(ev.Pointer)
	if err != nil || !ok {
		return err
	}
	_, rot, err := s.deps.Lights.Transform(id)
	if err != nil {
		return err
	}

	toView := s.deps.Scene.View.ViewPoint().Sub(point).Normalize()
	reflected := toView.Reflect(normal)
	pos := point.Sub(reflected.Scale(s.distances[id]))

	if err := s.deps.Lights.SetTransform(id, pos, light.AimRotation(pos, point, rot)); err != nil {
		return err
	}
	return s.deps.Pivots.Set(id, point)
}
