package positioning

import (
	"github.com/Faultbox/lightrig/internal/light"
	"github.com/Faultbox/lightrig/internal/session"
	"github.com/Faultbox/lightrig/pkg/math"
)

// updateFree drags the pivot under the cursor and re-aims the light at it.
func updateFree(s *Session, id string, ev session.Event, _ math.Vec2) error {
	pivot, err := s.deps.Pivots.Get(id)
	if err != nil {
		return err
	}
	pos, rot, err := s.deps.Lights.Transform(id)
	if err != nil {
		return err
	}
	pivot = pivot.Add(s.screenOffset(pivot, ev.Pointer, s.deps.Config.FreeFallbackDepth))
	if err := s.deps.Lights.SetTransform(id, pos, light.AimRotation(pos, pivot, rot)); err != nil {
		return err
	}
	return s.deps.Pivots.Set(id, pivot)
}

// updateMove translates light and pivot together so the pivot follows the
// cursor, then re-aims the light at the moved pivot.
func updateMove(s *Session, id string, ev session.Event, _ math.Vec2) error {
	pivot, err := s.deps.Pivots.Get(id)
	if err != nil {
		return err
	}
	pos, rot, err := s.deps.Lights.Transform(id)
	if err != nil {
		return err
	}
	offset := s.screenOffset(pivot, ev.Pointer, 0)
	pos, pivot = pos.Add(offset), pivot.Add(offset)
	if err := s.deps.Lights.SetTransform(id, pos, light.AimRotation(pos, pivot, rot)); err != nil {
		return err
	}
	return s.deps.Pivots.Set(id, pivot)
}
