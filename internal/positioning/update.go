package positioning

import (
	"github.com/Faultbox/lightrig/internal/session"
	"github.com/Faultbox/lightrig/pkg/math"
)

// updateFunc applies one pointer move to one light. A raycast miss is not
// an error; the light is simply left alone.
type updateFunc func(s *Session, id string, ev session.Event, delta math.Vec2) error

var updaters = map[Mode]updateFunc{
	ModeHighlight: updateHighlight,
	ModeNormal:    updateNormal,
	ModeOrbit:     updateOrbit,
	ModeTarget:    updateTarget,
	ModeFree:      updateFree,
	ModeMove:      updateMove,
}

// surfaceHit casts the view ray under the pointer, ignoring the selection.
func (s *Session) surfaceHit(pointer math.Vec2) (hitPoint, normal math.Vec3, ok bool, err error) {
	hit, ok := s.deps.Scene.RaycastScreen(pointer, s.selection...)
	if !ok {
		return math.Vec3{}, math.Vec3{}, false, nil
	}
	n := hit.Normal.Normalize()
	if n == (math.Vec3{}) {
		return math.Vec3{}, math.Vec3{}, false, ErrDegenerateNormal
	}
	return hit.Point, n, true, nil
}

// screenOffset returns the world offset that carries pivot under the
// cursor at the pivot's own depth. When the pivot does not project, the
// cursor ray is sampled at depth; depth <= 0 means the ray origin's
// distance to the pivot.
func (s *Session) screenOffset(pivot math.Vec3, cursor math.Vec2, depth float32) math.Vec3 {
	view := s.deps.Scene.View
	if ps, ok := view.WorldToScreen(pivot); ok {
		from, okFrom := view.ScreenToWorld(ps, pivot)
		to, okTo := view.ScreenToWorld(cursor, pivot)
		if okFrom && okTo {
			return to.Sub(from)
		}
	}
	origin, dir := view.ScreenToWorldRay(cursor)
	if depth <= 0 {
		depth = origin.Distance(pivot)
	}
	return origin.Add(dir.Scale(depth)).Sub(pivot)
}
