package scene

import (
	"github.com/Faultbox/lightrig/pkg/math"
)

// maxSkips bounds how many excluded hits a single query steps past.
const maxSkips = 16

// skipEpsilon is how far past an excluded hit the query restarts.
const skipEpsilon = 1e-4

// Facade wraps the host collaborators. View may be nil for headless use
// (placement), in which case screen queries report ErrNoViewport.
type Facade struct {
	Rays RayCaster
	View Viewport
}

// NewFacade creates a facade over the given ray caster and viewport.
func NewFacade(rays RayCaster, view Viewport) *Facade {
	return &Facade{Rays: rays, View: view}
}

// Valid reports whether screen-space queries are possible.
func (f *Facade) Valid() error {
	if f == nil || f.View == nil || f.Rays == nil {
		return ErrNoViewport
	}
	return nil
}

// Raycast returns the nearest hit from origin along dir whose object is not
// in exclude. Hit normals are flipped to face the origin.
func (f *Facade) Raycast(origin, dir math.Vec3, exclude ...string) (Hit, bool) {
	dir = dir.Normalize()
	if dir == (math.Vec3{}) || f.Rays == nil {
		return Hit{}, false
	}

	start := origin
	var travelled float32
	for i := 0; i <= maxSkips; i++ {
		hit, ok := f.Rays.Raycast(start, dir)
		if !ok {
			return Hit{}, false
		}
		if !excluded(hit.Object, exclude) {
			if hit.Normal.Dot(dir) > 0 {
				hit.Normal = hit.Normal.Negate()
			}
			hit.Distance += travelled
			return hit, true
		}
		step := hit.Distance + skipEpsilon
		travelled += step
		start = start.Add(dir.Scale(step))
	}
	return Hit{}, false
}

// RaycastScreen casts the view ray under a pixel.
func (f *Facade) RaycastScreen(p math.Vec2, exclude ...string) (Hit, bool) {
	if f.Valid() != nil {
		return Hit{}, false
	}
	origin, dir := f.View.ScreenToWorldRay(p)
	return f.Raycast(origin, dir, exclude...)
}

// Segment reports the first hit strictly between from and to. The segment
// is shortened by margin at both ends so surfaces touching an endpoint do
// not count.
func (f *Facade) Segment(from, to math.Vec3, margin float32, exclude ...string) (Hit, bool) {
	delta := to.Sub(from)
	length := delta.Length()
	if length <= 2*margin {
		return Hit{}, false
	}
	dir := delta.Scale(1 / length)
	start := from.Add(dir.Scale(margin))
	limit := length - 2*margin

	hit, ok := f.Raycast(start, dir, exclude...)
	if !ok || hit.Distance >= limit {
		return Hit{}, false
	}
	return hit, true
}

func excluded(id string, exclude []string) bool {
	for _, e := range exclude {
		if e == id {
			return true
		}
	}
	return false
}
