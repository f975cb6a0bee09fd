package picking

import (
	"github.com/Faultbox/lightrig/internal/scene"
	"github.com/Faultbox/lightrig/pkg/math"
)

// Shape is the geometry of a world object.
type Shape int

const (
	ShapeBox Shape = iota
	ShapeQuad
)

// Object is one piece of pickable geometry.
type Object struct {
	ID    string
	Shape Shape
	Box   AABB
	Quad  Quad
}

// World is an in-memory scene of boxes and quads. It implements
// scene.RayCaster and scene.BoundsProvider.
type World struct {
	objects []Object
	index   map[string]int
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{index: make(map[string]int)}
}

// AddBox adds an axis-aligned box. An existing object with the same id is replaced.
func (w *World) AddBox(id string, box AABB) {
	w.add(Object{ID: id, Shape: ShapeBox, Box: box})
}

// AddQuad adds a rectangle.
func (w *World) AddQuad(id string, q Quad) {
	w.add(Object{ID: id, Shape: ShapeQuad, Quad: q})
}

func (w *World) add(obj Object) {
	if i, ok := w.index[obj.ID]; ok {
		w.objects[i] = obj
		return
	}
	w.index[obj.ID] = len(w.objects)
	w.objects = append(w.objects, obj)
}

// Object returns the object with the given id.
func (w *World) Object(id string) (Object, bool) {
	i, ok := w.index[id]
	if !ok {
		return Object{}, false
	}
	return w.objects[i], true
}

// Objects returns every object in insertion order.
func (w *World) Objects() []Object {
	return append([]Object(nil), w.objects...)
}

// Len returns the number of objects.
func (w *World) Len() int {
	return len(w.objects)
}

// Raycast returns the nearest hit along the ray. Normals are the geometric
// face normals; callers orient them.
func (w *World) Raycast(origin, dir math.Vec3) (scene.Hit, bool) {
	ray := Ray{Origin: origin, Direction: dir.Normalize()}

	var best scene.Hit
	found := false
	for _, obj := range w.objects {
		var (
			t      float32
			face   int
			normal math.Vec3
			ok     bool
		)
		switch obj.Shape {
		case ShapeBox:
			t, face, ok = ray.IntersectAABB(obj.Box)
			normal = FaceNormal(face)
		case ShapeQuad:
			t, ok = obj.Quad.Intersect(ray)
			normal = obj.Quad.Normal
		}
		if !ok || (found && t >= best.Distance) {
			continue
		}
		best = scene.Hit{
			Point:    ray.At(t),
			Normal:   normal,
			Object:   obj.ID,
			Face:     face,
			Distance: t,
		}
		found = true
	}
	return best, found
}

// Bounds returns the world bounds of an object.
func (w *World) Bounds(id string) (scene.Bounds, bool) {
	obj, ok := w.Object(id)
	if !ok {
		return scene.Bounds{}, false
	}
	box := obj.Box
	if obj.Shape == ShapeQuad {
		box = obj.Quad.Bounds()
	}
	return scene.Bounds{Min: box.Min, Max: box.Max}, true
}

// SceneBounds returns the union of all object bounds.
func (w *World) SceneBounds() (scene.Bounds, bool) {
	var out scene.Bounds
	for i, obj := range w.objects {
		b, _ := w.Bounds(obj.ID)
		if i == 0 {
			out = b
			continue
		}
		out = out.Union(b)
	}
	return out, len(w.objects) > 0
}
