// Package scene is the boundary between lightrig and the host scene: ray
// queries, screen projection and object bounds.
package scene

import (
	"errors"

	"github.com/Faultbox/lightrig/pkg/math"
)

// ErrNoViewport is returned when a screen-space query has no active viewport.
var ErrNoViewport = errors.New("no active viewport")

// Hit is the nearest intersection of a ray with scene geometry.
type Hit struct {
	Point    math.Vec3
	Normal   math.Vec3 // Unit length, facing the ray origin
	Object   string
	Face     int
	Distance float32
}

// RayCaster answers single nearest-hit ray queries. Direction is unit length.
type RayCaster interface {
	Raycast(origin, dir math.Vec3) (Hit, bool)
}

// Viewport converts between window pixels and world space for the active camera.
type Viewport interface {
	// ScreenToWorldRay returns the view ray through a pixel.
	ScreenToWorldRay(p math.Vec2) (origin, dir math.Vec3)
	// WorldToScreen projects a point; false if it is behind the camera.
	WorldToScreen(p math.Vec3) (math.Vec2, bool)
	// ScreenToWorld returns the point under p at the view depth of depthRef.
	ScreenToWorld(p math.Vec2, depthRef math.Vec3) (math.Vec3, bool)
	// ViewPoint is the eye position.
	ViewPoint() math.Vec3
}

// Bounds is an axis-aligned box in world space.
type Bounds struct {
	Min, Max math.Vec3
}

// Center returns the middle of the box.
func (b Bounds) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Union returns the smallest box containing both.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		Min: math.Vec3{X: min(b.Min.X, o.Min.X), Y: min(b.Min.Y, o.Min.Y), Z: min(b.Min.Z, o.Min.Z)},
		Max: math.Vec3{X: max(b.Max.X, o.Max.X), Y: max(b.Max.Y, o.Max.Y), Z: max(b.Max.Z, o.Max.Z)},
	}
}

// BoundsProvider reports the world bounds of scene objects.
type BoundsProvider interface {
	Bounds(id string) (Bounds, bool)
}
