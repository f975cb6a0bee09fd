// Package picking provides ray casting against simple scene geometry.
package picking

import (
	gomath "math"

	"github.com/Faultbox/lightrig/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// Face indices reported for box hits.
const (
	FaceNegX = iota
	FacePosX
	FaceNegY
	FacePosY
	FaceNegZ
	FacePosZ
)

// IntersectPlane intersects the ray with the plane through point with the
// given normal. Returns the distance along the ray.
func (r Ray) IntersectPlane(point, normal math.Vec3) (t float32, ok bool) {
	denom := normal.Dot(r.Direction)
	if gomath.Abs(float64(denom)) < 1e-6 {
		return 0, false // Ray parallel to plane
	}

	t = point.Sub(r.Origin).Dot(normal) / denom
	if t < 0 {
		return 0, false // Intersection behind ray origin
	}
	return t, true
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection and the face that was hit.
// If the ray starts inside the box, returns the exit distance and face.
func (r Ray) IntersectAABB(box AABB) (t float32, face int, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)
	minFace, maxFace := -1, -1

	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	hi := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, 0, false
			}
			continue
		}

		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		f1, f2 := axis*2, axis*2+1 // -axis face, +axis face
		if t1 > t2 {
			t1, t2 = t2, t1
			f1, f2 = f2, f1
		}
		if t1 > tmin {
			tmin, minFace = t1, f1
		}
		if t2 < tmax {
			tmax, maxFace = t2, f2
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, 0, false
	}

	// Entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, maxFace, true
	}
	return tmin, minFace, true
}

// FaceNormal returns the outward normal of a box face.
func FaceNormal(face int) math.Vec3 {
	switch face {
	case FaceNegX:
		return math.Vec3{X: -1}
	case FacePosX:
		return math.Vec3{X: 1}
	case FaceNegY:
		return math.Vec3{Y: -1}
	case FacePosY:
		return math.Vec3{Y: 1}
	case FaceNegZ:
		return math.Vec3{Z: -1}
	default:
		return math.Vec3{Z: 1}
	}
}

// NewAABB creates an AABB from two corners, in any order.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{
		Min: math.Vec3{X: min(a.X, b.X), Y: min(a.Y, b.Y), Z: min(a.Z, b.Z)},
		Max: math.Vec3{X: max(a.X, b.X), Y: max(a.Y, b.Y), Z: max(a.Z, b.Z)},
	}
}

// Quad is a two-sided rectangle defined by its center, unit normal and
// half extents along two in-plane axes.
type Quad struct {
	Center math.Vec3
	Normal math.Vec3
	U, V   math.Vec3 // In-plane unit axes
	HalfU  float32
	HalfV  float32
}

// NewQuad builds a width x height rectangle facing normal. The V axis
// leans toward world +Z where possible.
func NewQuad(center, normal math.Vec3, width, height float32) Quad {
	n := normal.Normalize()
	ref := math.AxisZ
	if gomath.Abs(float64(n.Z)) > 0.99 {
		ref = math.AxisY
	}
	u := ref.Cross(n).Normalize()
	v := n.Cross(u)
	return Quad{Center: center, Normal: n, U: u, V: v, HalfU: width / 2, HalfV: height / 2}
}

// Intersect tests the ray against the rectangle from either side.
func (q Quad) Intersect(r Ray) (float32, bool) {
	t, ok := r.IntersectPlane(q.Center, q.Normal)
	if !ok {
		return 0, false
	}
	local := r.At(t).Sub(q.Center)
	if gomath.Abs(float64(local.Dot(q.U))) > float64(q.HalfU) ||
		gomath.Abs(float64(local.Dot(q.V))) > float64(q.HalfV) {
		return 0, false
	}
	return t, true
}

// Bounds returns the box enclosing the rectangle.
func (q Quad) Bounds() AABB {
	box := AABB{Min: q.Center, Max: q.Center}
	for _, su := range []float32{-q.HalfU, q.HalfU} {
		for _, sv := range []float32{-q.HalfV, q.HalfV} {
			c := q.Center.Add(q.U.Scale(su)).Add(q.V.Scale(sv))
			box = NewAABB(
				math.Vec3{X: min(box.Min.X, c.X), Y: min(box.Min.Y, c.Y), Z: min(box.Min.Z, c.Z)},
				math.Vec3{X: max(box.Max.X, c.X), Y: max(box.Max.Y, c.Y), Z: max(box.Max.Z, c.Z)},
			)
		}
	}
	return box
}
