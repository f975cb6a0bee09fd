// Package debug builds overlay geometry for inspecting a scene.
package debug

import (
	"github.com/Faultbox/lightrig/internal/engine/picking"
	"github.com/Faultbox/lightrig/internal/light"
	"github.com/Faultbox/lightrig/pkg/math"
)

// Segment is a line between two world points.
type Segment [2]math.Vec3

// BoxEdges returns the 12 edges of a box grown by padding on every side.
func BoxEdges(box picking.AABB, padding float32) []Segment {
	pad := math.Vec3{X: padding, Y: padding, Z: padding}
	lo, hi := box.Min.Sub(pad), box.Max.Add(pad)
	corner := func(i int) math.Vec3 {
		c := lo
		if i&1 != 0 {
			c.X = hi.X
		}
		if i&2 != 0 {
			c.Y = hi.Y
		}
		if i&4 != 0 {
			c.Z = hi.Z
		}
		return c
	}

	edges := make([]Segment, 0, 12)
	for i := 0; i < 8; i++ {
		for _, bit := range []int{1, 2, 4} {
			if i&bit == 0 {
				edges = append(edges, Segment{corner(i), corner(i | bit)})
			}
		}
	}
	return edges
}

// QuadEdges returns the outline of a rectangle.
func QuadEdges(q picking.Quad) []Segment {
	u, v := q.U.Scale(q.HalfU), q.V.Scale(q.HalfV)
	p := [4]math.Vec3{
		q.Center.Sub(u).Sub(v),
		q.Center.Add(u).Sub(v),
		q.Center.Add(u).Add(v),
		q.Center.Sub(u).Add(v),
	}
	return []Segment{{p[0], p[1]}, {p[1], p[2]}, {p[2], p[3]}, {p[3], p[0]}}
}

// ObjectEdges outlines a world object.
func ObjectEdges(obj picking.Object) []Segment {
	switch obj.Shape {
	case picking.ShapeBox:
		return BoxEdges(obj.Box, 0)
	case picking.ShapeQuad:
		return QuadEdges(obj.Quad)
	}
	return nil
}

// LightEdges returns the aim line of a light, length units along its
// forward axis, and the line to its pivot when it has one.
func LightEdges(l *light.Light, length float32) []Segment {
	edges := []Segment{{l.Position, l.Position.Add(l.Rotation.Forward().Scale(length))}}
	if l.Pivot != nil {
		edges = append(edges, Segment{l.Position, l.Pivot.Point})
	}
	return edges
}
