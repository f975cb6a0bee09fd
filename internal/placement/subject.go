package placement

import (
	"fmt"

	"github.com/Faultbox/lightrig/internal/scene"
	"github.com/Faultbox/lightrig/pkg/math"
)

// defaultSubjectRadius is used when no target objects are given.
const defaultSubjectRadius = 0.5

// Target is one object the lights must see.
type Target struct {
	ID     string
	Center math.Vec3
	Top    float32
}

// Subject is what a template is placed around.
type Subject struct {
	Center  math.Vec3
	Radius  float32
	Bounds  scene.Bounds
	Targets []Target
}

// Top returns the highest point of any target.
func (s Subject) Top() float32 {
	top := s.Center.Z
	for i, t := range s.Targets {
		if i == 0 || t.Top > top {
			top = t.Top
		}
	}
	return top
}

// AverageCenter returns the mean of the target centers.
func (s Subject) AverageCenter() math.Vec3 {
	if len(s.Targets) == 0 {
		return s.Center
	}
	var sum math.Vec3
	for _, t := range s.Targets {
		sum = sum.Add(t.Center)
	}
	return sum.Scale(1 / float32(len(s.Targets)))
}

// TargetIDs returns the ids of the targets.
func (s Subject) TargetIDs() []string {
	ids := make([]string, len(s.Targets))
	for i, t := range s.Targets {
		ids[i] = t.ID
	}
	return ids
}

// NewSubject builds the subject from the union of the targets' bounding
// boxes. With no targets it is a small sphere at the origin.
func NewSubject(bp scene.BoundsProvider, ids []string) (Subject, error) {
	if len(ids) == 0 {
		return Subject{Radius: defaultSubjectRadius}, nil
	}

	var s Subject
	for i, id := range ids {
		b, ok := bp.Bounds(id)
		if !ok {
			return Subject{}, fmt.Errorf("target %q not found in scene", id)
		}
		if i == 0 {
			s.Bounds = b
		} else {
			s.Bounds = s.Bounds.Union(b)
		}
		s.Targets = append(s.Targets, Target{ID: id, Center: b.Center(), Top: b.Max.Z})
	}
	s.Center = s.Bounds.Center()
	s.Radius = s.Bounds.Max.Sub(s.Bounds.Min).Length() / 2
	return s, nil
}
