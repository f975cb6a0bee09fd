package light

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Faultbox/lightrig/pkg/math"
)

// ErrNotFound is returned for ids that do not resolve to a light.
var ErrNotFound = errors.New("light not found")

// Accessor is the read/write contract over light entities. Entities are
// resolved by id on every call; callers never hold on to them.
type Accessor interface {
	Exists(id string) bool
	Transform(id string) (math.Vec3, math.Quat, error)
	SetTransform(id string, pos math.Vec3, rot math.Quat) error
	PivotAnnotation(id string) (Pivot, bool, error)
	SetPivotAnnotation(id string, p Pivot) error
	ClearPivotAnnotation(id string) error
	Kind(id string) (Kind, error)
	Params(id string) (Params, error)
	SetParams(id string, p Params) error
}

// Store is an in-memory set of lights in insertion order. It implements Accessor.
type Store struct {
	lights map[string]*Light
	order  []string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{lights: make(map[string]*Light)}
}

// Add inserts a light, assigning a fresh id when it has none.
func (s *Store) Add(l *Light) (string, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if _, ok := s.lights[l.ID]; ok {
		return "", fmt.Errorf("light %s already exists", l.ID)
	}
	s.lights[l.ID] = l
	s.order = append(s.order, l.ID)
	return l.ID, nil
}

// Remove deletes a light.
func (s *Store) Remove(id string) error {
	if _, ok := s.lights[id]; !ok {
		return fmt.Errorf("remove %s: %w", id, ErrNotFound)
	}
	delete(s.lights, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns a copy of a light.
func (s *Store) Get(id string) (*Light, bool) {
	l, ok := s.lights[id]
	if !ok {
		return nil, false
	}
	return l.Clone(), true
}

// FindByName returns the id of the first light with the given name.
func (s *Store) FindByName(name string) (string, bool) {
	for _, id := range s.order {
		if s.lights[id].Name == name {
			return id, true
		}
	}
	return "", false
}

// IDs returns all ids in insertion order.
func (s *Store) IDs() []string {
	return append([]string(nil), s.order...)
}

// Len returns the number of lights.
func (s *Store) Len() int {
	return len(s.order)
}

// Annotate records an obstruction note on a light.
func (s *Store) Annotate(id string, note ObstructionNote) error {
	l, err := s.lookup(id)
	if err != nil {
		return err
	}
	l.Obstruction = &note
	return nil
}

// Exists reports whether id resolves.
func (s *Store) Exists(id string) bool {
	_, ok := s.lights[id]
	return ok
}

// Transform returns position and rotation.
func (s *Store) Transform(id string) (math.Vec3, math.Quat, error) {
	l, err := s.lookup(id)
	if err != nil {
		return math.Vec3{}, math.Quat{}, err
	}
	return l.Position, l.Rotation, nil
}

// SetTransform writes position and rotation verbatim.
func (s *Store) SetTransform(id string, pos math.Vec3, rot math.Quat) error {
	l, err := s.lookup(id)
	if err != nil {
		return err
	}
	l.Position = pos
	l.Rotation = rot
	return nil
}

// PivotAnnotation returns the stored pivot, if any.
func (s *Store) PivotAnnotation(id string) (Pivot, bool, error) {
	l, err := s.lookup(id)
	if err != nil {
		return Pivot{}, false, err
	}
	if l.Pivot == nil {
		return Pivot{}, false, nil
	}
	return *l.Pivot, true, nil
}

// SetPivotAnnotation stores a pivot.
func (s *Store) SetPivotAnnotation(id string, p Pivot) error {
	l, err := s.lookup(id)
	if err != nil {
		return err
	}
	l.Pivot = &p
	return nil
}

// ClearPivotAnnotation removes the pivot.
func (s *Store) ClearPivotAnnotation(id string) error {
	l, err := s.lookup(id)
	if err != nil {
		return err
	}
	l.Pivot = nil
	return nil
}

// Kind returns the light kind.
func (s *Store) Kind(id string) (Kind, error) {
	l, err := s.lookup(id)
	if err != nil {
		return 0, err
	}
	return l.Kind, nil
}

// Params returns the light parameters.
func (s *Store) Params(id string) (Params, error) {
	l, err := s.lookup(id)
	if err != nil {
		return Params{}, err
	}
	return l.Params, nil
}

// SetParams replaces the light parameters.
func (s *Store) SetParams(id string, p Params) error {
	l, err := s.lookup(id)
	if err != nil {
		return err
	}
	l.Params = p
	return nil
}

func (s *Store) lookup(id string) (*Light, error) {
	l, ok := s.lights[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return l, nil
}
