package light

import (
	"github.com/Faultbox/lightrig/internal/config"
	"github.com/Faultbox/lightrig/pkg/math"
)

// Pivots reads and writes pivot annotations and derives a pivot for lights
// that have none stored.
type Pivots struct {
	acc     Accessor
	cfg     config.PivotConfig
	targets map[string]math.Vec3
}

// NewPivots creates a pivot store over acc.
func NewPivots(acc Accessor, cfg config.PivotConfig) *Pivots {
	return &Pivots{
		acc:     acc,
		cfg:     cfg,
		targets: make(map[string]math.Vec3),
	}
}

// Get returns the stored pivot, else the remembered target point, else a
// point along the light's forward axis at the kind's default distance.
func (p *Pivots) Get(id string) (math.Vec3, error) {
	stored, ok, err := p.acc.PivotAnnotation(id)
	if err != nil {
		return math.Vec3{}, err
	}
	if ok {
		return stored.Point, nil
	}
	if t, ok := p.targets[id]; ok {
		return t, nil
	}
	return p.Default(id)
}

// Default derives the transient pivot from the current transform.
func (p *Pivots) Default(id string) (math.Vec3, error) {
	pos, rot, err := p.acc.Transform(id)
	if err != nil {
		return math.Vec3{}, err
	}
	kind, err := p.acc.Kind(id)
	if err != nil {
		return math.Vec3{}, err
	}
	params, err := p.acc.Params(id)
	if err != nil {
		return math.Vec3{}, err
	}
	return pos.Add(rot.Forward().Scale(p.DefaultDistance(kind, params.Energy))), nil
}

// DefaultDistance is how far in front of a light its derived pivot sits.
func (p *Pivots) DefaultDistance(kind Kind, energy float32) float32 {
	switch kind {
	case KindSun:
		return p.cfg.SunDistance
	case KindSpot:
		return max(p.cfg.SpotMinDistance, energy*p.cfg.SpotEnergyFactor)
	default:
		return max(p.cfg.MinDistance, energy*p.cfg.EnergyFactor)
	}
}

// Stored returns the stored pivot point, if any.
func (p *Pivots) Stored(id string) (math.Vec3, bool, error) {
	stored, ok, err := p.acc.PivotAnnotation(id)
	return stored.Point, ok, err
}

// Set stores point as the pivot, along with its offset from the light.
func (p *Pivots) Set(id string, point math.Vec3) error {
	pos, _, err := p.acc.Transform(id)
	if err != nil {
		return err
	}
	return p.acc.SetPivotAnnotation(id, Pivot{Point: point, Offset: point.Sub(pos)})
}

// Clear removes the stored pivot.
func (p *Pivots) Clear(id string) error {
	return p.acc.ClearPivotAnnotation(id)
}

// RememberTarget records the object point a light was last aimed at. It is
// used as the pivot while no pivot is stored.
func (p *Pivots) RememberTarget(id string, point math.Vec3) {
	p.targets[id] = point
}

// ForgetTarget drops the remembered target.
func (p *Pivots) ForgetTarget(id string) {
	delete(p.targets, id)
}
