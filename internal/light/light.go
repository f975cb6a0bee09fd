// Package light models the light entities that lightrig positions, together
// with their pivot annotation and typed parameters.
package light

import (
	"fmt"
	"strings"

	"github.com/Faultbox/lightrig/internal/engine/lighting"
	"github.com/Faultbox/lightrig/pkg/math"
)

// Kind is the light type.
type Kind int

const (
	KindPoint Kind = iota
	KindSun
	KindSpot
	KindArea
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "POINT"
	case KindSun:
		return "SUN"
	case KindSpot:
		return "SPOT"
	case KindArea:
		return "AREA"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "POINT":
		return KindPoint, nil
	case "SUN":
		return KindSun, nil
	case "SPOT":
		return KindSpot, nil
	case "AREA":
		return KindArea, nil
	}
	return 0, fmt.Errorf("unknown light type %q", s)
}

// MarshalYAML writes the kind name.
func (k Kind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// AreaShape is the emitter shape of an area light.
type AreaShape int

const (
	ShapeSquare AreaShape = iota
	ShapeRectangle
	ShapeDisk
	ShapeEllipse
)

// ParseAreaShape parses a shape name; unknown names map to rectangle.
func ParseAreaShape(s string) AreaShape {
	switch strings.ToUpper(s) {
	case "SQUARE":
		return ShapeSquare
	case "DISK":
		return ShapeDisk
	case "ELLIPSE":
		return ShapeEllipse
	default:
		return ShapeRectangle
	}
}

// HasSizeY reports whether the shape has an independent Y extent.
func (s AreaShape) HasSizeY() bool {
	return s == ShapeRectangle || s == ShapeEllipse
}

// Params are the kind-specific scalar parameters. Angles are radians.
type Params struct {
	Energy      float32
	Color       [3]float32
	Temperature float32 // Kelvin; 0 when the color was set directly
	Radius      float32 // Point and spot soft shadow radius
	Size        float32 // Area
	SizeY       float32 // Area, rectangle and ellipse only
	Shape       AreaShape
	SpotSize    float32
	SpotBlend   float32
	SunAngle    float32
	Spread      float32 // Area, 0-1
}

// DefaultParams returns the parameters of a freshly created light of kind k.
func DefaultParams(k Kind) Params {
	p := Params{
		Energy: 100,
		Color:  [3]float32{1, 1, 1},
		Radius: 0.25,
	}
	switch k {
	case KindSun:
		p.Energy = 3
		p.SunAngle = math.Radians(0.526)
	case KindSpot:
		p.SpotSize = math.Radians(45)
		p.SpotBlend = 0.15
	case KindArea:
		p.Size = 1
		p.SizeY = 1
		p.Shape = ShapeSquare
		p.Spread = 1
	}
	return p
}

// Pivot is the aim point annotation of a light.
type Pivot struct {
	Point  math.Vec3
	Offset math.Vec3 // Point minus the light position when set; diagnostic only
}

// ObstructionNote marks a light that was kept despite a blocked line of sight.
type ObstructionNote struct {
	Blocker string
	Hit     math.Vec3
}

// Light is a light entity.
type Light struct {
	ID          string
	Name        string
	Kind        Kind
	Position    math.Vec3
	Rotation    math.Quat
	Params      Params
	Pivot       *Pivot
	Obstruction *ObstructionNote
}

// Option configures a Light during construction.
type Option func(*Light)

// WithName sets the display name.
func WithName(name string) Option {
	return func(l *Light) {
		l.Name = name
	}
}

// WithPosition sets the world position.
func WithPosition(p math.Vec3) Option {
	return func(l *Light) {
		l.Position = p
	}
}

// WithRotation sets the orientation.
func WithRotation(q math.Quat) Option {
	return func(l *Light) {
		l.Rotation = q.Normalize()
	}
}

// WithTarget aims the light at a point and stores it as the pivot.
// Apply it after WithPosition.
func WithTarget(target math.Vec3) Option {
	return func(l *Light) {
		l.Rotation = AimRotation(l.Position, target, l.Rotation)
		l.Pivot = &Pivot{Point: target, Offset: target.Sub(l.Position)}
	}
}

// WithEnergy sets the emitted power.
func WithEnergy(e float32) Option {
	return func(l *Light) {
		l.Params.Energy = e
	}
}

// WithColor sets the RGB color directly.
func WithColor(c [3]float32) Option {
	return func(l *Light) {
		l.Params.Color = lighting.ClampColor(c)
		l.Params.Temperature = 0
	}
}

// WithTemperature sets the color from a temperature in kelvin.
func WithTemperature(kelvin float32) Option {
	return func(l *Light) {
		l.Params.Temperature = math.Clamp(kelvin, lighting.MinKelvin, lighting.MaxKelvin)
		l.Params.Color = lighting.KelvinToRGB(l.Params.Temperature)
	}
}

// WithParams replaces all parameters.
func WithParams(p Params) Option {
	return func(l *Light) {
		l.Params = p
	}
}

// New builds a light of the given kind. The ID is assigned when the light
// is added to a Store.
func New(kind Kind, opts ...Option) *Light {
	l := &Light{
		Kind:     kind,
		Rotation: math.QuatIdentity(),
		Params:   DefaultParams(kind),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.Name == "" {
		l.Name = strings.ToLower(kind.String())
	}
	return l
}

// Clone returns a deep copy.
func (l *Light) Clone() *Light {
	c := *l
	if l.Pivot != nil {
		p := *l.Pivot
		c.Pivot = &p
	}
	if l.Obstruction != nil {
		o := *l.Obstruction
		c.Obstruction = &o
	}
	return &c
}

// AimRotation returns the rotation that points a light at from toward to.
// When the two points coincide the current rotation is kept.
func AimRotation(from, to math.Vec3, current math.Quat) math.Quat {
	dir := to.Sub(from)
	if dir.Length() < 1e-6 {
		return current
	}
	return math.TrackTo(dir)
}
