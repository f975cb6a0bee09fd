// Package placement applies lighting templates around a subject: it
// synthesizes light positions, creates the lights, and repairs lights whose
// line of sight to the subject is blocked.
package placement

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template is a declarative multi-light setup relative to a subject.
type Template struct {
	ID          string      `yaml:"id"`
	Name        string      `yaml:"name"`
	Category    string      `yaml:"category"`
	Description string      `yaml:"description"`
	Settings    Settings    `yaml:"settings"`
	Lights      []LightSpec `yaml:"lights"`
}

// Settings override the placement config for one template. Zero values
// and nil pointers mean "use the config".
type Settings struct {
	BaseDistance   float32 `yaml:"base_distance"`
	AutoScale      *bool   `yaml:"auto_scale"`
	CameraRelative *bool   `yaml:"camera_relative"`
}

// LightSpec describes one template light.
type LightSpec struct {
	Name       string           `yaml:"name"`
	Type       string           `yaml:"type"` // AREA, SPOT, POINT or SUN
	Position   PositionSpec     `yaml:"position"`
	Rotation   RotationSpec     `yaml:"rotation"`
	Properties map[string]Value `yaml:"properties"`
}

// Position methods.
const (
	MethodSpherical = "spherical"
	MethodCartesian = "cartesian"
	MethodDirect    = "direct"
)

// PositionSpec places a light relative to the subject.
type PositionSpec struct {
	Method string         `yaml:"method"` // Empty means spherical
	Params PositionParams `yaml:"params"`
}

// PositionParams holds the inputs of every method. Angles are degrees;
// distance and x/y/z are multiples of the base distance.
type PositionParams struct {
	Azimuth   float32   `yaml:"azimuth"`
	Elevation *float32  `yaml:"elevation"` // Default 30
	Distance  *float32  `yaml:"distance"`  // Default 1
	X         float32   `yaml:"x"`
	Y         float32   `yaml:"y"`
	Z         float32   `yaml:"z"`
	Location  []float32 `yaml:"location"` // Direct: absolute world point
}

// Rotation methods.
const (
	RotationTarget  = "target"
	RotationSubject = "target_subject"
	RotationEuler   = "euler"
)

// RotationSpec orients a light.
type RotationSpec struct {
	Method string         `yaml:"method"` // Empty means target
	Target string         `yaml:"target"`
	Params RotationParams `yaml:"params"`
}

// RotationParams holds euler angles in degrees. Rotation is accepted as an
// alias of Euler.
type RotationParams struct {
	Euler    []float32 `yaml:"euler"`
	Rotation []float32 `yaml:"rotation"`
}

// Angles returns the euler angles, defaulting to zero.
func (p RotationParams) Angles() [3]float32 {
	src := p.Euler
	if len(src) == 0 {
		src = p.Rotation
	}
	var out [3]float32
	copy(out[:], src)
	return out
}

// Value is a property value: a number, a list of numbers or a symbol such
// as "adaptive" or "RECTANGLE".
type Value struct {
	Number float32
	List   []float32
	Symbol string
}

// Num returns a numeric value.
func Num(f float32) Value { return Value{Number: f} }

// Sym returns a symbolic value.
func Sym(s string) Value { return Value{Symbol: s} }

// Vals returns a list value.
func Vals(fs ...float32) Value { return Value{List: fs} }

// IsSymbol reports whether v holds a symbol.
func (v Value) IsSymbol() bool { return v.Symbol != "" }

// IsList reports whether v holds a list.
func (v Value) IsList() bool { return v.List != nil }

// IsAdaptive reports whether v must be resolved against the subject size.
func (v Value) IsAdaptive() bool { return strings.HasPrefix(v.Symbol, "adaptive") }

func (v Value) String() string {
	switch {
	case v.IsSymbol():
		return v.Symbol
	case v.IsList():
		return fmt.Sprint(v.List)
	default:
		return fmt.Sprint(v.Number)
	}
}

// UnmarshalYAML accepts a scalar number, a symbol or a sequence of numbers.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []float32
		if err := node.Decode(&list); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*v = Value{List: list}
		return nil
	case yaml.ScalarNode:
		var f float32
		if node.Tag != "!!str" && node.Decode(&f) == nil {
			*v = Value{Number: f}
			return nil
		}
		*v = Value{Symbol: node.Value}
		return nil
	default:
		return fmt.Errorf("line %d: property must be a number, a list or a symbol", node.Line)
	}
}

// MarshalYAML writes the value back in its source form.
func (v Value) MarshalYAML() (any, error) {
	switch {
	case v.IsSymbol():
		return v.Symbol, nil
	case v.IsList():
		return v.List, nil
	default:
		return v.Number, nil
	}
}

// ParseTemplate decodes a YAML template.
func ParseTemplate(data []byte) (*Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &t, nil
}
