package placement

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/lightrig/internal/light"
)

// ErrInvalidTemplate wraps every template validation failure.
var ErrInvalidTemplate = errors.New("invalid template")

// Validate checks the fields placement depends on and reports every
// problem at once.
func Validate(t *Template) error {
	if t == nil {
		return fmt.Errorf("%w: nil template", ErrInvalidTemplate)
	}

	var err error
	if t.ID == "" {
		err = multierr.Append(err, errors.New("missing id"))
	}
	if len(t.Lights) == 0 {
		err = multierr.Append(err, errors.New("no lights"))
	}
	if t.Settings.BaseDistance < 0 {
		err = multierr.Append(err, fmt.Errorf("negative base_distance %g", t.Settings.BaseDistance))
	}
	for i, l := range t.Lights {
		err = multierr.Append(err, validateLight(i, l))
	}
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidTemplate, t.ID, err)
	}
	return nil
}

func validateLight(i int, l LightSpec) error {
	label := fmt.Sprintf("light %d", i)
	if l.Name != "" {
		label = fmt.Sprintf("light %d (%s)", i, l.Name)
	}

	var err error
	if _, perr := light.ParseKind(l.Type); perr != nil {
		err = multierr.Append(err, fmt.Errorf("%s: %w", label, perr))
	}
	if loc := l.Position.Params.Location; len(loc) > 0 && len(loc) < 3 {
		err = multierr.Append(err, fmt.Errorf("%s: location needs 3 components, got %d", label, len(loc)))
	}
	if d := l.Position.Params.Distance; d != nil && *d <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s: distance must be positive", label))
	}
	switch l.Rotation.Method {
	case "", RotationTarget, RotationSubject:
	case RotationEuler:
		p := l.Rotation.Params
		src := p.Euler
		if len(src) == 0 {
			src = p.Rotation
		}
		if len(src) > 0 && len(src) != 3 {
			err = multierr.Append(err, fmt.Errorf("%s: euler needs 3 angles, got %d", label, len(src)))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("%s: unknown rotation method %q", label, l.Rotation.Method))
	}
	if c, ok := l.Properties["color"]; ok && (!c.IsList() || len(c.List) < 3) {
		err = multierr.Append(err, fmt.Errorf("%s: color needs 3 components", label))
	}
	return err
}

// Warnings returns non-fatal notes about the size of the result. existing
// is the number of lights already in the scene.
func Warnings(t *Template, existing, maxTemplate, maxScene int) []string {
	var out []string
	if maxTemplate > 0 && len(t.Lights) > maxTemplate {
		out = append(out, fmt.Sprintf("template has %d lights, more than %d", len(t.Lights), maxTemplate))
	}
	if total := existing + len(t.Lights); maxScene > 0 && total > maxScene {
		out = append(out, fmt.Sprintf("scene will have %d lights, more than %d", total, maxScene))
	}
	return out
}
