package placement

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/lightrig/internal/engine/lighting"
	"github.com/Faultbox/lightrig/internal/light"
	"github.com/Faultbox/lightrig/internal/logger"
	"github.com/Faultbox/lightrig/pkg/math"
)

// ErrNoFormula is returned for adaptive symbols a property cannot resolve.
var ErrNoFormula = errors.New("no adaptive formula")

const (
	defaultElevation  = 30 // Degrees
	defaultEnergy     = 100
	defaultAreaSize   = 1
	fallbackBase      = 2
	minAutoScaleRatio = 0.5
)

// Candidate is a resolved template light, ready to be created.
type Candidate struct {
	Index    int
	Name     string
	Kind     light.Kind
	Position math.Vec3
	Rotation math.Quat
	Target   math.Vec3 // Aim point and initial pivot
	Params   light.Params
}

// Failure records why a template light was not placed.
type Failure struct {
	Light  string `yaml:"light"`
	Stage  string `yaml:"stage"`
	Reason string `yaml:"reason"`
}

// BaseDistance resolves the distance unit of a template.
func (e *Engine) BaseDistance(t *Template, subj Subject, opts Options) float32 {
	if opts.BaseDistance > 0 {
		return opts.BaseDistance
	}
	base := e.cfg.BaseDistance
	if t.Settings.BaseDistance > 0 {
		base = t.Settings.BaseDistance
	}
	if base <= 0 {
		base = fallbackBase
	}
	if e.autoScale(t) {
		base *= max(minAutoScaleRatio, subj.Radius)
	}
	return base
}

func (e *Engine) autoScale(t *Template) bool {
	if t.Settings.AutoScale != nil {
		return *t.Settings.AutoScale
	}
	return e.cfg.AutoScale
}

func (e *Engine) cameraRelative(t *Template) bool {
	if t.Settings.CameraRelative != nil {
		return *t.Settings.CameraRelative
	}
	return e.cfg.CameraRelative
}

// Synthesize resolves every template light against the subject. Lights
// that fail are reported and left out; the rest are still returned.
func (e *Engine) Synthesize(t *Template, subj Subject, opts Options) ([]Candidate, []Failure) {
	base := e.BaseDistance(t, subj, opts)
	var cam Camera
	if e.cameraRelative(t) {
		if opts.Camera == nil {
			logger.Warn("camera-relative template without a camera; using world axes",
				zap.String("template", t.ID))
		}
		cam = opts.Camera
	}

	var (
		out      []Candidate
		failures []Failure
	)
	for i, spec := range t.Lights {
		c, err := e.synthesize(i, spec, subj, base, cam)
		if err != nil {
			failures = append(failures, Failure{Light: lightLabel(i, spec), Stage: "synthesize", Reason: err.Error()})
			logger.Warn("template light not synthesized",
				zap.String("template", t.ID),
				zap.String("light", lightLabel(i, spec)),
				zap.Error(err))
			continue
		}
		out = append(out, c)
	}
	return out, failures
}

func lightLabel(i int, spec LightSpec) string {
	if spec.Name != "" {
		return spec.Name
	}
	return fmt.Sprintf("Light_%d", i)
}

func (e *Engine) synthesize(i int, spec LightSpec, subj Subject, base float32, cam Camera) (Candidate, error) {
	kind, err := light.ParseKind(spec.Type)
	if err != nil {
		return Candidate{}, err
	}

	offset := Offset(spec.Position, base, subj.Center)
	if cam != nil {
		right, forward, up := cam.Basis()
		offset = right.Scale(offset.X).Add(forward.Scale(offset.Y)).Add(up.Scale(offset.Z))
	}
	pos := subj.Center.Add(offset)

	var rot math.Quat
	switch spec.Rotation.Method {
	case RotationEuler:
		a := spec.Rotation.Params.Angles()
		rot = math.QuatFromEuler(math.Radians(a[0]), math.Radians(a[1]), math.Radians(a[2]))
		if cam != nil {
			rot = cam.Rotation().Mul(rot).Normalize()
		}
	default:
		rot = light.AimRotation(pos, subj.Center, math.QuatIdentity())
	}

	params, err := e.resolveParams(kind, spec.Properties, subj.Radius)
	if err != nil {
		return Candidate{}, err
	}

	return Candidate{
		Index:    i,
		Name:     lightLabel(i, spec),
		Kind:     kind,
		Position: pos,
		Rotation: rot,
		Target:   subj.Center,
		Params:   params,
	}, nil
}

// Offset returns a light's offset from the subject center for one of the
// position methods. Direct placement is absolute, so its offset is taken
// relative to center.
func Offset(p PositionSpec, base float32, center math.Vec3) math.Vec3 {
	switch p.Method {
	case "", MethodSpherical:
		el := float32(defaultElevation)
		if p.Params.Elevation != nil {
			el = *p.Params.Elevation
		}
		d := float32(1)
		if p.Params.Distance != nil {
			d = *p.Params.Distance
		}
		return math.StudioOffset(math.Radians(p.Params.Azimuth), math.Radians(el), d*base)
	case MethodCartesian:
		return math.Vec3{X: p.Params.X, Y: p.Params.Y, Z: p.Params.Z}.Scale(base)
	case MethodDirect:
		if loc := p.Params.Location; len(loc) >= 3 {
			return math.Vec3{X: loc[0], Y: loc[1], Z: loc[2]}.Sub(center)
		}
	}
	return math.Vec3{Y: -base, Z: base}
}

// Adaptive resolves an adaptive symbol for a property against the subject
// radius.
func Adaptive(symbol, property string, radius float32) (float32, error) {
	switch property {
	case "intensity":
		switch symbol {
		case "adaptive":
			return math.Clamp(radius*80, 50, 300), nil
		case "adaptive_soft":
			return math.Clamp(radius*40, 30, 150), nil
		case "adaptive_large":
			return math.Clamp(radius*100, 80, 400), nil
		}
	case "size":
		switch symbol {
		case "adaptive":
			return max(1, radius*1.5), nil
		case "adaptive_large":
			return max(5, radius*4), nil
		case "adaptive_small":
			return max(0.5, radius*0.8), nil
		}
	}
	return 0, fmt.Errorf("%s for %s: %w", symbol, property, ErrNoFormula)
}

func (e *Engine) resolveParams(kind light.Kind, props map[string]Value, radius float32) (light.Params, error) {
	p := light.DefaultParams(kind)
	intensityMul := e.cfg.IntensityMultiplier
	if intensityMul <= 0 {
		intensityMul = 1
	}
	sizeMul := e.cfg.SizeMultiplier
	if sizeMul <= 0 {
		sizeMul = 1
	}

	number := func(name string) (float32, bool, error) {
		v, ok := props[name]
		if !ok {
			return 0, false, nil
		}
		switch {
		case v.IsAdaptive():
			f, err := Adaptive(v.Symbol, name, radius)
			return f, true, err
		case v.IsSymbol(), v.IsList():
			return 0, true, fmt.Errorf("%s: expected a number, got %v", name, v)
		}
		return v.Number, true, nil
	}

	if kind == light.KindArea {
		if v, ok := props["shape"]; ok {
			p.Shape = light.ParseAreaShape(v.Symbol)
		}
	}

	f, ok, err := number("intensity")
	if err != nil {
		return p, err
	}
	if !ok || f == 0 {
		f = defaultEnergy
	}
	p.Energy = f * intensityMul

	if c, ok := props["color"]; ok && len(c.List) >= 3 {
		p.Color = lighting.ClampColor([3]float32{c.List[0], c.List[1], c.List[2]})
		p.Temperature = 0
	}

	if f, ok, err = number("shadow_soft_size"); err != nil {
		return p, err
	} else if ok {
		p.Radius = max(0, f)
	}

	switch kind {
	case light.KindArea:
		size, ok, err := number("size")
		if err != nil {
			return p, err
		}
		if !ok || size == 0 {
			size = defaultAreaSize
		}
		p.Size = size * sizeMul
		p.SizeY = p.Size
		if sy, ok, err := number("size_y"); err != nil {
			return p, err
		} else if ok && p.Shape.HasSizeY() {
			p.SizeY = sy * sizeMul
		}
	case light.KindSpot:
		if f, ok, err := number("spot_size"); err != nil {
			return p, err
		} else if ok {
			p.SpotSize = math.Clamp(f, 0, light.MaxSpotSize)
		}
		if f, ok, err := number("spot_angle"); err != nil {
			return p, err
		} else if ok {
			p.SpotSize = math.Clamp(math.Radians(f), 0, light.MaxSpotSize)
		}
		if f, ok, err := number("spot_blend"); err != nil {
			return p, err
		} else if ok {
			p.SpotBlend = math.Clamp(f, 0, 1)
		}
	case light.KindSun:
		if f, ok, err := number("angle"); err != nil {
			return p, err
		} else if ok {
			p.SunAngle = math.Radians(f)
		}
	}
	return p, nil
}
