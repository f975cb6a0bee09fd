// Package scenefile loads the YAML scene, template and event script files
// the command line works from.
package scenefile

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/lightrig/internal/config"
	"github.com/Faultbox/lightrig/internal/engine/camera"
	"github.com/Faultbox/lightrig/internal/engine/picking"
	"github.com/Faultbox/lightrig/internal/light"
	"github.com/Faultbox/lightrig/internal/placement"
	"github.com/Faultbox/lightrig/pkg/math"
)

// Scene is the on-disk scene description.
type Scene struct {
	Camera  CameraSpec   `yaml:"camera"`
	Objects []ObjectSpec `yaml:"objects"`
	Lights  []LightSpec  `yaml:"lights"`
	Subject []string     `yaml:"subject"` // Object ids lights are placed around
}

// CameraSpec positions the orbit camera. Angles are degrees. With Fit set,
// center and distance are derived from the scene bounds.
type CameraSpec struct {
	Center   []float32 `yaml:"center"`
	Distance float32   `yaml:"distance"`
	Yaw      float32   `yaml:"yaw"`
	Pitch    float32   `yaml:"pitch"`
	Fit      bool      `yaml:"fit"`
}

// ObjectSpec is one piece of geometry: exactly one of Box or Quad.
type ObjectSpec struct {
	ID   string    `yaml:"id"`
	Box  *BoxSpec  `yaml:"box"`
	Quad *QuadSpec `yaml:"quad"`
}

// BoxSpec is an axis-aligned box.
type BoxSpec struct {
	Min []float32 `yaml:"min"`
	Max []float32 `yaml:"max"`
}

// QuadSpec is a rectangle.
type QuadSpec struct {
	Center []float32 `yaml:"center"`
	Normal []float32 `yaml:"normal"`
	Width  float32   `yaml:"width"`
	Height float32   `yaml:"height"`
}

// LightSpec is a light already in the scene. Angles are degrees.
type LightSpec struct {
	Name        string    `yaml:"name"`
	Kind        string    `yaml:"kind"`
	Position    []float32 `yaml:"position"`
	Target      []float32 `yaml:"target"` // Aims the light and becomes its pivot
	Energy      float32   `yaml:"energy"`
	Color       []float32 `yaml:"color"`
	Temperature float32   `yaml:"temperature"`
	Radius      float32   `yaml:"radius"`
	Size        float32   `yaml:"size"`
	SizeY       float32   `yaml:"size_y"`
	Shape       string    `yaml:"shape"`
	SpotSize    float32   `yaml:"spot_size"`
	SpotBlend   float32   `yaml:"spot_blend"`
	SunAngle    float32   `yaml:"sun_angle"`
}

// Loaded is a scene ready to work on.
type Loaded struct {
	World   *picking.World
	Lights  *light.Store
	Camera  *camera.OrbitCamera
	Subject []string
}

// LoadScene reads a scene file.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return ParseScene(data)
}

// ParseScene decodes a scene.
func ParseScene(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return &s, nil
}

// LoadTemplate reads a template file.
func LoadTemplate(path string) (*placement.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return placement.ParseTemplate(data)
}

// Build creates the world, the light store and the camera. Every invalid
// object or light is reported.
func Build(s *Scene, vp config.ViewportConfig) (*Loaded, error) {
	out := &Loaded{
		World:   picking.NewWorld(),
		Lights:  light.NewStore(),
		Camera:  camera.NewOrbitCamera(vp),
		Subject: s.Subject,
	}

	var errs error
	for i, o := range s.Objects {
		errs = multierr.Append(errs, addObject(out.World, i, o))
	}
	for i, l := range s.Lights {
		errs = multierr.Append(errs, addLight(out.Lights, i, l))
	}
	for _, id := range s.Subject {
		if _, ok := out.World.Object(id); !ok {
			errs = multierr.Append(errs, fmt.Errorf("subject %q is not an object", id))
		}
	}
	if errs != nil {
		return nil, errs
	}

	cam := out.Camera
	cam.Yaw = math.Radians(s.Camera.Yaw)
	cam.Pitch = math.Clamp(math.Radians(s.Camera.Pitch), cam.MinPitch, cam.MaxPitch)
	if len(s.Camera.Center) > 0 {
		c, err := vec(s.Camera.Center)
		if err != nil {
			return nil, fmt.Errorf("camera center: %w", err)
		}
		cam.Center = c
	}
	if s.Camera.Distance > 0 {
		cam.Distance = s.Camera.Distance
	}
	if s.Camera.Fit {
		if b, ok := out.World.SceneBounds(); ok {
			cam.FitToBounds(b)
		}
	}
	return out, nil
}

// Resolve maps light names or ids to ids.
func (l *Loaded) Resolve(refs []string) ([]string, error) {
	ids := make([]string, 0, len(refs))
	var errs error
	for _, ref := range refs {
		if l.Lights.Exists(ref) {
			ids = append(ids, ref)
			continue
		}
		id, ok := l.Lights.FindByName(ref)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("light %q: %w", ref, light.ErrNotFound))
			continue
		}
		ids = append(ids, id)
	}
	return ids, errs
}

var errVec = errors.New("expected 3 components")

func vec(v []float32) (math.Vec3, error) {
	if len(v) != 3 {
		return math.Vec3{}, fmt.Errorf("%w, got %d", errVec, len(v))
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

func addObject(w *picking.World, i int, o ObjectSpec) error {
	if o.ID == "" {
		return fmt.Errorf("object %d: missing id", i)
	}
	if _, dup := w.Object(o.ID); dup {
		return fmt.Errorf("object %q: duplicate id", o.ID)
	}
	switch {
	case o.Box != nil && o.Quad == nil:
		lo, err1 := vec(o.Box.Min)
		hi, err2 := vec(o.Box.Max)
		if err := multierr.Combine(err1, err2); err != nil {
			return fmt.Errorf("object %q box: %w", o.ID, err)
		}
		w.AddBox(o.ID, picking.NewAABB(lo, hi))
	case o.Quad != nil && o.Box == nil:
		c, err1 := vec(o.Quad.Center)
		n, err2 := vec(o.Quad.Normal)
		if err := multierr.Combine(err1, err2); err != nil {
			return fmt.Errorf("object %q quad: %w", o.ID, err)
		}
		if n.Length() == 0 || o.Quad.Width <= 0 || o.Quad.Height <= 0 {
			return fmt.Errorf("object %q quad: needs a normal and a positive size", o.ID)
		}
		w.AddQuad(o.ID, picking.NewQuad(c, n, o.Quad.Width, o.Quad.Height))
	default:
		return fmt.Errorf("object %q: needs exactly one of box or quad", o.ID)
	}
	return nil
}

func addLight(store *light.Store, i int, l LightSpec) error {
	label := l.Name
	if label == "" {
		label = fmt.Sprintf("#%d", i)
	}
	kind, err := light.ParseKind(l.Kind)
	if err != nil {
		return fmt.Errorf("light %s: %w", label, err)
	}
	pos, err := vec(l.Position)
	if err != nil {
		return fmt.Errorf("light %s position: %w", label, err)
	}

	p := light.DefaultParams(kind)
	if l.Energy > 0 {
		p.Energy = l.Energy
	}
	if l.Radius > 0 {
		p.Radius = l.Radius
	}
	if l.Size > 0 {
		p.Size, p.SizeY = l.Size, l.Size
	}
	if l.SizeY > 0 {
		p.SizeY = l.SizeY
	}
	if l.Shape != "" {
		p.Shape = light.ParseAreaShape(l.Shape)
	}
	if l.SpotSize > 0 {
		p.SpotSize = math.Clamp(math.Radians(l.SpotSize), 0, light.MaxSpotSize)
	}
	if l.SpotBlend > 0 {
		p.SpotBlend = math.Clamp(l.SpotBlend, 0, 1)
	}
	if l.SunAngle > 0 {
		p.SunAngle = math.Radians(l.SunAngle)
	}

	opts := []light.Option{light.WithName(l.Name), light.WithPosition(pos), light.WithParams(p)}
	switch {
	case l.Temperature > 0:
		opts = append(opts, light.WithTemperature(l.Temperature))
	case len(l.Color) > 0:
		c, err := vec(l.Color)
		if err != nil {
			return fmt.Errorf("light %s color: %w", label, err)
		}
		opts = append(opts, light.WithColor([3]float32{c.X, c.Y, c.Z}))
	}
	if len(l.Target) > 0 {
		t, err := vec(l.Target)
		if err != nil {
			return fmt.Errorf("light %s target: %w", label, err)
		}
		opts = append(opts, light.WithTarget(t))
	}

	_, err = store.Add(light.New(kind, opts...))
	return err
}
