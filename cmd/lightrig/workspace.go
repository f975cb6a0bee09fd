package main

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/lightrig/internal/config"
	"github.com/Faultbox/lightrig/internal/control"
	"github.com/Faultbox/lightrig/internal/light"
	"github.com/Faultbox/lightrig/internal/positioning"
	"github.com/Faultbox/lightrig/internal/scene"
	"github.com/Faultbox/lightrig/internal/scenefile"
	"github.com/Faultbox/lightrig/internal/sensitivity"
	"github.com/Faultbox/lightrig/internal/session"
	"github.com/Faultbox/lightrig/pkg/math"
)

// workspace is a loaded scene with every collaborator the sessions need.
type workspace struct {
	*scenefile.Loaded
	Facade   *scene.Facade
	Pivots   *light.Pivots
	Adapter  *light.Adapter
	Registry *session.Registry
}

func openWorkspace(path string, c *config.Config) (*workspace, error) {
	s, err := scenefile.LoadScene(path)
	if err != nil {
		return nil, err
	}
	loaded, err := scenefile.Build(s, c.Viewport)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	pivots := light.NewPivots(loaded.Lights, c.Positioning.Pivot)
	return &workspace{
		Loaded:   loaded,
		Facade:   scene.NewFacade(loaded.World, loaded.Camera),
		Pivots:   pivots,
		Adapter:  light.NewAdapter(loaded.Lights, pivots, light.ParseAreaAxis(c.Sensitivity.AreaAxis)),
		Registry: session.NewRegistry(),
	}, nil
}

func (w *workspace) positioningDeps(c *config.Config) positioning.Deps {
	return positioning.Deps{
		Scene:    w.Facade,
		Lights:   w.Lights,
		Pivots:   w.Pivots,
		Registry: w.Registry,
		Config:   c.Positioning,
	}
}

func (w *workspace) controlDeps(c *config.Config) control.Deps {
	table, th := sensitivity.FromConfig(c.Sensitivity)
	return control.Deps{
		Lights:     w.Lights,
		Adapter:    w.Adapter,
		Table:      table,
		Thresholds: th,
		Registry:   w.Registry,
	}
}

type lightState struct {
	ID       string       `yaml:"id"`
	Name     string       `yaml:"name"`
	Kind     light.Kind   `yaml:"kind"`
	Position [3]float32   `yaml:"position,flow"`
	Forward  [3]float32   `yaml:"forward,flow"`
	Pivot    *[3]float32  `yaml:"pivot,omitempty,flow"`
	Energy   float32      `yaml:"energy"`
	Color    [3]float32   `yaml:"color,flow"`
	Angles   *angleReport `yaml:"angles,omitempty"`
}

type angleReport struct {
	Azimuth   float32 `yaml:"azimuth"`
	Elevation float32 `yaml:"elevation"`
	Distance  float32 `yaml:"distance"`
}

func arr(v math.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// dumpLights writes the state of ids as YAML.
func (w *workspace) dumpLights(out io.Writer, ids []string) error {
	states := make([]lightState, 0, len(ids))
	for _, id := range ids {
		l, ok := w.Lights.Get(id)
		if !ok {
			continue
		}
		st := lightState{
			ID:       l.ID,
			Name:     l.Name,
			Kind:     l.Kind,
			Position: arr(l.Position),
			Forward:  arr(l.Rotation.Forward()),
			Energy:   l.Params.Energy,
			Color:    l.Params.Color,
		}
		if l.Pivot != nil {
			p := arr(l.Pivot.Point)
			st.Pivot = &p
		}
		if a, err := positioning.ReadAngles(w.Lights, w.Pivots, id); err == nil {
			st.Angles = &angleReport{Azimuth: a.Azimuth, Elevation: a.Elevation, Distance: a.Distance}
		}
		states = append(states, st)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{"lights": states}); err != nil {
		return err
	}
	return enc.Close()
}
