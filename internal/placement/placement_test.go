package placement_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/lightrig/internal/config"
	"github.com/Faultbox/lightrig/internal/engine/picking"
	"github.com/Faultbox/lightrig/internal/light"
	"github.com/Faultbox/lightrig/internal/placement"
	"github.com/Faultbox/lightrig/internal/scene"
	"github.com/Faultbox/lightrig/pkg/math"
)

type fixture struct {
	world  *picking.World
	store  *light.Store
	pivots *light.Pivots
	engine *placement.Engine
}

func newFixture(cfg config.PlacementConfig) *fixture {
	world := picking.NewWorld()
	store := light.NewStore()
	pivots := light.NewPivots(store, config.Default().Positioning.Pivot)
	return &fixture{
		world:  world,
		store:  store,
		pivots: pivots,
		engine: placement.NewEngine(scene.NewFacade(world, nil), world, store, pivots, cfg),
	}
}

func ptr[T any](v T) *T { return &v }

func keyLightTemplate() *placement.Template {
	return &placement.Template{
		ID:       "key_only",
		Name:     "Key Only",
		Settings: placement.Settings{BaseDistance: 2, AutoScale: ptr(false)},
		Lights: []placement.LightSpec{{
			Name: "Key",
			Type: "AREA",
			Position: placement.PositionSpec{
				Method: placement.MethodSpherical,
				Params: placement.PositionParams{Azimuth: 45, Elevation: ptr[float32](45), Distance: ptr[float32](1)},
			},
		}},
	}
}

// blockedScene is a small cube at the origin with a card halfway between
// it and the key light of keyLightTemplate.
func blockedScene(f *fixture) {
	f.world.AddBox("subject", picking.NewAABB(math.Vec3{X: -0.25, Y: -0.25, Z: -0.25}, math.Vec3{X: 0.25, Y: 0.25, Z: 0.25}))
	toLight := math.Vec3{X: 1, Y: -1, Z: 1.4142135}.Normalize()
	f.world.AddQuad("card", picking.NewQuad(math.Vec3{X: 0.5, Y: -0.5, Z: 0.70710677}, toLight, 0.6, 0.6))
}

func TestSphericalOffset(t *testing.T) {
	spec := keyLightTemplate().Lights[0].Position
	got := placement.Offset(spec, 2, math.Vec3{})
	assert.True(t, got.ApproxEqual(math.Vec3{X: 1, Y: -1, Z: 1.4142135}, 1e-4), "got %v", got)
}

func TestOffsetMethods(t *testing.T) {
	center := math.Vec3{X: 10}
	tests := []struct {
		name string
		spec placement.PositionSpec
		want math.Vec3
	}{
		{"default elevation", placement.PositionSpec{}, math.StudioOffset(0, math.Radians(30), 2)},
		{"cartesian", placement.PositionSpec{Method: "cartesian", Params: placement.PositionParams{X: 1, Y: -0.5, Z: 2}}, math.Vec3{X: 2, Y: -1, Z: 4}},
		{"direct", placement.PositionSpec{Method: "direct", Params: placement.PositionParams{Location: []float32{11, 2, 3}}}, math.Vec3{X: 1, Y: 2, Z: 3}},
		{"direct without location", placement.PositionSpec{Method: "direct"}, math.Vec3{Y: -2, Z: 2}},
		{"unknown", placement.PositionSpec{Method: "polar"}, math.Vec3{Y: -2, Z: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := placement.Offset(tt.spec, 2, center)
			assert.True(t, got.ApproxEqual(tt.want, 1e-5), "got %v want %v", got, tt.want)
		})
	}
}

func TestAdaptive(t *testing.T) {
	tests := []struct {
		symbol, prop string
		radius, want float32
	}{
		{"adaptive", "intensity", 0.1, 50},
		{"adaptive", "intensity", 2, 160},
		{"adaptive", "intensity", 10, 300},
		{"adaptive_soft", "intensity", 2, 80},
		{"adaptive_soft", "intensity", 0.1, 30},
		{"adaptive_large", "intensity", 2, 200},
		{"adaptive_large", "intensity", 0.5, 80},
		{"adaptive", "size", 0.2, 1},
		{"adaptive", "size", 2, 3},
		{"adaptive_large", "size", 2, 8},
		{"adaptive_large", "size", 0.5, 5},
		{"adaptive_small", "size", 2, 1.6},
		{"adaptive_small", "size", 0.1, 0.5},
	}
	for _, tt := range tests {
		got, err := placement.Adaptive(tt.symbol, tt.prop, tt.radius)
		require.NoError(t, err, "%s/%s", tt.symbol, tt.prop)
		assert.InDelta(t, tt.want, got, 1e-4, "%s/%s r=%g", tt.symbol, tt.prop, tt.radius)
	}

	_, err := placement.Adaptive("adaptive_soft", "size", 1)
	assert.ErrorIs(t, err, placement.ErrNoFormula)
	_, err = placement.Adaptive("adaptive_small", "intensity", 1)
	assert.ErrorIs(t, err, placement.ErrNoFormula)
}

func TestParseTemplate(t *testing.T) {
	data := []byte(`
id: three_point
name: Three Point
category: Studio
settings:
  base_distance: 3
  auto_scale: false
lights:
  - name: Key
    type: AREA
    position:
      method: spherical
      params: {azimuth: 45, elevation: 45, distance: 1.0}
    rotation:
      target: subject
    properties:
      intensity: adaptive
      size: 2.5
      size_y: 3.5
      color: [1.0, 0.9, 0.8]
      shape: RECTANGLE
  - name: Rim
    type: SPOT
    position:
      method: cartesian
      params: {x: 0, y: 1, z: 1}
    rotation:
      method: euler
      params:
        euler: [90, 0, 180]
    properties:
      spot_angle: 30
`)
	tmpl, err := placement.ParseTemplate(data)
	require.NoError(t, err)
	require.NoError(t, placement.Validate(tmpl))

	assert.Equal(t, "three_point", tmpl.ID)
	assert.Equal(t, float32(3), tmpl.Settings.BaseDistance)
	require.NotNil(t, tmpl.Settings.AutoScale)
	assert.False(t, *tmpl.Settings.AutoScale)
	require.Len(t, tmpl.Lights, 2)

	key := tmpl.Lights[0].Properties
	assert.Equal(t, "adaptive", key["intensity"].Symbol)
	assert.True(t, key["intensity"].IsAdaptive())
	assert.Equal(t, float32(2.5), key["size"].Number)
	assert.Equal(t, []float32{1, 0.9, 0.8}, key["color"].List)
	assert.Equal(t, "RECTANGLE", key["shape"].Symbol)
	assert.Equal(t, [3]float32{90, 0, 180}, tmpl.Lights[1].Rotation.Params.Angles())

	out, err := yaml.Marshal(tmpl)
	require.NoError(t, err)
	again, err := placement.ParseTemplate(out)
	require.NoError(t, err)
	assert.Equal(t, tmpl.Lights[0].Properties, again.Lights[0].Properties)
}

func TestValidate(t *testing.T) {
	bad := &placement.Template{
		Lights: []placement.LightSpec{
			{Name: "a", Type: "LASER"},
			{Name: "b", Type: "SPOT", Rotation: placement.RotationSpec{Method: "spin"}},
			{Name: "c", Type: "AREA", Position: placement.PositionSpec{Params: placement.PositionParams{Location: []float32{1}}}},
			{Name: "d", Type: "POINT", Properties: map[string]placement.Value{"color": placement.Num(1)}},
		},
	}
	err := placement.Validate(bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, placement.ErrInvalidTemplate)
	msg := err.Error()
	for _, want := range []string{"missing id", "LASER", "spin", "location", "color"} {
		assert.Contains(t, msg, want)
	}

	assert.ErrorIs(t, placement.Validate(&placement.Template{ID: "x"}), placement.ErrInvalidTemplate)
	assert.NoError(t, placement.Validate(keyLightTemplate()))
}

func TestWarnings(t *testing.T) {
	tmpl := &placement.Template{Lights: make([]placement.LightSpec, 16)}
	w := placement.Warnings(tmpl, 0, 15, 20)
	require.Len(t, w, 1)
	assert.Contains(t, w[0], "16")

	w = placement.Warnings(tmpl, 10, 15, 20)
	assert.Len(t, w, 2)

	assert.Empty(t, placement.Warnings(keyLightTemplate(), 3, 15, 20))
}

func TestSubject(t *testing.T) {
	f := newFixture(config.Default().Placement)
	f.world.AddBox("a", picking.NewAABB(math.Vec3{X: -1, Y: -1}, math.Vec3{X: 1, Y: 1, Z: 2}))
	f.world.AddBox("b", picking.NewAABB(math.Vec3{X: 2, Y: -1}, math.Vec3{X: 3, Y: 1, Z: 1}))

	s, err := placement.NewSubject(f.world, []string{"a", "b"})
	require.NoError(t, err)
	assert.True(t, s.Center.ApproxEqual(math.Vec3{X: 1, Z: 1}, 1e-5))
	assert.InDelta(t, math.Vec3{X: 4, Y: 2, Z: 2}.Length()/2, s.Radius, 1e-5)
	assert.Equal(t, float32(2), s.Top())
	assert.Equal(t, []string{"a", "b"}, s.TargetIDs())

	empty, err := placement.NewSubject(f.world, nil)
	require.NoError(t, err)
	assert.Equal(t, math.Vec3{}, empty.Center)
	assert.Equal(t, float32(0.5), empty.Radius)

	_, err = placement.NewSubject(f.world, []string{"ghost"})
	assert.Error(t, err)
}

func TestBaseDistance(t *testing.T) {
	cfg := config.Default().Placement
	f := newFixture(cfg)
	big := placement.Subject{Radius: 3}
	small := placement.Subject{Radius: 0.1}

	tmpl := &placement.Template{}
	assert.InDelta(t, 6, f.engine.BaseDistance(tmpl, big, placement.Options{}), 1e-5)
	assert.InDelta(t, 1, f.engine.BaseDistance(tmpl, small, placement.Options{}), 1e-5)

	tmpl.Settings.BaseDistance = 4
	assert.InDelta(t, 12, f.engine.BaseDistance(tmpl, big, placement.Options{}), 1e-5)
	tmpl.Settings.AutoScale = ptr(false)
	assert.InDelta(t, 4, f.engine.BaseDistance(tmpl, big, placement.Options{}), 1e-5)

	assert.InDelta(t, 7, f.engine.BaseDistance(tmpl, big, placement.Options{BaseDistance: 7}), 1e-5)
}

func TestSynthesizeProperties(t *testing.T) {
	cfg := config.Default().Placement
	cfg.IntensityMultiplier = 2
	f := newFixture(cfg)
	tmpl := &placement.Template{
		ID:       "props",
		Settings: placement.Settings{AutoScale: ptr(false)},
		Lights: []placement.LightSpec{
			{Name: "soft box", Type: "AREA", Properties: map[string]placement.Value{
				"intensity": placement.Sym("adaptive"),
				"size":      placement.Sym("adaptive_large"),
				"shape":     placement.Sym("DISK"),
				"size_y":    placement.Num(9),
			}},
			{Name: "broken", Type: "AREA", Properties: map[string]placement.Value{
				"size": placement.Sym("adaptive_soft"),
			}},
			{Name: "spot", Type: "SPOT", Properties: map[string]placement.Value{
				"spot_angle": placement.Num(60),
				"spot_blend": placement.Num(0.3),
				"color":      placement.Vals(1, 0.5, 0.25),
			}},
			{Name: "sun", Type: "SUN", Properties: map[string]placement.Value{"angle": placement.Num(2)}},
		},
	}
	subj := placement.Subject{Radius: 2}

	cands, failures := f.engine.Synthesize(tmpl, subj, placement.Options{})
	require.Len(t, failures, 1)
	assert.Equal(t, "broken", failures[0].Light)
	assert.Contains(t, failures[0].Reason, "adaptive_soft")
	require.Len(t, cands, 3)

	soft := cands[0].Params
	assert.InDelta(t, 320, soft.Energy, 1e-3)
	assert.InDelta(t, 8, soft.Size, 1e-4)
	assert.Equal(t, light.ShapeDisk, soft.Shape)
	assert.InDelta(t, 8, soft.SizeY, 1e-4, "disk has no independent size_y")

	spot := cands[1].Params
	assert.InDelta(t, 200, spot.Energy, 1e-3, "default energy times multiplier")
	assert.InDelta(t, math.Radians(60), spot.SpotSize, 1e-5)
	assert.InDelta(t, 0.3, spot.SpotBlend, 1e-6)
	assert.Equal(t, [3]float32{1, 0.5, 0.25}, spot.Color)

	assert.InDelta(t, math.Radians(2), cands[2].Params.SunAngle, 1e-6)
	assert.Equal(t, 3, cands[2].Index)

	for _, c := range cands {
		assert.True(t, c.Rotation.Forward().ApproxEqual(c.Position.Negate().Normalize(), 1e-4), c.Name)
	}
}

type fixedCamera struct{}

func (fixedCamera) Basis() (math.Vec3, math.Vec3, math.Vec3) {
	// Looking along +X.
	return math.Vec3{Y: -1}, math.Vec3{X: 1}, math.Vec3{Z: 1}
}

func (fixedCamera) Rotation() math.Quat { return math.TrackTo(math.Vec3{X: 1}) }

func TestSynthesizeCameraRelative(t *testing.T) {
	f := newFixture(config.Default().Placement)
	tmpl := keyLightTemplate()
	tmpl.Settings.CameraRelative = ptr(true)
	tmpl.Lights = append(tmpl.Lights, placement.LightSpec{
		Name:     "Fixed",
		Type:     "POINT",
		Rotation: placement.RotationSpec{Method: placement.RotationEuler},
	})

	cands, failures := f.engine.Synthesize(tmpl, placement.Subject{Radius: 1}, placement.Options{Camera: fixedCamera{}})
	require.Empty(t, failures)
	// Offset (1, -1, 1.414) in camera axes.
	assert.True(t, cands[0].Position.ApproxEqual(math.Vec3{X: -1, Y: -1, Z: 1.4142135}, 1e-4), "got %v", cands[0].Position)
	assert.True(t, cands[1].Rotation.Forward().ApproxEqual(math.Vec3{X: 1}, 1e-4))
}

func TestPlaceClearScene(t *testing.T) {
	f := newFixture(config.Default().Placement)
	f.world.AddBox("subject", picking.NewAABB(math.Vec3{X: -0.25, Y: -0.25, Z: -0.25}, math.Vec3{X: 0.25, Y: 0.25, Z: 0.25}))

	r, err := f.engine.Place(context.Background(), keyLightTemplate(), []string{"subject"}, placement.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Key"}, r.Clear)
	assert.Equal(t, 1, r.Counts.Remaining)
	require.Len(t, r.IDs, 1)

	pos, rot, err := f.store.Transform(r.IDs[0])
	require.NoError(t, err)
	assert.True(t, pos.ApproxEqual(math.Vec3{X: 1, Y: -1, Z: 1.4142135}, 1e-4))
	assert.True(t, rot.Forward().ApproxEqual(pos.Negate().Normalize(), 1e-4))
	pivot, ok, _ := f.store.PivotAnnotation(r.IDs[0])
	require.True(t, ok)
	assert.Equal(t, math.Vec3{}, pivot.Point)
}

func TestPlaceAdjustsBlockedLight(t *testing.T) {
	f := newFixture(config.Default().Placement)
	blockedScene(f)

	r, err := f.engine.Place(context.Background(), keyLightTemplate(), []string{"subject"}, placement.Options{Strategy: placement.StrategyAdjust})
	require.NoError(t, err)
	require.Len(t, r.Obstructions, 1)
	assert.Equal(t, "card", r.Obstructions[0].Blocker)
	require.Len(t, r.Adjusted, 1)
	require.Len(t, r.IDs, 1)

	start := math.Vec3{X: 1, Y: -1, Z: 1.4142135}
	hit := r.Obstructions[0].Hit
	adj := r.Adjusted[0]
	assert.True(t, adj.From.ApproxEqual(start, 1e-4))
	assert.Greater(t, adj.To.Distance(start), hit.Distance(start), "relocated beyond the card")
	assert.Less(t, adj.To.Length(), hit.Length(), "between the card and the subject")

	pos, rot, _ := f.store.Transform(r.IDs[0])
	assert.Equal(t, adj.To, pos)
	assert.True(t, rot.Forward().ApproxEqual(pos.Negate().Normalize(), 1e-4))

	target := placement.Target{ID: "subject", Center: math.Vec3{}, Top: 0.25}
	clear, _ := f.engine.LineOfSight(pos, target, r.IDs[0])
	assert.True(t, clear)

	// The card and subject are untouched.
	card, ok := f.world.Bounds("card")
	require.True(t, ok)
	assert.InDelta(t, 0.5, card.Center().X, 1e-4)
}

func TestAuditIsIdempotent(t *testing.T) {
	f := newFixture(config.Default().Placement)
	blockedScene(f)

	r, err := f.engine.Place(context.Background(), keyLightTemplate(), []string{"subject"}, placement.Options{})
	require.NoError(t, err)
	require.Len(t, r.IDs, 1)
	before, _, _ := f.store.Transform(r.IDs[0])

	subj, err := placement.NewSubject(f.world, []string{"subject"})
	require.NoError(t, err)
	again := f.engine.Audit([]placement.Created{{ID: r.IDs[0], Name: "Key"}}, subj, placement.StrategyAdjust)
	assert.Empty(t, again.Adjusted)
	assert.Empty(t, again.Obstructions)
	assert.Equal(t, []string{"Key"}, again.Clear)

	after, _, _ := f.store.Transform(r.IDs[0])
	assert.Equal(t, before, after)
}

func TestPlaceWarnKeepsLight(t *testing.T) {
	f := newFixture(config.Default().Placement)
	blockedScene(f)

	r, err := f.engine.Place(context.Background(), keyLightTemplate(), []string{"subject"}, placement.Options{Strategy: placement.StrategyWarn})
	require.NoError(t, err)
	assert.Equal(t, []string{"Key"}, r.Warned)
	require.Len(t, r.IDs, 1)

	l, ok := f.store.Get(r.IDs[0])
	require.True(t, ok)
	assert.True(t, l.Position.ApproxEqual(math.Vec3{X: 1, Y: -1, Z: 1.4142135}, 1e-4))
	require.NotNil(t, l.Obstruction)
	assert.Equal(t, "card", l.Obstruction.Blocker)
}

func TestPlaceSkipRemovesLight(t *testing.T) {
	f := newFixture(config.Default().Placement)
	blockedScene(f)

	r, err := f.engine.Place(context.Background(), keyLightTemplate(), []string{"subject"}, placement.Options{Strategy: placement.StrategySkip})
	require.NoError(t, err)
	require.Len(t, r.Skipped, 1)
	assert.Contains(t, r.Skipped[0].Reason, "card")
	assert.Empty(t, r.IDs)
	assert.Equal(t, 0, f.store.Len())
	assert.Equal(t, 1, r.Counts.Created)
	assert.Equal(t, 1, r.Counts.Skipped)
}

func TestAdjustLiftsLowLight(t *testing.T) {
	f := newFixture(config.Default().Placement)
	f.world.AddBox("subject", picking.NewAABB(math.Vec3{X: -0.5, Y: -0.5, Z: 0.5}, math.Vec3{X: 0.5, Y: 0.5, Z: 1.5}))
	f.world.AddBox("wall", picking.NewAABB(math.Vec3{X: 1.45, Y: -2, Z: -1}, math.Vec3{X: 1.55, Y: 2, Z: 1.2}))
	tmpl := &placement.Template{
		ID: "low",
		Lights: []placement.LightSpec{{
			Name: "Low",
			Type: "POINT",
			Position: placement.PositionSpec{Method: placement.MethodDirect,
				Params: placement.PositionParams{Location: []float32{3, 0, 0.5}}},
		}},
	}

	r, err := f.engine.Place(context.Background(), tmpl, []string{"subject"}, placement.Options{})
	require.NoError(t, err)
	require.Len(t, r.Adjusted, 1)
	assert.True(t, r.Adjusted[0].To.ApproxEqual(math.Vec3{X: 3, Z: 2}, 1e-4), "got %v", r.Adjusted[0].To)
}

func TestAdjustGivesUp(t *testing.T) {
	f := newFixture(config.Default().Placement)
	f.world.AddBox("subject", picking.NewAABB(math.Vec3{X: -0.25, Y: -0.25, Z: -0.25}, math.Vec3{X: 0.25, Y: 0.25, Z: 0.25}))
	// Thicker than the longest step, so every candidate is still inside it.
	f.world.AddBox("slab", picking.NewAABB(math.Vec3{X: 1, Y: -3, Z: -3}, math.Vec3{X: 5, Y: 3, Z: 3}))
	tmpl := &placement.Template{
		ID: "far",
		Lights: []placement.LightSpec{{
			Name: "Far",
			Type: "POINT",
			Position: placement.PositionSpec{Method: placement.MethodDirect,
				Params: placement.PositionParams{Location: []float32{6, 0, 0.25}}},
		}},
	}

	r, err := f.engine.Place(context.Background(), tmpl, []string{"subject"}, placement.Options{})
	require.NoError(t, err)
	require.Len(t, r.Skipped, 1)
	assert.Equal(t, "no clear position found", r.Skipped[0].Reason)
	assert.Equal(t, "slab", r.Obstructions[0].Blocker)
	assert.Equal(t, 0, f.store.Len())
}

// failingLights refuses to create more than limit lights.
type failingLights struct {
	*light.Store
	limit int
}

func (f *failingLights) Add(l *light.Light) (string, error) {
	if f.Store.Len() >= f.limit {
		return "", errors.New("store full")
	}
	return f.Store.Add(l)
}

func threeLights() *placement.Template {
	t := keyLightTemplate()
	for _, name := range []string{"Fill", "Rim"} {
		t.Lights = append(t.Lights, placement.LightSpec{Name: name, Type: "POINT"})
	}
	return t
}

func TestInstantiateFailureKeepsOthers(t *testing.T) {
	f := newFixture(config.Default().Placement)
	lights := &failingLights{Store: f.store, limit: 2}
	pivots := light.NewPivots(lights, config.Default().Positioning.Pivot)
	engine := placement.NewEngine(scene.NewFacade(f.world, nil), f.world, lights, pivots, config.Default().Placement)

	r, err := engine.Place(context.Background(), threeLights(), nil, placement.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Key", "Fill"}, r.Created)
	assert.Equal(t, 2, f.store.Len())
	require.Len(t, r.Failures, 1)
	assert.Equal(t, "Rim", r.Failures[0].Light)
	assert.Equal(t, "instantiate", r.Failures[0].Stage)
	assert.Contains(t, r.Failures[0].Reason, "store full")
	assert.Equal(t, 1, r.Counts.Failed)
}

func TestPlaceCancelled(t *testing.T) {
	f := newFixture(config.Default().Placement)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.engine.Place(ctx, threeLights(), nil, placement.Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, f.store.Len())
}

func TestReportYAML(t *testing.T) {
	f := newFixture(config.Default().Placement)
	blockedScene(f)

	r, err := f.engine.Place(context.Background(), keyLightTemplate(), []string{"subject"}, placement.Options{Strategy: placement.StrategySkip})
	require.NoError(t, err)
	out, err := r.YAML()
	require.NoError(t, err)

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, "key_only", back["template"])
	assert.Equal(t, "skip", back["strategy"])
	counts, ok := back["counts"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 1, counts["skipped"])
	assert.Contains(t, string(out), "card")
}

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]placement.Strategy{
		"adjust": placement.StrategyAdjust, "": placement.StrategyAdjust,
		"SKIP": placement.StrategySkip, "warn_only": placement.StrategyWarn,
	} {
		got, err := placement.ParseStrategy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := placement.ParseStrategy("ignore")
	assert.Error(t, err)
}
