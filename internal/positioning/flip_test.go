package positioning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/lightrig/internal/config"
	"github.com/Faultbox/lightrig/internal/engine/picking"
	"github.com/Faultbox/lightrig/internal/light"
	"github.com/Faultbox/lightrig/internal/positioning"
	"github.com/Faultbox/lightrig/internal/scene"
	"github.com/Faultbox/lightrig/pkg/math"
)

// frontCamera sits on -Y looking down +Y with Z up.
type frontCamera struct{ pos math.Vec3 }

func (c frontCamera) Position() math.Vec3 { return c.pos }

func (frontCamera) Basis() (right, forward, up math.Vec3) {
	return math.AxisX, math.Vec3{Y: 1}, math.AxisZ
}

type flipFixture struct {
	world   *picking.World
	store   *light.Store
	flipper *positioning.Flipper
}

func newFlipFixture(t *testing.T) *flipFixture {
	t.Helper()
	world := picking.NewWorld()
	store := light.NewStore()
	return &flipFixture{
		world: world,
		store: store,
		flipper: &positioning.Flipper{
			Scene:  scene.NewFacade(world, nil),
			Bounds: world,
			Lights: store,
			Pivots: light.NewPivots(store, config.Default().Positioning.Pivot),
			Camera: frontCamera{pos: math.Vec3{Y: -10}},
		},
	}
}

func (f *flipFixture) withSubject() *flipFixture {
	f.world.AddBox("subject", picking.NewAABB(math.Vec3{X: -0.5, Y: -0.5, Z: -0.5}, math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}))
	return f
}

func (f *flipFixture) add(t *testing.T, pos, pivot math.Vec3) string {
	t.Helper()
	id, err := f.store.Add(light.New(light.KindPoint,
		light.WithPosition(pos),
		light.WithRotation(math.TrackTo(pivot.Sub(pos)))))
	require.NoError(t, err)
	require.NoError(t, f.flipper.Pivots.Set(id, pivot))
	return id
}

func (f *flipFixture) state(id string) (pos, forward, pivot math.Vec3) {
	pos, rot, _ := f.store.Transform(id)
	pv, _, _ := f.store.PivotAnnotation(id)
	return pos, rot.Forward(), pv.Point
}

func (f *flipFixture) flip(t *testing.T, kind positioning.FlipKind, id string) positioning.FlipResult {
	t.Helper()
	res, err := f.flipper.Flip(kind, []string{id})
	require.NoError(t, err)
	return res
}

func TestParseFlipKind(t *testing.T) {
	for _, k := range positioning.FlipKinds {
		got, err := positioning.ParseFlipKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := positioning.ParseFlipKind("sideways")
	assert.Error(t, err)
}

func TestFlipAcrossPivotLandsOnSurface(t *testing.T) {
	f := newFlipFixture(t).withSubject()
	id := f.add(t, math.Vec3{X: 3}, math.Vec3{})

	res := f.flip(t, positioning.FlipAcrossPivot, id)
	assert.Equal(t, 1, res.Flipped)

	pos, fwd, pivot := f.state(id)
	assert.True(t, pos.ApproxEqual(math.Vec3{X: -3}, 1e-4), "got %v", pos)
	assert.True(t, pivot.ApproxEqual(math.Vec3{X: -0.5}, 1e-4), "got %v", pivot)
	assert.True(t, fwd.ApproxEqual(math.AxisX, 1e-4))
}

func TestFlipAcrossSubjectKeepsPivotBehindCard(t *testing.T) {
	f := newFlipFixture(t).withSubject()
	f.world.AddQuad("card", picking.NewQuad(math.Vec3{Y: -2}, math.Vec3{Y: 1}, 4, 4))
	f.flipper.Subject = []string{"subject"}
	// The stored pivot is ignored in favour of the subject center.
	id := f.add(t, math.Vec3{Y: 3}, math.Vec3{X: 9, Y: 9})

	f.flip(t, positioning.FlipAcrossPivot, id)

	pos, fwd, pivot := f.state(id)
	assert.True(t, pos.ApproxEqual(math.Vec3{Y: -3}, 1e-4), "got %v", pos)
	assert.True(t, pivot.ApproxEqual(math.Vec3{}, 1e-4), "card is not the subject, got %v", pivot)
	assert.True(t, fwd.ApproxEqual(math.Vec3{Y: 1}, 1e-4))
}

func TestFlipHorizontalAndVertical(t *testing.T) {
	tests := []struct {
		kind positioning.FlipKind
		want math.Vec3
	}{
		{positioning.FlipHorizontal, math.Vec3{X: -2, Y: -3, Z: 1}},
		{positioning.FlipVertical, math.Vec3{X: 2, Y: -3, Z: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			f := newFlipFixture(t)
			pivotPoint := math.Vec3{Z: 0.2}
			id := f.add(t, math.Vec3{X: 2, Y: -3, Z: 1}, pivotPoint)

			f.flip(t, tt.kind, id)

			pos, fwd, pivot := f.state(id)
			assert.True(t, pos.ApproxEqual(tt.want, 1e-4), "got %v", pos)
			assert.True(t, pivot.ApproxEqual(pivotPoint, 1e-4))
			assert.True(t, fwd.ApproxEqual(pivotPoint.Sub(tt.want).Normalize(), 1e-4))
		})
	}
}

func TestFlipHorizontalRetargetsFirstSurface(t *testing.T) {
	f := newFlipFixture(t).withSubject()
	id := f.add(t, math.Vec3{X: 3}, math.Vec3{})

	f.flip(t, positioning.FlipHorizontal, id)

	pos, fwd, pivot := f.state(id)
	assert.True(t, pos.ApproxEqual(math.Vec3{X: -3}, 1e-4), "got %v", pos)
	assert.True(t, pivot.ApproxEqual(math.Vec3{X: -0.5}, 1e-4), "got %v", pivot)
	assert.True(t, fwd.ApproxEqual(math.AxisX, 1e-4))
}

func TestFlip180(t *testing.T) {
	f := newFlipFixture(t)
	pivotPoint := math.Vec3{Z: 1}
	id := f.add(t, math.Vec3{X: 2, Y: 1, Z: 3}, pivotPoint)

	f.flip(t, positioning.Flip180, id)

	pos, fwd, pivot := f.state(id)
	want := math.Vec3{X: -2, Y: -1, Z: 3}
	assert.True(t, pos.ApproxEqual(want, 1e-4), "got %v", pos)
	assert.True(t, pivot.ApproxEqual(pivotPoint, 1e-4))
	assert.True(t, fwd.ApproxEqual(pivotPoint.Sub(want).Normalize(), 1e-4), "got %v", fwd)
}

func TestFlipCameraBack(t *testing.T) {
	f := newFlipFixture(t).withSubject()
	id := f.add(t, math.Vec3{X: 3}, math.Vec3{})

	f.flip(t, positioning.FlipCameraBack, id)

	pos, fwd, pivot := f.state(id)
	assert.Equal(t, math.Vec3{Y: -10}, pos)
	assert.True(t, fwd.ApproxEqual(math.Vec3{Y: 1}, 1e-4))
	assert.True(t, pivot.ApproxEqual(math.Vec3{Y: -0.5}, 1e-4), "got %v", pivot)
}

func TestFlipCameraFrontUsesBackSurface(t *testing.T) {
	f := newFlipFixture(t).withSubject()
	id := f.add(t, math.Vec3{X: 3}, math.Vec3{})

	f.flip(t, positioning.FlipCameraFront, id)

	pos, fwd, pivot := f.state(id)
	assert.True(t, pos.ApproxEqual(math.Vec3{Y: 1}, 1e-4), "got %v", pos)
	assert.True(t, pivot.ApproxEqual(math.Vec3{Y: 0.5}, 1e-4), "got %v", pivot)
	assert.True(t, fwd.ApproxEqual(math.Vec3{Y: -1}, 1e-4), "faces the camera, got %v", fwd)
}

func TestFlipCameraFrontPassesNonSubject(t *testing.T) {
	f := newFlipFixture(t).withSubject()
	f.world.AddQuad("card", picking.NewQuad(math.Vec3{Y: -3}, math.Vec3{Y: -1}, 2, 2))
	f.flipper.Subject = []string{"subject"}
	id := f.add(t, math.Vec3{X: 3}, math.Vec3{})

	f.flip(t, positioning.FlipCameraFront, id)

	pos, _, _ := f.state(id)
	assert.True(t, pos.ApproxEqual(math.Vec3{Y: 1}, 1e-4), "got %v", pos)
}

func TestFlipCameraFrontFallsBackToSubjectCenter(t *testing.T) {
	f := newFlipFixture(t).withSubject()
	f.flipper.Subject = []string{"subject"}
	f.flipper.Camera = frontCamera{pos: math.Vec3{X: 5, Y: -10}}
	id := f.add(t, math.Vec3{X: 3}, math.Vec3{})

	f.flip(t, positioning.FlipCameraFront, id)

	pos, _, pivot := f.state(id)
	assert.True(t, pos.ApproxEqual(math.Vec3{Y: 0.5}, 1e-4), "got %v", pos)
	assert.True(t, pivot.ApproxEqual(math.Vec3{}, 1e-4))
}

func TestFlipCameraAlong(t *testing.T) {
	t.Run("open background", func(t *testing.T) {
		f := newFlipFixture(t).withSubject()
		f.world.AddQuad("backdrop", picking.NewQuad(math.Vec3{Y: 5}, math.Vec3{Y: -1}, 20, 20))
		id := f.add(t, math.Vec3{X: 3}, math.Vec3{})

		f.flip(t, positioning.FlipCameraAlong, id)

		pos, fwd, pivot := f.state(id)
		assert.True(t, pos.ApproxEqual(math.Vec3{Y: 1}, 1e-4), "got %v", pos)
		assert.True(t, fwd.ApproxEqual(math.Vec3{Y: 1}, 1e-4), "faces away from the camera, got %v", fwd)
		assert.True(t, pivot.ApproxEqual(math.Vec3{Y: 3}, 1e-4), "got %v", pivot)
	})

	t.Run("near backdrop", func(t *testing.T) {
		f := newFlipFixture(t).withSubject()
		f.world.AddQuad("backdrop", picking.NewQuad(math.Vec3{Y: 1.5}, math.Vec3{Y: -1}, 20, 20))
		id := f.add(t, math.Vec3{X: 3}, math.Vec3{})

		f.flip(t, positioning.FlipCameraAlong, id)

		_, _, pivot := f.state(id)
		assert.True(t, pivot.ApproxEqual(math.Vec3{Y: 1.5}, 1e-4), "got %v", pivot)
	})
}

func TestFlipCameraFrontNothingOnAxis(t *testing.T) {
	f := newFlipFixture(t)
	start := math.Vec3{X: 3}
	id := f.add(t, start, math.Vec3{})

	res := f.flip(t, positioning.FlipCameraFront, id)
	assert.Equal(t, positioning.FlipResult{Unchanged: 1}, res)
	pos, _, _ := f.state(id)
	assert.Equal(t, start, pos)
}

func TestFlipRejectsBadContext(t *testing.T) {
	f := newFlipFixture(t)
	id := f.add(t, math.Vec3{X: 3}, math.Vec3{})

	_, err := f.flipper.Flip(positioning.FlipAcrossPivot, nil)
	assert.ErrorIs(t, err, positioning.ErrInvalidContext)

	_, err = f.flipper.Flip(positioning.FlipAcrossPivot, []string{"missing"})
	assert.ErrorIs(t, err, positioning.ErrInvalidContext)

	f.flipper.Camera = nil
	_, err = f.flipper.Flip(positioning.FlipHorizontal, []string{id})
	assert.ErrorIs(t, err, positioning.ErrNoCamera)

	// Pivot-relative flips work without a camera.
	res, err := f.flipper.Flip(positioning.Flip180, []string{id})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Flipped)
}
