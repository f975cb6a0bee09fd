package positioning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/lightrig/internal/positioning"
	"github.com/Faultbox/lightrig/pkg/math"
)

func TestSetAngles(t *testing.T) {
	f := newFixture(t)
	id := f.add(t, math.Vec3{X: 3})
	require.NoError(t, f.pivots.Set(id, math.Vec3{Z: 1}))

	err := positioning.SetAngles(f.store, f.pivots, id, positioning.Angles{Azimuth: 90, Distance: 2})
	require.NoError(t, err)
	pos, rot, _ := f.store.Transform(id)
	assert.True(t, pos.ApproxEqual(math.Vec3{Y: 2, Z: 1}, 1e-4), "got %v", pos)
	assert.True(t, rot.Forward().ApproxEqual(math.Vec3{Y: -1}, 1e-4))

	a, err := positioning.ReadAngles(f.store, f.pivots, id)
	require.NoError(t, err)
	assert.InDelta(t, 90, a.Azimuth, 1e-3)
	assert.InDelta(t, 0, a.Elevation, 1e-3)
	assert.InDelta(t, 2, a.Distance, 1e-4)
}

func TestSetAnglesClampsAndKeepsRadius(t *testing.T) {
	f := newFixture(t)
	id := f.add(t, math.Vec3{X: 4})
	require.NoError(t, f.pivots.Set(id, math.Vec3{}))

	require.NoError(t, positioning.SetAngles(f.store, f.pivots, id, positioning.Angles{Azimuth: 400, Elevation: 120}))
	a, err := positioning.ReadAngles(f.store, f.pivots, id)
	require.NoError(t, err)
	assert.InDelta(t, 90, a.Elevation, 1e-3)
	assert.InDelta(t, 4, a.Distance, 1e-4)
}

func TestSetAnglesDegenerateRadius(t *testing.T) {
	f := newFixture(t)
	id := f.add(t, math.Vec3{})
	require.NoError(t, f.pivots.Set(id, math.Vec3{}))

	require.NoError(t, positioning.SetAngles(f.store, f.pivots, id, positioning.Angles{Elevation: 45}))
	pos, _, _ := f.store.Transform(id)
	assert.InDelta(t, 1, pos.Length(), 1e-4)
	assert.InDelta(t, 0.7071, pos.Z, 1e-3)
}
