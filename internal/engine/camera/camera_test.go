package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/lightrig/internal/config"
	"github.com/Faultbox/lightrig/internal/scene"
	"github.com/Faultbox/lightrig/pkg/math"
)

func newTestCamera() *OrbitCamera {
	c := NewOrbitCamera(config.Default().Viewport)
	c.Distance = 10
	c.Pitch = 0.3
	c.Yaw = 0.2
	return c
}

func TestPositionZUp(t *testing.T) {
	c := newTestCamera()
	c.Yaw, c.Pitch = 0, 0
	assert.True(t, c.Position().ApproxEqual(math.Vec3{Y: -10}, 1e-4))

	right, forward, up := c.Basis()
	assert.True(t, right.ApproxEqual(math.AxisX, 1e-5))
	assert.True(t, forward.ApproxEqual(math.AxisY, 1e-5))
	assert.True(t, up.ApproxEqual(math.AxisZ, 1e-5))
}

func TestCenterProjectsToScreenMiddle(t *testing.T) {
	c := newTestCamera()
	p, ok := c.WorldToScreen(c.Center)
	require.True(t, ok)
	assert.InDelta(t, float32(c.Width)/2, p.X, 0.5)
	assert.InDelta(t, float32(c.Height)/2, p.Y, 0.5)
}

func TestScreenYGrowsDownward(t *testing.T) {
	c := newTestCamera()
	above, ok := c.WorldToScreen(c.Center.Add(math.Vec3{Z: 1}))
	require.True(t, ok)
	center, _ := c.WorldToScreen(c.Center)
	assert.Less(t, above.Y, center.Y)
}

func TestBehindCameraDoesNotProject(t *testing.T) {
	c := newTestCamera()
	behind := c.Position().Sub(c.Forward().Scale(5))
	_, ok := c.WorldToScreen(behind)
	assert.False(t, ok)
}

func TestScreenToWorldRayThroughCenter(t *testing.T) {
	c := newTestCamera()
	origin, dir := c.ScreenToWorldRay(math.Vec2{X: float32(c.Width) / 2, Y: float32(c.Height) / 2})
	assert.True(t, dir.ApproxEqual(c.Forward(), 1e-3), "dir %v forward %v", dir, c.Forward())
	assert.Less(t, origin.Distance(c.Position()), float32(0.5))
}

func TestScreenToWorldRoundTrip(t *testing.T) {
	c := newTestCamera()
	points := []math.Vec3{
		{X: 1, Y: 0.5, Z: 0.5},
		{X: -2, Y: 1, Z: -1},
		{X: 0.3, Y: -0.4, Z: 1.2},
	}
	for _, p := range points {
		screen, ok := c.WorldToScreen(p)
		require.True(t, ok)
		back, ok := c.ScreenToWorld(screen, p)
		require.True(t, ok)
		assert.True(t, back.ApproxEqual(p, 2e-3), "%v -> %v -> %v", p, screen, back)
	}
}

func TestHandleZoomClamps(t *testing.T) {
	c := newTestCamera()
	for i := 0; i < 100; i++ {
		c.HandleZoom(1)
	}
	assert.Equal(t, c.MinDistance, c.Distance)
}

func TestFitToBounds(t *testing.T) {
	c := newTestCamera()
	c.FitToBounds(scene.Bounds{Min: math.Vec3{X: -1, Y: -1, Z: 0}, Max: math.Vec3{X: 1, Y: 1, Z: 2}})
	assert.Equal(t, math.Vec3{Z: 1}, c.Center)
	assert.Greater(t, c.Distance, float32(1.7))
}
