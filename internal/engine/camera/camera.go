// Package camera provides the viewport camera used to map the pointer into
// the scene.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lightrig/internal/config"
	"github.com/Faultbox/lightrig/internal/scene"
	"github.com/Faultbox/lightrig/pkg/math"
)

// OrbitCamera orbits around a center point in a Z-up world. It implements
// scene.Viewport.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance float32 // Distance from center
	Pitch    float32 // Elevation above the XY plane, radians
	Yaw      float32 // Rotation about +Z, radians; 0 looks from -Y

	// Projection
	FOV    float32 // Vertical, radians
	Near   float32
	Far    float32
	Width  int
	Height int

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera(vp config.ViewportConfig) *OrbitCamera {
	return &OrbitCamera{
		Distance:        10.0,
		Pitch:           0.4,
		Yaw:             0.0,
		FOV:             math.Radians(vp.FOV),
		Near:            vp.Near,
		Far:             vp.Far,
		Width:           vp.Width,
		Height:          vp.Height,
		MinDistance:     0.5,
		MaxDistance:     500.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	return c.Center.Add(math.StudioOffset(c.Yaw, c.Pitch, c.Distance))
}

// ViewPoint implements scene.Viewport.
func (c *OrbitCamera) ViewPoint() math.Vec3 {
	return c.Position()
}

// Forward returns the unit view direction.
func (c *OrbitCamera) Forward() math.Vec3 {
	return c.Center.Sub(c.Position()).Normalize()
}

// Basis returns the camera's right, forward and up axes in world space.
func (c *OrbitCamera) Basis() (right, forward, up math.Vec3) {
	forward = c.Forward()
	right = forward.Cross(math.AxisZ).Normalize()
	if right == (math.Vec3{}) {
		right = math.AxisX
	}
	up = right.Cross(forward)
	return right, forward, up
}

// Rotation returns the camera orientation with local -Z along the view.
func (c *OrbitCamera) Rotation() math.Quat {
	return math.TrackTo(c.Forward())
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	_, _, up := c.Basis()
	return mgl32.LookAtV(toGL(c.Position()), toGL(c.Center), toGL(up))
}

// ProjectionMatrix returns the perspective projection.
func (c *OrbitCamera) ProjectionMatrix() mgl32.Mat4 {
	aspect := float32(1)
	if c.Height > 0 {
		aspect = float32(c.Width) / float32(c.Height)
	}
	return mgl32.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// WorldToScreen projects a world point to window pixels (origin top-left).
func (c *OrbitCamera) WorldToScreen(p math.Vec3) (math.Vec2, bool) {
	view, proj := c.ViewMatrix(), c.ProjectionMatrix()

	clip := proj.Mul4(view).Mul4x1(toGL(p).Vec4(1))
	if clip.W() <= 0 {
		return math.Vec2{}, false // Behind the camera
	}

	win := mgl32.Project(toGL(p), view, proj, 0, 0, c.Width, c.Height)
	return math.Vec2{X: win.X(), Y: float32(c.Height) - win.Y()}, true
}

// ScreenToWorldRay returns the view ray through a window pixel.
func (c *OrbitCamera) ScreenToWorldRay(p math.Vec2) (origin, dir math.Vec3) {
	view, proj := c.ViewMatrix(), c.ProjectionMatrix()
	winY := float32(c.Height) - p.Y

	near, errNear := mgl32.UnProject(mgl32.Vec3{p.X, winY, 0}, view, proj, 0, 0, c.Width, c.Height)
	far, errFar := mgl32.UnProject(mgl32.Vec3{p.X, winY, 1}, view, proj, 0, 0, c.Width, c.Height)
	if errNear != nil || errFar != nil {
		return c.Position(), c.Forward()
	}

	origin = fromGL(near)
	dir = fromGL(far).Sub(origin).Normalize()
	return origin, dir
}

// ScreenToWorld returns the point under a pixel on the plane facing the
// camera through depthRef.
func (c *OrbitCamera) ScreenToWorld(p math.Vec2, depthRef math.Vec3) (math.Vec3, bool) {
	origin, dir := c.ScreenToWorldRay(p)
	normal := c.Forward()

	denom := dir.Dot(normal)
	if gomath.Abs(float64(denom)) < 1e-6 {
		return math.Vec3{}, false
	}
	t := depthRef.Sub(origin).Dot(normal) / denom
	if t < 0 {
		return math.Vec3{}, false
	}
	return origin.Add(dir.Scale(t)), true
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity
	c.Pitch = math.Clamp(c.Pitch, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = math.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// Resize updates the viewport size.
func (c *OrbitCamera) Resize(width, height int) {
	c.Width = width
	c.Height = height
}

// FitToBounds centers the camera on a box and backs off until it fits.
func (c *OrbitCamera) FitToBounds(b scene.Bounds) {
	c.Center = b.Center()
	radius := b.Max.Sub(b.Min).Length() / 2

	half := float64(c.FOV) / 2
	if half <= 0 {
		half = gomath.Pi / 8
	}
	c.Distance = float32(float64(radius)/gomath.Sin(half)) * 1.1
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
}

func toGL(v math.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

func fromGL(v mgl32.Vec3) math.Vec3 {
	return math.Vec3{X: v.X(), Y: v.Y(), Z: v.Z()}
}
