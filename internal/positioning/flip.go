package positioning

import (
	"errors"
	"fmt"
	gomath "math"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/lightrig/internal/light"
	"github.com/Faultbox/lightrig/internal/logger"
	"github.com/Faultbox/lightrig/internal/scene"
	"github.com/Faultbox/lightrig/pkg/math"
)

// ErrNoCamera is returned by camera-relative flips without a camera.
var ErrNoCamera = errors.New("flip needs a camera")

// FlipKind selects a one-shot reposition of the selected lights.
type FlipKind int

const (
	FlipAcrossPivot FlipKind = iota // Mirror through the pivot
	FlipHorizontal                  // Mirror across the camera's vertical plane
	FlipVertical                    // Mirror across the camera's horizontal plane
	Flip180                         // Half turn about world Z at the pivot
	FlipCameraFront                 // Behind the subject on the view axis, facing the camera
	FlipCameraBack                  // At the camera, facing the pivot
	FlipCameraAlong                 // Behind the subject on the view axis, facing away
)

// FlipKinds lists every flip.
var FlipKinds = []FlipKind{
	FlipAcrossPivot, FlipHorizontal, FlipVertical, Flip180,
	FlipCameraFront, FlipCameraBack, FlipCameraAlong,
}

func (k FlipKind) String() string {
	switch k {
	case FlipAcrossPivot:
		return "pivot"
	case FlipHorizontal:
		return "horizontal"
	case FlipVertical:
		return "vertical"
	case Flip180:
		return "180"
	case FlipCameraFront:
		return "front"
	case FlipCameraBack:
		return "back"
	case FlipCameraAlong:
		return "along"
	default:
		return fmt.Sprintf("FlipKind(%d)", int(k))
	}
}

// ParseFlipKind parses a flip name.
func ParseFlipKind(s string) (FlipKind, error) {
	for _, k := range FlipKinds {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown flip %q", s)
}

func (k FlipKind) needsCamera() bool {
	return k != FlipAcrossPivot && k != Flip180
}

// Flip geometry.
const (
	behindSubject     = 0.5  // Light distance past the subject's back surface
	passThroughStep   = 0.01 // Restart offset after a non-subject hit
	maxPassThrough    = 10
	viewAxisReach     = 1000
	retargetReach     = 2 // Multiple of the light-pivot distance
	backgroundDefault = 2 // Pivot distance when nothing lies behind the subject
)

// FlipCamera is the view reference of camera-relative flips.
type FlipCamera interface {
	Position() math.Vec3
	Basis() (right, forward, up math.Vec3)
}

// Flipper repositions lights in one step relative to their pivots, the
// camera and the subject.
type Flipper struct {
	Scene  *scene.Facade
	Bounds scene.BoundsProvider // Optional; locates back surfaces and subject centers
	Lights light.Accessor
	Pivots *light.Pivots
	Camera FlipCamera // Required for all but pivot and 180
	// Subject objects. Hits on anything else do not become pivots; empty
	// accepts every surface.
	Subject []string
}

// FlipResult counts what a flip did.
type FlipResult struct {
	Flipped   int
	Unchanged int // No usable geometry, e.g. nothing on the view axis
	Failed    int
}

// Flip applies kind to every light in ids. A light that fails is logged and
// counted; the rest carry on.
func (f *Flipper) Flip(kind FlipKind, ids []string) (FlipResult, error) {
	var res FlipResult
	if len(ids) == 0 {
		return res, fmt.Errorf("%w: no lights selected", ErrInvalidContext)
	}
	if kind.needsCamera() && f.Camera == nil {
		return res, fmt.Errorf("%s: %w", kind, ErrNoCamera)
	}
	for _, id := range ids {
		if !f.Lights.Exists(id) {
			return res, fmt.Errorf("%w: light %s: %v", ErrInvalidContext, id, light.ErrNotFound)
		}
	}

	var anchor viewAnchor
	if kind == FlipCameraFront || kind == FlipCameraAlong {
		anchor = f.findViewAnchor()
	}

	for _, id := range ids {
		moved, err := f.flipOne(kind, id, anchor)
		switch {
		case err != nil:
			res.Failed++
			logger.Warn("flip failed",
				zap.Stringer("flip", kind),
				zap.String("light", id),
				zap.Error(err))
		case moved:
			res.Flipped++
		default:
			res.Unchanged++
		}
	}
	logger.Debug("lights flipped",
		zap.Stringer("flip", kind),
		zap.Int("flipped", res.Flipped),
		zap.Int("unchanged", res.Unchanged),
		zap.Int("failed", res.Failed))
	return res, nil
}

func (f *Flipper) flipOne(kind FlipKind, id string, anchor viewAnchor) (bool, error) {
	pos, rot, err := f.Lights.Transform(id)
	if err != nil {
		return false, err
	}
	pivot, err := f.Pivots.Get(id)
	if err != nil {
		return false, err
	}

	switch kind {
	case FlipAcrossPivot:
		center := pivot
		if c, ok := f.subjectCenter(); ok {
			center = c
		}
		if pos.Distance(center) < 1e-6 {
			return false, nil
		}
		return true, f.place(id, center.Scale(2).Sub(pos), center, rot, true)

	case FlipHorizontal, FlipVertical:
		right, _, up := f.Camera.Basis()
		axis := right
		if kind == FlipVertical {
			axis = up
		}
		rel := pos.Sub(f.Camera.Position())
		pos = pos.Sub(axis.Scale(2 * rel.Dot(axis)))
		return true, f.place(id, pos, pivot, rot, false)

	case Flip180:
		half := math.QuatFromAxisAngle(math.AxisZ, float32(gomath.Pi))
		pos = pivot.Add(half.Rotate(pos.Sub(pivot)))
		if err := f.Lights.SetTransform(id, pos, half.Mul(rot).Normalize()); err != nil {
			return false, err
		}
		return true, f.Pivots.Set(id, pivot)

	case FlipCameraBack:
		cam := f.Camera.Position()
		if cam.Distance(pivot) < 1e-6 {
			return false, nil
		}
		if err := f.Lights.SetTransform(id, cam, light.AimRotation(cam, pivot, rot)); err != nil {
			return false, err
		}
		// The light keeps the camera's view; only the pivot moves.
		if hit, ok := f.surfaceToward(cam, pivot, false); ok {
			pivot = hit.Point
		}
		return true, f.Pivots.Set(id, pivot)

	case FlipCameraFront, FlipCameraAlong:
		if !anchor.ok {
			return false, nil
		}
		pos = anchor.point.Add(anchor.dir.Scale(behindSubject))
		target := anchor.point
		if kind == FlipCameraAlong {
			target = f.background(pos, anchor.dir)
		}
		if err := f.Lights.SetTransform(id, pos, light.AimRotation(pos, target, rot)); err != nil {
			return false, err
		}
		return true, f.Pivots.Set(id, target)
	}
	return false, fmt.Errorf("unknown flip %s", kind)
}

// place moves the light to pos, moves the pivot onto the first surface
// toward it and aims the light at the result.
func (f *Flipper) place(id string, pos, pivot math.Vec3, rot math.Quat, subjectOnly bool) error {
	if hit, ok := f.surfaceToward(pos, pivot, subjectOnly); ok {
		pivot = hit.Point
	}
	if err := f.Lights.SetTransform(id, pos, light.AimRotation(pos, pivot, rot)); err != nil {
		return err
	}
	return f.Pivots.Set(id, pivot)
}

// surfaceToward returns the first surface cast from pos toward pivot,
// reaching past it. With subjectOnly set, a first hit on anything but the
// subject counts as no hit.
func (f *Flipper) surfaceToward(pos, pivot math.Vec3, subjectOnly bool) (scene.Hit, bool) {
	d := pos.Distance(pivot)
	if d < 1e-6 {
		return scene.Hit{}, false
	}
	hit, ok := f.Scene.Raycast(pos, pivot.Sub(pos))
	if !ok || hit.Distance > d*retargetReach {
		return scene.Hit{}, false
	}
	if subjectOnly && !f.isSubject(hit.Object) {
		return scene.Hit{}, false
	}
	return hit, true
}

// background is the pivot for a light facing away from the subject: the
// next surface along dir, or a point at the default distance.
func (f *Flipper) background(pos, dir math.Vec3) math.Vec3 {
	hit, ok := f.Scene.Raycast(pos, dir)
	if ok && hit.Distance <= behindSubject*retargetReach {
		return hit.Point
	}
	return pos.Add(dir.Scale(backgroundDefault))
}

// viewAnchor is the reference point on the camera's view axis.
type viewAnchor struct {
	point math.Vec3
	dir   math.Vec3
	ok    bool
}

// findViewAnchor walks the view axis from the camera, passing through
// non-subject surfaces, and returns the back surface of the first subject
// it meets. Without a hit it falls back to the first subject's center.
func (f *Flipper) findViewAnchor() viewAnchor {
	_, forward, _ := f.Camera.Basis()
	start := f.Camera.Position()
	var travelled float32
	for i := 0; i < maxPassThrough && travelled < viewAxisReach; i++ {
		hit, ok := f.Scene.Raycast(start, forward)
		if !ok {
			break
		}
		if f.isSubject(hit.Object) {
			return viewAnchor{point: f.backSurface(hit, forward), dir: forward, ok: true}
		}
		step := hit.Distance + passThroughStep
		travelled += step
		start = start.Add(forward.Scale(step))
	}
	if len(f.Subject) > 0 && f.Bounds != nil {
		if b, ok := f.Bounds.Bounds(f.Subject[0]); ok {
			return viewAnchor{point: b.Center(), dir: forward, ok: true}
		}
	}
	return viewAnchor{}
}

// backSurface is where the view ray leaves the hit object's bounds.
func (f *Flipper) backSurface(hit scene.Hit, dir math.Vec3) math.Vec3 {
	if f.Bounds == nil {
		return hit.Point
	}
	b, ok := f.Bounds.Bounds(hit.Object)
	if !ok {
		return hit.Point
	}
	return hit.Point.Add(dir.Scale(exitDistance(b, hit.Point, dir)))
}

// exitDistance is how far a ray starting inside or on b travels before it
// leaves b.
func exitDistance(b scene.Bounds, origin, dir math.Vec3) float32 {
	exit := float32(gomath.Inf(1))
	axis := func(o, d, lo, hi float32) {
		switch {
		case d > 1e-9:
			exit = min(exit, (hi-o)/d)
		case d < -1e-9:
			exit = min(exit, (lo-o)/d)
		}
	}
	axis(origin.X, dir.X, b.Min.X, b.Max.X)
	axis(origin.Y, dir.Y, b.Min.Y, b.Max.Y)
	axis(origin.Z, dir.Z, b.Min.Z, b.Max.Z)
	if exit < 0 || gomath.IsInf(float64(exit), 1) {
		return 0
	}
	return exit
}

// subjectCenter is the mean center of the subject objects.
func (f *Flipper) subjectCenter() (math.Vec3, bool) {
	if f.Bounds == nil {
		return math.Vec3{}, false
	}
	var (
		sum math.Vec3
		n   int
	)
	for _, id := range f.Subject {
		if b, ok := f.Bounds.Bounds(id); ok {
			sum = sum.Add(b.Center())
			n++
		}
	}
	if n == 0 {
		return math.Vec3{}, false
	}
	return sum.Scale(1 / float32(n)), true
}

func (f *Flipper) isSubject(object string) bool {
	if len(f.Subject) == 0 {
		return true
	}
	for _, id := range f.Subject {
		if id == object {
			return true
		}
	}
	return false
}
