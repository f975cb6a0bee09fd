package placement

import (
	stdmath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/lightrig/internal/light"
	"github.com/Faultbox/lightrig/internal/logger"
	"github.com/Faultbox/lightrig/internal/scene"
	"github.com/Faultbox/lightrig/pkg/math"
)

// rayMargin trims both ends of every sight line so surfaces touching the
// light or the target center do not count.
const rayMargin = 0.001

var defaultSteps = []float32{0.5, 1, 1.5, 2}

// Obstruction records a blocked sight line.
type Obstruction struct {
	Light   string    `yaml:"light"`
	Blocker string    `yaml:"blocker"`
	Hit     math.Vec3 `yaml:"hit"`
}

// Adjustment records a relocated light.
type Adjustment struct {
	Light string    `yaml:"light"`
	From  math.Vec3 `yaml:"from"`
	To    math.Vec3 `yaml:"to"`
}

// Skip records a removed light.
type Skip struct {
	Light  string `yaml:"light"`
	Reason string `yaml:"reason"`
}

// AuditResult is the outcome of one audit pass.
type AuditResult struct {
	Clear        []string
	Adjusted     []Adjustment
	Skipped      []Skip
	Warned       []string
	Obstructions []Obstruction
}

// SamplePoints returns n points on a disk of radius r around from,
// perpendicular to the direction toward to.
func SamplePoints(from, to math.Vec3, n int, r float32) []math.Vec3 {
	if n <= 0 {
		n = 1
	}
	dir := to.Sub(from).Normalize()
	var right math.Vec3
	if math.Abs(dir.Z) < 0.9 {
		right = dir.Cross(math.AxisZ).Normalize()
	} else {
		right = dir.Cross(math.AxisX).Normalize()
	}
	up := right.Cross(dir).Normalize()

	pts := make([]math.Vec3, n)
	for i := range pts {
		angle := 2 * stdmath.Pi * float64(i) / float64(n)
		off := right.Scale(r * float32(stdmath.Cos(angle))).Add(up.Scale(r * float32(stdmath.Sin(angle))))
		pts[i] = from.Add(off)
	}
	return pts
}

// LineOfSight casts the sample rays from around pos to the target center,
// ignoring the target itself and the ids in exclude. It reports whether at
// least half the samples are clear, and the nearest blocking hit.
func (e *Engine) LineOfSight(pos math.Vec3, t Target, exclude ...string) (bool, *scene.Hit) {
	n := e.cfg.SampleCount
	if n <= 0 {
		n = 1
	}
	ignore := append([]string{t.ID}, exclude...)

	var (
		clear   int
		nearest *scene.Hit
	)
	for _, p := range SamplePoints(pos, t.Center, n, e.cfg.SampleRadius) {
		hit, blocked := e.scene.Segment(p, t.Center, rayMargin, ignore...)
		if !blocked {
			clear++
			continue
		}
		if nearest == nil || hit.Distance < nearest.Distance {
			h := hit
			nearest = &h
		}
	}
	return clear >= max(1, n/2), nearest
}

// clearToAll reports whether pos sees every target.
func (e *Engine) clearToAll(pos math.Vec3, targets []Target, exclude ...string) (bool, *scene.Hit) {
	for _, t := range targets {
		if ok, hit := e.LineOfSight(pos, t, exclude...); !ok {
			return false, hit
		}
	}
	return true, nil
}

// Audit checks every light against every target and applies strategy to
// the obstructed ones. Only the audited lights are changed.
func (e *Engine) Audit(created []Created, subj Subject, strategy Strategy) AuditResult {
	var res AuditResult
	for _, c := range created {
		if !e.lights.Exists(c.ID) {
			continue
		}
		pos, _, err := e.lights.Transform(c.ID)
		if err != nil {
			res.Skipped = append(res.Skipped, Skip{Light: c.Name, Reason: err.Error()})
			continue
		}

		ok, hit := e.clearToAll(pos, subj.Targets, c.ID)
		if ok {
			res.Clear = append(res.Clear, c.Name)
			continue
		}

		obs := Obstruction{Light: c.Name}
		if hit != nil {
			obs.Blocker = hit.Object
			obs.Hit = hit.Point
		}
		res.Obstructions = append(res.Obstructions, obs)
		logger.Info("light obstructed",
			zap.String("light", c.Name),
			zap.String("blocker", obs.Blocker),
			zap.Stringer("strategy", strategy))

		switch strategy {
		case StrategySkip:
			e.skip(&res, c, "obstructed by "+blockerName(obs.Blocker))
		case StrategyWarn:
			if err := e.lights.Annotate(c.ID, light.ObstructionNote{Blocker: obs.Blocker, Hit: obs.Hit}); err != nil {
				logger.Warn("failed to annotate light", zap.String("light", c.Name), zap.Error(err))
			}
			res.Warned = append(res.Warned, c.Name)
			logger.Warn("light has an obstructed line of sight",
				zap.String("light", c.Name),
				zap.String("blocker", obs.Blocker))
		default:
			to, found := e.findPosition(pos, subj, c.ID)
			if !found {
				e.skip(&res, c, "no clear position found")
				continue
			}
			if err := e.relocate(c.ID, to, subj.AverageCenter()); err != nil {
				e.skip(&res, c, err.Error())
				continue
			}
			res.Adjusted = append(res.Adjusted, Adjustment{Light: c.Name, From: pos, To: to})
			logger.Info("light adjusted",
				zap.String("light", c.Name),
				zap.Float32("moved", pos.Distance(to)))
		}
	}
	return res
}

func blockerName(b string) string {
	if b == "" {
		return "unknown object"
	}
	return b
}

func (e *Engine) skip(res *AuditResult, c Created, reason string) {
	e.pivots.ForgetTarget(c.ID)
	if err := e.lights.Remove(c.ID); err != nil {
		logger.Warn("failed to remove light", zap.String("light", c.Name), zap.Error(err))
	}
	res.Skipped = append(res.Skipped, Skip{Light: c.Name, Reason: reason})
	logger.Warn("light skipped", zap.String("light", c.Name), zap.String("reason", reason))
}

func (e *Engine) relocate(id string, pos, center math.Vec3) error {
	_, rot, err := e.lights.Transform(id)
	if err != nil {
		return err
	}
	if err := e.lights.SetTransform(id, pos, light.AimRotation(pos, center, rot)); err != nil {
		return err
	}
	return e.pivots.Set(id, center)
}

// findPosition searches for a spot from which every target is visible. A
// light below the tallest target is first lifted above it; then positions
// are tried past the closest obstruction, stepping toward the targets.
func (e *Engine) findPosition(pos math.Vec3, subj Subject, self string) (math.Vec3, bool) {
	if len(subj.Targets) == 0 {
		return math.Vec3{}, false
	}
	top := subj.Top()
	if pos.Z < top-e.cfg.TopTolerance {
		pos.Z = top + e.cfg.LiftMargin
		if ok, _ := e.clearToAll(pos, subj.Targets, self); ok {
			return pos, true
		}
	}

	blocker, ok := e.closestObstruction(pos, subj.Targets, self)
	if !ok {
		// Only off-center samples are blocked.
		_, hit := e.clearToAll(pos, subj.Targets, self)
		if hit == nil {
			return math.Vec3{}, false
		}
		blocker = hit.Point
	}
	steps := e.cfg.Steps
	if len(steps) == 0 {
		steps = defaultSteps
	}
	dir := subj.AverageCenter().Sub(blocker).Normalize()
	for _, step := range steps {
		cand := blocker.Add(dir.Scale(step))
		if ok, _ := e.clearToAll(cand, subj.Targets, self); ok {
			return cand, true
		}
	}
	return math.Vec3{}, false
}

// closestObstruction casts a single ray from pos to each target center and
// returns the nearest blocking point.
func (e *Engine) closestObstruction(pos math.Vec3, targets []Target, self string) (math.Vec3, bool) {
	var (
		best  math.Vec3
		bestD float32
		found bool
	)
	for _, t := range targets {
		hit, ok := e.scene.Segment(pos, t.Center, rayMargin, t.ID, self)
		if !ok {
			continue
		}
		if !found || hit.Distance < bestD {
			best, bestD, found = hit.Point, hit.Distance, true
		}
	}
	return best, found
}
