package positioning

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/lightrig/internal/config"
	"github.com/Faultbox/lightrig/internal/light"
	"github.com/Faultbox/lightrig/internal/logger"
	"github.com/Faultbox/lightrig/internal/scene"
	"github.com/Faultbox/lightrig/internal/session"
	"github.com/Faultbox/lightrig/pkg/math"
)

var (
	// ErrInvalidContext is returned when the viewport or the selection can
	// no longer be resolved.
	ErrInvalidContext = errors.New("invalid positioning context")
	// ErrModifierMismatch is returned by Begin when the held modifiers do
	// not select the requested mode.
	ErrModifierMismatch = errors.New("modifiers do not match mode")
	// ErrNotActive is returned for events delivered after the session ended.
	ErrNotActive = errors.New("positioning session is not active")
	// ErrReentrant is returned when Handle is called from within Handle.
	ErrReentrant = errors.New("positioning session re-entered")
	// ErrDegenerateNormal is a per-light failure for surfaces without a
	// usable normal.
	ErrDegenerateNormal = errors.New("degenerate surface normal")
)

// State is the lifecycle state of a session.
type State int

const (
	StateActive State = iota
	StateCommitted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateCommitted:
		return "committed"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Deps are the collaborators a session works through.
type Deps struct {
	Scene    *scene.Facade
	Lights   light.Accessor
	Pivots   *light.Pivots
	Registry *session.Registry // Optional
	Config   config.PositioningConfig
}

// Snapshot is the state of one light captured when a session begins.
type Snapshot struct {
	Position math.Vec3
	Rotation math.Quat
	Pivot    light.Pivot
	HasPivot bool
}

// Result reports what one event did.
type Result struct {
	State   State
	Moved   bool // Some light's transform or pivot changed
	Updated int  // Lights updated without error
	Failed  int  // Lights whose update failed
}

// Session is one interactive positioning drag over a fixed selection.
type Session struct {
	deps      Deps
	mode      Mode
	selection []string
	snapshots map[string]Snapshot
	distances map[string]float32

	state    State
	dragging bool
	busy     bool

	last    math.Vec2
	dragged float32
}

// Begin starts a session in mode over selection. ev is the event that
// triggered it; a primary press starts dragging immediately.
func Begin(deps Deps, mode Mode, selection []string, ev session.Event) (*Session, error) {
	if got, ok := DetectMode(ev.Modifiers); !ok || got != mode {
		return nil, fmt.Errorf("%w: %s held, %s needs %s",
			ErrModifierMismatch, ev.Modifiers, mode, mode.Modifiers())
	}
	if len(selection) == 0 {
		return nil, fmt.Errorf("%w: no lights selected", ErrInvalidContext)
	}
	if err := deps.Scene.Valid(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContext, err)
	}

	for _, id := range selection {
		if !deps.Lights.Exists(id) {
			return nil, fmt.Errorf("%w: light %s: %v", ErrInvalidContext, id, light.ErrNotFound)
		}
	}

	s := &Session{
		deps:      deps,
		mode:      mode,
		selection: append([]string(nil), selection...),
		snapshots: make(map[string]Snapshot, len(selection)),
		distances: make(map[string]float32, len(selection)),
	}
	// A conflicting session restores its lights here, before the snapshot.
	if deps.Registry != nil {
		deps.Registry.Start(s)
	}
	for _, id := range s.selection {
		snap, err := s.capture(id)
		if err != nil {
			s.finish(StateCancelled)
			return nil, fmt.Errorf("%w: light %s: %v", ErrInvalidContext, id, err)
		}
		s.snapshots[id] = snap
	}
	if mode == ModeHighlight || mode == ModeNormal {
		s.recordDistances(ev.Pointer)
	}
	s.restart(ev)
	s.dragging = ev.Kind == session.EventPress && ev.Button == session.ButtonPrimary

	logger.Debug("positioning session started",
		zap.Stringer("mode", mode),
		zap.Int("lights", len(s.selection)),
		zap.Bool("dragging", s.dragging))
	return s, nil
}

// Channel implements session.Session.
func (s *Session) Channel() session.Channel { return session.ChannelPositioning }

// Mode implements session.Session.
func (s *Session) Mode() string { return s.mode.String() }

// ClaimsPointer implements session.Session.
func (s *Session) ClaimsPointer() bool { return true }

// PositioningMode returns the mode the session runs in.
func (s *Session) PositioningMode() Mode { return s.mode }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Dragging reports whether pointer moves currently update the selection.
func (s *Session) Dragging() bool { return s.dragging }

// Selection returns the ids the session operates on.
func (s *Session) Selection() []string { return append([]string(nil), s.selection...) }

// Snapshot returns the state captured for id at Begin.
func (s *Session) Snapshot(id string) (Snapshot, bool) {
	snap, ok := s.snapshots[id]
	return snap, ok
}

// Handle processes one event.
func (s *Session) Handle(ev session.Event) (Result, error) {
	if s.state != StateActive {
		return Result{State: s.state}, ErrNotActive
	}
	if s.busy {
		return Result{State: s.state}, ErrReentrant
	}
	s.busy = true
	defer func() { s.busy = false }()

	if err := s.validate(); err != nil {
		s.cancel("context lost")
		return Result{State: s.state}, fmt.Errorf("%w: %v", ErrInvalidContext, err)
	}

	if (ev.Kind == session.EventKey && ev.Key == session.KeyEscape) ||
		(ev.Kind == session.EventPress && ev.Button == session.ButtonSecondary) {
		s.cancel("cancelled")
		return Result{State: s.state}, nil
	}
	if !ev.Modifiers.Has(s.mode.Modifiers()) {
		s.cancel("modifiers released")
		return Result{State: s.state}, nil
	}

	switch ev.Kind {
	case session.EventRelease:
		if ev.Button == session.ButtonPrimary {
			s.commit()
		}
	case session.EventPress:
		if ev.Button == session.ButtonPrimary && !s.dragging {
			s.restart(ev)
			s.dragging = true
		}
	case session.EventPointerMove:
		if s.dragging {
			return s.update(ev), nil
		}
	}
	return Result{State: s.state}, nil
}

// Cancel restores every light to its snapshot and ends the session.
func (s *Session) Cancel() {
	s.cancel("cancelled")
}

// Commit keeps the current transforms and ends the session.
func (s *Session) Commit() {
	s.commit()
}

func (s *Session) update(ev session.Event) Result {
	delta := ev.Pointer.Sub(s.last)
	s.dragged += delta.Length()

	fn := updaters[s.mode]
	res := Result{State: s.state}
	for _, id := range s.selection {
		before, err := s.capture(id)
		if err == nil {
			err = fn(s, id, ev, delta)
		}
		if err != nil {
			res.Failed++
			logger.Warn("positioning update failed",
				zap.Stringer("mode", s.mode),
				zap.String("light", id),
				zap.Error(err))
			continue
		}
		res.Updated++
		after, err := s.capture(id)
		if err == nil && after != before {
			res.Moved = true
		}
	}

	s.last = ev.Pointer
	return res
}

// restart resets the drag accumulators.
func (s *Session) restart(ev session.Event) {
	s.last = ev.Pointer
	s.dragged = 0
}

func (s *Session) validate() error {
	if err := s.deps.Scene.Valid(); err != nil {
		return err
	}
	for _, id := range s.selection {
		if !s.deps.Lights.Exists(id) {
			return fmt.Errorf("light %s: %w", id, light.ErrNotFound)
		}
	}
	return nil
}

func (s *Session) capture(id string) (Snapshot, error) {
	pos, rot, err := s.deps.Lights.Transform(id)
	if err != nil {
		return Snapshot{}, err
	}
	pivot, ok, err := s.deps.Lights.PivotAnnotation(id)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Position: pos, Rotation: rot, Pivot: pivot, HasPivot: ok}, nil
}

// recordDistances stores how far each light sits from the surface under
// the pointer, falling back to its stored pivot and then to the default.
func (s *Session) recordDistances(pointer math.Vec2) {
	hit, hitOK := s.deps.Scene.RaycastScreen(pointer, s.selection...)
	for _, id := range s.selection {
		snap := s.snapshots[id]
		var d float32
		switch {
		case hitOK:
			d = snap.Position.Distance(hit.Point)
		case snap.HasPivot:
			d = snap.Position.Distance(snap.Pivot.Point)
		}
		if d < minPreservedDistance {
			d = s.deps.Config.DefaultDistance
		}
		s.distances[id] = d
	}
}

// minPreservedDistance is the shortest recorded distance kept as is.
const minPreservedDistance = 1e-4

func (s *Session) cancel(reason string) {
	if s.state != StateActive {
		return
	}
	for _, id := range s.selection {
		snap := s.snapshots[id]
		if err := s.restore(id, snap); err != nil {
			logger.Warn("failed to restore light",
				zap.String("light", id),
				zap.Error(err))
		}
	}
	s.finish(StateCancelled)
	logger.Debug("positioning session cancelled",
		zap.Stringer("mode", s.mode),
		zap.String("reason", reason))
}

func (s *Session) restore(id string, snap Snapshot) error {
	if !s.deps.Lights.Exists(id) {
		return light.ErrNotFound
	}
	if err := s.deps.Lights.SetTransform(id, snap.Position, snap.Rotation); err != nil {
		return err
	}
	if snap.HasPivot {
		return s.deps.Lights.SetPivotAnnotation(id, snap.Pivot)
	}
	return s.deps.Lights.ClearPivotAnnotation(id)
}

func (s *Session) commit() {
	if s.state != StateActive {
		return
	}
	s.finish(StateCommitted)
	logger.Debug("positioning session committed",
		zap.Stringer("mode", s.mode),
		zap.Float32("dragged", s.dragged))
}

func (s *Session) finish(st State) {
	s.state = st
	s.dragging = false
	if s.deps.Registry != nil {
		s.deps.Registry.Finish(s)
	}
}
