// Package control implements scalar smart control: a middle-button drag
// that changes one light parameter (power, distance, scale...) with
// speed- and distance-adaptive sensitivity.
package control

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/lightrig/internal/light"
	"github.com/Faultbox/lightrig/internal/logger"
	"github.com/Faultbox/lightrig/internal/sensitivity"
	"github.com/Faultbox/lightrig/internal/session"
	"github.com/Faultbox/lightrig/pkg/math"
)

var (
	// ErrNotTriggered is returned by Begin for anything but a middle press
	// with a modifier held.
	ErrNotTriggered = errors.New("scalar control needs a middle press with a modifier")
	// ErrNoTarget is returned when no selected light has the channel.
	ErrNoTarget = errors.New("no selected light has the channel")
	// ErrNotActive is returned for events delivered after the session ended.
	ErrNotActive = errors.New("scalar control session is not active")
)

// Deps are the collaborators a scalar session works through.
type Deps struct {
	Lights     light.Accessor
	Adapter    *light.Adapter
	Table      sensitivity.Table
	Thresholds sensitivity.Thresholds
	Registry   *session.Registry // Optional
}

type snapshot struct {
	params   light.Params
	position math.Vec3
	rotation math.Quat
}

// Session changes one channel on every selected light that has it.
type Session struct {
	deps      Deps
	channel   light.Channel
	targets   []string
	snapshots map[string]snapshot
	tracker   *sensitivity.Tracker
	last      math.Vec2
	active    bool
	committed bool
}

// Begin starts a scalar session for ch. Lights without the channel are
// left out; if none remain, ErrNoTarget is returned.
func Begin(deps Deps, ch light.Channel, selection []string, ev session.Event) (*Session, error) {
	if ev.Kind != session.EventPress || ev.Button != session.ButtonMiddle || ev.Modifiers == 0 {
		return nil, ErrNotTriggered
	}

	s := &Session{
		deps:      deps,
		channel:   ch,
		snapshots: make(map[string]snapshot),
		tracker:   sensitivity.NewTracker(deps.Table[ch], deps.Thresholds),
		last:      ev.Pointer,
		active:    true,
	}
	for _, id := range selection {
		kind, err := deps.Lights.Kind(id)
		if err != nil || !light.Available(kind, ch) {
			continue
		}
		s.targets = append(s.targets, id)
	}
	if len(s.targets) == 0 {
		return nil, fmt.Errorf("%s: %w", ch, ErrNoTarget)
	}

	if deps.Registry != nil {
		deps.Registry.Start(s)
	}
	for _, id := range s.targets {
		p, err := deps.Lights.Params(id)
		if err != nil {
			return nil, s.abort(err)
		}
		pos, rot, err := deps.Lights.Transform(id)
		if err != nil {
			return nil, s.abort(err)
		}
		s.snapshots[id] = snapshot{params: p, position: pos, rotation: rot}
	}

	logger.Debug("scalar control started",
		zap.Stringer("channel", ch),
		zap.Int("lights", len(s.targets)))
	return s, nil
}

func (s *Session) abort(err error) error {
	s.active = false
	if s.deps.Registry != nil {
		s.deps.Registry.Finish(s)
	}
	return err
}

// Channel implements session.Session.
func (s *Session) Channel() session.Channel { return session.ChannelScalarControl }

// Mode implements session.Session.
func (s *Session) Mode() string { return s.channel.String() }

// ClaimsPointer implements session.Session.
func (s *Session) ClaimsPointer() bool { return true }

// Active reports whether the session still accepts events.
func (s *Session) Active() bool { return s.active }

// Committed reports whether the session ended by committing.
func (s *Session) Committed() bool { return s.committed }

// Targets returns the lights being changed.
func (s *Session) Targets() []string { return append([]string(nil), s.targets...) }

// Handle processes one event and reports whether any value changed.
func (s *Session) Handle(ev session.Event) (bool, error) {
	if !s.active {
		return false, ErrNotActive
	}

	switch {
	case ev.Kind == session.EventKey && ev.Key == session.KeyEscape:
		s.Cancel()
		return false, nil
	case ev.Kind == session.EventRelease && ev.Button == session.ButtonMiddle,
		ev.Modifiers == 0:
		s.Commit()
		return false, nil
	case ev.Kind != session.EventPointerMove:
		return false, nil
	}

	raw := ev.Pointer.X - s.last.X
	s.last = ev.Pointer
	if raw == 0 {
		return false, nil
	}
	amount := s.tracker.Sample(raw, ev.Time)

	changed := false
	for _, id := range s.targets {
		if err := s.deps.Adapter.Apply(id, s.channel, amount); err != nil {
			logger.Warn("scalar control update failed",
				zap.Stringer("channel", s.channel),
				zap.String("light", id),
				zap.Error(err))
			continue
		}
		changed = true
	}
	return changed, nil
}

// Cancel restores params and transforms and ends the session.
func (s *Session) Cancel() {
	if !s.active {
		return
	}
	for _, id := range s.targets {
		snap, ok := s.snapshots[id]
		if !ok || !s.deps.Lights.Exists(id) {
			continue
		}
		if err := s.deps.Lights.SetParams(id, snap.params); err != nil {
			logger.Warn("failed to restore light params", zap.String("light", id), zap.Error(err))
		}
		if err := s.deps.Lights.SetTransform(id, snap.position, snap.rotation); err != nil {
			logger.Warn("failed to restore light transform", zap.String("light", id), zap.Error(err))
		}
	}
	s.end(false)
}

// Commit keeps the changes and ends the session.
func (s *Session) Commit() {
	if !s.active {
		return
	}
	s.end(true)
}

func (s *Session) end(committed bool) {
	s.active = false
	s.committed = committed
	if s.deps.Registry != nil {
		s.deps.Registry.Finish(s)
	}
	logger.Debug("scalar control ended",
		zap.Stringer("channel", s.channel),
		zap.Bool("committed", committed),
		zap.Float32("dragged", s.tracker.Dragged()))
}
