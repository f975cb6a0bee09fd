package main

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/lightrig/internal/control"
	"github.com/Faultbox/lightrig/internal/light"
	"github.com/Faultbox/lightrig/internal/logger"
	"github.com/Faultbox/lightrig/internal/positioning"
	"github.com/Faultbox/lightrig/internal/session"
)

// dispatcher routes input events to the active session and starts new
// sessions on trigger presses: a primary press with a mode's modifiers
// begins positioning, a middle press with any modifier begins scalar
// control on channel.
type dispatcher struct {
	pos       positioning.Deps
	ctl       control.Deps
	channel   light.Channel
	selection []string

	positioning *positioning.Session
	control     *control.Session

	// Sessions that ended, in order: mode name and whether it committed.
	ended []endedSession
}

type endedSession struct {
	Mode      string `yaml:"mode"`
	Committed bool   `yaml:"committed"`
}

func newDispatcher(w *workspace, ch light.Channel, selection []string) *dispatcher {
	return &dispatcher{
		pos:       w.positioningDeps(cfg),
		ctl:       w.controlDeps(cfg),
		channel:   ch,
		selection: selection,
	}
}

// Select replaces the selection used by sessions begun from now on.
func (d *dispatcher) Select(ids []string) {
	d.selection = ids
}

// Handle processes one event. Errors are returned for logging; the
// dispatcher stays usable.
func (d *dispatcher) Handle(ev session.Event) error {
	defer d.reap()

	if d.control == nil && ev.Kind == session.EventPress && ev.Button == session.ButtonMiddle && ev.Modifiers != 0 {
		return d.beginControl(ev)
	}
	if d.control != nil {
		_, err := d.control.Handle(ev)
		return err
	}
	if d.positioning != nil {
		_, err := d.positioning.Handle(ev)
		return err
	}
	if ev.Kind == session.EventPress && ev.Button == session.ButtonPrimary {
		return d.beginPositioning(ev)
	}
	return nil
}

// Close cancels whatever is still active.
func (d *dispatcher) Close() {
	if d.pos.Registry != nil {
		d.pos.Registry.CancelAll()
	}
	d.reap()
}

func (d *dispatcher) beginPositioning(ev session.Event) error {
	mode, ok := positioning.DetectMode(ev.Modifiers)
	if !ok {
		return nil
	}
	s, err := positioning.Begin(d.pos, mode, d.selection, ev)
	if err != nil {
		return err
	}
	d.positioning = s
	return nil
}

func (d *dispatcher) beginControl(ev session.Event) error {
	s, err := control.Begin(d.ctl, d.channel, d.selection, ev)
	if errors.Is(err, control.ErrNoTarget) {
		logger.Info("no selected light has this channel", zap.Stringer("channel", d.channel))
		return nil
	}
	if err != nil {
		return err
	}
	d.control = s
	return nil
}

// reap forgets sessions that have ended, including ones the registry
// cancelled to make room for another.
func (d *dispatcher) reap() {
	if d.positioning != nil && d.positioning.State() != positioning.StateActive {
		d.ended = append(d.ended, endedSession{
			Mode:      d.positioning.Mode(),
			Committed: d.positioning.State() == positioning.StateCommitted,
		})
		d.positioning = nil
	}
	if d.control != nil && !d.control.Active() {
		d.ended = append(d.ended, endedSession{
			Mode:      d.control.Mode(),
			Committed: d.control.Committed(),
		})
		d.control = nil
	}
}
