// Package input translates SDL2 events into session events.
package input

import (
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/lightrig/internal/session"
	"github.com/Faultbox/lightrig/pkg/math"
)

// Frame is everything polled in one pass.
type Frame struct {
	Quit    bool
	Resized bool
	Width   int
	Height  int
	Wheel   float32 // Scroll steps, positive away from the user
	Events  []session.Event
}

// Input tracks the pointer between events.
type Input struct {
	pointer math.Vec2
	events  []session.Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]session.Event, 0, 16),
	}
}

// Pointer returns the last known pointer position.
func (i *Input) Pointer() math.Vec2 {
	return i.pointer
}

// Poll drains the SDL event queue. The returned events slice is reused by
// the next call.
func (i *Input) Poll() Frame {
	i.events = i.events[:0]
	var f Frame

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			f.Quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				f.Resized = true
				f.Width = int(e.Data1)
				f.Height = int(e.Data2)
			}

		case *sdl.MouseWheelEvent:
			f.Wheel += float32(e.Y)

		default:
			if ev, ok := i.Translate(event, sdl.GetModState()); ok {
				i.events = append(i.events, ev)
			}
		}
	}

	f.Events = i.events
	return f
}

// Translate converts one SDL event. mod is the modifier state to use for
// pointer events; keyboard events carry their own. Events that do not map
// to a session event return false.
func (i *Input) Translate(event sdl.Event, mod sdl.Keymod) (session.Event, bool) {
	switch e := event.(type) {
	case *sdl.MouseMotionEvent:
		i.pointer = math.Vec2{X: float32(e.X), Y: float32(e.Y)}
		return session.Event{
			Kind:      session.EventPointerMove,
			Pointer:   i.pointer,
			Modifiers: Modifiers(mod),
			Time:      stamp(e.Timestamp),
		}, true

	case *sdl.MouseButtonEvent:
		b := button(e.Button)
		if b == session.ButtonNone {
			return session.Event{}, false
		}
		i.pointer = math.Vec2{X: float32(e.X), Y: float32(e.Y)}
		kind := session.EventRelease
		if e.State == sdl.PRESSED {
			kind = session.EventPress
		}
		return session.Event{
			Kind:      kind,
			Pointer:   i.pointer,
			Button:    b,
			Modifiers: Modifiers(mod),
			Time:      stamp(e.Timestamp),
		}, true

	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			return session.Event{}, false
		}
		ev := session.Event{
			Pointer:   i.pointer,
			Modifiers: Modifiers(sdl.Keymod(e.Keysym.Mod)),
			Time:      stamp(e.Timestamp),
		}
		switch e.Keysym.Sym {
		case sdl.K_ESCAPE:
			if e.State != sdl.PRESSED {
				return session.Event{}, false
			}
			ev.Kind = session.EventKey
			ev.Key = session.KeyEscape
		case sdl.K_LCTRL, sdl.K_RCTRL, sdl.K_LSHIFT, sdl.K_RSHIFT, sdl.K_LALT, sdl.K_RALT:
			ev.Kind = session.EventModifiers
		default:
			return session.Event{}, false
		}
		return ev, true
	}
	return session.Event{}, false
}

// Modifiers converts an SDL modifier state.
func Modifiers(mod sdl.Keymod) session.Modifiers {
	var m session.Modifiers
	if mod&sdl.KMOD_CTRL != 0 {
		m |= session.ModCtrl
	}
	if mod&sdl.KMOD_SHIFT != 0 {
		m |= session.ModShift
	}
	if mod&sdl.KMOD_ALT != 0 {
		m |= session.ModAlt
	}
	return m
}

func button(b uint8) session.Button {
	switch b {
	case sdl.BUTTON_LEFT:
		return session.ButtonPrimary
	case sdl.BUTTON_RIGHT:
		return session.ButtonSecondary
	case sdl.BUTTON_MIDDLE:
		return session.ButtonMiddle
	}
	return session.ButtonNone
}

func stamp(ms uint32) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
