// Package session holds the input event model shared by interactive
// sessions and the registry that keeps at most one session per channel.
package session

import (
	"strings"
	"time"

	"github.com/Faultbox/lightrig/pkg/math"
)

// Modifiers is a set of held modifier keys.
type Modifiers uint8

const (
	ModCtrl Modifiers = 1 << iota
	ModShift
	ModAlt
)

// Has reports whether every modifier in want is held.
func (m Modifiers) Has(want Modifiers) bool {
	return m&want == want
}

func (m Modifiers) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	if m&ModCtrl != 0 {
		parts = append(parts, "ctrl")
	}
	if m&ModShift != 0 {
		parts = append(parts, "shift")
	}
	if m&ModAlt != 0 {
		parts = append(parts, "alt")
	}
	return strings.Join(parts, "+")
}

// ParseModifiers parses names like "ctrl", "shift", "alt" into a set.
// Unknown names are ignored.
func ParseModifiers(names []string) Modifiers {
	var m Modifiers
	for _, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "ctrl", "control":
			m |= ModCtrl
		case "shift":
			m |= ModShift
		case "alt", "option":
			m |= ModAlt
		}
	}
	return m
}

// Button is a pointer button.
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonSecondary
	ButtonMiddle
)

// Key is a non-modifier key of interest.
type Key int

const (
	KeyNone Key = iota
	KeyEscape
)

// EventKind is the type of an input event.
type EventKind int

const (
	EventPointerMove EventKind = iota
	EventPress
	EventRelease
	EventModifiers // Modifier state changed
	EventKey
)

func (k EventKind) String() string {
	switch k {
	case EventPointerMove:
		return "move"
	case EventPress:
		return "press"
	case EventRelease:
		return "release"
	case EventModifiers:
		return "modifiers"
	case EventKey:
		return "key"
	default:
		return "unknown"
	}
}

// Event is one input event. Every event carries the pointer position and
// the modifier state at the time it happened, plus a monotonic timestamp.
type Event struct {
	Kind      EventKind
	Pointer   math.Vec2
	Button    Button
	Key       Key
	Modifiers Modifiers
	Time      time.Duration
}
