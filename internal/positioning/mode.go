// Package positioning implements the interactive light positioning session:
// a modifier-driven drag that moves, aims and re-pivots the selected lights
// in one of six modes.
package positioning

import (
	"fmt"
	"strings"

	"github.com/Faultbox/lightrig/internal/session"
)

// Mode selects the per-event update rule of a session.
type Mode int

const (
	ModeHighlight Mode = iota // Mirror the view through the surface under the cursor
	ModeNormal                // Place along the surface normal under the cursor
	ModeOrbit                 // Rotate around the pivot
	ModeTarget                // Aim at the surface under the cursor without moving
	ModeFree                  // Drag the pivot in screen space; the light stays put
	ModeMove                  // Drag light and pivot together
)

// Modes lists every mode.
var Modes = []Mode{ModeHighlight, ModeNormal, ModeOrbit, ModeTarget, ModeFree, ModeMove}

var modeModifiers = map[Mode]session.Modifiers{
	ModeHighlight: session.ModCtrl,
	ModeNormal:    session.ModShift,
	ModeOrbit:     session.ModAlt,
	ModeTarget:    session.ModCtrl | session.ModAlt,
	ModeFree:      session.ModCtrl | session.ModShift,
	ModeMove:      session.ModShift | session.ModAlt,
}

func (m Mode) String() string {
	switch m {
	case ModeHighlight:
		return "highlight"
	case ModeNormal:
		return "normal"
	case ModeOrbit:
		return "orbit"
	case ModeTarget:
		return "target"
	case ModeFree:
		return "free"
	case ModeMove:
		return "move"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Modifiers returns the modifier combination that starts and sustains m.
func (m Mode) Modifiers() session.Modifiers {
	return modeModifiers[m]
}

// DetectMode maps an exact modifier combination to its mode.
func DetectMode(mods session.Modifiers) (Mode, bool) {
	for _, m := range Modes {
		if modeModifiers[m] == mods {
			return m, true
		}
	}
	return 0, false
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown positioning mode %q", s)
}
