package scenefile

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/lightrig/internal/session"
	"github.com/Faultbox/lightrig/pkg/math"
)

// Script is a recorded input sequence.
type Script struct {
	Select []string    `yaml:"select"` // Light names or ids
	Events []EventSpec `yaml:"events"`
}

// EventSpec is one scripted event. T is seconds from the start.
type EventSpec struct {
	T      float64  `yaml:"t"`
	Kind   string   `yaml:"kind"`
	X      float32  `yaml:"x"`
	Y      float32  `yaml:"y"`
	Button string   `yaml:"button"`
	Mods   []string `yaml:"mods"`
	Key    string   `yaml:"key"`
}

// LoadScript reads an event script.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return ParseScript(data)
}

// ParseScript decodes an event script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse events: %w", err)
	}
	return &s, nil
}

// Session converts the script into input events, in file order.
func (s *Script) Session() ([]session.Event, error) {
	out := make([]session.Event, 0, len(s.Events))
	var errs error
	for i, e := range s.Events {
		ev, err := e.Event()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("event %d: %w", i, err))
			continue
		}
		out = append(out, ev)
	}
	return out, errs
}

// Event converts one scripted event.
func (e EventSpec) Event() (session.Event, error) {
	ev := session.Event{
		Pointer:   math.Vec2{X: e.X, Y: e.Y},
		Modifiers: session.ParseModifiers(e.Mods),
		Time:      time.Duration(e.T * float64(time.Second)),
	}
	switch strings.ToLower(e.Kind) {
	case "move", "":
		ev.Kind = session.EventPointerMove
	case "press":
		ev.Kind = session.EventPress
	case "release":
		ev.Kind = session.EventRelease
	case "modifiers":
		ev.Kind = session.EventModifiers
	case "key":
		ev.Kind = session.EventKey
	default:
		return ev, fmt.Errorf("unknown kind %q", e.Kind)
	}

	if ev.Kind == session.EventPress || ev.Kind == session.EventRelease {
		b, err := parseButton(e.Button)
		if err != nil {
			return ev, err
		}
		ev.Button = b
	}
	if ev.Kind == session.EventKey {
		switch strings.ToLower(e.Key) {
		case "escape", "esc":
			ev.Key = session.KeyEscape
		default:
			return ev, fmt.Errorf("unknown key %q", e.Key)
		}
	}
	return ev, nil
}

func parseButton(s string) (session.Button, error) {
	switch strings.ToLower(s) {
	case "primary", "left", "":
		return session.ButtonPrimary, nil
	case "secondary", "right":
		return session.ButtonSecondary, nil
	case "middle":
		return session.ButtonMiddle, nil
	}
	return session.ButtonNone, fmt.Errorf("unknown button %q", s)
}
