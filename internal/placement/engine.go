package placement

import (
	"fmt"
	"strings"

	"github.com/Faultbox/lightrig/internal/config"
	"github.com/Faultbox/lightrig/internal/light"
	"github.com/Faultbox/lightrig/internal/scene"
	"github.com/Faultbox/lightrig/pkg/math"
)

// Strategy is how the audit treats a light with a blocked line of sight.
type Strategy int

const (
	StrategyAdjust Strategy = iota // Relocate, removing the light if nothing works
	StrategySkip                   // Remove the light
	StrategyWarn                   // Keep the light and annotate it
)

func (s Strategy) String() string {
	switch s {
	case StrategyAdjust:
		return "adjust"
	case StrategySkip:
		return "skip"
	case StrategyWarn:
		return "warn"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy parses a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "adjust", "adjust_position":
		return StrategyAdjust, nil
	case "skip", "skip_light":
		return StrategySkip, nil
	case "warn", "warn_only":
		return StrategyWarn, nil
	}
	return 0, fmt.Errorf("unknown obstruction strategy %q", s)
}

// Lights is the light storage placement creates and removes lights in.
type Lights interface {
	light.Accessor
	Add(l *light.Light) (string, error)
	Remove(id string) error
	Annotate(id string, note light.ObstructionNote) error
	Len() int
}

// Camera supplies the basis for camera-relative placement.
type Camera interface {
	Basis() (right, forward, up math.Vec3)
	Rotation() math.Quat
}

// Options tune a single Place call.
type Options struct {
	BaseDistance float32 // Overrides template and config when > 0
	Strategy     Strategy
	Camera       Camera // Required for camera-relative templates
}

// Engine runs template placement against one scene.
type Engine struct {
	scene  *scene.Facade
	bounds scene.BoundsProvider
	lights Lights
	pivots *light.Pivots
	cfg    config.PlacementConfig
}

// NewEngine creates a placement engine. Only sc.Rays is used; the engine
// runs without a viewport.
func NewEngine(sc *scene.Facade, bounds scene.BoundsProvider, lights Lights, pivots *light.Pivots, cfg config.PlacementConfig) *Engine {
	return &Engine{
		scene:  sc,
		bounds: bounds,
		lights: lights,
		pivots: pivots,
		cfg:    cfg,
	}
}
