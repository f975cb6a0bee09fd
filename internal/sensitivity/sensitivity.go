// Package sensitivity converts raw pointer deltas into parameter deltas,
// scaling with pointer speed and with how far the current drag has gone.
package sensitivity

import (
	"time"

	"github.com/Faultbox/lightrig/internal/config"
	"github.com/Faultbox/lightrig/internal/light"
)

// Profile is the sensitivity curve of one channel.
type Profile struct {
	Base        float32
	SpeedFactor float32
	AccelFactor float32
}

// Thresholds classify pointer speed (px/s) and drag distance (px).
type Thresholds struct {
	SlowSpeed float32
	FastSpeed float32
	ShortDrag float32
	LongDrag  float32
}

// Bucket multipliers.
const (
	slowMultiplier  = 0.5
	fastMultiplier  = 2.0
	shortMultiplier = 0.7
	longMultiplier  = 1.5
)

// DefaultThresholds returns the stock speed and distance buckets.
func DefaultThresholds() Thresholds {
	return Thresholds{SlowSpeed: 100, FastSpeed: 1000, ShortDrag: 100, LongDrag: 500}
}

// SpeedMultiplier buckets a pointer speed.
func (th Thresholds) SpeedMultiplier(speed float32) float32 {
	switch {
	case speed < th.SlowSpeed:
		return slowMultiplier
	case speed > th.FastSpeed:
		return fastMultiplier
	default:
		return 1
	}
}

// AccelMultiplier buckets a cumulative drag distance.
func (th Thresholds) AccelMultiplier(dragged float32) float32 {
	switch {
	case dragged < th.ShortDrag:
		return shortMultiplier
	case dragged > th.LongDrag:
		return longMultiplier
	default:
		return 1
	}
}

// Final returns the per-pixel sensitivity at a pointer speed after a drag
// of the given length.
func (p Profile) Final(speed, dragged float32, th Thresholds) float32 {
	speedSens := p.Base * (1 + (th.SpeedMultiplier(speed)-1)*p.SpeedFactor)
	return speedSens * (1 + (th.AccelMultiplier(dragged)-1)*p.AccelFactor)
}

// Table maps channels to profiles.
type Table map[light.Channel]Profile

// FromConfig builds the channel table and thresholds. Channels missing from
// cfg fall back to the stock profile.
func FromConfig(cfg config.SensitivityConfig) (Table, Thresholds) {
	defaults := config.Default().Sensitivity.Channels

	table := make(Table, len(light.Channels))
	for _, ch := range light.Channels {
		prof, ok := cfg.Channels[ch.String()]
		if !ok {
			prof = defaults[ch.String()]
		}
		table[ch] = Profile{Base: prof.Base, SpeedFactor: prof.SpeedFactor, AccelFactor: prof.AccelFactor}
	}

	th := Thresholds{
		SlowSpeed: cfg.SlowSpeed,
		FastSpeed: cfg.FastSpeed,
		ShortDrag: cfg.ShortDrag,
		LongDrag:  cfg.LongDrag,
	}
	if th == (Thresholds{}) {
		th = DefaultThresholds()
	}
	return table, th
}

// Tracker accumulates the state of one drag.
type Tracker struct {
	profile    Profile
	th         Thresholds
	started    bool
	lastTime   time.Duration
	cumulative float32
}

// NewTracker creates a tracker for one channel.
func NewTracker(p Profile, th Thresholds) *Tracker {
	return &Tracker{profile: p, th: th}
}

// Reset forgets the current drag. Call it whenever a drag restarts.
func (t *Tracker) Reset() {
	t.started = false
	t.lastTime = 0
	t.cumulative = 0
}

// Dragged returns the absolute pointer travel since the drag started.
func (t *Tracker) Dragged() float32 {
	return t.cumulative
}

// Sample converts a raw pointer delta taken at a monotonic timestamp into a
// value delta.
func (t *Tracker) Sample(raw float32, at time.Duration) float32 {
	abs := raw
	if abs < 0 {
		abs = -abs
	}
	t.cumulative += abs

	if !t.started {
		t.started = true
		t.lastTime = at
		return t.profile.Base * raw
	}

	dt := at - t.lastTime
	t.lastTime = at
	if dt <= 0 {
		return t.profile.Base * raw
	}

	speed := abs / float32(dt.Seconds())
	return raw * t.profile.Final(speed, t.cumulative, t.th)
}
