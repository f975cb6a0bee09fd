package light

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/lightrig/internal/engine/lighting"
	"github.com/Faultbox/lightrig/pkg/math"
)

// ErrChannelUnavailable is returned when a light kind has no parameter for a channel.
var ErrChannelUnavailable = errors.New("channel not available for light kind")

// Channel is a scalar parameter that can be dragged.
type Channel int

const (
	ChannelDistance Channel = iota
	ChannelPower
	ChannelScale
	ChannelAngle
	ChannelTemperature
	ChannelBlend
)

// Channels lists every channel.
var Channels = []Channel{
	ChannelDistance, ChannelPower, ChannelScale,
	ChannelAngle, ChannelTemperature, ChannelBlend,
}

func (c Channel) String() string {
	switch c {
	case ChannelDistance:
		return "distance"
	case ChannelPower:
		return "power"
	case ChannelScale:
		return "scale"
	case ChannelAngle:
		return "angle"
	case ChannelTemperature:
		return "temperature"
	case ChannelBlend:
		return "blend"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

// ParseChannel parses a channel name.
func ParseChannel(s string) (Channel, error) {
	for _, c := range Channels {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown channel %q", s)
}

// AreaAxis selects which extents of an area light the scale channel changes.
type AreaAxis int

const (
	AxisXY AreaAxis = iota
	AxisX
	AxisY
)

// ParseAreaAxis parses xy, x or y; anything else is xy.
func ParseAreaAxis(s string) AreaAxis {
	switch strings.ToLower(s) {
	case "x":
		return AxisX
	case "y":
		return AxisY
	default:
		return AxisXY
	}
}

// Parameter limits.
const (
	MinDistance  = 0.1
	MinEnergy    = 0.001
	MinRadius    = 0.01
	MaxSpotSize  = 3.1415
	angleStep    = 0.05
	powerStep    = 10
	kelvinStep   = 100
	blendStep    = 0.05
	minAreaSize  = 0.01
	maxAreaValue = 1
)

// Available reports whether kind has a parameter for channel.
func Available(kind Kind, ch Channel) bool {
	switch ch {
	case ChannelDistance, ChannelPower, ChannelTemperature:
		return true
	case ChannelScale:
		return kind == KindPoint || kind == KindSpot || kind == KindArea
	case ChannelAngle:
		return kind == KindSun || kind == KindSpot || kind == KindArea
	case ChannelBlend:
		return kind == KindSpot
	}
	return false
}

// Adapter reads and applies scalar channel values on lights.
type Adapter struct {
	acc    Accessor
	pivots *Pivots
	axis   AreaAxis
}

// NewAdapter creates an adapter. Distance is measured against pivots.
func NewAdapter(acc Accessor, pivots *Pivots, axis AreaAxis) *Adapter {
	return &Adapter{acc: acc, pivots: pivots, axis: axis}
}

// Read returns the current value of a channel.
func (a *Adapter) Read(id string, ch Channel) (float32, error) {
	kind, err := a.acc.Kind(id)
	if err != nil {
		return 0, err
	}
	if !Available(kind, ch) {
		return 0, fmt.Errorf("%s on %s: %w", ch, kind, ErrChannelUnavailable)
	}

	if ch == ChannelDistance {
		pos, _, err := a.acc.Transform(id)
		if err != nil {
			return 0, err
		}
		pivot, err := a.pivots.Get(id)
		if err != nil {
			return 0, err
		}
		return pos.Distance(pivot), nil
	}

	p, err := a.acc.Params(id)
	if err != nil {
		return 0, err
	}
	switch ch {
	case ChannelPower:
		return p.Energy, nil
	case ChannelScale:
		if kind == KindArea {
			return p.Size, nil
		}
		return p.Radius, nil
	case ChannelAngle:
		switch kind {
		case KindSun:
			return p.SunAngle, nil
		case KindSpot:
			return p.SpotSize, nil
		default:
			return p.Spread, nil
		}
	case ChannelTemperature:
		if p.Temperature == 0 {
			return lighting.DefaultKelvin, nil
		}
		return p.Temperature, nil
	case ChannelBlend:
		return p.SpotBlend, nil
	}
	return 0, fmt.Errorf("%s: %w", ch, ErrChannelUnavailable)
}

// Apply changes a channel by amount, already scaled by the sensitivity model.
func (a *Adapter) Apply(id string, ch Channel, amount float32) error {
	kind, err := a.acc.Kind(id)
	if err != nil {
		return err
	}
	if !Available(kind, ch) {
		return fmt.Errorf("%s on %s: %w", ch, kind, ErrChannelUnavailable)
	}

	if ch == ChannelDistance {
		return a.applyDistance(id, amount)
	}

	p, err := a.acc.Params(id)
	if err != nil {
		return err
	}

	switch ch {
	case ChannelPower:
		p.Energy = max(MinEnergy, p.Energy+amount*powerStep)
	case ChannelScale:
		a.applyScale(kind, &p, amount)
	case ChannelAngle:
		delta := amount * angleStep
		switch kind {
		case KindSun:
			p.SunAngle = max(0, p.SunAngle+delta)
		case KindSpot:
			p.SpotSize = math.Clamp(p.SpotSize+delta, 0, MaxSpotSize)
		case KindArea:
			p.Spread = math.Clamp(p.Spread+delta, 0, maxAreaValue)
		}
	case ChannelTemperature:
		k := p.Temperature
		if k == 0 {
			k = lighting.DefaultKelvin
		}
		p.Temperature = math.Clamp(k+amount*kelvinStep, lighting.MinKelvin, lighting.MaxKelvin)
		p.Color = lighting.KelvinToRGB(p.Temperature)
	case ChannelBlend:
		p.SpotBlend = math.Clamp(p.SpotBlend+amount*blendStep, 0, maxAreaValue)
	}

	return a.acc.SetParams(id, p)
}

func (a *Adapter) applyScale(kind Kind, p *Params, amount float32) {
	if kind != KindArea {
		p.Radius = max(MinRadius, p.Radius+amount)
		return
	}
	if !p.Shape.HasSizeY() {
		p.Size = max(minAreaSize, p.Size+amount)
		return
	}
	switch a.axis {
	case AxisX:
		p.Size = max(minAreaSize, p.Size+amount)
	case AxisY:
		p.SizeY = max(minAreaSize, p.SizeY+amount)
	default:
		p.Size = max(minAreaSize, p.Size+amount)
		p.SizeY = max(minAreaSize, p.SizeY+amount)
	}
}

// applyDistance moves the light along the pivot direction, keeping it at
// least MinDistance from the pivot.
func (a *Adapter) applyDistance(id string, amount float32) error {
	pos, rot, err := a.acc.Transform(id)
	if err != nil {
		return err
	}
	pivot, err := a.pivots.Get(id)
	if err != nil {
		return err
	}

	offset := pos.Sub(pivot)
	dist := offset.Length()
	dir := offset.Normalize()
	if dir == (math.Vec3{}) {
		dir = rot.Forward().Negate()
	}

	next := max(MinDistance, dist+amount)
	return a.acc.SetTransform(id, pivot.Add(dir.Scale(next)), rot)
}
