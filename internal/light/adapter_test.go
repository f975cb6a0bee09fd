package light

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/lightrig/internal/engine/lighting"
	"github.com/Faultbox/lightrig/pkg/math"
)

func TestAvailable(t *testing.T) {
	assert.True(t, Available(KindSun, ChannelAngle))
	assert.False(t, Available(KindSun, ChannelScale))
	assert.False(t, Available(KindPoint, ChannelAngle))
	assert.True(t, Available(KindSpot, ChannelBlend))
	assert.False(t, Available(KindArea, ChannelBlend))
	for _, k := range []Kind{KindPoint, KindSun, KindSpot, KindArea} {
		assert.True(t, Available(k, ChannelPower))
		assert.True(t, Available(k, ChannelDistance))
		assert.True(t, Available(k, ChannelTemperature))
	}
}

func TestAdapterUnavailableChannel(t *testing.T) {
	s, pivots, id := newFixture(t, New(KindPoint))
	a := NewAdapter(s, pivots, AxisXY)
	assert.ErrorIs(t, a.Apply(id, ChannelBlend, 1), ErrChannelUnavailable)
	_, err := a.Read(id, ChannelAngle)
	assert.ErrorIs(t, err, ErrChannelUnavailable)
}

func TestAdapterPowerClamp(t *testing.T) {
	s, pivots, id := newFixture(t, New(KindPoint, WithEnergy(10)))
	a := NewAdapter(s, pivots, AxisXY)

	require.NoError(t, a.Apply(id, ChannelPower, 0.5))
	v, _ := a.Read(id, ChannelPower)
	assert.InDelta(t, 15, v, 1e-4)

	require.NoError(t, a.Apply(id, ChannelPower, -100))
	v, _ = a.Read(id, ChannelPower)
	assert.InDelta(t, MinEnergy, v, 1e-6)
}

func TestAdapterDistance(t *testing.T) {
	s, pivots, id := newFixture(t, New(KindPoint, WithPosition(math.Vec3{Z: 3}), WithTarget(math.Vec3{})))
	a := NewAdapter(s, pivots, AxisXY)

	require.NoError(t, a.Apply(id, ChannelDistance, 1))
	pos, _, _ := s.Transform(id)
	assert.True(t, pos.ApproxEqual(math.Vec3{Z: 4}, 1e-5))

	require.NoError(t, a.Apply(id, ChannelDistance, -10))
	d, err := a.Read(id, ChannelDistance)
	require.NoError(t, err)
	assert.InDelta(t, MinDistance, d, 1e-5)
}

func TestAdapterAngle(t *testing.T) {
	s, pivots, id := newFixture(t, New(KindSpot))
	a := NewAdapter(s, pivots, AxisXY)

	require.NoError(t, a.Apply(id, ChannelAngle, 1000))
	v, _ := a.Read(id, ChannelAngle)
	assert.InDelta(t, MaxSpotSize, v, 1e-5)

	s2, pivots2, sun := newFixture(t, New(KindSun))
	a2 := NewAdapter(s2, pivots2, AxisXY)
	require.NoError(t, a2.Apply(sun, ChannelAngle, -1000))
	v, _ = a2.Read(sun, ChannelAngle)
	assert.Equal(t, float32(0), v)

	s3, pivots3, area := newFixture(t, New(KindArea))
	a3 := NewAdapter(s3, pivots3, AxisXY)
	require.NoError(t, a3.Apply(area, ChannelAngle, 1000))
	v, _ = a3.Read(area, ChannelAngle)
	assert.Equal(t, float32(1), v)
}

func TestAdapterBlendClamp(t *testing.T) {
	s, pivots, id := newFixture(t, New(KindSpot))
	a := NewAdapter(s, pivots, AxisXY)
	require.NoError(t, a.Apply(id, ChannelBlend, -1000))
	v, _ := a.Read(id, ChannelBlend)
	assert.Equal(t, float32(0), v)
}

func TestAdapterTemperature(t *testing.T) {
	s, pivots, id := newFixture(t, New(KindPoint))
	a := NewAdapter(s, pivots, AxisXY)

	v, err := a.Read(id, ChannelTemperature)
	require.NoError(t, err)
	assert.Equal(t, float32(lighting.DefaultKelvin), v)

	require.NoError(t, a.Apply(id, ChannelTemperature, -1000))
	p, _ := s.Params(id)
	assert.Equal(t, float32(lighting.MinKelvin), p.Temperature)
	assert.Equal(t, lighting.KelvinToRGB(lighting.MinKelvin), p.Color)
}

func TestAdapterAreaScaleAxes(t *testing.T) {
	tests := []struct {
		name      string
		shape     AreaShape
		axis      AreaAxis
		wantSize  float32
		wantSizeY float32
	}{
		{"rectangle xy", ShapeRectangle, AxisXY, 1.5, 1.5},
		{"rectangle x", ShapeRectangle, AxisX, 1.5, 1},
		{"rectangle y", ShapeRectangle, AxisY, 1, 1.5},
		{"square ignores axis", ShapeSquare, AxisY, 1.5, 1},
		{"disk ignores axis", ShapeDisk, AxisXY, 1.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams(KindArea)
			p.Shape = tt.shape
			s, pivots, id := newFixture(t, New(KindArea, WithParams(p)))
			a := NewAdapter(s, pivots, tt.axis)

			require.NoError(t, a.Apply(id, ChannelScale, 0.5))
			got, _ := s.Params(id)
			assert.InDelta(t, tt.wantSize, got.Size, 1e-5)
			assert.InDelta(t, tt.wantSizeY, got.SizeY, 1e-5)
		})
	}
}

func TestAdapterPointScaleClamp(t *testing.T) {
	s, pivots, id := newFixture(t, New(KindPoint))
	a := NewAdapter(s, pivots, AxisXY)
	require.NoError(t, a.Apply(id, ChannelScale, -5))
	v, _ := a.Read(id, ChannelScale)
	assert.InDelta(t, MinRadius, v, 1e-6)
}

func TestParseChannel(t *testing.T) {
	c, err := ParseChannel("Temperature")
	require.NoError(t, err)
	assert.Equal(t, ChannelTemperature, c)
	_, err = ParseChannel("hue")
	assert.Error(t, err)
}
