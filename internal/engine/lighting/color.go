// Package lighting provides light color utilities.
package lighting

import "math"

// Color temperature limits in kelvin.
const (
	MinKelvin     = 1000
	MaxKelvin     = 20000
	DefaultKelvin = 6500
)

// KelvinToRGB converts a color temperature to linear RGB in the 0-1 range
// using Tanner Helland's piecewise fit. Input is clamped to [MinKelvin, MaxKelvin].
func KelvinToRGB(kelvin float32) [3]float32 {
	k := math.Max(MinKelvin, math.Min(MaxKelvin, float64(kelvin)))
	t := k / 100

	var r, g, b float64

	if t <= 66 {
		r = 255
	} else {
		r = 329.698727446 * math.Pow(t-60, -0.1332047592)
	}

	if t <= 66 {
		g = 99.4708025861*math.Log(t) - 161.1195681661
	} else {
		g = 288.1221695283 * math.Pow(t-60, -0.0755148492)
	}

	switch {
	case t >= 66:
		b = 255
	case t <= 19:
		b = 0
	default:
		b = 138.5177312231*math.Log(t-10) - 305.0447927307
	}

	return ClampColor([3]float32{
		float32(r / 255),
		float32(g / 255),
		float32(b / 255),
	})
}

// ClampColor clamps each channel to the 0-1 range.
func ClampColor(c [3]float32) [3]float32 {
	for i := 0; i < 3; i++ {
		if c[i] > 1.0 {
			c[i] = 1.0
		}
		if c[i] < 0.0 {
			c[i] = 0.0
		}
	}
	return c
}
