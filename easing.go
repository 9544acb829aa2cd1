package reactfx

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Ease evaluates a gween easing curve at normalized time t in [0, 1] and
// returns the eased fraction. t is clamped.
func Ease(fn ease.TweenFunc, t float64) float64 {
	t = clamp01(t)
	if fn == nil {
		return t
	}
	return float64(fn(float32(t), 0, 1, 1))
}

// EaseIn accelerates from zero velocity.
func EaseIn(t float64) float64 { return Ease(ease.InQuad, t) }

// EaseOut decelerates to zero velocity.
func EaseOut(t float64) float64 { return Ease(ease.OutQuad, t) }

// EaseInOut accelerates then decelerates.
func EaseInOut(t float64) float64 { return Ease(ease.InOutCubic, t) }

// Bounce settles with decaying bounces.
func Bounce(t float64) float64 { return Ease(ease.OutBounce, t) }

// Elastic overshoots and oscillates before settling.
func Elastic(t float64) float64 { return Ease(ease.OutElastic, t) }

// Interpolate returns the value between from and to at fraction t, shaped by fn.
func Interpolate(from, to, t float64, fn ease.TweenFunc) float64 {
	if fn == nil {
		fn = ease.Linear
	}
	tw := gween.New(float32(from), float32(to), 1, fn)
	v, _ := tw.Set(float32(clamp01(t)))
	return float64(v)
}

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpColor linearly interpolates every channel of two colors.
func LerpColor(a, b Color, t float64) Color {
	return Color{
		R: Lerp(a.R, b.R, t),
		G: Lerp(a.G, b.G, t),
		B: Lerp(a.B, b.B, t),
		A: Lerp(a.A, b.A, t),
	}
}

// Clamp01 clamps v to [0, 1].
func Clamp01(v float64) float64 { return clamp01(v) }

// Pulse oscillates in [0, 1] with the given number of cycles over t in [0, 1].
// Pulse(0, n) is 0.
func Pulse(t, cycles float64) float64 {
	return 0.5 - 0.5*math.Cos(2*math.Pi*cycles*t)
}

// Wave returns a sine wave in [-amplitude, amplitude].
func Wave(t, frequency, amplitude, phase float64) float64 {
	return amplitude * math.Sin(2*math.Pi*frequency*t+phase)
}

// Envelope shapes an opacity curve: ramps from 0 to 1 over [0, fadeIn], holds
// at 1, then ramps back to 0 over [1-fadeOut, 1].
func Envelope(t, fadeIn, fadeOut float64) float64 {
	t = clamp01(t)
	if fadeIn > 0 && t < fadeIn {
		return EaseOut(t / fadeIn)
	}
	if fadeOut > 0 && t > 1-fadeOut {
		return 1 - EaseIn((t-(1-fadeOut))/fadeOut)
	}
	return 1
}

// Spiral returns a point on an Archimedean spiral around center. The radius
// grows linearly from 0 to maxRadius while the angle sweeps turns revolutions.
func Spiral(center Vec2, t, maxRadius, turns, phase float64) Vec2 {
	r := maxRadius * t
	a := phase + 2*math.Pi*turns*t
	return Vec2{center.X + r*math.Cos(a), center.Y + r*math.Sin(a)}
}

// Orbit returns a point on an ellipse around center after t revolutions.
func Orbit(center Vec2, t, rx, ry, phase float64) Vec2 {
	a := phase + 2*math.Pi*t
	return Vec2{center.X + rx*math.Cos(a), center.Y + ry*math.Sin(a)}
}

// Polar returns the point at distance r and angle a (radians) from center.
func Polar(center Vec2, r, a float64) Vec2 {
	return Vec2{center.X + r*math.Cos(a), center.Y + r*math.Sin(a)}
}
