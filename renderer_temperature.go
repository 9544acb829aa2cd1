package reactfx

import (
	"fmt"
	"math"
	"time"
)

var (
	tempNeutral = Color{0.85, 0.85, 0.85, 1}
	tempHot     = Color{0.95, 0.25, 0.1, 1}
	tempCold    = Color{0.35, 0.7, 1, 1}
)

const (
	// tempFullScale is the |delta| in °C at which the effect is fully saturated.
	tempFullScale   = 50.0
	tempMaxShimmers = 8
	tempMaxCrystals = 8
	thermoHeight    = 50.0
)

type temperatureRenderer struct {
	tuning RenderTuning
}

// NewTemperatureRenderer returns the temperature change renderer: a
// thermometer whose column moves with the delta, plus heat shimmer for
// warming or frost crystals and snow for cooling.
func NewTemperatureRenderer(tuning RenderTuning) Renderer {
	return temperatureRenderer{tuning: tuning.withDefaults()}
}

func (r temperatureRenderer) Duration(Descriptor) time.Duration {
	return r.tuning.TemperatureDuration.Std()
}

func (r temperatureRenderer) Render(d Descriptor, ctx AnimationContext) *Node {
	tc, ok := d.(TemperatureChange)
	if !ok {
		return nil
	}
	mag := clamp01(math.Abs(tc.Delta) / tempFullScale)
	if ctx.ReducedMotion {
		root := newFragment("temperature", ctx)
		root.AddChild(thermometer(tc.Delta, mag, 1))
		addLabel(root, tempLabel(tc.Delta), tempColor(tc.Delta, mag), 1)
		return root
	}

	p := clamp01(ctx.Progress)
	env := Envelope(p, 0.1, 0.2)
	root := newFragment("temperature", ctx)
	g := newRNG(d, ctx.Seed)

	if tc.Delta >= 0 {
		root.AddChild(heatShimmer(g, mag, p, env, ctx.LowQuality))
	} else {
		root.AddChild(frost(g, mag, p, env, ctx.LowQuality))
	}

	thermo := thermometer(tc.Delta, mag, EaseInOut(p))
	thermo.Alpha = env
	root.AddChild(thermo)

	addLabel(root, tempLabel(tc.Delta), tempColor(tc.Delta, mag), env)
	return root
}

// tempColor ramps from neutral toward hot or cold by magnitude.
func tempColor(delta, mag float64) Color {
	if delta >= 0 {
		return BlendLab(tempNeutral, tempHot, mag)
	}
	return BlendLab(tempNeutral, tempCold, mag)
}

func tempLabel(delta float64) string {
	return fmt.Sprintf("%+.0f°C", delta)
}

// thermometer draws a stem and bulb; fill in [0, 1] is how far the column
// has moved from its resting level toward the final level.
func thermometer(delta, mag, fill float64) *Node {
	t := NewContainer("thermometer")
	t.X = -70
	c := tempColor(delta, mag)

	t.AddChild(NewRect("stem", -4, -thermoHeight-6, 8, thermoHeight, Color{1, 1, 1, 0.25}))
	level := 0.5
	if delta >= 0 {
		level += 0.45 * mag * fill
	} else {
		level -= 0.45 * mag * fill
	}
	h := thermoHeight * level
	t.AddChild(NewRect("column", -2.5, -6-h, 5, h, c))
	t.AddChild(NewCircle("bulb", 0, 0, 8, c))
	return t
}

// heatShimmer draws wavy vertical lines drifting upward.
func heatShimmer(g rng, mag, p, env float64, lowQuality bool) *Node {
	shimmer := NewContainer("shimmer")
	n := particleCount(mag, tempMaxShimmers, lowQuality)
	const segments = 6
	c := BlendLab(tempNeutral, tempHot, 0.5+0.5*mag)
	for i := 0; i < n; i++ {
		baseX := -40 + 80*(float64(i)+0.5)/float64(n) + 6*g.Signed()
		phase := g.Float() * 2 * math.Pi
		rise := 30 * p * (0.8 + 0.4*g.Float())
		line := NewContainer("wave")
		for s := 0; s < segments; s++ {
			y0 := -float64(s) * 10
			y1 := y0 - 10
			x0 := baseX + Wave(-y0/60+p*2, 1, 4*mag+1, phase)
			x1 := baseX + Wave(-y1/60+p*2, 1, 4*mag+1, phase)
			seg := NewLine("segment", Vec2{x0, y0 - rise}, Vec2{x1, y1 - rise}, 1.5, c)
			seg.Alpha = env * 0.5 * (1 - float64(s)/segments)
			line.AddChild(seg)
		}
		shimmer.AddChild(line)
	}
	return shimmer
}

// frost draws six-armed crystals growing around the anchor and falling snow.
func frost(g rng, mag, p, env float64, lowQuality bool) *Node {
	f := NewContainer("frost")
	n := particleCount(mag, tempMaxCrystals, lowQuality)
	growth := EaseOut(math.Min(p*1.5, 1))
	for i := 0; i < n; i++ {
		center := Polar(Vec2{}, g.In(Range{30, 50}), g.Float()*2*math.Pi)
		arm := g.In(Range{4, 8}) * growth
		crystal := NewContainer("crystal")
		crystal.X, crystal.Y = center.X, center.Y
		crystal.Rotation = g.Float() * math.Pi
		for k := 0; k < 3; k++ {
			a := float64(k) * math.Pi / 3
			seg := NewLine("arm", Polar(Vec2{}, -arm, a), Polar(Vec2{}, arm, a), 1.2, tempCold.Lighten(0.5))
			seg.Alpha = env
			crystal.AddChild(seg)
		}
		f.AddChild(crystal)
	}

	cfg := fieldConfig{
		Count:          particleCount(mag, 10, lowQuality),
		SpawnRadius:    Range{0, 40},
		Angle:          Range{math.Pi * 0.4, math.Pi * 0.6},
		Speed:          Range{10, 30},
		Delay:          Range{0, 0.6},
		Lifetime:       Range{0.3, 0.5},
		Radius:         1.5,
		StartScale:     Range{1, 1.5},
		EndScale:       Range{0.8, 1},
		StartAlpha:     Range{0.8, 1},
		EndAlpha:       Range{0, 0.2},
		Gravity:        Vec2{0, 30},
		Turbulence:     3,
		TurbulenceFreq: 1,
		StartColor:     ColorWhite,
		EndColor:       tempCold.Lighten(0.6),
	}
	snow := buildField("snow", cfg, spawnField(cfg, g), p, env)
	snow.Y = -40
	f.AddChild(snow)
	return f
}
