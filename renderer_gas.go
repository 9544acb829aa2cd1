package reactfx

import (
	"math"
	"strings"
	"time"
)

// Gas plume limits.
const (
	gasMaxParticles        = 15
	gasMaxParticlesReduced = 6
)

type gasRenderer struct {
	tuning RenderTuning
}

// NewGasRenderer returns the gas production renderer: buoyant bubbles rising
// from the anchor with turbulent sway, fading as they grow.
func NewGasRenderer(tuning RenderTuning) Renderer {
	return gasRenderer{tuning: tuning.withDefaults()}
}

func (r gasRenderer) Duration(d Descriptor) time.Duration {
	g, ok := d.(GasProduction)
	if !ok {
		return r.tuning.FallbackDuration.Std()
	}
	return seconds(g.Duration, r.tuning.FallbackDuration)
}

func (r gasRenderer) Render(d Descriptor, ctx AnimationContext) *Node {
	g, ok := d.(GasProduction)
	if !ok {
		return nil
	}
	if ctx.ReducedMotion {
		return r.static(g, ctx)
	}

	p := clamp01(ctx.Progress)
	env := Envelope(p, 0.1, 0.25)
	root := newFragment("gas", ctx)

	cfg := gasField(g, ctx.LowQuality)
	ps := spawnField(cfg, newRNG(d, ctx.Seed))
	root.AddChild(buildField("plume", cfg, ps, p, env))

	// Effervescence at the source.
	fizz := NewRing("fizz", 0, 0, 6+4*Pulse(p, 4), 1.5, g.Color.Lighten(0.3))
	fizz.Alpha = env * (0.4 + 0.4*g.Intensity)
	root.AddChild(fizz)

	addLabel(root, gasLabel(g), ColorWhite, env)
	return root
}

// gasField configures the plume. Particle count is intensity*15.
func gasField(g GasProduction, lowQuality bool) fieldConfig {
	lift := 0.5 + g.Intensity
	return fieldConfig{
		Count:          particleCount(g.Intensity, gasMaxParticles, lowQuality),
		SpawnRadius:    Range{0, 12},
		Angle:          Range{-math.Pi * 0.65, -math.Pi * 0.35},
		Speed:          Range{60 * lift, 140 * lift},
		Delay:          Range{0, 0.5},
		Lifetime:       Range{0.4, 0.6},
		Radius:         4 + 4*g.Intensity,
		StartScale:     Range{0.6, 1},
		EndScale:       Range{1.4, 2.2},
		StartAlpha:     Range{0.6 + 0.3*g.Intensity, 0.9},
		EndAlpha:       Range{0, 0.1},
		Gravity:        Vec2{0, -40},
		Turbulence:     6 + 10*g.Intensity,
		TurbulenceFreq: 1.5,
		StartColor:     g.Color,
		EndColor:       g.Color.Lighten(0.6),
		BlendMode:      BlendNormal,
	}
}

// static is the reduced-motion rendering: a fixed cluster of intensity*6
// bubbles above the anchor and a caption.
func (r gasRenderer) static(g GasProduction, ctx AnimationContext) *Node {
	root := newFragment("gas", ctx)
	n := particleCount(g.Intensity, gasMaxParticlesReduced, false)
	cluster := NewContainer("cluster")
	cluster.Y = -28
	for _, pt := range ringLayout(n, 14, -math.Pi/2) {
		b := NewCircle("bubble", pt.X, pt.Y, 6, g.Color)
		b.Alpha = 0.8
		cluster.AddChild(b)
	}
	root.AddChild(cluster)
	addLabel(root, gasLabel(g), ColorWhite, 1)
	return root
}

func gasLabel(g GasProduction) string {
	name := strings.TrimSpace(g.Gas)
	if name == "" {
		return "gas released"
	}
	return name + " released"
}
