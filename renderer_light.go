package reactfx

import (
	"math"
	"time"
)

const (
	lightGlowRings    = 6
	lightMaxSparkles  = 12
	lightMinRays      = 6
	lightExtraRays    = 10
	lightDefaultReach = 40.0
)

type lightRenderer struct {
	tuning RenderTuning
}

// NewLightRenderer returns the light emission renderer: a pulsing radial glow
// with slowly rotating rays and additive sparkles.
func NewLightRenderer(tuning RenderTuning) Renderer {
	return lightRenderer{tuning: tuning.withDefaults()}
}

func (r lightRenderer) Duration(d Descriptor) time.Duration {
	l, ok := d.(LightEmission)
	if !ok {
		return r.tuning.FallbackDuration.Std()
	}
	return seconds(l.Duration, r.tuning.FallbackDuration)
}

func lightRadius(l LightEmission) float64 {
	if l.Radius > 0 {
		return l.Radius
	}
	return lightDefaultReach + 60*l.Intensity
}

func (r lightRenderer) Render(d Descriptor, ctx AnimationContext) *Node {
	l, ok := d.(LightEmission)
	if !ok {
		return nil
	}
	if ctx.ReducedMotion {
		return r.static(l, ctx)
	}

	p := clamp01(ctx.Progress)
	env := Envelope(p, 0.15, 0.3)
	radius := lightRadius(l)
	root := newFragment("light", ctx)

	rings := lightGlowRings
	if ctx.LowQuality {
		rings /= 2
	}
	glow := radialGlow("glow", radius*(0.75+0.25*Pulse(p, 3)), l.Color, env*l.Intensity, rings)
	root.AddChild(glow)

	nRays := lightMinRays + int(l.Intensity*lightExtraRays)
	if ctx.LowQuality {
		nRays /= 2
	}
	rays := NewContainer("rays")
	rays.Rotation = p * math.Pi / 2
	for i := 0; i < nRays; i++ {
		a := 2 * math.Pi * float64(i) / float64(nRays)
		reach := radius * (1.1 + 0.3*Pulse(p+float64(i)/float64(nRays), 2))
		ray := NewLine("ray", Polar(Vec2{}, radius*0.4, a), Polar(Vec2{}, reach, a), 2, l.Color.Lighten(0.4))
		ray.Alpha = env * 0.6
		ray.BlendMode = BlendAdd
		rays.AddChild(ray)
	}
	root.AddChild(rays)

	cfg := fieldConfig{
		Count:      particleCount(l.Intensity, lightMaxSparkles, ctx.LowQuality),
		Angle:      Range{0, 2 * math.Pi},
		Speed:      Range{radius * 0.5, radius * 1.2},
		Delay:      Range{0, 0.8},
		Lifetime:   Range{0.2, 0.4},
		Radius:     2,
		StartScale: Range{1, 1.5},
		EndScale:   Range{0.2, 0.4},
		StartAlpha: Range{0.8, 1},
		EndAlpha:   Range{0, 0},
		StartColor: ColorWhite,
		EndColor:   l.Color,
		BlendMode:  BlendAdd,
	}
	root.AddChild(buildField("sparkles", cfg, spawnField(cfg, newRNG(d, ctx.Seed)), p, env))

	core := NewCircle("core", 0, 0, radius*0.2, l.Color.Lighten(0.7))
	core.Alpha = env
	core.BlendMode = BlendAdd
	root.AddChild(core)

	addLabel(root, "light emitted", ColorWhite, env)
	return root
}

// static is the reduced-motion rendering: one soft disc and a caption.
func (r lightRenderer) static(l LightEmission, ctx AnimationContext) *Node {
	root := newFragment("light", ctx)
	disc := NewCircle("glow", 0, 0, lightRadius(l), l.Color)
	disc.Alpha = 0.3 + 0.4*l.Intensity
	disc.BlendMode = BlendAdd
	root.AddChild(disc)
	addLabel(root, "light emitted", ColorWhite, 1)
	return root
}
