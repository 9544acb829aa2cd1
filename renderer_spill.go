package reactfx

import (
	"math"
	"time"
)

const (
	spillDefaultSpread = 60.0
	spillMaxDroplets   = 14
	spillMaxTendrils   = 7
)

type spillRenderer struct {
	tuning RenderTuning
}

// NewSpillRenderer returns the spill renderer: a puddle spreading from the
// anchor with splashing droplets and irregular tendrils. Larger spills play
// longer.
func NewSpillRenderer(tuning RenderTuning) Renderer {
	return spillRenderer{tuning: tuning.withDefaults()}
}

// Duration is SpillBase * (1 + amount*amountWeight) * (1 + spread/scale*spreadWeight).
func (r spillRenderer) Duration(d Descriptor) time.Duration {
	s, ok := d.(Spill)
	if !ok {
		return r.tuning.SpillBase.Std()
	}
	t := r.tuning
	mult := (1 + clamp01(s.Amount)*t.SpillAmountWeight) *
		(1 + math.Max(s.Spread, 0)/t.SpillSpreadScale*t.SpillSpreadWeight)
	return time.Duration(float64(t.SpillBase) * mult)
}

func spillReach(s Spill) float64 {
	spread := s.Spread
	if spread <= 0 {
		spread = spillDefaultSpread
	}
	return spread * (0.4 + 0.6*clamp01(s.Amount))
}

func (r spillRenderer) Render(d Descriptor, ctx AnimationContext) *Node {
	s, ok := d.(Spill)
	if !ok {
		return nil
	}
	reach := spillReach(s)
	if ctx.ReducedMotion {
		root := newFragment("spill", ctx)
		root.AddChild(puddle(s.Color, reach, 0.8))
		addLabel(root, "spill", ColorWhite, 1)
		return root
	}

	p := clamp01(ctx.Progress)
	env := Envelope(p, 0.05, 0.2)
	g := newRNG(d, ctx.Seed)
	root := newFragment("spill", ctx)

	rx := reach * EaseOut(p)
	root.AddChild(puddle(s.Color, rx, 0.8*env))

	tendrils := NewContainer("tendrils")
	nt := 3 + int(clamp01(s.Amount)*float64(spillMaxTendrils-3))
	for i := 0; i < nt; i++ {
		a := g.Float() * 2 * math.Pi
		length := g.In(Range{0.6, 0.95})
		c := Polar(Vec2{0, 20}, rx*length, a)
		c.Y = 20 + (c.Y-20)*0.35
		t := NewEllipse("tendril", c.X, c.Y, rx*0.25, rx*0.1, s.Color)
		t.Rotation = math.Atan2(c.Y-20, c.X)
		t.Alpha = 0.7 * env
		tendrils.AddChild(t)
	}
	root.AddChild(tendrils)

	cfg := fieldConfig{
		Count:       particleCount(s.Amount, spillMaxDroplets, ctx.LowQuality),
		SpawnRadius: Range{0, 6},
		Angle:       Range{-math.Pi * 0.9, -math.Pi * 0.1},
		Speed:       Range{20, 50 + reach*0.5},
		Delay:       Range{0, 0.3},
		Lifetime:    Range{0.25, 0.45},
		Radius:      2.5,
		StartScale:  Range{1, 1.4},
		EndScale:    Range{0.6, 0.9},
		StartAlpha:  Range{0.9, 1},
		EndAlpha:    Range{0.3, 0.5},
		Gravity:     Vec2{0, 160},
		StartColor:  s.Color,
		EndColor:    s.Color,
	}
	root.AddChild(buildField("droplets", cfg, spawnField(cfg, g), p, env))

	addLabel(root, "spill", ColorWhite, env)
	return root
}

// puddle is a flattened ellipse sitting just below the anchor.
func puddle(c Color, rx, alpha float64) *Node {
	pd := NewEllipse("puddle", 0, 20, rx, rx*0.35, c)
	pd.Alpha = alpha
	return pd
}
