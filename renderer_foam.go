package reactfx

import (
	"math"
	"time"
)

const (
	foamMaxBubbles = 30
	foamMaxHeight  = 60.0
	foamWidth      = 90.0
	// foamGrowEnd is the progress at which the foam head reaches full height.
	foamGrowEnd = 0.6
	// foamPopStart is the progress after which bubbles begin to pop.
	foamPopStart = 0.7
)

type foamRenderer struct {
	tuning RenderTuning
}

// NewFoamRenderer returns the foam production renderer: a mound that rises
// to a density-dependent height, studded with bubbles that pop in and later
// burst.
func NewFoamRenderer(tuning RenderTuning) Renderer {
	return foamRenderer{tuning: tuning.withDefaults()}
}

func (r foamRenderer) Duration(d Descriptor) time.Duration {
	f, ok := d.(FoamProduction)
	if !ok {
		return r.tuning.FallbackDuration.Std()
	}
	return seconds(f.Stability, r.tuning.FoamDuration)
}

func (r foamRenderer) Render(d Descriptor, ctx AnimationContext) *Node {
	f, ok := d.(FoamProduction)
	if !ok {
		return nil
	}
	fullHeight := foamMaxHeight * (0.3 + 0.7*f.Density)
	if ctx.ReducedMotion {
		root := newFragment("foam", ctx)
		root.AddChild(foamMound(f.Color, fullHeight, 0.8))
		addLabel(root, "foam forming", ColorWhite, 1)
		return root
	}

	p := clamp01(ctx.Progress)
	env := Envelope(p, 0.05, 0.15)
	grow := EaseOut(math.Min(p/foamGrowEnd, 1))
	height := fullHeight * grow
	root := newFragment("foam", ctx)
	root.AddChild(foamMound(f.Color, height, 0.6*env))

	g := newRNG(d, ctx.Seed)
	n := particleCount(f.Density, foamMaxBubbles, ctx.LowQuality)
	sizes := f.BubbleSize.Radius()
	bubbles := NewContainer("bubbles")
	for i := 0; i < n; i++ {
		x := g.Signed() * foamWidth / 2 * 0.9
		yFrac := g.Float()
		radius := g.In(sizes)
		popAt := g.In(Range{foamPopStart, 1})

		// A bubble appears once the head has grown past its height.
		appear := yFrac * foamGrowEnd
		if p < appear {
			continue
		}
		inflate := Elastic(math.Min((p-appear)/0.15, 1))
		alpha := env
		if p > popAt {
			burst := math.Min((p-popAt)/0.05, 1)
			alpha *= 1 - burst
			radius *= 1 + 0.4*burst
		}
		if alpha <= 0 {
			continue
		}
		y := -fullHeight * yFrac
		b := NewRing("bubble", x, y, radius*inflate, 1, f.Color.Lighten(0.4))
		b.Alpha = alpha
		bubbles.AddChild(b)
		shine := NewCircle("shine", x-radius*0.3, y-radius*0.3, radius*0.25*inflate, ColorWhite)
		shine.Alpha = alpha * 0.7
		bubbles.AddChild(shine)
	}
	root.AddChild(bubbles)

	addLabel(root, "foam forming", ColorWhite, env)
	return root
}

// foamMound is the body of the foam head: a half-ellipse rising above the anchor.
func foamMound(c Color, height, alpha float64) *Node {
	m := NewEllipse("mound", 0, -height/2, foamWidth/2, math.Max(height/2, 2), c.Lighten(0.2))
	m.Alpha = alpha
	return m
}
