package reactfx

import (
	"fmt"
	"math"
	"time"

	"github.com/tanema/gween/ease"
)

const (
	beakerWidth   = 60.0
	beakerHeight  = 80.0
	contentsLevel = 40.0
	// volumeMaxFactor bounds how far the contents can visibly grow or shrink.
	volumeMaxFactor = 2.5
	volumeMinFactor = 0.1
)

var (
	beakerColor   = Color{0.8, 0.85, 0.9, 0.9}
	contentsColor = Color{0.3, 0.6, 0.9, 1}
)

type volumeRenderer struct {
	tuning RenderTuning
}

// NewVolumeRenderer returns the volume change renderer: a beaker whose
// contents swell with an elastic overshoot or shrink smoothly, with arrows
// indicating the direction of change.
func NewVolumeRenderer(tuning RenderTuning) Renderer {
	return volumeRenderer{tuning: tuning.withDefaults()}
}

func (r volumeRenderer) Duration(Descriptor) time.Duration {
	return r.tuning.VolumeDuration.Std()
}

func volumeFactor(v VolumeChange) float64 {
	f := v.Factor
	if f <= 0 || math.IsNaN(f) {
		return 1
	}
	return math.Max(volumeMinFactor, math.Min(f, volumeMaxFactor))
}

func (r volumeRenderer) Render(d Descriptor, ctx AnimationContext) *Node {
	v, ok := d.(VolumeChange)
	if !ok {
		return nil
	}
	factor := volumeFactor(v)
	if ctx.ReducedMotion {
		root := newFragment("volume", ctx)
		root.AddChild(beaker(factor))
		addLabel(root, volumeLabel(v), ColorWhite, 1)
		return root
	}

	p := clamp01(ctx.Progress)
	env := Envelope(p, 0.05, 0.2)
	fn := ease.OutCubic
	if factor > 1 {
		fn = ease.OutElastic
	}
	scale := Interpolate(1, factor, p, fn)

	root := newFragment("volume", ctx)
	b := beaker(scale)
	b.Alpha = env
	root.AddChild(b)

	if factor != 1 {
		root.AddChild(volumeArrows(factor > 1, p, env))
	}
	addLabel(root, volumeLabel(v), ColorWhite, env)
	return root
}

func volumeLabel(v VolumeChange) string {
	return fmt.Sprintf("volume x%.2f", volumeFactor(v))
}

// beaker draws the vessel outline and its contents at the given scale.
// Contents above the rim spill over as a cap.
func beaker(scale float64) *Node {
	b := NewContainer("beaker")
	level := contentsLevel * scale
	inside := math.Min(level, beakerHeight)
	b.AddChild(NewRect("contents", -beakerWidth/2, -inside, beakerWidth, inside, contentsColor))
	if level > beakerHeight {
		over := level - beakerHeight
		b.AddChild(NewEllipse("overflow", 0, -beakerHeight, beakerWidth/2+over/4, over/2, contentsColor))
	}
	outline := NewRect("outline", -beakerWidth/2, -beakerHeight, beakerWidth, beakerHeight, beakerColor)
	outline.StrokeWidth = 2
	b.AddChild(outline)
	return b
}

// volumeArrows are four chevrons at the beaker's flanks pointing outward for
// expansion or inward for contraction, bobbing with a wave.
func volumeArrows(expand bool, p, env float64) *Node {
	arrows := NewContainer("arrows")
	dir := 1.0
	if !expand {
		dir = -1
	}
	bob := Wave(p, 3, 4, 0)
	for i, side := range []float64{-1, 1, -1, 1} {
		y := -beakerHeight * 0.3
		if i >= 2 {
			y = -beakerHeight * 0.7
		}
		x := side * (beakerWidth/2 + 14 + bob)
		tip := Vec2{x + side*dir*8, y}
		c := Color{1, 1, 1, 1}
		a1 := NewLine("arrow", Vec2{x - side*dir*4, y - 6}, tip, 2, c)
		a2 := NewLine("arrow", Vec2{x - side*dir*4, y + 6}, tip, 2, c)
		a1.Alpha, a2.Alpha = env*0.8, env*0.8
		arrows.AddChild(a1)
		arrows.AddChild(a2)
	}
	return arrows
}
