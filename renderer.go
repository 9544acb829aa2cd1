package reactfx

import (
	"time"
)

// AnimationContext is the per-surface state a renderer draws against.
type AnimationContext struct {
	// Anchor is the point the effect emanates from, in surface coordinates.
	Anchor Vec2
	// Bounds is the surface rectangle.
	Bounds Rect
	// Progress is the instance's elapsed fraction in [0, 1].
	Progress float64
	// ReducedMotion selects the static accessibility rendering.
	ReducedMotion bool
	// LowQuality asks renderers to shed particles (set when the performance
	// monitor reports sustained low frame rate).
	LowQuality bool
	// Seed distinguishes concurrent instances of identical descriptors.
	Seed uint64
}

// Renderer turns a descriptor into a drawable fragment. Render must be a
// pure function of its arguments: the same descriptor and context always
// yield a structurally identical fragment. A nil fragment paints nothing.
type Renderer interface {
	Render(d Descriptor, ctx AnimationContext) *Node
	Duration(d Descriptor) time.Duration
}

// RendererFactory creates a renderer for one effect type.
type RendererFactory func() Renderer

// RenderTuning holds duration defaults and the multipliers that let larger
// spills and thicker textures play longer. The multipliers are empirical
// defaults, not physical constants.
type RenderTuning struct {
	// FallbackDuration applies when a descriptor carries no duration and its
	// variant has no fixed one.
	FallbackDuration Duration `json:"fallbackDuration,omitempty"`
	// TemperatureDuration, StateDuration, and VolumeDuration are the fixed
	// durations of those variants.
	TemperatureDuration Duration `json:"temperatureDuration,omitempty"`
	StateDuration       Duration `json:"stateDuration,omitempty"`
	VolumeDuration      Duration `json:"volumeDuration,omitempty"`
	// FoamDuration applies when a foam descriptor has no stability.
	FoamDuration Duration `json:"foamDuration,omitempty"`
	// SpillBase is scaled by (1 + Amount*SpillAmountWeight) and
	// (1 + Spread/SpillSpreadScale*SpillSpreadWeight).
	SpillBase         Duration `json:"spillBase,omitempty"`
	SpillAmountWeight float64  `json:"spillAmountWeight,omitempty"`
	SpillSpreadWeight float64  `json:"spillSpreadWeight,omitempty"`
	SpillSpreadScale  float64  `json:"spillSpreadScale,omitempty"`
	// TextureBase is scaled by (1 + Viscosity*TextureViscosityWeight).
	TextureBase            Duration `json:"textureBase,omitempty"`
	TextureViscosityWeight float64  `json:"textureViscosityWeight,omitempty"`
}

// DefaultRenderTuning returns the shipped duration defaults.
func DefaultRenderTuning() RenderTuning {
	return RenderTuning{}.withDefaults()
}

func (t RenderTuning) withDefaults() RenderTuning {
	setDur := func(d *Duration, def time.Duration) {
		if *d <= 0 {
			*d = Duration(def)
		}
	}
	setF := func(f *float64, def float64) {
		if *f <= 0 {
			*f = def
		}
	}
	setDur(&t.FallbackDuration, DefaultFallbackDuration)
	setDur(&t.TemperatureDuration, 5*time.Second)
	setDur(&t.StateDuration, 6*time.Second)
	setDur(&t.VolumeDuration, 4*time.Second)
	setDur(&t.FoamDuration, 4*time.Second)
	setDur(&t.SpillBase, 3*time.Second)
	setF(&t.SpillAmountWeight, 1)
	setF(&t.SpillSpreadWeight, 0.5)
	setF(&t.SpillSpreadScale, 100)
	setDur(&t.TextureBase, 4*time.Second)
	setF(&t.TextureViscosityWeight, 1)
	return t
}

// seconds converts a descriptor duration in seconds, falling back to def
// when the field is unset.
func seconds(s float64, def Duration) time.Duration {
	if s <= 0 {
		return def.Std()
	}
	return time.Duration(s * float64(time.Second))
}

// --- Shared fragment helpers ---

// newFragment returns the root container of a renderer's output, positioned
// at the anchor so children can be laid out relative to it.
func newFragment(name string, ctx AnimationContext) *Node {
	root := NewContainer(name)
	root.X, root.Y = ctx.Anchor.X, ctx.Anchor.Y
	return root
}

// labelOffset is the distance below the anchor where labels sit.
const labelOffset = 48

// addLabel attaches a centered caption below the anchor.
func addLabel(root *Node, text string, c Color, alpha float64) *Node {
	if text == "" {
		return nil
	}
	label := NewText("label", -float64(len(text))*labelGlyphWidth/2, labelOffset, text, c)
	label.Alpha = alpha
	label.ZIndex = 10
	root.AddChild(label)
	return label
}

// particleCount scales a unit-interval amount to a particle count in
// [1, max], halved under low quality.
func particleCount(amount float64, max int, lowQuality bool) int {
	n := int(amount*float64(max) + 0.5)
	if lowQuality {
		n /= 2
	}
	if n < 1 {
		n = 1
	}
	if n > max {
		n = max
	}
	return n
}
