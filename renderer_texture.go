package reactfx

import (
	"math"
	"strings"
	"time"
)

// textureKind groups texture labels by how they are drawn.
type textureKind uint8

const (
	textureSmooth textureKind = iota
	textureGrainy
	textureCrystalline
	textureViscous
)

func classifyTexture(s string) textureKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grainy", "granular", "powdery", "sandy", "cloudy", "precipitate":
		return textureGrainy
	case "crystalline", "crystal", "crystals", "jagged", "flaky":
		return textureCrystalline
	case "gel", "gelatinous", "viscous", "thick", "slimy", "sticky", "syrupy":
		return textureViscous
	default:
		return textureSmooth
	}
}

const (
	texturePatchWidth  = 100.0
	texturePatchHeight = 50.0
	textureMaxGrains   = 40
	textureMaxFacets   = 10
	textureMaxBlobs    = 6
)

var textureBaseColor = Color{0.55, 0.6, 0.7, 1}

type textureRenderer struct {
	tuning RenderTuning
}

// NewTextureRenderer returns the texture change renderer: a patch of
// material that tints toward the descriptor color while a surface pattern
// for the texture emerges. Thicker materials change more slowly.
func NewTextureRenderer(tuning RenderTuning) Renderer {
	return textureRenderer{tuning: tuning.withDefaults()}
}

// Duration is TextureBase * (1 + viscosity*viscosityWeight).
func (r textureRenderer) Duration(d Descriptor) time.Duration {
	base := r.tuning.TextureBase
	tc, ok := d.(TextureChange)
	if !ok {
		return base.Std()
	}
	return time.Duration(float64(base) * (1 + clamp01(tc.Viscosity)*r.tuning.TextureViscosityWeight))
}

func (r textureRenderer) Render(d Descriptor, ctx AnimationContext) *Node {
	tc, ok := d.(TextureChange)
	if !ok {
		return nil
	}
	kind := classifyTexture(tc.Texture)
	label := textureLabel(tc)
	if ctx.ReducedMotion {
		root := newFragment("texture", ctx)
		root.AddChild(texturePatch(tc.Color, 1, 1))
		addLabel(root, label, ColorWhite, 1)
		return root
	}

	p := clamp01(ctx.Progress)
	env := Envelope(p, 0.05, 0.2)
	// Viscous materials take longer to show their surface.
	reveal := EaseInOut(math.Min(p*(1.6-0.6*clamp01(tc.Viscosity)), 1))
	root := newFragment("texture", ctx)
	root.AddChild(texturePatch(tc.Color, reveal, env))

	g := newRNG(d, ctx.Seed)
	switch kind {
	case textureGrainy:
		root.AddChild(grains(g, tc, reveal, env, ctx.LowQuality))
	case textureCrystalline:
		root.AddChild(facets(g, tc, reveal, env, ctx.LowQuality))
	case textureViscous:
		root.AddChild(blobs(g, tc, p, reveal, env, ctx.LowQuality))
	default:
		root.AddChild(sheen(p, env))
	}

	addLabel(root, label, ColorWhite, env)
	return root
}

func textureLabel(tc TextureChange) string {
	if tc.Texture == "" {
		return "texture change"
	}
	return "becomes " + tc.Texture
}

// texturePatch is the material surface, shaded top to bottom, its color
// moving from the neutral base toward c as t goes to 1.
func texturePatch(c Color, t, alpha float64) *Node {
	top := BlendLab(textureBaseColor, c.Lighten(0.25), t)
	bottom := BlendLab(textureBaseColor, c, t)
	patch := verticalGradient("patch", -texturePatchWidth/2, -texturePatchHeight/2,
		texturePatchWidth, texturePatchHeight, top, bottom, 6)
	patch.Alpha = alpha
	return patch
}

func patchPoint(g rng) Vec2 {
	return Vec2{
		g.Signed() * texturePatchWidth / 2 * 0.9,
		g.Signed() * texturePatchHeight / 2 * 0.85,
	}
}

// grains are small specks that fade in scattered across the patch.
func grains(g rng, tc TextureChange, reveal, env float64, lowQuality bool) *Node {
	n := particleCount(0.5+0.5*clamp01(tc.Viscosity), textureMaxGrains, lowQuality)
	c := tc.Color.Lighten(-0.3)
	gr := NewContainer("grains")
	for i := 0; i < n; i++ {
		pt := patchPoint(g)
		r := g.In(Range{0.8, 2})
		threshold := g.Float()
		if reveal < threshold {
			continue
		}
		dot := NewCircle("grain", pt.X, pt.Y, r, c)
		dot.Alpha = env * clamp01((reveal-threshold)*4)
		gr.AddChild(dot)
	}
	return gr
}

// facets are small angular polygons that catch a moving highlight.
func facets(g rng, tc TextureChange, reveal, env float64, lowQuality bool) *Node {
	n := particleCount(0.8, textureMaxFacets, lowQuality)
	fs := NewContainer("facets")
	for i := 0; i < n; i++ {
		pt := patchPoint(g)
		size := g.In(Range{4, 9}) * reveal
		rot := g.Float() * math.Pi
		sides := 3 + g.Intn(3)
		pts := make([]Vec2, sides)
		for k := range pts {
			pts[k] = Polar(pt, size, rot+2*math.Pi*float64(k)/float64(sides))
		}
		f := NewPolygon("facet", pts, tc.Color.Lighten(0.5))
		f.Alpha = env * 0.8
		fs.AddChild(f)
	}
	return fs
}

// blobs are wobbling ellipses; their wobble slows as viscosity rises.
func blobs(g rng, tc TextureChange, p, reveal, env float64, lowQuality bool) *Node {
	n := particleCount(0.5+0.5*clamp01(tc.Viscosity), textureMaxBlobs, lowQuality)
	freq := 4 - 3*clamp01(tc.Viscosity)
	bs := NewContainer("blobs")
	for i := 0; i < n; i++ {
		pt := patchPoint(g)
		r := g.In(Range{6, 12}) * reveal
		phase := g.Float() * 2 * math.Pi
		wob := Wave(p, freq, 0.2, phase)
		b := NewEllipse("blob", pt.X, pt.Y, r*(1+wob), r*(1-wob), tc.Color.Lighten(0.15))
		b.Alpha = env * 0.7
		bs.AddChild(b)
	}
	return bs
}

// sheen is a highlight band sweeping across a smooth surface.
func sheen(p, env float64) *Node {
	x := -texturePatchWidth/2 + texturePatchWidth*EaseInOut(p)
	s := NewRect("sheen", x-6, -texturePatchHeight/2, 12, texturePatchHeight, ColorWhite)
	s.Alpha = env * 0.3 * Pulse(p, 1)
	s.BlendMode = BlendAdd
	return s
}
