package reactfx

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint.
var ColorWhite = Color{1, 1, 1, 1}

// WithAlpha returns a copy of c with the alpha component replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = clamp01(a)
	return c
}

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions.
type Vec2 struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Range is a general-purpose min/max range.
type Range struct {
	Min, Max float64
}

// At returns the value at fraction t of the range. t is not clamped.
func (r Range) At(t float64) float64 {
	return r.Min + (r.Max-r.Min)*t
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendScreen                    // screen (1 - (1-src)*(1-dst); only brightens)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendNormal:
		return ebiten.BlendSourceOver
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendMultiply:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
			BlendFactorSourceAlpha:      ebiten.BlendFactorDestinationAlpha,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	case BlendScreen:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorOne,
			BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
			BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceColor,
			BlendFactorDestinationAlpha: ebiten.BlendFactorOneMinusSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	default:
		return ebiten.BlendSourceOver
	}
}

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node with no visual output
	NodeTypeCircle                    // circle of Radius around the origin
	NodeTypeEllipse                   // ellipse with Radius (x) and RadiusY (y)
	NodeTypeRect                      // Width x Height rectangle anchored at the origin
	NodeTypeLine                      // segment from Points[0] to Points[1]
	NodeTypePolygon                   // closed polygon through Points
	NodeTypeText                      // single-line label
)

// String returns the lowercase name of the node type.
func (t NodeType) String() string {
	switch t {
	case NodeTypeContainer:
		return "container"
	case NodeTypeCircle:
		return "circle"
	case NodeTypeEllipse:
		return "ellipse"
	case NodeTypeRect:
		return "rect"
	case NodeTypeLine:
		return "line"
	case NodeTypePolygon:
		return "polygon"
	case NodeTypeText:
		return "text"
	default:
		return "unknown"
	}
}

// EffectType is the discriminant tag of an effect descriptor.
type EffectType string

const (
	EffectGasProduction     EffectType = "gas_production"
	EffectLightEmission     EffectType = "light_emission"
	EffectTemperatureChange EffectType = "temperature_change"
	EffectFoamProduction    EffectType = "foam_production"
	EffectStateChange       EffectType = "state_change"
	EffectVolumeChange      EffectType = "volume_change"
	EffectSpill             EffectType = "spill"
	EffectTextureChange     EffectType = "texture_change"
)

// KnownEffectTypes lists the variants shipped with the engine, in declaration order.
var KnownEffectTypes = []EffectType{
	EffectGasProduction,
	EffectLightEmission,
	EffectTemperatureChange,
	EffectFoamProduction,
	EffectStateChange,
	EffectVolumeChange,
	EffectSpill,
	EffectTextureChange,
}

// BubbleSize is the bubble size class of a foam effect.
type BubbleSize uint8

const (
	BubbleSmall BubbleSize = iota
	BubbleMedium
	BubbleLarge
)

// String returns the wire name of the bubble size.
func (b BubbleSize) String() string {
	switch b {
	case BubbleSmall:
		return "small"
	case BubbleLarge:
		return "large"
	default:
		return "medium"
	}
}

// Radius returns the bubble radius range in pixels for this size class.
func (b BubbleSize) Radius() Range {
	switch b {
	case BubbleSmall:
		return Range{3, 6}
	case BubbleLarge:
		return Range{10, 16}
	default:
		return Range{6, 10}
	}
}

// clamp01 clamps v to [0, 1]. NaN maps to 0.
func clamp01(v float64) float64 {
	if v > 0 {
		if v > 1 {
			return 1
		}
		return v
	}
	return 0
}
