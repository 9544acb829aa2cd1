package reactfx

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Descriptor describes one effect to display. Descriptors are values supplied
// by the reaction collaborator; the engine never mutates them.
type Descriptor interface {
	EffectType() EffectType
}

// GasProduction is a plume of rising gas bubbles.
type GasProduction struct {
	Gas       string
	Color     Color
	Intensity float64 // [0, 1]
	Duration  float64 // seconds; 0 uses the renderer default
}

// LightEmission is a glow with rays and sparkles.
type LightEmission struct {
	Color     Color
	Intensity float64 // [0, 1]
	Radius    float64 // pixels
	Duration  float64 // seconds; 0 uses the renderer default
}

// TemperatureChange is a heat shimmer (positive delta) or frost (negative delta).
type TemperatureChange struct {
	Delta float64 // °C
}

// FoamProduction is a growing head of foam.
type FoamProduction struct {
	Color      Color
	Density    float64 // [0, 1]
	BubbleSize BubbleSize
	Stability  float64 // seconds the foam lasts; 0 uses the renderer default
}

// StateChange is a transition into FinalState ("solid", "liquid", "gas", "precipitate", ...).
type StateChange struct {
	FinalState string
}

// VolumeChange scales the contents by Factor (1 = unchanged).
type VolumeChange struct {
	Factor float64
}

// Spill is liquid escaping the container.
type Spill struct {
	Color  Color
	Amount float64 // [0, 1] fraction of the contents
	Spread float64 // pixels
}

// TextureChange is a change in surface texture.
type TextureChange struct {
	Texture   string
	Color     Color
	Viscosity float64 // [0, 1]
}

// UnknownEffect carries an effect_type the engine does not ship a variant
// for. It runs its duration with whatever renderer is registered for the tag,
// if any.
type UnknownEffect struct {
	Type     EffectType
	Duration float64 // seconds
}

func (GasProduction) EffectType() EffectType     { return EffectGasProduction }
func (LightEmission) EffectType() EffectType     { return EffectLightEmission }
func (TemperatureChange) EffectType() EffectType { return EffectTemperatureChange }
func (FoamProduction) EffectType() EffectType    { return EffectFoamProduction }
func (StateChange) EffectType() EffectType       { return EffectStateChange }
func (VolumeChange) EffectType() EffectType      { return EffectVolumeChange }
func (Spill) EffectType() EffectType             { return EffectSpill }
func (TextureChange) EffectType() EffectType     { return EffectTextureChange }
func (u UnknownEffect) EffectType() EffectType   { return u.Type }

// DescriptorDocument is the JSON wire form of a descriptor. Every variant
// shares one flat object discriminated by effect_type; fields that do not
// apply to the variant are ignored. The struct is exported so tooling can
// reflect a schema from it.
type DescriptorDocument struct {
	EffectType EffectType `json:"effect_type" jsonschema:"title=Effect type,description=Discriminant selecting the renderer variant,required,minLength=1"`
	Gas        string     `json:"gas,omitempty" jsonschema:"description=Gas label (gas_production)"`
	Color      string     `json:"color,omitempty" jsonschema:"description=Hex color (#rgb #rrggbb #rrggbbaa) or color name"`
	Intensity  *float64   `json:"intensity,omitempty" jsonschema:"minimum=0,maximum=1,description=Strength of the effect (gas_production light_emission)"`
	Duration   float64    `json:"duration,omitempty" jsonschema:"minimum=0,description=Duration in seconds (gas_production light_emission)"`
	Radius     float64    `json:"radius,omitempty" jsonschema:"minimum=0,description=Glow radius in pixels (light_emission)"`
	Delta      float64    `json:"temperature_change,omitempty" jsonschema:"description=Signed temperature delta in degrees Celsius (temperature_change)"`
	Density    *float64   `json:"density,omitempty" jsonschema:"minimum=0,maximum=1,description=Foam density (foam_production)"`
	BubbleSize string     `json:"bubble_size,omitempty" jsonschema:"enum=small,enum=medium,enum=large,description=Foam bubble size (foam_production)"`
	Stability  float64    `json:"stability,omitempty" jsonschema:"minimum=0,description=Seconds the foam lasts (foam_production)"`
	FinalState string     `json:"final_state,omitempty" jsonschema:"description=State after the transition (state_change)"`
	Factor     float64    `json:"volume_change,omitempty" jsonschema:"minimum=0,description=Volume scale factor (volume_change)"`
	Amount     *float64   `json:"amount,omitempty" jsonschema:"minimum=0,maximum=1,description=Fraction of the contents spilled (spill)"`
	Spread     float64    `json:"spread,omitempty" jsonschema:"minimum=0,description=Spread radius in pixels (spill)"`
	Texture    string     `json:"texture,omitempty" jsonschema:"description=Texture label (texture_change)"`
	Viscosity  *float64   `json:"viscosity,omitempty" jsonschema:"minimum=0,maximum=1,description=Viscosity (texture_change)"`
}

// ParseDescriptors decodes a JSON array of descriptor documents.
func ParseDescriptors(data []byte) ([]Descriptor, error) {
	var docs []DescriptorDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	out := make([]Descriptor, 0, len(docs))
	for i, doc := range docs {
		d, err := doc.Descriptor()
		if err != nil {
			return nil, fmt.Errorf("descriptor %d: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// ParseDescriptor decodes a single JSON descriptor document.
func ParseDescriptor(data []byte) (Descriptor, error) {
	var doc DescriptorDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	return doc.Descriptor()
}

// Descriptor converts the document into its typed variant. Unit-interval
// fields are clamped; negative durations and malformed colors are errors.
// An unrecognized effect_type yields an UnknownEffect, not an error.
func (doc DescriptorDocument) Descriptor() (Descriptor, error) {
	tag := EffectType(strings.TrimSpace(string(doc.EffectType)))
	if tag == "" {
		return nil, fmt.Errorf("%w: missing effect_type", ErrInvalidDescriptor)
	}
	if err := doc.checkNonNegative(); err != nil {
		return nil, err
	}
	color, err := doc.color()
	if err != nil {
		return nil, err
	}

	switch tag {
	case EffectGasProduction:
		return GasProduction{
			Gas:       doc.Gas,
			Color:     color,
			Intensity: unit(doc.Intensity, 0.5),
			Duration:  doc.Duration,
		}, nil
	case EffectLightEmission:
		return LightEmission{
			Color:     color,
			Intensity: unit(doc.Intensity, 0.5),
			Radius:    doc.Radius,
			Duration:  doc.Duration,
		}, nil
	case EffectTemperatureChange:
		return TemperatureChange{Delta: doc.Delta}, nil
	case EffectFoamProduction:
		size, err := parseBubbleSize(doc.BubbleSize)
		if err != nil {
			return nil, err
		}
		return FoamProduction{
			Color:      color,
			Density:    unit(doc.Density, 0.5),
			BubbleSize: size,
			Stability:  doc.Stability,
		}, nil
	case EffectStateChange:
		return StateChange{FinalState: strings.ToLower(strings.TrimSpace(doc.FinalState))}, nil
	case EffectVolumeChange:
		factor := doc.Factor
		if factor == 0 {
			factor = 1
		}
		return VolumeChange{Factor: factor}, nil
	case EffectSpill:
		return Spill{
			Color:  color,
			Amount: unit(doc.Amount, 0.5),
			Spread: doc.Spread,
		}, nil
	case EffectTextureChange:
		return TextureChange{
			Texture:   strings.ToLower(strings.TrimSpace(doc.Texture)),
			Color:     color,
			Viscosity: unit(doc.Viscosity, 0.5),
		}, nil
	default:
		return UnknownEffect{Type: tag, Duration: doc.Duration}, nil
	}
}

func (doc DescriptorDocument) checkNonNegative() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"duration", doc.Duration},
		{"radius", doc.Radius},
		{"stability", doc.Stability},
		{"volume_change", doc.Factor},
		{"spread", doc.Spread},
	}
	var errs []error
	for _, f := range fields {
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			errs = append(errs, fmt.Errorf("%w: %s must be a non-negative number, got %v", ErrInvalidDescriptor, f.name, f.v))
		}
	}
	return errors.Join(errs...)
}

func (doc DescriptorDocument) color() (Color, error) {
	if doc.Color == "" {
		return ColorWhite, nil
	}
	c, err := ParseColor(doc.Color)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	return c, nil
}

func parseBubbleSize(s string) (BubbleSize, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "small":
		return BubbleSmall, nil
	case "", "medium":
		return BubbleMedium, nil
	case "large":
		return BubbleLarge, nil
	default:
		return 0, fmt.Errorf("%w: bubble_size %q", ErrInvalidDescriptor, s)
	}
}

// unit clamps an optional unit-interval field, substituting def when absent.
func unit(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return clamp01(*v)
}

// IsKnownEffectType reports whether t is one of the shipped variants.
func IsKnownEffectType(t EffectType) bool {
	for _, k := range KnownEffectTypes {
		if k == t {
			return true
		}
	}
	return false
}
