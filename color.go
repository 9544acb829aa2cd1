package reactfx

import (
	"encoding/json"
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// namedColors covers the color words a reaction collaborator commonly emits
// instead of hex codes.
var namedColors = map[string]string{
	"white":     "#ffffff",
	"black":     "#000000",
	"red":       "#e53935",
	"orange":    "#fb8c00",
	"yellow":    "#fdd835",
	"green":     "#43a047",
	"blue":      "#1e88e5",
	"purple":    "#8e24aa",
	"brown":     "#6d4c41",
	"gray":      "#9e9e9e",
	"grey":      "#9e9e9e",
	"colorless": "#e0f7fa",
	"clear":     "#e0f7fa",
	"pink":      "#ec407a",
	"cyan":      "#00acc1",
}

// ParseColor parses "#rrggbb", "#rgb", "#rrggbbaa", or a known color name.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	alpha := 1.0
	if len(s) == 9 && s[0] == '#' {
		var a uint8
		if _, err := fmt.Sscanf(s[7:], "%02x", &a); err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

// MustParseColor is ParseColor for package-level constants. Panics on error.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the color as "#rrggbb", dropping alpha.
func (c Color) Hex() string {
	return c.colorful().Clamped().Hex()
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

// BlendLab blends two colors in CIE-L*a*b* space, which keeps intermediate
// hues perceptually even. Alpha is interpolated linearly.
func BlendLab(a, b Color, t float64) Color {
	t = clamp01(t)
	m := a.colorful().BlendLab(b.colorful(), t).Clamped()
	return Color{R: m.R, G: m.G, B: m.B, A: Lerp(a.A, b.A, t)}
}

// Lighten moves the color toward white by amount in Lab space.
func (c Color) Lighten(amount float64) Color {
	return BlendLab(c, Color{1, 1, 1, c.A}, amount)
}

// MarshalJSON writes the color as a hex string.
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hex())
}

// UnmarshalJSON accepts any form ParseColor accepts.
func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
