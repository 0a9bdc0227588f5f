// Package procedural draws the generated content layered over renders:
// gradient ramps, particle fields and tiling material textures.
package procedural

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/erinpentecost/canvasfx/internal/pixel"
	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned for color strings that are not #rgb, #rrggbb or
// #rrggbbaa.
var ErrInvalidColor = errors.New("invalid color")

// ParseColor reads a hex color. The leading '#' is optional and an eight digit
// form carries alpha in its last byte.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	alpha := uint8(255)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("color %q: %w", s, ErrInvalidColor)
		}
		alpha = uint8(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", s, ErrInvalidColor)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// MustColor is ParseColor for literals known to be valid.
func MustColor(s string) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// WithAlpha returns c with its alpha replaced by a in [0, 1].
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = pixel.Clamp(pixel.Clamp01(a) * 255)
	return c
}

// Scale multiplies the color channels of c by f, leaving alpha.
func Scale(c color.NRGBA, f float64) color.NRGBA {
	return color.NRGBA{
		R: pixel.Clamp(float64(c.R) * f),
		G: pixel.Clamp(float64(c.G) * f),
		B: pixel.Clamp(float64(c.B) * f),
		A: c.A,
	}
}

// Mix blends a towards b by t in RGB space. Alpha is interpolated linearly.
func Mix(a, b color.NRGBA, t float64) color.NRGBA {
	t = pixel.Clamp01(t)
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	r, g, bl := ca.BlendRgb(cb, t).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: bl, A: pixel.Clamp(float64(a.A) + (float64(b.A)-float64(a.A))*t)}
}

// Kelvin approximates the color of a black body at the given temperature.
// Temperatures are limited to [1000, 40000].
func Kelvin(k float64) color.NRGBA {
	t := math.Max(1000, math.Min(40000, k)) / 100
	var r, g, b float64
	if t <= 66 {
		r = 255
		g = 99.4708025861*math.Log(t) - 161.1195681661
	} else {
		r = 329.698727446 * math.Pow(t-60, -0.1332047592)
		g = 288.1221695283 * math.Pow(t-60, -0.0755148492)
	}
	switch {
	case t >= 66:
		b = 255
	case t <= 19:
		b = 0
	default:
		b = 138.5177312231*math.Log(t-10) - 305.0447927307
	}
	return color.NRGBA{R: pixel.Clamp(r), G: pixel.Clamp(g), B: pixel.Clamp(b), A: 255}
}

// Tint pulls c towards the black-body color of kelvin by amount.
func Tint(c color.NRGBA, kelvin, amount float64) color.NRGBA {
	if kelvin <= 0 || amount <= 0 {
		return c
	}
	k := Kelvin(kelvin)
	// multiply so white takes the full light color and black stays black
	lit := color.NRGBA{
		R: uint8(uint16(c.R) * uint16(k.R) / 255),
		G: uint8(uint16(c.G) * uint16(k.G) / 255),
		B: uint8(uint16(c.B) * uint16(k.B) / 255),
		A: c.A,
	}
	return Mix(c, lit, amount)
}
