// Package hue converts between RGB and HSL and provides the luminance
// weights the pixel operations share.
package hue

import "math"

// HSL represents a color in HSL color space.
type HSL struct {
	H, S, L float64 // Hue (0–1, fraction of a turn), Saturation (0–1), Lightness (0–1)
}

// Rec. 601 luma weights.
const (
	LumaR = 0.299
	LumaG = 0.587
	LumaB = 0.114
)

// Luma returns the Rec. 601 weighted luminance of an RGB triple, in the same
// scale as its inputs.
func Luma(r, g, b float64) float64 {
	return LumaR*r + LumaG*g + LumaB*b
}

// FromRGB converts 8-bit RGB to HSL.
func FromRGB(r8, g8, b8 uint8) HSL {
	r := float64(r8) / 255.0
	g := float64(g8) / 255.0
	b := float64(b8) / 255.0

	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l := (max + min) / 2

	// achromatic
	if max == min {
		return HSL{H: 0, S: 0, L: l}
	}

	delta := max - min
	var s float64
	if l > 0.5 {
		s = delta / (2 - max - min)
	} else {
		s = delta / (max + min)
	}

	var h float64
	switch max {
	case r:
		h = (g - b) / delta
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/delta + 2
	default:
		h = (r-g)/delta + 4
	}
	h /= 6

	return HSL{H: h, S: s, L: l}
}

// Rotate returns hsl with its hue advanced by degrees, wrapped into [0, 1).
func (hsl HSL) Rotate(degrees float64) HSL {
	h := math.Mod(hsl.H+degrees/360, 1)
	if h < 0 {
		h++
	}
	hsl.H = h
	return hsl
}

// RGB converts back to 8-bit RGB, rounding to nearest.
func (hsl HSL) RGB() (r, g, b uint8) {
	if hsl.S == 0 {
		v := to8(hsl.L)
		return v, v, v
	}

	l, s, h := hsl.L, hsl.S, hsl.H
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	return to8(hue2rgb(p, q, h+1.0/3)), to8(hue2rgb(p, q, h)), to8(hue2rgb(p, q, h-1.0/3))
}

func hue2rgb(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2 {
		return q
	}
	if t < 2.0/3 {
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

func to8(v float64) uint8 {
	v = math.Round(v * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
