package effects

import (
	"context"

	"github.com/erinpentecost/canvasfx/internal/hue"
	"github.com/erinpentecost/canvasfx/internal/pixel"
)

// Brightness shifts RGB by (intensity-50)*5. Alpha is untouched.
func (p *Processor) Brightness(ctx context.Context, src *pixel.Buffer, intensity float64) (*pixel.Buffer, error) {
	delta := (intensity - 50) * 5
	return p.perPixel(ctx, src, func(px []byte) {
		px[0] = pixel.Clamp(float64(px[0]) + delta)
		px[1] = pixel.Clamp(float64(px[1]) + delta)
		px[2] = pixel.Clamp(float64(px[2]) + delta)
	})
}

// ContrastFactor maps a 0–100 intensity to the multiplier applied around 128.
// 50 is the identity; 0 collapses to mid-gray and 100 saturates.
func ContrastFactor(intensity float64) float64 {
	c := (intensity/50 - 1) * 255
	return 259 * (c + 255) / (255 * (259 - c))
}

// Contrast scales RGB away from (or toward) 128.
func (p *Processor) Contrast(ctx context.Context, src *pixel.Buffer, intensity float64) (*pixel.Buffer, error) {
	factor := ContrastFactor(intensity)
	return p.perPixel(ctx, src, func(px []byte) {
		px[0] = pixel.Clamp(factor*(float64(px[0])-128) + 128)
		px[1] = pixel.Clamp(factor*(float64(px[1])-128) + 128)
		px[2] = pixel.Clamp(factor*(float64(px[2])-128) + 128)
	})
}

// Saturation blends each channel with the pixel's luma by intensity/50.
func (p *Processor) Saturation(ctx context.Context, src *pixel.Buffer, intensity float64) (*pixel.Buffer, error) {
	sat := intensity / 50
	return p.perPixel(ctx, src, func(px []byte) {
		r, g, b := float64(px[0]), float64(px[1]), float64(px[2])
		gray := hue.Luma(r, g, b)
		px[0] = pixel.Clamp(gray + sat*(r-gray))
		px[1] = pixel.Clamp(gray + sat*(g-gray))
		px[2] = pixel.Clamp(gray + sat*(b-gray))
	})
}

// HueShift rotates every pixel's hue by degrees.
func (p *Processor) HueShift(ctx context.Context, src *pixel.Buffer, degrees float64) (*pixel.Buffer, error) {
	return p.perPixel(ctx, src, func(px []byte) {
		px[0], px[1], px[2] = hue.FromRGB(px[0], px[1], px[2]).Rotate(degrees).RGB()
	})
}
