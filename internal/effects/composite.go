package effects

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/erinpentecost/canvasfx/internal/hue"
	"github.com/erinpentecost/canvasfx/internal/parallel"
	"github.com/erinpentecost/canvasfx/internal/pixel"
)

// Blend linearly interpolates the RGB channels of base toward overlay by
// opacity (clamped to [0, 1]). Alpha always comes from base.
func (p *Processor) Blend(ctx context.Context, base, overlay *pixel.Buffer, opacity float64) (*pixel.Buffer, error) {
	if err := pixel.SameShape(base, overlay); err != nil {
		return nil, fmt.Errorf("blend: %w", err)
	}
	opacity = pixel.Clamp01(opacity)
	out := base.Clone()
	row := out.Width * 4
	err := parallel.Rows(ctx, out.Height, p.workers, func(y0, y1 int) error {
		for i := y0 * row; i < y1*row; i += 4 {
			for c := range 3 {
				out.Pix[i+c] = pixel.Clamp(float64(base.Pix[i+c])*(1-opacity) + float64(overlay.Pix[i+c])*opacity)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SkinSmooth blurs by intensity*0.1, despeckles the blur at intensity*0.5
// and blends that back over the original at intensity/100.
func (p *Processor) SkinSmooth(ctx context.Context, src *pixel.Buffer, intensity float64) (*pixel.Buffer, error) {
	blurred, err := p.Blur(ctx, src, intensity*0.1)
	if err != nil {
		return nil, fmt.Errorf("skin smooth blur: %w", err)
	}
	smoothed, err := p.Denoise(ctx, blurred, intensity*0.5)
	if err != nil {
		return nil, fmt.Errorf("skin smooth denoise: %w", err)
	}
	return p.Blend(ctx, src, smoothed, intensity/100)
}

// vintageMinAlpha keeps aged prints from ever going transparent.
const vintageMinAlpha = 200

// Vintage blends toward sepia by intensity/100, adds film grain and lifts
// alpha to at least 200. Grain is seeded per row from the processor seed, so
// a given seed reproduces the same output at any worker count.
func (p *Processor) Vintage(ctx context.Context, src *pixel.Buffer, intensity float64) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	strength := intensity / 100
	out := src.Clone()
	row := out.Width * 4
	err := parallel.Rows(ctx, out.Height, p.workers, func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			rng := rand.New(rand.NewSource(p.seed + int64(y)))
			for i := y * row; i < (y+1)*row; i += 4 {
				vintagePixel(out.Pix[i:i+4:i+4], strength, rng)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func vintagePixel(px []byte, strength float64, rng *rand.Rand) {
	r, g, b := float64(px[0]), float64(px[1]), float64(px[2])

	tr := 0.393*r + 0.769*g + 0.189*b
	tg := 0.349*r + 0.686*g + 0.168*b
	tb := 0.272*r + 0.534*g + 0.131*b

	noise := (rng.Float64() - 0.5) * strength * 20

	px[0] = pixel.Clamp(r*(1-strength) + tr*strength + noise)
	px[1] = pixel.Clamp(g*(1-strength) + tg*strength + noise)
	px[2] = pixel.Clamp(b*(1-strength) + tb*strength + noise)
	px[3] = max(px[3], vintageMinAlpha)
}

// HDR compresses highlights Reinhard-style (c/(1+c*strength)) and then
// re-expands each channel around the pixel's luma to restore local contrast.
func (p *Processor) HDR(ctx context.Context, src *pixel.Buffer, intensity float64) (*pixel.Buffer, error) {
	strength := intensity / 100
	contrast := 1 + strength*0.5
	return p.perPixel(ctx, src, func(px []byte) {
		r := float64(px[0]) / 255
		g := float64(px[1]) / 255
		b := float64(px[2]) / 255

		hr := r / (1 + r*strength)
		hg := g / (1 + g*strength)
		hb := b / (1 + b*strength)

		lum := hue.Luma(hr, hg, hb)

		px[0] = pixel.Clamp((lum + (hr-lum)*contrast) * 255)
		px[1] = pixel.Clamp((lum + (hg-lum)*contrast) * 255)
		px[2] = pixel.Clamp((lum + (hb-lum)*contrast) * 255)
	})
}
