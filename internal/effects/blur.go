package effects

import (
	"context"
	"math"

	"github.com/erinpentecost/canvasfx/internal/parallel"
	"github.com/erinpentecost/canvasfx/internal/pixel"
)

// GaussianKernel returns 2*radius+1 weights with sigma = radius/3, summing
// to 1. A radius below 1 yields the single weight {1}.
func GaussianKernel(radius int) []float64 {
	if radius < 1 {
		return []float64{1}
	}
	sigma := float64(radius) / 3
	twoSigmaSq := 2 * sigma * sigma
	kernel := make([]float64, 2*radius+1)
	var sum float64
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-(d * d) / twoSigmaSq)
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// Blur applies a two-pass separable Gaussian blur to all four channels.
// Samples past the edge are clamped to the nearest edge pixel. The radius is
// rounded to the nearest integer; a radius of 0 or less returns an identical
// copy.
func (p *Processor) Blur(ctx context.Context, src *pixel.Buffer, radius float64) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	r := int(math.Round(radius))
	if r <= 0 || src.Width == 0 || src.Height == 0 {
		return src.Clone(), nil
	}

	w, h := src.Width, src.Height
	kernel := GaussianKernel(r)
	tmp := make([]float64, w*h*4)

	// horizontal: src -> tmp
	err := parallel.Rows(ctx, h, p.workers, func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				var acc [4]float64
				var weightSum float64
				for i, wt := range kernel {
					sx := min(max(x+i-r, 0), w-1)
					o := src.Offset(sx, y)
					acc[0] += float64(src.Pix[o]) * wt
					acc[1] += float64(src.Pix[o+1]) * wt
					acc[2] += float64(src.Pix[o+2]) * wt
					acc[3] += float64(src.Pix[o+3]) * wt
					weightSum += wt
				}
				o := (y*w + x) * 4
				for c := range 4 {
					tmp[o+c] = acc[c] / weightSum
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// vertical: tmp -> out
	out := pixel.New(w, h)
	err = parallel.Rows(ctx, h, p.workers, func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				var acc [4]float64
				var weightSum float64
				for i, wt := range kernel {
					sy := min(max(y+i-r, 0), h-1)
					o := (sy*w + x) * 4
					acc[0] += tmp[o] * wt
					acc[1] += tmp[o+1] * wt
					acc[2] += tmp[o+2] * wt
					acc[3] += tmp[o+3] * wt
					weightSum += wt
				}
				o := out.Offset(x, y)
				for c := range 4 {
					out.Pix[o+c] = pixel.Clamp(acc[c] / weightSum)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
