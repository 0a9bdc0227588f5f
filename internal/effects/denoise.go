package effects

import (
	"context"
	"math"
	"slices"

	"github.com/erinpentecost/canvasfx/internal/parallel"
	"github.com/erinpentecost/canvasfx/internal/pixel"
)

// Denoise is a 3x3 median despeckle over the RGB channels of interior pixels.
// A channel is replaced by the neighborhood median only when it differs from
// it by less than intensity*2.55, so strong edges survive while low-amplitude
// noise is flattened. The frame and alpha are copied.
func (p *Processor) Denoise(ctx context.Context, src *pixel.Buffer, intensity float64) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	out := src.Clone()
	w, h := src.Width, src.Height
	if w < 3 || h < 3 {
		return out, nil
	}
	threshold := intensity * 2.55

	err := parallel.Rows(ctx, h, p.workers, func(y0, y1 int) error {
		var samples [9]byte
		for y := max(y0, 1); y < min(y1, h-1); y++ {
			for x := 1; x < w-1; x++ {
				o := src.Offset(x, y)
				for c := range 3 {
					n := 0
					for ky := -1; ky <= 1; ky++ {
						for kx := -1; kx <= 1; kx++ {
							samples[n] = src.Pix[src.Offset(x+kx, y+ky)+c]
							n++
						}
					}
					slices.Sort(samples[:])
					median := samples[4]
					current := src.Pix[o+c]
					if math.Abs(float64(current)-float64(median)) < threshold {
						out.Pix[o+c] = median
					}
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
