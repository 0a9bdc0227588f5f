package postprocess

import (
	"context"

	"github.com/erinpentecost/canvasfx/internal/hue"
	"github.com/erinpentecost/canvasfx/internal/parallel"
	"github.com/erinpentecost/canvasfx/internal/pixel"
)

// ColorGrading scales each channel by its highlight multiplier and the
// overall contrast, then pushes channels away from (or toward) luminance by
// Saturation. Multipliers of 1 leave the frame unchanged.
type ColorGrading struct {
	Highlights [3]float64
	Contrast   float64
	Saturation float64
	Workers    int
}

// Identity reports whether the grade would not change any pixel.
func (g ColorGrading) Identity() bool {
	return g.Highlights == [3]float64{1, 1, 1} && g.Contrast == 1 && g.Saturation == 1
}

func (g ColorGrading) Process(ctx context.Context, src *pixel.Buffer) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	out := src.Clone()
	row := out.Width * 4
	err := parallel.Rows(ctx, out.Height, g.Workers, func(y0, y1 int) error {
		for i := y0 * row; i < y1*row; i += 4 {
			r := float64(out.Pix[i]) * g.Highlights[0] * g.Contrast
			gr := float64(out.Pix[i+1]) * g.Highlights[1] * g.Contrast
			b := float64(out.Pix[i+2]) * g.Highlights[2] * g.Contrast
			lum := hue.Luma(r, gr, b)
			out.Pix[i] = pixel.Clamp(lum + (r-lum)*g.Saturation)
			out.Pix[i+1] = pixel.Clamp(lum + (gr-lum)*g.Saturation)
			out.Pix[i+2] = pixel.Clamp(lum + (b-lum)*g.Saturation)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
