package postprocess

import (
	"context"
	"math"

	"github.com/erinpentecost/canvasfx/internal/parallel"
	"github.com/erinpentecost/canvasfx/internal/pixel"
)

const defaultVignetteDistance = 128.0

// Vignette darkens the outer band of the frame. Inside the band the
// darkening falls off with the cube of the distance from the nearest edge,
// so the border pixels lose Strength of their brightness and the interior
// is untouched. Alpha is kept.
type Vignette struct {
	Strength float64
	// Distance is the band width in pixels; zero means 128. It never exceeds
	// half the shorter side.
	Distance float64
	Workers  int
}

func (v Vignette) Process(ctx context.Context, src *pixel.Buffer) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	out := src.Clone()
	strength := pixel.Clamp01(v.Strength)
	band := v.Distance
	if band <= 0 {
		band = defaultVignetteDistance
	}
	band = math.Min(band, math.Min(float64(src.Width)/2, float64(src.Height)/2))
	if strength == 0 || band < 1 {
		return out, nil
	}

	err := parallel.Rows(ctx, out.Height, v.Workers, func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			distY := math.Min(float64(y), float64(out.Height-1-y))
			for x := range out.Width {
				distX := math.Min(float64(x), float64(out.Width-1-x))
				d := math.Min(distX, distY)
				if d >= band {
					continue
				}
				f := 1 - d/band
				keep := 1 - strength*f*f*f
				i := out.Offset(x, y)
				for c := range 3 {
					out.Pix[i+c] = pixel.Clamp(float64(out.Pix[i+c]) * keep)
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
