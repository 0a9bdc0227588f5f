package postprocess

import (
	"context"

	"github.com/erinpentecost/canvasfx/internal/effects"
	"github.com/erinpentecost/canvasfx/internal/pixel"
)

// DepthOfField blurs the whole frame uniformly. There is no depth buffer, so
// every pixel is treated as equally out of focus.
type DepthOfField struct {
	Effects *effects.Processor
	Radius  float64
}

// DepthOfFieldRadius maps focus distance and bokeh intensity (both 0-1) to a
// blur radius in pixels. Perfect focus gives 0.
func DepthOfFieldRadius(focusDistance, bokehIntensity float64) float64 {
	return (1 - pixel.Clamp01(focusDistance)) * bokehIntensity * 10
}

func (d DepthOfField) Process(ctx context.Context, src *pixel.Buffer) (*pixel.Buffer, error) {
	if d.Radius <= 0 || d.Effects == nil {
		if err := src.Validate(); err != nil {
			return nil, err
		}
		return src.Clone(), nil
	}
	return d.Effects.Blur(ctx, src, d.Radius)
}
