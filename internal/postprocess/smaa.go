package postprocess

import (
	"context"
	"math"

	"github.com/erinpentecost/canvasfx/internal/parallel"
	"github.com/erinpentecost/canvasfx/internal/pixel"
)

/*
SMAA, CPU edition:

1. Edge detection
   - luma difference across the horizontal and vertical neighbors

2. Blend weights
   - walk each edge to find its span, longer spans blend more

3. Neighborhood blending
   - mix each pixel with the next pixel across its edges by weight
*/

const (
	smaaLumaThreshold = 0.1
	smaaMaxSearch     = 8
)

// SMAA smooths jagged luma edges.
type SMAA struct {
	Workers int
}

func (s SMAA) Process(ctx context.Context, src *pixel.Buffer) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	w, h := src.Width, src.Height
	edgesH := make([]float32, w*h)
	edgesV := make([]float32, w*h)
	if err := parallel.Rows(ctx, h, s.Workers, func(y0, y1 int) error {
		detectEdges(src, edgesH, edgesV, y0, y1)
		return nil
	}); err != nil {
		return nil, err
	}

	weightsH := make([]float32, w*h)
	weightsV := make([]float32, w*h)
	if err := parallel.Rows(ctx, h, s.Workers, func(y0, y1 int) error {
		for y := y0; y < y1; y++ {
			for x := range w {
				i := y*w + x
				if edgesH[i] > 0 {
					weightsH[i] = spanWeight(searchSpan(edgesH, x, y, 0, 1, w, h))
				}
				if edgesV[i] > 0 {
					weightsV[i] = spanWeight(searchSpan(edgesV, x, y, 1, 0, w, h))
				}
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	out := pixel.New(w, h)
	if err := parallel.Rows(ctx, h, s.Workers, func(y0, y1 int) error {
		neighborBlend(src, out, weightsH, weightsV, y0, y1)
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

func detectEdges(img *pixel.Buffer, edgesH, edgesV []float32, y0, y1 int) {
	w, h := img.Width, img.Height
	for y := max(1, y0); y < min(h-1, y1); y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			if math.Abs(float64(lumaAt(img, x-1, y)-lumaAt(img, x+1, y))) > smaaLumaThreshold {
				edgesV[i] = 1
			}
			if math.Abs(float64(lumaAt(img, x, y-1)-lumaAt(img, x, y+1))) > smaaLumaThreshold {
				edgesH[i] = 1
			}
		}
	}
}

func searchSpan(edges []float32, x, y, dx, dy, w, h int) int {
	span := 0
	for i := 1; i <= smaaMaxSearch; i++ {
		nx, ny := x+dx*i, y+dy*i
		if nx < 0 || ny < 0 || nx >= w || ny >= h || edges[ny*w+nx] == 0 {
			break
		}
		span++
	}
	return span
}

func spanWeight(span int) float32 {
	return min(1, float32(span)/smaaMaxSearch)
}

func neighborBlend(src, dst *pixel.Buffer, weightsH, weightsV []float32, y0, y1 int) {
	w, h := src.Width, src.Height
	for y := y0; y < y1; y++ {
		for x := range w {
			i := y*w + x
			var acc [4]float32
			si := src.Offset(x, y)
			for c := range 4 {
				acc[c] = float32(src.Pix[si+c])
			}
			total := float32(1)
			if wt := weightsH[i]; wt > 0 && y+1 < h {
				ni := src.Offset(x, y+1)
				for c := range 4 {
					acc[c] += float32(src.Pix[ni+c]) * wt
				}
				total += wt
			}
			if wt := weightsV[i]; wt > 0 && x+1 < w {
				ni := src.Offset(x+1, y)
				for c := range 4 {
					acc[c] += float32(src.Pix[ni+c]) * wt
				}
				total += wt
			}
			for c := range 4 {
				dst.Pix[si+c] = pixel.Clamp(float64(acc[c] / total))
			}
		}
	}
}

// lumaAt uses Rec. 709 weights.
func lumaAt(img *pixel.Buffer, x, y int) float32 {
	i := img.Offset(x, y)
	return (0.2126*float32(img.Pix[i]) +
		0.7152*float32(img.Pix[i+1]) +
		0.0722*float32(img.Pix[i+2])) / 255
}
