package postprocess

import (
	"context"
	"fmt"
	"image"
	"math/bits"

	"github.com/erinpentecost/canvasfx/internal/pixel"
	"golang.org/x/image/draw"
)

// Resample scales the frame to Width x Height with Catmull-Rom filtering.
type Resample struct {
	Width  int
	Height int
}

func (r Resample) Process(ctx context.Context, src *pixel.Buffer) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("resample to %dx%d: %w", r.Width, r.Height, pixel.ErrInvalidBufferShape)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Scale(src, r.Width, r.Height), nil
}

// Scale returns src resized to width x height. Same-size input is copied.
func Scale(src *pixel.Buffer, width, height int) *pixel.Buffer {
	if src.Width == width && src.Height == height {
		return src.Clone()
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src.NRGBA(), src.Bounds(), draw.Src, nil)
	return &pixel.Buffer{Width: width, Height: height, Pix: dst.Pix}
}

// PowerOfTwo shrinks the frame by DownScaleFactor and stretches it onto the
// next power-of-two square, the shape most texture formats want.
type PowerOfTwo struct {
	DownScaleFactor int
}

func (p PowerOfTwo) Process(ctx context.Context, src *pixel.Buffer) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	factor := max(1, p.DownScaleFactor)
	side := int(nextPowerOfTwo(uint64(max(src.Width, src.Height) / factor)))
	return Resample{Width: side, Height: side}.Process(ctx, src)
}

func nextPowerOfTwo(n uint64) uint64 {
	if n == 0 {
		return 1
	}
	if n&(n-1) == 0 {
		return n
	}
	return 1 << bits.Len64(n)
}
