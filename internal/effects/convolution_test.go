package effects

import (
	"context"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSharpenAllWhite(t *testing.T) {
	p := newTestProcessor()
	white := solid(3, 3, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	out, err := p.Convolve(context.Background(), white, "sharpen")
	require.NoError(t, err)
	require.Equal(t, white.Pix, out.Pix)
}

func TestConvolveBorderCopied(t *testing.T) {
	p := newTestProcessor()
	src := noise(6, 5, 11)

	out, err := p.Convolve(context.Background(), src, "edge")
	require.NoError(t, err)
	require.Equal(t, src.Width, out.Width)
	require.Equal(t, src.Height, out.Height)
	for x := range src.Width {
		require.Equal(t, src.At(x, 0), out.At(x, 0))
		require.Equal(t, src.At(x, src.Height-1), out.At(x, src.Height-1))
	}
	for y := range src.Height {
		require.Equal(t, src.At(0, y), out.At(0, y))
		require.Equal(t, src.At(src.Width-1, y), out.At(src.Width-1, y))
	}
	// alpha is never convolved
	for y := range src.Height {
		for x := range src.Width {
			require.Equal(t, src.At(x, y).A, out.At(x, y).A)
		}
	}
}

func TestConvolveBoxBlur(t *testing.T) {
	p := newTestProcessor()
	src := solid(3, 3, color.NRGBA{A: 255})
	src.Set(1, 1, color.NRGBA{R: 90, A: 255})

	out, err := p.Convolve(context.Background(), src, "blur")
	require.NoError(t, err)
	require.Equal(t, byte(10), out.At(1, 1).R)
}

func TestEmbossOffset(t *testing.T) {
	p := newTestProcessor()
	flat := solid(3, 3, color.NRGBA{R: 40, G: 40, B: 40, A: 255})

	// emboss weights sum to 1, so a flat field maps to value+offset
	out, err := p.Convolve(context.Background(), flat, "emboss")
	require.NoError(t, err)
	require.Equal(t, byte(168), out.At(1, 1).R)
}

func TestUnknownKernel(t *testing.T) {
	p := newTestProcessor()
	_, err := p.Convolve(context.Background(), solid(3, 3, color.NRGBA{}), "nope")
	require.ErrorIs(t, err, ErrUnknownKernel)
}

func TestRegisterKernel(t *testing.T) {
	p := newTestProcessor()
	require.ErrorIs(t, p.RegisterKernel(Kernel{Name: "zero"}), ErrZeroDivisor)

	identity := Kernel{Name: "identity", Weights: [9]float64{0, 0, 0, 0, 1, 0, 0, 0, 0}, Divisor: 1}
	require.NoError(t, p.RegisterKernel(identity))
	require.Contains(t, p.Kernels().Names(), "identity")

	src := noise(5, 5, 1)
	out, err := p.Convolve(context.Background(), src, "identity")
	require.NoError(t, err)
	require.Equal(t, src.Pix, out.Pix)
}

func TestConvolveTinyImage(t *testing.T) {
	p := newTestProcessor()
	src := noise(2, 7, 5)
	out, err := p.Convolve(context.Background(), src, "sharpen")
	require.NoError(t, err)
	require.Equal(t, src.Pix, out.Pix)
}
