package effects

import (
	"context"
	"image/color"
	"testing"

	"github.com/erinpentecost/canvasfx/internal/pixel"
	"github.com/stretchr/testify/require"
)

func TestBlendBoundaries(t *testing.T) {
	p := newTestProcessor()
	ctx := context.Background()
	base := noise(8, 6, 1)
	overlay := noise(8, 6, 2)

	out, err := p.Blend(ctx, base, overlay, 0)
	require.NoError(t, err)
	require.Equal(t, base.Pix, out.Pix)

	out, err = p.Blend(ctx, base, overlay, 1)
	require.NoError(t, err)
	for y := range base.Height {
		for x := range base.Width {
			got, want := out.At(x, y), overlay.At(x, y)
			require.Equal(t, want.R, got.R)
			require.Equal(t, want.G, got.G)
			require.Equal(t, want.B, got.B)
			require.Equal(t, base.At(x, y).A, got.A)
		}
	}
}

func TestBlendHalf(t *testing.T) {
	p := newTestProcessor()
	base := solid(1, 1, color.NRGBA{R: 0, G: 100, B: 200, A: 10})
	overlay := solid(1, 1, color.NRGBA{R: 100, G: 100, B: 0, A: 255})
	out, err := p.Blend(context.Background(), base, overlay, 0.5)
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{R: 50, G: 100, B: 100, A: 10}, out.At(0, 0))
}

func TestBlendShapeMismatch(t *testing.T) {
	_, err := newTestProcessor().Blend(context.Background(), pixel.New(2, 2), pixel.New(3, 2), 0.5)
	require.ErrorIs(t, err, pixel.ErrInvalidBufferShape)
}

func TestSkinSmooth(t *testing.T) {
	p := newTestProcessor()
	ctx := context.Background()
	src := noise(24, 24, 5)

	out, err := p.SkinSmooth(ctx, src, 0)
	require.NoError(t, err)
	require.Equal(t, src.Pix, out.Pix)

	out, err = p.SkinSmooth(ctx, src, 60)
	require.NoError(t, err)
	require.NotEqual(t, src.Pix, out.Pix)
	for y := range src.Height {
		for x := range src.Width {
			require.Equal(t, src.At(x, y).A, out.At(x, y).A)
		}
	}
}

func TestVintage(t *testing.T) {
	ctx := context.Background()
	src := noise(16, 40, 8)
	src.Set(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 0})

	a, err := New(WithSeed(99), WithWorkers(1)).Vintage(ctx, src, 80)
	require.NoError(t, err)
	b, err := New(WithSeed(99), WithWorkers(6)).Vintage(ctx, src, 80)
	require.NoError(t, err)
	require.Equal(t, a.Pix, b.Pix)

	for y := range a.Height {
		for x := range a.Width {
			require.GreaterOrEqual(t, a.At(x, y).A, byte(200))
		}
	}

	// strength 0: no sepia, no grain, only the alpha floor
	plain, err := New(WithSeed(1)).Vintage(ctx, src, 0)
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 200}, plain.At(0, 0))
	require.Equal(t, src.At(3, 3).R, plain.At(3, 3).R)
}

func TestHDR(t *testing.T) {
	p := newTestProcessor()
	ctx := context.Background()
	src := noise(10, 10, 6)

	out, err := p.HDR(ctx, src, 0)
	require.NoError(t, err)
	require.Equal(t, src.Pix, out.Pix)

	white := solid(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	out, err = p.HDR(ctx, white, 50)
	require.NoError(t, err)
	// 1/(1+0.5) of full scale; gray, so the contrast stretch is a no-op
	got := out.At(0, 0)
	require.InDelta(t, 170, int(got.R), 1)
	require.Equal(t, got.R, got.G)
	require.Equal(t, got.G, got.B)
	require.Equal(t, byte(255), got.A)
}
