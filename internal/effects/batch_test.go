package effects

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpecEffect(t *testing.T) {
	tests := []struct {
		spec Spec
		want Effect
	}{
		{Spec{Type: "contrast", Intensity: 70}, Contrast{Intensity: 70}},
		{Spec{Type: "Saturation", Intensity: 20}, Saturation{Intensity: 20}},
		{Spec{Type: "skin-smooth", Intensity: 40}, SkinSmooth{Intensity: 40}},
		{Spec{Type: "hue", Degrees: 90}, HueShift{Degrees: 90}},
		{Spec{Type: "blur", Radius: 3}, Blur{Radius: 3}},
		{Spec{Type: "convolve", Kernel: "edge"}, Convolve{Kernel: "edge"}},
	}
	for _, tt := range tests {
		t.Run(tt.spec.Type, func(t *testing.T) {
			got, err := tt.spec.Effect()
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := Spec{Type: "sparkle"}.Effect()
	require.ErrorIs(t, err, ErrUnknownEffect)
	_, err = Spec{Type: "convolve"}.Effect()
	require.ErrorIs(t, err, ErrUnknownKernel)
}

func TestProcessorEffectsResolvesKernels(t *testing.T) {
	p := newTestProcessor()
	got, err := p.Effects([]Spec{{Type: "contrast", Intensity: 60}, {Type: "convolve", Kernel: "sharpen"}})
	require.NoError(t, err)
	require.Equal(t, []Effect{Contrast{Intensity: 60}, Convolve{Kernel: "sharpen"}}, got)

	_, err = p.Effects([]Spec{{Type: "blur", Radius: 1}, {Type: "convolve", Kernel: "bogus"}})
	require.ErrorIs(t, err, ErrUnknownKernel)
	require.Contains(t, err.Error(), "effect 1")

	require.NoError(t, p.RegisterKernel(Kernel{Name: "bogus", Weights: [9]float64{4: 1}, Divisor: 1}))
	_, err = p.Effects([]Spec{{Type: "convolve", Kernel: "bogus"}})
	require.NoError(t, err)
}

func TestParseSpec(t *testing.T) {
	s, err := ParseSpec("contrast:70")
	require.NoError(t, err)
	require.Equal(t, Spec{Type: "contrast", Intensity: 70}, s)

	s, err = ParseSpec("blur:4")
	require.NoError(t, err)
	require.Equal(t, 4.0, s.Radius)

	s, err = ParseSpec("hue:-30")
	require.NoError(t, err)
	require.Equal(t, -30.0, s.Degrees)

	s, err = ParseSpec("kernel:emboss")
	require.NoError(t, err)
	require.Equal(t, "emboss", s.Kernel)

	s, err = ParseSpec("vintage")
	require.NoError(t, err)
	require.Equal(t, 50.0, s.Intensity)

	_, err = ParseSpec("contrast:lots")
	require.Error(t, err)
	_, err = ParseSpec("glow:3")
	require.ErrorIs(t, err, ErrUnknownEffect)
}

func TestApplyBatchOrder(t *testing.T) {
	p := newTestProcessor()
	ctx := context.Background()
	src := noise(12, 12, 3)

	batch, err := p.ApplyBatch(ctx, src, []Effect{Contrast{Intensity: 70}, Saturation{Intensity: 20}})
	require.NoError(t, err)

	step, err := p.Contrast(ctx, src, 70)
	require.NoError(t, err)
	step, err = p.Saturation(ctx, step, 20)
	require.NoError(t, err)
	require.Equal(t, step.Pix, batch.Pix)

	empty, err := p.ApplyBatch(ctx, src, nil)
	require.NoError(t, err)
	require.Equal(t, src.Pix, empty.Pix)
	require.NotSame(t, src, empty)
}

func TestApplyBatchWrapsError(t *testing.T) {
	_, err := newTestProcessor().ApplyBatch(context.Background(), noise(4, 4, 1),
		[]Effect{Brightness{Intensity: 50}, Convolve{Kernel: "missing"}})
	require.ErrorIs(t, err, ErrUnknownKernel)
	require.Contains(t, err.Error(), "effect 1 (convolve)")
}

func TestApplyInRect(t *testing.T) {
	p := newTestProcessor()
	dst := solid(6, 6, color.NRGBA{R: 100, G: 100, B: 100, A: 255})

	err := p.ApplyInRect(context.Background(), dst, image.Rect(2, 2, 4, 10), Brightness{Intensity: 60})
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{R: 150, G: 150, B: 150, A: 255}, dst.At(2, 2))
	require.Equal(t, color.NRGBA{R: 150, G: 150, B: 150, A: 255}, dst.At(3, 5))
	require.Equal(t, color.NRGBA{R: 100, G: 100, B: 100, A: 255}, dst.At(1, 2))
	require.Equal(t, color.NRGBA{R: 100, G: 100, B: 100, A: 255}, dst.At(4, 4))

	// fully outside is a no-op
	require.NoError(t, p.ApplyInRect(context.Background(), dst, image.Rect(10, 10, 12, 12), Brightness{Intensity: 0}))
}
