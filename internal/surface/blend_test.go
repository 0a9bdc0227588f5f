package surface

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBlendMode(t *testing.T) {
	for _, m := range BlendModes() {
		got, err := ParseBlendMode(m.String())
		require.NoError(t, err)
		require.Equal(t, m, got)
	}
	got, err := ParseBlendMode("source-over")
	require.NoError(t, err)
	require.Equal(t, Normal, got)

	got, err = ParseBlendMode("Soft_Light")
	require.NoError(t, err)
	require.Equal(t, SoftLight, got)

	_, err = ParseBlendMode("luminosity")
	require.ErrorIs(t, err, ErrUnknownBlendMode)
	require.Len(t, BlendModes(), 12)
}

func TestBlendModeText(t *testing.T) {
	var m BlendMode
	require.NoError(t, m.UnmarshalText([]byte("color-dodge")))
	require.Equal(t, ColorDodge, m)
	b, err := Exclusion.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "exclusion", string(b))
	_, err = BlendMode(99).MarshalText()
	require.ErrorIs(t, err, ErrUnknownBlendMode)
}

func TestBlendFunctions(t *testing.T) {
	tests := []struct {
		mode   BlendMode
		cb, cs float64
		want   float64
	}{
		{Normal, 0.2, 0.7, 0.7},
		{Multiply, 0.5, 0.5, 0.25},
		{Screen, 0.5, 0.5, 0.75},
		{Overlay, 0.25, 0.5, 0.25},
		{Overlay, 0.75, 0.5, 0.75},
		{HardLight, 0.5, 0.25, 0.25},
		{SoftLight, 0.5, 0.5, 0.5},
		{ColorDodge, 0.5, 0.5, 1},
		{ColorDodge, 0, 0.9, 0},
		{ColorBurn, 0.5, 0.5, 0},
		{ColorBurn, 1, 0.1, 1},
		{Darken, 0.3, 0.6, 0.3},
		{Lighten, 0.3, 0.6, 0.6},
		{Difference, 0.3, 0.6, 0.3},
		{Exclusion, 0.5, 0.5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			require.InDelta(t, tt.want, tt.mode.Blend(tt.cb, tt.cs), 1e-9)
		})
	}
}

func TestCompositeAlpha(t *testing.T) {
	dst := [4]float64{0.2, 0.4, 0.6, 1}
	src := [4]float64{1, 1, 1, 1}

	// opaque normal source replaces the backdrop
	require.Equal(t, src, Normal.Composite(dst, src))

	// transparent source leaves it alone
	require.Equal(t, dst, Multiply.Composite(dst, [4]float64{1, 0, 0, 0}))

	// source over an empty backdrop is the source, whatever the mode
	out := Multiply.Composite([4]float64{}, [4]float64{0.3, 0.6, 0.9, 0.5})
	require.InDelta(t, 0.3, out[0], 1e-9)
	require.InDelta(t, 0.5, out[3], 1e-9)

	out = Normal.Composite(dst, [4]float64{1, 1, 1, 0.5})
	require.InDelta(t, 0.6, out[0], 1e-9)
	require.InDelta(t, 1.0, out[3], 1e-9)
}
