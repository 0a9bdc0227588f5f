package procedural

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#ff8000", color.NRGBA{R: 255, G: 128, A: 255}},
		{"00ff00", color.NRGBA{G: 255, A: 255}},
		{"#fff", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"#10203080", color.NRGBA{R: 16, G: 32, B: 48, A: 128}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
	_, err := ParseColor("#zzzzzz")
	require.ErrorIs(t, err, ErrInvalidColor)
	_, err = ParseColor("red")
	require.ErrorIs(t, err, ErrInvalidColor)
}

func TestKelvin(t *testing.T) {
	warm := Kelvin(2000)
	cool := Kelvin(10000)
	require.Equal(t, byte(255), warm.R)
	require.Less(t, warm.B, cool.B)
	require.Less(t, cool.R, warm.R)

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	require.Equal(t, white, Tint(white, 0, 1))
	tinted := Tint(white, 2000, 1)
	require.Equal(t, warm.B, tinted.B)
}

func TestMix(t *testing.T) {
	a := color.NRGBA{A: 255}
	b := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	require.Equal(t, a, Mix(a, b, 0))
	require.Equal(t, b, Mix(a, b, 1))
	require.InDelta(t, 128, int(Mix(a, b, 0.5).R), 1)
}

func TestEvenStops(t *testing.T) {
	stops, err := EvenStops([]string{"#000000", "#808080", "#ffffff"})
	require.NoError(t, err)
	require.Len(t, stops, 3)
	require.Equal(t, 0.5, stops[1].Offset)

	stops, err = EvenStops([]string{"#123456"})
	require.NoError(t, err)
	require.Len(t, stops, 2)
	require.Equal(t, stops[0].Color, stops[1].Color)

	_, err = EvenStops([]string{"#000000", "nope"})
	require.ErrorIs(t, err, ErrInvalidColor)
}

func TestRadialGradientEnds(t *testing.T) {
	g := RadialGradient(50, 50, 0, 40,
		Stop{0, color.NRGBA{R: 255, A: 255}},
		Stop{1, color.NRGBA{B: 255, A: 255}},
	)
	center := color.NRGBAModel.Convert(g.ColorAt(50, 50)).(color.NRGBA)
	far := color.NRGBAModel.Convert(g.ColorAt(99, 99)).(color.NRGBA)
	require.Greater(t, center.R, center.B)
	require.Equal(t, byte(255), far.B)
}

func TestParticlesDeterministic(t *testing.T) {
	cfg := ParticleConfig{Type: Dust, Density: 0.5, Color: "#ffffff"}
	a, err := Particles(64, 64, cfg, 40, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	b, err := Particles(64, 64, cfg, 40, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	require.Equal(t, a.Pix, b.Pix)

	painted := 0
	for i := 3; i < len(a.Pix); i += 4 {
		if a.Pix[i] > 0 {
			painted++
		}
	}
	require.Positive(t, painted)

	_, err = Particles(8, 8, ParticleConfig{Type: "rain"}, 1, rand.New(rand.NewSource(1)))
	require.ErrorIs(t, err, ErrUnknownParticle)
}

func TestStarFillsCenter(t *testing.T) {
	dc := gg.NewContext(20, 20)
	dc.SetRGB(1, 1, 1)
	Star(dc, 10, 10, 8, 3, 4)
	dc.Fill()
	_, _, _, a := dc.Image().At(10, 10).RGBA()
	require.Equal(t, uint32(0xffff), a)
	_, _, _, a = dc.Image().At(1, 1).RGBA()
	require.Zero(t, a)
}

func TestCount(t *testing.T) {
	require.Equal(t, 50, Count(0.5, 1))
	require.Equal(t, 0, Count(0.5, 0))
	require.Equal(t, 100, Count(3, 1))
}

func TestMaterialTiles(t *testing.T) {
	for _, m := range Materials() {
		t.Run(string(m), func(t *testing.T) {
			tile, err := MaterialTile(m, rand.New(rand.NewSource(3)))
			require.NoError(t, err)
			require.Equal(t, TileSize, tile.Bounds().Dx())
			_, _, _, a := tile.At(TileSize/2, TileSize/2).RGBA()
			require.Equal(t, uint32(0xffff), a)
		})
	}
	_, err := MaterialPattern("velvet", nil)
	require.ErrorIs(t, err, ErrUnknownMaterial)
}
