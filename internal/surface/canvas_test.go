package surface

import (
	"image"
	"image/color"
	"testing"

	"github.com/erinpentecost/canvasfx/internal/pixel"
	"github.com/fogleman/gg"
	"github.com/stretchr/testify/require"
)

func TestCanvasFillRect(t *testing.T) {
	c := NewCanvas(4, 4)
	c.FillRect(image.Rect(0, 0, 4, 4), color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	c.FillRect(image.Rect(1, 1, 10, 10), color.NRGBA{R: 0, G: 0, B: 255, A: 255})

	px := c.GetPixels()
	require.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 255}, px.At(0, 0))
	require.Equal(t, color.NRGBA{B: 255, A: 255}, px.At(3, 3))
}

func TestCanvasOperatorAndAlpha(t *testing.T) {
	c := NewCanvas(1, 1)
	c.FillRect(image.Rect(0, 0, 1, 1), color.NRGBA{R: 200, G: 200, B: 200, A: 255})

	c.Save()
	c.SetCompositeOperator(Multiply)
	c.SetGlobalAlpha(1)
	c.FillRect(image.Rect(0, 0, 1, 1), color.NRGBA{R: 128, G: 255, B: 0, A: 255})
	c.Restore()
	require.Equal(t, Normal, c.CompositeOperator())

	got := c.GetPixels().At(0, 0)
	require.InDelta(t, 100, int(got.R), 1)
	require.Equal(t, byte(200), got.G)
	require.Equal(t, byte(0), got.B)

	c.SetGlobalAlpha(0.5)
	c.FillRect(image.Rect(0, 0, 1, 1), color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	got = c.GetPixels().At(0, 0)
	require.InDelta(t, 178, int(got.R), 1)
	require.Equal(t, byte(255), got.A)
}

func TestCanvasGradient(t *testing.T) {
	c := NewCanvas(11, 2)
	g := gg.NewLinearGradient(0, 0, 10, 0)
	g.AddColorStop(0, color.Black)
	g.AddColorStop(1, color.White)
	c.DrawGradient(g, image.Rect(0, 0, 11, 2))

	px := c.GetPixels()
	require.Equal(t, byte(0), px.At(0, 0).R)
	require.Equal(t, byte(255), px.At(10, 1).R)
	require.InDelta(t, 127, int(px.At(5, 0).R), 2)
}

func TestCanvasDrawImageClips(t *testing.T) {
	c := NewCanvas(3, 3)
	src := pixel.New(2, 2)
	src.Fill(color.NRGBA{R: 9, A: 255})
	c.DrawBuffer(src, image.Pt(2, 2))

	px := c.GetPixels()
	require.Equal(t, color.NRGBA{R: 9, A: 255}, px.At(2, 2))
	require.Equal(t, color.NRGBA{}, px.At(1, 1))
}

func TestCanvasPutPixels(t *testing.T) {
	c := NewCanvas(2, 2)
	require.ErrorIs(t, c.PutPixels(pixel.New(3, 2)), pixel.ErrInvalidBufferShape)

	b := pixel.New(2, 2)
	b.Fill(color.NRGBA{G: 7, A: 1})
	require.NoError(t, c.PutPixels(b))
	require.Equal(t, b.Pix, c.GetPixels().Pix)

	// GetPixels is a copy
	c.GetPixels().Pix[0] = 99
	require.Equal(t, byte(0), c.Buffer().Pix[0])
}
