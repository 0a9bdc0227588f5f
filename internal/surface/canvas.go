package surface

import (
	"fmt"
	"image"
	"image/color"

	"github.com/erinpentecost/canvasfx/internal/pixel"
	"github.com/fogleman/gg"
)

type drawState struct {
	op    BlendMode
	alpha float64
}

// Canvas is the software Surface backed by a pixel.Buffer.
type Canvas struct {
	buf   *pixel.Buffer
	state drawState
	stack []drawState
}

var _ Surface = (*Canvas)(nil)

// NewCanvas returns a transparent canvas.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		buf:   pixel.New(width, height),
		state: drawState{op: Normal, alpha: 1},
	}
}

// NewCanvasFrom returns a canvas initialized with a copy of b.
func NewCanvasFrom(b *pixel.Buffer) (*Canvas, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &Canvas{
		buf:   b.Clone(),
		state: drawState{op: Normal, alpha: 1},
	}, nil
}

func (c *Canvas) Size() (int, int) { return c.buf.Width, c.buf.Height }

// Buffer exposes the backing buffer without copying.
func (c *Canvas) Buffer() *pixel.Buffer { return c.buf }

func (c *Canvas) Save() {
	c.stack = append(c.stack, c.state)
}

func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Canvas) SetCompositeOperator(op BlendMode) {
	if !op.Valid() {
		op = Normal
	}
	c.state.op = op
}

// CompositeOperator returns the active operator.
func (c *Canvas) CompositeOperator() BlendMode { return c.state.op }

func (c *Canvas) SetGlobalAlpha(a float64) {
	c.state.alpha = pixel.Clamp01(a)
}

// GlobalAlpha returns the active global alpha.
func (c *Canvas) GlobalAlpha() float64 { return c.state.alpha }

func (c *Canvas) FillRect(r image.Rectangle, col color.Color) {
	n := color.NRGBAModel.Convert(col).(color.NRGBA)
	src := nrgbaToFloat(n)
	r = r.Intersect(c.buf.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c.composite(x, y, src)
		}
	}
}

func (c *Canvas) DrawGradient(g gg.Gradient, r image.Rectangle) {
	c.FillPattern(g, r)
}

func (c *Canvas) FillPattern(p gg.Pattern, r image.Rectangle) {
	r = r.Intersect(c.buf.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			n := color.NRGBAModel.Convert(p.ColorAt(x, y)).(color.NRGBA)
			c.composite(x, y, nrgbaToFloat(n))
		}
	}
}

func (c *Canvas) DrawImage(img image.Image, at image.Point) {
	b := img.Bounds()
	dst := image.Rectangle{Min: at, Max: at.Add(b.Size())}.Intersect(c.buf.Bounds())
	nrgba, straight := img.(*image.NRGBA)
	for y := dst.Min.Y; y < dst.Max.Y; y++ {
		for x := dst.Min.X; x < dst.Max.X; x++ {
			sx, sy := b.Min.X+x-at.X, b.Min.Y+y-at.Y
			var n color.NRGBA
			if straight {
				n = nrgba.NRGBAAt(sx, sy)
			} else {
				n = color.NRGBAModel.Convert(img.At(sx, sy)).(color.NRGBA)
			}
			c.composite(x, y, nrgbaToFloat(n))
		}
	}
}

// DrawBuffer draws a pixel buffer with its top-left corner at at.
func (c *Canvas) DrawBuffer(b *pixel.Buffer, at image.Point) {
	c.DrawImage(b.NRGBA(), at)
}

func (c *Canvas) GetPixels() *pixel.Buffer {
	return c.buf.Clone()
}

func (c *Canvas) PutPixels(b *pixel.Buffer) error {
	if err := pixel.SameShape(c.buf, b); err != nil {
		return fmt.Errorf("put pixels: %w", err)
	}
	copy(c.buf.Pix, b.Pix)
	return nil
}

func (c *Canvas) composite(x, y int, src [4]float64) {
	src[3] *= c.state.alpha
	if src[3] <= 0 {
		return
	}
	i := c.buf.Offset(x, y)
	px := c.buf.Pix[i : i+4 : i+4]
	dst := [4]float64{
		float64(px[0]) / 255,
		float64(px[1]) / 255,
		float64(px[2]) / 255,
		float64(px[3]) / 255,
	}
	out := c.state.op.Composite(dst, src)
	for ch := range 4 {
		px[ch] = pixel.Clamp(out[ch] * 255)
	}
}

func nrgbaToFloat(n color.NRGBA) [4]float64 {
	return [4]float64{
		float64(n.R) / 255,
		float64(n.G) / 255,
		float64(n.B) / 255,
		float64(n.A) / 255,
	}
}
