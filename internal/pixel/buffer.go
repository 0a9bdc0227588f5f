// Package pixel holds the RGBA8 pixel buffer every transform in canvasfx
// consumes and produces.
package pixel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// ErrInvalidBufferShape is returned when a buffer's pixel slice does not match
// its declared dimensions, or when two buffers that must agree in size do not.
var ErrInvalidBufferShape = errors.New("invalid buffer shape")

// Buffer is a row-major RGBA8 image with straight (non-premultiplied) alpha.
// The Pix layout is identical to image.NRGBA with a stride of Width*4.
type Buffer struct {
	Width  int
	Height int
	Pix    []byte
}

// New returns a zeroed (transparent black) buffer.
func New(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

// Wrap validates pix against the given dimensions and returns a buffer that
// shares it.
func Wrap(width, height int, pix []byte) (*Buffer, error) {
	b := &Buffer{Width: width, Height: height, Pix: pix}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the buffer invariant len(Pix) == Width*Height*4.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("nil buffer: %w", ErrInvalidBufferShape)
	}
	if b.Width < 0 || b.Height < 0 {
		return fmt.Errorf("negative dimensions %dx%d: %w", b.Width, b.Height, ErrInvalidBufferShape)
	}
	if want := b.Width * b.Height * 4; len(b.Pix) != want {
		return fmt.Errorf("%dx%d needs %d bytes, have %d: %w",
			b.Width, b.Height, want, len(b.Pix), ErrInvalidBufferShape)
	}
	return nil
}

// SameShape reports an error unless a and b have identical dimensions.
func SameShape(a, b *Buffer) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := b.Validate(); err != nil {
		return err
	}
	if a.Width != b.Width || a.Height != b.Height {
		return fmt.Errorf("%dx%d vs %dx%d: %w", a.Width, a.Height, b.Width, b.Height, ErrInvalidBufferShape)
	}
	return nil
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{Width: b.Width, Height: b.Height, Pix: make([]byte, len(b.Pix))}
	copy(out.Pix, b.Pix)
	return out
}

// Offset returns the index of the red channel of (x, y).
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * 4
}

// At returns the straight-alpha color at (x, y).
func (b *Buffer) At(x, y int) color.NRGBA {
	i := b.Offset(x, y)
	return color.NRGBA{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: b.Pix[i+3]}
}

// Set writes c at (x, y).
func (b *Buffer) Set(x, y int, c color.NRGBA) {
	i := b.Offset(x, y)
	b.Pix[i] = c.R
	b.Pix[i+1] = c.G
	b.Pix[i+2] = c.B
	b.Pix[i+3] = c.A
}

// Fill paints every pixel with c.
func (b *Buffer) Fill(c color.NRGBA) {
	for i := 0; i < len(b.Pix); i += 4 {
		b.Pix[i] = c.R
		b.Pix[i+1] = c.G
		b.Pix[i+2] = c.B
		b.Pix[i+3] = c.A
	}
}

// Bounds returns the buffer rectangle anchored at the origin.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.Width, b.Height)
}

// NRGBA returns an image.NRGBA that shares memory with b. Writes through
// either are visible in both.
func (b *Buffer) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   b.Bounds(),
	}
}

// FromImage copies any image into a new buffer anchored at the origin.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	out := New(bounds.Dx(), bounds.Dy())
	if src, ok := img.(*image.NRGBA); ok {
		rowBytes := out.Width * 4
		for y := 0; y < out.Height; y++ {
			off := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(out.Pix[y*rowBytes:(y+1)*rowBytes], src.Pix[off:off+rowBytes])
		}
		return out
	}
	draw.Draw(out.NRGBA(), out.Bounds(), img, bounds.Min, draw.Src)
	return out
}

// SubBuffer copies the pixels inside r (clipped to the buffer) into a new
// buffer.
func (b *Buffer) SubBuffer(r image.Rectangle) *Buffer {
	r = r.Intersect(b.Bounds())
	out := New(r.Dx(), r.Dy())
	rowBytes := out.Width * 4
	for y := 0; y < out.Height; y++ {
		off := b.Offset(r.Min.X, r.Min.Y+y)
		copy(out.Pix[y*rowBytes:(y+1)*rowBytes], b.Pix[off:off+rowBytes])
	}
	return out
}

// Paste copies src into b with its top-left corner at p, clipping to b.
func (b *Buffer) Paste(src *Buffer, p image.Point) {
	dst := image.Rectangle{Min: p, Max: p.Add(image.Pt(src.Width, src.Height))}.Intersect(b.Bounds())
	if dst.Empty() {
		return
	}
	rowBytes := dst.Dx() * 4
	for y := dst.Min.Y; y < dst.Max.Y; y++ {
		from := src.Offset(dst.Min.X-p.X, y-p.Y)
		to := b.Offset(dst.Min.X, y)
		copy(b.Pix[to:to+rowBytes], src.Pix[from:from+rowBytes])
	}
}
