package surface

import (
	"image"
	"image/color"

	"github.com/erinpentecost/canvasfx/internal/pixel"
	"github.com/fogleman/gg"
)

// Surface is what renderers draw on. Implementations hold a composite
// operator and a global alpha that apply to every subsequent draw, with
// Save/Restore to scope changes.
type Surface interface {
	Size() (width, height int)

	Save()
	Restore()
	SetCompositeOperator(BlendMode)
	SetGlobalAlpha(float64)

	FillRect(r image.Rectangle, c color.Color)
	DrawGradient(g gg.Gradient, r image.Rectangle)
	FillPattern(p gg.Pattern, r image.Rectangle)
	DrawImage(img image.Image, at image.Point)

	// GetPixels returns a copy of the surface contents.
	GetPixels() *pixel.Buffer
	// PutPixels replaces the surface contents; the buffer must match Size.
	PutPixels(*pixel.Buffer) error
}
