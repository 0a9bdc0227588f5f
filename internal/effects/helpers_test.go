package effects

import (
	"image/color"
	"math/rand"

	"github.com/erinpentecost/canvasfx/internal/pixel"
)

func newTestProcessor() *Processor {
	return New(WithWorkers(2), WithSeed(42))
}

func solid(w, h int, c color.NRGBA) *pixel.Buffer {
	b := pixel.New(w, h)
	b.Fill(c)
	return b
}

func noise(w, h int, seed int64) *pixel.Buffer {
	rng := rand.New(rand.NewSource(seed))
	b := pixel.New(w, h)
	rng.Read(b.Pix)
	return b
}
