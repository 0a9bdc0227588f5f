package procedural

import (
	"errors"
	"fmt"
	"image"
	"math/rand"
	"strings"

	"github.com/fogleman/gg"
)

// ErrUnknownMaterial is returned for material names without a tile
// generator.
var ErrUnknownMaterial = errors.New("unknown material")

// TileSize is the edge length of generated material tiles.
const TileSize = 128

type Material string

const (
	Marble    Material = "marble"
	Bronze    Material = "bronze"
	Porcelain Material = "porcelain"
)

// Materials lists the materials MaterialTile can draw.
func Materials() []Material {
	return []Material{Marble, Bronze, Porcelain}
}

// MaterialTile draws a TileSize square texture for the material. rng drives
// the marble veins and may be nil for the other materials.
func MaterialTile(m Material, rng *rand.Rand) (image.Image, error) {
	dc := gg.NewContext(TileSize, TileSize)
	const s = float64(TileSize)
	switch Material(strings.ToLower(string(m))) {
	case Marble:
		dc.SetFillStyle(LinearGradient(0, 0, s, s,
			Stop{0, MustColor("#f5f5f0")},
			Stop{0.5, MustColor("#e8e6e1")},
			Stop{1, MustColor("#d4d1cc")},
		))
		dc.DrawRectangle(0, 0, s, s)
		dc.Fill()
		if rng == nil {
			rng = rand.New(rand.NewSource(1))
		}
		dc.SetRGBA255(128, 128, 128, 77)
		for range 6 {
			dc.SetLineWidth(0.5 + rng.Float64()*1.5)
			dc.MoveTo(rng.Float64()*s, rng.Float64()*s)
			dc.QuadraticTo(rng.Float64()*s, rng.Float64()*s, rng.Float64()*s, rng.Float64()*s)
			dc.Stroke()
		}
	case Bronze:
		dc.SetFillStyle(RadialGradient(s/2, s/2, 0, s/2,
			Stop{0, MustColor("#cd7f32")},
			Stop{0.7, MustColor("#a0522d")},
			Stop{1, MustColor("#8b4513")},
		))
		dc.DrawRectangle(0, 0, s, s)
		dc.Fill()
	case Porcelain:
		dc.SetFillStyle(LinearGradient(0, 0, 0, s,
			Stop{0, MustColor("#ffffff")},
			Stop{0.5, MustColor("#f8f8ff")},
			Stop{1, MustColor("#f0f0f5")},
		))
		dc.DrawRectangle(0, 0, s, s)
		dc.Fill()
	default:
		return nil, fmt.Errorf("material %q: %w", m, ErrUnknownMaterial)
	}
	return dc.Image(), nil
}

// MaterialPattern tiles the material's texture in both directions.
func MaterialPattern(m Material, rng *rand.Rand) (gg.Pattern, error) {
	tile, err := MaterialTile(m, rng)
	if err != nil {
		return nil, err
	}
	return gg.NewSurfacePattern(tile, gg.RepeatBoth), nil
}
