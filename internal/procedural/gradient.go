package procedural

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
)

// Stop is one color stop of a gradient ramp, with Offset in [0, 1].
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// LinearGradient returns a gg gradient from (x0, y0) to (x1, y1).
func LinearGradient(x0, y0, x1, y1 float64, stops ...Stop) gg.Gradient {
	g := gg.NewLinearGradient(x0, y0, x1, y1)
	addStops(g, stops)
	return g
}

// RadialGradient returns a concentric gg gradient centered on (cx, cy)
// running from radius r0 to r1.
func RadialGradient(cx, cy, r0, r1 float64, stops ...Stop) gg.Gradient {
	g := gg.NewRadialGradient(cx, cy, r0, cx, cy, r1)
	addStops(g, stops)
	return g
}

func addStops(g gg.Gradient, stops []Stop) {
	for _, s := range stops {
		g.AddColorStop(s.Offset, s.Color)
	}
}

// EvenStops parses hex colors and spaces them evenly over [0, 1]. A single
// color yields a flat ramp.
func EvenStops(hexes []string) ([]Stop, error) {
	stops := make([]Stop, 0, len(hexes))
	for i, h := range hexes {
		c, err := ParseColor(h)
		if err != nil {
			return nil, fmt.Errorf("stop %d: %w", i, err)
		}
		offset := 0.0
		if len(hexes) > 1 {
			offset = float64(i) / float64(len(hexes)-1)
		}
		stops = append(stops, Stop{Offset: offset, Color: c})
	}
	if len(stops) == 1 {
		stops = append(stops, Stop{Offset: 1, Color: stops[0].Color})
	}
	return stops, nil
}
