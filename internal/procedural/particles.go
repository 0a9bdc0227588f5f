package procedural

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"strings"

	"github.com/erinpentecost/canvasfx/internal/pixel"
	"github.com/fogleman/gg"
)

// ErrUnknownParticle is returned for particle types other than sparkle, dust
// and smoke.
var ErrUnknownParticle = errors.New("unknown particle type")

type ParticleType string

const (
	Sparkle ParticleType = "sparkle"
	Dust    ParticleType = "dust"
	Smoke   ParticleType = "smoke"
)

// ParticleConfig describes a particle field. Density is in [0, 1]; the
// number of particles drawn is decided by the caller.
type ParticleConfig struct {
	Type    ParticleType `yaml:"type"`
	Density float64      `yaml:"density"`
	Color   string       `yaml:"color"`
}

type particleRange struct {
	minRadius, maxRadius float64
	minAlpha, maxAlpha   float64
}

var particleRanges = map[ParticleType]particleRange{
	Dust:    {0.5, 2, 0.2, 0.6},
	Smoke:   {8, 24, 0.03, 0.1},
	Sparkle: {2, 6, 0.5, 1},
}

// ParseParticleType normalizes a particle type name.
func ParseParticleType(s string) (ParticleType, error) {
	t := ParticleType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := particleRanges[t]; !ok {
		return "", fmt.Errorf("particle %q: %w", s, ErrUnknownParticle)
	}
	return t, nil
}

// Count returns the number of particles for density scaled by intensity.
func Count(density, intensity float64) int {
	return int(math.Round(pixel.Clamp01(density) * pixel.Clamp01(intensity) * 100))
}

// DrawParticles scatters count particles of cfg over dc.
func DrawParticles(dc *gg.Context, cfg ParticleConfig, count int, rng *rand.Rand) error {
	kind, err := ParseParticleType(string(cfg.Type))
	if err != nil {
		return err
	}
	base := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if cfg.Color != "" {
		if base, err = ParseColor(cfg.Color); err != nil {
			return fmt.Errorf("particle color: %w", err)
		}
	}
	pr := particleRanges[kind]
	w, h := float64(dc.Width()), float64(dc.Height())
	for range count {
		x, y := rng.Float64()*w, rng.Float64()*h
		radius := pr.minRadius + rng.Float64()*(pr.maxRadius-pr.minRadius)
		alpha := pr.minAlpha + rng.Float64()*(pr.maxAlpha-pr.minAlpha)
		dc.SetColor(WithAlpha(base, alpha*float64(base.A)/255))
		if kind == Sparkle {
			Star(dc, x, y, radius, radius*0.4, 4)
		} else {
			dc.DrawCircle(x, y, radius)
		}
		dc.Fill()
	}
	return nil
}

// Particles renders a transparent width x height buffer holding count
// particles.
func Particles(width, height int, cfg ParticleConfig, count int, rng *rand.Rand) (*pixel.Buffer, error) {
	dc := gg.NewContext(width, height)
	if err := DrawParticles(dc, cfg, count, rng); err != nil {
		return nil, err
	}
	return pixel.FromImage(dc.Image()), nil
}

// Star adds a closed star path with the given number of points, alternating
// between the outer and inner radius. The first point faces up.
func Star(dc *gg.Context, cx, cy, outer, inner float64, points int) {
	if points < 2 {
		points = 2
	}
	step := math.Pi / float64(points)
	dc.NewSubPath()
	for i := range points * 2 {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := -math.Pi/2 + float64(i)*step
		x, y := cx+r*math.Cos(a), cy+r*math.Sin(a)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
}
