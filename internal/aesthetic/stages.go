package aesthetic

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"
	"strings"

	"github.com/erinpentecost/canvasfx/internal/hue"
	"github.com/erinpentecost/canvasfx/internal/parallel"
	"github.com/erinpentecost/canvasfx/internal/procedural"
	"github.com/erinpentecost/canvasfx/internal/surface"
	"github.com/fogleman/gg"
)

func (e *Engine) applyColorMood(ctx context.Context, s surface.Surface, p Profile) error {
	m := p.Mood
	if m.Warmth == 0 && m.Mystery <= 0 && m.Elegance <= 0 {
		return nil
	}
	buf := s.GetPixels()
	row := buf.Width * 4
	err := parallel.Rows(ctx, buf.Height, e.workers, func(y0, y1 int) error {
		for i := y0 * row; i < y1*row; i += 4 {
			px := buf.Pix[i : i+3 : i+3]
			c := [3]float64{float64(px[0]), float64(px[1]), float64(px[2])}
			colorMood(&c, m)
			for ch := range 3 {
				px[ch] = uint8(math.Round(c[ch]))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return s.PutPixels(buf)
}

// colorMood shifts one RGB triple. Each step clamps to [0, 255].
func colorMood(c *[3]float64, m Mood) {
	i := m.Intensity
	switch w := m.Warmth; {
	case w > 0:
		c[0] = clamp255(c[0] * (1 + w*0.2*i))
		c[2] = clamp255(c[2] * (1 - w*0.1*i))
	case w < 0:
		c[2] = clamp255(c[2] * (1 - w*0.2*i))
		c[0] = clamp255(c[0] * (1 + w*0.1*i))
	}
	if mys := m.Mystery; mys > 0 {
		lum := hue.Luma(c[0], c[1], c[2])
		for ch := range c {
			v := lum + (c[ch]-lum)*(1+mys*0.5*i)
			c[ch] = clamp255(v * (1 - mys*0.2*i))
		}
	}
	if el := m.Elegance; el > 0 {
		for ch := range c {
			c[ch] = clamp255(c[ch] + (128-c[ch])*el*0.1*i)
		}
	}
}

func clamp255(v float64) float64 {
	return math.Max(0, math.Min(255, v))
}

func fullFrame(s surface.Surface) image.Rectangle {
	w, h := s.Size()
	return image.Rect(0, 0, w, h)
}

func applyAtmosphere(s surface.Surface, p Profile, rng *rand.Rand) error {
	i := p.Mood.Intensity
	a := p.Atmosphere
	w, h := s.Size()

	if a.Fog.Density > 0 {
		fog := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		if a.Fog.Color != "" {
			var err error
			if fog, err = procedural.ParseColor(a.Fog.Color); err != nil {
				return fmt.Errorf("fog: %w", err)
			}
		}
		cx, cy := float64(w)/2, float64(h)/2
		g := procedural.RadialGradient(cx, cy, 0, math.Hypot(float64(w), float64(h))/2,
			procedural.Stop{Offset: 0, Color: procedural.WithAlpha(fog, a.Fog.Density*i*0.3)},
			procedural.Stop{Offset: 1, Color: procedural.WithAlpha(fog, a.Fog.Density*i*0.1)},
		)
		s.Save()
		s.SetCompositeOperator(surface.Overlay)
		s.DrawGradient(g, fullFrame(s))
		s.Restore()
	}

	if a.Particles.Density > 0 && a.Particles.Type != "" {
		particles, err := procedural.Particles(w, h, a.Particles, procedural.Count(a.Particles.Density, i), rng)
		if err != nil {
			return err
		}
		s.DrawImage(particles.NRGBA(), image.Point{})
	}
	return nil
}

func applyLightingMood(s surface.Surface, p Profile) error {
	lm := p.LightingMood
	if lm.Scheme == "" || strings.EqualFold(lm.Scheme, "none") {
		return nil
	}
	w, h := s.Size()
	g, err := lightingGradient(lm, float64(w), float64(h))
	if err != nil {
		return err
	}
	s.Save()
	s.SetCompositeOperator(surface.Overlay)
	s.SetGlobalAlpha(p.Mood.Intensity * 0.5)
	s.DrawGradient(g, fullFrame(s))
	s.Restore()
	return nil
}

// lightingGradient builds the full-frame ramp for a scheme. Stop alphas come
// from the key, fill and shadow settings and are scaled by Contrast; light
// stops are tinted toward the color temperature.
func lightingGradient(lm LightingMood, w, h float64) (gg.Gradient, error) {
	contrast := lm.Contrast
	if contrast == 0 {
		contrast = 1
	}
	white := procedural.Tint(color.NRGBA{R: 255, G: 255, B: 255, A: 255}, lm.ColorTemperature, 1)
	black := color.NRGBA{A: 255}
	key, fill, shadow := lm.KeyLightIntensity, lm.FillRatio, lm.ShadowDepth
	stop := func(offset float64, c color.NRGBA, alpha float64) procedural.Stop {
		return procedural.Stop{Offset: offset, Color: procedural.WithAlpha(c, alpha*contrast)}
	}
	diag := math.Hypot(w, h)

	switch strings.ToLower(lm.Scheme) {
	case "dramatic":
		return procedural.LinearGradient(0, 0, w, h,
			stop(0, white, key),
			stop(0.5, procedural.Mix(white, black, 0.5), key*fill),
			stop(1, black, shadow),
		), nil
	case "soft":
		return procedural.RadialGradient(w/2, h/3, 0, math.Max(w, h),
			stop(0, white, key*0.6),
			stop(1, procedural.Mix(white, black, 0.2), fill*0.5),
		), nil
	case "noir":
		return procedural.LinearGradient(0, 0, w, 0,
			stop(0, black, shadow),
			stop(0.5, white, key),
			stop(1, black, shadow),
		), nil
	case "ethereal":
		return procedural.RadialGradient(w/2, h/2, 0, diag/2,
			stop(0, white, key),
			stop(0.6, procedural.Tint(procedural.MustColor("#e6e6fa"), lm.ColorTemperature, 1), fill),
			stop(1, white, key*0.3),
		), nil
	case "natural":
		return procedural.LinearGradient(0, 0, 0, h,
			stop(0, white, key*0.8),
			stop(0.6, procedural.Mix(white, black, 0.15), fill*0.6),
			stop(1, black, shadow*0.5),
		), nil
	default:
		return nil, fmt.Errorf("scheme %q: %w", lm.Scheme, ErrUnknownScheme)
	}
}

func applyMaterial(s surface.Surface, p Profile, rng *rand.Rand) error {
	me := p.TextureProfile.MaterialEmulation
	if me.Type == "" || strings.EqualFold(me.Type, "none") || me.Intensity <= 0 {
		return nil
	}
	pattern, err := procedural.MaterialPattern(procedural.Material(me.Type), rng)
	if err != nil {
		return err
	}
	s.Save()
	s.SetCompositeOperator(surface.Overlay)
	s.SetGlobalAlpha(me.Intensity * p.Mood.Intensity * 0.3)
	s.FillPattern(pattern, fullFrame(s))
	s.Restore()
	return nil
}
