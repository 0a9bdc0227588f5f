// Package render composites ordered layers into a frame: per-layer content,
// CSS-style filter chains, transforms and blend modes, followed by an
// optional aesthetic profile and the post-process chain.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/erinpentecost/canvasfx/internal/effects"
	"github.com/erinpentecost/canvasfx/internal/pixel"
	"github.com/erinpentecost/canvasfx/internal/postprocess"
	"github.com/erinpentecost/canvasfx/internal/procedural"
	"github.com/erinpentecost/canvasfx/internal/surface"
	"github.com/fogleman/gg"
	"github.com/sirupsen/logrus"
)

// ErrNoProfiles is returned when a config names a profile but the renderer
// has no profile engine attached.
var ErrNoProfiles = errors.New("no aesthetic profile engine attached")

// ProfileApplier applies a named aesthetic profile to a surface in place.
type ProfileApplier interface {
	Apply(ctx context.Context, s surface.Surface, id string) error
}

// Renderer is the layer compositor. Construct it once and reuse it; Render
// holds no state between calls.
type Renderer struct {
	fx       *effects.Processor
	profiles ProfileApplier
	seed     int64
	log      *logrus.Entry
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithEffects sets the processor used for blur-based passes. It also decides
// the worker count.
func WithEffects(fx *effects.Processor) Option {
	return func(r *Renderer) { r.fx = fx }
}

// WithProfiles attaches the engine that resolves Config.Profile.
func WithProfiles(p ProfileApplier) Option {
	return func(r *Renderer) { r.profiles = p }
}

// WithSeed fixes the particle source. Zero picks a time-based seed.
func WithSeed(seed int64) Option {
	return func(r *Renderer) { r.seed = seed }
}

func WithLogger(l *logrus.Entry) Option {
	return func(r *Renderer) { r.log = l }
}

// NewRenderer returns a renderer that logs to the standard logger unless
// WithLogger says otherwise.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{log: logrus.NewEntry(logrus.StandardLogger())}
	for _, opt := range opts {
		opt(r)
	}
	if r.fx == nil {
		r.fx = effects.New(effects.WithLogger(r.log))
	}
	if r.seed == 0 {
		r.seed = time.Now().UnixNano()
	}
	return r
}

// Render validates cfg and draws the frame at cfg.Quality.Resolution.
func (r *Renderer) Render(ctx context.Context, cfg Config) (*pixel.Buffer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	scale := cfg.Quality.RenderScale
	w := max(1, int(math.Round(float64(cfg.Quality.Resolution.Width)*scale)))
	h := max(1, int(math.Round(float64(cfg.Quality.Resolution.Height)*scale)))
	log := r.log.WithFields(logrus.Fields{
		"function": "Renderer.Render",
		"width":    w,
		"height":   h,
		"layers":   len(cfg.Layers),
	})
	log.Info("Rendering frame")

	frame := surface.NewCanvas(w, h)
	ambient, err := procedural.ParseColor(cfg.Lighting.Ambient.Color)
	if err != nil {
		return nil, invalid("lighting.ambient.color", "%v", err)
	}
	frame.FillRect(frame.Buffer().Bounds(), procedural.Scale(ambient, cfg.Lighting.Ambient.Intensity))

	for i, layer := range SortLayers(cfg.Layers) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := r.layerContent(ctx, cfg, layer, i, w, h)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", layer.ID, err)
		}
		if len(layer.Filters) > 0 {
			if content, err = layer.Filters.Apply(ctx, r.fx, content); err != nil {
				return nil, fmt.Errorf("layer %q filters: %w", layer.ID, err)
			}
		}
		content = transformLayer(content, layer.Transform, scale)

		frame.Save()
		frame.SetCompositeOperator(layer.BlendMode)
		frame.SetGlobalAlpha(layer.Opacity)
		frame.DrawBuffer(content, image.Point{})
		frame.Restore()
		log.WithFields(logrus.Fields{
			"layer": layer.ID,
			"type":  layer.Type,
			"blend": layer.BlendMode,
		}).Debug("Composited layer")
	}

	if cfg.Profile != "" {
		if r.profiles == nil {
			return nil, fmt.Errorf("profile %q: %w", cfg.Profile, ErrNoProfiles)
		}
		if err := r.profiles.Apply(ctx, frame, cfg.Profile); err != nil {
			return nil, fmt.Errorf("profile %q: %w", cfg.Profile, err)
		}
	}

	out, err := r.postProcess(cfg).Process(ctx, frame.Buffer())
	if err != nil {
		return nil, err
	}
	log.Info("Rendered frame")
	return out, nil
}

func (r *Renderer) layerContent(ctx context.Context, cfg Config, l Layer, index, w, h int) (*pixel.Buffer, error) {
	c := surface.NewCanvas(w, h)
	if l.Image != nil {
		c.DrawBuffer(postprocess.Scale(l.Image, w, h), image.Point{})
	}
	switch l.Type {
	case Background:
		if l.Image == nil && len(l.Gradient) > 0 {
			stops, err := procedural.EvenStops(l.Gradient)
			if err != nil {
				return nil, err
			}
			c.DrawGradient(procedural.LinearGradient(0, 0, 0, float64(h), stops...), c.Buffer().Bounds())
		}
	case Subject:
		return r.lightSubject(ctx, c.Buffer(), cfg.Lighting, cfg.Quality.RenderScale)
	case Effect:
		if l.Particles != nil {
			rng := rand.New(rand.NewSource(r.seed + int64(index)))
			p, err := procedural.Particles(w, h, *l.Particles, procedural.Count(l.Particles.Density, 1), rng)
			if err != nil {
				return nil, err
			}
			c.DrawBuffer(p, image.Point{})
		}
	}
	return c.Buffer(), nil
}

// lightSubject puts a blurred, offset silhouette of the subject behind it
// and screens each light over the result.
func (r *Renderer) lightSubject(ctx context.Context, subject *pixel.Buffer, l Lighting, scale float64) (*pixel.Buffer, error) {
	w, h := subject.Width, subject.Height
	out := surface.NewCanvas(w, h)

	if s := l.Shadows; s.Enabled && s.Opacity > 0 {
		shade := procedural.MustColor("#000000")
		if s.Color != "" {
			var err error
			if shade, err = procedural.ParseColor(s.Color); err != nil {
				return nil, invalid("lighting.shadows.color", "%v", err)
			}
		}
		silhouette := pixel.New(w, h)
		for i := 0; i < len(subject.Pix); i += 4 {
			silhouette.Pix[i] = shade.R
			silhouette.Pix[i+1] = shade.G
			silhouette.Pix[i+2] = shade.B
			silhouette.Pix[i+3] = subject.Pix[i+3]
		}
		silhouette, err := r.fx.Blur(ctx, silhouette, s.Softness*20)
		if err != nil {
			return nil, fmt.Errorf("shadow: %w", err)
		}
		out.Save()
		out.SetGlobalAlpha(s.Opacity)
		out.DrawBuffer(silhouette, image.Pt(int(math.Round(s.OffsetX*scale)), int(math.Round(s.OffsetY*scale))))
		out.Restore()
	}
	out.DrawBuffer(subject, image.Point{})

	for i, light := range l.Lights {
		c, err := procedural.ParseColor(light.Color)
		if err != nil {
			return nil, invalid(fmt.Sprintf("lighting.lights[%d].color", i), "%v", err)
		}
		g := procedural.RadialGradient(light.X*float64(w), light.Y*float64(h), 0, light.Radius*scale,
			procedural.Stop{Offset: 0, Color: procedural.WithAlpha(c, light.Intensity)},
			procedural.Stop{Offset: 1, Color: procedural.WithAlpha(c, 0)},
		)
		out.Save()
		out.SetCompositeOperator(surface.Screen)
		out.DrawGradient(g, out.Buffer().Bounds())
		out.Restore()
	}
	return out.Buffer(), nil
}

func transformLayer(content *pixel.Buffer, t Transform, scale float64) *pixel.Buffer {
	if t.identity() {
		return content
	}
	s := t.Scale
	if s == 0 {
		s = 1
	}
	dc := gg.NewContext(content.Width, content.Height)
	dc.Translate(t.Position.X*scale, t.Position.Y*scale)
	dc.Rotate(gg.Radians(t.Rotation))
	dc.Scale(s, s)
	dc.DrawImage(content.NRGBA(), 0, 0)
	return pixel.FromImage(dc.Image())
}

func (r *Renderer) postProcess(cfg Config) *postprocess.Chain {
	workers := r.fx.Workers()
	chain := postprocess.NewChain(r.log)

	cg := cfg.Cinematography.ColorGrading
	grading := postprocess.ColorGrading{
		Highlights: [3]float64{orOne(cg.Highlights.R), orOne(cg.Highlights.G), orOne(cg.Highlights.B)},
		Contrast:   orOne(cg.Contrast),
		Saturation: orOne(cg.Saturation),
		Workers:    workers,
	}
	if !grading.Identity() {
		chain.Append(grading)
	}
	if d := cfg.Depth; d.DepthOfField {
		if radius := postprocess.DepthOfFieldRadius(d.FocusDistance, d.BokehIntensity); radius > 0 {
			chain.Append(postprocess.DepthOfField{Effects: r.fx, Radius: radius})
		}
	}
	if v := cfg.Cinematography.Vignette; v > 0 {
		chain.Append(postprocess.Vignette{Strength: v, Workers: workers})
	}
	if strings.EqualFold(cfg.Quality.AntiAliasing, AntiAliasingSMAA) {
		chain.Append(postprocess.SMAA{Workers: workers})
	}
	if cfg.Quality.RenderScale != 1 {
		chain.Append(postprocess.Resample{
			Width:  cfg.Quality.Resolution.Width,
			Height: cfg.Quality.Resolution.Height,
		})
	}
	return chain
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
