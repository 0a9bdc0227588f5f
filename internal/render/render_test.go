package render

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/erinpentecost/canvasfx/internal/effects"
	"github.com/erinpentecost/canvasfx/internal/pixel"
	"github.com/erinpentecost/canvasfx/internal/procedural"
	"github.com/erinpentecost/canvasfx/internal/surface"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newTestRenderer(opts ...Option) *Renderer {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	entry := logrus.NewEntry(log)
	base := []Option{
		WithEffects(effects.New(effects.WithWorkers(2), effects.WithSeed(9), effects.WithLogger(entry))),
		WithSeed(9),
		WithLogger(entry),
	}
	return NewRenderer(append(base, opts...)...)
}

// smallConfig is an unlit 8x6 frame over mid gray.
func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Lighting.Ambient = Ambient{Color: "#808080", Intensity: 0.5}
	cfg.Lighting.Lights = nil
	cfg.Lighting.Shadows.Enabled = false
	cfg.Quality = Quality{
		Resolution:   Resolution{Width: 8, Height: 6},
		AntiAliasing: AntiAliasingNone,
		RenderScale:  1,
	}
	return cfg
}

func solid(w, h int, c color.NRGBA) *pixel.Buffer {
	b := pixel.New(w, h)
	b.Fill(c)
	return b
}

func TestSortLayersStable(t *testing.T) {
	layers := []Layer{
		NewLayer("fx", Effect),
		NewLayer("top", Overlay),
		NewLayer("hero", Subject),
		NewLayer("sky", Background),
		NewLayer("sidekick", Subject),
		NewLayer("ground", Background),
		NewLayer("leaves", Foreground),
	}
	var ids []string
	for _, l := range SortLayers(layers) {
		ids = append(ids, l.ID)
	}
	require.Equal(t, []string{"sky", "ground", "hero", "sidekick", "leaves", "fx", "top"}, ids)
	require.Equal(t, "fx", layers[0].ID)
}

func TestLayerYAMLDefaults(t *testing.T) {
	var l Layer
	require.NoError(t, yaml.Unmarshal([]byte("id: a\ntype: subject\nblend_mode: multiply\nfilters:\n  - type: blur\n    value: 2\n"), &l))
	require.Equal(t, 1.0, l.Opacity)
	require.Equal(t, 1.0, l.Transform.Scale)
	require.Equal(t, surface.Multiply, l.BlendMode)
	require.Equal(t, "blur(2px)", l.Filters.String())

	err := yaml.Unmarshal([]byte("id: b\ntype: subject\nblend_mode: glow\n"), &l)
	require.ErrorIs(t, err, surface.ErrUnknownBlendMode)
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"missing ambient", func(c *Config) { c.Lighting.Ambient.Color = "" }, "lighting.ambient.color"},
		{"bad ambient", func(c *Config) { c.Lighting.Ambient.Color = "#12" }, "lighting.ambient.color"},
		{"light radius", func(c *Config) { c.Lighting.Lights[0].Radius = 0 }, "lighting.lights[0].radius"},
		{"light intensity", func(c *Config) { c.Lighting.Lights[0].Intensity = -1 }, "lighting.lights[0].intensity"},
		{"shadow softness", func(c *Config) { c.Lighting.Shadows.Softness = 2 }, "lighting.shadows.softness"},
		{"shadow opacity", func(c *Config) { c.Lighting.Shadows.Opacity = -0.1 }, "lighting.shadows.opacity"},
		{"resolution", func(c *Config) { c.Quality.Resolution.Width = 0 }, "quality.resolution"},
		{"render scale", func(c *Config) { c.Quality.RenderScale = 0 }, "quality.render_scale"},
		{"anti aliasing", func(c *Config) { c.Quality.AntiAliasing = "fxaa" }, "quality.anti_aliasing"},
		{"layer type", func(c *Config) { c.Layers = []Layer{NewLayer("x", "sky")} }, "type"},
		{"layer opacity", func(c *Config) {
			l := NewLayer("x", Subject)
			l.Opacity = 1.5
			c.Layers = []Layer{l}
		}, "opacity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(&cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrConfiguration)
			var ce *ConfigurationError
			require.True(t, errors.As(err, &ce))
			require.Equal(t, tt.field, ce.Field)
		})
	}

	cfg := DefaultConfig()
	l := NewLayer("x", Subject)
	l.BlendMode = surface.BlendMode(99)
	cfg.Layers = []Layer{l}
	require.ErrorIs(t, cfg.Validate(), surface.ErrUnknownBlendMode)
}

func TestRenderAmbientFill(t *testing.T) {
	out, err := newTestRenderer().Render(context.Background(), smallConfig())
	require.NoError(t, err)
	require.Equal(t, 8, out.Width)
	require.Equal(t, 6, out.Height)
	require.Equal(t, color.NRGBA{R: 64, G: 64, B: 64, A: 255}, out.At(3, 3))
}

func TestRenderLayers(t *testing.T) {
	cfg := smallConfig()
	sky := NewLayer("sky", Background)
	sky.Gradient = []string{"#000000", "#ffffff"}
	veil := NewLayer("veil", Overlay)
	veil.Image = solid(4, 3, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	veil.Opacity = 0.5
	// listed overlay first; background must still go underneath
	cfg.Layers = []Layer{veil, sky}

	out, err := newTestRenderer().Render(context.Background(), cfg)
	require.NoError(t, err)
	top, bottom := out.At(4, 0), out.At(4, 5)
	require.InDelta(t, 128, int(top.R), 1)
	require.Greater(t, bottom.R, top.R)
	require.Equal(t, byte(255), bottom.A)
}

func TestRenderBlendMode(t *testing.T) {
	cfg := smallConfig()
	l := NewLayer("shade", Foreground)
	l.Image = solid(8, 6, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	l.BlendMode = surface.Multiply
	cfg.Layers = []Layer{l}

	out, err := newTestRenderer().Render(context.Background(), cfg)
	require.NoError(t, err)
	require.InDelta(t, 32, int(out.At(0, 0).R), 1)
}

func TestRenderSubjectLighting(t *testing.T) {
	cfg := smallConfig()
	cfg.Lighting.Ambient = Ambient{Color: "#000000", Intensity: 1}
	cfg.Lighting.Lights = []Light{{X: 0, Y: 0, Radius: 4, Color: "#ffffff", Intensity: 1}}
	subject := NewLayer("hero", Subject)
	subject.Image = solid(8, 6, color.NRGBA{R: 40, G: 40, B: 40, A: 255})
	cfg.Layers = []Layer{subject}

	out, err := newTestRenderer().Render(context.Background(), cfg)
	require.NoError(t, err)
	require.Greater(t, out.At(0, 0).R, byte(200))
	require.Equal(t, byte(40), out.At(7, 5).R)
}

func TestRenderShadow(t *testing.T) {
	cfg := smallConfig()
	cfg.Lighting.Ambient = Ambient{Color: "#ffffff", Intensity: 1}
	cfg.Lighting.Shadows = Shadows{Enabled: true, Opacity: 1, OffsetX: 2, OffsetY: 2, Color: "#000000"}
	subject := NewLayer("hero", Subject)
	img := pixel.New(8, 6)
	img.Set(2, 2, color.NRGBA{R: 255, A: 255})
	subject.Image = img
	cfg.Layers = []Layer{subject}

	out, err := newTestRenderer().Render(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, color.NRGBA{R: 255, A: 255}, out.At(2, 2))
	require.Equal(t, color.NRGBA{A: 255}, out.At(4, 4))
	require.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, out.At(6, 1))
}

func TestRenderParticlesDeterministic(t *testing.T) {
	cfg := smallConfig()
	l := NewLayer("dust", Effect)
	l.Particles = &procedural.ParticleConfig{Type: procedural.Dust, Density: 0.5, Color: "#ffffff"}
	cfg.Layers = []Layer{l}

	a, err := newTestRenderer().Render(context.Background(), cfg)
	require.NoError(t, err)
	b, err := newTestRenderer().Render(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, a.Pix, b.Pix)

	plain, err := newTestRenderer().Render(context.Background(), smallConfig())
	require.NoError(t, err)
	require.NotEqual(t, plain.Pix, a.Pix)
}

func TestRenderScaleResamples(t *testing.T) {
	cfg := smallConfig()
	cfg.Quality.RenderScale = 2
	cfg.Quality.AntiAliasing = AntiAliasingSMAA
	out, err := newTestRenderer().Render(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, 8, out.Width)
	require.Equal(t, 6, out.Height)
	require.InDelta(t, 64, int(out.At(4, 3).G), 1)
}

func TestRenderDepthOfField(t *testing.T) {
	cfg := smallConfig()
	l := NewLayer("dot", Foreground)
	img := pixel.New(8, 6)
	img.Set(4, 3, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	l.Image = img
	cfg.Layers = []Layer{l}

	sharp, err := newTestRenderer().Render(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, byte(255), sharp.At(4, 3).R)

	cfg.Depth.DepthOfField = true
	cfg.Depth.FocusDistance = 0.5
	cfg.Depth.BokehIntensity = 0.6
	soft, err := newTestRenderer().Render(context.Background(), cfg)
	require.NoError(t, err)
	require.Less(t, soft.At(4, 3).R, byte(255))
	require.Greater(t, soft.At(5, 3).R, sharp.At(5, 3).R)
}

type fillProfiles struct{ seen string }

func (f *fillProfiles) Apply(_ context.Context, s surface.Surface, id string) error {
	f.seen = id
	w, h := s.Size()
	s.FillRect(image.Rect(0, 0, w, h), color.NRGBA{R: 255, A: 255})
	return nil
}

func TestRenderProfile(t *testing.T) {
	cfg := smallConfig()
	cfg.Profile = "golden-hour"

	_, err := newTestRenderer().Render(context.Background(), cfg)
	require.ErrorIs(t, err, ErrNoProfiles)

	p := &fillProfiles{}
	out, err := newTestRenderer(WithProfiles(p)).Render(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, "golden-hour", p.seen)
	require.Equal(t, color.NRGBA{R: 255, A: 255}, out.At(0, 0))
}

func TestRenderCancelled(t *testing.T) {
	cfg := smallConfig()
	cfg.Layers = []Layer{NewLayer("sky", Background)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestRenderer().Render(ctx, cfg)
	require.ErrorIs(t, err, context.Canceled)
}

func TestTransformLayer(t *testing.T) {
	img := pixel.New(6, 6)
	img.Set(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	same := transformLayer(img, Transform{Scale: 1}, 1)
	require.Same(t, img, same)

	moved := transformLayer(img, Transform{Scale: 1, Position: Point{X: 2, Y: 1}}, 1)
	require.Equal(t, byte(0), moved.At(0, 0).A)
	require.InDelta(t, 255, int(moved.At(2, 1).A), 1)

	block := pixel.New(8, 8)
	for y := range 2 {
		for x := range 2 {
			block.Set(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	// scaling about the origin keeps the corner in place
	scaled := transformLayer(block, Transform{Scale: 2}, 1)
	require.InDelta(t, 255, int(scaled.At(0, 0).A), 2)
	require.InDelta(t, 255, int(scaled.At(2, 2).A), 2)
	require.Equal(t, byte(0), scaled.At(5, 5).A)

	// a quarter turn swings the block to the left of the origin, the offset brings it back
	turned := transformLayer(block, Transform{Scale: 1, Rotation: 90, Position: Point{X: 4}}, 1)
	require.InDelta(t, 255, int(turned.At(3, 0).A), 2)
	require.InDelta(t, 255, int(turned.At(2, 1).A), 2)
	require.Equal(t, byte(0), turned.At(0, 0).A)
	require.Equal(t, byte(0), turned.At(5, 0).A)
}
