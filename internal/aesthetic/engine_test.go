package aesthetic

import (
	"context"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/erinpentecost/canvasfx/internal/surface"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	return NewEngine(WithWorkers(2), WithSeed(5), WithLogger(logrus.NewEntry(log)))
}

func grayCanvas(w, h int, v uint8) *surface.Canvas {
	c := surface.NewCanvas(w, h)
	c.FillRect(image.Rect(0, 0, w, h), color.NRGBA{R: v, G: v, B: v, A: 255})
	return c
}

func TestBuiltins(t *testing.T) {
	e := newTestEngine()
	var ids []string
	for _, p := range e.List() {
		ids = append(ids, p.ID)
	}
	require.Equal(t, []string{"cinematic-noir", "ethereal-dream", "golden-hour", "marble-sculpture", "vintage-film"}, ids)
	for _, p := range Builtins() {
		require.NoError(t, p.validate(), p.ID)
	}
}

func TestRegisterErrors(t *testing.T) {
	e := newTestEngine()
	_, err := e.Get("nope")
	require.ErrorIs(t, err, ErrProfileNotFound)

	require.ErrorIs(t, e.Register(Profile{ID: "golden-hour"}), ErrProfileExists)
	require.ErrorIs(t, e.Register(Profile{}), ErrInvalidProfile)
	require.ErrorIs(t, e.Register(Profile{ID: "hot", Mood: Mood{Warmth: 2}}), ErrInvalidProfile)
	require.ErrorIs(t, e.Register(Profile{ID: "x", LightingMood: LightingMood{Scheme: "strobe"}}), ErrUnknownScheme)
	require.ErrorIs(t, e.Register(Profile{ID: "y", TextureProfile: TextureProfile{
		MaterialEmulation: MaterialEmulation{Type: "velvet", Intensity: 1},
	}}), ErrUnknownMaterial)

	require.NoError(t, e.Register(Profile{ID: "plain", LightingMood: LightingMood{Scheme: "none"}}))
	got, err := e.Get("plain")
	require.NoError(t, err)
	require.Equal(t, "plain", got.ID)
}

func TestCreateCustomProfile(t *testing.T) {
	e := newTestEngine()
	base, err := e.Get("golden-hour")
	require.NoError(t, err)

	custom, err := e.CreateCustomProfile("golden-hour", Profile{
		Mood: Mood{Intensity: 1, Warmth: 1},
	})
	require.NoError(t, err)
	require.NotEqual(t, base.ID, custom.ID)
	_, err = uuid.Parse(custom.ID)
	require.NoError(t, err)
	require.Equal(t, "Golden Hour (custom)", custom.Name)
	require.Equal(t, 1.0, custom.Mood.Warmth)
	require.Equal(t, base.ColorPalette, custom.ColorPalette)
	require.Equal(t, base.LightingMood, custom.LightingMood)

	stored, err := e.Get(custom.ID)
	require.NoError(t, err)
	require.Equal(t, custom, stored)
	again, err := e.Get("golden-hour")
	require.NoError(t, err)
	require.Equal(t, base, again)

	second, err := e.CreateCustomProfile("golden-hour", Profile{Name: "Dusk"})
	require.NoError(t, err)
	require.NotEqual(t, custom.ID, second.ID)
	require.Equal(t, "Dusk", second.Name)

	_, err = e.CreateCustomProfile("missing", Profile{})
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestLoadProfiles(t *testing.T) {
	doc := `
- id: moonlight
  name: Moonlight
  mood:
    intensity: 0.5
    warmth: -0.6
  atmosphere:
    fog:
      density: 0.4
      color: "#c0d0ff"
  lighting_mood:
    scheme: soft
    key_light_intensity: 0.4
    fill_ratio: 0.7
    color_temperature: 8000
- id: bronze-bust
  texture_profile:
    material_emulation:
      type: bronze
      intensity: 0.6
`
	e := newTestEngine()
	loaded, err := e.LoadProfiles(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	p, err := e.Get("moonlight")
	require.NoError(t, err)
	require.Equal(t, -0.6, p.Mood.Warmth)
	require.Equal(t, "soft", p.LightingMood.Scheme)
	require.Len(t, e.List(), 7)

	_, err = e.LoadProfiles(strings.NewReader("- id: moonlight\n"))
	require.ErrorIs(t, err, ErrProfileExists)

	loaded, err = e.LoadProfiles(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, loaded)
}

func TestColorMood(t *testing.T) {
	tests := []struct {
		name string
		mood Mood
		in   [3]float64
		want [3]float64
	}{
		{"warm", Mood{Intensity: 1, Warmth: 1}, [3]float64{100, 100, 100}, [3]float64{120, 100, 90}},
		{"cool", Mood{Intensity: 1, Warmth: -1}, [3]float64{100, 100, 100}, [3]float64{90, 100, 120}},
		{"half intensity", Mood{Intensity: 0.5, Warmth: 1}, [3]float64{100, 100, 100}, [3]float64{110, 100, 95}},
		{"mystery on gray", Mood{Intensity: 1, Mystery: 1}, [3]float64{100, 100, 100}, [3]float64{80, 80, 80}},
		{"elegance", Mood{Intensity: 1, Elegance: 1}, [3]float64{28, 228, 128}, [3]float64{38, 218, 128}},
		{"clamped", Mood{Intensity: 1, Warmth: 1}, [3]float64{250, 0, 0}, [3]float64{255, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.in
			colorMood(&c, tt.mood)
			for ch := range 3 {
				require.InDelta(t, tt.want[ch], c[ch], 1e-9)
			}
		})
	}
}

func TestApplyColorMoodOnly(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Register(Profile{ID: "warm", Mood: Mood{Intensity: 1, Warmth: 1}}))
	c := grayCanvas(6, 6, 100)
	require.NoError(t, e.Apply(context.Background(), c, "warm"))
	require.Equal(t, color.NRGBA{R: 120, G: 100, B: 90, A: 255}, c.Buffer().At(3, 3))
}

func TestApplyBuiltins(t *testing.T) {
	for _, p := range Builtins() {
		t.Run(p.ID, func(t *testing.T) {
			a := grayCanvas(32, 24, 120)
			b := grayCanvas(32, 24, 120)
			require.NoError(t, newTestEngine().Apply(context.Background(), a, p.ID))
			require.NoError(t, newTestEngine().Apply(context.Background(), b, p.ID))
			require.Equal(t, a.Buffer().Pix, b.Buffer().Pix)
			require.NotEqual(t, grayCanvas(32, 24, 120).Buffer().Pix, a.Buffer().Pix)
			require.Equal(t, surface.Normal, a.CompositeOperator())
			require.Equal(t, 1.0, a.GlobalAlpha())
		})
	}
}

func TestApplyZeroIntensity(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Register(Profile{ID: "off", Mood: Mood{Warmth: 1}, Atmosphere: Atmosphere{Fog: Fog{Density: 1}}}))
	c := grayCanvas(4, 4, 77)
	require.NoError(t, e.Apply(context.Background(), c, "off"))
	require.Equal(t, grayCanvas(4, 4, 77).Buffer().Pix, c.Buffer().Pix)
}

func TestApplyErrors(t *testing.T) {
	e := newTestEngine()
	c := grayCanvas(4, 4, 77)
	require.ErrorIs(t, e.Apply(context.Background(), c, "nope"), ErrProfileNotFound)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, e.Apply(ctx, c, "golden-hour"), context.Canceled)

	_, err := lightingGradient(LightingMood{Scheme: "strobe"}, 4, 4)
	require.ErrorIs(t, err, ErrUnknownScheme)
}

func TestMaterialOverlay(t *testing.T) {
	e := newTestEngine()
	require.NoError(t, e.Register(Profile{
		ID:   "stone",
		Mood: Mood{Intensity: 1},
		TextureProfile: TextureProfile{
			MaterialEmulation: MaterialEmulation{Type: "Marble", Intensity: 1},
		},
	}))
	c := grayCanvas(8, 8, 100)
	require.NoError(t, e.Apply(context.Background(), c, "stone"))
	// overlay of a light texture brightens a mid-dark base
	require.Greater(t, c.Buffer().At(4, 4).R, uint8(100))
}
