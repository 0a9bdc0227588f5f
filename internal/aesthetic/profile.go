package aesthetic

import "github.com/erinpentecost/canvasfx/internal/procedural"

// Profile is a named look: mood values drive how strongly each stage is
// applied, the other sections decide what the stages draw. Mood values are
// in [0, 1] except Warmth, which is in [-1, 1].
type Profile struct {
	ID             string         `yaml:"id"`
	Name           string         `yaml:"name"`
	Mood           Mood           `yaml:"mood"`
	ColorPalette   Palette        `yaml:"color_palette"`
	Atmosphere     Atmosphere     `yaml:"atmosphere"`
	TextureProfile TextureProfile `yaml:"texture_profile"`
	LightingMood   LightingMood   `yaml:"lighting_mood"`
}

type Mood struct {
	Intensity  float64 `yaml:"intensity"`
	Warmth     float64 `yaml:"warmth"`
	Energy     float64 `yaml:"energy"`
	Mystery    float64 `yaml:"mystery"`
	Sensuality float64 `yaml:"sensuality"`
	Elegance   float64 `yaml:"elegance"`
}

// Palette holds hex colors.
type Palette struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
	Accent    string `yaml:"accent"`
	Shadow    string `yaml:"shadow"`
	Highlight string `yaml:"highlight"`
}

type Atmosphere struct {
	Fog       Fog                       `yaml:"fog"`
	Particles procedural.ParticleConfig `yaml:"particles"`
	Ambience  Ambience                  `yaml:"ambience"`
}

type Fog struct {
	Density float64 `yaml:"density"`
	Color   string  `yaml:"color"`
}

// Ambience describes the scene's mood for downstream consumers. It is not
// rendered.
type Ambience struct {
	Label string  `yaml:"label"`
	Glow  float64 `yaml:"glow"`
	Color string  `yaml:"color"`
}

// TextureProfile describes surfaces. Only MaterialEmulation is rendered.
type TextureProfile struct {
	SkinTone          SkinTone          `yaml:"skin_tone"`
	SurfaceQuality    SurfaceQuality    `yaml:"surface_quality"`
	MaterialEmulation MaterialEmulation `yaml:"material_emulation"`
}

type SkinTone struct {
	Smoothness float64 `yaml:"smoothness"`
	Warmth     float64 `yaml:"warmth"`
}

type SurfaceQuality struct {
	Gloss     float64 `yaml:"gloss"`
	Roughness float64 `yaml:"roughness"`
}

type MaterialEmulation struct {
	Type      string  `yaml:"type"`
	Intensity float64 `yaml:"intensity"`
}

// LightingMood selects a lighting ramp. ColorTemperature is in Kelvin; zero
// leaves the ramp untinted.
type LightingMood struct {
	Scheme            string  `yaml:"scheme"`
	KeyLightIntensity float64 `yaml:"key_light_intensity"`
	FillRatio         float64 `yaml:"fill_ratio"`
	ColorTemperature  float64 `yaml:"color_temperature"`
	Contrast          float64 `yaml:"contrast"`
	ShadowDepth       float64 `yaml:"shadow_depth"`
}

// merge overlays every non-zero section of o onto p.
func (p Profile) merge(o Profile) Profile {
	if o.Name != "" {
		p.Name = o.Name
	}
	if o.Mood != (Mood{}) {
		p.Mood = o.Mood
	}
	if o.ColorPalette != (Palette{}) {
		p.ColorPalette = o.ColorPalette
	}
	if o.Atmosphere != (Atmosphere{}) {
		p.Atmosphere = o.Atmosphere
	}
	if o.TextureProfile != (TextureProfile{}) {
		p.TextureProfile = o.TextureProfile
	}
	if o.LightingMood != (LightingMood{}) {
		p.LightingMood = o.LightingMood
	}
	return p
}
