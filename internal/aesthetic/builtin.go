package aesthetic

import "github.com/erinpentecost/canvasfx/internal/procedural"

// Builtins returns the profiles every Engine starts with.
func Builtins() []Profile {
	return []Profile{
		{
			ID:   "cinematic-noir",
			Name: "Cinematic Noir",
			Mood: Mood{Intensity: 0.8, Warmth: -0.3, Energy: 0.4, Mystery: 0.9, Sensuality: 0.5, Elegance: 0.7},
			ColorPalette: Palette{
				Primary: "#1a1a1a", Secondary: "#4a4a4a", Accent: "#c0c0c0",
				Shadow: "#000000", Highlight: "#ffffff",
			},
			Atmosphere: Atmosphere{
				Fog:       Fog{Density: 0.3, Color: "#2a2a2a"},
				Particles: procedural.ParticleConfig{Type: procedural.Smoke, Density: 0.2, Color: "#808080"},
				Ambience:  Ambience{Label: "smoky", Glow: 0.1, Color: "#404040"},
			},
			TextureProfile: TextureProfile{
				SkinTone:       SkinTone{Smoothness: 0.6},
				SurfaceQuality: SurfaceQuality{Gloss: 0.4, Roughness: 0.5},
			},
			LightingMood: LightingMood{
				Scheme: "noir", KeyLightIntensity: 0.9, FillRatio: 0.1,
				ColorTemperature: 5600, Contrast: 1.4, ShadowDepth: 0.9,
			},
		},
		{
			ID:   "golden-hour",
			Name: "Golden Hour",
			Mood: Mood{Intensity: 0.7, Warmth: 0.8, Energy: 0.5, Mystery: 0.1, Sensuality: 0.6, Elegance: 0.5},
			ColorPalette: Palette{
				Primary: "#ffb347", Secondary: "#ff8c42", Accent: "#ffd700",
				Shadow: "#5c3a21", Highlight: "#fff4e0",
			},
			Atmosphere: Atmosphere{
				Fog:       Fog{Density: 0.15, Color: "#ffd8a8"},
				Particles: procedural.ParticleConfig{Type: procedural.Dust, Density: 0.3, Color: "#fff0c0"},
				Ambience:  Ambience{Label: "warm", Glow: 0.5, Color: "#ffcc80"},
			},
			TextureProfile: TextureProfile{
				SkinTone:       SkinTone{Smoothness: 0.4, Warmth: 0.6},
				SurfaceQuality: SurfaceQuality{Gloss: 0.3, Roughness: 0.3},
			},
			LightingMood: LightingMood{
				Scheme: "natural", KeyLightIntensity: 0.8, FillRatio: 0.5,
				ColorTemperature: 3200, Contrast: 1, ShadowDepth: 0.4,
			},
		},
		{
			ID:   "ethereal-dream",
			Name: "Ethereal Dream",
			Mood: Mood{Intensity: 0.6, Warmth: 0.1, Energy: 0.2, Mystery: 0.4, Sensuality: 0.3, Elegance: 0.9},
			ColorPalette: Palette{
				Primary: "#e6e6fa", Secondary: "#b0c4de", Accent: "#ffb6c1",
				Shadow: "#483d8b", Highlight: "#ffffff",
			},
			Atmosphere: Atmosphere{
				Fog:       Fog{Density: 0.5, Color: "#f0f0ff"},
				Particles: procedural.ParticleConfig{Type: procedural.Sparkle, Density: 0.25, Color: "#ffffff"},
				Ambience:  Ambience{Label: "dreamy", Glow: 0.7, Color: "#e6e6fa"},
			},
			TextureProfile: TextureProfile{
				SkinTone:          SkinTone{Smoothness: 0.8, Warmth: 0.2},
				SurfaceQuality:    SurfaceQuality{Gloss: 0.6, Roughness: 0.1},
				MaterialEmulation: MaterialEmulation{Type: "porcelain", Intensity: 0.3},
			},
			LightingMood: LightingMood{
				Scheme: "ethereal", KeyLightIntensity: 0.7, FillRatio: 0.8,
				ColorTemperature: 7500, Contrast: 0.8, ShadowDepth: 0.2,
			},
		},
		{
			ID:   "vintage-film",
			Name: "Vintage Film",
			Mood: Mood{Intensity: 0.6, Warmth: 0.5, Energy: 0.3, Mystery: 0.3, Sensuality: 0.4, Elegance: 0.4},
			ColorPalette: Palette{
				Primary: "#d2b48c", Secondary: "#8b7355", Accent: "#cd853f",
				Shadow: "#3b2f2f", Highlight: "#faebd7",
			},
			Atmosphere: Atmosphere{
				Fog:       Fog{Density: 0.1, Color: "#f5deb3"},
				Particles: procedural.ParticleConfig{Type: procedural.Dust, Density: 0.4, Color: "#fffaf0"},
				Ambience:  Ambience{Label: "nostalgic", Glow: 0.2, Color: "#deb887"},
			},
			TextureProfile: TextureProfile{
				SkinTone:       SkinTone{Smoothness: 0.3, Warmth: 0.4},
				SurfaceQuality: SurfaceQuality{Gloss: 0.1, Roughness: 0.6},
			},
			LightingMood: LightingMood{
				Scheme: "soft", KeyLightIntensity: 0.6, FillRatio: 0.6,
				ColorTemperature: 4000, Contrast: 0.9, ShadowDepth: 0.4,
			},
		},
		{
			ID:   "marble-sculpture",
			Name: "Marble Sculpture",
			Mood: Mood{Intensity: 0.7, Warmth: -0.1, Energy: 0.2, Mystery: 0.2, Sensuality: 0.5, Elegance: 1},
			ColorPalette: Palette{
				Primary: "#f5f5f0", Secondary: "#d4d1cc", Accent: "#b8b5b0",
				Shadow: "#5a5a5a", Highlight: "#ffffff",
			},
			Atmosphere: Atmosphere{
				Ambience: Ambience{Label: "museum", Glow: 0.3, Color: "#f8f8f8"},
			},
			TextureProfile: TextureProfile{
				SkinTone:          SkinTone{Smoothness: 1},
				SurfaceQuality:    SurfaceQuality{Gloss: 0.5, Roughness: 0.2},
				MaterialEmulation: MaterialEmulation{Type: "marble", Intensity: 0.8},
			},
			LightingMood: LightingMood{
				Scheme: "dramatic", KeyLightIntensity: 0.85, FillRatio: 0.3,
				ColorTemperature: 6500, Contrast: 1.2, ShadowDepth: 0.7,
			},
		},
	}
}
