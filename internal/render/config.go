package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/erinpentecost/canvasfx/internal/procedural"
	"github.com/erinpentecost/canvasfx/internal/surface"
)

// ErrConfiguration is wrapped by every ConfigurationError.
var ErrConfiguration = errors.New("invalid render configuration")

// ConfigurationError names the offending field of a Config.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

func invalid(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Config describes one render. It is read, never retained.
type Config struct {
	Lighting       Lighting       `yaml:"lighting"`
	Depth          Depth          `yaml:"depth"`
	Layers         []Layer        `yaml:"layers"`
	Cinematography Cinematography `yaml:"cinematography"`
	Quality        Quality        `yaml:"quality"`
	// Profile optionally names an aesthetic profile applied after the layers.
	Profile string `yaml:"profile,omitempty"`
}

// Lighting groups the ambient fill with the lights and shadow on the subject.
type Lighting struct {
	Ambient Ambient `yaml:"ambient"`
	Lights  []Light `yaml:"lights"`
	Shadows Shadows `yaml:"shadows"`
}

// Ambient is the colour the frame is filled with before any layer is drawn.
type Ambient struct {
	Color     string  `yaml:"color"`
	Intensity float64 `yaml:"intensity"`
}

// Light is a point light over the subject. X and Y are fractions of the
// frame; Radius is in output pixels.
type Light struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Radius    float64 `yaml:"radius"`
	Color     string  `yaml:"color"`
	Intensity float64 `yaml:"intensity"`
}

// Shadows configures the drop shadow placed behind subject layers.
type Shadows struct {
	Enabled  bool    `yaml:"enabled"`
	Softness float64 `yaml:"softness"`
	Opacity  float64 `yaml:"opacity"`
	OffsetX  float64 `yaml:"offset_x"`
	OffsetY  float64 `yaml:"offset_y"`
	Color    string  `yaml:"color"`
}

// Depth controls the depth-of-field blur over the composited frame.
type Depth struct {
	FieldOfView    float64 `yaml:"field_of_view"`
	FocusDistance  float64 `yaml:"focus_distance"`
	Aperture       float64 `yaml:"aperture"`
	BokehIntensity float64 `yaml:"bokeh_intensity"`
	DepthOfField   bool    `yaml:"depth_of_field"`
}

// Cinematography carries the framing and grading of the shot. Camera and
// Composition are descriptive and do not change pixels.
type Cinematography struct {
	Camera       Camera       `yaml:"camera"`
	Composition  string       `yaml:"composition"`
	ColorGrading ColorGrading `yaml:"color_grading"`
	Vignette     float64      `yaml:"vignette"`
}

// Camera describes the shot position.
type Camera struct {
	Angle    float64 `yaml:"angle"`
	Height   float64 `yaml:"height"`
	Distance float64 `yaml:"distance"`
}

// ColorGrading multiplies channels by Highlights and Contrast and scales
// saturation. Zero fields are unset and act as 1.
type ColorGrading struct {
	Highlights RGB     `yaml:"highlights"`
	Contrast   float64 `yaml:"contrast"`
	Saturation float64 `yaml:"saturation"`
}

// RGB holds per-channel multipliers.
type RGB struct {
	R float64 `yaml:"r"`
	G float64 `yaml:"g"`
	B float64 `yaml:"b"`
}

// Quality sets the output size and sampling.
type Quality struct {
	Resolution   Resolution `yaml:"resolution"`
	AntiAliasing string     `yaml:"anti_aliasing"`
	RenderScale  float64    `yaml:"render_scale"`
}

// Resolution is the output size in pixels.
type Resolution struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

const (
	AntiAliasingNone = "none"
	AntiAliasingSMAA = "smaa"
)

// DefaultConfig returns a 1920x1080 single key-light setup with soft
// shadows and SMAA, and no layers.
func DefaultConfig() Config {
	return Config{
		Lighting: Lighting{
			Ambient: Ambient{Color: "#404040", Intensity: 1},
			Lights: []Light{
				{X: 0.3, Y: 0.2, Radius: 600, Color: "#fff5e6", Intensity: 0.8},
			},
			Shadows: Shadows{
				Enabled:  true,
				Softness: 0.5,
				Opacity:  0.4,
				OffsetX:  10,
				OffsetY:  10,
				Color:    "#000000",
			},
		},
		Depth: Depth{
			FieldOfView:   50,
			FocusDistance: 1,
			Aperture:      2.8,
		},
		Cinematography: Cinematography{
			Camera:      Camera{Distance: 1},
			Composition: "rule-of-thirds",
			ColorGrading: ColorGrading{
				Highlights: RGB{1, 1, 1},
				Contrast:   1,
				Saturation: 1,
			},
		},
		Quality: Quality{
			Resolution:   Resolution{Width: 1920, Height: 1080},
			AntiAliasing: AntiAliasingSMAA,
			RenderScale:  1,
		},
	}
}

// Validate reports the first malformed field as a *ConfigurationError. A
// layer with an unknown blend mode fails with surface.ErrUnknownBlendMode.
func (c Config) Validate() error {
	if err := c.Lighting.validate(); err != nil {
		return err
	}
	q := c.Quality
	if q.Resolution.Width <= 0 || q.Resolution.Height <= 0 {
		return invalid("quality.resolution", "must be positive, got %dx%d", q.Resolution.Width, q.Resolution.Height)
	}
	if q.RenderScale <= 0 {
		return invalid("quality.render_scale", "must be positive, got %g", q.RenderScale)
	}
	switch strings.ToLower(q.AntiAliasing) {
	case "", AntiAliasingNone, AntiAliasingSMAA:
	default:
		return invalid("quality.anti_aliasing", "unknown mode %q", q.AntiAliasing)
	}
	if f := c.Depth.FocusDistance; f < 0 || f > 1 {
		return invalid("depth.focus_distance", "must be in [0, 1], got %g", f)
	}
	if c.Depth.BokehIntensity < 0 {
		return invalid("depth.bokeh_intensity", "must not be negative")
	}
	if v := c.Cinematography.Vignette; v < 0 || v > 1 {
		return invalid("cinematography.vignette", "must be in [0, 1], got %g", v)
	}
	for i, l := range c.Layers {
		if err := l.validate(); err != nil {
			return fmt.Errorf("layers[%d]: %w", i, err)
		}
	}
	return nil
}

func (l Lighting) validate() error {
	if l.Ambient.Color == "" {
		return invalid("lighting.ambient.color", "missing")
	}
	if _, err := procedural.ParseColor(l.Ambient.Color); err != nil {
		return invalid("lighting.ambient.color", "%v", err)
	}
	if l.Ambient.Intensity < 0 || l.Ambient.Intensity > 1 {
		return invalid("lighting.ambient.intensity", "must be in [0, 1], got %g", l.Ambient.Intensity)
	}
	for i, light := range l.Lights {
		field := fmt.Sprintf("lighting.lights[%d]", i)
		if light.Radius <= 0 {
			return invalid(field+".radius", "must be positive, got %g", light.Radius)
		}
		if light.Intensity < 0 {
			return invalid(field+".intensity", "must not be negative, got %g", light.Intensity)
		}
		if _, err := procedural.ParseColor(light.Color); err != nil {
			return invalid(field+".color", "%v", err)
		}
	}
	s := l.Shadows
	if !s.Enabled {
		return nil
	}
	if s.Softness < 0 || s.Softness > 1 {
		return invalid("lighting.shadows.softness", "must be in [0, 1], got %g", s.Softness)
	}
	if s.Opacity < 0 || s.Opacity > 1 {
		return invalid("lighting.shadows.opacity", "must be in [0, 1], got %g", s.Opacity)
	}
	if s.Color != "" {
		if _, err := procedural.ParseColor(s.Color); err != nil {
			return invalid("lighting.shadows.color", "%v", err)
		}
	}
	return nil
}

func (l Layer) validate() error {
	if _, ok := layerOrder[l.Type]; !ok {
		return invalid("type", "unknown layer type %q", l.Type)
	}
	if l.Opacity < 0 || l.Opacity > 1 {
		return invalid("opacity", "must be in [0, 1], got %g", l.Opacity)
	}
	if !l.BlendMode.Valid() {
		return fmt.Errorf("layer %q blend mode %d: %w", l.ID, l.BlendMode, surface.ErrUnknownBlendMode)
	}
	if l.Image != nil {
		if err := l.Image.Validate(); err != nil {
			return fmt.Errorf("layer %q image: %w", l.ID, err)
		}
	}
	if _, err := procedural.EvenStops(l.Gradient); err != nil {
		return invalid("gradient", "%v", err)
	}
	if l.Particles != nil {
		if _, err := procedural.ParseParticleType(string(l.Particles.Type)); err != nil {
			return invalid("particles.type", "%v", err)
		}
	}
	for _, f := range l.Filters {
		if _, ok := filterRank[f.Kind]; !ok {
			return invalid("filters", "unknown filter %q", f.Kind)
		}
	}
	return nil
}
