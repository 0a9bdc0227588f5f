package render

import (
	"slices"

	"github.com/erinpentecost/canvasfx/internal/pixel"
	"github.com/erinpentecost/canvasfx/internal/procedural"
	"github.com/erinpentecost/canvasfx/internal/surface"
	"gopkg.in/yaml.v3"
)

// LayerType is the role a layer plays in the composite.
type LayerType string

const (
	Background LayerType = "background"
	Subject    LayerType = "subject"
	Foreground LayerType = "foreground"
	Effect     LayerType = "effect"
	Overlay    LayerType = "overlay"
)

var layerOrder = map[LayerType]int{
	Background: 0,
	Subject:    1,
	Foreground: 2,
	Effect:     3,
	Overlay:    4,
}

// Layer is one element of the composition.
type Layer struct {
	ID        string            `yaml:"id"`
	Type      LayerType         `yaml:"type"`
	Opacity   float64           `yaml:"opacity"`
	BlendMode surface.BlendMode `yaml:"blend_mode"`
	Transform Transform         `yaml:"transform"`
	Filters   FilterChain       `yaml:"filters"`

	// Image is the layer's pixel content, resampled to the frame when its
	// size differs. Source is where a host loads it from.
	Image  *pixel.Buffer `yaml:"-"`
	Source string        `yaml:"source,omitempty"`

	// Gradient holds hex stops for background layers, top to bottom.
	Gradient []string `yaml:"gradient,omitempty"`
	// Particles is drawn by effect layers.
	Particles *procedural.ParticleConfig `yaml:"particles,omitempty"`
}

// Transform places a layer like canvas transforms about the origin:
// translate by Position, rotate by Rotation degrees, then scale. A zero Scale
// means 1.
type Transform struct {
	Scale    float64 `yaml:"scale"`
	Rotation float64 `yaml:"rotation"`
	Position Point   `yaml:"position"`
}

type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// NewLayer returns a fully opaque, untransformed normal layer.
func NewLayer(id string, t LayerType) Layer {
	return Layer{
		ID:        id,
		Type:      t,
		Opacity:   1,
		BlendMode: surface.Normal,
		Transform: Transform{Scale: 1},
	}
}

// UnmarshalYAML fills in NewLayer's defaults for fields the document
// leaves out.
func (l *Layer) UnmarshalYAML(n *yaml.Node) error {
	type plain Layer
	p := plain(NewLayer("", ""))
	if err := n.Decode(&p); err != nil {
		return err
	}
	*l = Layer(p)
	return nil
}

func (t Transform) identity() bool {
	return (t.Scale == 0 || t.Scale == 1) && t.Rotation == 0 && t.Position == Point{}
}

// SortLayers returns the layers in render order: background, subject,
// foreground, effect, overlay. Layers of the same type keep their order.
func SortLayers(layers []Layer) []Layer {
	out := slices.Clone(layers)
	slices.SortStableFunc(out, func(a, b Layer) int {
		return layerOrder[a.Type] - layerOrder[b.Type]
	})
	return out
}
