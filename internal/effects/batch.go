package effects

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/erinpentecost/canvasfx/internal/pixel"
	"github.com/sirupsen/logrus"
)

// Effect is one step of a batch. The set of implementations is closed: each
// carries only the parameters its operation needs.
type Effect interface {
	Name() string
	apply(ctx context.Context, p *Processor, src *pixel.Buffer) (*pixel.Buffer, error)
}

// Brightness shifts RGB by (Intensity-50)*5.
type Brightness struct{ Intensity float64 }

// Contrast scales RGB away from or toward 128.
type Contrast struct{ Intensity float64 }

// Saturation blends each channel with the pixel's luma.
type Saturation struct{ Intensity float64 }

// HueShift rotates hue by Degrees.
type HueShift struct{ Degrees float64 }

// Convolve runs the named 3x3 kernel from the processor's registry.
type Convolve struct{ Kernel string }

// Blur is a separable Gaussian blur of Radius pixels.
type Blur struct{ Radius float64 }

// Denoise is a 3x3 median despeckle.
type Denoise struct{ Intensity float64 }

// SkinSmooth blends a despeckled blur back over the original.
type SkinSmooth struct{ Intensity float64 }

// Vintage tones toward sepia and adds film grain.
type Vintage struct{ Intensity float64 }

// HDR compresses highlights and restores local contrast.
type HDR struct{ Intensity float64 }

func (Brightness) Name() string { return "brightness" }
func (Contrast) Name() string   { return "contrast" }
func (Saturation) Name() string { return "saturation" }
func (HueShift) Name() string   { return "hue" }
func (Convolve) Name() string   { return "convolve" }
func (Blur) Name() string       { return "blur" }
func (Denoise) Name() string    { return "denoise" }
func (SkinSmooth) Name() string { return "skin-smooth" }
func (Vintage) Name() string    { return "vintage" }
func (HDR) Name() string        { return "hdr" }

func (e Brightness) apply(ctx context.Context, p *Processor, src *pixel.Buffer) (*pixel.Buffer, error) {
	return p.Brightness(ctx, src, e.Intensity)
}

func (e Contrast) apply(ctx context.Context, p *Processor, src *pixel.Buffer) (*pixel.Buffer, error) {
	return p.Contrast(ctx, src, e.Intensity)
}

func (e Saturation) apply(ctx context.Context, p *Processor, src *pixel.Buffer) (*pixel.Buffer, error) {
	return p.Saturation(ctx, src, e.Intensity)
}

func (e HueShift) apply(ctx context.Context, p *Processor, src *pixel.Buffer) (*pixel.Buffer, error) {
	return p.HueShift(ctx, src, e.Degrees)
}

func (e Convolve) apply(ctx context.Context, p *Processor, src *pixel.Buffer) (*pixel.Buffer, error) {
	return p.Convolve(ctx, src, e.Kernel)
}

func (e Blur) apply(ctx context.Context, p *Processor, src *pixel.Buffer) (*pixel.Buffer, error) {
	return p.Blur(ctx, src, e.Radius)
}

func (e Denoise) apply(ctx context.Context, p *Processor, src *pixel.Buffer) (*pixel.Buffer, error) {
	return p.Denoise(ctx, src, e.Intensity)
}

func (e SkinSmooth) apply(ctx context.Context, p *Processor, src *pixel.Buffer) (*pixel.Buffer, error) {
	return p.SkinSmooth(ctx, src, e.Intensity)
}

func (e Vintage) apply(ctx context.Context, p *Processor, src *pixel.Buffer) (*pixel.Buffer, error) {
	return p.Vintage(ctx, src, e.Intensity)
}

func (e HDR) apply(ctx context.Context, p *Processor, src *pixel.Buffer) (*pixel.Buffer, error) {
	return p.HDR(ctx, src, e.Intensity)
}

// Spec is the declarative form of an effect, as found in config files and on
// the command line. Only the field relevant to Type is read.
type Spec struct {
	Type      string  `yaml:"type"`
	Intensity float64 `yaml:"intensity,omitempty"`
	Radius    float64 `yaml:"radius,omitempty"`
	Degrees   float64 `yaml:"degrees,omitempty"`
	Kernel    string  `yaml:"kernel,omitempty"`
}

// Effect validates the spec and returns the typed effect.
func (s Spec) Effect() (Effect, error) {
	switch strings.ToLower(strings.TrimSpace(s.Type)) {
	case "brightness":
		return Brightness{Intensity: s.Intensity}, nil
	case "contrast":
		return Contrast{Intensity: s.Intensity}, nil
	case "saturation", "saturate":
		return Saturation{Intensity: s.Intensity}, nil
	case "hue", "hue-shift", "hue-rotate":
		return HueShift{Degrees: s.Degrees}, nil
	case "convolve", "kernel":
		if s.Kernel == "" {
			return nil, fmt.Errorf("effect %q: missing kernel name: %w", s.Type, ErrUnknownKernel)
		}
		return Convolve{Kernel: s.Kernel}, nil
	case "blur":
		return Blur{Radius: s.Radius}, nil
	case "denoise", "noise-reduction":
		return Denoise{Intensity: s.Intensity}, nil
	case "skin-smooth", "skin-smoothing":
		return SkinSmooth{Intensity: s.Intensity}, nil
	case "vintage":
		return Vintage{Intensity: s.Intensity}, nil
	case "hdr":
		return HDR{Intensity: s.Intensity}, nil
	default:
		return nil, fmt.Errorf("effect %q: %w", s.Type, ErrUnknownEffect)
	}
}

// Effects converts a list of specs, failing on the first invalid one.
func Effects(specs []Spec) ([]Effect, error) {
	out := make([]Effect, 0, len(specs))
	for i, s := range specs {
		e, err := s.Effect()
		if err != nil {
			return nil, fmt.Errorf("effect %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// Effects builds specs like the package-level Effects and also looks up
// every convolve kernel in p's registry.
func (p *Processor) Effects(specs []Spec) ([]Effect, error) {
	out, err := Effects(specs)
	if err != nil {
		return nil, err
	}
	for i, e := range out {
		if c, ok := e.(Convolve); ok {
			if _, err := p.kernels.Get(c.Kernel); err != nil {
				return nil, fmt.Errorf("effect %d: %w", i, err)
			}
		}
	}
	return out, nil
}

// ParseSpec reads the short "name:value" form used on the command line. The
// value is the radius for blur, degrees for hue, the kernel name for convolve
// and the 0–100 intensity for everything else. A missing value means 50 (or
// 0 degrees / no radius).
func ParseSpec(s string) (Spec, error) {
	name, value, hasValue := strings.Cut(strings.TrimSpace(s), ":")
	spec := Spec{Type: strings.ToLower(name), Intensity: 50}
	if hasValue {
		switch spec.Type {
		case "convolve", "kernel":
			spec.Kernel = value
		default:
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Spec{}, fmt.Errorf("effect %q: bad value %q: %w", name, value, err)
			}
			switch spec.Type {
			case "blur":
				spec.Radius = v
			case "hue", "hue-shift", "hue-rotate":
				spec.Degrees = v
			default:
				spec.Intensity = v
			}
		}
	}
	if _, err := spec.Effect(); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

// ParseSpecs parses each command-line effect in order.
func ParseSpecs(args []string) ([]Spec, error) {
	specs := make([]Spec, 0, len(args))
	for _, a := range args {
		s, err := ParseSpec(a)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// ApplyBatch runs effects over src in list order and returns the final
// buffer. src is never modified.
func (p *Processor) ApplyBatch(ctx context.Context, src *pixel.Buffer, effects []Effect) (*pixel.Buffer, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}
	p.log.WithFields(logrus.Fields{
		"function":     "Processor.ApplyBatch",
		"effect_count": len(effects),
		"width":        src.Width,
		"height":       src.Height,
	}).Debug("Applying effect batch")

	current := src.Clone()
	for i, e := range effects {
		next, err := e.apply(ctx, p, current)
		if err != nil {
			return nil, fmt.Errorf("effect %d (%s): %w", i, e.Name(), err)
		}
		p.log.WithFields(logrus.Fields{
			"function":     "Processor.ApplyBatch",
			"effect_index": i,
			"effect_name":  e.Name(),
		}).Debug("Applied effect")
		current = next
	}
	return current, nil
}

// ApplyInRect is the in-place variant for brush edits: effects run on the
// part of dst inside r and the result is written back into dst. Pixels
// outside r are never touched. Convolution-style effects treat the edge of r
// as the image border.
func (p *Processor) ApplyInRect(ctx context.Context, dst *pixel.Buffer, r image.Rectangle, effects ...Effect) error {
	if err := dst.Validate(); err != nil {
		return err
	}
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return nil
	}
	region, err := p.ApplyBatch(ctx, dst.SubBuffer(r), effects)
	if err != nil {
		return err
	}
	dst.Paste(region, r.Min)
	return nil
}
