package render

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/erinpentecost/canvasfx/internal/effects"
	"github.com/erinpentecost/canvasfx/internal/parallel"
	"github.com/erinpentecost/canvasfx/internal/pixel"
)

// ErrBadFilter is returned by ParseFilterChain for text it cannot read.
var ErrBadFilter = errors.New("malformed filter")

// FilterKind names a CSS filter function.
type FilterKind string

const (
	FilterBlur       FilterKind = "blur"
	FilterBrightness FilterKind = "brightness"
	FilterContrast   FilterKind = "contrast"
	FilterSaturate   FilterKind = "saturate"
	FilterHueRotate  FilterKind = "hue-rotate"
)

var filterRank = map[FilterKind]int{
	FilterBlur:       0,
	FilterBrightness: 1,
	FilterContrast:   2,
	FilterSaturate:   3,
	FilterHueRotate:  4,
}

// FilterEffect is one CSS-style filter function. Value is a blur radius in
// pixels, a hue rotation in degrees, or a multiplier where 1 is identity.
type FilterEffect struct {
	Kind  FilterKind `yaml:"type"`
	Value float64    `yaml:"value"`
}

func (f FilterEffect) String() string {
	v := strconv.FormatFloat(f.Value, 'g', -1, 64)
	switch f.Kind {
	case FilterBlur:
		return fmt.Sprintf("blur(%spx)", v)
	case FilterHueRotate:
		return fmt.Sprintf("hue-rotate(%sdeg)", v)
	default:
		return fmt.Sprintf("%s(%s)", f.Kind, v)
	}
}

// FilterChain is applied in the fixed order blur, brightness, contrast,
// saturate, hue-rotate no matter how it was listed.
type FilterChain []FilterEffect

func (c FilterChain) ordered() FilterChain {
	out := slices.Clone(c)
	slices.SortStableFunc(out, func(a, b FilterEffect) int {
		return filterRank[a.Kind] - filterRank[b.Kind]
	})
	return out
}

// String renders the chain as a CSS filter property value.
func (c FilterChain) String() string {
	parts := make([]string, 0, len(c))
	for _, f := range c.ordered() {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, " ")
}

// ParseFilterChain reads the text String produces. Percent values are
// accepted for the multiplier filters.
func ParseFilterChain(s string) (FilterChain, error) {
	var chain FilterChain
	rest := strings.TrimSpace(s)
	for rest != "" {
		open := strings.IndexByte(rest, '(')
		end := strings.IndexByte(rest, ')')
		if open <= 0 || end < open {
			return nil, fmt.Errorf("%q: %w", rest, ErrBadFilter)
		}
		kind := FilterKind(strings.ToLower(strings.TrimSpace(rest[:open])))
		if _, ok := filterRank[kind]; !ok {
			return nil, fmt.Errorf("unknown filter %q: %w", kind, ErrBadFilter)
		}
		arg := strings.TrimSpace(rest[open+1 : end])
		scale := 1.0
		switch {
		case kind == FilterBlur:
			arg = strings.TrimSuffix(arg, "px")
		case kind == FilterHueRotate:
			arg = strings.TrimSuffix(arg, "deg")
		case strings.HasSuffix(arg, "%"):
			arg, scale = strings.TrimSuffix(arg, "%"), 0.01
		}
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("%s argument %q: %w", kind, arg, ErrBadFilter)
		}
		chain = append(chain, FilterEffect{Kind: kind, Value: v * scale})
		rest = strings.TrimSpace(rest[end+1:])
	}
	return chain, nil
}

// Apply runs the chain over src. Each filter reads the clamped output of the
// one before it.
func (c FilterChain) Apply(ctx context.Context, fx *effects.Processor, src *pixel.Buffer) (*pixel.Buffer, error) {
	out := src
	for _, f := range c.ordered() {
		var (
			next *pixel.Buffer
			err  error
		)
		switch f.Kind {
		case FilterBlur:
			// CSS blur takes the standard deviation; the kernel spans 3 sigma
			next, err = fx.Blur(ctx, out, f.Value*3)
		case FilterBrightness:
			next, err = brightnessMatrix(f.Value).apply(ctx, fx.Workers(), out)
		case FilterContrast:
			next, err = contrastMatrix(f.Value).apply(ctx, fx.Workers(), out)
		case FilterSaturate:
			next, err = saturateMatrix(f.Value).apply(ctx, fx.Workers(), out)
		case FilterHueRotate:
			next, err = hueRotateMatrix(f.Value).apply(ctx, fx.Workers(), out)
		default:
			return nil, fmt.Errorf("filter %q: %w", f.Kind, ErrBadFilter)
		}
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", f, err)
		}
		out = next
	}
	if out == src {
		return src.Clone(), nil
	}
	return out, nil
}

// colorMatrix is a 3x4 row-major RGB transform whose last column is an
// offset in 0-255 units.
type colorMatrix [12]float64

func brightnessMatrix(f float64) colorMatrix {
	return colorMatrix{
		f, 0, 0, 0,
		0, f, 0, 0,
		0, 0, f, 0,
	}
}

func contrastMatrix(f float64) colorMatrix {
	o := 127.5 * (1 - f)
	return colorMatrix{
		f, 0, 0, o,
		0, f, 0, o,
		0, 0, f, o,
	}
}

// CSS filter luminance weights.
const (
	cssLumR = 0.213
	cssLumG = 0.715
	cssLumB = 0.072
)

func saturateMatrix(s float64) colorMatrix {
	return colorMatrix{
		cssLumR + (1-cssLumR)*s, cssLumG - cssLumG*s, cssLumB - cssLumB*s, 0,
		cssLumR - cssLumR*s, cssLumG + (1-cssLumG)*s, cssLumB - cssLumB*s, 0,
		cssLumR - cssLumR*s, cssLumG - cssLumG*s, cssLumB + (1-cssLumB)*s, 0,
	}
}

func hueRotateMatrix(deg float64) colorMatrix {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return colorMatrix{
		cssLumR + cos*(1-cssLumR) - sin*cssLumR, cssLumG - cos*cssLumG - sin*cssLumG, cssLumB - cos*cssLumB + sin*(1-cssLumB), 0,
		cssLumR - cos*cssLumR + sin*0.143, cssLumG + cos*(1-cssLumG) + sin*0.140, cssLumB - cos*cssLumB - sin*0.283, 0,
		cssLumR - cos*cssLumR - sin*(1-cssLumR), cssLumG - cos*cssLumG + sin*cssLumG, cssLumB + cos*(1-cssLumB) + sin*cssLumB, 0,
	}
}

func (m colorMatrix) apply(ctx context.Context, workers int, src *pixel.Buffer) (*pixel.Buffer, error) {
	out := src.Clone()
	row := out.Width * 4
	err := parallel.Rows(ctx, out.Height, workers, func(y0, y1 int) error {
		for i := y0 * row; i < y1*row; i += 4 {
			r, g, b := float64(out.Pix[i]), float64(out.Pix[i+1]), float64(out.Pix[i+2])
			out.Pix[i] = pixel.Clamp(m[0]*r + m[1]*g + m[2]*b + m[3])
			out.Pix[i+1] = pixel.Clamp(m[4]*r + m[5]*g + m[6]*b + m[7])
			out.Pix[i+2] = pixel.Clamp(m[8]*r + m[9]*g + m[10]*b + m[11])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
