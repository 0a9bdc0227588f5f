// Package surface is the drawing capability the compositor and the aesthetic
// engine render through: composite operators, global alpha, rectangle,
// gradient and pattern fills, image draws and raw pixel access.
package surface

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnknownBlendMode is returned by ParseBlendMode for unregistered names.
var ErrUnknownBlendMode = errors.New("unknown blend mode")

// BlendMode selects how a source color combines with the backdrop.
type BlendMode int

const (
	Normal BlendMode = iota
	Multiply
	Screen
	Overlay
	SoftLight
	HardLight
	ColorDodge
	ColorBurn
	Darken
	Lighten
	Difference
	Exclusion
)

var blendNames = [...]string{
	Normal:     "normal",
	Multiply:   "multiply",
	Screen:     "screen",
	Overlay:    "overlay",
	SoftLight:  "soft-light",
	HardLight:  "hard-light",
	ColorDodge: "color-dodge",
	ColorBurn:  "color-burn",
	Darken:     "darken",
	Lighten:    "lighten",
	Difference: "difference",
	Exclusion:  "exclusion",
}

// BlendModes lists every mode in declaration order.
func BlendModes() []BlendMode {
	out := make([]BlendMode, len(blendNames))
	for i := range blendNames {
		out[i] = BlendMode(i)
	}
	return out
}

func (m BlendMode) String() string {
	if m < 0 || int(m) >= len(blendNames) {
		return fmt.Sprintf("BlendMode(%d)", int(m))
	}
	return blendNames[m]
}

// Valid reports whether m is one of the declared modes.
func (m BlendMode) Valid() bool {
	return m >= 0 && int(m) < len(blendNames)
}

// ParseBlendMode accepts the canvas composite-operator names. "source-over"
// and the empty string mean normal.
func ParseBlendMode(name string) (BlendMode, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", "source-over":
		return Normal, nil
	}
	n = strings.ReplaceAll(n, "_", "-")
	for i, s := range blendNames {
		if s == n {
			return BlendMode(i), nil
		}
	}
	return Normal, fmt.Errorf("blend mode %q: %w", name, ErrUnknownBlendMode)
}

// MarshalText implements encoding.TextMarshaler.
func (m BlendMode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("blend mode %d: %w", int(m), ErrUnknownBlendMode)
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *BlendMode) UnmarshalText(b []byte) error {
	v, err := ParseBlendMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Blend applies the separable blend function B(cb, cs) for one channel, with
// backdrop cb and source cs in [0, 1].
func (m BlendMode) Blend(cb, cs float64) float64 {
	switch m {
	case Multiply:
		return cb * cs
	case Screen:
		return screen(cb, cs)
	case Overlay:
		return hardLight(cs, cb)
	case SoftLight:
		return softLight(cb, cs)
	case HardLight:
		return hardLight(cb, cs)
	case ColorDodge:
		if cb == 0 {
			return 0
		}
		if cs >= 1 {
			return 1
		}
		return math.Min(1, cb/(1-cs))
	case ColorBurn:
		if cb >= 1 {
			return 1
		}
		if cs <= 0 {
			return 0
		}
		return 1 - math.Min(1, (1-cb)/cs)
	case Darken:
		return math.Min(cb, cs)
	case Lighten:
		return math.Max(cb, cs)
	case Difference:
		return math.Abs(cb - cs)
	case Exclusion:
		return cb + cs - 2*cb*cs
	default:
		return cs
	}
}

func screen(cb, cs float64) float64 {
	return cb + cs - cb*cs
}

func hardLight(cb, cs float64) float64 {
	if cs <= 0.5 {
		return cb * 2 * cs
	}
	return screen(cb, 2*cs-1)
}

func softLight(cb, cs float64) float64 {
	if cs <= 0.5 {
		return cb - (1-2*cs)*cb*(1-cb)
	}
	var d float64
	if cb <= 0.25 {
		d = ((16*cb-12)*cb + 4) * cb
	} else {
		d = math.Sqrt(cb)
	}
	return cb + (2*cs-1)*(d-cb)
}

// Composite blends a straight-alpha source over a straight-alpha backdrop
// (all channels in [0, 1]) and returns the straight-alpha result.
func (m BlendMode) Composite(dst, src [4]float64) [4]float64 {
	as, ab := src[3], dst[3]
	if as <= 0 {
		return dst
	}
	ao := as + ab*(1-as)
	if ao <= 0 {
		return [4]float64{}
	}
	var out [4]float64
	for c := range 3 {
		cs, cb := src[c], dst[c]
		mixed := (1-ab)*cs + ab*m.Blend(cb, cs)
		out[c] = (as*mixed + ab*cb*(1-as)) / ao
	}
	out[3] = ao
	return out
}
