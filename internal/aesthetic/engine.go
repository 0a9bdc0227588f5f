// Package aesthetic applies named looks to a surface: a color mood pass, fog
// and particles, a lighting ramp and a tiled material texture.
package aesthetic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/erinpentecost/canvasfx/internal/parallel"
	"github.com/erinpentecost/canvasfx/internal/procedural"
	"github.com/erinpentecost/canvasfx/internal/surface"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already registered")
	ErrInvalidProfile  = errors.New("invalid profile")
	ErrUnknownScheme   = errors.New("unknown lighting scheme")
	// ErrUnknownMaterial is procedural.ErrUnknownMaterial.
	ErrUnknownMaterial = procedural.ErrUnknownMaterial
)

// Engine is the profile registry and renderer. Registered profiles are
// never changed; customizing one registers a copy under a new ID.
type Engine struct {
	mu       sync.RWMutex
	profiles map[string]Profile

	workers int
	seed    int64
	log     *logrus.Entry
}

type Option func(*Engine)

func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithSeed fixes the particle and vein source. Zero picks a time-based seed.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

func WithLogger(l *logrus.Entry) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine returns an engine holding the built-in profiles.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		profiles: make(map[string]Profile),
		log:      logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.workers = parallel.Workers(e.workers)
	if e.seed == 0 {
		e.seed = time.Now().UnixNano()
	}
	for _, p := range Builtins() {
		e.profiles[p.ID] = p
	}
	return e
}

// Register adds p. IDs are unique and registered profiles are immutable.
func (e *Engine) Register(p Profile) error {
	if err := p.validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.profiles[p.ID]; ok {
		return fmt.Errorf("profile %q: %w", p.ID, ErrProfileExists)
	}
	e.profiles[p.ID] = p
	return nil
}

func (e *Engine) Get(id string) (Profile, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, ok := e.profiles[id]
	if !ok {
		return Profile{}, fmt.Errorf("profile %q: %w", id, ErrProfileNotFound)
	}
	return p, nil
}

// List returns every profile sorted by ID.
func (e *Engine) List() []Profile {
	e.mu.RLock()
	out := make([]Profile, 0, len(e.profiles))
	for _, p := range e.profiles {
		out = append(out, p)
	}
	e.mu.RUnlock()
	slices.SortFunc(out, func(a, b Profile) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// CreateCustomProfile copies the base profile, replaces each section that is
// non-zero in overrides, and registers the result under a fresh UUID.
func (e *Engine) CreateCustomProfile(baseID string, overrides Profile) (Profile, error) {
	base, err := e.Get(baseID)
	if err != nil {
		return Profile{}, err
	}
	custom := base.merge(overrides)
	custom.ID = uuid.NewString()
	if overrides.Name == "" {
		custom.Name = base.Name + " (custom)"
	}
	if err := e.Register(custom); err != nil {
		return Profile{}, err
	}
	e.log.WithFields(logrus.Fields{
		"function": "Engine.CreateCustomProfile",
		"base":     baseID,
		"id":       custom.ID,
	}).Info("Created custom profile")
	return custom, nil
}

// LoadProfiles reads a YAML list of profiles and registers each of them. It
// stops at the first profile that fails to register.
func (e *Engine) LoadProfiles(r io.Reader) ([]Profile, error) {
	var profiles []Profile
	if err := yaml.NewDecoder(r).Decode(&profiles); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}
	for i, p := range profiles {
		if err := e.Register(p); err != nil {
			return profiles[:i], err
		}
	}
	return profiles, nil
}

func (p Profile) validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("missing id: %w", ErrInvalidProfile)
	}
	if w := p.Mood.Warmth; w < -1 || w > 1 {
		return fmt.Errorf("profile %q warmth %g: %w", p.ID, w, ErrInvalidProfile)
	}
	for name, v := range map[string]float64{
		"intensity":  p.Mood.Intensity,
		"energy":     p.Mood.Energy,
		"mystery":    p.Mood.Mystery,
		"sensuality": p.Mood.Sensuality,
		"elegance":   p.Mood.Elegance,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("profile %q %s %g: %w", p.ID, name, v, ErrInvalidProfile)
		}
	}
	if pt := p.Atmosphere.Particles.Type; pt != "" {
		if _, err := procedural.ParseParticleType(string(pt)); err != nil {
			return fmt.Errorf("profile %q: %w", p.ID, err)
		}
	}
	if lm := p.LightingMood; lm.Scheme != "" && !strings.EqualFold(lm.Scheme, "none") {
		if _, err := lightingGradient(lm, 1, 1); err != nil {
			return fmt.Errorf("profile %q: %w", p.ID, err)
		}
	}
	if t := p.TextureProfile.MaterialEmulation.Type; t != "" && !strings.EqualFold(t, "none") &&
		!slices.Contains(procedural.Materials(), procedural.Material(strings.ToLower(t))) {
		return fmt.Errorf("profile %q material %q: %w", p.ID, t, ErrUnknownMaterial)
	}
	return nil
}

// Apply draws profile id onto s: color mood, atmosphere, lighting mood and
// material, in that order. Stages whose driver is zero are skipped.
func (e *Engine) Apply(ctx context.Context, s surface.Surface, id string) error {
	p, err := e.Get(id)
	if err != nil {
		return err
	}
	log := e.log.WithFields(logrus.Fields{
		"function": "Engine.Apply",
		"profile":  p.ID,
	})
	if p.Mood.Intensity <= 0 {
		log.Debug("Profile intensity is zero, nothing to apply")
		return nil
	}
	rng := rand.New(rand.NewSource(e.seed))
	stages := []struct {
		name string
		fn   func() error
	}{
		{"color mood", func() error { return e.applyColorMood(ctx, s, p) }},
		{"atmosphere", func() error { return applyAtmosphere(s, p, rng) }},
		{"lighting mood", func() error { return applyLightingMood(s, p) }},
		{"material", func() error { return applyMaterial(s, p, rng) }},
	}
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := st.fn(); err != nil {
			return fmt.Errorf("%s: %w", st.name, err)
		}
		log.WithField("stage", st.name).Debug("Applied stage")
	}
	return nil
}
