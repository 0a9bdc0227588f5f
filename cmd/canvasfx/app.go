package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/erinpentecost/canvasfx/internal/aesthetic"
	"github.com/erinpentecost/canvasfx/internal/codec"
	"github.com/erinpentecost/canvasfx/internal/config"
	"github.com/erinpentecost/canvasfx/internal/effects"
	"github.com/erinpentecost/canvasfx/internal/render"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// globalFlags are shared by every subcommand and override the config file.
type globalFlags struct {
	configPath string
	workers    int
	logLevel   string
	seed       int64
}

func (g *globalFlags) register(fl *pflag.FlagSet) {
	fl.StringVarP(&g.configPath, "config", "c", "", "YAML configuration file")
	fl.IntVar(&g.workers, "workers", 0, "goroutines per pass and per batch of files (0 keeps the config value)")
	fl.StringVar(&g.logLevel, "log-level", "", "log level (overrides log_level)")
	fl.Int64Var(&g.seed, "seed", 0, "random seed for grain, particles and atmosphere (0 keeps the config value)")
}

// app holds the service objects. They are built once per invocation and
// handed to the subcommand.
type app struct {
	cfg      config.Config
	baseDir  string
	log      *logrus.Entry
	fx       *effects.Processor
	engine   *aesthetic.Engine
	renderer *render.Renderer
}

func (g *globalFlags) newApp() (*app, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.workers > 0 {
		cfg.Workers = g.workers
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if g.seed != 0 {
		cfg.Seed = g.seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	logger := logrus.New()
	logger.SetLevel(cfg.Level())
	log := logrus.NewEntry(logger)

	a := &app{cfg: cfg, log: log}
	if g.configPath != "" {
		a.baseDir = filepath.Dir(g.configPath)
	}
	a.fx = effects.New(
		effects.WithWorkers(cfg.Workers),
		effects.WithSeed(cfg.Seed),
		effects.WithLogger(log),
	)
	a.engine = aesthetic.NewEngine(
		aesthetic.WithWorkers(cfg.Workers),
		aesthetic.WithSeed(cfg.Seed),
		aesthetic.WithLogger(log),
	)
	for _, p := range cfg.Profiles {
		if err := a.loadProfiles(a.resolve(p)); err != nil {
			return nil, err
		}
	}
	a.renderer = render.NewRenderer(
		render.WithEffects(a.fx),
		render.WithProfiles(a.engine),
		render.WithSeed(cfg.Seed),
		render.WithLogger(log),
	)

	log.WithFields(logrus.Fields{
		"function": "newApp",
		"config":   g.configPath,
		"workers":  cfg.Workers,
		"seed":     cfg.Seed,
	}).Debug("Loaded configuration")
	return a, nil
}

// resolve makes paths from the config file relative to the file itself.
func (a *app) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || a.baseDir == "" {
		return p
	}
	return filepath.Join(a.baseDir, p)
}

func (a *app) loadProfiles(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open profiles %q: %w", path, err)
	}
	defer f.Close()
	loaded, err := a.engine.LoadProfiles(f)
	if err != nil {
		return fmt.Errorf("profiles %q: %w", path, err)
	}
	a.log.WithFields(logrus.Fields{
		"function": "loadProfiles",
		"file":     path,
		"count":    len(loaded),
	}).Info("Registered profiles")
	return nil
}

// loadLayerSources decodes every layer Source into its Image.
func (a *app) loadLayerSources(cfg *render.Config) error {
	for i := range cfg.Layers {
		l := &cfg.Layers[i]
		if l.Source == "" || l.Image != nil {
			continue
		}
		img, _, err := codec.DecodeFile(a.resolve(l.Source))
		if err != nil {
			return fmt.Errorf("layer %q: %w", l.ID, err)
		}
		l.Image = img
	}
	return nil
}
