package main

import (
	"context"
	"fmt"

	"github.com/erinpentecost/canvasfx/internal/codec"
	"github.com/erinpentecost/canvasfx/internal/render"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"go.coder.com/cli"
)

type renderCmd struct {
	global  globalFlags
	in      string
	profile string
	out     string
	width   int
	height  int
	quality float64
}

func (c *renderCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:  "render",
		Usage: "--config file --out file [flags]",
		Desc:  "Composite the layers from the config's render section into one image.",
	}
}

func (c *renderCmd) RegisterFlags(fl *pflag.FlagSet) {
	c.global.register(fl)
	fl.StringVarP(&c.in, "in", "i", "", "subject image; fills the first subject layer or adds one")
	fl.StringVarP(&c.profile, "profile", "p", "", "aesthetic profile (overrides render.profile)")
	fl.StringVarP(&c.out, "out", "o", "", "output file")
	fl.IntVar(&c.width, "width", 0, "output width (overrides the configured resolution)")
	fl.IntVar(&c.height, "height", 0, "output height (overrides the configured resolution)")
	fl.Float64VarP(&c.quality, "quality", "q", -1, "JPEG quality in [0,1] (default: config quality)")
}

func (c *renderCmd) Run(fl *pflag.FlagSet) {
	if c.out == "" {
		fail(fmt.Errorf("render: --out is required"))
	}
	a, err := c.global.newApp()
	if err != nil {
		fail(err)
	}
	ctx, cancel := runContext()
	defer cancel()
	if err := c.run(ctx, a); err != nil {
		fail(err)
	}
}

func (c *renderCmd) run(ctx context.Context, a *app) error {
	cfg, err := c.renderConfig(a)
	if err != nil {
		return err
	}
	frame, err := a.renderer.Render(ctx, cfg)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	quality := a.cfg.Quality
	if c.quality >= 0 {
		quality = c.quality
	}
	if err := codec.EncodeFile(c.out, frame, quality); err != nil {
		return err
	}
	a.log.WithFields(logrus.Fields{
		"function": "renderCmd.run",
		"output":   c.out,
		"width":    frame.Width,
		"height":   frame.Height,
	}).Info("Wrote render")
	return nil
}

// renderConfig copies the configured scene and layers the flags on top.
func (c *renderCmd) renderConfig(a *app) (render.Config, error) {
	cfg := a.cfg.Render
	cfg.Layers = append([]render.Layer(nil), cfg.Layers...)
	if c.profile != "" {
		cfg.Profile = c.profile
	}
	if c.width > 0 {
		cfg.Quality.Resolution.Width = c.width
	}
	if c.height > 0 {
		cfg.Quality.Resolution.Height = c.height
	}
	if c.in != "" {
		subject, _, err := codec.DecodeFile(c.in)
		if err != nil {
			return render.Config{}, err
		}
		placed := false
		for i := range cfg.Layers {
			if cfg.Layers[i].Type == render.Subject {
				cfg.Layers[i].Image = subject
				cfg.Layers[i].Source = ""
				placed = true
				break
			}
		}
		if !placed {
			l := render.NewLayer("subject", render.Subject)
			l.Image = subject
			cfg.Layers = append(cfg.Layers, l)
		}
	}
	if err := a.loadLayerSources(&cfg); err != nil {
		return render.Config{}, err
	}
	return cfg, nil
}
