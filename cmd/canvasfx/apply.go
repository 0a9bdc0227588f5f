package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/erinpentecost/canvasfx/internal/codec"
	"github.com/erinpentecost/canvasfx/internal/dds"
	"github.com/erinpentecost/canvasfx/internal/effects"
	"github.com/erinpentecost/canvasfx/internal/history"
	"github.com/erinpentecost/canvasfx/internal/parallel"
	"github.com/erinpentecost/canvasfx/internal/pixel"
	"github.com/erinpentecost/canvasfx/internal/postprocess"
	"github.com/erinpentecost/canvasfx/internal/surface"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"go.coder.com/cli"
	"golang.org/x/sync/errgroup"
)

type applyCmd struct {
	global     globalFlags
	effects    []string
	outDir     string
	suffix     string
	format     string
	quality    float64
	profile    string
	undo       int
	powerOfTwo int
	ddsCodec   string
}

func (c *applyCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:  "apply",
		Usage: "[flags] input...",
		Desc:  "Run an effect chain (and optionally a profile) over each input image.",
	}
}

func (c *applyCmd) RegisterFlags(fl *pflag.FlagSet) {
	c.global.register(fl)
	fl.StringArrayVarP(&c.effects, "effect", "e", nil, "effect as name[:value], repeatable; replaces the config's effects")
	fl.StringVarP(&c.outDir, "out-dir", "o", "", "output directory (default: next to each input)")
	fl.StringVar(&c.suffix, "suffix", "_fx", "appended to each output file name")
	fl.StringVarP(&c.format, "format", "f", "", "output format (default: same as input)")
	fl.Float64VarP(&c.quality, "quality", "q", -1, "JPEG quality in [0,1] (default: config quality)")
	fl.StringVarP(&c.profile, "profile", "p", "", "aesthetic profile applied after the effects")
	fl.IntVar(&c.undo, "undo", 0, "drop the last N effect steps before writing")
	fl.IntVar(&c.powerOfTwo, "pot", 0, "resize onto a power-of-two square after shrinking by this factor (0 = off)")
	fl.StringVar(&c.ddsCodec, "dds", "lossless", "codec for .dds output: lossless, dxt1 or dxt5")
}

func (c *applyCmd) Run(fl *pflag.FlagSet) {
	if fl.NArg() == 0 {
		fail(fmt.Errorf("apply: no input files"))
	}
	a, err := c.global.newApp()
	if err != nil {
		fail(err)
	}
	ctx, cancel := runContext()
	defer cancel()
	if err := c.run(ctx, a, fl.Args()); err != nil {
		fail(err)
	}
}

// applyJob is everything needed to process one file, resolved up front so
// the workers never touch flags or config.
type applyJob struct {
	input   string
	output  string
	effects []effects.Effect
	profile string
	undo    int
	pot     int
	quality float64
	dds     dds.Codec
}

func (c *applyCmd) run(ctx context.Context, a *app, inputs []string) error {
	specs := a.cfg.Effects
	if len(c.effects) > 0 {
		var err error
		if specs, err = effects.ParseSpecs(c.effects); err != nil {
			return err
		}
	}
	chain, err := a.fx.Effects(specs)
	if err != nil {
		return err
	}
	if c.profile != "" {
		if _, err := a.engine.Get(c.profile); err != nil {
			return err
		}
	}
	ddsCodec, err := dds.ParseCodec(c.ddsCodec)
	if err != nil {
		return err
	}
	quality := a.cfg.Quality
	if c.quality >= 0 {
		quality = c.quality
	}

	jobs := make([]applyJob, 0, len(inputs))
	for _, in := range inputs {
		out, err := c.outputPath(in)
		if err != nil {
			return err
		}
		jobs = append(jobs, applyJob{
			input:   in,
			output:  out,
			effects: chain,
			profile: c.profile,
			undo:    c.undo,
			pot:     c.powerOfTwo,
			quality: quality,
			dds:     ddsCodec,
		})
	}
	if c.outDir != "" {
		if err := os.MkdirAll(c.outDir, 0o755); err != nil {
			return fmt.Errorf("create %q: %w", c.outDir, err)
		}
	}

	a.log.WithFields(logrus.Fields{
		"function": "applyCmd.run",
		"inputs":   len(jobs),
		"effects":  len(chain),
		"profile":  c.profile,
	}).Info("Applying effects")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel.Workers(a.cfg.Workers))
	for _, j := range jobs {
		g.Go(func() error { return a.applyOne(gctx, j) })
	}
	return g.Wait()
}

// outputPath places the result in outDir (or beside the input) with the
// suffix added and the extension swapped when --format is set.
func (c *applyCmd) outputPath(in string) (string, error) {
	ext := filepath.Ext(in)
	if c.format != "" {
		f, err := codec.ParseFormat(c.format)
		if err != nil {
			return "", err
		}
		ext = "." + f.String()
	}
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + c.suffix + ext
	dir := c.outDir
	if dir == "" {
		dir = filepath.Dir(in)
	}
	return filepath.Join(dir, base), nil
}

func (a *app) applyOne(ctx context.Context, j applyJob) error {
	src, _, err := codec.DecodeFile(j.input)
	if err != nil {
		return err
	}
	log := a.log.WithFields(logrus.Fields{
		"function": "app.applyOne",
		"input":    j.input,
	})

	// Every step is kept so --undo can walk back through the chain.
	hist, err := history.New(max(a.cfg.History, len(j.effects)+1))
	if err != nil {
		return err
	}
	if err := hist.Push(src); err != nil {
		return err
	}
	current := src
	for i, e := range j.effects {
		next, err := a.fx.ApplyBatch(ctx, current, []effects.Effect{e})
		if err != nil {
			return fmt.Errorf("%s: effect %d (%s): %w", j.input, i, e.Name(), err)
		}
		if err := hist.Push(next); err != nil {
			return err
		}
		current = next
	}
	for range j.undo {
		if !hist.CanUndo() {
			break
		}
		if current, err = hist.Undo(); err != nil {
			return err
		}
	}
	log.WithFields(logrus.Fields{
		"steps":         hist.Len(),
		"history_bytes": humanize.Bytes(uint64(hist.CompressedSize())),
	}).Debug("Effect chain done")

	if j.profile != "" {
		canvas, err := surface.NewCanvasFrom(current)
		if err != nil {
			return err
		}
		if err := a.engine.Apply(ctx, canvas, j.profile); err != nil {
			return fmt.Errorf("%s: %w", j.input, err)
		}
		current = canvas.Buffer()
	}
	if j.pot > 0 {
		if current, err = (postprocess.PowerOfTwo{DownScaleFactor: j.pot}).Process(ctx, current); err != nil {
			return err
		}
	}

	if err := writeOutput(j.output, current, j.quality, j.dds); err != nil {
		return err
	}
	log.WithField("output", j.output).Info("Wrote image")
	return nil
}

// writeOutput encodes through codec, except for compressed DDS which codec
// does not offer.
func writeOutput(path string, b *pixel.Buffer, quality float64, c dds.Codec) error {
	f, err := codec.FormatFromPath(path)
	if err != nil {
		return err
	}
	if f != codec.DDS || c == dds.Lossless {
		return codec.EncodeFile(path, b, quality)
	}
	var out bytes.Buffer
	if err := dds.Encode(&out, b, c); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
