package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/pflag"
	"go.coder.com/cli"
)

type rootCmd struct{}

func (r *rootCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:  "canvasfx",
		Usage: "<subcommand> [flags]",
		Desc:  "Pixel effects, layer compositing and aesthetic profiles.",
	}
}

func (r *rootCmd) Run(fl *pflag.FlagSet) {
	fmt.Fprintln(os.Stderr, "usage: canvasfx <apply|render|profiles|info> [flags]")
	os.Exit(2)
}

func (r *rootCmd) Subcommands() []cli.Command {
	return []cli.Command{
		&applyCmd{},
		&renderCmd{},
		&profilesCmd{},
		&infoCmd{},
	}
}

// runContext returns a context cancelled on interrupt so that long passes
// stop between scanline batches.
func runContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func fail(err error) {
	fmt.Printf("FAILED: %v\n", err)
	os.Exit(33)
}

func main() {
	cli.RunRoot(&rootCmd{})
}
