package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/erinpentecost/canvasfx/internal/aesthetic"
	"github.com/spf13/pflag"
	"go.coder.com/cli"
)

type profilesCmd struct {
	global globalFlags
	files  []string
}

func (c *profilesCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:  "profiles",
		Usage: "[--file extra.yaml]...",
		Desc:  "List the registered aesthetic profiles.",
	}
}

func (c *profilesCmd) RegisterFlags(fl *pflag.FlagSet) {
	c.global.register(fl)
	fl.StringArrayVar(&c.files, "file", nil, "extra profile file to load, repeatable")
}

func (c *profilesCmd) Run(fl *pflag.FlagSet) {
	a, err := c.global.newApp()
	if err != nil {
		fail(err)
	}
	for _, f := range c.files {
		if err := a.loadProfiles(f); err != nil {
			fail(err)
		}
	}
	if err := printProfiles(os.Stdout, a.engine.List()); err != nil {
		fail(err)
	}
}

func printProfiles(w io.Writer, profiles []aesthetic.Profile) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSCHEME\tMATERIAL\tINTENSITY")
	for _, p := range profiles {
		material := p.TextureProfile.MaterialEmulation.Type
		if material == "" {
			material = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\n",
			p.ID, p.Name, p.LightingMood.Scheme, material, p.Mood.Intensity)
	}
	return tw.Flush()
}
