package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/erinpentecost/canvasfx/internal/codec"
	"github.com/spf13/pflag"
	"go.coder.com/cli"
)

type infoCmd struct{}

func (c *infoCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:  "info",
		Usage: "input...",
		Desc:  "Print the format, dimensions and size of each image.",
	}
}

func (c *infoCmd) Run(fl *pflag.FlagSet) {
	if fl.NArg() == 0 {
		fail(fmt.Errorf("info: no input files"))
	}
	failed := false
	for _, in := range fl.Args() {
		if err := describe(os.Stdout, in); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", in, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

func describe(w io.Writer, path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	buf, format, err := codec.DecodeFile(path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\t%s\t%dx%d\t%s on disk\t%s decoded\n",
		path, format, buf.Width, buf.Height,
		humanize.Bytes(uint64(st.Size())),
		humanize.Bytes(uint64(len(buf.Pix))))
	return err
}
