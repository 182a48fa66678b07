package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wudi/ppmkit"
	"github.com/wudi/ppmkit/observability"
)

var (
	workers int
	verbose bool
)

func main() {
	cmd := &cobra.Command{
		Use:   "ppmblur <input.ppm> <output.ppm>",
		Short: "Apply a fixed 5x5 Gaussian blur to a plain (P3) PPM image",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			run(args[0], args[1])
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent filter workers (0 = all CPUs)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline stages to stderr")

	// Execute only returns usage errors here; processing failures exit
	// inside run with a different status.
	if err := cmd.Execute(); err != nil {
		os.Exit(2)
	}
}

func run(inPath, outPath string) {
	var logger observability.Logger = observability.NopLogger{}
	if verbose {
		logger = observability.NewTextLogger(os.Stderr, observability.LevelDebug)
	}
	p := ppmkit.New(ppmkit.Config{Workers: workers, Logger: logger})

	in, err := os.Open(inPath)
	if err != nil {
		fatal(err)
	}
	defer in.Close()

	img, err := p.Parse(context.Background(), in)
	if err != nil {
		fatal(err)
	}
	out, err := p.Blur(context.Background(), img)
	if err != nil {
		fatal(err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		fatal(err)
	}
	if err := p.Write(context.Background(), out, f); err != nil {
		f.Close()
		os.Remove(outPath) // no partial output
		fatal(err)
	}
	if err := f.Close(); err != nil {
		os.Remove(outPath)
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
