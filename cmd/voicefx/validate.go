package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/cwbudde/algo-voice/measure/reference"
)

// runValidate reports ok=false when any file fails validation.
func runValidate(args []string, stdout, stderr io.Writer) (ok bool, err error) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	jobs := fs.Int("jobs", 4, "files validated concurrently")
	configPath := fs.String("config", "", "YAML preset file with validation thresholds")
	verbose := fs.Bool("v", false, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return false, err
	}

	paths := fs.Args()
	if len(paths) == 0 {
		return false, fmt.Errorf("validate: no files given")
	}

	logger := newLogger(stderr, *verbose)
	defer func() { _ = logger.Sync() }()

	presets, err := loadPresets(*configPath)
	if err != nil {
		return false, err
	}

	opts := append(presets.Validation.Options(), reference.WithLogger(logger))

	v, err := reference.New(opts...)
	if err != nil {
		return false, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reports, err := v.ValidateAll(ctx, paths, *jobs)
	if err != nil {
		return false, err
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	ok = true

	for _, r := range reports {
		status := "ok"
		if !r.Valid {
			status = "invalid"
			ok = false
		}

		fmt.Fprintf(tw, "%s\t%s\t%.2fs\t%s\n", r.Path, status, r.Duration.Seconds(), r.Reason)
	}

	if err := tw.Flush(); err != nil {
		return false, err
	}

	return ok, nil
}
