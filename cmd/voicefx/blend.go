package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/cwbudde/algo-voice/dsp/voice"
	"github.com/cwbudde/algo-voice/wavfile"
)

func runBlend(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("blend", flag.ContinueOnError)
	fs.SetOutput(stderr)

	primary := fs.String("primary", "", "primary voice WAV file")
	secondary := fs.String("secondary", "", "secondary voice WAV file")
	weight := fs.Float64("weight", 0.5, "secondary voice weight in [0, 1]")
	out := fs.String("out", "", "output WAV file")
	rate := fs.Int("rate", defaultRate, "sample rate both voices are converted to")
	targetDB := fs.Float64("target-db", voice.DefaultTargetDB, "RMS target in dBFS")
	peakLimit := fs.Float64("peak-limit", voice.DefaultPeakLimit, "absolute sample ceiling")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *primary == "" || *secondary == "" || *out == "" {
		return fmt.Errorf("blend: -primary, -secondary and -out are required")
	}

	if *rate <= 0 {
		return fmt.Errorf("blend: -rate must be positive: %d", *rate)
	}

	var loader wavfile.Loader

	a, _, err := loader.LoadMono(*primary, *rate)
	if err != nil {
		return err
	}

	b, _, err := loader.LoadMono(*secondary, *rate)
	if err != nil {
		return err
	}

	mixed := voice.Blend(a, b, *weight, voice.WithTargetDB(*targetDB), voice.WithPeakLimit(*peakLimit))

	if err := wavfile.Save(*out, mixed, *rate); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "wrote %s (%d samples @ %d Hz)\n", *out, len(mixed), *rate)

	return nil
}
