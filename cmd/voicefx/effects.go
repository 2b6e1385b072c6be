package main

import (
	"flag"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-voice/dsp/effects/formant"
	"github.com/cwbudde/algo-voice/dsp/voice"
	"github.com/cwbudde/algo-voice/wavfile"
)

func runEffects(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("effects", flag.ContinueOnError)
	fs.SetOutput(stderr)

	in := fs.String("in", "", "input WAV file")
	out := fs.String("out", "", "output WAV file")
	pitchSemis := fs.Float64("pitch", 0, "pitch shift in semitones")
	formantFactor := fs.Float64("formant", 1, "formant shift factor (0.7 to 1.4)")
	targetDB := fs.Float64("target-db", voice.DefaultTargetDB, "RMS target in dBFS")
	peakLimit := fs.Float64("peak-limit", voice.DefaultPeakLimit, "absolute sample ceiling")
	rate := fs.Int("rate", defaultRate, "processing sample rate in Hz (0 keeps the file rate)")
	presetName := fs.String("preset", "", "named preset")
	configPath := fs.String("config", "", "YAML preset file")
	verbose := fs.Bool("v", false, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *in == "" || *out == "" {
		return fmt.Errorf("effects: -in and -out are required")
	}

	logger := newLogger(stderr, *verbose)
	defer func() { _ = logger.Sync() }()

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	semitones, factor := *pitchSemis, *formantFactor

	var opts []voice.Option

	// Explicit flags win over preset values.
	if *presetName != "" {
		presets, err := loadPresets(*configPath)
		if err != nil {
			return err
		}

		p, err := presets.Lookup(*presetName)
		if err != nil {
			return err
		}

		if !set["pitch"] {
			semitones = p.PitchSemitones
		}

		if !set["formant"] {
			factor = p.FormantShift
		}

		opts = append(opts, p.VoiceOptions()...)
	}

	if set["target-db"] {
		opts = append(opts, voice.WithTargetDB(*targetDB))
	}

	if set["peak-limit"] {
		opts = append(opts, voice.WithPeakLimit(*peakLimit))
	}

	audio, err := wavfile.Load(*in, *rate, true)
	if err != nil {
		return err
	}

	fshift, err := formant.New(formant.WithLogger(logger))
	if err != nil {
		return err
	}

	opts = append(opts, voice.WithLogger(logger), voice.WithFormantShifter(fshift))

	pipeline, err := voice.NewPipeline(opts...)
	if err != nil {
		return err
	}

	sig := audio.Mono()

	logger.Debug("applying voice effects",
		zap.String("in", *in),
		zap.Int("samples", sig.Len()),
		zap.Int("sample_rate", sig.SampleRate()),
		zap.Float64("pitch", semitones),
		zap.Float64("formant", factor),
	)

	samples, err := pipeline.ApplyWithError(sig.Samples(), sig.SampleRate(), semitones, factor)
	if err != nil {
		return err
	}

	processed := sig.WithSamples(samples)
	if err := wavfile.SaveSignal(*out, processed); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "wrote %s (%d samples @ %d Hz)\n", *out, processed.Len(), processed.SampleRate())

	return nil
}
