// Package preset loads named voice-effect presets and validator thresholds
// from YAML.
//
// A preset file looks like:
//
//	presets:
//	  deeper:
//	    pitch_semitones: -3
//	    formant_shift: 0.9
//	    target_db: -18
//	validation:
//	  min_duration: 3
//	  clip_level: 0.98
//
// Presets from a file are merged over the built-in ones.
package preset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-voice/dsp/effects/formant"
	"github.com/cwbudde/algo-voice/dsp/voice"
	"github.com/cwbudde/algo-voice/measure/reference"
)

// ErrUnknownPreset is returned by Lookup for a name that is not defined.
var ErrUnknownPreset = errors.New("preset: unknown preset")

// Effect holds pipeline parameters. Nil level fields keep the pipeline
// defaults.
type Effect struct {
	PitchSemitones float64  `yaml:"pitch_semitones"`
	FormantShift   float64  `yaml:"formant_shift"`
	TargetDB       *float64 `yaml:"target_db,omitempty"`
	PeakLimit      *float64 `yaml:"peak_limit,omitempty"`
}

// VoiceOptions returns the normalization options the effect overrides.
func (e Effect) VoiceOptions() []voice.Option {
	var opts []voice.Option

	if e.TargetDB != nil {
		opts = append(opts, voice.WithTargetDB(*e.TargetDB))
	}

	if e.PeakLimit != nil {
		opts = append(opts, voice.WithPeakLimit(*e.PeakLimit))
	}

	return opts
}

// Validation holds reference validator thresholds. Zero fields keep the
// validator defaults.
type Validation struct {
	MinDuration float64 `yaml:"min_duration,omitempty"`
	MaxDuration float64 `yaml:"max_duration,omitempty"`
	MinRMS      float64 `yaml:"min_rms,omitempty"`
	ClipLevel   float64 `yaml:"clip_level,omitempty"`
	SampleRate  int     `yaml:"sample_rate,omitempty"`
}

// Options returns the validator options for the non-zero thresholds.
func (v Validation) Options() []reference.Option {
	var opts []reference.Option

	if v.MinDuration != 0 {
		opts = append(opts, reference.WithMinDuration(v.MinDuration))
	}

	if v.MaxDuration != 0 {
		opts = append(opts, reference.WithMaxDuration(v.MaxDuration))
	}

	if v.MinRMS != 0 {
		opts = append(opts, reference.WithMinRMS(v.MinRMS))
	}

	if v.ClipLevel != 0 {
		opts = append(opts, reference.WithClipLevel(v.ClipLevel))
	}

	if v.SampleRate != 0 {
		opts = append(opts, reference.WithSampleRate(v.SampleRate))
	}

	return opts
}

// File is the decoded form of a preset file.
type File struct {
	Presets    map[string]Effect `yaml:"presets"`
	Validation Validation        `yaml:"validation"`
}

// Default returns the built-in presets.
func Default() *File {
	return &File{
		Presets: map[string]Effect{
			"neutral":  {FormantShift: 1},
			"deeper":   {PitchSemitones: -3, FormantShift: 0.9},
			"brighter": {PitchSemitones: 2, FormantShift: 1.1},
			"giant":    {PitchSemitones: -7, FormantShift: 0.75},
			"chipmunk": {PitchSemitones: 7, FormantShift: 1.3},
		},
	}
}

// Load reads the preset file at path and merges it over Default.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset: read %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("preset: %s: %w", path, err)
	}

	return f, nil
}

// Parse decodes YAML preset data and merges it over Default. Unknown keys
// are rejected.
func Parse(data []byte) (*File, error) {
	f := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: %w", err)
	}

	for name, e := range f.Presets {
		if e.FormantShift == 0 {
			e.FormantShift = 1
			f.Presets[name] = e
		}

		if err := e.validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
	}

	return f, nil
}

// Lookup returns the named preset.
func (f *File) Lookup(name string) (Effect, error) {
	e, ok := f.Presets[name]
	if !ok {
		return Effect{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}

	return e, nil
}

// Names returns the preset names in sorted order.
func (f *File) Names() []string {
	return slices.Sorted(maps.Keys(f.Presets))
}

func (e Effect) validate() error {
	if math.IsNaN(e.PitchSemitones) || math.Abs(e.PitchSemitones) > 24 {
		return fmt.Errorf("pitch_semitones %g outside [-24, 24]", e.PitchSemitones)
	}

	if e.FormantShift < formant.MinFactor || e.FormantShift > formant.MaxFactor {
		return fmt.Errorf("formant_shift %g outside [%g, %g]", e.FormantShift, formant.MinFactor, formant.MaxFactor)
	}

	if e.PeakLimit != nil && (*e.PeakLimit <= 0 || *e.PeakLimit > 1) {
		return fmt.Errorf("peak_limit %g outside (0, 1]", *e.PeakLimit)
	}

	return nil
}
