// Command voicefx post-processes voice recordings.
//
// Usage:
//
//	voicefx <command> [flags] [args]
//
// Commands:
//
//	effects   apply pitch and formant shifts, then normalize
//	blend     mix two voices and normalize
//	validate  check recordings for use as cloning references
//
// Examples:
//
//	voicefx effects -in a.wav -out b.wav -pitch -3 -formant 0.9
//	voicefx effects -in a.wav -out b.wav -preset deeper -config presets.yaml
//	voicefx blend -primary a.wav -secondary b.wav -weight 0.3 -out mix.wav
//	voicefx validate -jobs 8 refs/*.wav
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cwbudde/algo-voice/internal/preset"
)

// defaultRate is the processing rate of the voice models.
const defaultRate = 24000

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	var err error

	switch args[0] {
	case "effects":
		err = runEffects(args[1:], stdout, stderr)
	case "blend":
		err = runBlend(args[1:], stdout, stderr)
	case "validate":
		var ok bool

		ok, err = runValidate(args[1:], stdout, stderr)
		if err == nil && !ok {
			return 1
		}
	case "-h", "-help", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "error: unknown command %q\n\n", args[0])
		usage(stderr)

		return 2
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}

	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	return 0
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: voicefx <command> [flags] [args]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	fmt.Fprintf(w, "  effects   apply pitch and formant shifts, then normalize\n")
	fmt.Fprintf(w, "  blend     mix two voices and normalize\n")
	fmt.Fprintf(w, "  validate  check recordings for use as cloning references\n\n")
	fmt.Fprintf(w, "Run 'voicefx <command> -h' for command flags.\n")
}

// newLogger writes human-readable logs to w; verbose enables debug output.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())

	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

// loadPresets returns the built-in presets, merged with path when set.
func loadPresets(path string) (*preset.File, error) {
	if path == "" {
		return preset.Default(), nil
	}

	return preset.Load(path)
}
