// Package wavfile reads and writes PCM WAV files as float64 samples.
//
// Load decodes 8/16/24/32-bit integer PCM, scales it to [-1, 1], optionally
// downmixes to mono and resamples to a requested rate. Save writes 16-bit
// mono PCM.
package wavfile
