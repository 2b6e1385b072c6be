// Package voice post-processes mono voice audio.
//
// Normalize scales a signal to a target RMS level and hard-limits its peaks,
// Blend mixes two voices, and Pipeline chains a formant shift and a pitch
// shift in front of normalization. All functions return new slices and never
// modify their inputs.
package voice
