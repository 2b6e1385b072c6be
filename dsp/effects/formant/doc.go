// Package formant shifts the formants of a voice without changing its pitch.
//
// The log-magnitude spectrum of each STFT frame is split into a smooth
// spectral envelope and a residual fine structure. Only the envelope is
// warped along frequency, so vocal-tract resonances move while harmonics
// stay where they are. Phases are reused as-is.
//
// The shift factor is clamped to [MinFactor, MaxFactor]. Values above 1 move
// formants up (a brighter, smaller-sounding voice), values below 1 move them
// down.
package formant
