// Package stft implements the short-time Fourier transform pair used by the
// spectral voice effects.
//
// Forward analysis centres every frame on its hop position by zero padding
// frameSize/2 samples at both ends, so a signal of n samples produces
// 1 + n/hop frames of frameSize/2+1 bins. Inverse synthesis is a windowed
// overlap-add normalised by the summed squared window and is trimmed or
// zero-padded to an explicit target length.
//
// Transforms carry no per-call state and are safe for concurrent use.
package stft
