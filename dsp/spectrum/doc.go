// Package spectrum provides FFT-adjacent spectrum-domain utilities.
//
// The package intentionally does not implement FFT itself. It operates on
// complex spectrum bins produced by an external transform and provides
// polar decomposition/reassembly and frequency-axis smoothing.
package spectrum
