// Package buffer provides the mono audio signal type passed between the voice
// processing stages: a float64 sample slice paired with its sample rate. All
// DSP functions accept raw []float64 slices; Signal is the convenience carrier
// used at the I/O and pipeline boundaries.
package buffer
