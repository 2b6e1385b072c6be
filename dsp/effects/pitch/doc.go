// Package pitch shifts the pitch of mono signals without changing their
// duration.
//
// Shifter time-stretches the signal with a phase vocoder and then resamples
// it back to the original duration, which moves every partial by the same
// ratio. The pipeline in package voice uses it as its pitch stage.
package pitch
