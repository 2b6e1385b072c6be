// Package core holds small numeric and slice helpers shared by the DSP
// packages: clamping, dB conversion, finite-value sanitizing and exact-length
// fitting.
package core
