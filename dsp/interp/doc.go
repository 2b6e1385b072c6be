// Package interp provides interpolation primitives for sampling a uniformly
// spaced table at fractional positions.
//
// Available methods:
//
//   - [Linear2]:       2-point linear interpolation
//   - [LinearClamped]: table lookup with linear interpolation and edge clamping
package interp
