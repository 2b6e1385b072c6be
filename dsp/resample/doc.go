// Package resample provides one-shot rational sample-rate conversion with a
// windowed-sinc anti-aliasing filter.
//
// Output sample m is aligned with input time m*down/up: the filter's group
// delay is compensated, so a converted signal stays time-aligned with its
// source and has ceil(n*up/down) samples.
//
// Quality modes:
//   - QualityFast: lower CPU, lower attenuation
//   - QualityBalanced: default mode
//   - QualityBest: higher attenuation and flatter passband
//
// Common workflows:
//   - Resample(input, up, down, opts...)
//   - Convert(input, inRate, outRate, opts...)
//   - Ratio(inRate, outRate, maxDen) for inspecting the chosen fraction
package resample
