// Package reference checks whether a recording is usable as a voice-cloning
// reference.
//
// A recording passes when it is long enough, short enough, loud enough and
// free of clipping. The checks run in that order and the first failure is
// reported with a human-readable reason.
package reference
