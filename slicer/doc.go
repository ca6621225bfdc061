// Package slicer cuts amplitude matrices into fixed-width windows for a
// classifier and derives per-window training labels.
//
// Two slicing modes are provided. Block mode tiles the time axis with
// non-overlapping windows and drops the trailing remainder; it is used for
// training. Sliding mode produces one window per time frame, zero padded at
// both ends, so that predictions line up one to one with the frames of the
// song being separated.
//
// All functions are pure: they copy what they return and never modify their
// input.
package slicer
