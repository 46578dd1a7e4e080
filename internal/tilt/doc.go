// Package tilt implements the tilt scoring engine.
//
// Extract converts raw utterances into signed magnitudes via keyword pattern
// matching; the Store applies time decay and non-linear severity scaling to
// per-user scores; the Engine orchestrates the pipeline: analysis, sensitivity
// scaling, rate limiting, and atomic score updates.
package tilt
