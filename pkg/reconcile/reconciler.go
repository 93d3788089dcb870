// Package reconcile converts variable-duration frames into a whole number of
// fixed-rate encoder frames.
//
// The conversion carries the fractional remainder of every frame forward in
// two accumulators, so the number of emitted frames tracks the real elapsed
// time with no long-run drift:
//
//	frameLoss banks time that was under-emitted (the fractional part dropped
//	by flooring a frame longer than one tick);
//	frameGain banks time that was over-emitted (a frame shorter than one tick
//	still emits one copy so that nothing captured is ever fully dropped).
//
// Once a bank reaches a whole frame it is paid back on the current frame.
package reconcile

import (
	"errors"
	"fmt"
	"math"
)

// DefaultFPS is the default encoder frame rate.
const DefaultFPS = 25

// ErrInvalidFPS is returned for non-positive or non-finite frame rates.
var ErrInvalidFPS = errors.New("reconcile: fps must be a positive finite number")

// Reconciler holds the fractional accumulators of one recording session.
// Both stay in [0, 1) between calls.
type Reconciler struct {
	fps       float64
	frameGain float64
	frameLoss float64
}

// New creates a Reconciler for the given encoder frame rate.
func New(fps float64) (*Reconciler, error) {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidFPS, fps)
	}
	return &Reconciler{fps: fps}, nil
}

// Reconcile returns how many encoder frames a frame visible for duration
// seconds occupies, and updates the accumulators.
//
// A frame shorter than one tick counts as one frame; the overshoot is banked
// in frameGain and taken back later by lowering a subsequent count. That
// correction can bring a count to zero, never below: the frame is then
// skipped entirely.
func (r *Reconciler) Reconcile(duration float64) int {
	totalFrames := duration * r.fps
	floored := math.Floor(totalFrames)

	count := int(floored)
	if count < 1 {
		count = 1
	}

	if floored == 0 {
		r.frameGain += 1 - totalFrames
	} else {
		r.frameLoss += totalFrames - floored
	}

	for r.frameLoss >= 1 {
		r.frameLoss--
		count++
	}
	for r.frameGain >= 1 {
		r.frameGain--
		count--
	}

	if count < 0 {
		count = 0
	}
	return count
}

// FPS returns the encoder frame rate.
func (r *Reconciler) FPS() float64 {
	return r.fps
}

// Gain returns the banked over-emission, in frames.
func (r *Reconciler) Gain() float64 {
	return r.frameGain
}

// Loss returns the banked under-emission, in frames.
func (r *Reconciler) Loss() float64 {
	return r.frameLoss
}
