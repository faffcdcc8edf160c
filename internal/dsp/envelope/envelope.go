// Package envelope implements peak/RMS-abs envelope following with
// independent attack and release time constants.
package envelope

import (
	"math"

	"github.com/Bojan20/vanvinkl-dsp/internal/dsp/shared"
)

// Follower smooths |x| toward an attack or release target depending on
// whether the signal is rising or falling.
type Follower struct {
	sampleRate   float64
	attackCoef   float64
	releaseCoef  float64
	envelope     float64
}

// New creates a follower with the given attack/release times in milliseconds.
func New(sampleRate, attackMs, releaseMs float64) *Follower {
	return &Follower{
		sampleRate:  sampleRate,
		attackCoef:  shared.TimeToCoef(attackMs, sampleRate),
		releaseCoef: shared.TimeToCoef(releaseMs, sampleRate),
	}
}

// SetAttack re-derives the attack coefficient from a millisecond value.
func (f *Follower) SetAttack(attackMs float64) {
	f.attackCoef = shared.TimeToCoef(attackMs, f.sampleRate)
}

// SetRelease re-derives the release coefficient from a millisecond value.
func (f *Follower) SetRelease(releaseMs float64) {
	f.releaseCoef = shared.TimeToCoef(releaseMs, f.sampleRate)
}

// Process advances the envelope by one sample and returns its new value.
func (f *Follower) Process(x float64) float64 {
	absX := math.Abs(x)

	if absX > f.envelope {
		f.envelope = f.attackCoef*f.envelope + (1-f.attackCoef)*absX
	} else {
		f.envelope = f.releaseCoef*f.envelope + (1-f.releaseCoef)*absX
	}

	return f.envelope
}

// Value returns the current envelope value without advancing state.
func (f *Follower) Value() float64 {
	return f.envelope
}

// Reset zeros the envelope.
func (f *Follower) Reset() {
	f.envelope = 0
}
