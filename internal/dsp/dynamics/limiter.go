package dynamics

import (
	"math"

	"github.com/Bojan20/vanvinkl-dsp/internal/dsp/shared"
)

// Limiter is a brick-wall peak limiter with instant attack and an
// exponential release gain follower.
type Limiter struct {
	thresholdDB     float64
	thresholdLinear float64
	releaseCoef     float64
	gain            float64
}

// NewLimiter creates a limiter with unity starting gain.
func NewLimiter(sampleRate, thresholdDB, releaseMs float64) *Limiter {
	return &Limiter{
		thresholdDB:     thresholdDB,
		thresholdLinear: shared.DBToLinear(thresholdDB),
		releaseCoef:     shared.TimeToCoef(releaseMs, sampleRate),
		gain:            1,
	}
}

// SetThreshold sets the threshold in dB.
func (l *Limiter) SetThreshold(thresholdDB float64) {
	l.thresholdDB = thresholdDB
	l.thresholdLinear = shared.DBToLinear(thresholdDB)
}

func (l *Limiter) targetGain(peak float64) (gain float64, clipped bool) {
	if peak > l.thresholdLinear {
		return l.thresholdLinear / peak, true
	}

	return 1, false
}

func (l *Limiter) applyGain(target float64) {
	if target < l.gain {
		l.gain = target // instant attack
	} else {
		l.gain = l.releaseCoef*l.gain + (1-l.releaseCoef)*target
	}
}

// Process limits a single sample.
func (l *Limiter) Process(x float64) float64 {
	target, _ := l.targetGain(math.Abs(x))
	l.applyGain(target)

	return x * l.gain
}

// ProcessStereo limits a stereo sample pair with a single shared gain
// driven by max(|L|,|R|), and reports whether this sample clipped.
func (l *Limiter) ProcessStereo(left, right float64) (outLeft, outRight float64, clipped bool) {
	peak := math.Max(math.Abs(left), math.Abs(right))

	target, clip := l.targetGain(peak)
	l.applyGain(target)

	return left * l.gain, right * l.gain, clip
}

// GainReduction returns the current gain reduction in dB.
func (l *Limiter) GainReduction() float64 {
	if l.gain > 0 {
		return -20 * math.Log10(l.gain)
	}

	return math.Inf(1)
}

// Reset restores unity gain.
func (l *Limiter) Reset() {
	l.gain = 1
}
