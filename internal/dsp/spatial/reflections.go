package spatial

import "math"

// delayTap is a single fixed-delay tap with a gain and equal-power pan
// position, used as a building block of the early-reflections bank.
type delayTap struct {
	buf   []float64
	idx   int
	gain  float64
	pan   float64
}

func newDelayTap(delaySamples int, gain, pan float64) *delayTap {
	if delaySamples < 1 {
		delaySamples = 1
	}

	return &delayTap{
		buf:  make([]float64, delaySamples),
		gain: gain,
		pan:  pan,
	}
}

func (t *delayTap) process(input float64) float64 {
	output := t.buf[t.idx]
	t.buf[t.idx] = input

	t.idx++
	if t.idx >= len(t.buf) {
		t.idx = 0
	}

	return output * t.gain
}

func (t *delayTap) reset() {
	for i := range t.buf {
		t.buf[i] = 0
	}

	t.idx = 0
}

type reflectionSpec struct {
	time float64
	gain float64
	pan  float64
}

// baseReflections are the eight first-order room reflections (front/left/
// right/back wall, floor, ceiling, two corners) with their base delay
// times, gains, and equal-power pan positions (spec §4.10).
var baseReflections = [8]reflectionSpec{
	{0.012, 0.7, 0.0},  // front wall
	{0.018, 0.6, -0.8}, // left wall
	{0.020, 0.6, 0.8},  // right wall
	{0.035, 0.5, 0.0},  // back wall
	{0.008, 0.4, 0.0},  // floor
	{0.025, 0.45, 0.0}, // ceiling
	{0.042, 0.35, -0.5},
	{0.048, 0.35, 0.5},
}

// EarlyReflections simulates first-order room reflections as a bank of
// eight fixed-delay taps, each panned and summed into the stereo output
// (spec §4.10).
type EarlyReflections struct {
	sampleRate float64
	taps       [8]*delayTap
}

// NewEarlyReflections builds the eight-tap bank at its default positions.
func NewEarlyReflections(sampleRate float64) *EarlyReflections {
	e := &EarlyReflections{sampleRate: sampleRate}

	for i, r := range baseReflections {
		samples := int(r.time * sampleRate)
		e.taps[i] = newDelayTap(samples, r.gain, r.pan)
	}

	return e
}

// SetRoomSize rescales every tap's delay time by size while leaving gain
// and pan at their fixed base values (spec §4.10).
func (e *EarlyReflections) SetRoomSize(size float64) {
	for i, r := range baseReflections {
		samples := int(r.time * size * e.sampleRate)
		if samples < 1 {
			samples = 1
		}

		e.taps[i] = newDelayTap(samples, r.gain, r.pan)
	}
}

// Process spatializes a single mono input sample into the first elements
// of outLeft and outRight, summing all eight panned taps.
func (e *EarlyReflections) Process(input float64, outLeft, outRight []float64) {
	if len(outLeft) == 0 || len(outRight) == 0 {
		return
	}

	var sumL, sumR float64
	for _, tap := range e.taps {
		delayed := tap.process(input)

		gainL := math.Sqrt((1 - tap.pan) * 0.5)
		gainR := math.Sqrt((1 + tap.pan) * 0.5)

		sumL += delayed * gainL
		sumR += delayed * gainR
	}

	outLeft[0] = sumL
	outRight[0] = sumR
}

// ProcessBuffer mixes a downmixed mono send of left/right through the
// reflection bank and adds it back into left/right at a fixed 0.3 send
// level (spec §4.10).
func (e *EarlyReflections) ProcessBuffer(left, right []float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}

	const sendLevel = 0.3

	for i := range n {
		input := (left[i] + right[i]) * 0.5

		var sumL, sumR float64
		for _, tap := range e.taps {
			delayed := tap.process(input)

			gainL := math.Sqrt((1 - tap.pan) * 0.5)
			gainR := math.Sqrt((1 + tap.pan) * 0.5)

			sumL += delayed * gainL
			sumR += delayed * gainR
		}

		left[i] += sumL * sendLevel
		right[i] += sumR * sendLevel
	}
}

// Reset silences every tap's delay buffer.
func (e *EarlyReflections) Reset() {
	for _, tap := range e.taps {
		tap.reset()
	}
}
