// Package reverb implements the Freeverb-style algorithmic reverb
// topology: eight parallel damped combs feeding four series all-passes,
// per channel, plus preset wrappers standing in for convolution reverb.
package reverb

import "github.com/Bojan20/vanvinkl-dsp/internal/dsp/delay"

// Classical Freeverb tunings, at 44100 Hz; scaled by fs/44100 at
// construction. The right channel adds spread to every length to
// decorrelate the two ears (spec §4.7).
var (
	combTunings    = [8]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	allPassTunings = [4]int{556, 441, 341, 225}
)

const (
	stereoSpread = 23
	fixedGain    = 0.015
)

type channel struct {
	combs    [8]*delay.Comb
	allPass  [4]*delay.AllPass
}

func newChannel(sampleRate float64, spread int, roomFeedback, damp float64) *channel {
	scale := sampleRate / 44100

	ch := &channel{}
	for i, tuning := range combTunings {
		length := int(float64(tuning+spread)*scale) + 1
		ch.combs[i] = delay.NewComb(length, roomFeedback, damp)
	}

	for i, tuning := range allPassTunings {
		length := int(float64(tuning+spread)*scale) + 1
		ch.allPass[i] = delay.NewAllPass(length, 0.5)
	}

	return ch
}

func (c *channel) process(x float64) float64 {
	var sum float64
	for _, comb := range c.combs {
		sum += comb.Process(x)
	}

	y := sum
	for _, ap := range c.allPass {
		y = ap.Process(y)
	}

	return y
}

func (c *channel) setRoomFeedback(fb float64) {
	for _, comb := range c.combs {
		comb.SetFeedback(fb)
	}
}

func (c *channel) setDamp(damp float64) {
	for _, comb := range c.combs {
		comb.SetDamp(damp)
	}
}

func (c *channel) reset() {
	for _, comb := range c.combs {
		comb.Reset()
	}

	for _, ap := range c.allPass {
		ap.Reset()
	}
}

// Algorithmic is the Freeverb-style room reverb.
type Algorithmic struct {
	left, right        *channel
	roomSize, damping  float64
	roomFeedback       float64
	width              float64
}

// New constructs an algorithmic reverb with a mid-sized room, moderate
// damping, and full stereo width.
func New(sampleRate float64) *Algorithmic {
	r := &Algorithmic{
		roomSize: 0.5,
		damping:  0.5,
		width:    1.0,
	}
	r.roomFeedback = roomFeedbackFromSize(r.roomSize)

	r.left = newChannel(sampleRate, 0, r.roomFeedback, r.damping)
	r.right = newChannel(sampleRate, stereoSpread, r.roomFeedback, r.damping)

	return r
}

// roomFeedbackFromSize maps room size in [0,1] linearly to comb feedback
// in [0.7, 0.98] (spec §4.7).
func roomFeedbackFromSize(size float64) float64 {
	return 0.7 + 0.28*clamp01(size)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}

	if x > 1 {
		return 1
	}

	return x
}

// SetRoomSize maps size in [0,1] to comb feedback in [0.7, 0.98].
func (r *Algorithmic) SetRoomSize(size float64) {
	r.roomSize = clamp01(size)
	r.roomFeedback = roomFeedbackFromSize(r.roomSize)
	r.left.setRoomFeedback(r.roomFeedback)
	r.right.setRoomFeedback(r.roomFeedback)
}

// SetDamping maps damp in [0,1] directly to the comb lowpass coefficient.
func (r *Algorithmic) SetDamping(damp float64) {
	r.damping = clamp01(damp)
	r.left.setDamp(r.damping)
	r.right.setDamp(r.damping)
}

// SetWidth controls the stereo crossfeed between the two wet channels.
func (r *Algorithmic) SetWidth(width float64) {
	r.width = clamp01(width)
}

// Process processes left and right buffers in place through the
// comb-bank + all-pass chain, mixing wet paths per spec §4.7's
// width crossfade.
func (r *Algorithmic) Process(left, right []float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}

	w1 := (1 + r.width) / 2
	w2 := (1 - r.width) / 2

	for i := range n {
		wetL := r.left.process(left[i] * fixedGain)
		wetR := r.right.process(right[i] * fixedGain)

		left[i] = w1*wetL + w2*wetR
		right[i] = w1*wetR + w2*wetL
	}
}

// Reset silences both channels' delay lines.
func (r *Algorithmic) Reset() {
	r.left.reset()
	r.right.reset()
}

// Convolution is a preset-driven wrapper around Algorithmic. A true
// partitioned FFT convolution is out of scope (spec §9); this collapses
// "convolution reverb" onto the same topology with room-size presets.
type Convolution struct {
	*Algorithmic
}

// Preset names understood by NewConvolution.
const (
	PresetSmallRoom  = "small"
	PresetMediumRoom = "medium"
	PresetLargeRoom  = "large"
	PresetCasinoFloor = "casino_floor"
)

// NewConvolution builds a Convolution reverb from a named preset,
// defaulting to the medium room if the name is unrecognized.
func NewConvolution(sampleRate float64, preset string) *Convolution {
	c := &Convolution{Algorithmic: New(sampleRate)}

	switch preset {
	case PresetSmallRoom:
		c.SetRoomSize(0.3)
		c.SetDamping(0.5)
		c.SetWidth(0.6)
	case PresetLargeRoom:
		c.SetRoomSize(0.9)
		c.SetDamping(0.3)
		c.SetWidth(1.0)
	case PresetCasinoFloor:
		c.SetRoomSize(0.6)
		c.SetDamping(0.4)
		c.SetWidth(0.8)
	case PresetMediumRoom:
		fallthrough
	default:
		c.SetRoomSize(0.5)
		c.SetDamping(0.5)
		c.SetWidth(0.8)
	}

	return c
}
