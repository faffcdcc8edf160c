// Package dynamics implements soft-knee compression, brick-wall limiting,
// and gate/expansion, each driven by an envelope.Follower sidechain.
package dynamics

import (
	"math"

	"github.com/Bojan20/vanvinkl-dsp/internal/dsp/envelope"
	"github.com/Bojan20/vanvinkl-dsp/internal/dsp/shared"
)

// Compressor is a downward compressor with a soft knee, driven by a
// single envelope follower sidechain.
type Compressor struct {
	sampleRate      float64
	thresholdDB     float64
	ratio           float64
	kneeDB          float64
	makeupGain      float64
	env             *envelope.Follower
	gainReductionDB float64
}

// NewCompressor creates a compressor with a 6 dB default soft knee and
// unity makeup gain.
func NewCompressor(sampleRate, thresholdDB, ratio, attackMs, releaseMs float64) *Compressor {
	return &Compressor{
		sampleRate:  sampleRate,
		thresholdDB: thresholdDB,
		ratio:       ratio,
		kneeDB:      6,
		makeupGain:  1,
		env:         envelope.New(sampleRate, attackMs, releaseMs),
	}
}

func (c *Compressor) SetThreshold(thresholdDB float64) { c.thresholdDB = thresholdDB }

func (c *Compressor) SetRatio(ratio float64) {
	if ratio < 1 {
		ratio = 1
	}

	c.ratio = ratio
}

func (c *Compressor) SetKnee(kneeDB float64) {
	if kneeDB < 0 {
		kneeDB = 0
	}

	c.kneeDB = kneeDB
}

func (c *Compressor) SetAttack(attackMs float64)   { c.env.SetAttack(attackMs) }
func (c *Compressor) SetRelease(releaseMs float64) { c.env.SetRelease(releaseMs) }

// SetMakeupGain sets makeup gain from a dB value.
func (c *Compressor) SetMakeupGain(gainDB float64) {
	c.makeupGain = shared.DBToLinear(gainDB)
}

// AutoMakeupGain sets makeup gain to -threshold*(1-1/ratio) dB: the gain
// reduction the above-knee slope applies to a full-scale (0 dBFS) input,
// not the much smaller reduction material sitting at threshold sees.
func (c *Compressor) AutoMakeupGain() {
	reductionAtThreshold := c.thresholdDB * (1 - 1/c.ratio)
	c.makeupGain = shared.DBToLinear(-reductionAtThreshold)
}

// computeGainReduction returns GR(x_dB) in dB (spec §4.4).
func (c *Compressor) computeGainReduction(inputDB float64) float64 {
	halfKnee := c.kneeDB / 2
	kneeStart := c.thresholdDB - halfKnee
	kneeEnd := c.thresholdDB + halfKnee

	switch {
	case inputDB < kneeStart:
		return 0
	case inputDB > kneeEnd:
		return (inputDB - c.thresholdDB) * (1 - 1/c.ratio)
	default:
		x := inputDB - kneeStart
		slope := 1 - 1/c.ratio

		return (slope * x * x) / (2 * c.kneeDB)
	}
}

func inputDBFromEnvelope(env float64) float64 {
	if env > shared.Epsilon {
		return 20 * math.Log10(env)
	}

	return -200
}

// Process compresses a single sample using its own magnitude as sidechain.
func (c *Compressor) Process(x float64) float64 {
	env := c.env.Process(x)
	c.gainReductionDB = c.computeGainReduction(inputDBFromEnvelope(env))

	return x * shared.DBToLinear(-c.gainReductionDB) * c.makeupGain
}

// ProcessStereo drives the envelope with max(|L|,|R|) and applies a
// common gain to both channels, preserving the stereo image (spec §4.4).
func (c *Compressor) ProcessStereo(left, right float64) (float64, float64) {
	maxInput := math.Max(math.Abs(left), math.Abs(right))
	env := c.env.Process(maxInput)
	c.gainReductionDB = c.computeGainReduction(inputDBFromEnvelope(env))
	gain := shared.DBToLinear(-c.gainReductionDB) * c.makeupGain

	return left * gain, right * gain
}

// ProcessSidechain drives the envelope from an externally supplied signal
// rather than the processed input itself (SPEC_FULL.md §11 supplement).
func (c *Compressor) ProcessSidechain(input, sidechain float64) float64 {
	env := c.env.Process(sidechain)
	c.gainReductionDB = c.computeGainReduction(inputDBFromEnvelope(env))

	return input * shared.DBToLinear(-c.gainReductionDB) * c.makeupGain
}

// GainReduction returns the instantaneous gain reduction in dB.
func (c *Compressor) GainReduction() float64 { return c.gainReductionDB }

// Reset clears the envelope and the reported gain reduction.
func (c *Compressor) Reset() {
	c.env.Reset()
	c.gainReductionDB = 0
}
