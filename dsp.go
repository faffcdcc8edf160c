// Package dsp is a real-time, single-threaded, allocation-free audio
// processing engine: an EQ/dynamics/reverb/limiter chain feeding a
// spatial panner and a metering bank, composed around per-block stereo
// buffer pairs (spec §4.17).
package dsp

import (
	"fmt"

	"github.com/Bojan20/vanvinkl-dsp/internal/dsp/analysis"
	"github.com/Bojan20/vanvinkl-dsp/internal/dsp/biquad"
	"github.com/Bojan20/vanvinkl-dsp/internal/dsp/dynamics"
	"github.com/Bojan20/vanvinkl-dsp/internal/dsp/reverb"
	"github.com/Bojan20/vanvinkl-dsp/internal/dsp/shared"
	"github.com/Bojan20/vanvinkl-dsp/internal/dsp/spatial"
)

// ErrInvalidSampleRate is returned when constructing a Processor with a
// non-positive sample rate.
var ErrInvalidSampleRate = shared.ErrInvalidSampleRate

// Processor is the master real-time chain: a low-shelf/high-shelf tone
// stage, a stereo-linked compressor, an algorithmic reverb send, a
// brick-wall limiter, a spatial panner, and a metering bank (spectrum,
// loudness, true peak, correlation) (spec §4.17).
type Processor struct {
	lowShelfL, lowShelfR   *biquad.Biquad
	highShelfL, highShelfR *biquad.Biquad

	compressor *dynamics.Compressor
	reverbSend *reverb.Algorithmic
	limiter    *dynamics.Limiter
	panner     *spatial.Panner

	spectrum    *analysis.Spectrum
	loudness    *analysis.Loudness
	truePeak    *analysis.TruePeak
	correlation *analysis.Correlation

	reverbMix float64

	scratchL, scratchR []float64
}

// New constructs a master processor for the given sample rate and
// maximum block size, used to size the reverb scratch buffers. The
// spectrum analyzer window is fixed at 2048 samples. Process reallocates
// the scratch buffers if it is given a block longer than maxBlockSize.
func New(sampleRate float64, maxBlockSize int) (*Processor, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}

	if maxBlockSize < 1 {
		maxBlockSize = 1
	}

	p := &Processor{
		lowShelfL:   biquad.New(biquad.LowShelf, sampleRate, 200, 0.707, 0),
		lowShelfR:   biquad.New(biquad.LowShelf, sampleRate, 200, 0.707, 0),
		highShelfL:  biquad.New(biquad.HighShelf, sampleRate, 4000, 0.707, 0),
		highShelfR:  biquad.New(biquad.HighShelf, sampleRate, 4000, 0.707, 0),
		compressor:  dynamics.NewCompressor(sampleRate, -200, 1, 10, 100),
		reverbSend:  reverb.New(sampleRate),
		limiter:     dynamics.NewLimiter(sampleRate, 0, 50),
		panner:      spatial.NewPanner(sampleRate),
		spectrum:    analysis.NewSpectrum(2048, sampleRate),
		loudness:    analysis.NewLoudness(sampleRate),
		truePeak:    analysis.NewTruePeak(sampleRate),
		correlation: analysis.NewCorrelation(sampleRate),
		scratchL:    make([]float64, maxBlockSize),
		scratchR:    make([]float64, maxBlockSize),
	}

	return p, nil
}

// Process runs the standard tone/dynamics/reverb/limiter chain over left
// and right in place, up to the shorter of the two lengths, then feeds
// the result into the metering bank. It returns true iff the limiter
// engaged on at least one sample in the block (spec §4.17).
func (p *Processor) Process(left, right []float64) bool {
	n := shared.MinLen(len(left), len(right))

	if n > len(p.scratchL) {
		p.scratchL = make([]float64, n)
		p.scratchR = make([]float64, n)
	}

	clipped := false

	for i := 0; i < n; i++ {
		l := p.lowShelfL.Process(left[i])
		l = p.highShelfL.Process(l)

		r := p.lowShelfR.Process(right[i])
		r = p.highShelfR.Process(r)

		l, r = p.compressor.ProcessStereo(l, r)

		left[i] = l
		right[i] = r
	}

	if p.reverbMix > shared.Epsilon {
		scratchL := p.scratchL[:n]
		scratchR := p.scratchR[:n]
		copy(scratchL, left[:n])
		copy(scratchR, right[:n])

		p.reverbSend.Process(scratchL, scratchR)

		for i := 0; i < n; i++ {
			left[i] = left[i]*(1-p.reverbMix) + scratchL[i]*p.reverbMix
			right[i] = right[i]*(1-p.reverbMix) + scratchR[i]*p.reverbMix
		}
	}

	for i := 0; i < n; i++ {
		l, r, sampleClipped := p.limiter.ProcessStereo(left[i], right[i])
		left[i], right[i] = l, r

		if sampleClipped {
			clipped = true
		}
	}

	p.spectrum.PushSamples(left[:n])

	for i := 0; i < n; i++ {
		p.loudness.Process(left[i], right[i])
		p.truePeak.Process(left[i], right[i])
		p.correlation.Process(left[i], right[i])
	}

	return clipped
}

// ProcessSpatial positions the panner's source at (sx, sy, sz), runs the
// simplified stereo-downmix pan across left/right, then applies the
// standard Process chain (spec §4.17).
func (p *Processor) ProcessSpatial(left, right []float64, sx, sy, sz float64) bool {
	p.panner.SetSource(sx, sy, sz)
	p.panner.ProcessBuffer(left, right)

	return p.Process(left, right)
}

// SetReverbMix clamps the wet/dry reverb send level to [0,1].
func (p *Processor) SetReverbMix(mix float64) { p.reverbMix = clamp01(mix) }

// SetReverbRoomSize forwards to the reverb's room size control.
func (p *Processor) SetReverbRoomSize(size float64) { p.reverbSend.SetRoomSize(size) }

// SetReverbDamping forwards to the reverb's damping control.
func (p *Processor) SetReverbDamping(damp float64) { p.reverbSend.SetDamping(damp) }

// SetCompressorThreshold forwards to the compressor's threshold control.
func (p *Processor) SetCompressorThreshold(thresholdDB float64) {
	p.compressor.SetThreshold(thresholdDB)
}

// SetCompressorRatio forwards to the compressor's ratio control.
func (p *Processor) SetCompressorRatio(ratio float64) { p.compressor.SetRatio(ratio) }

// SetCompressorAttack forwards to the compressor's attack control.
func (p *Processor) SetCompressorAttack(attackMs float64) { p.compressor.SetAttack(attackMs) }

// SetCompressorRelease forwards to the compressor's release control.
func (p *Processor) SetCompressorRelease(releaseMs float64) { p.compressor.SetRelease(releaseMs) }

// SetLimiterThreshold forwards to the limiter's threshold control.
func (p *Processor) SetLimiterThreshold(thresholdDB float64) { p.limiter.SetThreshold(thresholdDB) }

// GainReduction returns the compressor's current gain reduction in dB.
func (p *Processor) GainReduction() float64 { return p.compressor.GainReduction() }

// LimiterGainReduction returns the limiter's current gain reduction in dB.
func (p *Processor) LimiterGainReduction() float64 { return p.limiter.GainReduction() }

// IntegratedLoudness recomputes and returns the gated integrated LUFS
// over the program processed so far.
func (p *Processor) IntegratedLoudness() float64 { return p.loudness.Integrated() }

// MomentaryLoudness returns the most recent 400ms-window LUFS.
func (p *Processor) MomentaryLoudness() float64 { return p.loudness.Momentary() }

// LoudnessRangeLU returns the gated loudness range over the program
// processed so far, in LU.
func (p *Processor) LoudnessRangeLU() float64 { return p.loudness.LoudnessRange() }

// TruePeakDB returns the greater of the held left/right true peaks in dBTP.
func (p *Processor) TruePeakDB() float64 { return p.truePeak.MaxPeakDB() }

// Correlation returns the most recently computed stereo correlation.
func (p *Processor) Correlation() float64 { return p.correlation.Value() }

// Spectrum computes and returns the current smoothed magnitude spectrum
// in dB, aliasing internal state (spec §4.17, §6).
func (p *Processor) Spectrum() []float64 { return p.spectrum.Compute() }

// Reset silences every component's internal state.
func (p *Processor) Reset() {
	p.lowShelfL.Reset()
	p.lowShelfR.Reset()
	p.highShelfL.Reset()
	p.highShelfR.Reset()
	p.compressor.Reset()
	p.reverbSend.Reset()
	p.limiter.Reset()
	p.panner.Reset()
	p.spectrum.Clear()
	p.loudness.Reset()
	p.truePeak.Reset()
	p.correlation.Clear()
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
