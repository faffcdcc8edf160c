// Package synthesis implements procedural sound generation: a
// band-limited multi-waveform oscillator, 2-operator FM synth, wavetable
// oscillator, additive synth, and white/pink/brown noise generators
// (spec §4.12).
package synthesis

import "math"

const twoPi = 2 * math.Pi
const maxUint32 = 4294967295.0

// Waveform selects Oscillator's output shape.
type Waveform uint8

// Waveform values, matching the order of the original engine.
const (
	WaveSine Waveform = iota
	WaveSaw
	WaveSquare
	WaveTriangle
	WaveNoise
)

// Oscillator is a phase-accumulator oscillator with polyBLEP
// anti-aliasing on the saw and square waveforms (spec §4.12).
type Oscillator struct {
	phase          float64
	frequency      float64
	sampleRate     float64
	waveform       Waveform
	phaseIncrement float64
	noiseState     uint32
}

// NewOscillator starts at 440Hz sine with a deterministic noise seed.
func NewOscillator(sampleRate float64) *Oscillator {
	return &Oscillator{
		frequency:      440.0,
		sampleRate:     sampleRate,
		phaseIncrement: 440.0 / sampleRate,
		noiseState:     12345,
	}
}

// SetFrequency clamps to [0.01, 0.49*sampleRate] to stay below Nyquist.
func (o *Oscillator) SetFrequency(freq float64) {
	o.frequency = clamp(freq, 0.01, o.sampleRate*0.49)
	o.phaseIncrement = o.frequency / o.sampleRate
}

// SetWaveform selects the output shape.
func (o *Oscillator) SetWaveform(w Waveform) {
	if w > WaveNoise {
		w = WaveNoise
	}

	o.waveform = w
}

// Reset rewinds phase to zero.
func (o *Oscillator) Reset() {
	o.phase = 0
}

func (o *Oscillator) polyBLEP(t float64) float64 {
	dt := o.phaseIncrement

	if t < dt {
		tNorm := t / dt
		return 2*tNorm - tNorm*tNorm - 1
	}

	if t > 1-dt {
		tNorm := (t - 1) / dt
		return tNorm*tNorm + 2*tNorm + 1
	}

	return 0
}

// Process generates the next sample and advances phase.
func (o *Oscillator) Process() float64 {
	var output float64

	switch o.waveform {
	case WaveSine:
		output = math.Sin(o.phase * twoPi)
	case WaveSaw:
		saw := 2*o.phase - 1
		saw -= o.polyBLEP(o.phase)
		output = saw
	case WaveSquare:
		square := -1.0
		if o.phase < 0.5 {
			square = 1.0
		}

		square += o.polyBLEP(o.phase)
		square -= o.polyBLEP(math.Mod(o.phase+0.5, 1.0))
		output = square
	case WaveTriangle:
		phase2 := o.phase * 2
		if phase2 < 1.0 {
			output = -1 + 2*phase2
		} else {
			output = 3 - 2*phase2
		}
	case WaveNoise:
		o.noiseState ^= o.noiseState << 13
		o.noiseState ^= o.noiseState >> 17
		o.noiseState ^= o.noiseState << 5
		output = (float64(o.noiseState)/maxUint32)*2 - 1
	}

	o.phase += o.phaseIncrement
	if o.phase >= 1.0 {
		o.phase -= 1.0
	}

	return output
}

// ProcessBuffer fills buf with successive samples.
func (o *Oscillator) ProcessBuffer(buf []float64) {
	for i := range buf {
		buf[i] = o.Process()
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}

	if x > hi {
		return hi
	}

	return x
}
