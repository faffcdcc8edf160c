package synthesis

import "math"

// Additive is a bank of up to 64 sine partials summed with independent
// frequency ratios and amplitudes, normalized by sqrt(n) (spec §4.12).
type Additive struct {
	numPartials    int
	phases         []float64
	frequencies    []float64
	amplitudes     []float64
	baseFrequency  float64
	sampleRate     float64
}

// NewAdditive allocates numPartials (clamped to [1,64]) partials defaulting
// to a harmonic series with 1/n amplitude falloff.
func NewAdditive(sampleRate float64, numPartials int) *Additive {
	if numPartials < 1 {
		numPartials = 1
	}
	if numPartials > 64 {
		numPartials = 64
	}

	frequencies := make([]float64, numPartials)
	amplitudes := make([]float64, numPartials)
	for i := 0; i < numPartials; i++ {
		n := float64(i + 1)
		frequencies[i] = n
		amplitudes[i] = 1.0 / n
	}

	return &Additive{
		numPartials:   numPartials,
		phases:        make([]float64, numPartials),
		frequencies:   frequencies,
		amplitudes:    amplitudes,
		baseFrequency: 440.0,
		sampleRate:    sampleRate,
	}
}

// SetFrequency sets the fundamental in Hz.
func (a *Additive) SetFrequency(freq float64) { a.baseFrequency = clamp(freq, 20, 20000) }

// SetPartialRatios overwrites the leading frequency ratios, up to the
// partial count.
func (a *Additive) SetPartialRatios(ratios []float64) {
	n := a.numPartials
	if len(ratios) < n {
		n = len(ratios)
	}

	copy(a.frequencies[:n], ratios[:n])
}

// SetPartialAmplitudes overwrites the leading amplitudes (clamped to
// [0,1]), up to the partial count.
func (a *Additive) SetPartialAmplitudes(amps []float64) {
	n := a.numPartials
	if len(amps) < n {
		n = len(amps)
	}

	for i := 0; i < n; i++ {
		a.amplitudes[i] = clamp(amps[i], 0, 1)
	}
}

// SetHarmonicFalloff resets ratios to the harmonic series 1..n with
// amplitude 1/n^power.
func (a *Additive) SetHarmonicFalloff(power float64) {
	for i := 0; i < a.numPartials; i++ {
		n := float64(i + 1)
		a.frequencies[i] = n
		a.amplitudes[i] = 1.0 / math.Pow(n, power)
	}
}

// Process sums all partials below Nyquist and normalizes by sqrt(n).
func (a *Additive) Process() float64 {
	var output float64

	for i := 0; i < a.numPartials; i++ {
		freq := a.baseFrequency * a.frequencies[i]
		if freq >= a.sampleRate*0.5 {
			continue
		}

		output += math.Sin(a.phases[i]*twoPi) * a.amplitudes[i]

		a.phases[i] += freq / a.sampleRate
		if a.phases[i] >= 1.0 {
			a.phases[i] -= 1.0
		}
	}

	return output / math.Sqrt(float64(a.numPartials))
}

// ProcessBuffer fills buf with successive samples.
func (a *Additive) ProcessBuffer(buf []float64) {
	for i := range buf {
		buf[i] = a.Process()
	}
}

// Reset rewinds every partial's phase to zero.
func (a *Additive) Reset() {
	for i := range a.phases {
		a.phases[i] = 0
	}
}
