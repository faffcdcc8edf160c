package biquad

// bandFrequencies are the eight fixed center frequencies of the
// multi-band EQ (spec §4.3), each driven at Q=1.
var bandFrequencies = [8]float64{60, 170, 310, 600, 1000, 3000, 6000, 12000}

// EQ cascades eight fixed-frequency peaking biquads.
type EQ struct {
	sampleRate float64
	bands      [8]*Biquad
	gains      [8]float64
}

// NewEQ builds an eight-band EQ with all bands flat (0 dB).
func NewEQ(sampleRate float64) *EQ {
	eq := &EQ{sampleRate: sampleRate}
	for i, f := range bandFrequencies {
		eq.bands[i] = New(Peak, sampleRate, f, 1.0, 0)
	}

	return eq
}

// SetBand rebuilds band i with the given gain in dB, zeroing its state.
// Parameter changes are not click-free; callers smooth externally.
func (eq *EQ) SetBand(i int, gainDB float64) {
	if i < 0 || i >= len(eq.bands) {
		return
	}

	eq.gains[i] = gainDB
	eq.bands[i].Retune(Peak, eq.sampleRate, bandFrequencies[i], 1.0, gainDB)
	eq.bands[i].Reset()
}

// BandGain returns the currently configured gain, in dB, of band i.
func (eq *EQ) BandGain(i int) float64 {
	if i < 0 || i >= len(eq.gains) {
		return 0
	}

	return eq.gains[i]
}

// Process cascades all eight bands over a single sample.
func (eq *EQ) Process(x float64) float64 {
	for _, band := range eq.bands {
		x = band.Process(x)
	}

	return x
}

// ProcessBuffer applies Process in place across buf.
func (eq *EQ) ProcessBuffer(buf []float64) {
	for i, x := range buf {
		buf[i] = eq.Process(x)
	}
}

// Reset zeros all band state registers.
func (eq *EQ) Reset() {
	for _, band := range eq.bands {
		band.Reset()
	}
}
