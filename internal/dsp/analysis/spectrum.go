// Package analysis implements the real-time metering chain: spectrum
// analysis, ITU-R BS.1770-4 loudness metering, true-peak detection, and
// stereo correlation (spec §4.13-§4.16, §11 supplement).
package analysis

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Spectrum is a circular-buffer FFT analyzer with a Hann window and
// exponential bin smoothing, backed by gonum's real FFT in place of the
// original engine's naive O(N^2) DFT (spec §4.13).
type Spectrum struct {
	fftSize    int
	sampleRate float64

	inputBuffer []float64
	fftInput    []float64
	writeIndex  int

	window []float64

	magnitudes         []float64
	smoothedMagnitudes []float64
	smoothing          float64

	fft    *fourier.FFT
	coeffs []complex128
}

// NewSpectrum rounds fftSize up to the next power of two and builds a
// Hann-windowed analyzer with 0.8 smoothing by default.
func NewSpectrum(fftSize int, sampleRate float64) *Spectrum {
	n := nextPowerOfTwo(fftSize)
	numBins := n/2 + 1

	window := make([]float64, n)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n)))
	}

	magnitudes := make([]float64, numBins)
	smoothed := make([]float64, numBins)
	for i := range magnitudes {
		magnitudes[i] = -100
		smoothed[i] = -100
	}

	return &Spectrum{
		fftSize:            n,
		sampleRate:         sampleRate,
		inputBuffer:        make([]float64, n),
		fftInput:           make([]float64, n),
		window:             window,
		magnitudes:         magnitudes,
		smoothedMagnitudes: smoothed,
		smoothing:          0.8,
		fft:                fourier.NewFFT(n),
		coeffs:             make([]complex128, numBins),
	}
}

func nextPowerOfTwo(n int) int {
	if n < 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}

// SetSmoothing clamps the per-bin exponential smoothing factor to [0,0.99].
func (s *Spectrum) SetSmoothing(smoothing float64) {
	s.smoothing = clamp(smoothing, 0, 0.99)
}

// PushSamples writes samples into the circular input buffer.
func (s *Spectrum) PushSamples(samples []float64) {
	for _, sample := range samples {
		s.inputBuffer[s.writeIndex] = sample
		s.writeIndex = (s.writeIndex + 1) % s.fftSize
	}
}

// Compute windows the buffered input, runs the FFT, and returns the
// smoothed magnitude spectrum in dB. The returned slice aliases internal
// state and must not be retained across the next Compute call.
func (s *Spectrum) Compute() []float64 {
	for i := 0; i < s.fftSize; i++ {
		readIdx := (s.writeIndex + i) % s.fftSize
		s.fftInput[i] = s.inputBuffer[readIdx] * s.window[i]
	}

	coeffs := s.fft.Coefficients(s.coeffs, s.fftInput)

	for k, c := range coeffs {
		magnitude := math.Sqrt(real(c)*real(c) + imag(c)*imag(c))
		magnitudeDB := 20 * math.Log10(magnitude/float64(s.fftSize)+1e-10)

		s.smoothedMagnitudes[k] = s.smoothedMagnitudes[k]*s.smoothing + magnitudeDB*(1-s.smoothing)
		s.magnitudes[k] = s.smoothedMagnitudes[k]
	}

	return s.magnitudes
}

// BinToFrequency converts a bin index to its center frequency in Hz.
func (s *Spectrum) BinToFrequency(bin int) float64 {
	return float64(bin) * s.sampleRate / float64(s.fftSize)
}

// FrequencyToBin converts a frequency in Hz to the nearest bin index,
// clamped to the Nyquist bin.
func (s *Spectrum) FrequencyToBin(freq float64) int {
	bin := int(math.Round(freq * float64(s.fftSize) / s.sampleRate))
	if max := s.fftSize / 2; bin > max {
		bin = max
	}

	return bin
}

// NumBins returns the number of magnitude bins (fftSize/2 + 1).
func (s *Spectrum) NumBins() int {
	return s.fftSize/2 + 1
}

// Clear silences the input buffer and resets magnitudes to the floor.
func (s *Spectrum) Clear() {
	for i := range s.inputBuffer {
		s.inputBuffer[i] = 0
	}

	for i := range s.magnitudes {
		s.magnitudes[i] = -100
		s.smoothedMagnitudes[i] = -100
	}

	s.writeIndex = 0
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
