package analysis

import "math"

// truePeakFilterCoeffs is a symmetric 17-tap polyphase FIR approximating
// a bandlimited interpolator for 4x oversampling (spec §4.15).
var truePeakFilterCoeffs = [17]float64{
	0.0, 0.015, 0.08, 0.25, 0.5, 0.75, 0.92, 0.985, 1.0,
	0.985, 0.92, 0.75, 0.5, 0.25, 0.08, 0.015, 0.0,
}

const (
	truePeakOversample  = 4
	truePeakHoldSeconds = 1.0
	truePeakDecay       = 0.9999
	ispThresholdLinear  = 1.0
)

// TruePeak estimates inter-sample peaks via 4x-oversampled polyphase
// interpolation, with peak-hold-then-decay metering and ISP event
// counting (spec §4.15, §11 supplement).
type TruePeak struct {
	historyL, historyR []float64
	historyIndex       int

	peakL, peakR           float64
	holdSamples            int
	holdCounterL           int
	holdCounterR           int

	ispCount int
	ispMax   float64
}

// NewTruePeak allocates history buffers sized to the filter length and a
// 1-second peak hold.
func NewTruePeak(sampleRate float64) *TruePeak {
	n := len(truePeakFilterCoeffs)

	return &TruePeak{
		historyL:    make([]float64, n),
		historyR:    make([]float64, n),
		holdSamples: int(sampleRate * truePeakHoldSeconds),
	}
}

// Process oversamples one stereo sample pair, updating peak-hold state
// and the inter-sample-peak event counter.
func (t *TruePeak) Process(left, right float64) {
	n := len(truePeakFilterCoeffs)

	t.historyL[t.historyIndex] = left
	t.historyR[t.historyIndex] = right

	for phase := 0; phase < truePeakOversample; phase++ {
		var interpL, interpR float64

		phaseWeight := 1.0 - float64(phase)*0.25

		for i, coeff := range truePeakFilterCoeffs {
			idx := (t.historyIndex + n - i) % n
			interpL += t.historyL[idx] * coeff * phaseWeight
			interpR += t.historyR[idx] * coeff * phaseWeight
		}

		absL := math.Abs(interpL)
		absR := math.Abs(interpR)

		if absL > t.peakL {
			t.peakL = absL
			t.holdCounterL = t.holdSamples
		}

		if absR > t.peakR {
			t.peakR = absR
			t.holdCounterR = t.holdSamples
		}

		t.countISP(absL)
		t.countISP(absR)
	}

	t.historyIndex = (t.historyIndex + 1) % n

	if t.holdCounterL > 0 {
		t.holdCounterL--
	} else {
		t.peakL *= truePeakDecay
	}

	if t.holdCounterR > 0 {
		t.holdCounterR--
	} else {
		t.peakR *= truePeakDecay
	}
}

func (t *TruePeak) countISP(absInterp float64) {
	if absInterp <= ispThresholdLinear {
		return
	}

	t.ispCount++

	overshoot := 20 * math.Log10(absInterp)
	if overshoot > t.ispMax {
		t.ispMax = overshoot
	}
}

// PeakLeftDB returns the held left-channel true peak in dBTP.
func (t *TruePeak) PeakLeftDB() float64 { return 20 * math.Log10(t.peakL+1e-10) }

// PeakRightDB returns the held right-channel true peak in dBTP.
func (t *TruePeak) PeakRightDB() float64 { return 20 * math.Log10(t.peakR+1e-10) }

// MaxPeakDB returns the greater of the two held peaks in dBTP.
func (t *TruePeak) MaxPeakDB() float64 {
	return 20 * math.Log10(math.Max(t.peakL, t.peakR)+1e-10)
}

// ISPCount returns the number of oversampled points that exceeded 0dBFS
// since the last reset, a supplemental inter-sample-peak event count not
// present in the original meter (spec §11).
func (t *TruePeak) ISPCount() int { return t.ispCount }

// ISPMaxDB returns the largest ISP overshoot in dB above 0dBFS, or 0 if
// no ISP event has been recorded.
func (t *TruePeak) ISPMaxDB() float64 { return t.ispMax }

// Reset clears peak hold state and the ISP counter, leaving history
// buffers intact.
func (t *TruePeak) Reset() {
	t.peakL, t.peakR = 0, 0
	t.holdCounterL, t.holdCounterR = 0, 0
	t.ispCount = 0
	t.ispMax = 0
}

// Clear silences history buffers in addition to Reset.
func (t *TruePeak) Clear() {
	for i := range t.historyL {
		t.historyL[i] = 0
		t.historyR[i] = 0
	}

	t.Reset()
}
