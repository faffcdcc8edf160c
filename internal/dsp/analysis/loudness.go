package analysis

import (
	"math"
	"sort"
)

type biquadCoef struct {
	b0, b1, b2 float64
	a1, a2     float64
}

type biquadState struct {
	z1, z2 float64
}

func (s *biquadState) process(c *biquadCoef, in float64) float64 {
	out := c.b0*in + s.z1
	s.z1 = c.b1*in - c.a1*out + s.z2
	s.z2 = c.b2*in - c.a2*out

	return out
}

// kWeightingFilters derives the BS.1770-4 pre-filter (high shelf) and RLB
// weighting (high-pass) via the analog-prototype bilinear transform, valid
// at any sample rate (unlike the original engine's two fixed coefficient
// sets for 48kHz vs. "everything else").
func kWeightingFilters(sampleRate float64) (pre, rlb biquadCoef) {
	centerFreq := 1681.974450955533
	gainDB := 3.999843853973347
	q := 0.7071752369554196

	k := math.Tan(math.Pi * centerFreq / sampleRate)
	headGainV := math.Pow(10, gainDB/20)
	vb := math.Pow(headGainV, 0.4996667741545416)

	gain := 1 + k/q + k*k
	pre.b0 = (headGainV + vb*k/q + k*k) / gain
	pre.b1 = 2 * (k*k - headGainV) / gain
	pre.b2 = (headGainV - vb*k/q + k*k) / gain
	pre.a1 = 2 * (k*k - 1) / gain
	pre.a2 = (1 - k/q + k*k) / gain

	centerFreq = 38.13547087602444
	q = 0.5003270373238773

	k = math.Tan(math.Pi * centerFreq / sampleRate)

	gain = 1 + k/q + k*k
	rlb.b0 = 1 / gain
	rlb.b1 = -2 / gain
	rlb.b2 = 1 / gain
	rlb.a1 = 2 * (k*k - 1) / gain
	rlb.a2 = (1 - k/q + k*k) / gain

	return pre, rlb
}

// Loudness is a streaming ITU-R BS.1770-4 meter: momentary (400ms) and
// short-term (3s) mean-square windows, plus two-gate integrated loudness
// and loudness range over the accumulated program (spec §4.14, §11).
type Loudness struct {
	sampleRate float64
	pre, rlb   biquadCoef
	preL, preR biquadState
	rlbL, rlbR biquadState

	momentaryBuf   []float64
	momentaryIndex int
	momentarySum   float64
	momentaryFull  bool

	shortTermBuf   []float64
	shortTermIndex int
	shortTermSum   float64
	shortTermFull  bool

	momentaryLUFS  float64
	shortTermLUFS  float64
	integratedLUFS float64

	momentaryPowers []float64
	shortTermPowers []float64

	sampleCount int
	hopSamples  int
}

// NewLoudness builds a meter for the given sample rate with momentary and
// short-term gate windows updated every 100ms.
func NewLoudness(sampleRate float64) *Loudness {
	pre, rlb := kWeightingFilters(sampleRate)

	momentarySamples := int(sampleRate * 0.4)
	shortTermSamples := int(sampleRate * 3.0)

	return &Loudness{
		sampleRate:     sampleRate,
		pre:            pre,
		rlb:            rlb,
		momentaryBuf:   make([]float64, max1(momentarySamples)),
		shortTermBuf:   make([]float64, max1(shortTermSamples)),
		momentaryLUFS:  -100,
		shortTermLUFS:  -100,
		integratedLUFS: -100,
		hopSamples:     max1(int(sampleRate * 0.1)),
	}
}

func max1(n int) int {
	if n < 1 {
		return 1
	}

	return n
}

// Process runs one stereo sample pair through the K-weighting chain and
// accumulates its mean-square power into both gate windows.
func (l *Loudness) Process(left, right float64) {
	hsL := l.preL.process(&l.pre, left)
	hsR := l.preR.process(&l.pre, right)

	hpL := l.rlbL.process(&l.rlb, hsL)
	hpR := l.rlbR.process(&l.rlb, hsR)

	ms := hpL*hpL + hpR*hpR

	l.updateRing(&l.momentaryBuf, &l.momentaryIndex, &l.momentarySum, &l.momentaryFull, ms)
	l.updateRing(&l.shortTermBuf, &l.shortTermIndex, &l.shortTermSum, &l.shortTermFull, ms)

	l.sampleCount++

	if l.sampleCount%l.hopSamples == 0 {
		if l.momentaryFull {
			mean := l.momentarySum / float64(len(l.momentaryBuf))
			l.momentaryLUFS = lufsFromPower(mean)
			l.momentaryPowers = append(l.momentaryPowers, mean)
		}

		if l.shortTermFull {
			mean := l.shortTermSum / float64(len(l.shortTermBuf))
			l.shortTermLUFS = lufsFromPower(mean)
			l.shortTermPowers = append(l.shortTermPowers, mean)
		}
	}
}

func (l *Loudness) updateRing(buf *[]float64, index *int, sum *float64, full *bool, value float64) {
	b := *buf
	old := b[*index]
	b[*index] = value
	*sum = *sum - old + value

	*index = (*index + 1) % len(b)
	if *index == 0 {
		*full = true
	}
}

func lufsFromPower(power float64) float64 {
	return -0.691 + 10*math.Log10(power+1e-10)
}

// Momentary returns the most recently computed 400ms-window loudness.
func (l *Loudness) Momentary() float64 { return l.momentaryLUFS }

// ShortTerm returns the most recently computed 3s-window loudness.
func (l *Loudness) ShortTerm() float64 { return l.shortTermLUFS }

// Integrated recomputes the gated integrated loudness over every
// momentary-window power recorded so far (spec §4.14).
func (l *Loudness) Integrated() float64 {
	l.integratedLUFS = gatedIntegratedLoudness(l.momentaryPowers)

	return l.integratedLUFS
}

// LoudnessRange computes the EBU R128-style loudness range (95th minus
// 10th percentile of the relatively gated short-term loudness values),
// a supplemental metric not present in the original real-time meter
// (spec §11).
func (l *Loudness) LoudnessRange() float64 {
	return loudnessRange(l.shortTermPowers)
}

func gatedIntegratedLoudness(powers []float64) float64 {
	if len(powers) == 0 {
		return -100
	}

	var sum float64
	var count int

	for _, p := range powers {
		if lufsFromPower(p) > -70 {
			sum += p
			count++
		}
	}

	if count == 0 {
		return -100
	}

	ungatedMean := sum / float64(count)
	relativeThreshold := lufsFromPower(ungatedMean) - 10

	sum, count = 0, 0

	for _, p := range powers {
		if lufsFromPower(p) > relativeThreshold {
			sum += p
			count++
		}
	}

	if count == 0 {
		return -100
	}

	return lufsFromPower(sum / float64(count))
}

func loudnessRange(powers []float64) float64 {
	if len(powers) < 2 {
		return 0
	}

	var lufsValues []float64

	for _, p := range powers {
		lufs := lufsFromPower(p)
		if lufs > -70 {
			lufsValues = append(lufsValues, lufs)
		}
	}

	if len(lufsValues) < 2 {
		return 0
	}

	var sum float64
	for _, v := range lufsValues {
		sum += v
	}

	mean := sum / float64(len(lufsValues))
	relativeThreshold := mean - 20

	var gated []float64

	for _, v := range lufsValues {
		if v > relativeThreshold {
			gated = append(gated, v)
		}
	}

	if len(gated) < 2 {
		return 0
	}

	sort.Float64s(gated)
	low := gated[int(float64(len(gated))*0.10)]
	high := gated[int(float64(len(gated))*0.95)]

	return high - low
}

// ResetIntegrated clears the accumulated gate-window history without
// disturbing the filter state or short-window ring buffers.
func (l *Loudness) ResetIntegrated() {
	l.momentaryPowers = nil
	l.shortTermPowers = nil
	l.integratedLUFS = -100
}

// Reset silences filter state and every window and history buffer.
func (l *Loudness) Reset() {
	l.preL, l.preR = biquadState{}, biquadState{}
	l.rlbL, l.rlbR = biquadState{}, biquadState{}

	for i := range l.momentaryBuf {
		l.momentaryBuf[i] = 0
	}

	for i := range l.shortTermBuf {
		l.shortTermBuf[i] = 0
	}

	l.momentarySum, l.shortTermSum = 0, 0
	l.momentaryIndex, l.shortTermIndex = 0, 0
	l.momentaryFull, l.shortTermFull = false, false
	l.sampleCount = 0

	l.ResetIntegrated()

	l.momentaryLUFS = -100
	l.shortTermLUFS = -100
}
