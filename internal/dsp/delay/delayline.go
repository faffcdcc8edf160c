package delay

// Line is a fixed-length circular feedback delay line with independent
// wet/dry and feedback controls (spec §4.8).
type Line struct {
	buf      []float64
	writeIdx int
	delay    int
	feedback float64
	wet      float64
}

// NewLine allocates a delay line with capacity maxSamples, an initial
// delay of delaySamples (clamped to maxSamples-1), feedback in [0,0.99],
// and wet in [0,1].
func NewLine(maxSamples, delaySamples int, feedback, wet float64) *Line {
	if maxSamples < 1 {
		maxSamples = 1
	}

	l := &Line{
		buf:      make([]float64, maxSamples),
		feedback: clamp(feedback, 0, 0.99),
		wet:      clamp(wet, 0, 1),
	}
	l.SetDelay(delaySamples)

	return l
}

// SetDelay sets the delay length in samples, clamped to capacity-1.
func (l *Line) SetDelay(samples int) {
	maxDelay := len(l.buf) - 1
	if samples > maxDelay {
		samples = maxDelay
	}

	if samples < 0 {
		samples = 0
	}

	l.delay = samples
}

func (l *Line) SetFeedback(fb float64) { l.feedback = clamp(fb, 0, 0.99) }
func (l *Line) SetWet(wet float64)     { l.wet = clamp(wet, 0, 1) }

// Process reads the delayed sample, writes the new feedback sample, and
// returns the wet/dry mix (spec §4.8).
func (l *Line) Process(x float64) float64 {
	readIdx := l.writeIdx - l.delay
	if readIdx < 0 {
		readIdx += len(l.buf)
	}

	delayed := l.buf[readIdx]
	l.buf[l.writeIdx] = x + delayed*l.feedback

	l.writeIdx++
	if l.writeIdx >= len(l.buf) {
		l.writeIdx = 0
	}

	return x*(1-l.wet) + delayed*l.wet
}

// Reset silences the delay buffer.
func (l *Line) Reset() {
	for i := range l.buf {
		l.buf[i] = 0
	}

	l.writeIdx = 0
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
