// Package delay implements the recirculating delay primitives used by the
// algorithmic reverb (comb and all-pass filters) and a standalone,
// general-purpose feedback delay line.
package delay

// Comb is a damped, recirculating comb filter: feedback path is low-pass
// filtered by a one-pole damper before being written back.
type Comb struct {
	buf        []float64
	idx        int
	feedback   float64
	damp       float64
	dampState  float64
}

// NewComb allocates a comb filter with the given delay length in samples.
func NewComb(length int, feedback, damp float64) *Comb {
	if length < 1 {
		length = 1
	}

	return &Comb{
		buf:      make([]float64, length),
		feedback: feedback,
		damp:     damp,
	}
}

func (c *Comb) SetFeedback(fb float64) { c.feedback = fb }
func (c *Comb) SetDamp(damp float64)   { c.damp = damp }

// Process advances the comb by one sample (spec §4.7).
func (c *Comb) Process(x float64) float64 {
	y := c.buf[c.idx]
	c.dampState = y*(1-c.damp) + c.dampState*c.damp
	c.buf[c.idx] = x + c.dampState*c.feedback

	c.idx++
	if c.idx >= len(c.buf) {
		c.idx = 0
	}

	return y
}

// Reset silences the comb's delay buffer and damping state.
func (c *Comb) Reset() {
	for i := range c.buf {
		c.buf[i] = 0
	}

	c.dampState = 0
	c.idx = 0
}
