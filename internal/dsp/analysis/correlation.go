package analysis

import "math"

const correlationDecay = 0.9999

// Correlation is a Pearson stereo correlation meter driven by
// exponentially decayed running sums, recomputed every 256 samples
// (spec §4.16).
type Correlation struct {
	sumL, sumR, sumLL, sumRR, sumLR float64

	sampleCount int
	correlation float64
}

// NewCorrelation constructs a meter starting at zero correlation.
func NewCorrelation(sampleRate float64) *Correlation {
	return &Correlation{}
}

// Process accumulates one stereo sample pair into the decayed running
// sums, recomputing the correlation coefficient every 256 samples.
func (c *Correlation) Process(left, right float64) {
	c.sumL = c.sumL*correlationDecay + left
	c.sumR = c.sumR*correlationDecay + right
	c.sumLL = c.sumLL*correlationDecay + left*left
	c.sumRR = c.sumRR*correlationDecay + right*right
	c.sumLR = c.sumLR*correlationDecay + left*right

	c.sampleCount++

	if c.sampleCount%256 == 0 {
		c.compute()
	}
}

// compute recomputes the Pearson coefficient, normalizing by the
// decay-bounded effective sample count (min(sampleCount, 1/(1-decay)))
// rather than the unbounded sample count, so the running mean does not
// keep shrinking toward zero over a long-running stream (spec Open
// Question resolution; see the design ledger).
func (c *Correlation) compute() {
	effectiveN := math.Min(float64(c.sampleCount), 1/(1-correlationDecay))
	if effectiveN < 2 {
		return
	}

	meanL := c.sumL / effectiveN
	meanR := c.sumR / effectiveN

	varL := math.Max(c.sumLL/effectiveN-meanL*meanL, 1e-10)
	varR := math.Max(c.sumRR/effectiveN-meanR*meanR, 1e-10)
	cov := c.sumLR/effectiveN - meanL*meanR

	c.correlation = cov / (math.Sqrt(varL) * math.Sqrt(varR))
	c.correlation = clamp(c.correlation, -1, 1)
}

// Value returns the most recently computed correlation coefficient,
// +1 for mono, 0 for uncorrelated, -1 for fully out of phase.
func (c *Correlation) Value() float64 { return c.correlation }

// Clear resets all running sums and the reported correlation.
func (c *Correlation) Clear() {
	c.sumL, c.sumR, c.sumLL, c.sumRR, c.sumLR = 0, 0, 0, 0, 0
	c.sampleCount = 0
	c.correlation = 0
}
