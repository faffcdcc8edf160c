package dynamics_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bojan20/vanvinkl-dsp/internal/dsp/dynamics"
)

func TestCompressorBelowThresholdPassesThrough(t *testing.T) {
	c := dynamics.NewCompressor(44100, -20, 4, 10, 100)

	out := c.Process(0.05)
	require.InDelta(t, 0.05, out, 0.01)
}

func TestCompressorSteadyStateGainReduction(t *testing.T) {
	// Master scenario 2 (SPEC_FULL.md §8): -20dB threshold, ratio 4,
	// 10ms attack, 100ms release, input at ~-6dBFS for 1s converges
	// to 10.5 +/- 1 dB of gain reduction.
	c := dynamics.NewCompressor(48000, -20, 4, 10, 100)

	for range 48000 {
		c.Process(0.5)
	}

	require.InDelta(t, 10.5, c.GainReduction(), 1.0)
}

func TestCompressorMonotonicity(t *testing.T) {
	run := func(amp float64) float64 {
		c := dynamics.NewCompressor(48000, -20, 4, 5, 50)
		var sumSq float64
		for i := 0; i < 48000; i++ {
			y := c.Process(amp)
			sumSq += y * y
		}
		return math.Sqrt(sumSq / 48000)
	}

	rmsLow := run(0.2)
	rmsHigh := run(0.4) // +6.02 dB above rmsLow input level

	deltaOutDB := 20 * math.Log10(rmsHigh/rmsLow)
	require.Less(t, deltaOutDB, 6.02/4*1.1+0.5)
}

func TestCompressorSidechain(t *testing.T) {
	c := dynamics.NewCompressor(48000, -20, 4, 5, 50)

	for range 48000 {
		out := c.ProcessSidechain(0.1, 0.9)
		require.False(t, math.IsNaN(out) || math.IsInf(out, 0))
	}

	require.Greater(t, c.GainReduction(), 0.0)
}

func TestLimiterClipsAboveThreshold(t *testing.T) {
	l := dynamics.NewLimiter(44100, -1, 50)

	left, right, clipped := l.ProcessStereo(2.0, 2.0)
	require.True(t, clipped)
	require.LessOrEqual(t, math.Abs(left), 1.0)
	require.LessOrEqual(t, math.Abs(right), 1.0)
}

func TestLimiterBrickWall(t *testing.T) {
	l := dynamics.NewLimiter(48000, -1, 50)
	thresholdLinear := math.Pow(10, -1.0/20)

	for range 48000 {
		left, right, _ := l.ProcessStereo(1.5, -1.5)
		require.LessOrEqual(t, math.Abs(left), thresholdLinear*1.01)
		require.LessOrEqual(t, math.Abs(right), thresholdLinear*1.01)
	}
}

func TestGateOpensAboveThresholdAndHolds(t *testing.T) {
	g := dynamics.NewGate(48000, -20, 100, 1, 50, 10)

	// Loud burst should open the gate near-fully.
	var out float64
	for range 2000 {
		out = g.Process(0.5)
	}

	require.InDelta(t, 0.5, out, 0.05)

	// A quiet signal inside the 10ms hold window keeps the gate open.
	for range 200 {
		out = g.Process(0.01)
	}

	require.InDelta(t, 0.01, out, 1e-3)
}

func TestGateSilencePreservation(t *testing.T) {
	g := dynamics.NewGate(48000, -20, 100, 1, 50, 10)
	for range 1000 {
		g.Process(0.5)
	}

	g.Reset()

	var maxAbs float64
	for range 2000 {
		y := g.Process(0)
		if math.Abs(y) > maxAbs {
			maxAbs = math.Abs(y)
		}
	}

	require.Less(t, maxAbs, 1e-6)
}
