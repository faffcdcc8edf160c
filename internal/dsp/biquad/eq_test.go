package biquad_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bojan20/vanvinkl-dsp/internal/dsp/biquad"
)

func TestEQFlatPassthroughIsUnityish(t *testing.T) {
	eq := biquad.NewEQ(48000)

	var maxAbs float64
	for i := 0; i < 2000; i++ {
		y := eq.Process(0.1)
		if d := math.Abs(y - 0.1); d > maxAbs {
			maxAbs = d
		}
	}

	require.Less(t, maxAbs, 0.05)
}

func TestEQSetBandBounds(t *testing.T) {
	eq := biquad.NewEQ(44100)
	eq.SetBand(-1, 6) // no-op, out of range
	eq.SetBand(8, 6)  // no-op, out of range
	eq.SetBand(2, 6)

	require.InDelta(t, 6.0, eq.BandGain(2), 1e-9)
	require.InDelta(t, 0.0, eq.BandGain(0), 1e-9)
}

func TestEQBoundedness(t *testing.T) {
	eq := biquad.NewEQ(48000)
	for i := range 8 {
		eq.SetBand(i, 12)
	}

	for i := 0; i < 48000; i++ {
		y := eq.Process(math.Sin(float64(i) * 0.05))
		require.False(t, math.IsNaN(y) || math.IsInf(y, 0))
	}
}
