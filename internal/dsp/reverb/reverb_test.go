package reverb_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bojan20/vanvinkl-dsp/internal/dsp/reverb"
)

func TestReverbTailNonZero(t *testing.T) {
	r := reverb.New(48000)
	r.SetRoomSize(0.8)
	r.SetWidth(1.0)

	left := make([]float64, 4096)
	right := make([]float64, 4096)
	left[0] = 1.0

	r.Process(left, right)

	count := 0
	for _, x := range left {
		if math.Abs(x) > 1e-3 {
			count++
		}
	}

	require.Greater(t, count, 10)
}

func TestReverbSilencePreservation(t *testing.T) {
	r := reverb.New(48000)
	r.SetRoomSize(0.9)

	left := make([]float64, 8192)
	right := make([]float64, 8192)
	left[0] = 1.0
	r.Process(left, right)

	r.Reset()

	left2 := make([]float64, 4096)
	right2 := make([]float64, 4096)
	r.Process(left2, right2)

	var maxAbs float64
	for i := range left2 {
		if math.Abs(left2[i]) > maxAbs {
			maxAbs = math.Abs(left2[i])
		}

		if math.Abs(right2[i]) > maxAbs {
			maxAbs = math.Abs(right2[i])
		}
	}

	require.Less(t, maxAbs, 1e-6)
}

func TestConvolutionPresetsAreBounded(t *testing.T) {
	for _, preset := range []string{
		reverb.PresetSmallRoom, reverb.PresetMediumRoom,
		reverb.PresetLargeRoom, reverb.PresetCasinoFloor, "unknown",
	} {
		c := reverb.NewConvolution(44100, preset)

		left := make([]float64, 1024)
		right := make([]float64, 1024)
		for i := range left {
			left[i] = math.Sin(float64(i) * 0.1)
			right[i] = math.Cos(float64(i) * 0.1)
		}

		c.Process(left, right)

		for _, x := range left {
			require.False(t, math.IsNaN(x) || math.IsInf(x, 0))
		}
	}
}
