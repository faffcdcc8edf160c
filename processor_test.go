package dsp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	dsp "github.com/Bojan20/vanvinkl-dsp"
)

func newProcessor(t *testing.T, sampleRate float64, blockSize int) *dsp.Processor {
	t.Helper()

	p, err := dsp.New(sampleRate, blockSize)
	require.NoError(t, err)

	return p
}

func TestNewRejectsNonPositiveSampleRate(t *testing.T) {
	_, err := dsp.New(0, 512)
	require.ErrorIs(t, err, dsp.ErrInvalidSampleRate)
}

func TestUnitGainChainPreservesLevel(t *testing.T) {
	p := newProcessor(t, 48000, 512)
	p.SetReverbMix(0)
	p.SetCompressorThreshold(-200)
	p.SetLimiterThreshold(0)

	left := make([]float64, 512)
	right := make([]float64, 512)
	for i := range left {
		left[i] = 0.1
		right[i] = 0.1
	}

	for block := 0; block < 2; block++ {
		p.Process(left, right)
	}

	for i := range left {
		require.InDelta(t, 0.1, left[i], 1e-2)
		require.InDelta(t, 0.1, right[i], 1e-2)
	}
}

func TestCompressorSteadyStateGainReductionConvergesNearTarget(t *testing.T) {
	p := newProcessor(t, 48000, 512)
	p.SetReverbMix(0)
	p.SetCompressorThreshold(-20)
	p.SetCompressorRatio(4)
	p.SetCompressorAttack(10)
	p.SetCompressorRelease(100)
	p.SetLimiterThreshold(20)

	left := make([]float64, 512)
	right := make([]float64, 512)
	for i := range left {
		left[i] = 0.5
		right[i] = 0.5
	}

	for block := 0; block < 94; block++ {
		input := make([]float64, 512)
		inputR := make([]float64, 512)
		for i := range input {
			input[i] = 0.5
			inputR[i] = 0.5
		}

		p.Process(input, inputR)
	}

	require.InDelta(t, 10.5, p.GainReduction(), 1.5)
}

func TestLimiterClippingFlagAndBrickWall(t *testing.T) {
	p := newProcessor(t, 48000, 512)
	p.SetReverbMix(0)
	p.SetCompressorThreshold(-200)
	p.SetLimiterThreshold(-1)

	left := make([]float64, 512)
	right := make([]float64, 512)
	for i := range left {
		left[i] = 2.0
		right[i] = 2.0
	}

	clipped := p.Process(left, right)
	require.True(t, clipped)

	limit := math.Pow(10, -1.0/20) * 1.01
	for i := range left {
		require.LessOrEqual(t, math.Abs(left[i]), limit)
		require.LessOrEqual(t, math.Abs(right[i]), limit)
	}
}

func TestReverbTailIsAudibleWhenMixed(t *testing.T) {
	p := newProcessor(t, 48000, 4096)
	p.SetReverbMix(1.0)
	p.SetReverbRoomSize(0.8)
	p.SetCompressorThreshold(-200)
	p.SetLimiterThreshold(20)

	left := make([]float64, 4096)
	right := make([]float64, 4096)
	left[0] = 1.0

	p.Process(left, right)

	count := 0
	for _, x := range left {
		if math.Abs(x) > 1e-3 {
			count++
		}
	}

	require.Greater(t, count, 10)
}

func TestProcessSpatialProducesBoundedOutput(t *testing.T) {
	p := newProcessor(t, 48000, 1024)

	left := make([]float64, 1024)
	right := make([]float64, 1024)
	for i := range left {
		left[i] = math.Sin(float64(i) * 0.02)
		right[i] = left[i]
	}

	p.ProcessSpatial(left, right, 3, 0, 4)

	for i := range left {
		require.False(t, math.IsNaN(left[i]) || math.IsInf(left[i], 0))
		require.False(t, math.IsNaN(right[i]) || math.IsInf(right[i], 0))
	}
}

func TestResetIsIdempotentAndSilencesState(t *testing.T) {
	p := newProcessor(t, 48000, 512)
	p.SetReverbMix(0.5)

	left := make([]float64, 512)
	right := make([]float64, 512)
	for i := range left {
		left[i] = 0.5
		right[i] = 0.5
	}

	p.Process(left, right)
	p.Reset()
	p.Reset()

	left2 := make([]float64, 512)
	right2 := make([]float64, 512)
	p.Process(left2, right2)

	for i := range left2 {
		require.Less(t, math.Abs(left2[i]), 1e-6)
		require.Less(t, math.Abs(right2[i]), 1e-6)
	}
}

func TestMismatchedBufferLengthsProcessShorterLength(t *testing.T) {
	p := newProcessor(t, 48000, 512)

	left := make([]float64, 512)
	right := make([]float64, 256)
	for i := range left {
		left[i] = 0.3
	}
	for i := range right {
		right[i] = 0.3
	}

	require.NotPanics(t, func() {
		p.Process(left, right)
	})
}
