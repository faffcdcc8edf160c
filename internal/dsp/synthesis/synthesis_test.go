package synthesis_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bojan20/vanvinkl-dsp/internal/dsp/synthesis"
)

func TestOscillatorBoundedForAllWaveforms(t *testing.T) {
	for _, w := range []synthesis.Waveform{
		synthesis.WaveSine, synthesis.WaveSaw, synthesis.WaveSquare,
		synthesis.WaveTriangle, synthesis.WaveNoise,
	} {
		o := synthesis.NewOscillator(44100)
		o.SetWaveform(w)
		o.SetFrequency(440)

		buf := make([]float64, 1024)
		o.ProcessBuffer(buf)

		for _, x := range buf {
			require.GreaterOrEqual(t, x, -1.0001)
			require.LessOrEqual(t, x, 1.0001)
		}
	}
}

func TestOscillatorResetRewindsPhase(t *testing.T) {
	o := synthesis.NewOscillator(44100)
	o.SetFrequency(440)

	first := o.Process()
	for range 100 {
		o.Process()
	}

	o.Reset()
	second := o.Process()

	require.InDelta(t, first, second, 1e-9)
}

func TestFmSynthProducesOutputDuringAttack(t *testing.T) {
	fm := synthesis.NewFmSynth(44100)
	fm.SetFrequency(440)
	fm.SetModRatio(2.0)
	fm.SetModIndex(5.0)
	fm.NoteOn()

	buf := make([]float64, 4410)
	fm.ProcessBuffer(buf)

	var maxAbs float64
	for _, x := range buf {
		if math.Abs(x) > maxAbs {
			maxAbs = math.Abs(x)
		}
	}

	require.Greater(t, maxAbs, 0.0)
}

func TestFmSynthSilentAfterRelease(t *testing.T) {
	fm := synthesis.NewFmSynth(44100)
	fm.SetEnvelope(0.001, 0.001, 0.5, 0.01)
	fm.NoteOn()

	for range 1000 {
		fm.Process()
	}

	fm.NoteOff()
	for range 5000 {
		fm.Process()
	}

	require.InDelta(t, 0.0, fm.Process(), 1e-6)
}

func TestWavetablePresetsAreBounded(t *testing.T) {
	w := synthesis.NewWavetableOsc(44100, 1024)
	w.SetFrequency(220)

	for _, preset := range []synthesis.WavetablePreset{
		synthesis.PresetSine, synthesis.PresetSaw, synthesis.PresetSquare,
		synthesis.PresetPWM25, synthesis.PresetOrgan, synthesis.PresetBell,
	} {
		w.SetPreset(preset)

		buf := make([]float64, 2048)
		w.ProcessBuffer(buf)

		for _, x := range buf {
			require.False(t, math.IsNaN(x) || math.IsInf(x, 0))
		}
	}
}

func TestAdditiveNormalizedAmplitudeIsBounded(t *testing.T) {
	a := synthesis.NewAdditive(44100, 16)
	a.SetFrequency(220)

	buf := make([]float64, 4096)
	a.ProcessBuffer(buf)

	for _, x := range buf {
		require.False(t, math.IsNaN(x) || math.IsInf(x, 0))
	}
}

func TestAdditiveSkipsPartialsAboveNyquist(t *testing.T) {
	a := synthesis.NewAdditive(8000, 64)
	a.SetFrequency(2000)

	buf := make([]float64, 1024)
	a.ProcessBuffer(buf)

	for _, x := range buf {
		require.False(t, math.IsNaN(x) || math.IsInf(x, 0))
	}
}

func TestNoiseWhiteMeanAndVariance(t *testing.T) {
	n := synthesis.NewNoiseGenerator()
	n.SetType(synthesis.NoiseWhite)

	const count = 100000
	buf := make([]float64, count)
	n.ProcessBuffer(buf)

	var sum float64
	for _, x := range buf {
		sum += x
	}
	mean := sum / count

	var varSum float64
	for _, x := range buf {
		d := x - mean
		varSum += d * d
	}
	variance := varSum / count

	require.InDelta(t, 0.0, mean, 0.02)
	require.Greater(t, variance, 0.25)
	require.Less(t, variance, 0.45)
}

func TestNoisePinkAndBrownAreBounded(t *testing.T) {
	n := synthesis.NewNoiseGenerator()

	for _, nt := range []synthesis.NoiseType{synthesis.NoisePink, synthesis.NoiseBrown} {
		n.SetType(nt)

		buf := make([]float64, 10000)
		n.ProcessBuffer(buf)

		for _, x := range buf {
			require.False(t, math.IsNaN(x) || math.IsInf(x, 0))
			require.LessOrEqual(t, math.Abs(x), 4.0)
		}
	}
}

func TestNoiseResetClearsFilterState(t *testing.T) {
	n := synthesis.NewNoiseGenerator()
	n.SetType(synthesis.NoisePink)

	for range 1000 {
		n.Process()
	}

	n.Reset()

	// After reset, filter state is zero but the xorshift seed continues;
	// the next sample should still be finite and in range.
	y := n.Process()
	require.False(t, math.IsNaN(y) || math.IsInf(y, 0))
}
