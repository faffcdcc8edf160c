package spatial_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Bojan20/vanvinkl-dsp/internal/dsp/spatial"
)

func TestPannerFrontIsNearlyCentered(t *testing.T) {
	p := spatial.NewPanner(48000)
	p.SetListener(0, 0, 0, 0)
	p.SetSource(0, 0, 1)

	var left, right float64
	for range 64 {
		left, right = p.Process(1.0)
	}

	require.Less(t, math.Abs(left-right), 0.1)
}

func TestPannerSilencePreservation(t *testing.T) {
	p := spatial.NewPanner(48000)
	p.SetSource(5, 0, 2)

	for range 1000 {
		p.Process(0.5)
	}

	p.Reset()

	var maxAbs float64
	for range 1000 {
		l, r := p.Process(0)
		if math.Abs(l) > maxAbs {
			maxAbs = math.Abs(l)
		}

		if math.Abs(r) > maxAbs {
			maxAbs = math.Abs(r)
		}
	}

	require.Less(t, maxAbs, 1e-6)
}

func TestPannerBoundedness(t *testing.T) {
	p := spatial.NewPanner(48000)

	for i := 0; i < 48000; i++ {
		p.SetSource(math.Sin(float64(i)*0.001)*10, 0, math.Cos(float64(i)*0.001)*10)

		l, r := p.Process(math.Sin(float64(i) * 0.05))
		require.False(t, math.IsNaN(l) || math.IsInf(l, 0))
		require.False(t, math.IsNaN(r) || math.IsInf(r, 0))
	}
}

func TestPannerProcessBufferBoundedness(t *testing.T) {
	p := spatial.NewPanner(48000)
	p.SetSource(3, 0, 4)

	left := make([]float64, 2048)
	right := make([]float64, 2048)
	for i := range left {
		left[i] = math.Sin(float64(i) * 0.02)
		right[i] = math.Cos(float64(i) * 0.02)
	}

	p.ProcessBuffer(left, right)

	for i := range left {
		require.False(t, math.IsNaN(left[i]) || math.IsInf(left[i], 0))
		require.False(t, math.IsNaN(right[i]) || math.IsInf(right[i], 0))
	}
}

func TestEarlyReflectionsSilencePreservation(t *testing.T) {
	e := spatial.NewEarlyReflections(48000)

	for range 4000 {
		outL := make([]float64, 1)
		outR := make([]float64, 1)
		e.Process(0.5, outL, outR)
	}

	e.Reset()

	var maxAbs float64
	for range 4000 {
		outL := make([]float64, 1)
		outR := make([]float64, 1)
		e.Process(0, outL, outR)

		if math.Abs(outL[0]) > maxAbs {
			maxAbs = math.Abs(outL[0])
		}

		if math.Abs(outR[0]) > maxAbs {
			maxAbs = math.Abs(outR[0])
		}
	}

	require.Less(t, maxAbs, 1e-9)
}

func TestEarlyReflectionsProcessBufferAddsEnergy(t *testing.T) {
	e := spatial.NewEarlyReflections(48000)

	left := make([]float64, 4096)
	right := make([]float64, 4096)
	left[0] = 1.0
	right[0] = 1.0

	e.ProcessBuffer(left, right)

	nonZero := 0
	for _, x := range left {
		if math.Abs(x) > 1e-6 {
			nonZero++
		}
	}

	require.Greater(t, nonZero, 1)
}

func TestEarlyReflectionsSetRoomSizeRescales(t *testing.T) {
	e := spatial.NewEarlyReflections(48000)
	e.SetRoomSize(2.0)

	left := make([]float64, 8192)
	right := make([]float64, 8192)
	left[0] = 1.0

	e.ProcessBuffer(left, right)

	for _, x := range left {
		require.False(t, math.IsNaN(x) || math.IsInf(x, 0))
	}
}

func TestDopplerReadIncrementStaysBounded(t *testing.T) {
	d := spatial.NewDoppler(48000)

	distance := 1.0
	for i := 0; i < 48000; i++ {
		distance += 0.001
		y := d.Process(math.Sin(float64(i)*0.02), distance)
		require.False(t, math.IsNaN(y) || math.IsInf(y, 0))
	}
}

func TestDopplerSilencePreservation(t *testing.T) {
	d := spatial.NewDoppler(48000)

	for i := 0; i < 2000; i++ {
		d.Process(0.5, 1.0+float64(i)*0.001)
	}

	d.Reset()

	var maxAbs float64
	for i := 0; i < 2000; i++ {
		y := d.Process(0, 1.0)
		if math.Abs(y) > maxAbs {
			maxAbs = math.Abs(y)
		}
	}

	require.Less(t, maxAbs, 1e-9)
}

func TestDopplerApproachingSourceProcessesWithoutPanic(t *testing.T) {
	d := spatial.NewDoppler(48000)

	for i := 0; i < 1000; i++ {
		d.Process(math.Sin(float64(i)*0.1), 10.0-float64(i)*0.005)
	}
}
