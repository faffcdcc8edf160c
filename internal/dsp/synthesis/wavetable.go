package synthesis

import "math"

// WavetablePreset selects one of WavetableOsc's built-in tables.
type WavetablePreset uint8

// Preset values.
const (
	PresetSine WavetablePreset = iota
	PresetSaw
	PresetSquare
	PresetPWM25
	PresetOrgan
	PresetBell
)

// WavetableOsc reads linearly-interpolated samples from a precomputed
// lookup table, recomputed per preset (spec §4.12).
type WavetableOsc struct {
	table          []float64
	tableSize      int
	phase          float64
	phaseIncrement float64
	sampleRate     float64
}

// NewWavetableOsc allocates a table of at least 256 entries, defaulting
// to a sine.
func NewWavetableOsc(sampleRate float64, tableSize int) *WavetableOsc {
	if tableSize < 256 {
		tableSize = 256
	}

	w := &WavetableOsc{
		tableSize:      tableSize,
		phaseIncrement: 440.0 / sampleRate,
		sampleRate:     sampleRate,
	}
	w.SetPreset(PresetSine)

	return w
}

// SetWavetable installs a custom table, replacing tableSize with len(table).
func (w *WavetableOsc) SetWavetable(table []float64) {
	w.table = append([]float64(nil), table...)
	w.tableSize = len(table)
}

// SetPreset regenerates the table from one of the built-in shapes.
func (w *WavetableOsc) SetPreset(preset WavetablePreset) {
	size := w.tableSize
	table := make([]float64, size)

	switch preset {
	case PresetSaw:
		for i := range table {
			var sum float64
			for h := 1; h <= 16; h++ {
				sum += math.Sin(float64(h) * float64(i) / float64(size) * twoPi) / float64(h)
			}
			table[i] = sum * 0.5
		}
	case PresetSquare:
		for i := range table {
			var sum float64
			for h := 1; h <= 15; h += 2 {
				sum += math.Sin(float64(h) * float64(i) / float64(size) * twoPi) / float64(h)
			}
			table[i] = sum * 0.6
		}
	case PresetPWM25:
		for i := range table {
			if float64(i)/float64(size) < 0.25 {
				table[i] = 1.0
			} else {
				table[i] = -1.0
			}
		}
	case PresetOrgan:
		for i := range table {
			phase := float64(i) / float64(size) * twoPi
			table[i] = math.Sin(phase)*0.5 + math.Sin(phase*2)*0.3 + math.Sin(phase*3)*0.15 + math.Sin(phase*4)*0.05
		}
	case PresetBell:
		for i := range table {
			phase := float64(i) / float64(size) * twoPi
			table[i] = math.Sin(phase)*0.4 + math.Sin(phase*2.3)*0.3 + math.Sin(phase*3.7)*0.2 + math.Sin(phase*5.1)*0.1
		}
	case PresetSine:
		fallthrough
	default:
		for i := range table {
			table[i] = math.Sin(float64(i) / float64(size) * twoPi)
		}
	}

	w.table = table
}

// SetFrequency clamps to [0.01, 0.49*sampleRate].
func (w *WavetableOsc) SetFrequency(freq float64) {
	w.phaseIncrement = clamp(freq, 0.01, w.sampleRate*0.49) / w.sampleRate
}

// Process reads the next linearly-interpolated sample and advances phase.
func (w *WavetableOsc) Process() float64 {
	tablePhase := w.phase * float64(w.tableSize)
	index := int(tablePhase)
	frac := tablePhase - float64(index)

	s0 := w.table[index%w.tableSize]
	s1 := w.table[(index+1)%w.tableSize]
	output := s0 + (s1-s0)*frac

	w.phase += w.phaseIncrement
	if w.phase >= 1.0 {
		w.phase -= 1.0
	}

	return output
}

// ProcessBuffer fills buf with successive samples.
func (w *WavetableOsc) ProcessBuffer(buf []float64) {
	for i := range buf {
		buf[i] = w.Process()
	}
}

// Reset rewinds phase to zero.
func (w *WavetableOsc) Reset() {
	w.phase = 0
}
