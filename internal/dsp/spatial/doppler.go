package spatial

// Doppler is a variable-rate resampler that shifts pitch in response to
// the rate of change of source-to-listener distance (spec §4.11).
type Doppler struct {
	sampleRate   float64
	prevDistance float64

	buf      []float64
	writeIdx int

	readPosition float64
}

// NewDoppler allocates a 500ms circular write buffer and starts at unity
// distance (1m), matching the source's steady-state assumption.
func NewDoppler(sampleRate float64) *Doppler {
	size := int(sampleRate * 0.5)
	if size < 1 {
		size = 1
	}

	return &Doppler{
		sampleRate:   sampleRate,
		prevDistance: 1.0,
		buf:          make([]float64, size),
	}
}

// Process writes input into the circular buffer, derives velocity from
// the change in currentDistance since the previous call, and reads back
// through a variable-rate linearly interpolated read head (spec §4.11).
func (d *Doppler) Process(input, currentDistance float64) float64 {
	if currentDistance < 0.1 {
		currentDistance = 0.1
	}

	n := len(d.buf)

	d.buf[d.writeIdx] = input
	d.writeIdx++
	if d.writeIdx >= n {
		d.writeIdx = 0
	}

	velocity := (currentDistance - d.prevDistance) * d.sampleRate
	d.prevDistance = currentDistance

	dopplerRatio := speedOfSound / (speedOfSound + velocity)
	readIncrement := clamp(dopplerRatio, 0.5, 2.0)

	readIdx := int(d.readPosition) % n
	frac := d.readPosition - float64(int(d.readPosition))
	nextIdx := readIdx + 1
	if nextIdx >= n {
		nextIdx = 0
	}

	output := d.buf[readIdx]*(1-frac) + d.buf[nextIdx]*frac

	d.readPosition += readIncrement
	if d.readPosition >= float64(n) {
		d.readPosition -= float64(n)
	}

	return output
}

// Reset silences the buffer and rewinds the read head.
func (d *Doppler) Reset() {
	for i := range d.buf {
		d.buf[i] = 0
	}

	d.readPosition = 0
	d.prevDistance = 1.0
	d.writeIdx = 0
}
