package synthesis

// NoiseType selects NoiseGenerator's spectral color.
type NoiseType uint8

// NoiseType values.
const (
	NoiseWhite NoiseType = iota
	NoisePink
	NoiseBrown
)

// NoiseGenerator produces white noise via xorshift, Paul Kellet's
// refined pink-noise filter, and an integrated-and-clamped brown/red
// noise (spec §11 supplement; original_source synthesis.rs).
type NoiseGenerator struct {
	state uint32

	pinkB0, pinkB1, pinkB2, pinkB3, pinkB4, pinkB5, pinkB6 float64

	noiseType NoiseType

	brownState float64
}

// NewNoiseGenerator starts in white-noise mode with a fixed seed.
func NewNoiseGenerator() *NoiseGenerator {
	return &NoiseGenerator{state: 12345678}
}

// SetType selects the noise color.
func (n *NoiseGenerator) SetType(t NoiseType) {
	if t > NoiseBrown {
		t = NoiseBrown
	}

	n.noiseType = t
}

func (n *NoiseGenerator) white() float64 {
	n.state ^= n.state << 13
	n.state ^= n.state >> 17
	n.state ^= n.state << 5

	return (float64(n.state)/maxUint32)*2 - 1
}

// Process generates the next sample according to the selected type.
func (n *NoiseGenerator) Process() float64 {
	switch n.noiseType {
	case NoiseWhite:
		return n.white()
	case NoisePink:
		white := n.white()

		n.pinkB0 = 0.99886*n.pinkB0 + white*0.0555179
		n.pinkB1 = 0.99332*n.pinkB1 + white*0.0750759
		n.pinkB2 = 0.96900*n.pinkB2 + white*0.1538520
		n.pinkB3 = 0.86650*n.pinkB3 + white*0.3104856
		n.pinkB4 = 0.55000*n.pinkB4 + white*0.5329522
		n.pinkB5 = -0.7616*n.pinkB5 - white*0.0168980

		pink := n.pinkB0 + n.pinkB1 + n.pinkB2 + n.pinkB3 + n.pinkB4 + n.pinkB5 + n.pinkB6 + white*0.5362

		n.pinkB6 = white * 0.115926

		return pink * 0.11
	case NoiseBrown:
		white := n.white()
		n.brownState = clamp(n.brownState+white*0.02, -1.0, 1.0)

		return n.brownState * 3.5
	default:
		return 0
	}
}

// ProcessBuffer fills buf with successive samples.
func (n *NoiseGenerator) ProcessBuffer(buf []float64) {
	for i := range buf {
		buf[i] = n.Process()
	}
}

// Reset clears filter state; white/noise seed state is untouched (matches
// the original generator, which never reseeds the xorshift state).
func (n *NoiseGenerator) Reset() {
	n.pinkB0, n.pinkB1, n.pinkB2 = 0, 0, 0
	n.pinkB3, n.pinkB4, n.pinkB5, n.pinkB6 = 0, 0, 0, 0
	n.brownState = 0
}
