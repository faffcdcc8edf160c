// Package spatial implements the binaural spatial panner, first-order
// early-reflections bank, and Doppler resampler (spec §4.9-§4.11).
package spatial

import "math"

const (
	speedOfSound = 343.0
	headRadius   = 0.0875
)

// Panner is a mono-to-stereo binaural approximation driven by listener
// and source positions, combining equal-power panning, head shadow,
// interaural time difference, and air-absorption lowpass (spec §4.9).
type Panner struct {
	listenerX, listenerY, listenerZ, listenerYaw float64
	sourceX, sourceY, sourceZ                    float64

	sampleRate    float64
	maxITDSamples int

	delayL, delayR []float64
	delayIdx       int

	lpStateL, lpStateR float64
}

// NewPanner constructs a panner with the source directly ahead at 1m.
func NewPanner(sampleRate float64) *Panner {
	maxITD := int(0.001 * sampleRate)
	if maxITD < 64 {
		maxITD = 64
	}

	return &Panner{
		sourceZ:       1.0,
		sampleRate:    sampleRate,
		maxITDSamples: maxITD,
		delayL:        make([]float64, maxITD*2),
		delayR:        make([]float64, maxITD*2),
	}
}

// SetListener sets listener position and yaw (radians).
func (p *Panner) SetListener(x, y, z, yaw float64) {
	p.listenerX, p.listenerY, p.listenerZ, p.listenerYaw = x, y, z, yaw
}

// SetSource sets source position.
func (p *Panner) SetSource(x, y, z float64) {
	p.sourceX, p.sourceY, p.sourceZ = x, y, z
}

func (p *Panner) azimuth() float64 {
	dx := p.sourceX - p.listenerX
	dz := p.sourceZ - p.listenerZ

	angle := math.Atan2(dx, dz) - p.listenerYaw

	normalized := math.Mod(angle, 2*math.Pi)
	if normalized > math.Pi {
		normalized -= 2 * math.Pi
	} else if normalized < -math.Pi {
		normalized += 2 * math.Pi
	}

	return normalized
}

func (p *Panner) distance() float64 {
	dx := p.sourceX - p.listenerX
	dy := p.sourceY - p.listenerY
	dz := p.sourceZ - p.listenerZ

	d := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if d < 0.1 {
		d = 0.1
	}

	return d
}

// Process spatializes a single mono sample into a stereo pair, applying
// distance attenuation, equal-power pan, head shadow, ITD, and
// air-absorption lowpass (spec §4.9).
func (p *Panner) Process(input float64) (left, right float64) {
	azimuth := p.azimuth()
	distance := p.distance()

	const refDistance = 1.0
	const maxDistance = 100.0
	const rolloff = 1.0

	clampedDistance := clamp(distance, refDistance, maxDistance)
	attenuation := refDistance / (refDistance + rolloff*(clampedDistance-refDistance))

	sinAz := math.Sin(azimuth)

	gainL := math.Sqrt((1 - sinAz) * 0.5)
	gainR := math.Sqrt((1 + sinAz) * 0.5)

	shadowL := 1.0
	if sinAz > 0 {
		shadowL = 1 - sinAz*0.3
	}

	shadowR := 1.0
	if sinAz < 0 {
		shadowR = 1 + sinAz*0.3
	}

	itdSeconds := (headRadius / speedOfSound) * (sinAz + math.Abs(sinAz))
	itdSamples := int(itdSeconds * p.sampleRate)
	if itdSamples > p.maxITDSamples {
		itdSamples = p.maxITDSamples
	}

	p.delayL[p.delayIdx] = input
	p.delayR[p.delayIdx] = input

	n := len(p.delayL)

	readL := p.delayL[p.delayIdx]
	if sinAz > 0 {
		idx := (p.delayIdx + n - itdSamples) % n
		readL = p.delayL[idx]
	}

	readR := p.delayR[p.delayIdx]
	if sinAz < 0 {
		idx := (p.delayIdx + n - itdSamples) % n
		readR = p.delayR[idx]
	}

	p.delayIdx = (p.delayIdx + 1) % n

	lpCoeff := clamp(1/(1+distance*0.1), 0.1, 0.99)

	p.lpStateL += lpCoeff * (readL - p.lpStateL)
	p.lpStateR += lpCoeff * (readR - p.lpStateR)

	left = p.lpStateL * gainL * shadowL * attenuation
	right = p.lpStateR * gainR * shadowR * attenuation

	return left, right
}

// ProcessBuffer is a reduced, ITD-free variant: it downmixes the stereo
// input to mono and applies pan + attenuation in place (spec §4.9).
func (p *Panner) ProcessBuffer(left, right []float64) {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}

	for i := range n {
		mono := (left[i] + right[i]) * 0.5

		azimuth := p.azimuth()
		distance := p.distance()
		attenuation := 1 / (1 + distance*0.5)

		sinAz := math.Sin(azimuth)
		gainL := math.Sqrt((1 - sinAz) * 0.5)
		gainR := math.Sqrt((1 + sinAz) * 0.5)

		left[i] = mono * gainL * attenuation
		right[i] = mono * gainR * attenuation
	}
}

// Reset silences the ITD delay lines and air-absorption filter state.
func (p *Panner) Reset() {
	for i := range p.delayL {
		p.delayL[i] = 0
		p.delayR[i] = 0
	}

	p.lpStateL, p.lpStateR = 0, 0
	p.delayIdx = 0
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}

	if x > hi {
		return hi
	}

	return x
}
