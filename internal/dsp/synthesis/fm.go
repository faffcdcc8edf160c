package synthesis

import "math"

type envStage uint8

const (
	envIdle envStage = iota
	envAttack
	envDecay
	envSustain
	envRelease
)

// FmSynth is a classic 2-operator FM voice: a sine modulator frequency-
// modulates a sine carrier, scaled by an ADSR envelope that also shapes
// the FM depth (spec §4.12).
type FmSynth struct {
	carrierPhase float64
	carrierFreq  float64

	modPhase float64
	modRatio float64
	modIndex float64

	sampleRate float64

	envState               float64
	envAttack, envDecay    float64
	envSustain, envRelease float64
	stage                  envStage
	gate                   bool
}

// NewFmSynth starts at 440Hz carrier, 2:1 modulator ratio, moderate index.
func NewFmSynth(sampleRate float64) *FmSynth {
	return &FmSynth{
		carrierFreq: 440.0,
		modRatio:    2.0,
		modIndex:    1.0,
		sampleRate:  sampleRate,
		envAttack:   0.01,
		envDecay:    0.1,
		envSustain:  0.7,
		envRelease:  0.3,
	}
}

// SetFrequency sets the carrier frequency in Hz.
func (f *FmSynth) SetFrequency(freq float64) { f.carrierFreq = clamp(freq, 20, 20000) }

// SetModRatio sets the modulator-to-carrier frequency ratio.
func (f *FmSynth) SetModRatio(ratio float64) { f.modRatio = clamp(ratio, 0.1, 16) }

// SetModIndex sets the modulation depth.
func (f *FmSynth) SetModIndex(index float64) { f.modIndex = clamp(index, 0, 20) }

// SetEnvelope configures ADSR times in seconds and sustain level [0,1].
func (f *FmSynth) SetEnvelope(attack, decay, sustain, release float64) {
	f.envAttack = math.Max(attack, 0.001)
	f.envDecay = math.Max(decay, 0.001)
	f.envSustain = clamp(sustain, 0, 1)
	f.envRelease = math.Max(release, 0.001)
}

// NoteOn gates the envelope into its attack stage.
func (f *FmSynth) NoteOn() {
	f.gate = true
	f.stage = envAttack
}

// NoteOff releases an active note into its release stage.
func (f *FmSynth) NoteOff() {
	f.gate = false
	if f.stage != envIdle {
		f.stage = envRelease
	}
}

func (f *FmSynth) processEnvelope() float64 {
	rate := 1.0 / f.sampleRate

	switch f.stage {
	case envIdle:
		f.envState = 0
	case envAttack:
		f.envState += rate / f.envAttack
		if f.envState >= 1.0 {
			f.envState = 1.0
			f.stage = envDecay
		}
	case envDecay:
		f.envState -= rate / f.envDecay * (1 - f.envSustain)
		if f.envState <= f.envSustain {
			f.envState = f.envSustain
			f.stage = envSustain
		}
	case envSustain:
		f.envState = f.envSustain
	case envRelease:
		f.envState -= rate / f.envRelease * f.envState
		if f.envState <= 0.001 {
			f.envState = 0
			f.stage = envIdle
		}
	}

	return f.envState
}

// Process generates the next sample.
func (f *FmSynth) Process() float64 {
	env := f.processEnvelope()
	if env < 0.001 {
		return 0
	}

	modFreq := f.carrierFreq * f.modRatio
	modPhaseInc := modFreq / f.sampleRate

	modulator := math.Sin(f.modPhase * twoPi)

	carrierPhaseInc := f.carrierFreq / f.sampleRate
	fmAmount := modulator * f.modIndex * env
	carrier := math.Sin((f.carrierPhase + fmAmount) * twoPi)

	f.carrierPhase += carrierPhaseInc
	if f.carrierPhase >= 1.0 {
		f.carrierPhase -= 1.0
	}

	f.modPhase += modPhaseInc
	if f.modPhase >= 1.0 {
		f.modPhase -= 1.0
	}

	return carrier * env
}

// ProcessBuffer fills buf with successive samples.
func (f *FmSynth) ProcessBuffer(buf []float64) {
	for i := range buf {
		buf[i] = f.Process()
	}
}

// Reset silences phases and returns the envelope to idle.
func (f *FmSynth) Reset() {
	f.carrierPhase, f.modPhase = 0, 0
	f.envState = 0
	f.stage = envIdle
}
