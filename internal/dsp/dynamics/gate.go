package dynamics

import (
	"math"

	"github.com/Bojan20/vanvinkl-dsp/internal/dsp/shared"
)

// Gate is a below-threshold downward expander with hold, usable both as a
// hard gate (ratio -> large) and a gentler expander.
type Gate struct {
	sampleRate      float64
	thresholdDB     float64
	thresholdLinear float64
	ratio           float64
	attackCoef      float64
	releaseCoef     float64
	holdSamples     int
	holdCounter     int
	gain            float64
}

// NewGate creates a gate/expander. holdMs is the minimum time the gate
// stays open once triggered, before expansion can resume.
func NewGate(sampleRate, thresholdDB, ratio, attackMs, releaseMs, holdMs float64) *Gate {
	return &Gate{
		sampleRate:      sampleRate,
		thresholdDB:     thresholdDB,
		thresholdLinear: shared.DBToLinear(thresholdDB),
		ratio:           ratio,
		attackCoef:      shared.TimeToCoef(attackMs, sampleRate),
		releaseCoef:     shared.TimeToCoef(releaseMs, sampleRate),
		holdSamples:     int(holdMs * 0.001 * sampleRate),
	}
}

func (g *Gate) SetThreshold(thresholdDB float64) {
	g.thresholdDB = thresholdDB
	g.thresholdLinear = shared.DBToLinear(thresholdDB)
}

func (g *Gate) SetRatio(ratio float64)      { g.ratio = ratio }
func (g *Gate) SetAttack(attackMs float64)  { g.attackCoef = shared.TimeToCoef(attackMs, g.sampleRate) }
func (g *Gate) SetRelease(ms float64)       { g.releaseCoef = shared.TimeToCoef(ms, g.sampleRate) }
func (g *Gate) SetHold(holdMs float64)      { g.holdSamples = int(holdMs * 0.001 * g.sampleRate) }

// Process applies gating/expansion to a single sample.
func (g *Gate) Process(x float64) float64 {
	absX := math.Abs(x)

	var target float64

	switch {
	case absX > g.thresholdLinear:
		g.holdCounter = g.holdSamples
		target = 1
	case g.holdCounter > 0:
		g.holdCounter--
		target = 1
	default:
		inputDB := -200.0
		if absX > shared.Epsilon {
			inputDB = 20 * math.Log10(absX)
		}

		gainDB := (inputDB - g.thresholdDB) * (1 - 1/g.ratio)
		target = math.Min(shared.DBToLinear(gainDB), 1)
	}

	if target > g.gain {
		g.gain = g.attackCoef*g.gain + (1-g.attackCoef)*target
	} else {
		g.gain = g.releaseCoef*g.gain + (1-g.releaseCoef)*target
	}

	return x * g.gain
}

// Reset silences the gate: zero gain, no hold pending.
func (g *Gate) Reset() {
	g.gain = 0
	g.holdCounter = 0
}
