package service

import (
	"math/rand"
	"time"

	"health_monitor/internal/models"
)

// ----------- Simulation constants -----------
const (
	BaseJitter             = 2.0  // peak-to-peak base variation per tick
	StressSpikeProbability = 0.05 // chance of a heart-rate stress spike per tick
	StressSpikeAmplitude   = 10.0 // peak-to-peak stress spike
	OxygenDamping          = 0.5  // blood oxygen varies less than heart rate
)

// VitalsGenerator produces the next simulated reading as a bounded random walk.
type VitalsGenerator struct {
	rng *rand.Rand
}

// NewVitalsGenerator returns a generator drawing from rng.
// A nil rng falls back to a time-seeded source.
func NewVitalsGenerator(rng *rand.Rand) *VitalsGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &VitalsGenerator{rng: rng}
}

// Next perturbs prev and clamps the result to the simulation bounds.
func (g *VitalsGenerator) Next(prev models.Reading, now time.Time) models.Reading {
	hr := prev.HeartRate + g.heartRateVariation()
	o2 := prev.BloodOxygen + g.bloodOxygenVariation()

	return models.Reading{
		HeartRate:   clamp(hr, models.MinHeartRate, models.MaxHeartRate),
		BloodOxygen: clamp(o2, models.MinBloodOxygen, models.MaxBloodOxygen),
		CapturedAt:  now.UTC(),
	}
}

func (g *VitalsGenerator) heartRateVariation() float64 {
	v := g.jitter(BaseJitter)
	if g.rng.Float64() < StressSpikeProbability {
		v += g.jitter(StressSpikeAmplitude)
	}
	return v
}

func (g *VitalsGenerator) bloodOxygenVariation() float64 {
	return g.jitter(BaseJitter) * OxygenDamping
}

// jitter returns a uniform value in [-span/2, span/2).
func (g *VitalsGenerator) jitter(span float64) float64 {
	return (g.rng.Float64() - 0.5) * span
}

// helpers
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
