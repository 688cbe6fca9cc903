// Package aggregate reduces a MetricFrame sequence into summary statistics:
// energy drift, worst-case penetration, constraint violation totals and the
// step at which the system settles.
package aggregate

import (
	"github.com/simuforge/simuforge/metricworld"
)

// StabilizationWindow is the number of consecutive frames that must stay
// below StabilizationEnergy for the system to be considered settled.
const StabilizationWindow = 30

// StabilizationEnergy is the total kinetic energy, in joules, below which a
// frame counts toward the stabilization window.
const StabilizationEnergy = 0.1

const driftEpsilon = 1e-9

// Metrics summarizes a full frame sequence.
type Metrics struct {
	InitialEnergy              float64
	FinalEnergy                float64
	EnergyDriftPercent         float64
	MaxPenetrationEver         float64
	TotalConstraintViolations  int
	AverageContactCount        float64
	FrameCount                 int
	StabilizationStep          *int
	StabilityTime              *float64
}

// Compute reduces the frame sequence in order, never touching a map, so the
// result is identical for two runs that produced identical frame sequences.
func Compute(frames []*metricworld.MetricFrame, timestep float64) Metrics {
	m := Metrics{FrameCount: len(frames)}
	if len(frames) == 0 {
		return m
	}

	m.InitialEnergy = frames[0].Energy.Total
	m.FinalEnergy = frames[len(frames)-1].Energy.Total

	denom := m.InitialEnergy
	if denom < 0 {
		denom = -denom
	}
	if denom < driftEpsilon {
		denom = driftEpsilon
	}
	m.EnergyDriftPercent = (m.FinalEnergy - m.InitialEnergy) / denom * 100

	var totalContacts int
	for _, f := range frames {
		if f.Contacts.MaxPenetration > m.MaxPenetrationEver {
			m.MaxPenetrationEver = f.Contacts.MaxPenetration
		}
		m.TotalConstraintViolations += f.Contacts.ConstraintViolations
		totalContacts += f.Contacts.ContactCount
	}
	m.AverageContactCount = float64(totalContacts) / float64(len(frames))

	if step, ok := findStabilizationStep(frames); ok {
		m.StabilizationStep = &step
		t := float64(step) * timestep
		m.StabilityTime = &t
	}

	return m
}

// findStabilizationStep returns the smallest k such that every frame in
// [k, k+StabilizationWindow) has total kinetic energy below
// StabilizationEnergy. k only ranges over [0, frameCount-StabilizationWindow]
// so a full window always fits.
func findStabilizationStep(frames []*metricworld.MetricFrame) (int, bool) {
	n := len(frames)
	if n < StabilizationWindow {
		return 0, false
	}

	for k := 0; k <= n-StabilizationWindow; k++ {
		settled := true
		for j := k; j < k+StabilizationWindow; j++ {
			if frames[j].Energy.Kinetic >= StabilizationEnergy {
				settled = false
				break
			}
		}
		if settled {
			return k, true
		}
	}
	return 0, false
}
