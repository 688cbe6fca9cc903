package aggregate

import (
	"testing"

	"github.com/simuforge/simuforge/metricworld"
)

func frame(step int, kinetic, potential float64, contactCount int, maxPen float64, violations int) *metricworld.MetricFrame {
	return &metricworld.MetricFrame{
		Step:   step,
		Energy: metricworld.EnergyMetrics{Kinetic: kinetic, Potential: potential, Total: kinetic + potential},
		Contacts: metricworld.ContactMetrics{
			ContactCount:         contactCount,
			MaxPenetration:       maxPen,
			ConstraintViolations: violations,
		},
	}
}

func TestCompute_EmptyFrames(t *testing.T) {
	m := Compute(nil, 0.01)
	if m.FrameCount != 0 {
		t.Errorf("FrameCount = %d, want 0", m.FrameCount)
	}
}

func TestCompute_EnergyDriftPercent(t *testing.T) {
	frames := []*metricworld.MetricFrame{
		frame(0, 0, 100, 0, 0, 0),
		frame(1, 0, 110, 0, 0, 0),
	}

	m := Compute(frames, 0.01)
	want := 10.0
	if !almostEqual(m.EnergyDriftPercent, want, 1e-9) {
		t.Errorf("EnergyDriftPercent = %v, want %v", m.EnergyDriftPercent, want)
	}
}

func TestCompute_MaxPenetrationEver(t *testing.T) {
	frames := []*metricworld.MetricFrame{
		frame(0, 0, 0, 1, 0.01, 0),
		frame(1, 0, 0, 1, 0.05, 0),
		frame(2, 0, 0, 1, 0.02, 0),
	}

	m := Compute(frames, 0.01)
	if !almostEqual(m.MaxPenetrationEver, 0.05, 1e-12) {
		t.Errorf("MaxPenetrationEver = %v, want 0.05", m.MaxPenetrationEver)
	}
}

func TestCompute_TotalConstraintViolations(t *testing.T) {
	frames := []*metricworld.MetricFrame{
		frame(0, 0, 0, 1, 0, 2),
		frame(1, 0, 0, 1, 0, 3),
	}

	m := Compute(frames, 0.01)
	if m.TotalConstraintViolations != 5 {
		t.Errorf("TotalConstraintViolations = %d, want 5", m.TotalConstraintViolations)
	}
}

func TestCompute_AverageContactCount(t *testing.T) {
	frames := []*metricworld.MetricFrame{
		frame(0, 0, 0, 2, 0, 0),
		frame(1, 0, 0, 4, 0, 0),
	}

	m := Compute(frames, 0.01)
	if !almostEqual(m.AverageContactCount, 3.0, 1e-12) {
		t.Errorf("AverageContactCount = %v, want 3.0", m.AverageContactCount)
	}
}

func TestCompute_StabilizationStepFound(t *testing.T) {
	frames := make([]*metricworld.MetricFrame, 0, StabilizationWindow+5)
	for i := 0; i < 5; i++ {
		frames = append(frames, frame(i, 10, 0, 0, 0, 0))
	}
	for i := 5; i < 5+StabilizationWindow; i++ {
		frames = append(frames, frame(i, 0, 0, 0, 0, 0))
	}

	m := Compute(frames, 0.01)
	if m.StabilizationStep == nil {
		t.Fatal("expected StabilizationStep to be set")
	}
	if *m.StabilizationStep != 5 {
		t.Errorf("StabilizationStep = %d, want 5", *m.StabilizationStep)
	}
}

func TestCompute_StabilizationStepNotFound(t *testing.T) {
	frames := []*metricworld.MetricFrame{
		frame(0, 10, 0, 0, 0, 0),
		frame(1, 10, 0, 0, 0, 0),
	}

	m := Compute(frames, 0.01)
	if m.StabilizationStep != nil {
		t.Error("expected StabilizationStep to be nil when frame count < window")
	}
}

func TestCompute_ZeroInitialEnergyUsesEpsilonDenominator(t *testing.T) {
	frames := []*metricworld.MetricFrame{
		frame(0, 0, 0, 0, 0, 0),
		frame(1, 0, 1, 0, 0, 0),
	}

	m := Compute(frames, 0.01)
	if m.EnergyDriftPercent <= 0 {
		t.Errorf("EnergyDriftPercent = %v, want positive", m.EnergyDriftPercent)
	}
}

func almostEqual(a, b, epsilon float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon
}
