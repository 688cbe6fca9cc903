package criteria

import (
	"testing"

	"github.com/simuforge/simuforge/aggregate"
	"github.com/simuforge/simuforge/simerr"
	"github.com/simuforge/simuforge/spec"
)

func TestEvaluate_NoCriteriaAlwaysPasses(t *testing.T) {
	doc := &spec.Document{}
	agg := aggregate.Metrics{}

	results, passed, err := Evaluate(doc, agg)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !passed {
		t.Error("expected overall pass with no criteria")
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}

func TestEvaluate_MinBoundFails(t *testing.T) {
	min := 10.0
	doc := &spec.Document{Criteria: map[string]spec.Criterion{"frame_count": {Min: &min}}}
	agg := aggregate.Metrics{FrameCount: 5}

	results, passed, err := Evaluate(doc, agg)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if passed {
		t.Error("expected overall fail: frame_count below min")
	}
	if results["frame_count"].Passed {
		t.Error("expected frame_count criterion to fail")
	}
}

func TestEvaluate_MaxBoundPasses(t *testing.T) {
	max := 5.0
	doc := &spec.Document{Criteria: map[string]spec.Criterion{"energy_drift_percent": {Max: &max}}}
	agg := aggregate.Metrics{EnergyDriftPercent: 1.0}

	_, passed, err := Evaluate(doc, agg)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !passed {
		t.Error("expected pass: energy drift within max bound")
	}
}

func TestEvaluate_EqualsWithinTolerance(t *testing.T) {
	equals := 100.0
	tolerance := 0.5
	doc := &spec.Document{Criteria: map[string]spec.Criterion{"frame_count": {Equals: &equals, Tolerance: &tolerance}}}
	agg := aggregate.Metrics{FrameCount: 100}

	_, passed, err := Evaluate(doc, agg)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !passed {
		t.Error("expected pass: value equals target within tolerance")
	}
}

func TestEvaluate_EqualsOutsideTolerance(t *testing.T) {
	equals := 100.0
	tolerance := 0.1
	doc := &spec.Document{Criteria: map[string]spec.Criterion{"frame_count": {Equals: &equals, Tolerance: &tolerance}}}
	agg := aggregate.Metrics{FrameCount: 90}

	_, passed, err := Evaluate(doc, agg)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if passed {
		t.Error("expected fail: value outside tolerance band")
	}
}

func TestEvaluate_UnknownCriterionTag(t *testing.T) {
	min := 0.0
	doc := &spec.Document{Criteria: map[string]spec.Criterion{"not_a_real_tag": {Min: &min}}}
	agg := aggregate.Metrics{}

	_, _, err := Evaluate(doc, agg)
	if err == nil {
		t.Fatal("expected error for unknown criterion tag")
	}
	if _, ok := err.(*simerr.UnknownCriterionError); !ok {
		t.Errorf("error type = %T, want *simerr.UnknownCriterionError", err)
	}
}

func TestEvaluate_StabilizationStepUnsetYieldsNegativeOne(t *testing.T) {
	min := -2.0
	doc := &spec.Document{Criteria: map[string]spec.Criterion{"stabilization_step": {Min: &min}}}
	agg := aggregate.Metrics{StabilizationStep: nil}

	results, passed, err := Evaluate(doc, agg)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !passed {
		t.Error("expected pass")
	}
	if results["stabilization_step"].Value != -1 {
		t.Errorf("Value = %v, want -1", results["stabilization_step"].Value)
	}
}
