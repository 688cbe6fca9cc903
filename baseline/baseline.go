// Package baseline compares a run's aggregate metrics against a previously
// recorded baseline, classifying each tracked metric as improved, regressed
// or neutral and recommending whether to accept the new baseline.
package baseline

import (
	"fmt"
	"math"

	"github.com/simuforge/simuforge/aggregate"
	"github.com/simuforge/simuforge/simerr"
	"github.com/simuforge/simuforge/spec"
)

// RelativeTolerance and AbsoluteTolerance bound how much a metric may move
// before it counts as improved or regressed. A metric within tolerance of
// the baseline is neutral.
const (
	RelativeTolerance = 0.01
	AbsoluteTolerance = 1e-6
)

// Recommendation is the comparator's verdict on whether to accept the
// current run as the new baseline.
type Recommendation string

const (
	Accept Recommendation = "ACCEPT"
	Reject Recommendation = "REJECT"
	Review Recommendation = "REVIEW"
)

// Comparison is the result of comparing one run's metrics to a baseline.
type Comparison struct {
	BaselineName      string
	MetricsImproved   []string
	MetricsRegressed  []string
	Recommendation    Recommendation
}

type tracked struct {
	tag           string
	currentMag    float64
	baselineMag   float64
}

// Record is the persisted form of a baseline run: its metrics plus enough
// of the originating spec to detect an incompatible comparison later.
type Record struct {
	Name         string            `json:"name"`
	ScenarioKind string            `json:"scenario_kind"`
	ScenarioName string            `json:"scenario_name"`
	StepCount    int               `json:"step_count"`
	Timestep     float64           `json:"timestep"`
	Metrics      aggregate.Metrics `json:"metrics"`
}

// NewRecord captures the fields of doc needed to validate future
// comparisons alongside the metrics produced by running it.
func NewRecord(name string, doc *spec.Document, agg aggregate.Metrics) Record {
	return Record{
		Name:         name,
		ScenarioKind: doc.Scenario.Kind,
		ScenarioName: doc.Scenario.Name,
		StepCount:    doc.TargetSteps(),
		Timestep:     doc.Physics.Timestep,
		Metrics:      agg,
	}
}

// CheckCompatible reports whether doc could produce a run comparable to
// rec: same scenario, step count and timestep. A mismatch on any of these
// makes energy and penetration figures meaningless to compare.
func CheckCompatible(doc *spec.Document, rec Record) error {
	if doc.Scenario.Kind != rec.ScenarioKind || doc.Scenario.Name != rec.ScenarioName {
		return &simerr.IncompatibleError{Reason: fmt.Sprintf("scenario mismatch: baseline is %s/%s, run is %s/%s", rec.ScenarioKind, rec.ScenarioName, doc.Scenario.Kind, doc.Scenario.Name)}
	}
	if doc.TargetSteps() != rec.StepCount {
		return &simerr.IncompatibleError{Reason: fmt.Sprintf("step count mismatch: baseline ran %d steps, run configures %d", rec.StepCount, doc.TargetSteps())}
	}
	if doc.Physics.Timestep != rec.Timestep {
		return &simerr.IncompatibleError{Reason: fmt.Sprintf("timestep mismatch: baseline used %g, run configures %g", rec.Timestep, doc.Physics.Timestep)}
	}
	return nil
}

// Compare classifies energy drift, worst-case penetration and total
// constraint violations, then recommends ACCEPT, REJECT or REVIEW.
// average_contact_count is deliberately excluded: it is neutral by
// definition and never contributes to the recommendation.
func Compare(baselineName string, status string, current, base aggregate.Metrics) Comparison {
	metrics := []tracked{
		{"energy_drift_percent", math.Abs(current.EnergyDriftPercent), math.Abs(base.EnergyDriftPercent)},
		{"max_penetration_ever", current.MaxPenetrationEver, base.MaxPenetrationEver},
		{"total_constraint_violations", float64(current.TotalConstraintViolations), float64(base.TotalConstraintViolations)},
	}

	comparison := Comparison{BaselineName: baselineName}

	for _, m := range metrics {
		switch classify(m.currentMag, m.baselineMag) {
		case "improved":
			comparison.MetricsImproved = append(comparison.MetricsImproved, m.tag)
		case "regressed":
			comparison.MetricsRegressed = append(comparison.MetricsRegressed, m.tag)
		}
	}

	switch {
	case status == "failed":
		comparison.Recommendation = Reject
	case len(comparison.MetricsRegressed) == 0:
		comparison.Recommendation = Accept
	// A lone regression alongside a lone improvement still lands here as
	// REVIEW, not REJECT: only regressions outnumbering improvements reject.
	case len(comparison.MetricsRegressed) > len(comparison.MetricsImproved):
		comparison.Recommendation = Reject
	default:
		comparison.Recommendation = Review
	}

	return comparison
}

// classify compares two non-negative magnitudes where lower is better,
// returning "improved", "regressed" or "neutral".
func classify(currentMag, baselineMag float64) string {
	tolerance := RelativeTolerance * math.Abs(baselineMag)
	if tolerance < AbsoluteTolerance {
		tolerance = AbsoluteTolerance
	}

	diff := baselineMag - currentMag
	switch {
	case diff > tolerance:
		return "improved"
	case diff < -tolerance:
		return "regressed"
	default:
		return "neutral"
	}
}
