// Package criteria evaluates a spec's pass/fail criteria against a computed
// set of aggregate metrics.
package criteria

import (
	"github.com/simuforge/simuforge/aggregate"
	"github.com/simuforge/simuforge/simerr"
	"github.com/simuforge/simuforge/spec"
)

// Result is the outcome of evaluating a single criterion.
type Result struct {
	Value  float64
	Min    *float64
	Max    *float64
	Passed bool
}

// Evaluate checks every criterion in doc.Criteria against agg, returning a
// result per tag and the overall pass/fail. A spec with no criteria always
// passes. An unknown aggregate tag fails the run before any result is
// produced.
func Evaluate(doc *spec.Document, agg aggregate.Metrics) (map[string]Result, bool, error) {
	results := make(map[string]Result, len(doc.Criteria))
	overall := true

	for tag, criterion := range doc.Criteria {
		value, err := tagValue(tag, agg)
		if err != nil {
			return nil, false, err
		}

		passed := true
		if criterion.Min != nil && value < *criterion.Min {
			passed = false
		}
		if criterion.Max != nil && value > *criterion.Max {
			passed = false
		}
		if criterion.Equals != nil {
			tolerance := 0.0
			if criterion.Tolerance != nil {
				tolerance = *criterion.Tolerance
			}
			diff := value - *criterion.Equals
			if diff < 0 {
				diff = -diff
			}
			if diff > tolerance {
				passed = false
			}
		}

		results[tag] = Result{
			Value:  value,
			Min:    criterion.Min,
			Max:    criterion.Max,
			Passed: passed,
		}
		if !passed {
			overall = false
		}
	}

	return results, overall, nil
}

// ValidateTags checks that every criterion in doc names an aggregate metric
// this package knows how to compute, without requiring a computed
// aggregate. Callers use this to reject an unknown criterion tag before
// simulation begins, rather than discovering it only after the step loop
// completes.
func ValidateTags(doc *spec.Document) error {
	var zero aggregate.Metrics
	for tag := range doc.Criteria {
		if _, err := tagValue(tag, zero); err != nil {
			return err
		}
	}
	return nil
}

func tagValue(tag string, agg aggregate.Metrics) (float64, error) {
	switch tag {
	case "initial_energy":
		return agg.InitialEnergy, nil
	case "final_energy":
		return agg.FinalEnergy, nil
	case "energy_drift_percent":
		return agg.EnergyDriftPercent, nil
	case "max_penetration_ever":
		return agg.MaxPenetrationEver, nil
	case "total_constraint_violations":
		return float64(agg.TotalConstraintViolations), nil
	case "average_contact_count":
		return agg.AverageContactCount, nil
	case "frame_count":
		return float64(agg.FrameCount), nil
	case "stabilization_step":
		if agg.StabilizationStep == nil {
			return -1, nil
		}
		return float64(*agg.StabilizationStep), nil
	case "stability_time":
		if agg.StabilityTime == nil {
			return -1, nil
		}
		return *agg.StabilityTime, nil
	default:
		return 0, &simerr.UnknownCriterionError{Tag: tag}
	}
}
