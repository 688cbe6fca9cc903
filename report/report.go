// Package report defines the JSON shape a simulation run is serialised to:
// the terminal SimulationReport plus its criteria breakdown and, when a
// baseline was supplied, the comparison against it.
package report

import (
	"encoding/json"
	"fmt"

	"github.com/simuforge/simuforge/aggregate"
	"github.com/simuforge/simuforge/baseline"
	"github.com/simuforge/simuforge/criteria"
)

// Status is the terminal outcome of a run.
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
	StatusError  Status = "error"
)

// CriterionResult is one entry of a report's criteria_results mapping.
type CriterionResult struct {
	Value  float64  `json:"value"`
	Min    *float64 `json:"min"`
	Max    *float64 `json:"max"`
	Passed bool     `json:"passed"`
}

// BaselineComparison reports how a run's tracked metrics moved relative to a
// previously recorded baseline.
type BaselineComparison struct {
	BaselineName     string   `json:"baseline_name"`
	MetricsImproved  []string `json:"metrics_improved"`
	MetricsRegressed []string `json:"metrics_regressed"`
	Recommendation   string   `json:"recommendation"`
}

// SimulationReport is the terminal, serialisable outcome of a run. Metrics
// and CriteriaResults are nil when Status is "error", per the missing
// metrics are null rather than absent contract; Error is empty otherwise.
type SimulationReport struct {
	Status             Status                     `json:"status"`
	Metrics            *aggregate.Metrics         `json:"metrics"`
	CriteriaResults    map[string]CriterionResult `json:"criteria_results"`
	BaselineComparison *BaselineComparison        `json:"baseline_comparison,omitempty"`
	Error              string                     `json:"error,omitempty"`
}

// ExitCode returns the process exit code spec.md §6.3 assigns to Status: 0
// for passed, 1 for failed, 2 for error.
func (r *SimulationReport) ExitCode() int {
	switch r.Status {
	case StatusPassed:
		return 0
	case StatusFailed:
		return 1
	default:
		return 2
	}
}

// New builds a passed/failed report from computed aggregates and criteria
// results, with a baseline comparison attached when base is non-nil.
func New(agg aggregate.Metrics, results map[string]criteria.Result, passed bool, base *baseline.Record) *SimulationReport {
	status := StatusFailed
	if passed {
		status = StatusPassed
	}

	criteriaResults := make(map[string]CriterionResult, len(results))
	for tag, r := range results {
		criteriaResults[tag] = CriterionResult{Value: r.Value, Min: r.Min, Max: r.Max, Passed: r.Passed}
	}

	rep := &SimulationReport{
		Status:          status,
		Metrics:         &agg,
		CriteriaResults: criteriaResults,
	}

	if base != nil {
		cmp := baseline.Compare(base.Name, string(status), agg, base.Metrics)
		rep.BaselineComparison = &BaselineComparison{
			BaselineName:     cmp.BaselineName,
			MetricsImproved:  cmp.MetricsImproved,
			MetricsRegressed: cmp.MetricsRegressed,
			Recommendation:   string(cmp.Recommendation),
		}
	}

	return rep
}

// NewError builds an "error" status report. Metrics and criteria results are
// left nil, matching missing metrics are null rather than absent.
func NewError(err error) *SimulationReport {
	return &SimulationReport{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// Marshal serialises the report to indented JSON.
func Marshal(r *SimulationReport) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("report: marshaling: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a report, used to load a prior run's report file as a
// baseline source.
func Unmarshal(data []byte) (*SimulationReport, error) {
	var r SimulationReport
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("report: unmarshaling: %w", err)
	}
	return &r, nil
}
