// Package simerr defines the error kinds shared across the specification,
// simulation and comparison layers. They live in one leaf package so spec,
// metricworld and baseline can each return them without an import cycle.
package simerr

import "fmt"

// SpecInvalidError reports a structurally or semantically invalid
// experiment specification, caught before simulation begins.
type SpecInvalidError struct {
	Field  string
	Reason string
}

func (e *SpecInvalidError) Error() string {
	return fmt.Sprintf("spec invalid: field %q: %s", e.Field, e.Reason)
}

// UnknownCriterionError reports a criteria tag that names an aggregate
// metric the aggregator never computes.
type UnknownCriterionError struct {
	Tag string
}

func (e *UnknownCriterionError) Error() string {
	return fmt.Sprintf("unknown criterion tag: %q", e.Tag)
}

// AlreadyCompleteError is returned by MetricWorld.Step once the target step
// count has been reached. Encountering it in normal flow is a programmer
// error: callers must check IsComplete first.
type AlreadyCompleteError struct{}

func (e *AlreadyCompleteError) Error() string {
	return "simulation already complete"
}

// SolverError wraps a failure raised by the embedded physics solver
// (typically EPA failing to converge). It always yields a "error" status
// report with no aggregate metrics.
type SolverError struct {
	Message string
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("solver error: %s", e.Message)
}

// IncompatibleError reports that a candidate run cannot be compared against
// a baseline (different scenario, step count, or timestep).
type IncompatibleError struct {
	Reason string
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("baseline incompatible: %s", e.Reason)
}
