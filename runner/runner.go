// Package runner orchestrates one full experiment run: validate the spec,
// step the simulation to completion, reduce the frame sequence, evaluate
// criteria and, when a baseline was supplied, compare against it.
package runner

import (
	"errors"
	"fmt"

	"github.com/simuforge/simuforge/aggregate"
	"github.com/simuforge/simuforge/baseline"
	"github.com/simuforge/simuforge/criteria"
	"github.com/simuforge/simuforge/metricworld"
	"github.com/simuforge/simuforge/report"
	"github.com/simuforge/simuforge/simerr"
	"github.com/simuforge/simuforge/spec"
)

// FrameSink receives every frame as it is produced, in step order. It is
// used by the supplemental stream command to fan frames out over a
// websocket without changing the run's control flow; nil is a valid sink.
type FrameSink interface {
	Frame(*metricworld.MetricFrame)
}

// Run executes doc to completion and returns its terminal report. When
// base is non-nil, its scenario/step-count/timestep are checked against
// doc before simulation begins; a mismatch surfaces as
// *simerr.IncompatibleError without running anything, matching SpecInvalid's
// surfaced-before-simulation treatment. An unknown criterion tag is
// likewise rejected before any step runs, rather than after aggregation.
func Run(doc *spec.Document, base *baseline.Record) (*report.SimulationReport, error) {
	return RunWithSink(doc, base, nil)
}

// RunWithSink is Run with an optional per-frame observer.
func RunWithSink(doc *spec.Document, base *baseline.Record, sink FrameSink) (*report.SimulationReport, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if err := criteria.ValidateTags(doc); err != nil {
		return nil, err
	}
	if base != nil {
		if err := baseline.CheckCompatible(doc, *base); err != nil {
			return nil, err
		}
	}

	world, err := metricworld.New(doc)
	if err != nil {
		return nil, err
	}

	frames := make([]*metricworld.MetricFrame, 0, world.TargetSteps())
	for !world.IsComplete() {
		frame, stepErr := world.Step()
		if stepErr != nil {
			var solverErr *simerr.SolverError
			if errors.As(stepErr, &solverErr) {
				return report.NewError(solverErr), nil
			}
			return nil, stepErr
		}
		frames = append(frames, frame)
		if sink != nil {
			sink.Frame(frame)
		}
	}

	agg := aggregate.Compute(frames, doc.Physics.Timestep)

	results, passed, err := criteria.Evaluate(doc, agg)
	if err != nil {
		return nil, err
	}

	return report.New(agg, results, passed, base), nil
}

// Validate structurally validates an already decoded doc without running
// any simulation, backing the validate command.
func Validate(doc *spec.Document) error {
	return doc.Validate()
}

// Suite runs every document in docs and returns one report per entry, in
// order. A structural error in any one spec does not stop the others; it is
// wrapped and returned alongside a nil report at that index.
func Suite(docs []*spec.Document) ([]*report.SimulationReport, []error) {
	reports := make([]*report.SimulationReport, len(docs))
	errs := make([]error, len(docs))

	for i, doc := range docs {
		rep, err := Run(doc, nil)
		if err != nil {
			errs[i] = fmt.Errorf("runner: running spec %q: %w", doc.Metadata.Name, err)
			continue
		}
		reports[i] = rep
	}

	return reports, errs
}
