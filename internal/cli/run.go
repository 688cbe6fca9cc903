package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simuforge/simuforge/baseline"
	"github.com/simuforge/simuforge/internal/store"
	"github.com/simuforge/simuforge/metricworld"
	"github.com/simuforge/simuforge/report"
	"github.com/simuforge/simuforge/runner"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Output   string
	Baseline string
	Frames   bool
	Pretty   bool
}

// runOutput is the JSON envelope written to --output (or stdout) when
// --frames is set: the report plus the raw per-step frame sequence, which
// the terminal SimulationReport itself never carries.
type runOutput struct {
	*report.SimulationReport
	Frames []*metricworld.MetricFrame `json:"frames,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <experiment>",
		Short: "Run a single experiment",
		Args:  cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExperiment(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file for results (default: stdout)")
	cmd.Flags().StringVarP(&opts.Baseline, "baseline", "b", "", "baseline to compare against: a stored baseline name, or a file path")
	cmd.Flags().BoolVar(&opts.Frames, "frames", false, "include per-frame metrics in output")
	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "pretty-print JSON output")

	return cmd
}

func runExperiment(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	doc, err := LoadSpec(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load experiment", err)
	}

	var base *baseline.Record
	if opts.Baseline != "" {
		base, err = resolveBaseline(opts.DB, opts.Baseline)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load baseline", err)
		}
	}

	formatter.VerboseLog("running experiment %q", doc.Metadata.Name)

	var collector *frameCollector
	var sink runner.FrameSink
	if opts.Frames {
		collector = &frameCollector{}
		sink = collector
	}

	rep, err := runner.RunWithSink(doc, base, sink)
	if err != nil {
		return WrapExitError(ExitCommandError, "run failed", err)
	}

	out := runOutput{SimulationReport: rep}
	if opts.Frames {
		out.Frames = collector.frames
	}

	var data []byte
	if opts.Pretty {
		data, err = json.MarshalIndent(out, "", "  ")
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to encode report", err)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Results written to: %s\n", opts.Output)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}

	printSummary(cmd, doc.Metadata.Name, rep)

	return exitForStatus(rep)
}

func printSummary(cmd *cobra.Command, name string, rep *report.SimulationReport) {
	errW := cmd.ErrOrStderr()
	fmt.Fprintln(errW)
	fmt.Fprintln(errW, "=== Experiment Summary ===")
	fmt.Fprintf(errW, "Name: %s\n", name)
	fmt.Fprintf(errW, "Status: %s\n", rep.Status)

	if rep.Metrics != nil {
		fmt.Fprintln(errW)
		fmt.Fprintln(errW, "Metrics:")
		fmt.Fprintf(errW, "  Energy drift: %.2f%%\n", rep.Metrics.EnergyDriftPercent)
		fmt.Fprintf(errW, "  Max penetration: %.6f\n", rep.Metrics.MaxPenetrationEver)
		fmt.Fprintf(errW, "  Constraint violations: %d\n", rep.Metrics.TotalConstraintViolations)
	}

	if len(rep.CriteriaResults) > 0 {
		fmt.Fprintln(errW)
		fmt.Fprintln(errW, "Criteria:")
		for tag, result := range rep.CriteriaResults {
			mark := "✗"
			if result.Passed {
				mark = "✓"
			}
			fmt.Fprintf(errW, "  %s %s: %.4f\n", mark, tag, result.Value)
		}
	}

	if rep.BaselineComparison != nil {
		cmp := rep.BaselineComparison
		fmt.Fprintln(errW)
		fmt.Fprintln(errW, "Baseline Comparison:")
		fmt.Fprintf(errW, "  Recommendation: %s\n", cmp.Recommendation)
		if len(cmp.MetricsImproved) > 0 {
			fmt.Fprintf(errW, "  Improved: %v\n", cmp.MetricsImproved)
		}
		if len(cmp.MetricsRegressed) > 0 {
			fmt.Fprintf(errW, "  Regressed: %v\n", cmp.MetricsRegressed)
		}
	}
}

type frameCollector struct {
	frames []*metricworld.MetricFrame
}

func (c *frameCollector) Frame(f *metricworld.MetricFrame) {
	c.frames = append(c.frames, f)
}

func loadBaselineFile(path string) (*baseline.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cli: reading baseline %s: %w", path, err)
	}
	var rec baseline.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("cli: parsing baseline %s: %w", path, err)
	}
	return &rec, nil
}

// resolveBaseline loads a baseline either from a file on disk (when ref
// names one) or, otherwise, by name from the SQLite store at dbPath — the
// two baseline sources the run command accepts.
func resolveBaseline(dbPath, ref string) (*baseline.Record, error) {
	if _, err := os.Stat(ref); err == nil {
		return loadBaselineFile(ref)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("cli: opening baseline store: %w", err)
	}
	defer s.Close()

	rec, err := s.GetBaseline(ref)
	if err != nil {
		return nil, fmt.Errorf("cli: baseline %q not found as a file or in the store: %w", ref, err)
	}
	return rec, nil
}

// exitForStatus turns a report's terminal status into the process's exit
// behavior: nil for passed, an ExitError for failed/error so main can map
// it back onto spec.md's exit code table without inspecting the report.
func exitForStatus(rep *report.SimulationReport) error {
	code := ExitCodeForStatus(string(rep.Status))
	if code == ExitSuccess {
		return nil
	}
	return NewExitError(code, fmt.Sprintf("run finished with status %q", rep.Status))
}
