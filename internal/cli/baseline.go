package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simuforge/simuforge/aggregate"
	"github.com/simuforge/simuforge/baseline"
	"github.com/simuforge/simuforge/internal/store"
	"github.com/simuforge/simuforge/runner"
)

// BaselineOptions holds flags for the baseline command.
type BaselineOptions struct {
	*RootOptions
	Output string
}

// NewBaselineCommand creates the baseline command.
func NewBaselineCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BaselineOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "baseline <experiment>",
		Short:         "Generate a baseline from an experiment",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateBaseline(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "also write the baseline to this file")

	return cmd
}

func generateBaseline(opts *BaselineOptions, path string, cmd *cobra.Command) error {
	doc, err := LoadSpec(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load experiment", err)
	}

	rep, err := runner.Run(doc, nil)
	if err != nil {
		return WrapExitError(ExitCommandError, "run failed", err)
	}
	if rep.Status == "error" {
		return NewExitError(ExitCommandError, fmt.Sprintf("run finished with status %q, cannot record a baseline", rep.Status))
	}

	var metrics aggregate.Metrics
	if rep.Metrics != nil {
		metrics = *rep.Metrics
	}
	rec := baseline.NewRecord(doc.Metadata.Name, doc, metrics)

	s, err := store.Open(opts.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open baseline store", err)
	}
	defer s.Close()
	if _, err := s.SaveBaseline(rec); err != nil {
		return WrapExitError(ExitCommandError, "failed to save baseline", err)
	}

	msg := fmt.Sprintf("baseline %q saved to %s", doc.Metadata.Name, opts.DB)

	if opts.Output != "" {
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to encode baseline", err)
		}
		if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write baseline", err)
		}
		msg += fmt.Sprintf(" and written to %s", opts.Output)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(msg)
}
