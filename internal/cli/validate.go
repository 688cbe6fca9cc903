package cli

import (
	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "validate <experiment>",
		Short:         "Validate an experiment file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	doc, err := LoadSpec(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load experiment", err)
	}

	if err := doc.Validate(); err != nil {
		_ = formatter.Error("E_SPEC_INVALID", err.Error(), nil)
		return NewExitError(ExitFailure, "experiment specification is invalid")
	}

	return formatter.Success("experiment specification is valid")
}
