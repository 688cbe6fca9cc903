package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simuforge/simuforge/internal/store"
	"github.com/simuforge/simuforge/report"
	"github.com/simuforge/simuforge/runner"
)

// SuiteOptions holds flags for the suite command.
type SuiteOptions struct {
	*RootOptions
	Output   string
	FailFast bool
}

// NewSuiteCommand creates the suite command.
func NewSuiteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SuiteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "suite <directory>",
		Short:         "Run a suite of experiments",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "results", "output directory for results")
	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "stop on first failure")

	return cmd
}

func runSuite(opts *SuiteOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr(), Verbose: opts.Verbose}

	docs, names, err := LoadSpecsDir(dir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load experiments", err)
	}
	if len(docs) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("no experiment files found in %s", dir))
	}

	if err := os.MkdirAll(opts.Output, 0o755); err != nil {
		return WrapExitError(ExitCommandError, "failed to create output directory", err)
	}

	s, err := store.Open(opts.DB)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open report store", err)
	}
	defer s.Close()

	worstCode := ExitSuccess
	passed, failed, errored := 0, 0, 0

	for i, doc := range docs {
		formatter.VerboseLog("running %s (%d/%d)", names[i], i+1, len(docs))

		rep, runErr := runner.Run(doc, nil)
		if runErr != nil {
			rep = report.NewError(runErr)
		}

		switch rep.Status {
		case report.StatusPassed:
			passed++
		case report.StatusFailed:
			failed++
			worstCode = maxInt(worstCode, ExitFailure)
		default:
			errored++
			worstCode = maxInt(worstCode, ExitCommandError)
		}

		resultPath := filepath.Join(opts.Output, strings.TrimSuffix(names[i], filepath.Ext(names[i]))+".json")
		data, encErr := report.Marshal(rep)
		if encErr == nil {
			_ = os.WriteFile(resultPath, data, 0o644)
		}

		if _, saveErr := s.SaveRun(names[i], rep); saveErr != nil {
			formatter.VerboseLog("failed to persist run %q to store: %v", names[i], saveErr)
		}

		if opts.FailFast && rep.Status != report.StatusPassed {
			break
		}
	}

	_ = formatter.Success(fmt.Sprintf("suite complete: %d passed, %d failed, %d errored", passed, failed, errored))

	if worstCode != ExitSuccess {
		return NewExitError(worstCode, "suite did not pass cleanly")
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
