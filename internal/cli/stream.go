package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/simuforge/simuforge/internal/streamserver"
	"github.com/simuforge/simuforge/report"
	"github.com/simuforge/simuforge/runner"
)

// StreamOptions holds flags for the stream command.
type StreamOptions struct {
	*RootOptions
	Addr string
}

// NewStreamCommand creates the supplemental stream command: it runs an
// experiment exactly as `run` does, but also fans every frame out over a
// websocket while the run progresses.
func NewStreamCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StreamOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "stream <experiment>",
		Short:         "Run an experiment while streaming frames over websocket",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStream(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", ":8677", "address to serve the websocket stream on")

	return cmd
}

func runStream(opts *StreamOptions, path string, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	doc, err := LoadSpec(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load experiment", err)
	}

	hub := streamserver.NewHub(logger)
	go func() {
		if serveErr := hub.ListenAndServe(opts.Addr); serveErr != nil {
			logger.Error("streamserver stopped", "error", serveErr)
		}
	}()

	logger.Info("streaming frames", "addr", opts.Addr, "experiment", doc.Metadata.Name)

	rep, err := runner.RunWithSink(doc, nil, hub)
	if err != nil {
		return WrapExitError(ExitCommandError, "run failed", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "run finished with status %q\n", rep.Status)

	if rep.Status != report.StatusPassed {
		return NewExitError(ExitCodeForStatus(string(rep.Status)), fmt.Sprintf("run finished with status %q", rep.Status))
	}
	return nil
}
