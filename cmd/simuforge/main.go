// Command simuforge is the CLI entry point for the physics experiment
// harness: run, baseline, suite, validate, scenarios and stream.
package main

import (
	"fmt"
	"os"

	"github.com/simuforge/simuforge/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
