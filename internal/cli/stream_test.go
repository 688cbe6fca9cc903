package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
)

// runStream's happy path binds a real listener via streamserver.Hub.ListenAndServe,
// which is exercised in internal/streamserver's own tests; here we only cover the
// command's argument validation, which runs before any socket is opened.
func TestRunStream_MissingSpecFileFailsBeforeListening(t *testing.T) {
	opts := &StreamOptions{RootOptions: &RootOptions{Format: "text"}, Addr: ":0"}
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	err := runStream(opts, "/nonexistent/spec.yaml", cmd)
	if err == nil {
		t.Fatal("expected error for missing experiment file")
	}
	exitErr, ok := err.(*ExitError)
	if !ok {
		t.Fatalf("error type = %T, want *ExitError", err)
	}
	if exitErr.Code != ExitCommandError {
		t.Errorf("Code = %d, want %d", exitErr.Code, ExitCommandError)
	}
}
