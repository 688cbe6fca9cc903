package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func runValidateForTest(t *testing.T, format string, path string) (*bytes.Buffer, error) {
	t.Helper()
	opts := &RootOptions{Format: format}
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := runValidate(opts, path, cmd)
	return &out, err
}

func TestRunValidate_ValidSpec(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.yaml")
	if err := os.WriteFile(path, []byte(sampleSpecYAML), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, err := runValidateForTest(t, "text", path)
	if err != nil {
		t.Fatalf("runValidate returned error: %v", err)
	}
	if out.Len() == 0 {
		t.Error("expected success message to be written")
	}
}

func TestRunValidate_InvalidSpec(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	badYAML := `
metadata:
  name: ""
physics:
  timestep: 0.01667
duration:
  kind: fixed
  steps: 10
scenario:
  kind: builtin
  name: bouncing_ball
`
	if err := os.WriteFile(path, []byte(badYAML), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := runValidateForTest(t, "text", path)
	if err == nil {
		t.Fatal("expected error for invalid spec")
	}
	exitErr, ok := err.(*ExitError)
	if !ok {
		t.Fatalf("error type = %T, want *ExitError", err)
	}
	if exitErr.Code != ExitFailure {
		t.Errorf("Code = %d, want %d", exitErr.Code, ExitFailure)
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	_, err := runValidateForTest(t, "text", "/nonexistent/spec.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	exitErr, ok := err.(*ExitError)
	if !ok {
		t.Fatalf("error type = %T, want *ExitError", err)
	}
	if exitErr.Code != ExitCommandError {
		t.Errorf("Code = %d, want %d", exitErr.Code, ExitCommandError)
	}
}
