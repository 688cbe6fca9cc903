package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/simuforge/simuforge/baseline"
	"github.com/simuforge/simuforge/internal/store"
)

func TestGenerateBaseline_WritesRecord(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "sample.yaml")
	if err := os.WriteFile(specPath, []byte(sampleSpecYAML), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	outPath := filepath.Join(dir, "baseline.json")
	dbPath := filepath.Join(dir, "baseline.db")

	opts := &BaselineOptions{RootOptions: &RootOptions{Format: "text", DB: dbPath}, Output: outPath}
	cmd := &cobra.Command{}
	cmd.SetOut(os.Stdout)

	if err := generateBaseline(opts, specPath, cmd); err != nil {
		t.Fatalf("generateBaseline returned error: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var rec baseline.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if rec.Name != "sample" {
		t.Errorf("Name = %q, want sample", rec.Name)
	}
	if rec.ScenarioName != "bouncing_ball" {
		t.Errorf("ScenarioName = %q, want bouncing_ball", rec.ScenarioName)
	}
	if rec.StepCount != 100 {
		t.Errorf("StepCount = %d, want 100", rec.StepCount)
	}
}

func TestGenerateBaseline_SavesToStore(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "sample.yaml")
	if err := os.WriteFile(specPath, []byte(sampleSpecYAML), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	dbPath := filepath.Join(dir, "baseline.db")

	opts := &BaselineOptions{RootOptions: &RootOptions{Format: "text", DB: dbPath}}
	cmd := &cobra.Command{}
	cmd.SetOut(os.Stdout)

	if err := generateBaseline(opts, specPath, cmd); err != nil {
		t.Fatalf("generateBaseline returned error: %v", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer s.Close()

	rec, err := s.GetBaseline("sample")
	if err != nil {
		t.Fatalf("GetBaseline: %v", err)
	}
	if rec.ScenarioName != "bouncing_ball" {
		t.Errorf("ScenarioName = %q, want bouncing_ball", rec.ScenarioName)
	}
}

func TestGenerateBaseline_MissingSpec(t *testing.T) {
	opts := &BaselineOptions{RootOptions: &RootOptions{Format: "text"}, Output: filepath.Join(t.TempDir(), "out.json")}
	cmd := &cobra.Command{}
	cmd.SetOut(os.Stdout)

	err := generateBaseline(opts, "/nonexistent/spec.yaml", cmd)
	if err == nil {
		t.Fatal("expected error for missing spec file")
	}
}
