package store

import (
	"path/filepath"
	"testing"

	"github.com/simuforge/simuforge/aggregate"
	"github.com/simuforge/simuforge/baseline"
	"github.com/simuforge/simuforge/report"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGetRun(t *testing.T) {
	s := tempStore(t)
	rep := report.New(aggregate.Metrics{FrameCount: 100}, nil, true, nil)

	id, err := s.SaveRun("box-stack", rep)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty run id")
	}

	rec, err := s.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if rec.SpecName != "box-stack" {
		t.Errorf("SpecName = %q, want box-stack", rec.SpecName)
	}
	if rec.Report.Status != report.StatusPassed {
		t.Errorf("Report.Status = %v, want passed", rec.Report.Status)
	}
	if rec.Report.Metrics.FrameCount != 100 {
		t.Errorf("Report.Metrics.FrameCount = %d, want 100", rec.Report.Metrics.FrameCount)
	}
}

func TestGetRun_UnknownID(t *testing.T) {
	s := tempStore(t)
	if _, err := s.GetRun("does-not-exist"); err == nil {
		t.Fatal("expected error for unknown run id")
	}
}

func TestListRuns_OrderedNewestFirst(t *testing.T) {
	s := tempStore(t)
	rep := report.New(aggregate.Metrics{}, nil, true, nil)

	if _, err := s.SaveRun("first", rep); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if _, err := s.SaveRun("second", rep); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	records, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
}

func TestSaveAndGetBaseline(t *testing.T) {
	s := tempStore(t)
	rec := baseline.Record{Name: "nightly", ScenarioKind: "builtin", ScenarioName: "box_stack", StepCount: 300, Timestep: 0.01}

	if _, err := s.SaveBaseline(rec); err != nil {
		t.Fatalf("SaveBaseline: %v", err)
	}

	got, err := s.GetBaseline("nightly")
	if err != nil {
		t.Fatalf("GetBaseline: %v", err)
	}
	if got.ScenarioName != "box_stack" || got.StepCount != 300 {
		t.Errorf("GetBaseline() = %+v, want ScenarioName=box_stack StepCount=300", got)
	}
}

func TestSaveBaseline_UpsertsByName(t *testing.T) {
	s := tempStore(t)
	rec1 := baseline.Record{Name: "nightly", StepCount: 100}
	rec2 := baseline.Record{Name: "nightly", StepCount: 200}

	if _, err := s.SaveBaseline(rec1); err != nil {
		t.Fatalf("SaveBaseline: %v", err)
	}
	if _, err := s.SaveBaseline(rec2); err != nil {
		t.Fatalf("SaveBaseline: %v", err)
	}

	all, err := s.ListBaselines()
	if err != nil {
		t.Fatalf("ListBaselines: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("len(all) = %d, want 1 (second save should replace the first)", len(all))
	}
	if all[0].StepCount != 200 {
		t.Errorf("StepCount = %d, want 200", all[0].StepCount)
	}
}

func TestGetBaseline_UnknownName(t *testing.T) {
	s := tempStore(t)
	if _, err := s.GetBaseline("nonexistent"); err == nil {
		t.Fatal("expected error for unknown baseline name")
	}
}
