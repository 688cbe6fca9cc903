// Package store persists simulation reports and baseline snapshots in a
// local SQLite database, so a suite run and later run --baseline
// invocations don't require passing baseline files by hand.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/simuforge/simuforge/baseline"
	"github.com/simuforge/simuforge/report"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	spec_name   TEXT NOT NULL,
	status      TEXT NOT NULL,
	report_json TEXT NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS baselines (
	baseline_id TEXT PRIMARY KEY,
	name        TEXT NOT NULL UNIQUE,
	record_json TEXT NOT NULL,
	created_at  TEXT NOT NULL
);
`

// Store manages runs and baselines in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens a SQLite database at dbPath and runs migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: opening db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("store: setting journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("store: enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("store: migrating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunRecord is one persisted run, keyed by a generated uuid.
type RunRecord struct {
	RunID     string
	SpecName  string
	CreatedAt time.Time
	Report    *report.SimulationReport
}

// SaveRun persists rep under specName and returns the generated run id.
func (s *Store) SaveRun(specName string, rep *report.SimulationReport) (string, error) {
	data, err := json.Marshal(rep)
	if err != nil {
		return "", fmt.Errorf("store: marshaling report: %w", err)
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	_, err = s.db.Exec(
		`INSERT INTO runs (run_id, spec_name, status, report_json, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, specName, string(rep.Status), string(data), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("store: inserting run: %w", err)
	}
	return id, nil
}

// GetRun retrieves a previously saved run by id.
func (s *Store) GetRun(id string) (*RunRecord, error) {
	var rec RunRecord
	var reportJSON, createdStr string

	err := s.db.QueryRow(
		`SELECT run_id, spec_name, report_json, created_at FROM runs WHERE run_id = ?`, id,
	).Scan(&rec.RunID, &rec.SpecName, &reportJSON, &createdStr)
	if err != nil {
		return nil, fmt.Errorf("store: getting run %s: %w", id, err)
	}

	var rep report.SimulationReport
	if err := json.Unmarshal([]byte(reportJSON), &rep); err != nil {
		return nil, fmt.Errorf("store: unmarshaling report: %w", err)
	}
	rec.Report = &rep
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)

	return &rec, nil
}

// ListRuns returns the most recently created runs, newest first.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, spec_name, report_json, created_at FROM runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: listing runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var reportJSON, createdStr string
		if err := rows.Scan(&rec.RunID, &rec.SpecName, &reportJSON, &createdStr); err != nil {
			return nil, fmt.Errorf("store: scanning run row: %w", err)
		}
		var rep report.SimulationReport
		if err := json.Unmarshal([]byte(reportJSON), &rep); err != nil {
			return nil, fmt.Errorf("store: unmarshaling report: %w", err)
		}
		rec.Report = &rep
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// SaveBaseline persists rec, replacing any existing baseline with the same
// name.
func (s *Store) SaveBaseline(rec baseline.Record) (string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("store: marshaling baseline: %w", err)
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	_, err = s.db.Exec(
		`INSERT INTO baselines (baseline_id, name, record_json, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET record_json = excluded.record_json, created_at = excluded.created_at`,
		id, rec.Name, string(data), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("store: inserting baseline: %w", err)
	}
	return id, nil
}

// GetBaseline retrieves a baseline by name.
func (s *Store) GetBaseline(name string) (*baseline.Record, error) {
	var recordJSON string
	err := s.db.QueryRow(`SELECT record_json FROM baselines WHERE name = ?`, name).Scan(&recordJSON)
	if err != nil {
		return nil, fmt.Errorf("store: getting baseline %s: %w", name, err)
	}

	var rec baseline.Record
	if err := json.Unmarshal([]byte(recordJSON), &rec); err != nil {
		return nil, fmt.Errorf("store: unmarshaling baseline: %w", err)
	}
	return &rec, nil
}

// ListBaselines returns every stored baseline, most recently created first.
func (s *Store) ListBaselines() ([]baseline.Record, error) {
	rows, err := s.db.Query(`SELECT record_json FROM baselines ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: listing baselines: %w", err)
	}
	defer rows.Close()

	var records []baseline.Record
	for rows.Next() {
		var recordJSON string
		if err := rows.Scan(&recordJSON); err != nil {
			return nil, fmt.Errorf("store: scanning baseline row: %w", err)
		}
		var rec baseline.Record
		if err := json.Unmarshal([]byte(recordJSON), &rec); err != nil {
			return nil, fmt.Errorf("store: unmarshaling baseline: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
