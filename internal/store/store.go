// Package store persists pipeline reports in SQLite so the worker and the
// API can hand results back by id. One row per report; the report body is
// stored as JSON.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Report kinds recorded in the reports table.
const (
	KindLidarClassification = "lidar_classification"
	KindThermalAnomalies    = "thermal_anomalies"
)

// Store wraps the reports database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the report database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS reports (
			report_id          TEXT PRIMARY KEY,
			kind               TEXT NOT NULL,
			source             TEXT,
			created_unix_nanos INTEGER NOT NULL,
			report_json        TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_reports_kind ON reports(kind, created_unix_nanos);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create reports schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveReport records a report of the given kind and returns its new id.
// source identifies the input (upload name, task payload path) for later
// correlation; it may be empty.
func (s *Store) SaveReport(kind, source string, report interface{}) (string, error) {
	body, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO reports (report_id, kind, source, created_unix_nanos, report_json) VALUES (?, ?, ?, ?, ?)`,
		id, kind, source, time.Now().UnixNano(), string(body),
	)
	if err != nil {
		return "", fmt.Errorf("insert report: %w", err)
	}
	return id, nil
}

// StoredReport is one persisted report row.
type StoredReport struct {
	ReportID         string          `json:"report_id"`
	Kind             string          `json:"kind"`
	Source           string          `json:"source"`
	CreatedUnixNanos int64           `json:"created_unix_nanos"`
	Report           json.RawMessage `json:"report"`
}

// GetReport fetches one report by id. Returns sql.ErrNoRows if absent.
func (s *Store) GetReport(id string) (*StoredReport, error) {
	row := s.db.QueryRow(
		`SELECT report_id, kind, source, created_unix_nanos, report_json FROM reports WHERE report_id = ?`, id,
	)
	var r StoredReport
	var body string
	if err := row.Scan(&r.ReportID, &r.Kind, &r.Source, &r.CreatedUnixNanos, &body); err != nil {
		return nil, err
	}
	r.Report = json.RawMessage(body)
	return &r, nil
}

// ListReports returns the most recent reports of a kind, newest first.
func (s *Store) ListReports(kind string, limit int) ([]StoredReport, error) {
	rows, err := s.db.Query(
		`SELECT report_id, kind, source, created_unix_nanos, report_json
		 FROM reports WHERE kind = ? ORDER BY created_unix_nanos DESC LIMIT ?`, kind, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredReport
	for rows.Next() {
		var r StoredReport
		var body string
		if err := rows.Scan(&r.ReportID, &r.Kind, &r.Source, &r.CreatedUnixNanos, &body); err != nil {
			return nil, err
		}
		r.Report = json.RawMessage(body)
		out = append(out, r)
	}
	return out, rows.Err()
}
