package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunRecord is one analysis run as persisted.
type RunRecord struct {
	RunID       string    `json:"run_id"`
	CreatedAt   time.Time `json:"created_at"`
	Strategy    string    `json:"strategy"`
	ParamsJSON  string    `json:"params_json"`
	RegionJSON  string    `json:"region_json,omitempty"`
	Status      string    `json:"status"`
	ResultJSON  string    `json:"result_json,omitempty"`
	Error       string    `json:"error,omitempty"`
	DurationMs  int64     `json:"duration_ms"`
	SourceLabel string    `json:"source_label,omitempty"`
}

// InsertRun records a newly started run with status "running".
func (db *DB) InsertRun(r *RunRecord) error {
	_, err := db.sql.Exec(`
		INSERT INTO analysis_runs
			(run_id, created_unix_nanos, strategy, params_json, region_json, status, source_label)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.CreatedAt.UnixNano(), r.Strategy, r.ParamsJSON,
		nullable(r.RegionJSON), StatusRunning, r.SourceLabel)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", r.RunID, err)
	}
	return nil
}

// CompleteRun marks a run as completed with its serialized result.
func (db *DB) CompleteRun(runID, resultJSON string, duration time.Duration) error {
	return db.finishRun(runID, StatusCompleted, resultJSON, "", duration)
}

// FailRun marks a run as failed with an error message.
func (db *DB) FailRun(runID, errMsg string, duration time.Duration) error {
	return db.finishRun(runID, StatusFailed, "", errMsg, duration)
}

func (db *DB) finishRun(runID, status, resultJSON, errMsg string, duration time.Duration) error {
	res, err := db.sql.Exec(`
		UPDATE analysis_runs
		SET status = ?, result_json = ?, error = ?, duration_ms = ?
		WHERE run_id = ?`,
		status, nullable(resultJSON), nullable(errMsg), duration.Milliseconds(), runID)
	if err != nil {
		return fmt.Errorf("failed to update run %s: %w", runID, err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// GetRun fetches a single run by ID.
func (db *DB) GetRun(runID string) (*RunRecord, error) {
	row := db.sql.QueryRow(`
		SELECT run_id, created_unix_nanos, strategy, params_json, region_json,
		       status, result_json, error, duration_ms, source_label
		FROM analysis_runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", runID, err)
	}
	return r, nil
}

// ListRuns returns up to limit runs, newest first.
func (db *DB) ListRuns(limit int) ([]*RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.sql.Query(`
		SELECT run_id, created_unix_nanos, strategy, params_json, region_json,
		       status, result_json, error, duration_ms, source_label
		FROM analysis_runs
		ORDER BY created_unix_nanos DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*RunRecord, error) {
	var r RunRecord
	var createdNanos int64
	var regionJSON, resultJSON, errMsg sql.NullString
	var durationMs sql.NullInt64

	err := s.Scan(&r.RunID, &createdNanos, &r.Strategy, &r.ParamsJSON, &regionJSON,
		&r.Status, &resultJSON, &errMsg, &durationMs, &r.SourceLabel)
	if err != nil {
		return nil, err
	}
	r.CreatedAt = time.Unix(0, createdNanos)
	r.RegionJSON = regionJSON.String
	r.ResultJSON = resultJSON.String
	r.Error = errMsg.String
	r.DurationMs = durationMs.Int64
	return &r, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
