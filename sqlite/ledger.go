package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/doctext"
)

// Compile-time interface verification.
var _ doctext.RunLedger = (*RunLedger)(nil)

// RunLedger implements doctext.RunLedger using SQLite.
type RunLedger struct {
	db *DB
}

// NewRunLedger creates a new RunLedger.
func NewRunLedger(db *DB) *RunLedger {
	return &RunLedger{db: db}
}

// CreateRun stores a new run.
func (l *RunLedger) CreateRun(ctx context.Context, run *doctext.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO runs (id, origin, seeds, max_depth, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.Origin, strings.Join(run.Seeds, "\n"), run.MaxDepth, formatTime(run.StartedAt))

	return err
}

// RecordPage stores the outcome of one admitted page. Recording the same
// URL twice for a run is rejected by the schema.
func (l *RunLedger) RecordPage(ctx context.Context, rec *doctext.PageRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO pages (run_id, url, depth, path, hash, bytes, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.RunID, rec.URL, rec.Depth, rec.Path, rec.Hash, rec.Bytes, string(rec.Status), rec.Error)

	return err
}

// FinishRun stores the final counters and finish time of a run.
func (l *RunLedger) FinishRun(ctx context.Context, run *doctext.Run) error {
	result, err := l.db.ExecContext(ctx, `
		UPDATE runs
		SET fetched = ?, failed = ?, ignored = ?, finished_at = ?
		WHERE id = ?
	`, run.Fetched, run.Failed, run.Ignored, formatTime(run.FinishedAt), run.ID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return doctext.Errorf(doctext.ENOTFOUND, "run not found")
	}
	return nil
}

// FindRunByID retrieves a run. Artifacts are rebuilt from the run's saved
// pages in recording order.
func (l *RunLedger) FindRunByID(ctx context.Context, id string) (*doctext.Run, error) {
	var run doctext.Run
	var seeds, startedAt, finishedAt string

	err := l.db.QueryRowContext(ctx, `
		SELECT id, origin, seeds, max_depth, fetched, failed, ignored, started_at, finished_at
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.Origin, &seeds, &run.MaxDepth, &run.Fetched, &run.Failed, &run.Ignored,
		&startedAt, &finishedAt)

	if err == sql.ErrNoRows {
		return nil, doctext.Errorf(doctext.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	if seeds != "" {
		run.Seeds = strings.Split(seeds, "\n")
	}
	if startedAt != "" {
		if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
			return nil, err
		}
	}
	if finishedAt != "" {
		if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
			return nil, err
		}
	}

	saved := doctext.PageSaved
	pages, err := l.FindPages(ctx, doctext.PageFilter{RunID: &run.ID, Status: &saved})
	if err != nil {
		return nil, err
	}
	for _, p := range pages {
		run.Artifacts = append(run.Artifacts, &doctext.Artifact{
			URL:   p.URL,
			Path:  p.Path,
			Depth: p.Depth,
			Bytes: p.Bytes,
			Hash:  p.Hash,
		})
	}

	return &run, nil
}

// FindPages retrieves page records matching the filter in recording order.
func (l *RunLedger) FindPages(ctx context.Context, filter doctext.PageFilter) ([]*doctext.PageRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT run_id, url, depth, path, hash, bytes, status, error FROM pages WHERE 1=1")

	if filter.RunID != nil {
		query.WriteString(" AND run_id = ?")
		args = append(args, *filter.RunID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, string(*filter.Status))
	}

	query.WriteString(" ORDER BY id ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := l.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*doctext.PageRecord
	for rows.Next() {
		var rec doctext.PageRecord
		var status string
		if err := rows.Scan(&rec.RunID, &rec.URL, &rec.Depth, &rec.Path, &rec.Hash, &rec.Bytes,
			&status, &rec.Error); err != nil {
			return nil, err
		}
		rec.Status = doctext.PageStatus(status)
		records = append(records, &rec)
	}

	return records, rows.Err()
}

// formatTime renders t as UTC RFC3339 with nanoseconds. The zero time is
// stored as an empty string.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
