package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists audit records in SQLite.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database at dsn.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("audit: open database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Migrate creates the audit table when missing.
func (s *Store) Migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS audit_log (
	id         TEXT PRIMARY KEY,
	ts         TEXT NOT NULL,
	user_id    TEXT NOT NULL,
	mode       TEXT NOT NULL,
	intent     TEXT NOT NULL,
	start_at   TEXT NOT NULL,
	end_at     TEXT NOT NULL,
	status     TEXT NOT NULL,
	message    TEXT NOT NULL,
	error      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_log_ts ON audit_log (ts);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("audit: apply schema: %w", err)
	}
	return nil
}

// Append inserts one record.
func (s *Store) Append(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO audit_log (id, ts, user_id, mode, intent, start_at, end_at, status, message, error)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.Timestamp.UTC().Format(time.RFC3339Nano),
		rec.UserID,
		rec.Mode,
		rec.Intent,
		formatInstant(rec.Start),
		formatInstant(rec.End),
		rec.Status,
		rec.Message,
		rec.Error,
	)
	if err != nil {
		return fmt.Errorf("audit: insert record: %w", err)
	}
	return nil
}

// Recent returns the newest records, newest first, for operational lookups.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
SELECT id, ts, user_id, mode, intent, start_at, end_at, status, message, error
FROM audit_log
ORDER BY ts DESC
LIMIT ?
`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var ts, start, end string
		if err := rows.Scan(&rec.ID, &ts, &rec.UserID, &rec.Mode, &rec.Intent, &start, &end, &rec.Status, &rec.Message, &rec.Error); err != nil {
			return nil, fmt.Errorf("audit: scan record: %w", err)
		}
		if rec.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("audit: parse timestamp: %w", err)
		}
		if start != "" {
			if rec.Start, err = time.Parse(time.RFC3339, start); err != nil {
				return nil, fmt.Errorf("audit: parse start: %w", err)
			}
		}
		if end != "" {
			if rec.End, err = time.Parse(time.RFC3339, end); err != nil {
				return nil, fmt.Errorf("audit: parse end: %w", err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: iterate records: %w", err)
	}
	return records, nil
}
