// Copyright 2026 © The Resolver Authors
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/jllopis/resolver/pkg/errors"
)

// SQLiteStore persists audit records in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLite-backed audit store and ensures the schema.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New(errors.CodeInvalidConfig, "db is nil", nil)
	}
	if err := ensureSchema(db); err != nil {
		return nil, errors.New(errors.CodeStore, "creating audit schema", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Record stores a single audit record.
func (s *SQLiteStore) Record(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO resolver_audit_events (
			pipeline, run_id, event_type, state, contributor, priority, message, error_text, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.Pipeline,
		r.RunID,
		r.Type,
		r.State,
		r.Contributor,
		r.Order,
		r.Message,
		r.Error,
		normalizeTime(r.Timestamp),
	)
	if err != nil {
		return errors.New(errors.CodeStore, "inserting audit record", err).
			WithContext("run_id", r.RunID).
			WithRecoverable(true)
	}
	return nil
}

// List returns audit records matching the filter in insertion order.
func (s *SQLiteStore) List(ctx context.Context, filter Filter) ([]Record, error) {
	query := `
		SELECT pipeline, run_id, event_type, state, contributor, priority, message, error_text, created_at
		FROM resolver_audit_events
	`
	var args []any
	where := ""
	addFilter := func(clause string, value any) {
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
		args = append(args, value)
	}
	if filter.Pipeline != "" {
		addFilter("pipeline = ?", filter.Pipeline)
	}
	if filter.RunID != "" {
		addFilter("run_id = ?", filter.RunID)
	}
	if filter.Type != "" {
		addFilter("event_type = ?", filter.Type)
	}
	query += where + " ORDER BY id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.New(errors.CodeStore, "querying audit records", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r       Record
			created sql.NullTime
		)
		if err := rows.Scan(
			&r.Pipeline,
			&r.RunID,
			&r.Type,
			&r.State,
			&r.Contributor,
			&r.Order,
			&r.Message,
			&r.Error,
			&created,
		); err != nil {
			return nil, errors.New(errors.CodeStore, "scanning audit record", err)
		}
		if created.Valid {
			r.Timestamp = created.Time
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(errors.CodeStore, "reading audit records", err)
	}
	return records, nil
}

func ensureSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS resolver_audit_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			pipeline TEXT NOT NULL,
			run_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			state TEXT NOT NULL,
			contributor TEXT NOT NULL DEFAULT '',
			priority INTEGER NOT NULL DEFAULT 0,
			message TEXT NOT NULL DEFAULT '',
			error_text TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_resolver_audit_pipeline ON resolver_audit_events(pipeline);
		CREATE INDEX IF NOT EXISTS idx_resolver_audit_run ON resolver_audit_events(run_id);
		CREATE INDEX IF NOT EXISTS idx_resolver_audit_type ON resolver_audit_events(event_type);
	`)
	return err
}
