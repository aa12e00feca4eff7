// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/lintara-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrRecordNotFound is returned when the cache has no record with the id.
var ErrRecordNotFound = &CacheError{Message: "record not found in cache"}

// CacheError represents a cache-related error.
type CacheError struct {
	Message string
}

func (e *CacheError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing cache errors.
func (e *CacheError) Is(target error) bool {
	t, ok := target.(*CacheError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// SCHEMA
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	scope        TEXT    NOT NULL,
	id           INTEGER NOT NULL,
	position     INTEGER NOT NULL,
	title        TEXT    NOT NULL,
	code_content TEXT    NOT NULL,
	language     TEXT    NOT NULL,
	status       TEXT    NOT NULL,
	result       TEXT,
	created_at   TEXT    NOT NULL,
	completed_at TEXT,
	owner_id     INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (scope, id)
);

CREATE INDEX IF NOT EXISTS idx_analyses_position ON analyses(scope, position);

CREATE TABLE IF NOT EXISTS syncs (
	scope     TEXT PRIMARY KEY,
	synced_at TEXT NOT NULL
);
`

// Scope partitions the cache by service URL and account, so switching
// accounts never shows another user's records.
type Scope struct {
	BaseURL  string
	Username string
}

func (s Scope) key() string {
	return s.BaseURL + "#" + s.Username
}

// =============================================================================
// CACHE
// =============================================================================

// Cache mirrors analysis lists into SQLite. It is safe for concurrent use.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the cache at path. ":memory:" gives a private
// in-memory cache.
func Open(path string) (*Cache, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	// SQLite only supports one writer at a time, and an in-memory database
	// exists per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Cache{db: db, now: time.Now}, nil
}

// Close releases the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// ReplaceAll stores list as the complete contents for scope, preserving its
// order.
func (c *Cache) ReplaceAll(ctx context.Context, scope Scope, list []model.AnalysisRecord) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM analyses WHERE scope = ?", scope.key()); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range list {
		if _, err := stmt.ExecContext(ctx, recordArgs(scope, i, rec)...); err != nil {
			return fmt.Errorf("failed to cache record %d: %w", rec.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO syncs(scope, synced_at) VALUES(?, ?) ON CONFLICT(scope) DO UPDATE SET synced_at = excluded.synced_at",
		scope.key(), c.now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("failed to record sync time: %w", err)
	}

	return tx.Commit()
}

// Put inserts or replaces one record. A new record goes to the front, the
// way the service lists fresh submissions.
func (c *Cache) Put(ctx context.Context, scope Scope, rec model.AnalysisRecord) error {
	var pos sql.NullInt64
	err := c.db.QueryRowContext(ctx,
		"SELECT position FROM analyses WHERE scope = ? AND id = ?", scope.key(), int64(rec.ID),
	).Scan(&pos)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if err := c.db.QueryRowContext(ctx,
			"SELECT MIN(position) - 1 FROM analyses WHERE scope = ?", scope.key(),
		).Scan(&pos); err != nil {
			return fmt.Errorf("failed to find position: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to look up record: %w", err)
	}

	if _, err := c.db.ExecContext(ctx, insertSQL, recordArgs(scope, int(pos.Int64), rec)...); err != nil {
		return fmt.Errorf("failed to cache record %d: %w", rec.ID, err)
	}
	return nil
}

// List returns the cached records for scope in their original order.
func (c *Cache) List(ctx context.Context, scope Scope) ([]model.AnalysisRecord, error) {
	rows, err := c.db.QueryContext(ctx, selectSQL+" WHERE scope = ? ORDER BY position", scope.key())
	if err != nil {
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}
	defer rows.Close()

	var out []model.AnalysisRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Get returns one cached record.
func (c *Cache) Get(ctx context.Context, scope Scope, id model.ID) (model.AnalysisRecord, error) {
	row := c.db.QueryRowContext(ctx, selectSQL+" WHERE scope = ? AND id = ?", scope.key(), int64(id))
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AnalysisRecord{}, ErrRecordNotFound
	}
	return rec, err
}

// Delete removes one record. Deleting a missing record is not an error.
func (c *Cache) Delete(ctx context.Context, scope Scope, id model.ID) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM analyses WHERE scope = ? AND id = ?", scope.key(), int64(id)); err != nil {
		return fmt.Errorf("failed to delete cached record: %w", err)
	}
	return nil
}

// LastSync returns when ReplaceAll last ran for scope. ok is false if never.
func (c *Cache) LastSync(ctx context.Context, scope Scope) (t time.Time, ok bool, err error) {
	var s string
	err = c.db.QueryRowContext(ctx, "SELECT synced_at FROM syncs WHERE scope = ?", scope.key()).Scan(&s)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read sync time: %w", err)
	}
	t, err = time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("corrupt sync time %q: %w", s, err)
	}
	return t, true, nil
}

// Clear removes everything cached for scope.
func (c *Cache) Clear(ctx context.Context, scope Scope) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM analyses WHERE scope = ?", scope.key()); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	if _, err := c.db.ExecContext(ctx, "DELETE FROM syncs WHERE scope = ?", scope.key()); err != nil {
		return fmt.Errorf("failed to clear sync time: %w", err)
	}
	return nil
}

// =============================================================================
// ROW MAPPING
// =============================================================================

const insertSQL = `INSERT OR REPLACE INTO analyses
	(scope, id, position, title, code_content, language, status, result, created_at, completed_at, owner_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectSQL = `SELECT id, title, code_content, language, status, result, created_at, completed_at, owner_id FROM analyses`

func recordArgs(scope Scope, pos int, rec model.AnalysisRecord) []interface{} {
	var result, completed sql.NullString
	if rec.Result != nil {
		result = sql.NullString{String: *rec.Result, Valid: true}
	}
	if rec.CompletedAt != nil && !rec.CompletedAt.IsZero() {
		completed = sql.NullString{String: formatTime(rec.CompletedAt.Time), Valid: true}
	}
	return []interface{}{
		scope.key(), int64(rec.ID), pos,
		rec.Title, rec.CodeContent, rec.Language, string(rec.Status),
		result, formatTime(rec.CreatedAt.Time), completed, rec.OwnerID,
	}
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (model.AnalysisRecord, error) {
	var (
		rec       model.AnalysisRecord
		id        int64
		status    string
		result    sql.NullString
		created   string
		completed sql.NullString
	)
	if err := s.Scan(&id, &rec.Title, &rec.CodeContent, &rec.Language, &status, &result, &created, &completed, &rec.OwnerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("failed to scan record: %w", err)
	}

	rec.ID = model.ID(id)
	rec.Status = model.Status(status)
	if result.Valid {
		rec.Result = model.StringPtr(result.String)
	}
	if created != "" {
		ts, err := model.ParseTimestamp(created)
		if err != nil {
			return rec, fmt.Errorf("record %d: %w", id, err)
		}
		rec.CreatedAt = ts
	}
	if completed.Valid {
		ts, err := model.ParseTimestamp(completed.String)
		if err != nil {
			return rec, fmt.Errorf("record %d: %w", id, err)
		}
		rec.CompletedAt = &ts
	}
	return rec, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
