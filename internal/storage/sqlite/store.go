// Package sqlite provides a SQLite-backed save store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/ebenmoss/sultanate/internal/save"
	"github.com/ebenmoss/sultanate/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS saves (
	id TEXT PRIMARY KEY,
	created_at_ms INTEGER NOT NULL,
	payload BLOB NOT NULL
);
`

// Store persists save records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite save store and ensures the schema exists.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Put writes a save record, overwriting any record with the same id.
func (s *Store) Put(ctx context.Context, record save.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(record.ID) == "" {
		return fmt.Errorf("save id is required")
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal save record: %w", err)
	}

	_, err = s.sqlDB.ExecContext(ctx, `
		INSERT INTO saves (id, created_at_ms, payload) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET created_at_ms = excluded.created_at_ms, payload = excluded.payload`,
		record.ID, record.CreatedAt.UTC().UnixMilli(), payload)
	if err != nil {
		return fmt.Errorf("upsert save record: %w", err)
	}
	return nil
}

// Get fetches a save record by id.
func (s *Store) Get(ctx context.Context, id string) (save.Record, error) {
	if err := ctx.Err(); err != nil {
		return save.Record{}, err
	}
	if s == nil || s.sqlDB == nil {
		return save.Record{}, fmt.Errorf("storage is not configured")
	}

	var payload []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT payload FROM saves WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return save.Record{}, storage.ErrNotFound
	}
	if err != nil {
		return save.Record{}, fmt.Errorf("query save record: %w", err)
	}

	var record save.Record
	if err := json.Unmarshal(payload, &record); err != nil {
		return save.Record{}, fmt.Errorf("unmarshal save record: %w", err)
	}
	return record, nil
}

// List returns all stored save ids, newest first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `SELECT id FROM saves ORDER BY created_at_ms DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list save records: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan save id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate save ids: %w", err)
	}
	return ids, nil
}

// Delete removes a save record. Deleting a missing id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM saves WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete save record: %w", err)
	}
	return nil
}
