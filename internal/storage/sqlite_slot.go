package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteSlot stores the document as a single row in a key-value table. It is
// an alternative backend for installations that prefer one database file over
// a bare JSON file. Use ":memory:" for an in-memory database.
type SQLiteSlot struct {
	db   *sql.DB
	name string
	mu   sync.RWMutex
}

// NewSQLiteSlot opens (or creates) the database at dbPath and prepares the
// slot table. name identifies the slot row within the table.
func NewSQLiteSlot(dbPath, name string) (*SQLiteSlot, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	slot := &SQLiteSlot{db: db, name: name}
	if err := slot.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return slot, nil
}

func (s *SQLiteSlot) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS state_slots (
		name TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Read returns the slot row, or ErrNotFound when no row exists.
func (s *SQLiteSlot) Read(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM state_slots WHERE name = ?", s.name,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound{Name: s.name}
	}
	if err != nil {
		return nil, fmt.Errorf("query state slot: %w", err)
	}
	return data, nil
}

// Write upserts the slot row. The single-statement upsert keeps the write
// atomic from any reader's perspective.
func (s *SQLiteSlot) Write(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO state_slots (name, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		s.name, data, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("write state slot: %w", err)
	}
	return nil
}

// Clear deletes the slot row if present.
func (s *SQLiteSlot) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM state_slots WHERE name = ?", s.name,
	); err != nil {
		return fmt.Errorf("clear state slot: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteSlot) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
