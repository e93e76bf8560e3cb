// Package store persists the working tax return.
//
// There is exactly one return per database: a single row holding the JSON
// blob and a version counter. Every successful Save bumps the version by one,
// and a Save whose expected version does not match the stored one is
// rejected, so two writers racing from the same snapshot cannot silently
// overwrite each other.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"taxengine/internal/core"
)

var (
	// ErrNotFound means no return has been saved yet.
	ErrNotFound = errors.New("no tax return stored")

	// ErrVersionConflict means the caller's expected version is stale.
	ErrVersionConflict = errors.New("version conflict")
)

// ConflictError carries both sides of a rejected Save.
type ConflictError struct {
	Expected int64
	Current  int64
}

func (e *ConflictError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%v: expected version %d, stored version %d", ErrVersionConflict, e.Expected, e.Current)
}

func (e *ConflictError) Unwrap() error { return ErrVersionConflict }

// Snapshot is the stored return at one version.
type Snapshot struct {
	Version   int64           `json:"version"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Return    *core.TaxReturn `json:"taxReturn"`
}

const schema = `
CREATE TABLE IF NOT EXISTS tax_return (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	version    INTEGER NOT NULL,
	body       TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

// Store is a SQLite-backed single-row return store. Safe for concurrent use;
// writes are serialized by SQLite.
type Store struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string, log *zap.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store path is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer at a time; also keeps ":memory:" on a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	log.Debug("store opened", zap.String("path", path))
	return &Store{db: db, log: log, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load returns the current snapshot or ErrNotFound.
func (s *Store) Load(ctx context.Context) (Snapshot, error) {
	var (
		snap    Snapshot
		body    string
		updated string
	)
	err := s.db.QueryRowContext(ctx, `SELECT version, body, updated_at FROM tax_return WHERE id = 1`).
		Scan(&snap.Version, &body, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load return: %w", err)
	}

	snap.Return = &core.TaxReturn{}
	if err := decodeStrict([]byte(body), snap.Return); err != nil {
		return Snapshot{}, fmt.Errorf("invalid return on disk: %w", err)
	}
	if snap.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return Snapshot{}, fmt.Errorf("invalid updated_at on disk: %w", err)
	}
	return snap, nil
}

// Version returns the stored version, 0 when nothing is stored.
func (s *Store) Version(ctx context.Context) (int64, error) {
	var v int64
	err := s.db.QueryRowContext(ctx, `SELECT version FROM tax_return WHERE id = 1`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read version: %w", err)
	}
	return v, nil
}

// Save stores tr if the stored version equals expected (0 for an empty
// store) and returns the new version. A stale expected version yields a
// *ConflictError.
func (s *Store) Save(ctx context.Context, tr *core.TaxReturn, expected int64) (int64, error) {
	if tr == nil {
		return 0, errors.New("tax return is required")
	}
	body, err := json.Marshal(tr)
	if err != nil {
		return 0, fmt.Errorf("marshal return: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current int64
	err = tx.QueryRowContext(ctx, `SELECT version FROM tax_return WHERE id = 1`).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("read version: %w", err)
	}
	if current != expected {
		s.log.Info("save rejected", zap.Int64("expected", expected), zap.Int64("current", current))
		return 0, &ConflictError{Expected: expected, Current: current}
	}

	next := current + 1
	stamp := s.now().UTC().Format(time.RFC3339Nano)
	if current == 0 {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO tax_return (id, version, body, updated_at) VALUES (1, ?, ?, ?)`, next, string(body), stamp)
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE tax_return SET version = ?, body = ?, updated_at = ? WHERE id = 1 AND version = ?`,
			next, string(body), stamp, current)
	}
	if err != nil {
		return 0, fmt.Errorf("write return: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	s.log.Debug("return saved", zap.Int64("version", next), zap.Int("bytes", len(body)))
	return next, nil
}

// decodeStrict rejects unknown fields and trailing content.
func decodeStrict(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("invalid JSON: trailing content")
	}
	return nil
}
