// Package sqlite keeps town snapshots in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/uuid/v5"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jmdejong/cadastrs/internal/background"
	"github.com/jmdejong/cadastrs/internal/cadastre"
	"github.com/jmdejong/cadastrs/internal/errs"
	"github.com/jmdejong/cadastrs/internal/model"
)

// Store implements TownRepository on a single SQLite file.
type Store struct {
	db *sql.DB
}

// Open creates the database file and schema if needed.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS town_snapshots (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			digest TEXT NOT NULL,
			places INTEGER NOT NULL,
			body BLOB NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS town_snapshots_created_at ON town_snapshots(created_at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Load returns the snapshot with the latest created_at.
func (s *Store) Load(ctx context.Context) (*cadastre.Cadastre, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM town_snapshots ORDER BY created_at DESC, rowid DESC LIMIT 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var c cadastre.Cadastre
	if err := json.Unmarshal(body, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidSnapshot, err)
	}
	return &c, nil
}

// Save appends c. created_at is stored as unix milliseconds.
func (s *Store) Save(ctx context.Context, c *cadastre.Cadastre, meta model.SnapshotMeta) error {
	body, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO town_snapshots(id, seed, digest, places, body, created_at) VALUES(?,?,?,?,?,?)`,
		meta.ID.String(), int64(meta.Seed), meta.Digest, meta.Places, body, meta.CreatedAt.UnixMilli())
	if isUniqueViolation(err) {
		return fmt.Errorf("snapshot %s: %w", meta.ID, errs.ErrSnapshotExists)
	}
	return err
}

// isUniqueViolation reports whether err is a primary key or unique constraint failure.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}

// History lists snapshot metadata, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]model.SnapshotMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, seed, digest, places, created_at FROM town_snapshots ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SnapshotMeta
	for rows.Next() {
		var (
			id      string
			seed    int64
			created int64
			m       model.SnapshotMeta
		)
		if err := rows.Scan(&id, &seed, &m.Digest, &m.Places, &created); err != nil {
			return nil, err
		}
		if m.ID, err = uuid.FromString(id); err != nil {
			return nil, fmt.Errorf("%w: id %q", errs.ErrInvalidSnapshot, id)
		}
		m.Seed = background.Background(seed)
		m.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}
