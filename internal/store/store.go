package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"storyweave/internal/kv"

	_ "modernc.org/sqlite"
)

const sqliteFileName = "storyweave.sqlite"

// Store is a device-local data directory (default: ~/.storyweave/data).
type Store struct {
	Dir string
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store dir is empty")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

// SQLitePath is the database file shared by device state and the key-value store.
func (s Store) SQLitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

// DB is an open handle on the store's sqlite database.
type DB struct {
	path string
	sql  *sql.DB
}

// Open opens (creating if needed) the sqlite database and applies migrations.
func (s Store) Open(ctx context.Context) (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.SQLitePath())
	if err != nil {
		return nil, err
	}
	// WAL lets a CLI command write while the TUI holds the file open.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{path: s.SQLitePath(), sql: db}, nil
}

func (d *DB) Path() string { return d.path }

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// KV returns the key-value store backed by this database.
func (d *DB) KV(ctx context.Context) (*kv.SQLite, error) {
	return kv.NewSQLite(ctx, d.sql)
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS stories (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			genre TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_stories_position ON stories(position);`,
		`CREATE INDEX IF NOT EXISTS idx_stories_author ON stories(author);`,
		`CREATE TABLE IF NOT EXISTS saved (
			story_id TEXT PRIMARY KEY,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS progress (
			story_id TEXT PRIMARY KEY,
			chapter_index INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}
