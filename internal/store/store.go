package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB

	subMu sync.Mutex
	subs  map[*Subscription]struct{}
	wake  chan struct{}
	done  chan struct{}

	closeOnce sync.Once
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{
		db:   db,
		subs: make(map[*Subscription]struct{}),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	go s.watchLoop()
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

// Close stops the subscription worker, closes every open subscription
// and releases the database. Safe to call more than once.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)

		s.subMu.Lock()
		for sub := range s.subs {
			delete(s.subs, sub)
			sub.shutdown()
		}
		s.subMu.Unlock()

		err = s.db.Close()
	})
	return err
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS counters (
		id                   INTEGER PRIMARY KEY AUTOINCREMENT,
		display_name         TEXT NOT NULL,
		style                TEXT NOT NULL DEFAULT 'DEFAULT',
		has_minus            INTEGER NOT NULL DEFAULT 0,
		increment_type       TEXT NOT NULL DEFAULT 'VALUE',
		increment_value_type TEXT NOT NULL DEFAULT 'VALUE',
		increment_value      INTEGER NOT NULL DEFAULT 1,
		reset_type           TEXT NOT NULL DEFAULT 'NEVER',
		created_at           TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS increments (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		counter_id  INTEGER NOT NULL REFERENCES counters(id) ON DELETE CASCADE,
		value       INTEGER NOT NULL,
		timestamp   TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_increments_counter   ON increments(counter_id);
	CREATE INDEX IF NOT EXISTS idx_increments_timestamp ON increments(timestamp);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('week_start', 'monday');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/countr/countr.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "countr", "countr.db"), nil
}
