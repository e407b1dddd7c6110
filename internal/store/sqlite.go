package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/planworks/internal/schedule"
)

// schema contains the DDL executed on first open. Using IF NOT EXISTS makes
// it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS projects (
    name           TEXT PRIMARY KEY,
    data           TEXT NOT NULL,
    activities     INTEGER NOT NULL DEFAULT 0,
    relationships  INTEGER NOT NULL DEFAULT 0,
    saved_at       INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_projects_saved_at ON projects(saved_at);
`

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store using a local SQLite database in WAL mode.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath, creating
// its directory if needed, enables WAL mode and busy timeout, and creates
// the schema if it does not exist.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// SQLite only supports a single writer; one connection avoids
	// SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Save upserts the project under its trimmed name.
func (s *SQLiteStore) Save(ctx context.Context, p *schedule.Project) error {
	name := strings.TrimSpace(p.ProjectName)
	if name == "" {
		return ErrEmptyName
	}

	saved := *p
	saved.ProjectName = name
	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("store: encode project %q: %w", name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx for %q: %w", name, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	const q = `
		INSERT INTO projects (name, data, activities, relationships, saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			data          = excluded.data,
			activities    = excluded.activities,
			relationships = excluded.relationships,
			saved_at      = excluded.saved_at`
	if _, err := tx.ExecContext(ctx, q, name, string(data),
		len(p.Activities), len(p.Relationships), s.now().UnixNano()); err != nil {
		return fmt.Errorf("store: save project %q: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit project %q: %w", name, err)
	}
	return nil
}

// Load returns the project saved under name, or ErrProjectNotFound.
func (s *SQLiteStore) Load(ctx context.Context, name string) (*schedule.Project, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM projects WHERE name = ?", strings.TrimSpace(name)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load project %q: %w", name, err)
	}

	var p schedule.Project
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("store: decode project %q: %w", name, err)
	}
	return &p, nil
}

// Delete removes the project saved under name, or returns ErrProjectNotFound.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE name = ?", strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("store: delete project %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete project %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, name)
	}
	return nil
}

// List returns every saved project, most recently saved first, ties by name.
func (s *SQLiteStore) List(ctx context.Context) ([]ProjectMeta, error) {
	const q = `
		SELECT name, activities, relationships, saved_at
		FROM projects
		ORDER BY saved_at DESC, name ASC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("store: list projects: %w", err)
	}
	defer rows.Close()

	var out []ProjectMeta
	for rows.Next() {
		var (
			m     ProjectMeta
			saved int64
		)
		if err := rows.Scan(&m.Name, &m.Activities, &m.Relationships, &saved); err != nil {
			return nil, fmt.Errorf("store: scan project: %w", err)
		}
		m.SavedAt = time.Unix(0, saved)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate projects: %w", err)
	}
	return out, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
