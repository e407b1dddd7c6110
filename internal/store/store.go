// Package store keeps named projects on disk. Each project is saved whole,
// activities and relationships included, under a unique name; saving an
// existing name replaces it and refreshes its saved-at time. The store uses
// SQLite in WAL mode so a watcher and an interactive command can share it.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/papapumpkin/planworks/internal/schedule"
)

// ErrProjectNotFound is returned when no project has the requested name.
var ErrProjectNotFound = errors.New("project not found")

// ErrEmptyName is returned when saving a project without a name.
var ErrEmptyName = errors.New("project name is empty")

// ProjectMeta describes a saved project without loading it.
type ProjectMeta struct {
	Name          string    `json:"name"`
	SavedAt       time.Time `json:"savedAt"`
	Activities    int       `json:"activities"`
	Relationships int       `json:"relationships"`
}

// Store is the named-project store.
type Store interface {
	// Save inserts or replaces the project under p.ProjectName.
	Save(ctx context.Context, p *schedule.Project) error
	// Load returns the project saved under name.
	Load(ctx context.Context, name string) (*schedule.Project, error)
	// Delete removes the project saved under name.
	Delete(ctx context.Context, name string) error
	// List returns every saved project, most recently saved first.
	List(ctx context.Context) ([]ProjectMeta, error)
	// Close releases the underlying database.
	Close() error
}
