// Package migrator runs the embedded schema migrations with golang-migrate.
package migrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/doodlesbykumbi/orchestra-installer/db"
)

// MigrationsTable keeps golang-migrate's bookkeeping apart from application tables
const MigrationsTable = "orchestra_schema_migrations"

var ErrNoDatabaseURL = errors.New("DATABASE_URL environment variable is required")

// Runner is the subset of *migrate.Migrate the migrator drives
type Runner interface {
	Up() error
	Steps(n int) error
	Version() (uint, bool, error)
	Close() (error, error)
}

// Opener creates a Runner for a single operation
type Opener func() (Runner, error)

// Status describes the current schema version
type Status struct {
	Version uint
	Dirty   bool
	Applied bool
}

type Migrator struct {
	open Opener
}

// New returns a Migrator over the embedded migrations for dbURL
func New(dbURL string) *Migrator {
	return &Migrator{open: func() (Runner, error) {
		if dbURL == "" {
			return nil, ErrNoDatabaseURL
		}
		return createMigrateInstance(WithMigrationsTable(dbURL))
	}}
}

// NewWithOpener returns a Migrator that obtains its Runner from open
func NewWithOpener(open Opener) *Migrator {
	return &Migrator{open: open}
}

// WithMigrationsTable points golang-migrate at MigrationsTable
func WithMigrationsTable(dbURL string) string {
	if strings.Contains(dbURL, "?") {
		return dbURL + "&x-migrations-table=" + MigrationsTable
	}
	return dbURL + "?x-migrations-table=" + MigrationsTable
}

func createMigrateInstance(dbURL string) (*migrate.Migrate, error) {
	migrationsFS, err := fs.Sub(db.Migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to get embedded migrations: %w", err)
	}

	d, err := iofs.New(migrationsFS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create iofs driver: %w", err)
	}

	return migrate.NewWithSourceInstance("iofs", d, dbURL)
}

// Foundation applies every pending migration. A schema that is already up
// to date is not an error.
func (m *Migrator) Foundation(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r, err := m.open()
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = r.Close() }()

	if err := r.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Down rolls back the given number of migrations
func (m *Migrator) Down(ctx context.Context, steps int) error {
	if steps < 1 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r, err := m.open()
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = r.Close() }()

	if err := r.Steps(-steps); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}
	return nil
}

// Status reports the applied schema version
func (m *Migrator) Status(ctx context.Context) (Status, error) {
	if err := ctx.Err(); err != nil {
		return Status{}, err
	}

	r, err := m.open()
	if err != nil {
		return Status{}, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = r.Close() }()

	version, dirty, err := r.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return Status{}, nil
		}
		return Status{}, err
	}
	return Status{Version: version, Dirty: dirty, Applied: true}, nil
}

// Files lists the embedded up migrations in version order
func Files() ([]string, error) {
	migrationsFS, err := fs.Sub(db.Migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to get embedded migrations: %w", err)
	}

	entries, err := fs.ReadDir(migrationsFS, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}
