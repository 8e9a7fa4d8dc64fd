package postgres

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// MigrationStatus reports the schema version after a migration run.
type MigrationStatus struct {
	Version uint
	Dirty   bool
	Applied bool
}

// RunMigrations applies all pending migrations found at dir inside fsys,
// typically an embed.FS compiled into the binary. Nothing pending is not an
// error.
func RunMigrations(dsn string, fsys fs.FS, dir string) (MigrationStatus, error) {
	m, err := newMigrator(dsn, fsys, dir)
	if err != nil {
		return MigrationStatus{}, err
	}
	defer m.Close()

	applied := true
	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return MigrationStatus{}, fmt.Errorf("postgres: run migrations up: %w", err)
		}
		applied = false
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return MigrationStatus{}, fmt.Errorf("postgres: read migration version: %w", err)
	}
	return MigrationStatus{Version: version, Dirty: dirty, Applied: applied}, nil
}

// RunMigrationsDown rolls back all database migrations.
// If there are no migrations to roll back the function returns nil.
func RunMigrationsDown(dsn string, fsys fs.FS, dir string) error {
	m, err := newMigrator(dsn, fsys, dir)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("postgres: run migrations down: %w", err)
	}
	return nil
}

func newMigrator(dsn string, fsys fs.FS, dir string) (*migrate.Migrate, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("postgres: open migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: create migrator: %w", err)
	}
	return m, nil
}
