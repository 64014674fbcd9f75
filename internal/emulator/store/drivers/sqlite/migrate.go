package sqlite

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/aussiebroadwan/idtoolkit/internal/emulator/store/drivers/sqlite/migrations"
)

// ApplyMigrations brings the schema up to date from the embedded SQL files.
// An in-memory database starts empty and is migrated on every boot.
func (s *Store) ApplyMigrations() error {
	src, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return fmt.Errorf("sqlite: open migrations: %w", err)
	}

	target, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("sqlite: migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", target)
	if err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}

	switch err := m.Up(); {
	case err == nil, errors.Is(err, migrate.ErrNoChange):
		return nil
	default:
		return fmt.Errorf("sqlite: migrate up: %w", err)
	}
}
