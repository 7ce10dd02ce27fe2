// Package migrations применяет SQL-миграции из каталога migrations/<backend>.
package migrations

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxv5 "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Run применяет миграции PostgreSQL из каталога path.
func Run(db *sql.DB, path string) error {
	const op = "migrations.Run"

	driver, err := pgxv5.WithInstance(db, &pgxv5.Config{})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := up(driver, "pgx_v5", path); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RunSQLite применяет миграции SQLite из каталога path.
func RunSQLite(db *sql.DB, path string) error {
	const op = "migrations.RunSQLite"

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := up(driver, "sqlite", path); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func up(driver database.Driver, name, path string) error {
	m, err := migrate.NewWithDatabaseInstance("file://"+path, name, driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
