// Package sqlite реализует storage.Store во встроенной базе SQLite (modernc.org/sqlite, без cgo).
//
// События хранятся документами JSON в "локальной" форме (camelCase, метки списком),
// подписки лежат в отдельной таблице с регистронезависимым email.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/magabrotheeeer/event-notifier/internal/models"
	"github.com/magabrotheeeer/event-notifier/internal/storage"
)

// MemoryPath открывает базу в памяти процесса.
const MemoryPath = ":memory:"

// Storage инкапсулирует соединение с SQLite.
type Storage struct {
	DB *sql.DB
}

// New открывает файл базы (или память при MemoryPath).
func New(ctx context.Context, path string) (*Storage, error) {
	const op = "storage.sqlite.New"

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// Каждое соединение к ":memory:" получает свою пустую базу.
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrBackendUnavailable, err)
	}
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{DB: db}, nil
}

// Close закрывает базу.
func (s *Storage) Close() error {
	return s.DB.Close()
}

func classify(err error) error {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("%w: %w", models.ErrValidationRejected, err)
	}
	return fmt.Errorf("%w: %w", models.ErrBackendUnavailable, err)
}

var _ storage.Store = (*Storage)(nil)
