// Package backend выбирает реализацию storage.Store по конфигурации,
// применяет миграции и начальные данные.
package backend

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/magabrotheeeer/event-notifier/internal/config"
	"github.com/magabrotheeeer/event-notifier/internal/migrations"
	"github.com/magabrotheeeer/event-notifier/internal/storage"
	"github.com/magabrotheeeer/event-notifier/internal/storage/postgresql"
	"github.com/magabrotheeeer/event-notifier/internal/storage/rest"
	"github.com/magabrotheeeer/event-notifier/internal/storage/seed"
	"github.com/magabrotheeeer/event-notifier/internal/storage/sqlite"
)

const readyRetries = 10

// Open создаёт хранилище cfg.Backend. Для SQL-хранилищ применяются миграции
// из <migrations_path>/<backend>, затем, если задан seed_path, начальные данные.
func Open(ctx context.Context, cfg config.Store, log *slog.Logger, now time.Time) (storage.Store, error) {
	const op = "storage.backend.Open"

	store, err := open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("store opened", slog.String("backend", cfg.Backend))

	if cfg.SeedPath == "" {
		return store, nil
	}
	data, err := seed.Load(cfg.SeedPath)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := seed.Apply(ctx, log, store, data, now); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return store, nil
}

func open(ctx context.Context, cfg config.Store) (storage.Store, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		s, err := postgresql.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := migrations.Run(s.DB, filepath.Join(cfg.MigrationsPath, "postgres")); err != nil {
			_ = s.Close()
			return nil, err
		}
		if err := waitForDB(ctx, s); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	case config.BackendSQLite:
		s, err := sqlite.New(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := migrations.RunSQLite(s.DB, filepath.Join(cfg.MigrationsPath, "sqlite")); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	case config.BackendREST:
		return rest.New(rest.Config{
			BaseURL: cfg.RESTURL,
			APIKey:  cfg.RESTAPIKey,
			Timeout: cfg.RESTTimeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func waitForDB(ctx context.Context, s *postgresql.Storage) error {
	var err error
	for range readyRetries {
		if err = postgresql.CheckDatabaseReady(ctx, s); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("database not ready after retries: %w", err)
}
