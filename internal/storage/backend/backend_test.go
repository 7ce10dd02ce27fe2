package backend

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/event-notifier/internal/config"
	"github.com/magabrotheeeer/event-notifier/internal/models"
	"github.com/magabrotheeeer/event-notifier/internal/storage/rest"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const seedYAML = `
events:
  - event_name: Town Fair
    user_id: u_alice
    description: Annual fair
    location: Main square
    startdate: "2025-06-01"
    enddate: "2025-06-03"
    contact_email: fair@town.org
    tags: community,outdoor
    published: true
subscriptions:
  - event_name: Town Fair
    subscriber_email: bob@x.com
`

func TestOpen_SQLiteWithSeed(t *testing.T) {
	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)

	seedPath := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(seedYAML), 0o600))

	ctx := context.Background()
	store, err := Open(ctx, config.Store{
		Backend:        config.BackendSQLite,
		SQLitePath:     ":memory:",
		MigrationsPath: migrationsPath,
		SeedPath:       seedPath,
	}, newNoopLogger(), time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	events, err := store.FetchEvents(ctx, models.FetchFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Town Fair", events[0].Name)
	assert.Equal(t, []string{"community", "outdoor"}, events[0].Tags)

	subs, err := store.FetchSubscriptions(ctx, "Town Fair")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "bob@x.com", subs[0].SubscriberEmail)
}

func TestOpen_REST(t *testing.T) {
	store, err := Open(context.Background(), config.Store{
		Backend: config.BackendREST,
		RESTURL: "http://127.0.0.1:1",
	}, newNoopLogger(), time.Now())
	require.NoError(t, err)
	assert.IsType(t, &rest.Client{}, store)
	assert.NoError(t, store.Close())
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Store
	}{
		{name: "unknown backend", cfg: config.Store{Backend: "mongo"}},
		{name: "missing migrations", cfg: config.Store{Backend: config.BackendSQLite, SQLitePath: ":memory:", MigrationsPath: "/nonexistent"}},
		{name: "missing seed file", cfg: config.Store{Backend: config.BackendREST, RESTURL: "http://127.0.0.1:1", SeedPath: "/nonexistent/seed.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(context.Background(), tt.cfg, newNoopLogger(), time.Now())
			require.Error(t, err)
			assert.Contains(t, err.Error(), "storage.backend.Open")
		})
	}
}
