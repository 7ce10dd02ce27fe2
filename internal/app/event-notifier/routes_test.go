package eventnotifier

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/event-notifier/internal/cache"
	"github.com/magabrotheeeer/event-notifier/internal/config"
	"github.com/magabrotheeeer/event-notifier/internal/lib/dateops"
	"github.com/magabrotheeeer/event-notifier/internal/storage/backend"
)

type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)

	cfg := &config.Config{
		Store: config.Store{
			Backend:        config.BackendSQLite,
			SQLitePath:     ":memory:",
			MigrationsPath: migrationsPath,
		},
		RedisConnection: config.RedisConnection{CacheTTL: time.Minute},
		HTTPServer:      config.HTTPServer{RateLimit: 1000, RateBurst: 1000},
		JWTToken:        config.JWTToken{JWTSecretKey: "test-secret", TokenTTL: time.Hour},
		Renewal:         config.Renewal{WindowDays: 7, DisplayLimit: 4},
		Browse:          config.Browse{PageSize: 6, LoadMoreSize: 5},
		Auth:            config.Auth{EmailDomain: "Bosch.in"},
	}
	clock := dateops.FixedClock{At: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := backend.Open(context.Background(), cfg.Store, logger, clock.Now())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	router := chi.NewRouter()
	RegisterRoutes(router, logger, NewServices(cfg, store, cache.Noop{}, clock, logger))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, token, body string) (int, envelope) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestRoutes_TownFair(t *testing.T) {
	srv := newTestServer(t)

	code, env := call(t, srv, http.MethodPost, "/api/v1/login", "", `{"ntid":"alice"}`)
	require.Equal(t, http.StatusOK, code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)

	code, _ = call(t, srv, http.MethodGet, "/api/v1/events/mine", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = call(t, srv, http.MethodPost, "/api/v1/events", login.Token, `{
		"name": "Town Fair",
		"description": "Annual fair",
		"location": "Main square",
		"start_date": "2025-06-01",
		"end_date": "2025-06-03",
		"contact_email": "fair@town.org",
		"tags": ["community"]
	}`)
	require.Equal(t, http.StatusCreated, code, env.Error)
	var created struct {
		ID        string `json:"id"`
		Published bool   `json:"published"`
		Status    string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.True(t, created.Published)
	assert.Equal(t, "upcoming", created.Status)

	code, env = call(t, srv, http.MethodGet, "/api/v1/events?category=community", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"name":"Town Fair"`)
	assert.Contains(t, string(env.Data), `"total":1`)

	code, _ = call(t, srv, http.MethodGet, "/api/v1/events?from=06/01/2025", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, env = call(t, srv, http.MethodPost, "/api/v1/subscriptions", "", `{"event_name":"Town Fair","email":"bob@x.com"}`)
	require.Equal(t, http.StatusOK, code, env.Error)
	code, env = call(t, srv, http.MethodPost, "/api/v1/subscriptions", "", `{"event_name":"Town Fair","email":"BOB@x.com"}`)
	require.Equal(t, http.StatusOK, code, env.Error)

	code, env = call(t, srv, http.MethodPost, "/api/v1/events/"+created.ID+"/subscription", login.Token, "")
	require.Equal(t, http.StatusOK, code, env.Error)
	assert.Contains(t, string(env.Data), `"subscribed":true`)

	code, env = call(t, srv, http.MethodDelete, "/api/v1/subscriptions", "", `{"event_name":"Town Fair","email":"bob@X.com"}`)
	require.Equal(t, http.StatusOK, code, env.Error)
	assert.JSONEq(t, `{"removed":1}`, string(env.Data))

	code, _ = call(t, srv, http.MethodGet, "/api/v1/dashboard", login.Token, "")
	assert.Equal(t, http.StatusOK, code)

	code, env = call(t, srv, http.MethodPost, "/api/v1/login", "", `{"ntid":"mallory"}`)
	require.Equal(t, http.StatusOK, code)
	var other struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &other))

	code, _ = call(t, srv, http.MethodDelete, "/api/v1/events/"+created.ID, other.Token, "")
	assert.Equal(t, http.StatusForbidden, code)

	code, env = call(t, srv, http.MethodDelete, "/api/v1/events/"+created.ID, login.Token, "")
	require.Equal(t, http.StatusOK, code, env.Error)

	code, env = call(t, srv, http.MethodGet, "/api/v1/subscriptions/mine", login.Token, "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"event_name":"(deleted)"`)

	code, env = call(t, srv, http.MethodGet, "/api/v1/health", "", "")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
}
