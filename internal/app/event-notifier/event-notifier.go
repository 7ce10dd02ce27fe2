package eventnotifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/event-notifier/internal/cache"
	"github.com/magabrotheeeer/event-notifier/internal/config"
	"github.com/magabrotheeeer/event-notifier/internal/lib/dateops"
	"github.com/magabrotheeeer/event-notifier/internal/lib/jwt"
	"github.com/magabrotheeeer/event-notifier/internal/lib/sl"
	authservice "github.com/magabrotheeeer/event-notifier/internal/services/auth"
	browseservice "github.com/magabrotheeeer/event-notifier/internal/services/browse"
	dashboardservice "github.com/magabrotheeeer/event-notifier/internal/services/dashboard"
	eventservice "github.com/magabrotheeeer/event-notifier/internal/services/events"
	subservice "github.com/magabrotheeeer/event-notifier/internal/services/subscriptions"
	"github.com/magabrotheeeer/event-notifier/internal/storage"
	"github.com/magabrotheeeer/event-notifier/internal/storage/backend"
)

const shutdownTimeout = 15 * time.Second

type eventCache interface {
	eventservice.Cache
	io.Closer
}

// App представляет HTTP-приложение доски событий.
type App struct {
	server *http.Server
	logger *slog.Logger
	store  storage.Store
	cache  eventCache
}

// New открывает хранилище и кэш, собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("jwttoken.jwt_secret_key is required")
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	clock := dateops.SystemClock{Location: loc}

	store, err := backend.Open(ctx, cfg.Store, logger, clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	eventsCache, err := newCache(ctx, cfg.RedisConnection, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, NewServices(cfg, store, eventsCache, clock, logger))

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		store:  store,
		cache:  eventsCache,
	}, nil
}

// NewServices собирает сервисы поверх хранилища и кэша.
func NewServices(cfg *config.Config, store storage.Store, c eventservice.Cache, clock dateops.Clock, logger *slog.Logger) Services {
	events := eventservice.NewService(store, c, clock, logger, cfg.CacheTTL)
	subs := subservice.NewService(store, clock, logger)

	return Services{
		Auth:          authservice.NewService(jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL), cfg.EmailDomain),
		Events:        events,
		Subscriptions: subs,
		Dashboard:     dashboardservice.NewService(events, subs, clock, cfg.WindowDays, cfg.DisplayLimit),
		Clock:         clock,
		Sizes:         browseservice.Sizes{PageSize: cfg.PageSize, LoadMoreSize: cfg.LoadMoreSize},
		RateLimit:     rate.Limit(cfg.RateLimit),
		RateBurst:     cfg.RateBurst,
	}
}

func newCache(ctx context.Context, cfg config.RedisConnection, logger *slog.Logger) (eventCache, error) {
	if cfg.AddressRedis == "" {
		logger.Info("redis address is empty, events cache disabled")
		return cache.Noop{}, nil
	}
	c, err := cache.InitServer(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}
	return c, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}

	if cerr := a.cache.Close(); cerr != nil {
		a.logger.Error("failed to close cache", sl.Err(cerr))
	}
	if cerr := a.store.Close(); cerr != nil {
		a.logger.Error("failed to close store", sl.Err(cerr))
	}
	return err
}
