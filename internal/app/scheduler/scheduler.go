// Package scheduler собирает процесс планировщика уведомлений о продлении:
// хранилище, канал RabbitMQ и cron-задачу.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/event-notifier/internal/config"
	"github.com/magabrotheeeer/event-notifier/internal/lib/dateops"
	"github.com/magabrotheeeer/event-notifier/internal/lib/sl"
	"github.com/magabrotheeeer/event-notifier/internal/rabbitmq"
	schedulerservice "github.com/magabrotheeeer/event-notifier/internal/services/scheduler"
	"github.com/magabrotheeeer/event-notifier/internal/storage"
	"github.com/magabrotheeeer/event-notifier/internal/storage/backend"
)

const runTimeout = 4 * time.Minute

// Runner выполняет один проход планировщика.
type Runner interface {
	RunOnce(ctx context.Context) (int, error)
}

// App представляет приложение планировщика.
type App struct {
	runner   Runner
	store    storage.Store
	conn     *amqp.Connection
	ch       *amqp.Channel
	location *time.Location
	schedule string
	logger   *slog.Logger
}

// New создает новый экземпляр приложения планировщика.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if cfg.RabbitURL == "" {
		return nil, fmt.Errorf("rabbitmq.url is required for the scheduler")
	}

	conn, err := rabbitmq.Connect(cfg.RabbitURL, cfg.RabbitMaxRetries, cfg.RabbitRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.RenewalQueues())
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	clock := dateops.SystemClock{Location: loc}
	store, err := backend.Open(ctx, cfg.Store, logger, clock.Now())
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	service := schedulerservice.NewService(
		store,
		rabbitmq.NewPublisher(ch, cfg.Exchange),
		clock,
		logger,
		cfg.WindowDays,
	)

	return &App{
		runner:   service,
		store:    store,
		conn:     conn,
		ch:       ch,
		location: loc,
		schedule: cfg.Schedule,
		logger:   logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
}

// Run запускает cron-задачу и ждёт отмены ctx.
func (a *App) Run(ctx context.Context) error {
	c, err := a.newCron(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("scheduler started", slog.String("schedule", a.schedule), slog.String("timezone", a.location.String()))
	c.Start()

	<-ctx.Done()

	a.logger.Info("shutting down scheduler service")
	<-c.Stop().Done()

	closeResources(a.ch, a.conn, a.logger)
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close store", sl.Err(err))
	}
	return nil
}

func (a *App) newCron(ctx context.Context) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(a.location),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	_, err := c.AddFunc(a.schedule, func() {
		runCtx, cancel := context.WithTimeout(ctx, runTimeout)
		defer cancel()

		if _, err := a.runner.RunOnce(runCtx); err != nil {
			a.logger.Error("renewal scan failed", sl.Err(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid renewal schedule %q: %w", a.schedule, err)
	}
	return c, nil
}
