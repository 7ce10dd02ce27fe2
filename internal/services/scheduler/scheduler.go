// Package scheduler находит события, которым пора продлеваться,
// и публикует уведомление для каждого их подписчика.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/event-notifier/internal/lib/dateops"
	"github.com/magabrotheeeer/event-notifier/internal/lib/sl"
	"github.com/magabrotheeeer/event-notifier/internal/metrics"
	"github.com/magabrotheeeer/event-notifier/internal/models"
	"github.com/magabrotheeeer/event-notifier/internal/rabbitmq"
	"github.com/magabrotheeeer/event-notifier/internal/services/subscriptions"
)

// Store определяет чтения, нужные планировщику.
type Store interface {
	FetchEvents(ctx context.Context, filter models.FetchFilter) ([]models.Event, error)
	FetchSubscriptions(ctx context.Context, eventName string) ([]models.Subscription, error)
}

// Publisher публикует сообщение с ключом маршрутизации.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// RenewalNotice уведомление подписчику о скором окончании события.
type RenewalNotice struct {
	EventID         string       `json:"event_id"`
	EventName       string       `json:"event_name"`
	EndDate         dateops.Date `json:"end_date"`
	DaysLeft        int          `json:"days_left"`
	SubscriberEmail string       `json:"subscriber_email"`
	AutoRenewal     bool         `json:"auto_renewal"`
}

// Service планировщик уведомлений о продлении.
type Service struct {
	store      Store
	publisher  Publisher
	clock      dateops.Clock
	log        *slog.Logger
	windowDays int
}

// NewService создает новый экземпляр Service.
func NewService(store Store, publisher Publisher, clock dateops.Clock, log *slog.Logger, windowDays int) *Service {
	return &Service{
		store:      store,
		publisher:  publisher,
		clock:      clock,
		log:        log,
		windowDays: windowDays,
	}
}

// RunOnce публикует уведомления на сегодняшнюю дату и возвращает число отправленных.
// Ошибка публикации отдельного уведомления логируется и не прерывает прогон.
func (s *Service) RunOnce(ctx context.Context) (int, error) {
	const op = "services.scheduler.RunOnce"

	s.log.Info("starting renewal scan", slog.Int("window_days", s.windowDays))

	all, err := s.store.FetchEvents(ctx, models.FetchFilter{})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	today := dateops.Today(s.clock)
	due := subscriptions.RenewalsDue(all, s.windowDays, today)
	if len(due) == 0 {
		s.log.Info("no events due for renewal")
		return 0, nil
	}
	s.log.Info("found events due for renewal", slog.Int("count", len(due)))

	sent := 0
	for _, e := range due {
		subs, err := s.store.FetchSubscriptions(ctx, e.Name)
		if err != nil {
			s.log.Error("failed to fetch subscriptions", slog.String("event", e.Name), sl.Err(err))
			continue
		}
		for _, sub := range subs {
			if sub.EventRef != e.Name || sub.SubscriberEmail == "" {
				continue
			}
			notice := RenewalNotice{
				EventID:         e.ID,
				EventName:       e.Name,
				EndDate:         e.EndDate,
				DaysLeft:        dateops.DaysUntil(e.EndDate, today),
				SubscriberEmail: sub.SubscriberEmail,
				AutoRenewal:     sub.AutoRenewal,
			}
			if err := s.publisher.Publish(ctx, rabbitmq.RoutingKeyRenewal, notice); err != nil {
				metrics.RenewalNotices.WithLabelValues("failed").Inc()
				s.log.Error("failed to publish renewal notice",
					slog.String("event", e.Name), slog.String("subscription_id", sub.ID), sl.Err(err))
				continue
			}
			metrics.RenewalNotices.WithLabelValues("published").Inc()
			sent++
		}
	}

	s.log.Info("renewal scan finished", slog.Int("sent", sent))
	return sent, nil
}
