package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/event-notifier/internal/models"
	"github.com/magabrotheeeer/event-notifier/internal/storage"
)

var subscriptionColumns = strings.Join(storage.SubscriptionColumns, ", ")

// FetchSubscriptions возвращает подписки на событие с именем eventName.
func (s *Storage) FetchSubscriptions(ctx context.Context, eventName string) ([]models.Subscription, error) {
	const op = "storage.postgresql.FetchSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE event_name = $1
			  ORDER BY created_at`
	result, err := s.querySubscriptions(ctx, query, eventName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FetchSubscriptionsForPrincipal возвращает подписки участника по ID или email без учёта регистра.
func (s *Storage) FetchSubscriptionsForPrincipal(ctx context.Context, principalID, email string) ([]models.Subscription, error) {
	const op = "storage.postgresql.FetchSubscriptionsForPrincipal"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE ($1 <> '' AND subscriber_ntid = $1)
			     OR ($2 <> '' AND lower(subscriber_email) = lower($2))
			  ORDER BY created_at DESC`
	result, err := s.querySubscriptions(ctx, query, principalID, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// Subscribe создаёт подписку. Повторная подписка того же email возвращает
// существующую запись без изменений.
func (s *Storage) Subscribe(ctx context.Context, req models.SubscribeRequest) (models.Subscription, error) {
	const op = "storage.postgresql.Subscribe"

	query := `INSERT INTO subscriptions (` + subscriptionColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (event_name, (lower(subscriber_email)))
			  DO UPDATE SET event_name = subscriptions.event_name
			  RETURNING ` + subscriptionColumns
	result, err := s.querySubscriptions(ctx, query,
		uuid.NewString(), req.EventName, req.Email, req.PrincipalID, req.AutoRenewal, time.Now().UTC())
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(result) == 0 {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, models.ErrBackendUnavailable)
	}
	return result[0], nil
}

// Unsubscribe удаляет подписку email на событие и возвращает удалённые записи.
func (s *Storage) Unsubscribe(ctx context.Context, eventName, email string) ([]models.Subscription, error) {
	const op = "storage.postgresql.Unsubscribe"

	query := `DELETE FROM subscriptions
			  WHERE event_name = $1 AND lower(subscriber_email) = lower($2)
			  RETURNING ` + subscriptionColumns
	result, err := s.querySubscriptions(ctx, query, eventName, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (s *Storage) querySubscriptions(ctx context.Context, query string, args ...any) ([]models.Subscription, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	raw, err := storage.ScanRows(rows)
	if err != nil {
		return nil, classify(err)
	}
	result := make([]models.Subscription, 0, len(raw))
	for _, r := range raw {
		result = append(result, storage.NormalizeSubscription(r))
	}
	return result, nil
}
