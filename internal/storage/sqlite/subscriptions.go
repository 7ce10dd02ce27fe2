package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/event-notifier/internal/models"
	"github.com/magabrotheeeer/event-notifier/internal/storage"
)

const subscriptionColumns = `id, eventRef, subscriberEmail, subscriberPrincipalId, autoRenewal, createdAt`

// FetchSubscriptions возвращает подписки на событие.
func (s *Storage) FetchSubscriptions(ctx context.Context, eventName string) ([]models.Subscription, error) {
	const op = "storage.sqlite.FetchSubscriptions"

	result, err := s.querySubscriptions(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE eventRef = ? ORDER BY createdAt`,
		eventName)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FetchSubscriptionsForPrincipal возвращает подписки участника по ID или email.
func (s *Storage) FetchSubscriptionsForPrincipal(ctx context.Context, principalID, email string) ([]models.Subscription, error) {
	const op = "storage.sqlite.FetchSubscriptionsForPrincipal"

	result, err := s.querySubscriptions(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions
		 WHERE (?1 <> '' AND subscriberPrincipalId = ?1)
		    OR (?2 <> '' AND subscriberEmailKey = ?2)
		 ORDER BY createdAt DESC`,
		principalID, models.EmailKey(email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// Subscribe создаёт подписку. Если email уже подписан на событие, возвращает
// существующую запись без изменений.
func (s *Storage) Subscribe(ctx context.Context, req models.SubscribeRequest) (models.Subscription, error) {
	const op = "storage.sqlite.Subscribe"

	result, err := s.querySubscriptions(ctx,
		`INSERT INTO subscriptions (`+subscriptionColumns+`, subscriberEmailKey)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (eventRef, subscriberEmailKey) DO UPDATE SET eventRef = subscriptions.eventRef
		 RETURNING `+subscriptionColumns,
		uuid.NewString(), req.EventName, req.Email, req.PrincipalID, req.AutoRenewal,
		time.Now().UTC().Format(time.RFC3339Nano), models.EmailKey(req.Email))
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
	const op = "storage.sqlite.Unsubscribe"

	result, err := s.querySubscriptions(ctx,
		`DELETE FROM subscriptions WHERE eventRef = ? AND subscriberEmailKey = ? RETURNING `+subscriptionColumns,
		eventName, models.EmailKey(email))
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
