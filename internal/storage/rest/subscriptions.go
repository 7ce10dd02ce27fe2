package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/magabrotheeeer/event-notifier/internal/models"
	"github.com/magabrotheeeer/event-notifier/internal/storage"
)

// FetchSubscriptions возвращает подписки на событие с именем eventName.
func (c *Client) FetchSubscriptions(ctx context.Context, eventName string) ([]models.Subscription, error) {
	const op = "storage.rest.FetchSubscriptions"

	q := url.Values{}
	q.Set("select", "*")
	q.Set(storage.ColSubEventName, "eq."+eventName)

	result, err := c.subscriptions(ctx, http.MethodGet, q, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FetchSubscriptionsForPrincipal возвращает подписки участника по ID или email.
func (c *Client) FetchSubscriptionsForPrincipal(ctx context.Context, principalID, email string) ([]models.Subscription, error) {
	const op = "storage.rest.FetchSubscriptionsForPrincipal"

	var cond []string
	if principalID != "" {
		cond = append(cond, storage.ColSubPrincipalID+".eq."+quote(principalID))
	}
	if email != "" {
		cond = append(cond, storage.ColSubEmail+".ilike."+quote(escapeLike(email)))
	}
	if len(cond) == 0 {
		return []models.Subscription{}, nil
	}

	q := url.Values{}
	q.Set("select", "*")
	q.Set("or", "("+strings.Join(cond, ",")+")")

	result, err := c.subscriptions(ctx, http.MethodGet, q, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// Subscribe создаёт подписку. Если email уже подписан, возвращает существующую запись без изменений.
func (c *Client) Subscribe(ctx context.Context, req models.SubscribeRequest) (models.Subscription, error) {
	const op = "storage.rest.Subscribe"

	q := byEventAndEmail(req.EventName, req.Email)
	q.Set("select", "*")
	q.Set("limit", "1")
	existing, err := c.subscriptions(ctx, http.MethodGet, q, nil)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}

	if len(existing) > 0 {
		return existing[0], nil
	}

	result, err := c.subscriptions(ctx, http.MethodPost, nil, []storage.Row{{
		storage.ColSubEventName:   req.EventName,
		storage.ColSubEmail:       req.Email,
		storage.ColSubPrincipalID: req.PrincipalID,
		storage.ColSubAutoRenewal: req.AutoRenewal,
		storage.ColCreatedAt:      time.Now().UTC(),
	}})
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(result) == 0 {
		return models.Subscription{}, fmt.Errorf("%s: %w: empty representation", op, models.ErrBackendUnavailable)
	}
	return result[0], nil
}

// Unsubscribe удаляет подписку email на событие и возвращает удалённые записи.
func (c *Client) Unsubscribe(ctx context.Context, eventName, email string) ([]models.Subscription, error) {
	const op = "storage.rest.Unsubscribe"

	result, err := c.subscriptions(ctx, http.MethodDelete, byEventAndEmail(eventName, email), nil)
	if err != nil {
		if isNotFound(err) {
			return []models.Subscription{}, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (c *Client) subscriptions(ctx context.Context, method string, q url.Values, body any) ([]models.Subscription, error) {
	rows, err := c.call(ctx, method, subscriptionsTable, q, body)
	if err != nil {
		return nil, err
	}
	result := make([]models.Subscription, 0, len(rows))
	for _, r := range rows {
		result = append(result, storage.NormalizeSubscription(r))
	}
	return result, nil
}

// byEventAndEmail фильтр по имени события и email без учёта регистра.
func byEventAndEmail(eventName, email string) url.Values {
	q := url.Values{}
	q.Set(storage.ColSubEventName, "eq."+eventName)
	q.Set(storage.ColSubEmail, "ilike."+escapeLike(email))
	return q
}

// escapeLike экранирует символы шаблона, чтобы ilike сравнивал строку целиком.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`, `*`, `\*`)
	return r.Replace(s)
}

// quote заключает значение в кавычки для логических фильтров or=(...).
func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}
