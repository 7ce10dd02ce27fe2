package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/magabrotheeeer/event-notifier/internal/models"
	"github.com/magabrotheeeer/event-notifier/internal/storage"
)

// FetchEvents возвращает события по возрастанию даты начала.
func (c *Client) FetchEvents(ctx context.Context, filter models.FetchFilter) ([]models.Event, error) {
	const op = "storage.rest.FetchEvents"

	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", storage.ColStartDate+".asc")
	q.Set("limit", strconv.Itoa(filter.EffectiveLimit()))
	if filter.OnlyUpcoming && !filter.Today.IsZero() {
		q.Set("or", "("+storage.ColStartDate+".is.null,"+storage.ColStartDate+".gte."+filter.Today.String()+")")
	}

	rows, err := c.call(ctx, http.MethodGet, eventsTable, q, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]models.Event, 0, len(rows))
	for _, r := range rows {
		result = append(result, storage.NormalizeEvent(r))
	}
	return result, nil
}

// CreateEvent вставляет событие; ID назначает удалённая сторона, если он не задан.
func (c *Client) CreateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	const op = "storage.rest.CreateEvent"

	rows, err := c.call(ctx, http.MethodPost, eventsTable, nil, []storage.Row{storage.DenormalizeNewEvent(event)})
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(rows) == 0 {
		return models.Event{}, fmt.Errorf("%s: %w: empty representation", op, models.ErrBackendUnavailable)
	}
	return storage.NormalizeEvent(rows[0]), nil
}

// UpdateEvent отправляет только переданные поля. Пустой ответ означает отсутствие ID.
func (c *Client) UpdateEvent(ctx context.Context, id string, fields models.EventFields) (models.Event, error) {
	const op = "storage.rest.UpdateEvent"

	q := url.Values{}
	q.Set(storage.ColID, "eq."+id)

	var (
		rows []storage.Row
		err  error
	)
	if row := storage.DenormalizeEvent(fields); len(row) > 0 {
		rows, err = c.call(ctx, http.MethodPatch, eventsTable, q, row)
	} else {
		q.Set("select", "*")
		rows, err = c.call(ctx, http.MethodGet, eventsTable, q, nil)
	}
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(rows) == 0 {
		return models.Event{}, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return storage.NormalizeEvent(rows[0]), nil
}

// DeleteEvent удаляет событие. Для несуществующего ID возвращает false без ошибки.
func (c *Client) DeleteEvent(ctx context.Context, id string) (bool, error) {
	const op = "storage.rest.DeleteEvent"

	q := url.Values{}
	q.Set(storage.ColID, "eq."+id)

	rows, err := c.call(ctx, http.MethodDelete, eventsTable, q, nil)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return len(rows) > 0, nil
}
