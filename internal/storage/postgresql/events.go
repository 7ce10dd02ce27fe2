package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/event-notifier/internal/models"
	"github.com/magabrotheeeer/event-notifier/internal/storage"
)

var eventColumns = strings.Join(storage.EventColumns, ", ")

// FetchEvents возвращает события по возрастанию даты начала.
func (s *Storage) FetchEvents(ctx context.Context, filter models.FetchFilter) ([]models.Event, error) {
	const op = "storage.postgresql.FetchEvents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(`SELECT ` + eventColumns + ` FROM events`)
	if filter.OnlyUpcoming && !filter.Today.IsZero() {
		args = append(args, filter.Today.String())
		query.WriteString(fmt.Sprintf(` WHERE (startdate IS NULL OR startdate >= $%d)`, len(args)))
	}
	args = append(args, filter.EffectiveLimit())
	query.WriteString(fmt.Sprintf(` ORDER BY startdate ASC NULLS LAST, created_at ASC LIMIT $%d`, len(args)))

	rows, err := s.DB.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	defer rows.Close()

	raw, err := storage.ScanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}

	result := make([]models.Event, 0, len(raw))
	for _, r := range raw {
		result = append(result, storage.NormalizeEvent(r))
	}
	return result, nil
}

// CreateEvent вставляет событие и возвращает запись в том виде, в каком её сохранила база.
func (s *Storage) CreateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	const op = "storage.postgresql.CreateEvent"

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	row := storage.DenormalizeNewEvent(event)
	keys := row.SortedKeys()

	placeholders := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = row[k]
	}

	query := `INSERT INTO events (` + strings.Join(keys, ", ") + `)
			  VALUES (` + strings.Join(placeholders, ", ") + `)
			  RETURNING ` + eventColumns

	created, err := s.queryEvent(ctx, query, args...)
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// UpdateEvent меняет только переданные поля. Отсутствующий ID: models.ErrNotFound.
func (s *Storage) UpdateEvent(ctx context.Context, id string, fields models.EventFields) (models.Event, error) {
	const op = "storage.postgresql.UpdateEvent"

	row := storage.DenormalizeEvent(fields)
	if len(row) == 0 {
		updated, err := s.queryEvent(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
		if err != nil {
			return models.Event{}, fmt.Errorf("%s: %w", op, err)
		}
		return updated, nil
	}

	keys := row.SortedKeys()
	sets := make([]string, len(keys))
	args := make([]any, 0, len(keys)+1)
	for i, k := range keys {
		sets[i] = fmt.Sprintf("%s = $%d", k, i+1)
		args = append(args, row[k])
	}
	args = append(args, id)

	query := `UPDATE events SET ` + strings.Join(sets, ", ") +
		fmt.Sprintf(` WHERE id = $%d RETURNING `, len(args)) + eventColumns

	updated, err := s.queryEvent(ctx, query, args...)
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// DeleteEvent удаляет событие. Для несуществующего ID возвращает false без ошибки.
func (s *Storage) DeleteEvent(ctx context.Context, id string) (bool, error) {
	const op = "storage.postgresql.DeleteEvent"

	result, err := s.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, classify(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, classify(err))
	}
	return rowsAffected > 0, nil
}

func (s *Storage) queryEvent(ctx context.Context, query string, args ...any) (models.Event, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return models.Event{}, classify(err)
	}
	defer rows.Close()

	raw, err := storage.ScanRows(rows)
	if err != nil {
		return models.Event{}, classify(err)
	}
	if len(raw) == 0 {
		return models.Event{}, models.ErrNotFound
	}
	return storage.NormalizeEvent(raw[0]), nil
}
