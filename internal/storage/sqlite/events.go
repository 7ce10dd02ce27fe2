package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/event-notifier/internal/models"
	"github.com/magabrotheeeer/event-notifier/internal/storage"
)

// document форма события внутри колонки doc.
type document struct {
	ID              string   `json:"_id"`
	OwnerID         string   `json:"ownerId"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Location        string   `json:"location"`
	StartDate       string   `json:"startDate,omitempty"`
	EndDate         string   `json:"endDate,omitempty"`
	Tags            []string `json:"tags"`
	ContactEmail    string   `json:"contactEmail"`
	RenewalEnabled  bool     `json:"renewalEnabled"`
	Published       bool     `json:"published"`
	Draft           bool     `json:"draft"`
	CreatedAt       string   `json:"createdAt"`
	LastPublishedAt string   `json:"lastPublishedAt,omitempty"`
}

func toDocument(e models.Event) document {
	d := document{
		ID:             e.ID,
		OwnerID:        e.OwnerID,
		Name:           e.Name,
		Description:    e.Description,
		Location:       e.Location,
		StartDate:      e.StartDate.String(),
		EndDate:        e.EndDate.String(),
		Tags:           e.Tags,
		ContactEmail:   e.ContactEmail,
		RenewalEnabled: e.RenewalEnabled,
		Published:      e.Published,
		Draft:          e.Draft,
		CreatedAt:      e.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	if e.LastPublishedAt != nil {
		d.LastPublishedAt = e.LastPublishedAt.UTC().Format(time.RFC3339Nano)
	}
	return d
}

func decodeDocument(raw string) (models.Event, error) {
	var row storage.Row
	if err := json.Unmarshal([]byte(raw), &row); err != nil {
		return models.Event{}, err
	}
	return storage.NormalizeEvent(row), nil
}

// startKey значение колонки startdate для сортировки и фильтра.
func startKey(e models.Event) any {
	if e.StartDate.IsZero() {
		return nil
	}
	return e.StartDate.String()
}

// FetchEvents возвращает события по возрастанию даты начала; события без даты идут в конце.
func (s *Storage) FetchEvents(ctx context.Context, filter models.FetchFilter) ([]models.Event, error) {
	const op = "storage.sqlite.FetchEvents"

	query := `SELECT doc FROM events`
	var args []any
	if filter.OnlyUpcoming && !filter.Today.IsZero() {
		query += ` WHERE (startdate IS NULL OR startdate >= ?)`
		args = append(args, filter.Today.String())
	}
	query += ` ORDER BY startdate IS NULL, startdate, rowid LIMIT ?`
	args = append(args, filter.EffectiveLimit())

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	defer rows.Close()

	var result []models.Event
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%s: %w", op, classify(err))
		}
		e, err := decodeDocument(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, models.ErrBackendUnavailable, err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	return result, nil
}

// CreateEvent сохраняет новое событие.
func (s *Storage) CreateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	const op = "storage.sqlite.CreateEvent"

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if err := checkDates(event); err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	doc, err := json.Marshal(toDocument(event))
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}
	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO events (id, startdate, doc) VALUES (?, ?, ?)`,
		event.ID, startKey(event), string(doc))
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, classify(err))
	}

	created, err := decodeDocument(string(doc))
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// UpdateEvent накладывает переданные поля на сохранённый документ.
// Без полей возвращает текущую запись.
func (s *Storage) UpdateEvent(ctx context.Context, id string, fields models.EventFields) (models.Event, error) {
	const op = "storage.sqlite.UpdateEvent"

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, classify(err))
	}
	defer func() { _ = tx.Rollback() }()

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT doc FROM events WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, classify(err))
	}

	current, err := decodeDocument(raw)
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w: %w", op, models.ErrBackendUnavailable, err)
	}
	if fields.IsEmpty() {
		return current, nil
	}
	updated := fields.Apply(current)
	if err := checkDates(updated); err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}

	doc, err := json.Marshal(toDocument(updated))
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE events SET startdate = ?, doc = ? WHERE id = ?`,
		startKey(updated), string(doc), id); err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, classify(err))
	}
	if err := tx.Commit(); err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, classify(err))
	}

	result, err := decodeDocument(string(doc))
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteEvent удаляет событие. Для несуществующего ID возвращает false без ошибки.
func (s *Storage) DeleteEvent(ctx context.Context, id string) (bool, error) {
	const op = "storage.sqlite.DeleteEvent"

	result, err := s.DB.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, classify(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, classify(err))
	}
	return rowsAffected > 0, nil
}

// checkDates повторяет ограничение events_dates_order серверной схемы.
func checkDates(e models.Event) error {
	if !e.StartDate.IsZero() && !e.EndDate.IsZero() && e.StartDate.After(e.EndDate) {
		return fmt.Errorf("%w: start date %s is after end date %s",
			models.ErrValidationRejected, e.StartDate, e.EndDate)
	}
	return nil
}
