// Package seed заполняет пустое хранилище демонстрационными событиями и подписками из YAML.
package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/magabrotheeeer/event-notifier/internal/lib/sl"
	"github.com/magabrotheeeer/event-notifier/internal/models"
	"github.com/magabrotheeeer/event-notifier/internal/storage"
)

// Data содержимое файла начальных данных. Строки допускают любые варианты имён колонок.
type Data struct {
	Events        []map[string]any `yaml:"events"`
	Subscriptions []map[string]any `yaml:"subscriptions"`
}

// Store часть хранилища, нужная для заполнения.
type Store interface {
	FetchEvents(ctx context.Context, filter models.FetchFilter) ([]models.Event, error)
	CreateEvent(ctx context.Context, event models.Event) (models.Event, error)
	Subscribe(ctx context.Context, req models.SubscribeRequest) (models.Subscription, error)
}

// Load читает начальные данные из файла.
func Load(path string) (*Data, error) {
	const op = "seed.Load"

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()

	data, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return data, nil
}

// Decode разбирает YAML с начальными данными.
func Decode(r io.Reader) (*Data, error) {
	var data Data
	if err := yaml.NewDecoder(r).Decode(&data); err != nil && err != io.EOF {
		return nil, err
	}
	return &data, nil
}

// Apply записывает данные, только если в хранилище ещё нет ни одного события.
// Возвращает количество созданных событий.
func Apply(ctx context.Context, log *slog.Logger, store Store, data *Data, now time.Time) (int, error) {
	const op = "seed.Apply"

	existing, err := store.FetchEvents(ctx, models.FetchFilter{Limit: 1})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(existing) > 0 {
		log.Debug("store is not empty, seed skipped")
		return 0, nil
	}

	created := 0
	for _, raw := range data.Events {
		e := storage.NormalizeEvent(storage.Row(raw))
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		if _, err := store.CreateEvent(ctx, e); err != nil {
			return created, fmt.Errorf("%s: event %q: %w", op, e.Name, err)
		}
		created++
	}

	for _, raw := range data.Subscriptions {
		s := storage.NormalizeSubscription(storage.Row(raw))
		if _, err := store.Subscribe(ctx, models.SubscribeRequest{
			EventName:   s.EventRef,
			Email:       s.SubscriberEmail,
			PrincipalID: s.SubscriberPrincipalID,
			AutoRenewal: s.AutoRenewal,
		}); err != nil {
			log.Warn("seed subscription skipped", slog.String("event", s.EventRef), sl.Err(err))
		}
	}

	log.Info("store seeded",
		slog.Int("events", created),
		slog.Int("subscriptions", len(data.Subscriptions)))
	return created, nil
}
