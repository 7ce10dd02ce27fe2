// Package events управляет жизненным циклом событий: черновик, публикация,
// снятие с публикации, редактирование и удаление. Изменять событие может только владелец.
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/event-notifier/internal/lib/dateops"
	"github.com/magabrotheeeer/event-notifier/internal/lib/sl"
	"github.com/magabrotheeeer/event-notifier/internal/metrics"
	"github.com/magabrotheeeer/event-notifier/internal/models"
	"github.com/magabrotheeeer/event-notifier/internal/services/status"
)

// CacheKeyAll ключ кеша полного списка событий.
const CacheKeyAll = "events:all"

// Store определяет операции хранилища, нужные менеджеру событий.
type Store interface {
	// FetchEvents возвращает события по возрастанию даты начала.
	FetchEvents(ctx context.Context, filter models.FetchFilter) ([]models.Event, error)
	// CreateEvent сохраняет новое событие и возвращает его с ID.
	CreateEvent(ctx context.Context, event models.Event) (models.Event, error)
	// UpdateEvent меняет только переданные поля; без полей возвращает текущую запись.
	UpdateEvent(ctx context.Context, id string, fields models.EventFields) (models.Event, error)
	// DeleteEvent удаляет событие.
	DeleteEvent(ctx context.Context, id string) (bool, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значения из кеша по ключам.
	Invalidate(ctx context.Context, keys ...string) error
}

// Tabs события владельца, разложенные по вкладкам "Мои события".
type Tabs struct {
	Active  []models.Event `json:"active"`
	Drafts  []models.Event `json:"drafts"`
	Expired []models.Event `json:"expired"`
}

// Service реализует операции жизненного цикла событий.
type Service struct {
	store    Store
	cache    Cache
	clock    dateops.Clock
	log      *slog.Logger
	cacheTTL time.Duration
}

// NewService создает новый экземпляр Service.
func NewService(store Store, cache Cache, clock dateops.Clock, log *slog.Logger, cacheTTL time.Duration) *Service {
	return &Service{
		store:    store,
		cache:    cache,
		clock:    clock,
		log:      log,
		cacheTTL: cacheTTL,
	}
}

// CreateDraft сохраняет черновик. Если editingID задан, событие владельца
// перезаписывается из формы и переводится в черновики.
func (s *Service) CreateDraft(ctx context.Context, principal models.Principal, in models.EventInput, editingID string) (models.Event, error) {
	const op = "services.events.CreateDraft"

	d, err := validate(in)
	if err != nil {
		return models.Event{}, err
	}
	if principal.Anonymous() {
		return models.Event{}, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}

	published, isDraft := false, true
	if editingID != "" {
		fields := d.fields()
		fields.Published, fields.Draft = &published, &isDraft
		return s.updateOwned(ctx, op, "draft", principal, editingID, fields)
	}

	event := d.event(principal.ID)
	event.Draft = true
	return s.create(ctx, op, "draft", event)
}

// Publish публикует событие из формы: создаёт новое или перезаписывает
// событие владельца editingID. Ставит отметку LastPublishedAt.
func (s *Service) Publish(ctx context.Context, principal models.Principal, in models.EventInput, editingID string) (models.Event, error) {
	const op = "services.events.Publish"

	d, err := validate(in)
	if err != nil {
		return models.Event{}, err
	}
	if principal.Anonymous() {
		return models.Event{}, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}

	now := s.clock.Now().UTC()
	published, isDraft := true, false
	if editingID != "" {
		fields := d.fields()
		fields.Published, fields.Draft, fields.LastPublishedAt = &published, &isDraft, &now
		return s.updateOwned(ctx, op, "publish", principal, editingID, fields)
	}

	event := d.event(principal.ID)
	event.Published = true
	event.LastPublishedAt = &now
	return s.create(ctx, op, "publish", event)
}

// Update частично обновляет событие владельца. В хранилище уходят только переданные поля.
func (s *Service) Update(ctx context.Context, principal models.Principal, id string, fields models.EventFields) (models.Event, error) {
	const op = "services.events.Update"

	current, err := s.owned(ctx, op, principal, id)
	if err != nil {
		return models.Event{}, err
	}
	if err := validateFields(current, fields); err != nil {
		return models.Event{}, err
	}
	if fields.IsEmpty() {
		return s.withStatus(current), nil
	}
	s.keepAxisExclusive(&fields)

	return s.write(ctx, op, "update", id, fields)
}

// Delete удаляет событие владельца. Подписки на него не удаляются и
// в списке подписок отображаются как "(deleted)".
func (s *Service) Delete(ctx context.Context, principal models.Principal, id string) error {
	const op = "services.events.Delete"

	if _, err := s.owned(ctx, op, principal, id); err != nil {
		return err
	}

	removed, err := s.store.DeleteEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx)
	if removed {
		metrics.EventWrites.WithLabelValues("delete").Inc()
		s.log.Info("event deleted", slog.String("id", id), slog.String("owner", principal.ID))
	}
	return nil
}

// TogglePublish переключает событие владельца между публикацией и черновиком.
func (s *Service) TogglePublish(ctx context.Context, principal models.Principal, id string) (models.Event, error) {
	const op = "services.events.TogglePublish"

	current, err := s.owned(ctx, op, principal, id)
	if err != nil {
		return models.Event{}, err
	}

	publish := !current.Published
	fields := models.EventFields{Published: &publish}
	s.keepAxisExclusive(&fields)

	label := "unpublish"
	if publish {
		label = "publish"
	}
	return s.write(ctx, op, label, id, fields)
}

// List возвращает все события с пересчитанным статусом. Список читается через кеш.
func (s *Service) List(ctx context.Context) ([]models.Event, error) {
	const op = "services.events.List"

	var cached []models.Event
	found, err := s.cache.Get(ctx, CacheKeyAll, &cached)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		s.log.Warn("failed to read from cache", slog.String("key", CacheKeyAll), sl.Err(err))
	case found:
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return status.Apply(cached, s.today()), nil
	default:
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	events, err := s.store.FetchEvents(ctx, models.FetchFilter{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if events == nil {
		events = []models.Event{}
	}
	if err := s.cache.Set(ctx, CacheKeyAll, events, s.cacheTTL); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", CacheKeyAll), sl.Err(err))
	}
	return status.Apply(events, s.today()), nil
}

// Get возвращает событие по ID напрямую из хранилища.
func (s *Service) Get(ctx context.Context, id string) (models.Event, error) {
	const op = "services.events.Get"

	event, err := s.store.UpdateEvent(ctx, id, models.EventFields{})
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}
	return s.withStatus(event), nil
}

// OwnerTabs раскладывает события участника по вкладкам: активные, черновики, завершённые.
func (s *Service) OwnerTabs(ctx context.Context, principal models.Principal) (Tabs, error) {
	const op = "services.events.OwnerTabs"

	tabs := Tabs{Active: []models.Event{}, Drafts: []models.Event{}, Expired: []models.Event{}}
	if principal.Anonymous() {
		return tabs, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}

	all, err := s.List(ctx)
	if err != nil {
		return tabs, fmt.Errorf("%s: %w", op, err)
	}
	for _, e := range all {
		if e.OwnerID != principal.ID {
			continue
		}
		if e.Visible() && e.Status != models.StatusExpired {
			tabs.Active = append(tabs.Active, e)
		}
		if e.Draft || (!e.Published && !e.Draft) {
			tabs.Drafts = append(tabs.Drafts, e)
		}
		if e.Status == models.StatusExpired {
			tabs.Expired = append(tabs.Expired, e)
		}
	}
	return tabs, nil
}

func (s *Service) create(ctx context.Context, op, label string, event models.Event) (models.Event, error) {
	event.CreatedAt = s.clock.Now().UTC()

	created, err := s.store.CreateEvent(ctx, event)
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx)
	metrics.EventWrites.WithLabelValues(label).Inc()
	s.log.Info("event created",
		slog.String("id", created.ID),
		slog.String("owner", created.OwnerID),
		slog.Bool("published", created.Published))

	return s.withStatus(created), nil
}

func (s *Service) updateOwned(ctx context.Context, op, label string, principal models.Principal, id string, fields models.EventFields) (models.Event, error) {
	if _, err := s.owned(ctx, op, principal, id); err != nil {
		return models.Event{}, err
	}
	return s.write(ctx, op, label, id, fields)
}

func (s *Service) write(ctx context.Context, op, label, id string, fields models.EventFields) (models.Event, error) {
	updated, err := s.store.UpdateEvent(ctx, id, fields)
	if err != nil {
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx)
	metrics.EventWrites.WithLabelValues(label).Inc()
	s.log.Info("event updated",
		slog.String("id", id),
		sl.Op(label),
		slog.Bool("published", updated.Published))

	return s.withStatus(updated), nil
}

// owned читает событие из хранилища, минуя кеш, и проверяет владельца.
func (s *Service) owned(ctx context.Context, op string, principal models.Principal, id string) (models.Event, error) {
	if principal.Anonymous() {
		return models.Event{}, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}

	current, err := s.store.UpdateEvent(ctx, id, models.EventFields{})
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Event{}, fmt.Errorf("%s: event %q: %w", op, id, err)
		}
		return models.Event{}, fmt.Errorf("%s: %w", op, err)
	}
	if current.OwnerID != principal.ID {
		s.log.Warn("rejected change of foreign event",
			slog.String("id", id),
			slog.String("owner", current.OwnerID),
			slog.String("principal", principal.ID))
		return models.Event{}, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}
	return current, nil
}

// keepAxisExclusive выставляет парный флаг, если передан только один из Published/Draft,
// и ставит отметку публикации.
func (s *Service) keepAxisExclusive(fields *models.EventFields) {
	switch {
	case fields.Published != nil:
		isDraft := !*fields.Published
		fields.Draft = &isDraft
	case fields.Draft != nil:
		published := !*fields.Draft
		fields.Published = &published
	default:
		return
	}
	if *fields.Published && fields.LastPublishedAt == nil {
		now := s.clock.Now().UTC()
		fields.LastPublishedAt = &now
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, CacheKeyAll); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", CacheKeyAll), sl.Err(err))
	}
}

func (s *Service) withStatus(e models.Event) models.Event {
	e.Status = status.Of(e, s.today())
	return e
}

func (s *Service) today() dateops.Date {
	return dateops.Today(s.clock)
}
