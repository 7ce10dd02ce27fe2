// Package storage описывает границу между бизнес-логикой и хранилищами событий и подписок.
//
// Хранилища (postgresql, sqlite, rest) возвращают строки разной формы: разные имена колонок,
// регистр, типы. Функции NormalizeEvent/NormalizeSubscription приводят их к каноническим
// моделям, DenormalizeEvent формирует строку только из переданных полей (семантика PATCH).
package storage

import (
	"context"

	"github.com/magabrotheeeer/event-notifier/internal/models"
)

// Row "сырая" строка хранилища.
type Row map[string]any

// Канонические имена колонок удалённой схемы событий.
const (
	ColID              = "id"
	ColOwnerID         = "user_id"
	ColName            = "event_name"
	ColDescription     = "description"
	ColLocation        = "location"
	ColStartDate       = "startdate"
	ColEndDate         = "enddate"
	ColTags            = "tags"
	ColContactEmail    = "contact_email"
	ColRenewal         = "renewal"
	ColPublished       = "published"
	ColDraft           = "draft"
	ColLastPublishedAt = "last_published_at"
	ColCreatedAt       = "created_at"
)

// Канонические имена колонок подписок.
const (
	ColSubEventName   = "event_name"
	ColSubEmail       = "subscriber_email"
	ColSubPrincipalID = "subscriber_ntid"
	ColSubAutoRenewal = "auto_renewal"
)

// EventColumns все колонки событий в порядке выборки.
var EventColumns = []string{
	ColID, ColOwnerID, ColName, ColDescription, ColLocation, ColStartDate, ColEndDate,
	ColTags, ColContactEmail, ColRenewal, ColPublished, ColDraft, ColLastPublishedAt, ColCreatedAt,
}

// SubscriptionColumns все колонки подписок в порядке выборки.
var SubscriptionColumns = []string{
	ColID, ColSubEventName, ColSubEmail, ColSubPrincipalID, ColSubAutoRenewal, ColCreatedAt,
}

// Store единый интерфейс хранилища. Конкретная реализация выбирается один раз при старте.
//
// Ошибки транспорта оборачивают models.ErrBackendUnavailable, отказ хранилища принять
// запись: models.ErrValidationRejected, обновление отсутствующего ID: models.ErrNotFound.
// UpdateEvent без полей ничего не меняет и возвращает текущую запись.
// DeleteEvent для несуществующего ID возвращает (false, nil).
type Store interface {
	FetchEvents(ctx context.Context, filter models.FetchFilter) ([]models.Event, error)
	CreateEvent(ctx context.Context, event models.Event) (models.Event, error)
	UpdateEvent(ctx context.Context, id string, fields models.EventFields) (models.Event, error)
	DeleteEvent(ctx context.Context, id string) (bool, error)

	FetchSubscriptions(ctx context.Context, eventName string) ([]models.Subscription, error)
	FetchSubscriptionsForPrincipal(ctx context.Context, principalID, email string) ([]models.Subscription, error)
	Subscribe(ctx context.Context, req models.SubscribeRequest) (models.Subscription, error)
	Unsubscribe(ctx context.Context, eventName, email string) ([]models.Subscription, error)

	Close() error
}
