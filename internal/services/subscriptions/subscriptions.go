// Package subscriptions сопоставляет подписки с участниками по principal id или email
// без учёта регистра, исключает дубли при создании и считает события, которым пора продлеваться.
package subscriptions

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/magabrotheeeer/event-notifier/internal/lib/dateops"
	"github.com/magabrotheeeer/event-notifier/internal/metrics"
	"github.com/magabrotheeeer/event-notifier/internal/models"
	"github.com/magabrotheeeer/event-notifier/internal/services/status"
)

// DeletedEventName показывается вместо имени события, которого больше нет.
const DeletedEventName = "(deleted)"

// Store определяет операции хранилища с подписками.
type Store interface {
	FetchSubscriptions(ctx context.Context, eventName string) ([]models.Subscription, error)
	FetchSubscriptionsForPrincipal(ctx context.Context, principalID, email string) ([]models.Subscription, error)
	Subscribe(ctx context.Context, req models.SubscribeRequest) (models.Subscription, error)
	Unsubscribe(ctx context.Context, eventName, email string) ([]models.Subscription, error)
}

// ToggleResult итог нажатия кнопки подписки.
type ToggleResult struct {
	Subscribed   bool                 `json:"subscribed"`
	Subscription *models.Subscription `json:"subscription,omitempty"`
	Removed      int                  `json:"removed"`
}

// View строка списка "Мои подписки".
type View struct {
	Subscription models.Subscription `json:"subscription"`
	EventID      string              `json:"event_id,omitempty"`
	EventName    string              `json:"event_name"`
	StartDate    dateops.Date        `json:"start_date"`
	EndDate      dateops.Date        `json:"end_date"`
	Status       models.Status       `json:"status"`
	Deleted      bool                `json:"deleted"`
}

// Service реализует сверку подписок.
type Service struct {
	store Store
	clock dateops.Clock
	log   *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(store Store, clock dateops.Clock, log *slog.Logger) *Service {
	return &Service{
		store: store,
		clock: clock,
		log:   log,
	}
}

// IsSubscribed сообщает, подписан ли участник на событие (по имени события).
func (s *Service) IsSubscribed(ctx context.Context, event models.Event, principal models.Principal) (bool, error) {
	const op = "services.subscriptions.IsSubscribed"

	subs, err := s.store.FetchSubscriptions(ctx, event.Name)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	for _, sub := range subs {
		if sub.EventRef == event.Name && sub.MatchesPrincipal(principal) {
			return true, nil
		}
	}
	return false, nil
}

// Subscribe создаёт подписку, если такой ещё нет. Перед вставкой подписки
// события перечитываются из хранилища; найденное совпадение возвращается без изменений.
func (s *Service) Subscribe(ctx context.Context, eventName, email, principalID string, autoRenewal bool) (models.Subscription, error) {
	const op = "services.subscriptions.Subscribe"

	eventName, email, principalID = strings.TrimSpace(eventName), strings.TrimSpace(email), strings.TrimSpace(principalID)
	if err := validateTarget(eventName, email); err != nil {
		return models.Subscription{}, err
	}

	existing, err := s.store.FetchSubscriptions(ctx, eventName)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}
	for _, sub := range existing {
		if sub.EventRef != eventName {
			continue
		}
		if sub.MatchesEmail(email) || (principalID != "" && sub.SubscriberPrincipalID == principalID) {
			metrics.SubscriptionChanges.WithLabelValues("duplicate").Inc()
			return sub, nil
		}
	}

	sub, err := s.store.Subscribe(ctx, models.SubscribeRequest{
		EventName:   eventName,
		Email:       email,
		PrincipalID: principalID,
		AutoRenewal: autoRenewal,
	})
	if err != nil {
		return models.Subscription{}, fmt.Errorf("%s: %w", op, err)
	}
	metrics.SubscriptionChanges.WithLabelValues("subscribe").Inc()
	s.log.Info("subscribed", slog.String("event", eventName), slog.String("id", sub.ID))

	return sub, nil
}

// Unsubscribe удаляет все подписки (eventName, email) без учёта регистра email.
// Отсутствие подписок не является ошибкой.
func (s *Service) Unsubscribe(ctx context.Context, eventName, email string) (int, error) {
	const op = "services.subscriptions.Unsubscribe"

	eventName, email = strings.TrimSpace(eventName), strings.TrimSpace(email)
	if eventName == "" {
		return 0, models.NewValidationError("event_name", "Event name is required")
	}
	if email == "" {
		return 0, models.NewValidationError("email", "Email required")
	}

	removed, err := s.store.Unsubscribe(ctx, eventName, email)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(removed) > 0 {
		metrics.SubscriptionChanges.WithLabelValues("unsubscribe").Add(float64(len(removed)))
		s.log.Info("unsubscribed", slog.String("event", eventName), slog.Int("removed", len(removed)))
	}
	return len(removed), nil
}

// Toggle подписывает участника или снимает подписку, если она уже есть.
// Анонимный участник обязан передать email.
func (s *Service) Toggle(ctx context.Context, event models.Event, principal models.Principal, email string) (ToggleResult, error) {
	const op = "services.subscriptions.Toggle"

	email = strings.TrimSpace(email)
	if !principal.Anonymous() && principal.Email != "" {
		email = principal.Email
	}
	if email == "" {
		return ToggleResult{}, models.NewValidationError("email", "Email required")
	}
	who := principal
	who.Email = email

	subs, err := s.store.FetchSubscriptions(ctx, event.Name)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("%s: %w", op, err)
	}

	var emails []string
	seen := make(map[string]bool)
	for _, sub := range subs {
		if sub.EventRef != event.Name || !sub.MatchesPrincipal(who) {
			continue
		}
		key := strings.ToLower(sub.SubscriberEmail)
		if !seen[key] {
			seen[key] = true
			emails = append(emails, sub.SubscriberEmail)
		}
	}

	if len(emails) == 0 {
		sub, err := s.Subscribe(ctx, event.Name, email, principal.ID, true)
		if err != nil {
			return ToggleResult{}, fmt.Errorf("%s: %w", op, err)
		}
		return ToggleResult{Subscribed: true, Subscription: &sub}, nil
	}

	removed := 0
	for _, e := range emails {
		n, err := s.Unsubscribe(ctx, event.Name, e)
		if err != nil {
			return ToggleResult{}, fmt.Errorf("%s: %w", op, err)
		}
		removed += n
	}
	return ToggleResult{Subscribed: false, Removed: removed}, nil
}

// SubscriptionsFor возвращает подписки участника по principal id или email.
// Всегда читает хранилище, чтобы не расходиться с ним после изменений.
func (s *Service) SubscriptionsFor(ctx context.Context, principal models.Principal) ([]models.Subscription, error) {
	const op = "services.subscriptions.SubscriptionsFor"

	if principal.ID == "" && principal.Email == "" {
		return []models.Subscription{}, nil
	}
	subs, err := s.store.FetchSubscriptionsForPrincipal(ctx, principal.ID, principal.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if subs == nil {
		subs = []models.Subscription{}
	}
	return subs, nil
}

// View соединяет подписки участника с событиями по имени. Подписка на удалённое
// или переименованное событие показывается как "(deleted)" со статусом expired.
func (s *Service) View(ctx context.Context, principal models.Principal, events []models.Event) ([]View, error) {
	const op = "services.subscriptions.View"

	subs, err := s.SubscriptionsFor(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byName := make(map[string]models.Event, len(events))
	for _, e := range events {
		if _, ok := byName[e.Name]; !ok {
			byName[e.Name] = e
		}
	}

	today := dateops.Today(s.clock)
	views := make([]View, 0, len(subs))
	for _, sub := range subs {
		e, ok := byName[sub.EventRef]
		if !ok {
			views = append(views, View{
				Subscription: sub,
				EventName:    DeletedEventName,
				Status:       models.StatusExpired,
				Deleted:      true,
			})
			continue
		}
		views = append(views, View{
			Subscription: sub,
			EventID:      e.ID,
			EventName:    e.Name,
			StartDate:    e.StartDate,
			EndDate:      e.EndDate,
			Status:       status.Of(e, today),
		})
	}
	return views, nil
}

// RenewalsDue возвращает события, которым пора продлеваться, на сегодняшнюю дату.
func (s *Service) RenewalsDue(events []models.Event, windowDays int) []models.Event {
	return RenewalsDue(events, windowDays, dateops.Today(s.clock))
}

// RenewalsDue отбирает опубликованные события с включённым продлением, у которых
// до даты окончания осталось от 0 до windowDays дней. Ближайшие идут первыми,
// при равенстве по имени. Ограничение количества остаётся за вызывающим.
func RenewalsDue(events []models.Event, windowDays int, today dateops.Date) []models.Event {
	due := make([]models.Event, 0)
	for _, e := range events {
		if !e.RenewalEnabled || !e.Published || e.EndDate.IsZero() {
			continue
		}
		if days := dateops.DaysUntil(e.EndDate, today); days >= 0 && days <= windowDays {
			due = append(due, e)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		if c := due[i].EndDate.Compare(due[j].EndDate); c != 0 {
			return c < 0
		}
		return due[i].Name < due[j].Name
	})
	return due
}

func validateTarget(eventName, email string) error {
	if eventName == "" {
		return models.NewValidationError("event_name", "Event name is required")
	}
	if email == "" {
		return models.NewValidationError("email", "Email required")
	}
	if !models.ValidEmail(email) {
		return models.NewValidationError("email", "Enter a valid email")
	}
	return nil
}
