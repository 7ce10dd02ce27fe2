// Package dashboard собирает счётчики и короткие списки для главной страницы участника.
package dashboard

import (
	"context"
	"fmt"
	"sort"

	"github.com/magabrotheeeer/event-notifier/internal/lib/dateops"
	"github.com/magabrotheeeer/event-notifier/internal/models"
	"github.com/magabrotheeeer/event-notifier/internal/services/subscriptions"
)

// EventLister отдаёт все события с пересчитанным статусом.
type EventLister interface {
	List(ctx context.Context) ([]models.Event, error)
}

// SubscriptionViewer соединяет подписки участника с событиями.
type SubscriptionViewer interface {
	View(ctx context.Context, principal models.Principal, events []models.Event) ([]subscriptions.View, error)
}

// Renewal событие, которому пора продлеваться, и сколько дней осталось.
type Renewal struct {
	Event    models.Event `json:"event"`
	DaysLeft int          `json:"days_left"`
}

// Summary данные главной страницы.
type Summary struct {
	TotalEvents         int                  `json:"total_events"`
	ActiveSubscriptions int                  `json:"active_subscriptions"`
	RenewalsDue         int                  `json:"renewals_due"`
	PublishedEvents     int                  `json:"published_events"`
	UpcomingRenewals    []Renewal            `json:"upcoming_renewals"`
	RecentSubscriptions []subscriptions.View `json:"recent_subscriptions"`
}

// Service строит Summary.
type Service struct {
	events       EventLister
	subs         SubscriptionViewer
	clock        dateops.Clock
	windowDays   int
	displayLimit int
}

// NewService создает новый экземпляр Service.
func NewService(events EventLister, subs SubscriptionViewer, clock dateops.Clock, windowDays, displayLimit int) *Service {
	return &Service{
		events:       events,
		subs:         subs,
		clock:        clock,
		windowDays:   windowDays,
		displayLimit: displayLimit,
	}
}

// Summary считает показатели для участника.
func (s *Service) Summary(ctx context.Context, principal models.Principal) (Summary, error) {
	const op = "services.dashboard.Summary"

	all, err := s.events.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("%s: %w", op, err)
	}
	views, err := s.subs.View(ctx, principal, all)
	if err != nil {
		return Summary{}, fmt.Errorf("%s: %w", op, err)
	}

	today := dateops.Today(s.clock)
	due := subscriptions.RenewalsDue(all, s.windowDays, today)

	summary := Summary{
		TotalEvents:         len(all),
		ActiveSubscriptions: len(views),
		RenewalsDue:         len(due),
		UpcomingRenewals:    []Renewal{},
		RecentSubscriptions: []subscriptions.View{},
	}
	for _, e := range all {
		if !principal.Anonymous() && e.OwnerID == principal.ID && e.Visible() {
			summary.PublishedEvents++
		}
	}
	for _, e := range head(due, s.displayLimit) {
		summary.UpcomingRenewals = append(summary.UpcomingRenewals, Renewal{
			Event:    e,
			DaysLeft: dateops.DaysUntil(e.EndDate, today),
		})
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Subscription.CreatedAt.After(views[j].Subscription.CreatedAt)
	})
	summary.RecentSubscriptions = append(summary.RecentSubscriptions, head(views, s.displayLimit)...)

	return summary, nil
}

func head[T any](items []T, n int) []T {
	if n >= 0 && len(items) > n {
		return items[:n]
	}
	return items
}
