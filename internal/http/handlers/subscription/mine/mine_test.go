package mine

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/event-notifier/internal/http/middlewarectx"
	"github.com/magabrotheeeer/event-notifier/internal/models"
	"github.com/magabrotheeeer/event-notifier/internal/services/subscriptions"
)

type EventServiceMock struct {
	mock.Mock
}

func (m *EventServiceMock) List(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

type SubscriptionServiceMock struct {
	mock.Mock
}

func (m *SubscriptionServiceMock) View(ctx context.Context, principal models.Principal, events []models.Event) ([]subscriptions.View, error) {
	args := m.Called(ctx, principal, events)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]subscriptions.View), args.Error(1)
}

func TestMineHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	bob := models.Principal{ID: "u_bob", Email: "bob@x.com"}
	all := []models.Event{{ID: "e1", Name: "Town Fair"}}

	t.Run("view with deleted event", func(t *testing.T) {
		events, subs := new(EventServiceMock), new(SubscriptionServiceMock)
		events.On("List", mock.Anything).Return(all, nil).Once()
		subs.On("View", mock.Anything, bob, all).Return([]subscriptions.View{
			{EventName: subscriptions.DeletedEventName, Status: models.StatusExpired, Deleted: true},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/subscriptions/mine", nil)
		req = req.WithContext(middlewarectx.WithPrincipal(req.Context(), bob))
		rec := httptest.NewRecorder()
		New(log, events, subs).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"event_name":"(deleted)"`)
		assert.Contains(t, rec.Body.String(), `"deleted":true`)
	})

	t.Run("store down", func(t *testing.T) {
		events, subs := new(EventServiceMock), new(SubscriptionServiceMock)
		events.On("List", mock.Anything).Return(nil, models.ErrBackendUnavailable).Once()

		req := httptest.NewRequest(http.MethodGet, "/subscriptions/mine", nil)
		rec := httptest.NewRecorder()
		New(log, events, subs).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		subs.AssertNotCalled(t, "View", mock.Anything, mock.Anything, mock.Anything)
	})
}
