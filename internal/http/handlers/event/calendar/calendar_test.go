package calendar

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/event-notifier/internal/lib/dateops"
	"github.com/magabrotheeeer/event-notifier/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func TestCalendarHandler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := dateops.FixedClock{At: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)}

	t.Run("calendar body", func(t *testing.T) {
		svc := new(MockService)
		svc.On("List", mock.Anything).Return([]models.Event{{
			ID:        "e1",
			Name:      "Town Fair",
			StartDate: dateops.MustParse("2025-06-01"),
			EndDate:   dateops.MustParse("2025-06-03"),
			Published: true,
		}}, nil).Once()

		rec := httptest.NewRecorder()
		New(log, svc, clock).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events.ics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/calendar")
		assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
		assert.Contains(t, rec.Body.String(), "SUMMARY:Town Fair")
	})

	t.Run("store down", func(t *testing.T) {
		svc := new(MockService)
		svc.On("List", mock.Anything).Return(nil, models.ErrBackendUnavailable).Once()

		rec := httptest.NewRecorder()
		New(log, svc, clock).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events.ics", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
