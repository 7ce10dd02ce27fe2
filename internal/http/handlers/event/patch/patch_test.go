package patch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/event-notifier/internal/http/middlewarectx"
	"github.com/magabrotheeeer/event-notifier/internal/lib/dateops"
	"github.com/magabrotheeeer/event-notifier/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, principal models.Principal, id string, fields models.EventFields) (models.Event, error) {
	args := m.Called(ctx, principal, id, fields)
	return args.Get(0).(models.Event), args.Error(1)
}

var alice = models.Principal{ID: "u_alice"}

func TestRequest_Fields(t *testing.T) {
	name, start := "Renamed", "2025-07-01"
	fields, err := Request{Name: &name, StartDate: &start}.Fields()
	require.NoError(t, err)
	require.NotNil(t, fields.Name)
	assert.Equal(t, "Renamed", *fields.Name)
	require.NotNil(t, fields.StartDate)
	assert.Equal(t, dateops.MustParse("2025-07-01"), *fields.StartDate)
	assert.Nil(t, fields.EndDate)
	assert.Nil(t, fields.Description)

	bad := "07/01/2025"
	_, err = Request{EndDate: &bad}.Fields()
	ve, ok := models.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "end_date", ve.Field)
}

func TestPatchHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "переименование",
			body: `{"name":"Town Fair 2025"}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, alice, "e1", mock.MatchedBy(func(f models.EventFields) bool {
					return f.Name != nil && *f.Name == "Town Fair 2025" && f.Description == nil && f.StartDate == nil
				})).Return(models.Event{ID: "e1", Name: "Town Fair 2025"}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"Town Fair 2025"`,
		},
		{
			name:           "некорректная дата",
			body:           `{"start_date":"June 1"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"field":"start_date"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
		{
			name: "не найдено",
			body: `{"location":"Park"}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, alice, "e1", mock.Anything).
					Return(models.Event{}, models.ErrNotFound).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			r := chi.NewRouter()
			r.Patch("/events/{id}", New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP)

			req := httptest.NewRequest(http.MethodPatch, "/events/e1", strings.NewReader(tt.body))
			req = req.WithContext(middlewarectx.WithPrincipal(req.Context(), alice))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
