package save

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/event-notifier/internal/http/middlewarectx"
	"github.com/magabrotheeeer/event-notifier/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateDraft(ctx context.Context, principal models.Principal, in models.EventInput, editingID string) (models.Event, error) {
	args := m.Called(ctx, principal, in, editingID)
	return args.Get(0).(models.Event), args.Error(1)
}

func (m *MockService) Publish(ctx context.Context, principal models.Principal, in models.EventInput, editingID string) (models.Event, error) {
	args := m.Called(ctx, principal, in, editingID)
	return args.Get(0).(models.Event), args.Error(1)
}

var alice = models.Principal{ID: "u_alice", Email: "alice@Bosch.in"}

func validRequest() Request {
	return Request{
		Name:         "Town Fair",
		Description:  "Annual fair",
		Location:     "Main square",
		StartDate:    "2025-06-01",
		EndDate:      "2025-06-03",
		ContactEmail: "fair@town.org",
		Tags:         []string{"community"},
	}
}

func TestSaveHandler(t *testing.T) {
	draftReq := validRequest()
	draftReq.Draft = true
	longTags := validRequest()
	longTags.Tags = []string{strings.Repeat("t", 51)}

	tests := []struct {
		name           string
		method         string
		url            string
		requestBody    any
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "публикация нового события",
			method:      http.MethodPost,
			url:         "/events",
			requestBody: validRequest(),
			setupMock: func(m *MockService) {
				m.On("Publish", mock.Anything, alice, validRequest().Input(), "").
					Return(models.Event{ID: "e1", Name: "Town Fair", Published: true}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"id":"e1"`,
		},
		{
			name:        "черновик существующего события",
			method:      http.MethodPut,
			url:         "/events/e1",
			requestBody: draftReq,
			setupMock: func(m *MockService) {
				m.On("CreateDraft", mock.Anything, alice, draftReq.Input(), "e1").
					Return(models.Event{ID: "e1", Draft: true}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"draft":true`,
		},
		{
			name:           "некорректный JSON",
			method:         http.MethodPost,
			url:            "/events",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "слишком длинная метка",
			method:         http.MethodPost,
			url:            "/events",
			requestBody:    longTags,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `is too long`,
		},
		{
			name:        "ошибка валидации формы",
			method:      http.MethodPost,
			url:         "/events",
			requestBody: Request{},
			setupMock: func(m *MockService) {
				m.On("Publish", mock.Anything, alice, mock.Anything, "").
					Return(models.Event{}, models.NewValidationError("name", "Event name is required")).Once()
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `{"status":"Error","error":"Event name is required","field":"name"}`,
		},
		{
			name:        "чужое событие",
			method:      http.MethodPut,
			url:         "/events/e9",
			requestBody: validRequest(),
			setupMock: func(m *MockService) {
				m.On("Publish", mock.Anything, alice, mock.Anything, "e9").
					Return(models.Event{}, models.ErrUnauthorized).Once()
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"error":"not allowed"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			var body []byte
			if s, ok := tt.requestBody.(string); ok {
				body = []byte(s)
			} else {
				body, _ = json.Marshal(tt.requestBody)
			}

			r := chi.NewRouter()
			h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
			r.Post("/events", h.ServeHTTP)
			r.Put("/events/{id}", h.ServeHTTP)

			req := httptest.NewRequest(tt.method, tt.url, bytes.NewReader(body))
			req = req.WithContext(middlewarectx.WithPrincipal(req.Context(), alice))
			rec := httptest.NewRecorder()

			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
