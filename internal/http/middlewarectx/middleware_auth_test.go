package middlewarectx_test

import (
	"context"
	"errors"
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
	"github.com/magabrotheeeer/event-notifier/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) ValidateToken(ctx context.Context, token string) (models.Principal, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.Principal), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

var alice = models.Principal{ID: "u_alice", DisplayName: "alice", Email: "alice@Bosch.in"}

func TestJWTMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		optional       bool
		authHeader     string
		mockPrincipal  *models.Principal
		mockErr        error
		wantStatusCode int
		wantPrincipal  models.Principal
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "token validation error",
			authHeader:     "Bearer token",
			mockPrincipal:  &models.Principal{},
			mockErr:        errors.New("token is expired"),
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "valid token",
			authHeader:     "Bearer validtoken",
			mockPrincipal:  &alice,
			wantStatusCode: http.StatusOK,
			wantPrincipal:  alice,
			wantCalled:     true,
		},
		{
			name:           "optional without header is anonymous",
			optional:       true,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:           "optional with bad token",
			optional:       true,
			authHeader:     "Bearer broken",
			mockPrincipal:  &models.Principal{},
			mockErr:        errors.New("malformed"),
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "optional with valid token",
			optional:       true,
			authHeader:     "Bearer validtoken",
			mockPrincipal:  &alice,
			wantStatusCode: http.StatusOK,
			wantPrincipal:  alice,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			if tt.mockPrincipal != nil {
				authMock.On("ValidateToken", mock.Anything, strings.TrimPrefix(tt.authHeader, "Bearer ")).
					Return(*tt.mockPrincipal, tt.mockErr).Once()
			}

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				assert.Equal(t, tt.wantPrincipal, middlewarectx.PrincipalFrom(r.Context()))
				w.WriteHeader(http.StatusOK)
			})

			mw := middlewarectx.JWTMiddleware(authMock, newNoopLogger())
			if tt.optional {
				mw = middlewarectx.OptionalJWTMiddleware(authMock, newNoopLogger())
			}

			req := httptest.NewRequest(http.MethodGet, "/somepath", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			mw(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			authMock.AssertExpectations(t)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middlewarectx.RateLimitMiddleware(newNoopLogger(), 0.001, 2)(next)

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestMetricsMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middlewarectx.MetricsMiddleware)
	r.Get("/events/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/42", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
}
