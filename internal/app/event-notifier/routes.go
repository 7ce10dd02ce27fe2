// Package eventnotifier собирает HTTP-приложение доски событий.
package eventnotifier

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/event-notifier/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/event-notifier/internal/http/handlers/dashboard"
	"github.com/magabrotheeeer/event-notifier/internal/http/handlers/event/browse"
	"github.com/magabrotheeeer/event-notifier/internal/http/handlers/event/calendar"
	eventmine "github.com/magabrotheeeer/event-notifier/internal/http/handlers/event/mine"
	"github.com/magabrotheeeer/event-notifier/internal/http/handlers/event/patch"
	"github.com/magabrotheeeer/event-notifier/internal/http/handlers/event/remove"
	"github.com/magabrotheeeer/event-notifier/internal/http/handlers/event/save"
	eventtoggle "github.com/magabrotheeeer/event-notifier/internal/http/handlers/event/toggle"
	"github.com/magabrotheeeer/event-notifier/internal/http/handlers/health"
	submine "github.com/magabrotheeeer/event-notifier/internal/http/handlers/subscription/mine"
	"github.com/magabrotheeeer/event-notifier/internal/http/handlers/subscription/subscribe"
	subtoggle "github.com/magabrotheeeer/event-notifier/internal/http/handlers/subscription/toggle"
	"github.com/magabrotheeeer/event-notifier/internal/http/handlers/subscription/unsubscribe"
	"github.com/magabrotheeeer/event-notifier/internal/http/middlewarectx"
	"github.com/magabrotheeeer/event-notifier/internal/lib/dateops"
	authservice "github.com/magabrotheeeer/event-notifier/internal/services/auth"
	browseservice "github.com/magabrotheeeer/event-notifier/internal/services/browse"
	dashboardservice "github.com/magabrotheeeer/event-notifier/internal/services/dashboard"
	eventservice "github.com/magabrotheeeer/event-notifier/internal/services/events"
	subservice "github.com/magabrotheeeer/event-notifier/internal/services/subscriptions"
)

// Services сервисы, которые обслуживают маршруты.
type Services struct {
	Auth          *authservice.Service
	Events        *eventservice.Service
	Subscriptions *subservice.Service
	Dashboard     *dashboardservice.Service
	Clock         dateops.Clock
	Sizes         browseservice.Sizes
	RateLimit     rate.Limit
	RateBurst     int
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.MetricsMiddleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, s.RateLimit, s.RateBurst))

		// Открытые конечные точки
		r.Get("/health", health.New(logger).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		r.Get("/events", browse.New(logger, s.Events, s.Clock, s.Sizes).ServeHTTP)
		r.Get("/events.ics", calendar.New(logger, s.Events, s.Clock).ServeHTTP)

		// Подписка доступна и без входа: тогда нужен email
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.OptionalJWTMiddleware(s.Auth, logger))
			r.Post("/subscriptions", subscribe.New(logger, s.Subscriptions).ServeHTTP)
			r.Delete("/subscriptions", unsubscribe.New(logger, s.Subscriptions).ServeHTTP)
			r.Post("/events/{id}/subscription", subtoggle.New(logger, s.Events, s.Subscriptions).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Get("/events/mine", eventmine.New(logger, s.Events).ServeHTTP)
			r.Post("/events", save.New(logger, s.Events).ServeHTTP)
			r.Put("/events/{id}", save.New(logger, s.Events).ServeHTTP)
			r.Patch("/events/{id}", patch.New(logger, s.Events).ServeHTTP)
			r.Delete("/events/{id}", remove.New(logger, s.Events).ServeHTTP)
			r.Post("/events/{id}/toggle-publish", eventtoggle.New(logger, s.Events).ServeHTTP)
			r.Get("/subscriptions/mine", submine.New(logger, s.Events, s.Subscriptions).ServeHTTP)
			r.Get("/dashboard", dashboard.New(logger, s.Dashboard).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
