// Package dashboard отдаёт сводку для главной страницы участника.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/event-notifier/internal/http/middlewarectx"
	"github.com/magabrotheeeer/event-notifier/internal/http/response"
	"github.com/magabrotheeeer/event-notifier/internal/lib/sl"
	"github.com/magabrotheeeer/event-notifier/internal/models"
	dashboardsvc "github.com/magabrotheeeer/event-notifier/internal/services/dashboard"
)

// Service строит сводку.
type Service interface {
	Summary(ctx context.Context, principal models.Principal) (dashboardsvc.Summary, error)
}

// Handler обрабатывает GET /dashboard.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сводка участника
// @Description Счётчики событий и подписок, ближайшие продления и последние подписки.
// @Tags Dashboard
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Сводка"
// @Failure 401 {object} response.ErrorResponse "Не выполнен вход"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	summary, err := h.service.Summary(r.Context(), middlewarectx.PrincipalFrom(r.Context()))
	if err != nil {
		log.Error("failed to build dashboard", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(summary))
}
