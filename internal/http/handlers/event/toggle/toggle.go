// Package toggle переключает событие между черновиком и публикацией.
package toggle

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/event-notifier/internal/http/middlewarectx"
	"github.com/magabrotheeeer/event-notifier/internal/http/response"
	"github.com/magabrotheeeer/event-notifier/internal/lib/sl"
	"github.com/magabrotheeeer/event-notifier/internal/models"
)

// Service описывает переключение публикации.
type Service interface {
	TogglePublish(ctx context.Context, principal models.Principal, id string) (models.Event, error)
}

// Handler обрабатывает POST /events/{id}/toggle-publish.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Опубликовать или снять с публикации
// @Tags Events
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID события"
// @Success 200 {object} response.Response "Событие после переключения"
// @Failure 403 {object} response.ErrorResponse "Чужое событие"
// @Failure 404 {object} response.ErrorResponse "Событие не найдено"
// @Router /events/{id}/toggle-publish [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.toggle"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	event, err := h.service.TogglePublish(r.Context(), middlewarectx.PrincipalFrom(r.Context()), id)
	if err != nil {
		log.Error("failed to toggle publish", slog.String("id", id), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("publish toggled", slog.String("id", id), slog.Bool("published", event.Published))
	render.JSON(w, r, response.OKWithData(event))
}
