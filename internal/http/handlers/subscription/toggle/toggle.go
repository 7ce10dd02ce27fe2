// Package toggle реализует кнопку подписки на карточке события:
// подписывает участника или снимает его подписку.
package toggle

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/event-notifier/internal/http/middlewarectx"
	"github.com/magabrotheeeer/event-notifier/internal/http/response"
	"github.com/magabrotheeeer/event-notifier/internal/lib/sl"
	"github.com/magabrotheeeer/event-notifier/internal/models"
	"github.com/magabrotheeeer/event-notifier/internal/services/subscriptions"
)

// Request email анонимного подписчика. Тело можно не передавать.
type Request struct {
	Email string `json:"email" example:"bob@example.com"`
}

// EventService ищет событие по ID.
type EventService interface {
	Get(ctx context.Context, id string) (models.Event, error)
}

// SubscriptionService переключает подписку.
type SubscriptionService interface {
	Toggle(ctx context.Context, event models.Event, principal models.Principal, email string) (subscriptions.ToggleResult, error)
}

// Handler обрабатывает POST /events/{id}/subscription.
type Handler struct {
	log    *slog.Logger
	events EventService
	subs   SubscriptionService
}

// New создает новый Handler.
func New(log *slog.Logger, events EventService, subs SubscriptionService) *Handler {
	return &Handler{log: log, events: events, subs: subs}
}

// ServeHTTP godoc
// @Summary Подписаться или отписаться
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param id path string true "ID события"
// @Param request body Request false "Email анонимного подписчика"
// @Success 200 {object} response.Response "Итог переключения"
// @Failure 404 {object} response.ErrorResponse "Событие не найдено"
// @Failure 422 {object} response.ErrorResponse "Нужен email"
// @Router /events/{id}/subscription [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.toggle"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request body", sl.Err(err))
		response.RenderStatus(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	id := chi.URLParam(r, "id")
	event, err := h.events.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to get event", slog.String("id", id), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	result, err := h.subs.Toggle(r.Context(), event, middlewarectx.PrincipalFrom(r.Context()), req.Email)
	if err != nil {
		log.Error("failed to toggle subscription", slog.String("event", event.Name), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("subscription toggled", slog.String("event", event.Name), slog.Bool("subscribed", result.Subscribed))
	render.JSON(w, r, response.OKWithData(result))
}
