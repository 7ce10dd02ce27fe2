// Package unsubscribe снимает подписки на событие для email без учёта регистра.
// Отсутствие подписок не считается ошибкой.
package unsubscribe

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/event-notifier/internal/http/middlewarectx"
	"github.com/magabrotheeeer/event-notifier/internal/http/response"
	"github.com/magabrotheeeer/event-notifier/internal/lib/sl"
)

// Request событие и email, для которых снимается подписка.
type Request struct {
	EventName string `json:"event_name" example:"Town Fair"`
	Email     string `json:"email" example:"bob@example.com"`
}

// Service описывает отписку.
type Service interface {
	Unsubscribe(ctx context.Context, eventName, email string) (int, error)
}

// Handler обрабатывает DELETE /subscriptions.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отписаться от события
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param request body Request true "Событие и email подписчика"
// @Success 200 {object} response.Response "Количество снятых подписок"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /subscriptions [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.unsubscribe"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.RenderStatus(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		req.Email = middlewarectx.PrincipalFrom(r.Context()).Email
	}

	removed, err := h.service.Unsubscribe(r.Context(), req.EventName, req.Email)
	if err != nil {
		log.Error("failed to unsubscribe", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("unsubscribed", slog.Int("removed", removed))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"removed": removed,
	}))
}
