// Package subscribe реализует подписку на событие по имени.
//
// Анонимный подписчик передаёт email, вошедший участник может его опустить:
// тогда используется email из токена. Повторная подписка возвращает существующую.
package subscribe

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/event-notifier/internal/http/middlewarectx"
	"github.com/magabrotheeeer/event-notifier/internal/http/response"
	"github.com/magabrotheeeer/event-notifier/internal/lib/sl"
	"github.com/magabrotheeeer/event-notifier/internal/models"
)

// Request данные подписки. auto_renewal по умолчанию включено.
type Request struct {
	EventName   string `json:"event_name" validate:"max=200" example:"Town Fair"`
	Email       string `json:"email" validate:"max=254" example:"bob@example.com"`
	AutoRenewal *bool  `json:"auto_renewal,omitempty"`
}

// Service описывает создание подписки.
type Service interface {
	Subscribe(ctx context.Context, eventName, email, principalID string, autoRenewal bool) (models.Subscription, error)
}

// Handler обрабатывает POST /subscriptions.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подписаться на событие
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param request body Request true "Событие и email подписчика"
// @Success 200 {object} response.Response "Подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.subscribe"
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
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	principal := middlewarectx.PrincipalFrom(r.Context())
	email := req.Email
	if email == "" {
		email = principal.Email
	}
	autoRenewal := true
	if req.AutoRenewal != nil {
		autoRenewal = *req.AutoRenewal
	}

	sub, err := h.service.Subscribe(r.Context(), req.EventName, email, principal.ID, autoRenewal)
	if err != nil {
		log.Error("failed to subscribe", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("subscription ready", slog.String("id", sub.ID))
	render.JSON(w, r, response.OKWithData(sub))
}
