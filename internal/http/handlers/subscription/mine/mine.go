// Package mine отдаёт подписки текущего участника вместе с данными событий.
package mine

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
	"github.com/magabrotheeeer/event-notifier/internal/services/subscriptions"
)

// EventService отдаёт все события.
type EventService interface {
	List(ctx context.Context) ([]models.Event, error)
}

// SubscriptionService соединяет подписки с событиями.
type SubscriptionService interface {
	View(ctx context.Context, principal models.Principal, events []models.Event) ([]subscriptions.View, error)
}

// Handler обрабатывает GET /subscriptions/mine.
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
// @Summary Мои подписки
// @Description Подписки на удалённые или переименованные события показываются как "(deleted)".
// @Tags Subscriptions
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Подписки"
// @Failure 401 {object} response.ErrorResponse "Не выполнен вход"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /subscriptions/mine [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.mine"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	all, err := h.events.List(r.Context())
	if err != nil {
		log.Error("failed to list events", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	views, err := h.subs.View(r.Context(), middlewarectx.PrincipalFrom(r.Context()), all)
	if err != nil {
		log.Error("failed to build subscriptions view", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(views))
}
