// Package mine отдаёт события текущего участника, разложенные по вкладкам.
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
	"github.com/magabrotheeeer/event-notifier/internal/services/events"
)

// Service раскладывает события владельца по вкладкам.
type Service interface {
	OwnerTabs(ctx context.Context, principal models.Principal) (events.Tabs, error)
}

// Handler обрабатывает запрос "Мои события".
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Мои события
// @Description События участника: активные, черновики и прошедшие.
// @Tags Events
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Вкладки"
// @Failure 401 {object} response.ErrorResponse "Не выполнен вход"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /events/mine [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.mine"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal := middlewarectx.PrincipalFrom(r.Context())
	tabs, err := h.service.OwnerTabs(r.Context(), principal)
	if err != nil {
		log.Error("failed to build owner tabs", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(tabs))
}
