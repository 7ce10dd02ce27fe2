// Package calendar отдаёт опубликованные события в формате iCalendar.
package calendar

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/event-notifier/internal/http/response"
	"github.com/magabrotheeeer/event-notifier/internal/lib/dateops"
	"github.com/magabrotheeeer/event-notifier/internal/lib/ics"
	"github.com/magabrotheeeer/event-notifier/internal/lib/sl"
	"github.com/magabrotheeeer/event-notifier/internal/models"
)

// CalendarName X-WR-CALNAME выгрузки.
const CalendarName = "Events"

// Service отдаёт все события.
type Service interface {
	List(ctx context.Context) ([]models.Event, error)
}

// Handler обрабатывает запрос выгрузки.
type Handler struct {
	log     *slog.Logger
	service Service
	clock   dateops.Clock
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, clock dateops.Clock) *Handler {
	return &Handler{log: log, service: service, clock: clock}
}

// ServeHTTP godoc
// @Summary Календарь событий
// @Description Опубликованные события как целодневные VEVENT.
// @Tags Events
// @Produce  text/calendar
// @Success 200 {string} string "Календарь"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /events.ics [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.calendar"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	events, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list events", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="events.ics"`)
	if _, err := w.Write([]byte(ics.Calendar(events, CalendarName, h.clock.Now()))); err != nil {
		log.Error("failed to write calendar", sl.Err(err))
	}
}
