// Package browse реализует HTTP-обработчик ленты опубликованных событий
// с фильтрами и постраничной выдачей.
package browse

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/event-notifier/internal/http/response"
	"github.com/magabrotheeeer/event-notifier/internal/lib/dateops"
	"github.com/magabrotheeeer/event-notifier/internal/lib/sl"
	"github.com/magabrotheeeer/event-notifier/internal/models"
	browsesvc "github.com/magabrotheeeer/event-notifier/internal/services/browse"
)

// Service отдаёт все события.
type Service interface {
	List(ctx context.Context) ([]models.Event, error)
}

// Handler обрабатывает запросы ленты.
type Handler struct {
	log     *slog.Logger
	service Service
	clock   dateops.Clock
	sizes   browsesvc.Sizes
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, clock dateops.Clock, sizes browsesvc.Sizes) *Handler {
	return &Handler{
		log:     log,
		service: service,
		clock:   clock,
		sizes:   sizes,
	}
}

// ServeHTTP godoc
// @Summary Лента событий
// @Description Опубликованные события с фильтрами. Первая страница длиннее, следующие короче.
// @Tags Events
// @Produce  json
// @Param q query string false "Текст для поиска по имени, описанию и меткам"
// @Param category query string false "Метка или all"
// @Param status query string false "upcoming, ongoing, expired или all"
// @Param from query string false "Начало не раньше, YYYY-MM-DD"
// @Param to query string false "Окончание не позже, YYYY-MM-DD"
// @Param page query int false "Номер страницы, с 1"
// @Success 200 {object} response.Response "Страница ленты"
// @Failure 400 {object} response.ErrorResponse "Некорректный номер страницы"
// @Failure 422 {object} response.ErrorResponse "Некорректный фильтр"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /events [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.browse"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	params := r.URL.Query()
	page := 1
	if raw := params.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			log.Error("invalid page", slog.String("page", raw))
			response.RenderStatus(w, r, http.StatusBadRequest, "invalid page")
			return
		}
		page = n
	}

	q, err := ParseQuery(params)
	if err != nil {
		log.Error("invalid filter", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	events, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list events", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	result := browsesvc.Browse(events, q, page, h.sizes, dateops.Today(h.clock))
	render.JSON(w, r, response.OKWithData(result))
}

// ParseQuery собирает фильтры из параметров запроса.
func ParseQuery(params url.Values) (browsesvc.Query, error) {
	q := browsesvc.Query{
		Text:     params.Get("q"),
		Category: strings.TrimSpace(params.Get("category")),
		Status:   strings.ToLower(strings.TrimSpace(params.Get("status"))),
	}

	switch models.Status(q.Status) {
	case "", browsesvc.All, models.StatusUpcoming, models.StatusOngoing, models.StatusExpired:
	default:
		return browsesvc.Query{}, models.NewValidationError("status", "Unknown status "+q.Status)
	}

	var err error
	if raw := strings.TrimSpace(params.Get("from")); raw != "" {
		if q.From, err = dateops.Parse(raw); err != nil {
			return browsesvc.Query{}, models.NewValidationError("from", "From date must be YYYY-MM-DD")
		}
	}
	if raw := strings.TrimSpace(params.Get("to")); raw != "" {
		if q.To, err = dateops.Parse(raw); err != nil {
			return browsesvc.Query{}, models.NewValidationError("to", "To date must be YYYY-MM-DD")
		}
	}
	return q, nil
}
