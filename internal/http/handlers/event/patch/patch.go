// Package patch реализует частичное обновление события владельцем.
// Переданные поля пишутся в хранилище, остальные не трогаются.
package patch

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/event-notifier/internal/http/middlewarectx"
	"github.com/magabrotheeeer/event-notifier/internal/http/response"
	"github.com/magabrotheeeer/event-notifier/internal/lib/dateops"
	"github.com/magabrotheeeer/event-notifier/internal/lib/sl"
	"github.com/magabrotheeeer/event-notifier/internal/models"
)

// Request частичное обновление. Отсутствующее поле не меняется.
type Request struct {
	Name           *string   `json:"name,omitempty" validate:"omitempty,max=200"`
	Description    *string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	Location       *string   `json:"location,omitempty" validate:"omitempty,max=200"`
	StartDate      *string   `json:"start_date,omitempty" example:"2025-06-01"`
	EndDate        *string   `json:"end_date,omitempty" example:"2025-06-03"`
	ContactEmail   *string   `json:"contact_email,omitempty" validate:"omitempty,max=254"`
	Tags           *[]string `json:"tags,omitempty" validate:"omitempty,max=20,dive,max=50"`
	RenewalEnabled *bool     `json:"renewal_enabled,omitempty"`
}

// Fields переводит запрос в поля обновления. Даты проверяются на формат YYYY-MM-DD.
func (req Request) Fields() (models.EventFields, error) {
	fields := models.EventFields{
		Name:           req.Name,
		Description:    req.Description,
		Location:       req.Location,
		ContactEmail:   req.ContactEmail,
		Tags:           req.Tags,
		RenewalEnabled: req.RenewalEnabled,
	}
	if req.StartDate != nil {
		d, err := dateops.Parse(strings.TrimSpace(*req.StartDate))
		if err != nil {
			return models.EventFields{}, models.NewValidationError("start_date", "Start date must be YYYY-MM-DD")
		}
		fields.StartDate = &d
	}
	if req.EndDate != nil {
		d, err := dateops.Parse(strings.TrimSpace(*req.EndDate))
		if err != nil {
			return models.EventFields{}, models.NewValidationError("end_date", "End date must be YYYY-MM-DD")
		}
		fields.EndDate = &d
	}
	return fields, nil
}

// Service описывает частичное обновление.
type Service interface {
	Update(ctx context.Context, principal models.Principal, id string, fields models.EventFields) (models.Event, error)
}

// Handler обрабатывает PATCH /events/{id}.
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
// @Summary Изменить событие
// @Description Частичное обновление: меняются только переданные поля.
// @Tags Events
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID события"
// @Param request body Request true "Изменяемые поля"
// @Success 200 {object} response.Response "Обновлённое событие"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Чужое событие"
// @Failure 404 {object} response.ErrorResponse "Событие не найдено"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /events/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.patch"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if id == "" {
		log.Error("missing id in url")
		response.RenderStatus(w, r, http.StatusBadRequest, "missing id")
		return
	}

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

	fields, err := req.Fields()
	if err != nil {
		log.Error("invalid date", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	event, err := h.service.Update(r.Context(), middlewarectx.PrincipalFrom(r.Context()), id, fields)
	if err != nil {
		log.Error("failed to update event", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("event updated", slog.String("id", event.ID))
	render.JSON(w, r, response.OKWithData(event))
}
