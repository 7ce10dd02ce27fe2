// Package save реализует создание и полное пересохранение события из формы.
//
// Флаг draft в теле выбирает сохранение черновика или публикацию.
// Для PUT /events/{id} форма пересохраняет существующее событие владельца.
package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/event-notifier/internal/http/middlewarectx"
	"github.com/magabrotheeeer/event-notifier/internal/http/response"
	"github.com/magabrotheeeer/event-notifier/internal/lib/sl"
	"github.com/magabrotheeeer/event-notifier/internal/models"
)

// Request данные формы события.
type Request struct {
	Name           string   `json:"name" validate:"max=200"`
	Description    string   `json:"description" validate:"max=5000"`
	Location       string   `json:"location" validate:"max=200"`
	StartDate      string   `json:"start_date" example:"2025-06-01"`
	EndDate        string   `json:"end_date" example:"2025-06-03"`
	ContactEmail   string   `json:"contact_email" validate:"max=254"`
	Tags           []string `json:"tags" validate:"max=20,dive,max=50"`
	RenewalEnabled bool     `json:"renewal_enabled"`
	Draft          bool     `json:"draft"`
}

// Input переводит форму в вход сервиса.
func (req Request) Input() models.EventInput {
	return models.EventInput{
		Name:           req.Name,
		Description:    req.Description,
		Location:       req.Location,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		ContactEmail:   req.ContactEmail,
		Tags:           req.Tags,
		RenewalEnabled: req.RenewalEnabled,
	}
}

// Service описывает сохранение черновика и публикацию.
type Service interface {
	CreateDraft(ctx context.Context, principal models.Principal, in models.EventInput, editingID string) (models.Event, error)
	Publish(ctx context.Context, principal models.Principal, in models.EventInput, editingID string) (models.Event, error)
}

// Handler обрабатывает сохранение формы.
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
// @Summary Сохранить событие
// @Description POST /events создаёт событие, PUT /events/{id} пересохраняет его. draft=true сохраняет черновик, иначе публикует.
// @Tags Events
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string false "ID события (только для PUT)"
// @Param request body Request true "Форма события"
// @Success 200 {object} response.Response "Событие пересохранено"
// @Success 201 {object} response.Response "Событие создано"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Не выполнен вход"
// @Failure 403 {object} response.ErrorResponse "Чужое событие"
// @Failure 404 {object} response.ErrorResponse "Событие не найдено"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /events [post]
// @Router /events/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.event.save"
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
	editingID := chi.URLParam(r, "id")

	persist := h.service.Publish
	if req.Draft {
		persist = h.service.CreateDraft
	}
	event, err := persist(r.Context(), principal, req.Input(), editingID)
	if err != nil {
		log.Error("failed to save event", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("event saved", slog.String("id", event.ID), slog.Bool("draft", event.Draft))
	if editingID == "" {
		render.Status(r, http.StatusCreated)
	}
	render.JSON(w, r, response.OKWithData(event))
}
