// Package login реализует HTTP-обработчик входа по NTID.
//
// Паролей нет: обработчик принимает NTID, получает от сервиса подписанный токен
// и участника и возвращает их в JSON.
package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/event-notifier/internal/http/response"
	"github.com/magabrotheeeer/event-notifier/internal/lib/sl"
	"github.com/magabrotheeeer/event-notifier/internal/models"
)

// Request структура входных данных для входа.
type Request struct {
	NTID string `json:"ntid" validate:"max=64"`
}

// Handler обрабатывает HTTP-запросы для входа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики входа.
type Service interface {
	Login(ctx context.Context, ntid string) (string, models.Principal, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход по NTID
// @Description Возвращает JWT и участника, от имени которого выполняются остальные запросы.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "NTID пользователя"
// @Success 200 {object} response.Response "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Пустой NTID"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
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

	token, principal, err := h.service.Login(r.Context(), req.NTID)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("login success", slog.String("principal", principal.ID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token":     token,
		"principal": principal,
	}))
}
