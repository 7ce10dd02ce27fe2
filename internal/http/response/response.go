// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков и сопоставления ошибок
// бизнес-логики с HTTP-статусами.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/event-notifier/internal/models"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status: статус запроса ("OK" или "Error").
// Поле Error: текст ошибки (опционально, при неуспехе).
// Поле Field: поле формы, к которому относится ошибка валидации.
// Поле Data: данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Field  string `json:"field,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
	Field  string `json:"field,omitempty" example:"contact_email"`
}

const (
	// StatusOK значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too long", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

// StatusFor сопоставляет ошибку бизнес-логики HTTP-статусу.
func StatusFor(err error) int {
	if _, ok := models.AsValidationError(err); ok {
		return http.StatusUnprocessableEntity
	}
	switch {
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrValidationRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FromError формирует Response для ошибки бизнес-логики. Внутренние детали
// наружу не отдаются, кроме сообщения ошибки валидации поля.
func FromError(err error) Response {
	if ve, ok := models.AsValidationError(err); ok {
		return Response{Status: StatusError, Error: ve.Message, Field: ve.Field}
	}
	switch StatusFor(err) {
	case http.StatusForbidden:
		return Error("not allowed")
	case http.StatusNotFound:
		return Error("not found")
	case http.StatusUnprocessableEntity:
		return Error("rejected by store")
	case http.StatusServiceUnavailable:
		return Error("store is unavailable, try again later")
	default:
		return Error("internal error")
	}
}

// RenderError пишет статус и тело ответа для ошибки бизнес-логики.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, StatusFor(err))
	render.JSON(w, r, FromError(err))
}

// RenderStatus пишет ответ с ошибкой и заданным статусом.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}
