package models

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized изменение чужого события или действие без входа.
	ErrUnauthorized = errors.New("not allowed")
	// ErrNotFound сущность с таким ID отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrBackendUnavailable транспорт или хранилище недоступны.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrValidationRejected хранилище отвергло запись (несовпадение схемы и т.п.).
	ErrValidationRejected = errors.New("rejected by backend")
)

// ValidationError исправимая пользователем ошибка ввода в конкретном поле.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError создаёт ошибку валидации поля.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AsValidationError достаёт ValidationError из цепочки ошибок.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
