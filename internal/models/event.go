// Package models содержит доменные структуры доски объявлений о событиях:
// событие, подписку, участника (principal) и таксономию ошибок.
// Структуры используются бизнес-логикой, хранилищами и HTTP-слоем.
package models

import (
	"time"

	"github.com/magabrotheeeer/event-notifier/internal/lib/dateops"
)

// Status производный статус события по датам.
type Status string

const (
	// StatusUpcoming событие ещё не началось.
	StatusUpcoming Status = "upcoming"
	// StatusOngoing событие идёт сегодня.
	StatusOngoing Status = "ongoing"
	// StatusExpired дата окончания уже прошла.
	StatusExpired Status = "expired"
)

// Event каноническая запись события, к которой приводятся строки любых хранилищ.
//
// Status никогда не хранится как истина: он пересчитывается при каждом чтении.
// Published и Draft взаимоисключающие после любой записи жизненного цикла.
type Event struct {
	ID              string       `json:"id"`
	OwnerID         string       `json:"owner_id"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Location        string       `json:"location"`
	StartDate       dateops.Date `json:"start_date"`
	EndDate         dateops.Date `json:"end_date"`
	Tags            []string     `json:"tags"`
	ContactEmail    string       `json:"contact_email"`
	RenewalEnabled  bool         `json:"renewal_enabled"`
	Published       bool         `json:"published"`
	Draft           bool         `json:"draft"`
	Status          Status       `json:"status"`
	CreatedAt       time.Time    `json:"created_at"`
	LastPublishedAt *time.Time   `json:"last_published_at,omitempty"`
}

// HasTag сообщает, есть ли у события метка tag (точное совпадение).
func (e Event) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Visible событие опубликовано и не является черновиком.
func (e Event) Visible() bool {
	return e.Published && !e.Draft
}

// EventInput данные формы создания/публикации события.
// Даты приходят строками и проверяются на формат YYYY-MM-DD при валидации.
type EventInput struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Location       string   `json:"location"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	ContactEmail   string   `json:"contact_email"`
	Tags           []string `json:"tags"`
	RenewalEnabled bool     `json:"renewal_enabled"`
}

// EventFields частичное обновление события. nil означает "поле не передано"
// и не должно попасть в запрос к хранилищу.
type EventFields struct {
	Name            *string
	Description     *string
	Location        *string
	StartDate       *dateops.Date
	EndDate         *dateops.Date
	Tags            *[]string
	ContactEmail    *string
	RenewalEnabled  *bool
	Published       *bool
	Draft           *bool
	LastPublishedAt *time.Time
}

// IsEmpty сообщает, что ни одно поле не передано.
func (f EventFields) IsEmpty() bool {
	return f == EventFields{}
}

// Apply накладывает переданные поля на копию события.
func (f EventFields) Apply(e Event) Event {
	if f.Name != nil {
		e.Name = *f.Name
	}
	if f.Description != nil {
		e.Description = *f.Description
	}
	if f.Location != nil {
		e.Location = *f.Location
	}
	if f.StartDate != nil {
		e.StartDate = *f.StartDate
	}
	if f.EndDate != nil {
		e.EndDate = *f.EndDate
	}
	if f.Tags != nil {
		e.Tags = append([]string(nil), (*f.Tags)...)
	}
	if f.ContactEmail != nil {
		e.ContactEmail = *f.ContactEmail
	}
	if f.RenewalEnabled != nil {
		e.RenewalEnabled = *f.RenewalEnabled
	}
	if f.Published != nil {
		e.Published = *f.Published
	}
	if f.Draft != nil {
		e.Draft = *f.Draft
	}
	if f.LastPublishedAt != nil {
		t := *f.LastPublishedAt
		e.LastPublishedAt = &t
	}
	return e
}

// FetchFilter параметры выборки событий из хранилища.
// При OnlyUpcoming возвращаются события с датой начала не раньше Today.
type FetchFilter struct {
	OnlyUpcoming bool
	Today        dateops.Date
	Limit        int
}

// DefaultFetchLimit используется, когда Limit не задан.
const DefaultFetchLimit = 1000

// EffectiveLimit возвращает Limit или DefaultFetchLimit.
func (f FetchFilter) EffectiveLimit() int {
	if f.Limit <= 0 {
		return DefaultFetchLimit
	}
	return f.Limit
}
