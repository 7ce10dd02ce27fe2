package models

import (
	"strings"
	"time"
)

// Subscription связывает подписчика (email и/или principal id) с событием.
//
// EventRef хранит имя события, а не его ID: подписки переживают смену ID
// при миграции хранилищ, но "отрываются" от события при переименовании.
type Subscription struct {
	ID                    string    `json:"id"`
	EventRef              string    `json:"event_name"`
	SubscriberEmail       string    `json:"subscriber_email"`
	SubscriberPrincipalID string    `json:"subscriber_principal_id,omitempty"`
	AutoRenewal           bool      `json:"auto_renewal"`
	CreatedAt             time.Time `json:"created_at"`
}

// MatchesEmail сравнивает email подписчика без учёта регистра. Пустые адреса не совпадают.
func (s Subscription) MatchesEmail(email string) bool {
	return s.SubscriberEmail != "" && email != "" && EmailKey(s.SubscriberEmail) == EmailKey(email)
}

// MatchesPrincipal совпадение по principal id или по email.
func (s Subscription) MatchesPrincipal(p Principal) bool {
	if s.SubscriberPrincipalID != "" && p.ID != "" && s.SubscriberPrincipalID == p.ID {
		return true
	}
	return s.MatchesEmail(p.Email)
}

// SubscribeRequest данные для создания подписки в хранилище.
type SubscribeRequest struct {
	EventName   string
	Email       string
	PrincipalID string
	AutoRenewal bool
}
