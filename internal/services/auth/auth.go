// Package auth выполняет вход по NTID и проверку токена сессии.
package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/event-notifier/internal/lib/jwt"
	"github.com/magabrotheeeer/event-notifier/internal/models"
)

// Service выпускает токены сессии для участников.
type Service struct {
	jwtMaker    jwt.Maker
	emailDomain string
}

// NewService создает новый экземпляр Service. emailDomain дописывается к NTID для адреса участника.
func NewService(jwtMaker jwt.Maker, emailDomain string) *Service {
	return &Service{
		jwtMaker:    jwtMaker,
		emailDomain: emailDomain,
	}
}

// PrincipalFor строит участника по NTID: ID "u_" + ntid в нижнем регистре.
func (s *Service) PrincipalFor(ntid string) (models.Principal, error) {
	ntid = strings.TrimSpace(ntid)
	if ntid == "" {
		return models.Principal{}, models.NewValidationError("ntid", "Please enter NTID")
	}
	return models.Principal{
		ID:          "u_" + strings.ToLower(ntid),
		DisplayName: ntid,
		Email:       ntid + "@" + s.emailDomain,
	}, nil
}

// Login возвращает токен и участника. Паролей нет: NTID считается достаточным.
func (s *Service) Login(_ context.Context, ntid string) (string, models.Principal, error) {
	const op = "services.auth.Login"

	principal, err := s.PrincipalFor(ntid)
	if err != nil {
		return "", models.Principal{}, err
	}
	token, err := s.jwtMaker.GenerateToken(principal)
	if err != nil {
		return "", models.Principal{}, fmt.Errorf("%s: %w", op, err)
	}
	return token, principal, nil
}

// ValidateToken проверяет токен и возвращает участника из него.
func (s *Service) ValidateToken(_ context.Context, token string) (models.Principal, error) {
	const op = "services.auth.ValidateToken"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return models.Principal{}, fmt.Errorf("%s: %w", op, err)
	}
	return claims.Principal(), nil
}
