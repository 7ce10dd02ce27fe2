package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/event-notifier/internal/models"
)

// CustomClaims описывает данные участника, хранящиеся в JWT.
type CustomClaims struct {
	PrincipalID string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	jwt.RegisteredClaims
}

// Principal восстанавливает участника из claims.
func (c *CustomClaims) Principal() models.Principal {
	return models.Principal{ID: c.PrincipalID, DisplayName: c.Name, Email: c.Email}
}

// GenerateToken создает JWT токен участника. Время жизни задаётся tokenTTL.
func (j *MakerImpl) GenerateToken(principal models.Principal) (string, error) {
	now := time.Now()
	claims := CustomClaims{
		PrincipalID: principal.ID,
		Name:        principal.DisplayName,
		Email:       principal.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит JWT токен, проверяет алгоритм, подпись и срок действия.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	if claims.PrincipalID == "" {
		return nil, fmt.Errorf("%s: token without principal", op)
	}
	return claims, nil
}
