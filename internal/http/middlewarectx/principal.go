package middlewarectx

import (
	"context"

	"github.com/magabrotheeeer/event-notifier/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// PrincipalKey ключ участника в контексте.
const PrincipalKey Key = "principal"

// WithPrincipal кладёт участника в контекст.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// PrincipalFrom достаёт участника из контекста. Без входа возвращается анонимный участник.
func PrincipalFrom(ctx context.Context) models.Principal {
	p, _ := ctx.Value(PrincipalKey).(models.Principal)
	return p
}
