package access

import (
	"context"

	"procurement/models"
)

// Actor - аутентифицированный участник запроса
type Actor struct {
	UserID   int
	Role     models.Role
	VendorID int // 0, если у пользователя нет карточки поставщика
}

type ctxKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(Actor)
	return a, ok
}

func (a Actor) HasRole(roles ...models.Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

func (a Actor) IsStaff() bool { return a.Role.IsStaff() }
