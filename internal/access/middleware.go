package access

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"procurement/internal/apperr"
	"procurement/internal/respond"
	"procurement/models"
)

var tracer = otel.Tracer("access")

// VendorResolver находит карточку поставщика, принадлежащую пользователю
type VendorResolver interface {
	VendorIDForUser(ctx context.Context, userID int) (int, error)
}

// Authenticate пропускает дальше только запросы с валидным Bearer-токеном
func Authenticate(tokens *Tokens, vendors VendorResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracer.Start(r.Context(), "Access.Authenticate")
			defer span.End()

			header := r.Header.Get("Authorization")
			scheme, raw, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || raw == "" {
				span.RecordError(errors.New("missing bearer token"))
				respond.Error(w, r, logger, apperr.Unauthorized())
				return
			}

			actor, err := tokens.Parse(strings.TrimSpace(raw))
			if err != nil {
				span.RecordError(errors.Wrap(err, "Access.Authenticate: tokens.Parse failed"))
				respond.Error(w, r, logger, apperr.Unauthorized())
				return
			}

			if actor.Role == models.RoleVendor && vendors != nil {
				vendorID, err := vendors.VendorIDForUser(ctx, actor.UserID)
				if err != nil {
					respond.Error(w, r, logger, errors.Wrap(err, "resolve vendor"))
					return
				}
				actor.VendorID = vendorID
			}

			span.SetAttributes(
				attribute.Int("actor.user_id", actor.UserID),
				attribute.String("actor.role", string(actor.Role)),
			)
			next.ServeHTTP(w, r.WithContext(WithActor(ctx, actor)))
		})
	}
}

// RequireRoles отклоняет запрос, если роли участника нет в списке
func RequireRoles(logger *slog.Logger, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := FromContext(r.Context())
			if !ok {
				respond.Error(w, r, logger, apperr.Unauthorized())
				return
			}
			if !actor.HasRole(roles...) {
				respond.Error(w, r, logger, apperr.Forbidden())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
