package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Preton24/VehicleParking/internal/api/handlers"
	"github.com/Preton24/VehicleParking/internal/domain"
	"github.com/Preton24/VehicleParking/internal/integrations/userservice"
)

const (
	// HeaderUserID идентификатор пользователя, проставляется API-шлюзом
	HeaderUserID = "X-User-ID"
	// HeaderUserRole роль пользователя (доверенный режим шлюза)
	HeaderUserRole = "X-User-Role"

	roleAdmin = "admin"

	msgMissingUserID = "отсутствует заголовок X-User-ID"
	msgInvalidUserID = "некорректный заголовок X-User-ID"
	msgUnknownUser   = "пользователь не найден"
	msgAdminOnly     = "доступно только администратору"
)

type ctxKey int

const (
	actorKey ctxKey = iota
	requestIDKey
)

// Auth проверяет X-User-ID и берёт роль из X-User-Role
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := parseUserID(w, r)
		if !ok {
			return
		}

		actor := domain.Actor{
			UserID:  userID,
			IsAdmin: strings.EqualFold(strings.TrimSpace(r.Header.Get(HeaderUserRole)), roleAdmin),
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// AuthWithResolver проверяет X-User-ID, а роль запрашивает у resolver
// Заголовок X-User-Role в этом режиме игнорируется
// При недоступности resolver пользователь считается обычным
func AuthWithResolver(resolver RoleResolver, log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := parseUserID(w, r)
			if !ok {
				return
			}

			isAdmin, err := resolver.IsAdmin(r.Context(), userID)
			if err != nil {
				if errors.Is(err, userservice.ErrUserNotFound) {
					log.Warn("Auth - Unknown user: user_id=%d", userID)
					handlers.RespondUnauthorized(w, msgUnknownUser)
					return
				}
				log.Warn("Auth - Role resolution degraded, treating as regular user: user_id=%d, error=%v", userID, err)
				isAdmin = false
			}

			actor := domain.Actor{UserID: userID, IsAdmin: isAdmin}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// RequireAdmin пропускает только администраторов, должен стоять после Auth
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}
		if !actor.IsAdmin {
			handlers.RespondForbidden(w, msgAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithActor кладёт actor в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor достаёт actor, положенный Auth
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

// GetUserID достаёт ID пользователя, положенный Auth
func GetUserID(ctx context.Context) (int64, bool) {
	actor, ok := GetActor(ctx)
	if !ok {
		return 0, false
	}
	return actor.UserID, true
}

func parseUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if raw == "" {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return 0, false
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		handlers.RespondUnauthorized(w, msgInvalidUserID)
		return 0, false
	}
	return userID, true
}
