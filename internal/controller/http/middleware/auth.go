package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/nikandjur/users-backend-test/internal/adapter/token"
	"github.com/nikandjur/users-backend-test/internal/entity"
)

// ctxKey - собственный тип ключа контекста, чтобы не пересекаться с чужими
type ctxKey int

const (
	identityKey ctxKey = iota
	requestIDKey
)

// Authenticate - middleware аутентификации по Bearer токену
// Кладет личность пользователя в контекст запроса
func Authenticate(tokens token.JWTToken) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			// Ожидаем формат "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			identity, err := tokens.Verify(parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin - middleware допускает только администраторов
// Подключается после Authenticate
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !identity.Role.IsAdmin() {
			writeError(w, http.StatusForbidden, "Access denied: Admins only")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// IdentityFromContext - извлечение личности пользователя из контекста
func IdentityFromContext(ctx context.Context) (entity.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(entity.Identity)
	return identity, ok
}

// writeError пишет ошибку в JSON
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
