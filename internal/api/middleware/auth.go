package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// UserIDHeader заголовок с идентификатором пользователя, проставляется
// вышестоящим API gateway после проверки токена
const UserIDHeader = "X-User-ID"

type contextKey string

const userIDKey contextKey = "userID"

// Auth извлекает идентификатор пользователя из заголовка и кладет его
// в контекст запроса. Запрос без валидного заголовка отклоняется.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			respondUnauthorized(w, "отсутствует заголовок "+UserIDHeader)
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil {
			respondUnauthorized(w, "некорректный идентификатор пользователя")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID возвращает идентификатор пользователя из контекста запроса
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDKey).(uuid.UUID)
	return userID, ok
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}
