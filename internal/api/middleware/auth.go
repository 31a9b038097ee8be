package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-AssistanceService/internal/api/handlers"
	"github.com/m04kA/SMC-AssistanceService/internal/domain"
)

// Заголовки, которые выставляет внешний слой авторизации. Им доверяем как есть.
const (
	HeaderUserID = "X-User-ID"
	HeaderAdmin  = "X-Admin"
)

const msgMissingUserID = "отсутствует ID пользователя"

type callerKey struct{}

// WithCaller кладёт вызывающего в контекст
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext возвращает вызывающего; ok=false для анонимного запроса
func CallerFromContext(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(domain.Caller)
	return caller, ok
}

// Identify читает заголовки авторизации, если они есть, и не отклоняет анонимные запросы
func Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if caller, ok := callerFromHeaders(r); ok {
			r = r.WithContext(WithCaller(r.Context(), caller))
		}
		next.ServeHTTP(w, r)
	})
}

// Auth требует X-User-ID; запросы без него получают 401
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := CallerFromContext(r.Context())
		if !ok {
			caller, ok = callerFromHeaders(r)
		}
		if !ok {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

func callerFromHeaders(r *http.Request) (domain.Caller, bool) {
	userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if userID == "" {
		return domain.Caller{}, false
	}
	isAdmin, _ := strconv.ParseBool(r.Header.Get(HeaderAdmin))
	return domain.Caller{UserID: userID, IsAdmin: isAdmin}, true
}
