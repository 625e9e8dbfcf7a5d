package rest

import (
	"net/http"
	"rental-client/internal/contextkeys"
	"rental-client/internal/core/port"
)

// SessionGuard пропускает запрос дальше только при активной (и не истёкшей) сессии.
func SessionGuard(session port.SessionPort) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := session.CurrentUser()
			if !ok {
				contextkeys.LoggerFromContext(r.Context()).Warn("Request rejected: no active session", nil)
				WriteJSONError(w, http.StatusUnauthorized, "Please sign in to continue")
				return
			}

			logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"user_id": user.ID})
			ctx := contextkeys.ContextWithLogger(r.Context(), logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
