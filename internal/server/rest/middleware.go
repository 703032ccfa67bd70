package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/chatauth/internal/common"
	"github.com/dmitrijs2005/chatauth/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the id put there by the auth gate.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// authGate requires "Authorization: Bearer <token>" and attaches the token's
// user id to the request context. It does not touch the store.
func (s *HTTPServer) authGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)

		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			writeMessage(w, http.StatusUnauthorized, MsgNoToken)
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			s.logger.Debug(r.Context(), "token rejected", "error", err)
			writeMessage(w, http.StatusUnauthorized, MsgTokenFailed)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}
