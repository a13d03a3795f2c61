package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/medtrack/bp-monitor/internal/domain"
)

type ctxKey string

const sessionKey ctxKey = "session"

// sessionContext resolves the Bearer token to a session and rejects the
// request outright when there is none: every route behind this middleware
// requires an authenticated interaction.
func (s *Server) sessionContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}

		sess, err := s.auth.Resolve(r.Context(), token)
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, *sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin gates administrator-only routes.
func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := sessionFrom(r.Context())
		if !ok || !sess.IsAdmin() {
			writeError(w, r, http.StatusForbidden, "administrator role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionFrom(ctx context.Context) (domain.Session, bool) {
	v := ctx.Value(sessionKey)
	if v == nil {
		return domain.Session{}, false
	}
	sess, ok := v.(domain.Session)
	return sess, ok
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
