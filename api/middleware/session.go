package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/nexora-storefront/internal/notifications"
	"github.com/angelmondragon/nexora-storefront/pkg/logger"
)

// SessionHeader carries the shopper session id in both directions.
const SessionHeader = "X-Session-Id"

const maxSessionIDLen = 128

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Session resolves the shopper session from SessionHeader, issuing a fresh id when
// the header is missing or malformed. It also attaches a toast recorder so
// handlers can return notifications raised by session stores.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(SessionHeader))
			if !validSessionID(sessionID) {
				sessionID = uuid.NewString()
			}
			w.Header().Set(SessionHeader, sessionID)

			ctx := WithSessionID(r.Context(), sessionID)
			ctx = notifications.WithRecorder(ctx, notifications.NewRecorder(nil))
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validSessionID(id string) bool {
	return id != "" && len(id) <= maxSessionIDLen && sessionIDPattern.MatchString(id)
}
