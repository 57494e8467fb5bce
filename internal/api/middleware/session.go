package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/google/uuid"
)

type sessionContextKey struct{}

const SessionHeader = "X-Session-ID"

var validSessionID = regexp.MustCompile(`^[A-Za-z0-9_-]{16,64}$`)

type SessionMiddleware struct {
	cfg *config.Session
}

func NewSessionMiddleware(cfg *config.Session) *SessionMiddleware {
	return &SessionMiddleware{cfg: cfg}
}

// Session makes sure every request has a guest session id. The cookie wins
// over the header; malformed ids are replaced with a fresh one. The request
// logger set up by Logging is tagged with the id.
func (m *SessionMiddleware) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		sessionID := ""
		if c, err := r.Cookie(m.cfg.CookieName); err == nil {
			sessionID = c.Value
		}

		if sessionID == "" {
			sessionID = r.Header.Get(SessionHeader)
		}

		if !validSessionID.MatchString(sessionID) {
			sessionID = uuid.NewString()
			LoggerFromContext(r.Context()).Debug("Issued new guest session")
		}

		http.SetCookie(w, &http.Cookie{
			Name:     m.cfg.CookieName,
			Value:    sessionID,
			Path:     "/",
			MaxAge:   int(m.cfg.TTL.Seconds()),
			HttpOnly: true,
			Secure:   m.cfg.Secure,
			SameSite: http.SameSiteLaxMode,
		})
		w.Header().Set(SessionHeader, sessionID)

		ctx := WithSessionID(r.Context(), sessionID)
		ctx = WithLogger(ctx, LoggerFromContext(ctx).With(slog.String("session_id", sessionID)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sessionID)
}

func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionContextKey{}).(string)
	return id
}
