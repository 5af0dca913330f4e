package gate

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/myoungji/website/internal/contexthelpers"
	"github.com/myoungji/website/internal/logging"
)

// AuthenticateMiddleware marks the request context authenticated when the session has passed the gate and adds the
// session to the logging context. It must run inside the session manager's LoadAndSave.
func (g *Gate) AuthenticateMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if g.Authenticated(ctx) {
			r = contexthelpers.AuthenticateContext(r)
		}

		if token := g.sessionManager.Token(ctx); token != "" {
			// Hash token with sha256 to avoid leaking it in logs.
			tokenHash := sha256.Sum256([]byte(token))
			ctx = logging.WithAttrs(r.Context(),
				slog.String("session_hash", hex.EncodeToString(tokenHash[:])),
				slog.Bool("admin", contexthelpers.IsAuthenticated(r.Context())),
			)
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAuthenticated redirects to loginPath unless AuthenticateMiddleware marked the request authenticated.
func RequireAuthenticated(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !contexthelpers.IsAuthenticated(r.Context()) {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			// Admin pages must not be stored in caches.
			w.Header().Add("Cache-Control", "no-store")
			next.ServeHTTP(w, r)
		})
	}
}
