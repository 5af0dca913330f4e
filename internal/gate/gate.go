// Package gate guards the administrator pages with a single shared secret.
package gate

import (
	"context"
	"crypto/subtle"
	"log/slog"

	"github.com/alexedwards/scs/v2"
	"github.com/myoungji/website/internal/errors"
)

var ErrNoSecret = errors.NewSentinel("admin secret not configured")

type Gate struct {
	logger         *slog.Logger
	secret         []byte
	sessionManager *scs.SessionManager
}

func New(secret string, sessionManager *scs.SessionManager, logger *slog.Logger) (*Gate, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Gate{
		logger:         logger,
		secret:         []byte(secret),
		sessionManager: sessionManager,
	}, nil
}

// Attempt compares secret with the configured one. On a match the session token is renewed and the session is
// marked authenticated until it expires or Logout is called. There is no lockout.
func (g *Gate) Attempt(ctx context.Context, secret string) (bool, error) {
	if subtle.ConstantTimeCompare([]byte(secret), g.secret) != 1 {
		g.logger.LogAttrs(ctx, slog.LevelWarn, "admin login failed")
		return false, nil
	}
	// Renew the token to prevent session fixation.
	if err := g.sessionManager.RenewToken(ctx); err != nil {
		return false, errors.Wrap(err, "renew session token")
	}
	g.sessionManager.Put(ctx, string(authenticatedSessionKey), true)
	g.logger.LogAttrs(ctx, slog.LevelInfo, "admin logged in")
	return true, nil
}

// Logout clears the authenticated flag and renews the session token.
func (g *Gate) Logout(ctx context.Context) error {
	g.sessionManager.Remove(ctx, string(authenticatedSessionKey))
	if err := g.sessionManager.RenewToken(ctx); err != nil {
		return errors.Wrap(err, "renew session token")
	}
	return nil
}

// Authenticated reports whether the session behind ctx has passed the gate.
func (g *Gate) Authenticated(ctx context.Context) bool {
	return g.sessionManager.GetBool(ctx, string(authenticatedSessionKey))
}
