// Package middleware provides HTTP middlewares for authentication,
// rate limiting, and logging.
package middleware

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/TaskKeeper/internal/apperr"
	"github.com/atinyakov/TaskKeeper/internal/models"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "access_token"

type ctxKey string

const userKey ctxKey = "user"

// Authenticator resolves the current user from a request credential.
type Authenticator interface {
	// Authenticate returns the user named by token, or an
	// authentication failure. An empty token is always a failure.
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Auth is a middleware that enforces cookie-based session authentication.
//
// It reads the session cookie, verifies the token through the
// Authenticator, and stores the resolved *models.User in the request
// context for downstream handlers. A missing cookie, an invalid or
// expired token, and a token naming a nonexistent user all produce the
// same 401 envelope.
func Auth(auth Authenticator, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var token string
			if cookie, err := r.Cookie(CookieName); err == nil {
				token = cookie.Value
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				e := apperr.From(err)
				if e.Code == apperr.CodeInternal {
					log.Error("authentication lookup failed", zap.Error(err))
				}
				apperr.Write(w, e)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user stored by Auth.
// Returns nil if the request did not pass the middleware.
func UserFromContext(ctx context.Context) *models.User {
	val := ctx.Value(userKey)
	if u, ok := val.(*models.User); ok {
		return u
	}
	return nil
}
