package http

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/TaskKeeper/internal/middleware"
	"github.com/atinyakov/TaskKeeper/internal/models"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Signup creates a user and returns it with a fresh session token.
	Signup(ctx context.Context, email, password string) (*models.User, string, error)
	// Signin verifies credentials and returns the user with a fresh
	// session token.
	Signin(ctx context.Context, email, password string) (*models.User, string, error)
	// TokenTTL returns the configured session token lifetime.
	TokenTTL() time.Duration
}

// AuthHandler handles HTTP requests for signup, signin, and signout.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Log is used for unhandled failures.
	Log *zap.Logger
}

// signupRequest represents the JSON payload for account creation.
type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// signinRequest represents the JSON payload for signing in.
type signinRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// userResponse is the client-visible projection of a user.
type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// authResponse is returned by signup and signin.
type authResponse struct {
	User        userResponse `json:"user"`
	AccessToken string       `json:"access_token"`
}

// Signup handles POST /api/auth/signup.
// On success it responds 201 with the user and token and sets the
// session cookie. A taken email yields 409.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, token, err := h.AuthService.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, h.Log, err)
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, authResponse{
		User:        userResponse{ID: user.ID.String(), Email: user.Email},
		AccessToken: token,
	})
}

// Signin handles POST /api/auth/signin.
// Responds 200 with the same shape as signup; bad credentials yield 401.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, token, err := h.AuthService.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, h.Log, err)
		return
	}

	h.setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, authResponse{
		User:        userResponse{ID: user.ID.String(), Email: user.Email},
		AccessToken: token,
	})
}

// Signout handles POST /api/auth/signout. It requires a valid session
// (enforced by the auth middleware) and clears the session cookie.
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.AuthService.TokenTTL().Seconds()),
	})
}
