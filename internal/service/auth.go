// Package service provides business-logic services for authentication and
// task management, delegating persistence to repository interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atinyakov/TaskKeeper/internal/apperr"
	"github.com/atinyakov/TaskKeeper/internal/models"
	"github.com/atinyakov/TaskKeeper/internal/repository"
	"github.com/atinyakov/TaskKeeper/internal/security"
)

// UserRepository defines the persistence operations required by the AuthService.
type UserRepository interface {
	// Create inserts a new user and returns the stored row.
	// A duplicate email yields repository.ErrDuplicateEmail.
	Create(ctx context.Context, email, passwordHash string) (*models.User, error)
	// GetByEmail fetches a user by email, or repository.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByID fetches a user by id, or repository.ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AuthService implements signup, signin, and the authentication/
// authorization guard used by every protected operation.
type AuthService struct {
	repo     UserRepository
	codec    *security.TokenCodec
	tokenTTL time.Duration
}

// NewAuthService constructs a new AuthService using the provided repository
// and token codec. tokenTTL bounds the lifetime of issued session tokens.
func NewAuthService(repo UserRepository, codec *security.TokenCodec, tokenTTL time.Duration) *AuthService {
	return &AuthService{repo: repo, codec: codec, tokenTTL: tokenTTL}
}

// TokenTTL returns the configured session token lifetime.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

// Signup creates a user with the given credentials and returns the stored
// user together with a freshly issued session token. The email is
// normalized to lower case before storage. A taken email yields a
// conflict failure whose message does not confirm the address exists.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*models.User, string, error) {
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, normalizeEmail(email), hash)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", apperr.Conflict("Account creation failed")
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.codec.Issue(user.ID, s.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Signin verifies the credentials and returns the user and a new session
// token. An unknown email and a wrong password produce the identical
// failure so responses cannot be used to enumerate accounts.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", apperr.Unauthorized("Invalid credentials")
		}
		return nil, "", fmt.Errorf("get user: %w", err)
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, "", apperr.Unauthorized("Invalid credentials")
	}

	token, err := s.codec.Issue(user.ID, s.tokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Authenticate resolves the current user from a request credential.
// An absent token, a token the codec rejects for any reason, and a
// subject that does not resolve to a stored user all produce the same
// authentication failure; the cause is never surfaced to the caller.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperr.Unauthorized("")
	}

	subject, err := s.codec.Verify(token)
	if err != nil {
		return nil, apperr.Unauthorized("")
	}

	user, err := s.repo.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// AuthorizeOwner enforces that the path-addressed resource owner is the
// authenticated caller. This is a pure equality check: no roles, no
// hierarchy, no delegation.
func AuthorizeOwner(resourceOwnerID uuid.UUID, current *models.User) error {
	if resourceOwnerID != current.ID {
		return apperr.Forbidden("")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
