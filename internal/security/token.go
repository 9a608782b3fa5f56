package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Sentinel causes kept distinct for tests; callers at the request boundary
// collapse all of them into a single authentication failure.
var (
	// ErrTokenInvalid covers bad signatures, malformed tokens, and
	// algorithm mismatches.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired marks a token whose expiry is in the past.
	ErrTokenExpired = errors.New("token expired")
	// ErrBadSubject marks a token whose subject is absent or not a UUID.
	ErrBadSubject = errors.New("token subject is not a valid user id")
)

// TokenCodec issues and verifies signed, expiring session tokens bound to
// a user identity. Tokens are HS256 JWTs with the user id in the "sub"
// claim. The secret is loaded once at process start and never mutated;
// rotating it invalidates every outstanding token.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec constructs a codec around the process-wide signing secret.
func NewTokenCodec(secret []byte) *TokenCodec {
	return &TokenCodec{secret: secret}
}

// Issue returns a signed, URL-safe token naming subject and expiring
// after ttl.
func (c *TokenCodec) Issue(subject uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates tokenString and returns the subject user id.
// It fails on an invalid signature, expiry in the past, a declared
// algorithm other than HS256, or a subject that is not a valid UUID.
func (c *TokenCodec) Verify(tokenString string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return c.secret, nil },
		// Rejecting any other declared algorithm closes off
		// algorithm-confusion forgeries.
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrTokenExpired
		}
		return uuid.Nil, ErrTokenInvalid
	}
	if !token.Valid {
		return uuid.Nil, ErrTokenInvalid
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil || subject == uuid.Nil {
		return uuid.Nil, ErrBadSubject
	}
	return subject, nil
}
