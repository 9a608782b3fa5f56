// Package security provides password hashing and session token
// issuance/verification for the authentication boundary.
package security

import "golang.org/x/crypto/bcrypt"

// bcryptCost is fixed high enough to resist offline brute force.
const bcryptCost = 12

// HashPassword produces a salted bcrypt digest of the given password.
// The salt is embedded, so two calls with the same password yield
// different hashes.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
// A malformed hash is treated as a mismatch, never an error.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
