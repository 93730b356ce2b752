// Package password implements hashing and verification of account passwords.
//
// GetHash produces a bcrypt hash for storage; CompareHash checks a stored
// hash against a submitted password. Passwords are never stored in clear.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GetHash takes a raw password and returns its bcrypt hash.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash compares a stored bcrypt hash with a submitted password.
// Returns nil when they match, an error otherwise.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
