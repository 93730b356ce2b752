// Package jwt implements generation and parsing of the signed tokens used
// by the admin console. Creator sessions use opaque tokens in Redis; only
// the separately-gated admin access is JWT-based.
package jwt

import (
	"time"
)

// Maker describes generation and parsing of admin tokens.
type Maker interface {
	// GenerateToken issues a token for the given subject and role.
	GenerateToken(username, role string) (string, error)
	// ParseToken validates a token and returns its claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl implements Maker with an HMAC secret key and a token TTL.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker creates a MakerImpl from a secret key and TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
