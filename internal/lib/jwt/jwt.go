package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL reports how long the remote-issued bearer token stays valid.
// The token is opaque to us; when it happens to be a JWT we read the exp
// claim without verifying the signature (the remote service is the one
// that validates it), otherwise the configured fallback applies.
func TokenTTL(token string, fallback time.Duration) time.Duration {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return fallback
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return fallback
	}

	ttl := time.Until(exp.Time)
	if ttl <= 0 {
		return fallback
	}

	return ttl
}
