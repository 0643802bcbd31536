package account

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired reports whether a stored bearer token is a JWT whose expiry
// has passed. Opaque (non-JWT) tokens and tokens without an exp claim are
// treated as still valid; the server remains the authority either way.
func TokenExpired(token string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
