// Package credentials persists the opaque bearer token the transport
// attaches to requests. Stores never validate signatures; they only refuse
// to hand back a JWT whose exp has already passed, so dead credentials are
// dropped instead of sent.
package credentials

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// expired reports whether raw is a JWT with an exp claim in the past.
// Opaque (non-JWT) tokens are never considered expired client-side.
func expired(raw string, now time.Time) bool {
	if strings.Count(raw, ".") != 2 {
		return false
	}
	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
