// Package token obtains and caches the bearer/JWT credential pair from the
// SERPRO identity provider.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credential is the token pair returned by the identity provider. Both
// tokens must accompany every operation call.
type Credential struct {
	AccessToken string `json:"access_token"`
	JWTToken    string `json:"jwt_token"`
}

// Expiry extracts the credential lifetime from the token claims without
// verifying the signature; the provider signed them, we only need exp.
// Returns the zero time when neither token carries a readable expiry, which
// the cache treats as unknown lifetime.
func (c *Credential) Expiry() time.Time {
	for _, raw := range []string{c.JWTToken, c.AccessToken} {
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
			continue
		}
		exp, err := claims.GetExpirationTime()
		if err != nil || exp == nil {
			continue
		}
		return exp.Time
	}
	return time.Time{}
}
