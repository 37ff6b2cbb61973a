package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"icbridge/pkg/requestcontext"
)

// SecretVerifier decides whether a presented access secret is acceptable.
// Deployments that want more than a shared secret can plug in their own
// implementation without touching the middleware.
type SecretVerifier interface {
	Verify(secret string) error
}

// StaticSecret verifies against a single configured value using a
// constant-time comparison.
type StaticSecret struct {
	Secret string
}

func (s StaticSecret) Verify(secret string) error {
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.Secret)) != 1 {
		return errInvalidSecret
	}
	return nil
}

var errInvalidSecret = &secretError{"Invalid token"}

type secretError struct{ msg string }

func (e *secretError) Error() string { return e.msg }

// RequireSecret guards routes behind a bearer access secret. A nil verifier
// disables the check, matching deployments that run without access control.
func RequireSecret(verifier SecretVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeSecretError(w, "Authorization header is missing")
				return
			}

			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				writeSecretError(w, "Invalid authentication scheme")
				return
			}

			if err := verifier.Verify(token); err != nil {
				logger.WarnContext(r.Context(), "rejected request with invalid access secret",
					"request_id", requestcontext.RequestID(r.Context()),
					"path", r.URL.Path,
				)
				writeSecretError(w, err.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeSecretError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": "Authentication failed: " + msg,
	})
}
