package security

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// TriggerSecretFromRequest returns the shared secret a scheduler sent,
// from either "Authorization: Bearer <secret>" or "X-Cron-Secret"
func TriggerSecretFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get("X-Cron-Secret"))
}

// SecretMatches compares two secrets in constant time
func SecretMatches(got, want string) bool {
	if got == "" || want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
