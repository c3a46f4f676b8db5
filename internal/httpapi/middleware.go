package httpapi

import (
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/dmitrymomot/gatekeeper/internal/store"
)

// authenticate resolves the Authorization bearer token into a caller and puts
// it on the request context. A missing or malformed header is a client error
// (400); a well-formed token that resolves to no user is an authentication
// failure (401). Authorization decisions happen later, per handler.
func (h *handlers) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, http.StatusBadRequest, "missing access token")
			return
		}

		caller, err := h.users.UserByAccessToken(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "could not authenticate user")
			return
		}

		next.ServeHTTP(w, r.WithContext(withCaller(r.Context(), caller)))
	})
}

// bearerToken extracts and validates the credential's shape: a 64-character
// hex string behind the Bearer scheme.
func bearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || len(token) != store.AccessTokenLen {
		return "", false
	}
	if _, err := hex.DecodeString(token); err != nil {
		return "", false
	}
	return token, true
}
