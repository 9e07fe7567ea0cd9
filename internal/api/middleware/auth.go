package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type userKeyType string

const UserIDKey userKeyType = "user_id"

// TokenVerifier checks a session token and returns its subject.
type TokenVerifier interface {
	VerifyToken(token string) (uuid.UUID, error)
}

// Auth validates a Bearer token via the verifier and adds the user id to
// the request context.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			userID, err := verifier.VerifyToken(strings.TrimSpace(ah[len("Bearer "):]))
			if err != nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID returns the authenticated user id, or uuid.Nil outside an
// authenticated request (the open variant runs every task route that way).
func GetUserID(ctx context.Context) uuid.UUID {
	if v := ctx.Value(UserIDKey); v != nil {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
