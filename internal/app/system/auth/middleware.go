package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/opencurio/resourcehub/internal/domain/models"
)

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the authenticated identity and a found flag.
func CurrentUser(r *http.Request) (Claims, bool) {
	c, ok := r.Context().Value(currentUserKey).(Claims)
	return c, ok
}

// WithUser injects an identity into the request context. Exported for
// handler tests that bypass the bearer middleware.
func WithUser(r *http.Request, c Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, c))
}

// LoadBearerUser verifies an Authorization: Bearer token, if present, and
// injects its claims into the context. Requests without a token pass
// through anonymous; a present-but-invalid token is rejected here so
// downstream handlers never see forged claims.
func LoadBearerUser(issuer TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := issuer.Verify(raw)
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, WithUser(r, claims))
		})
	}
}

// RequireUser ensures the request carries an authenticated identity.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin ensures the request carries an admin identity. Not signed in
// is 401; signed in without the admin role is 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := CurrentUser(r)
		if !ok {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		if c.Role != models.RoleAdmin {
			http.Error(w, "admin access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
