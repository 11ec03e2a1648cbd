package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ngocanhle/pawshop/internal/domain"
)

// Identity headers set by the authentication collaborator in front of this
// service. The user ID is opaque; roles are a comma-separated list.
const (
	UserIDHeader    = "X-User-ID"
	UserEmailHeader = "X-User-Email"
	UserRolesHeader = "X-User-Roles"
)

// CartTokenCookie carries the per-session cart identifier.
const CartTokenCookie = "cart_token"

// WithUser extracts the authenticated user from the identity headers and
// attaches it to the request context. Requests without a user ID pass
// through as guests; the services decide which operations need one.
func WithUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(UserIDHeader)
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		user := &domain.User{
			ID:    userID,
			Email: r.Header.Get(UserEmailHeader),
			Roles: splitRoles(r.Header.Get(UserRolesHeader)),
		}

		ctx := domain.NewContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func splitRoles(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	roles := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			roles = append(roles, p)
		}
	}
	return roles
}

// WithCartToken resolves the session's cart token, minting one when the
// request carries none, and attaches it to the request context. The token
// is set as a cookie so the cart survives across requests.
func WithCartToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if cookie, err := r.Cookie(CartTokenCookie); err == nil && cookie.Value != "" {
			token = cookie.Value
		} else {
			token = uuid.New().String()
			http.SetCookie(w, &http.Cookie{
				Name:     CartTokenCookie,
				Value:    token,
				Path:     "/",
				MaxAge:   60 * 60 * 24 * 30,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := domain.NewContextWithCartToken(r.Context(), token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
