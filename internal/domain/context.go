// Package domain provides core business types and context helpers for Pawshop.
//
// Context helpers centralize request-scoped data access so the checkout and
// booking pipelines receive the authenticated user explicitly instead of
// reading ambient session state.
package domain

import (
	"context"
	"slices"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// userContextKey stores user information in context.
	userContextKey contextKey = iota

	// cartTokenContextKey stores the cart identifier for the request.
	cartTokenContextKey

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// Well-known roles supplied by the identity collaborator.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// User represents the authenticated user as supplied by the identity
// collaborator. The ID is opaque; it is only ever compared for ownership.
type User struct {
	ID    string
	Email string
	Roles []string
}

// IsStaff returns true if the user carries an admin or employee role.
func (u *User) IsStaff() bool {
	return slices.Contains(u.Roles, RoleAdmin) || slices.Contains(u.Roles, RoleEmployee)
}

// --- User Context Helpers ---

// NewContextWithUser returns a new context with the user attached.
func NewContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the user from context.
// Returns nil if no user is present.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(userContextKey).(*User)
	return user
}

// UserIDFromContext retrieves the user ID from context.
// Returns empty string if no user is present.
func UserIDFromContext(ctx context.Context) string {
	if user := UserFromContext(ctx); user != nil {
		return user.ID
	}
	return ""
}

// IsAuthenticated returns true if there is a user in context.
func IsAuthenticated(ctx context.Context) bool {
	return UserFromContext(ctx) != nil
}

// IsStaff returns true if the context user carries a staff role.
func IsStaff(ctx context.Context) bool {
	user := UserFromContext(ctx)
	return user != nil && user.IsStaff()
}

// --- Cart Token Context Helpers ---

// NewContextWithCartToken returns a new context with the cart token attached.
// The token identifies the per-session cart and is passed explicitly into the
// checkout pipeline rather than read from ambient session state.
func NewContextWithCartToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, cartTokenContextKey, token)
}

// CartTokenFromContext retrieves the cart token from context.
// Returns empty string if none is present.
func CartTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(cartTokenContextKey).(string)
	return token
}

// --- Request ID Context Helpers ---

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
