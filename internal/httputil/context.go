package httputil

import (
	"context"
	"net/http"

	"docshare/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const userKey contextKey = "user"

// WithUser adds the resolved user record to the request context
func WithUser(r *http.Request, user *models.User) *http.Request {
	ctx := context.WithValue(r.Context(), userKey, user)
	return r.WithContext(ctx)
}

// GetUser retrieves the resolved user from context, or nil for
// anonymous requests
func GetUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userKey).(*models.User)
	return user
}

// CallerIdentity returns the caller's identity; the anonymous identity
// when no user was resolved.
func CallerIdentity(r *http.Request) models.Identity {
	return GetUser(r).Identity()
}
