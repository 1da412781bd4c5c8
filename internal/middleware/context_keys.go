package middleware

import (
	"context"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// contextKey is a private type for context keys. Using a custom type
// prevents collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
	profileKey   = contextKey("profile")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// WithProfile returns a copy of ctx carrying the participant's profile.
func WithProfile(ctx context.Context, profile domain.Profile) context.Context {
	return context.WithValue(ctx, profileKey, profile)
}

// ProfileFromCtx retrieves the participant's profile from a standard context.
func ProfileFromCtx(ctx context.Context) (domain.Profile, bool) {
	profile, ok := ctx.Value(profileKey).(domain.Profile)
	return profile, ok
}

// GetProfileFromContext retrieves the participant's profile from the Gin context.
func GetProfileFromContext(c *gin.Context) (domain.Profile, bool) {
	return ProfileFromCtx(c.Request.Context())
}
