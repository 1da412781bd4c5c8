package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	portssvc "github.com/SscSPs/pbc_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/pbc_workflow_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := utils.ParseAndValidateJWT(parts[1], jwtSecret)
		if err != nil {
			logger.Warn("Invalid token", "error", err)
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		userID := claims.Subject
		if userID == "" {
			logger.Error("User ID (subject) missing from valid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), userIDKey, userID)
		ctx = WithLogger(ctx, logger.With(slog.String("user_id", userID)))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ProfileMiddleware resolves the authenticated user to a portal profile.
// It must run after AuthMiddleware.
func ProfileMiddleware(profiles portssvc.ProfileSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())
		userID, ok := GetUserIDFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		profile, err := profiles.GetProfile(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("Authenticated user has no profile")
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No portal profile for this user"})
				return
			}
			logger.Error("Failed to load profile", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
			return
		}

		ctx := WithProfile(c.Request.Context(), *profile)
		ctx = WithLogger(ctx, logger.With(slog.String("role", string(profile.Role))))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// JWTAuthenticator resolves a bearer token to a profile for connections
// that cannot go through the gin middleware chain, such as the websocket hub.
type JWTAuthenticator struct {
	Secret   string
	Profiles portssvc.ProfileSvcFacade
}

// Authenticate validates token and loads the profile of its subject.
func (a JWTAuthenticator) Authenticate(ctx context.Context, token string) (*domain.Profile, error) {
	claims, err := utils.ParseAndValidateJWT(token, a.Secret)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusUnauthorized, "invalid token", errors.Join(apperrors.ErrUnauthorized, err))
	}
	if claims.Subject == "" {
		return nil, apperrors.NewAppError(http.StatusUnauthorized, "token has no subject", apperrors.ErrUnauthorized)
	}
	return a.Profiles.GetProfile(ctx, claims.Subject)
}
