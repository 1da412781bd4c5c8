package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/SscSPs/pbc_workflow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// actorFromContext returns the profile ProfileMiddleware resolved for the
// request, answering 401 when it is missing.
func actorFromContext(c *gin.Context) (domain.Profile, bool) {
	profile, ok := middleware.GetProfileFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Profile not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return domain.Profile{}, false
	}
	return profile, true
}

// handleServiceError answers with the status apperrors.StatusCode picks for
// err. Client errors echo the service message; server errors answer with
// fallback only.
func handleServiceError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallback})
		return
	}

	logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	message := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, logger *slog.Logger, obj any, action string) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		logger.Warn("Failed to bind JSON for "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return false
	}
	return true
}
