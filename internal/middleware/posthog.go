package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/pbc_workflow_app/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health": true,
	"/ws":     true,
}

// PosthogMiddleware tracks successful API calls of authenticated participants.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if posthogClient == nil || !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		profile, ok := GetProfileFromContext(c)
		if !ok {
			return
		}

		// "/api/v1/pbc/:id/transition" -> "api_v1_pbc_:id_transition"
		eventName := strings.ReplaceAll(strings.TrimPrefix(c.FullPath(), "/"), "/", "_")
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":          c.Request.Method,
			"status_code":     c.Writer.Status(),
			"role":            string(profile.Role),
			"organization_id": profile.OrganizationID,
		}
		if id := c.Param("id"); id != "" {
			props["resource_id"] = id
		}
		posthogClient.Enqueue(profile.UserID, eventName, props)
	}
}
