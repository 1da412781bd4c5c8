package handlers

import (
	"net/http"

	"github.com/SscSPs/pbc_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/pbc_workflow_app/internal/dto"
	"github.com/SscSPs/pbc_workflow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type profileHandler struct {
	profileService services.ProfileSvcFacade
}

// RegisterProfileRoutes registers routes related to profiles.
func RegisterProfileRoutes(rg *gin.RouterGroup, profileService services.ProfileSvcFacade) {
	h := &profileHandler{profileService: profileService}

	profiles := rg.Group("/profiles")
	{
		profiles.GET("/me", h.getMe)
		profiles.GET("/clients/count", h.countClients)
	}
}

// getMe godoc
// @Summary Get the caller's profile
// @Tags profiles
// @Produce  json
// @Success 200 {object} domain.Profile
// @Security BearerAuth
// @Router /profiles/me [get]
func (h *profileHandler) getMe(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, actor)
}

// countClients godoc
// @Summary Count the organization's clients
// @Description Staff only.
// @Tags profiles
// @Produce  json
// @Success 200 {object} dto.ClientCountResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /profiles/clients/count [get]
func (h *profileHandler) countClients(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	count, err := h.profileService.CountClients(c.Request.Context(), actor)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to count clients")
		return
	}
	c.JSON(http.StatusOK, dto.ClientCountResponse{Count: count})
}
