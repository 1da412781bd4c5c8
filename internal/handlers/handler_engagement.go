package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/pbc_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/pbc_workflow_app/internal/dto"
	"github.com/SscSPs/pbc_workflow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// engagementHandler handles HTTP requests related to engagements.
type engagementHandler struct {
	engagementService services.EngagementSvcFacade
}

func newEngagementHandler(es services.EngagementSvcFacade) *engagementHandler {
	return &engagementHandler{engagementService: es}
}

// RegisterEngagementRoutes registers routes related to engagements.
func RegisterEngagementRoutes(rg *gin.RouterGroup, engagementService services.EngagementSvcFacade) {
	h := newEngagementHandler(engagementService)

	engagements := rg.Group("/engagements")
	{
		engagements.GET("", h.listEngagements)
		engagements.POST("", h.createEngagement)
		engagements.GET("/client", h.listClientEngagements)
		engagements.GET("/:id", h.getEngagement)
	}
}

// listEngagements godoc
// @Summary List engagements
// @Description Lists the organization's engagements for staff, or the client's own engagements for clients
// @Tags engagements
// @Produce  json
// @Success 200 {object} dto.ListEngagementsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list engagements"
// @Security BearerAuth
// @Router /engagements [get]
func (h *engagementHandler) listEngagements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	engagements, err := h.engagementService.ListEngagements(c.Request.Context(), actor)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list engagements")
		return
	}

	logger.Info("Engagements listed successfully", slog.Int("count", len(engagements)))
	c.JSON(http.StatusOK, dto.ToListEngagementsResponse(engagements))
}

// listClientEngagements godoc
// @Summary List the client's engagements
// @Description Lists the engagements of the client the caller acts for
// @Tags engagements
// @Produce  json
// @Success 200 {object} dto.ListEngagementsResponse
// @Failure 403 {object} map[string]string "Caller is not a client"
// @Failure 500 {object} map[string]string "Failed to list engagements"
// @Security BearerAuth
// @Router /engagements/client [get]
func (h *engagementHandler) listClientEngagements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	engagements, err := h.engagementService.ListClientEngagements(c.Request.Context(), actor)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list client engagements")
		return
	}

	c.JSON(http.StatusOK, dto.ToListEngagementsResponse(engagements))
}

// getEngagement godoc
// @Summary Get an engagement
// @Tags engagements
// @Produce  json
// @Param   id path string true "Engagement ID"
// @Success 200 {object} domain.Engagement
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Engagement not found"
// @Security BearerAuth
// @Router /engagements/{id} [get]
func (h *engagementHandler) getEngagement(c *gin.Context) {
	engagementID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("engagement_id", engagementID))
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	engagement, err := h.engagementService.GetEngagement(c.Request.Context(), actor, engagementID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to retrieve engagement")
		return
	}

	c.JSON(http.StatusOK, engagement)
}

// createEngagement godoc
// @Summary Create an engagement
// @Description Creates an engagement in the caller's organization. Staff only.
// @Tags engagements
// @Accept  json
// @Produce  json
// @Param   engagement body dto.CreateEngagementRequest true "Engagement details"
// @Success 201 {object} domain.Engagement
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to create engagement"
// @Security BearerAuth
// @Router /engagements [post]
func (h *engagementHandler) createEngagement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateEngagementRequest
	if !bindJSON(c, logger, &req, "CreateEngagement") {
		return
	}

	logger.Info("Received request to create engagement", slog.String("client_id", req.ClientID))
	engagement, err := h.engagementService.CreateEngagement(c.Request.Context(), actor, req)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to create engagement")
		return
	}

	logger.Info("Engagement created successfully", slog.String("engagement_id", engagement.EngagementID))
	c.JSON(http.StatusCreated, engagement)
}
