package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/SscSPs/pbc_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/pbc_workflow_app/internal/dto"
	"github.com/SscSPs/pbc_workflow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// checklistHandler handles HTTP requests related to engagement checklists.
type checklistHandler struct {
	checklistService services.ChecklistSvcFacade
}

// RegisterChecklistRoutes registers routes related to checklists.
func RegisterChecklistRoutes(rg *gin.RouterGroup, checklistService services.ChecklistSvcFacade) {
	h := &checklistHandler{checklistService: checklistService}

	rg.GET("/engagements/:id/checklist", h.listChecklist)
	rg.POST("/engagements/:id/checklist", h.createChecklistItem)
	rg.PATCH("/checklist/:itemID", h.updateChecklistItem)
}

// listChecklist godoc
// @Summary List an engagement's checklist
// @Tags checklist
// @Produce  json
// @Param   id path string true "Engagement ID"
// @Success 200 {object} dto.ListChecklistItemsResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Engagement not found"
// @Security BearerAuth
// @Router /engagements/{id}/checklist [get]
func (h *checklistHandler) listChecklist(c *gin.Context) {
	engagementID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("engagement_id", engagementID))
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	items, err := h.checklistService.ListChecklist(c.Request.Context(), actor, engagementID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list checklist")
		return
	}

	c.JSON(http.StatusOK, dto.ToListChecklistItemsResponse(items))
}

// createChecklistItem godoc
// @Summary Add a checklist item
// @Description Adds an item to an engagement checklist. Staff only.
// @Tags checklist
// @Accept  json
// @Produce  json
// @Param   id path string true "Engagement ID"
// @Param   item body dto.CreateChecklistItemRequest true "Checklist item"
// @Success 201 {object} domain.ChecklistItem
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Key already used in this engagement"
// @Security BearerAuth
// @Router /engagements/{id}/checklist [post]
func (h *checklistHandler) createChecklistItem(c *gin.Context) {
	engagementID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("engagement_id", engagementID))
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateChecklistItemRequest
	if !bindJSON(c, logger, &req, "CreateChecklistItem") {
		return
	}

	item, err := h.checklistService.CreateChecklistItem(c.Request.Context(), actor, engagementID, req)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to create checklist item")
		return
	}

	logger.Info("Checklist item created successfully", slog.String("item_key", item.Key))
	c.JSON(http.StatusCreated, item)
}

// updateChecklistItem godoc
// @Summary Toggle a checklist item
// @Description Sets the completion flag and broadcasts checklist:update to the engagement room
// @Tags checklist
// @Accept  json
// @Produce  json
// @Param   itemID path string true "Checklist item ID"
// @Param   patch body domain.ChecklistItemPatch true "Patch"
// @Success 200 {object} domain.ChecklistItem
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 404 {object} map[string]string "Checklist item not found"
// @Security BearerAuth
// @Router /checklist/{itemID} [patch]
func (h *checklistHandler) updateChecklistItem(c *gin.Context) {
	itemID := c.Param("itemID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("item_id", itemID))
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var patch domain.ChecklistItemPatch
	if !bindJSON(c, logger, &patch, "UpdateChecklistItem") {
		return
	}

	item, err := h.checklistService.UpdateChecklistItem(c.Request.Context(), actor, itemID, patch)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to update checklist item")
		return
	}

	logger.Info("Checklist item updated", slog.Bool("completed", item.Completed))
	c.JSON(http.StatusOK, item)
}
