package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/pbc_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/pbc_workflow_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type trialBalanceHandler struct {
	trialBalanceService services.TrialBalanceSvc
}

// RegisterTrialBalanceRoutes registers the trial balance import route.
func RegisterTrialBalanceRoutes(rg *gin.RouterGroup, trialBalanceService services.TrialBalanceSvc) {
	h := &trialBalanceHandler{trialBalanceService: trialBalanceService}
	rg.GET("/engagements/:id/trial-balance", h.fetchTrialBalance)
}

// fetchTrialBalance godoc
// @Summary Import an engagement's trial balance
// @Description Reads the trial balance from a Google Sheet. Without sheetUrl the engagement's stored sheet is used.
// @Tags trial-balance
// @Produce  json
// @Param   id path string true "Engagement ID"
// @Param   sheetUrl query string false "Google Sheets URL"
// @Success 200 {object} domain.TrialBalance
// @Failure 400 {object} map[string]string "No sheet or malformed rows"
// @Failure 503 {object} map[string]string "Sheets import not configured"
// @Security BearerAuth
// @Router /engagements/{id}/trial-balance [get]
func (h *trialBalanceHandler) fetchTrialBalance(c *gin.Context) {
	engagementID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("engagement_id", engagementID))
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	tb, err := h.trialBalanceService.FetchTrialBalance(c.Request.Context(), actor, engagementID, c.Query("sheetUrl"))
	if err != nil {
		handleServiceError(c, logger, err, "Failed to fetch trial balance")
		return
	}

	logger.Info("Trial balance imported", slog.Int("rows", len(tb.Rows)), slog.Bool("balanced", tb.IsBalanced()))
	c.JSON(http.StatusOK, tb)
}
