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

// pbcHandler handles HTTP requests related to PBC workflows.
type pbcHandler struct {
	pbcService services.PBCSvcFacade
}

// RegisterPBCRoutes registers routes related to PBC workflows. Every
// mutation answers with the full workflow so callers can replace their copy.
func RegisterPBCRoutes(rg *gin.RouterGroup, pbcService services.PBCSvcFacade) {
	h := &pbcHandler{pbcService: pbcService}

	rg.GET("/engagements/:id/pbc", h.getWorkflow)
	rg.POST("/engagements/:id/pbc", h.initiateWorkflow)

	pbc := rg.Group("/pbc/:id")
	{
		pbc.POST("/categories", h.addCategory)
		pbc.POST("/categories/:categoryID/questions", h.addQuestion)
		pbc.POST("/questions/:questionID/answer", h.answerQuestion)
		pbc.POST("/questions/:questionID/doubt", h.raiseDoubt)
		pbc.POST("/questions/:questionID/discussions", h.addDiscussion)
		pbc.POST("/transition", h.transition)
	}
}

// getWorkflow godoc
// @Summary Get an engagement's PBC workflow
// @Tags pbc
// @Produce  json
// @Param   id path string true "Engagement ID"
// @Success 200 {object} domain.PBCWorkflow
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "No workflow for this engagement"
// @Security BearerAuth
// @Router /engagements/{id}/pbc [get]
func (h *pbcHandler) getWorkflow(c *gin.Context) {
	engagementID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("engagement_id", engagementID))
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	wf, err := h.pbcService.GetWorkflow(c.Request.Context(), actor, engagementID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to retrieve workflow")
		return
	}
	c.JSON(http.StatusOK, wf)
}

// initiateWorkflow godoc
// @Summary Start an engagement's PBC workflow
// @Description Creates the workflow, adopting the engagement's existing document requests. Staff only.
// @Tags pbc
// @Produce  json
// @Param   id path string true "Engagement ID"
// @Success 201 {object} domain.PBCWorkflow
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Workflow already exists"
// @Security BearerAuth
// @Router /engagements/{id}/pbc [post]
func (h *pbcHandler) initiateWorkflow(c *gin.Context) {
	engagementID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("engagement_id", engagementID))
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	wf, err := h.pbcService.InitiateWorkflow(c.Request.Context(), actor, engagementID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to initiate workflow")
		return
	}

	logger.Info("Workflow initiated", slog.String("workflow_id", wf.WorkflowID), slog.String("status", string(wf.Status)))
	c.JSON(http.StatusCreated, wf)
}

// addCategory godoc
// @Summary Add a question category
// @Tags pbc
// @Accept  json
// @Produce  json
// @Param   id path string true "Workflow ID"
// @Param   category body dto.CreateCategoryRequest true "Category"
// @Success 201 {object} domain.PBCWorkflow
// @Failure 400 {object} map[string]string "Invalid input format or workflow submitted"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /pbc/{id}/categories [post]
func (h *pbcHandler) addCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	h.mutate(c, http.StatusCreated, &req, "AddCategory", func(actor domain.Profile, workflowID string) (*domain.PBCWorkflow, error) {
		return h.pbcService.AddCategory(c.Request.Context(), actor, workflowID, req)
	})
}

// addQuestion godoc
// @Summary Add a question to a category
// @Tags pbc
// @Accept  json
// @Produce  json
// @Param   id path string true "Workflow ID"
// @Param   categoryID path string true "Category ID"
// @Param   question body dto.CreateQuestionRequest true "Question"
// @Success 201 {object} domain.PBCWorkflow
// @Failure 400 {object} map[string]string "Invalid input format or workflow submitted"
// @Failure 404 {object} map[string]string "Category not found"
// @Security BearerAuth
// @Router /pbc/{id}/categories/{categoryID}/questions [post]
func (h *pbcHandler) addQuestion(c *gin.Context) {
	var req dto.CreateQuestionRequest
	h.mutate(c, http.StatusCreated, &req, "AddQuestion", func(actor domain.Profile, workflowID string) (*domain.PBCWorkflow, error) {
		return h.pbcService.AddQuestion(c.Request.Context(), actor, workflowID, c.Param("categoryID"), req)
	})
}

// answerQuestion godoc
// @Summary Answer a question
// @Tags pbc
// @Accept  json
// @Produce  json
// @Param   id path string true "Workflow ID"
// @Param   questionID path string true "Question ID"
// @Param   answer body dto.AnswerQuestionRequest true "Answer"
// @Success 200 {object} domain.PBCWorkflow
// @Failure 400 {object} map[string]string "Invalid input format or workflow submitted"
// @Failure 404 {object} map[string]string "Question not found"
// @Failure 409 {object} map[string]string "Workflow changed concurrently"
// @Security BearerAuth
// @Router /pbc/{id}/questions/{questionID}/answer [post]
func (h *pbcHandler) answerQuestion(c *gin.Context) {
	var req dto.AnswerQuestionRequest
	h.mutate(c, http.StatusOK, &req, "AnswerQuestion", func(actor domain.Profile, workflowID string) (*domain.PBCWorkflow, error) {
		return h.pbcService.AnswerQuestion(c.Request.Context(), actor, workflowID, c.Param("questionID"), req)
	})
}

// raiseDoubt godoc
// @Summary Raise a doubt on an answered question
// @Tags pbc
// @Accept  json
// @Produce  json
// @Param   id path string true "Workflow ID"
// @Param   questionID path string true "Question ID"
// @Param   doubt body dto.RaiseDoubtRequest true "Doubt"
// @Success 200 {object} domain.PBCWorkflow
// @Failure 400 {object} map[string]string "Question not answered"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /pbc/{id}/questions/{questionID}/doubt [post]
func (h *pbcHandler) raiseDoubt(c *gin.Context) {
	var req dto.RaiseDoubtRequest
	h.mutate(c, http.StatusOK, &req, "RaiseDoubt", func(actor domain.Profile, workflowID string) (*domain.PBCWorkflow, error) {
		return h.pbcService.RaiseDoubt(c.Request.Context(), actor, workflowID, c.Param("questionID"), req)
	})
}

// addDiscussion godoc
// @Summary Add to a question's discussion thread
// @Tags pbc
// @Accept  json
// @Produce  json
// @Param   id path string true "Workflow ID"
// @Param   questionID path string true "Question ID"
// @Param   discussion body dto.AddDiscussionRequest true "Message"
// @Success 200 {object} domain.PBCWorkflow
// @Failure 400 {object} map[string]string "Reply target not in thread"
// @Security BearerAuth
// @Router /pbc/{id}/questions/{questionID}/discussions [post]
func (h *pbcHandler) addDiscussion(c *gin.Context) {
	var req dto.AddDiscussionRequest
	h.mutate(c, http.StatusOK, &req, "AddDiscussion", func(actor domain.Profile, workflowID string) (*domain.PBCWorkflow, error) {
		return h.pbcService.AddDiscussion(c.Request.Context(), actor, workflowID, c.Param("questionID"), req)
	})
}

// transition godoc
// @Summary Change the workflow stage
// @Description Publishes the questions (client-responses) or submits the workflow. Other stages follow from document and question changes. Clients may only submit.
// @Tags pbc
// @Accept  json
// @Produce  json
// @Param   id path string true "Workflow ID"
// @Param   transition body dto.TransitionRequest true "Target stage"
// @Success 200 {object} domain.PBCWorkflow
// @Failure 400 {object} map[string]string "Preconditions not met"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Workflow changed concurrently"
// @Security BearerAuth
// @Router /pbc/{id}/transition [post]
func (h *pbcHandler) transition(c *gin.Context) {
	var req dto.TransitionRequest
	h.mutate(c, http.StatusOK, &req, "Transition", func(actor domain.Profile, workflowID string) (*domain.PBCWorkflow, error) {
		return h.pbcService.Transition(c.Request.Context(), actor, workflowID, req.Status)
	})
}

// mutate binds body, runs fn for the workflow in the path and writes the
// resulting workflow with status.
func (h *pbcHandler) mutate(c *gin.Context, status int, body any, action string, fn func(actor domain.Profile, workflowID string) (*domain.PBCWorkflow, error)) {
	workflowID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("workflow_id", workflowID), slog.String("action", action))
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	if !bindJSON(c, logger, body, action) {
		return
	}

	wf, err := fn(actor, workflowID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to update workflow")
		return
	}

	logger.Info("Workflow updated", slog.String("status", string(wf.Status)))
	c.JSON(status, wf)
}
