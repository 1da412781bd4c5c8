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

// documentRequestHandler handles HTTP requests related to document requests.
type documentRequestHandler struct {
	requestService services.DocumentRequestSvcFacade
}

// RegisterDocumentRequestRoutes registers routes related to document requests.
func RegisterDocumentRequestRoutes(rg *gin.RouterGroup, requestService services.DocumentRequestSvcFacade) {
	h := &documentRequestHandler{requestService: requestService}

	rg.GET("/engagements/:id/document-requests", h.listDocumentRequests)
	requests := rg.Group("/document-requests")
	{
		requests.POST("", h.createDocumentRequest)
		requests.PATCH("/:id/status", h.updateStatus)
		requests.POST("/:id/documents", h.addDocument)
	}
}

// listDocumentRequests godoc
// @Summary List an engagement's document requests
// @Tags document-requests
// @Produce  json
// @Param   id path string true "Engagement ID"
// @Success 200 {object} dto.ListDocumentRequestsResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Engagement not found"
// @Security BearerAuth
// @Router /engagements/{id}/document-requests [get]
func (h *documentRequestHandler) listDocumentRequests(c *gin.Context) {
	engagementID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("engagement_id", engagementID))
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}

	requests, err := h.requestService.ListDocumentRequests(c.Request.Context(), actor, engagementID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list document requests")
		return
	}

	c.JSON(http.StatusOK, dto.ToListDocumentRequestsResponse(requests))
}

// createDocumentRequest godoc
// @Summary Request documents from the client
// @Description Creates a pending document request. Staff only.
// @Tags document-requests
// @Accept  json
// @Produce  json
// @Param   request body dto.CreateDocumentRequestRequest true "Document request"
// @Success 201 {object} domain.DocumentRequest
// @Failure 400 {object} map[string]string "Invalid input format or workflow already submitted"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /document-requests [post]
func (h *documentRequestHandler) createDocumentRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.CreateDocumentRequestRequest
	if !bindJSON(c, logger, &req, "CreateDocumentRequest") {
		return
	}

	request, err := h.requestService.CreateDocumentRequest(c.Request.Context(), actor, req)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to create document request")
		return
	}

	logger.Info("Document request created successfully", slog.String("request_id", request.RequestID))
	c.JSON(http.StatusCreated, request)
}

// updateStatus godoc
// @Summary Move a document request through its lifecycle
// @Description Clients may only submit; staff may also approve or send back to pending. "completed" is accepted as "approved".
// @Tags document-requests
// @Accept  json
// @Produce  json
// @Param   id path string true "Document request ID"
// @Param   status body dto.UpdateDocumentRequestStatusRequest true "Target status"
// @Success 200 {object} domain.DocumentRequest
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Document request not found"
// @Failure 409 {object} map[string]string "Workflow changed concurrently"
// @Security BearerAuth
// @Router /document-requests/{id}/status [patch]
func (h *documentRequestHandler) updateStatus(c *gin.Context) {
	requestID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("request_id", requestID))
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.UpdateDocumentRequestStatusRequest
	if !bindJSON(c, logger, &req, "UpdateDocumentRequestStatus") {
		return
	}
	status, err := domain.ParseDocumentRequestStatus(req.Status)
	if err != nil {
		handleServiceError(c, logger, err, "Invalid document request status")
		return
	}

	request, err := h.requestService.UpdateDocumentRequestStatus(c.Request.Context(), actor, requestID, status)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to update document request")
		return
	}

	logger.Info("Document request status updated", slog.String("status", string(request.Status)))
	c.JSON(http.StatusOK, request)
}

// addDocument godoc
// @Summary Attach an uploaded document
// @Description Records an uploaded file on the request and marks a pending request submitted
// @Tags document-requests
// @Accept  json
// @Produce  json
// @Param   id path string true "Document request ID"
// @Param   document body dto.AddDocumentRequest true "Uploaded document"
// @Success 200 {object} domain.DocumentRequest
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 404 {object} map[string]string "Document request not found"
// @Security BearerAuth
// @Router /document-requests/{id}/documents [post]
func (h *documentRequestHandler) addDocument(c *gin.Context) {
	requestID := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("request_id", requestID))
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req dto.AddDocumentRequest
	if !bindJSON(c, logger, &req, "AddDocument") {
		return
	}

	request, err := h.requestService.AddDocument(c.Request.Context(), actor, requestID, req)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to add document")
		return
	}

	logger.Info("Document attached", slog.Int("documents", len(request.Documents)))
	c.JSON(http.StatusOK, request)
}
