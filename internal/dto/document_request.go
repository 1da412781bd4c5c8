package dto

import "github.com/SscSPs/pbc_workflow_app/internal/core/domain"

// --- Document request DTOs ---

// CreateDocumentRequestRequest defines data for requesting documents from a client.
type CreateDocumentRequestRequest struct {
	EngagementID string `json:"engagementId" binding:"required"`
	Category     string `json:"category" binding:"required"`
	Description  string `json:"description" binding:"required"`
	IsMandatory  bool   `json:"isMandatory"`
}

// UpdateDocumentRequestStatusRequest moves a request through its lifecycle.
// "completed" is accepted as an alias of "approved".
type UpdateDocumentRequestStatusRequest struct {
	Status string `json:"status" binding:"required,doc_status"`
}

// AddDocumentRequest attaches an uploaded file to a request.
type AddDocumentRequest struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required,url"`
}

// ListDocumentRequestsResponse wraps an engagement's document requests.
type ListDocumentRequestsResponse struct {
	DocumentRequests []domain.DocumentRequest `json:"documentRequests"`
}

// ToListDocumentRequestsResponse converts a slice of domain.DocumentRequest to DTO.
func ToListDocumentRequestsResponse(rs []domain.DocumentRequest) ListDocumentRequestsResponse {
	if rs == nil {
		rs = []domain.DocumentRequest{}
	}
	return ListDocumentRequestsResponse{DocumentRequests: rs}
}
