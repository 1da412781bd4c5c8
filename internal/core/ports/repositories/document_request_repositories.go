package repositories

import (
	"context"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
)

// DocumentRequestReader defines read operations for document requests
type DocumentRequestReader interface {
	// ListDocumentRequestsByEngagement returns requests in creation order.
	ListDocumentRequestsByEngagement(ctx context.Context, engagementID string) ([]domain.DocumentRequest, error)

	// FindDocumentRequestByID retrieves a request by ID.
	FindDocumentRequestByID(ctx context.Context, requestID string) (*domain.DocumentRequest, error)
}

// DocumentRequestWriter defines write operations for document requests
type DocumentRequestWriter interface {
	// SaveDocumentRequest persists a new request.
	SaveDocumentRequest(ctx context.Context, request domain.DocumentRequest) error

	// UpdateDocumentRequest persists status, documents and completion time.
	UpdateDocumentRequest(ctx context.Context, request domain.DocumentRequest) error
}

// DocumentRequestRepositoryFacade combines all document request repository interfaces
type DocumentRequestRepositoryFacade interface {
	DocumentRequestReader
	DocumentRequestWriter
}
