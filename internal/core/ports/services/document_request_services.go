package services

import (
	"context"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/SscSPs/pbc_workflow_app/internal/dto"
)

// DocumentRequestReaderSvc defines read operations for document requests
type DocumentRequestReaderSvc interface {
	// ListDocumentRequests returns an engagement's requests.
	ListDocumentRequests(ctx context.Context, actor domain.Profile, engagementID string) ([]domain.DocumentRequest, error)
}

// DocumentRequestWriterSvc defines write operations for document requests.
// Every write re-derives the owning workflow's stage and broadcasts the change.
type DocumentRequestWriterSvc interface {
	// CreateDocumentRequest creates a pending request.
	CreateDocumentRequest(ctx context.Context, actor domain.Profile, req dto.CreateDocumentRequestRequest) (*domain.DocumentRequest, error)

	// UpdateDocumentRequestStatus moves a request through its lifecycle.
	UpdateDocumentRequestStatus(ctx context.Context, actor domain.Profile, requestID string, status domain.DocumentRequestStatus) (*domain.DocumentRequest, error)

	// AddDocument attaches an uploaded document descriptor.
	AddDocument(ctx context.Context, actor domain.Profile, requestID string, req dto.AddDocumentRequest) (*domain.DocumentRequest, error)
}

// DocumentRequestSvcFacade combines all document request service interfaces
type DocumentRequestSvcFacade interface {
	DocumentRequestReaderSvc
	DocumentRequestWriterSvc
}
