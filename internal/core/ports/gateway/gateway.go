// Package gateway declares the remote data operations a participant session
// consumes. Every method returns parsed data or an error matching
// apperrors.ErrTransport, ErrValidation, ErrNotFound or ErrForbidden.
package gateway

import (
	"context"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/SscSPs/pbc_workflow_app/internal/dto"
)

// EngagementGateway reads the engagements visible to the session user.
type EngagementGateway interface {
	GetAll(ctx context.Context) ([]domain.Engagement, error)
	GetClientEngagements(ctx context.Context) ([]domain.Engagement, error)
}

// ChecklistGateway reads and patches engagement checklists.
type ChecklistGateway interface {
	GetChecklistByEngagement(ctx context.Context, engagementID string) ([]domain.ChecklistItem, error)
	UpdateChecklistItem(ctx context.Context, itemID string, patch domain.ChecklistItemPatch) (*domain.ChecklistItem, error)
}

// DocumentRequestGateway manages document requests.
type DocumentRequestGateway interface {
	GetDocumentRequestsByEngagement(ctx context.Context, engagementID string) ([]domain.DocumentRequest, error)
	CreateDocumentRequest(ctx context.Context, req dto.CreateDocumentRequestRequest) (*domain.DocumentRequest, error)
	UpdateDocumentRequestStatus(ctx context.Context, requestID string, status domain.DocumentRequestStatus) (*domain.DocumentRequest, error)
	AddDocument(ctx context.Context, requestID string, doc dto.AddDocumentRequest) (*domain.DocumentRequest, error)
}

// PBCGateway drives the PBC workflow of an engagement.
type PBCGateway interface {
	GetWorkflowByEngagement(ctx context.Context, engagementID string) (*domain.PBCWorkflow, error)
	AnswerQuestion(ctx context.Context, workflowID, questionID string, req dto.AnswerQuestionRequest) (*domain.PBCWorkflow, error)
	RaiseDoubt(ctx context.Context, workflowID, questionID string, req dto.RaiseDoubtRequest) (*domain.PBCWorkflow, error)
	AddDiscussion(ctx context.Context, workflowID, questionID string, req dto.AddDiscussionRequest) (*domain.PBCWorkflow, error)
	Transition(ctx context.Context, workflowID string, target domain.PBCStatus) (*domain.PBCWorkflow, error)
}

// ProfileGateway reads organization-level profile figures.
type ProfileGateway interface {
	CountClients(ctx context.Context) (int, error)
}

// TrialBalanceGateway fetches an engagement's trial balance. An empty
// sheetURL uses the engagement's stored reference.
type TrialBalanceGateway interface {
	FetchTrialBalance(ctx context.Context, engagementID, sheetURL string) (*domain.TrialBalance, error)
}

// Gateway combines every remote operation.
type Gateway interface {
	EngagementGateway
	ChecklistGateway
	DocumentRequestGateway
	PBCGateway
	ProfileGateway
	TrialBalanceGateway
}
