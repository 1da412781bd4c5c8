package repositories

import (
	"context"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
)

// PBCWorkflowRepositoryFacade persists the workflow row and its Q&A categories.
// Document requests are stored by DocumentRequestRepositoryFacade.
type PBCWorkflowRepositoryFacade interface {
	// FindWorkflowByEngagement retrieves the workflow of an engagement.
	FindWorkflowByEngagement(ctx context.Context, engagementID string) (*domain.PBCWorkflow, error)

	// FindWorkflowByID retrieves a workflow by ID.
	FindWorkflowByID(ctx context.Context, workflowID string) (*domain.PBCWorkflow, error)

	// SaveWorkflow persists a new workflow.
	SaveWorkflow(ctx context.Context, workflow domain.PBCWorkflow) error

	// UpdateWorkflow persists status, categories and submission time, and
	// upserts the given document requests, all in one transaction.
	UpdateWorkflow(ctx context.Context, workflow domain.PBCWorkflow, changed ...domain.DocumentRequest) error
}
