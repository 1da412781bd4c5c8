package services

import (
	"context"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/SscSPs/pbc_workflow_app/internal/dto"
)

// PBCReaderSvc defines read operations for PBC workflows
type PBCReaderSvc interface {
	// GetWorkflow returns the engagement's workflow with its document requests.
	GetWorkflow(ctx context.Context, actor domain.Profile, engagementID string) (*domain.PBCWorkflow, error)
}

// PBCWriterSvc defines the workflow mutations. Child mutations re-derive the
// workflow stage; Transition is the only explicit stage change.
type PBCWriterSvc interface {
	// InitiateWorkflow creates the engagement's workflow in document collection.
	InitiateWorkflow(ctx context.Context, actor domain.Profile, engagementID string) (*domain.PBCWorkflow, error)

	AddCategory(ctx context.Context, actor domain.Profile, workflowID string, req dto.CreateCategoryRequest) (*domain.PBCWorkflow, error)
	AddQuestion(ctx context.Context, actor domain.Profile, workflowID, categoryID string, req dto.CreateQuestionRequest) (*domain.PBCWorkflow, error)
	AnswerQuestion(ctx context.Context, actor domain.Profile, workflowID, questionID string, req dto.AnswerQuestionRequest) (*domain.PBCWorkflow, error)
	RaiseDoubt(ctx context.Context, actor domain.Profile, workflowID, questionID string, req dto.RaiseDoubtRequest) (*domain.PBCWorkflow, error)
	AddDiscussion(ctx context.Context, actor domain.Profile, workflowID, questionID string, req dto.AddDiscussionRequest) (*domain.PBCWorkflow, error)

	// Transition explicitly changes the workflow stage after validating preconditions.
	Transition(ctx context.Context, actor domain.Profile, workflowID string, target domain.PBCStatus) (*domain.PBCWorkflow, error)
}

// PBCSvcFacade combines all PBC workflow service interfaces
type PBCSvcFacade interface {
	PBCReaderSvc
	PBCWriterSvc
}
