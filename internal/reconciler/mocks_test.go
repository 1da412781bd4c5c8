package reconciler_test

import (
	"context"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/SscSPs/pbc_workflow_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

type MockChecklistGateway struct {
	mock.Mock
}

func (m *MockChecklistGateway) GetChecklistByEngagement(ctx context.Context, engagementID string) ([]domain.ChecklistItem, error) {
	args := m.Called(ctx, engagementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChecklistItem), args.Error(1)
}

func (m *MockChecklistGateway) UpdateChecklistItem(ctx context.Context, itemID string, patch domain.ChecklistItemPatch) (*domain.ChecklistItem, error) {
	args := m.Called(ctx, itemID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChecklistItem), args.Error(1)
}

type MockDocumentRequestGateway struct {
	mock.Mock
}

func (m *MockDocumentRequestGateway) GetDocumentRequestsByEngagement(ctx context.Context, engagementID string) ([]domain.DocumentRequest, error) {
	args := m.Called(ctx, engagementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentRequest), args.Error(1)
}

func (m *MockDocumentRequestGateway) CreateDocumentRequest(ctx context.Context, req dto.CreateDocumentRequestRequest) (*domain.DocumentRequest, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentRequest), args.Error(1)
}

func (m *MockDocumentRequestGateway) UpdateDocumentRequestStatus(ctx context.Context, requestID string, status domain.DocumentRequestStatus) (*domain.DocumentRequest, error) {
	args := m.Called(ctx, requestID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentRequest), args.Error(1)
}

func (m *MockDocumentRequestGateway) AddDocument(ctx context.Context, requestID string, doc dto.AddDocumentRequest) (*domain.DocumentRequest, error) {
	args := m.Called(ctx, requestID, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentRequest), args.Error(1)
}

type MockPBCGateway struct {
	mock.Mock
}

func (m *MockPBCGateway) workflow(args mock.Arguments) (*domain.PBCWorkflow, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PBCWorkflow), args.Error(1)
}

func (m *MockPBCGateway) GetWorkflowByEngagement(ctx context.Context, engagementID string) (*domain.PBCWorkflow, error) {
	return m.workflow(m.Called(ctx, engagementID))
}

func (m *MockPBCGateway) AnswerQuestion(ctx context.Context, workflowID, questionID string, req dto.AnswerQuestionRequest) (*domain.PBCWorkflow, error) {
	return m.workflow(m.Called(ctx, workflowID, questionID, req))
}

func (m *MockPBCGateway) RaiseDoubt(ctx context.Context, workflowID, questionID string, req dto.RaiseDoubtRequest) (*domain.PBCWorkflow, error) {
	return m.workflow(m.Called(ctx, workflowID, questionID, req))
}

func (m *MockPBCGateway) AddDiscussion(ctx context.Context, workflowID, questionID string, req dto.AddDiscussionRequest) (*domain.PBCWorkflow, error) {
	return m.workflow(m.Called(ctx, workflowID, questionID, req))
}

func (m *MockPBCGateway) Transition(ctx context.Context, workflowID string, target domain.PBCStatus) (*domain.PBCWorkflow, error) {
	return m.workflow(m.Called(ctx, workflowID, target))
}
