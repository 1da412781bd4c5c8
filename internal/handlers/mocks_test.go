package handlers_test

import (
	"context"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	portssvc "github.com/SscSPs/pbc_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/pbc_workflow_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock EngagementService ---
type MockEngagementService struct {
	mock.Mock
}

func (m *MockEngagementService) ListEngagements(ctx context.Context, actor domain.Profile) ([]domain.Engagement, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Engagement), args.Error(1)
}
func (m *MockEngagementService) ListClientEngagements(ctx context.Context, actor domain.Profile) ([]domain.Engagement, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Engagement), args.Error(1)
}
func (m *MockEngagementService) GetEngagement(ctx context.Context, actor domain.Profile, engagementID string) (*domain.Engagement, error) {
	args := m.Called(ctx, actor, engagementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Engagement), args.Error(1)
}
func (m *MockEngagementService) CreateEngagement(ctx context.Context, actor domain.Profile, req dto.CreateEngagementRequest) (*domain.Engagement, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Engagement), args.Error(1)
}
func (m *MockEngagementService) AuthorizeEngagementAccess(ctx context.Context, actor domain.Profile, engagementID string) (*domain.Engagement, error) {
	args := m.Called(ctx, actor, engagementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Engagement), args.Error(1)
}

var _ portssvc.EngagementSvcFacade = (*MockEngagementService)(nil)

// --- Mock ChecklistService ---
type MockChecklistService struct {
	mock.Mock
}

func (m *MockChecklistService) ListChecklist(ctx context.Context, actor domain.Profile, engagementID string) ([]domain.ChecklistItem, error) {
	args := m.Called(ctx, actor, engagementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChecklistItem), args.Error(1)
}
func (m *MockChecklistService) CreateChecklistItem(ctx context.Context, actor domain.Profile, engagementID string, req dto.CreateChecklistItemRequest) (*domain.ChecklistItem, error) {
	args := m.Called(ctx, actor, engagementID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChecklistItem), args.Error(1)
}
func (m *MockChecklistService) UpdateChecklistItem(ctx context.Context, actor domain.Profile, itemID string, patch domain.ChecklistItemPatch) (*domain.ChecklistItem, error) {
	args := m.Called(ctx, actor, itemID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChecklistItem), args.Error(1)
}

var _ portssvc.ChecklistSvcFacade = (*MockChecklistService)(nil)

// --- Mock DocumentRequestService ---
type MockDocumentRequestService struct {
	mock.Mock
}

func (m *MockDocumentRequestService) ListDocumentRequests(ctx context.Context, actor domain.Profile, engagementID string) ([]domain.DocumentRequest, error) {
	args := m.Called(ctx, actor, engagementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentRequest), args.Error(1)
}
func (m *MockDocumentRequestService) CreateDocumentRequest(ctx context.Context, actor domain.Profile, req dto.CreateDocumentRequestRequest) (*domain.DocumentRequest, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentRequest), args.Error(1)
}
func (m *MockDocumentRequestService) UpdateDocumentRequestStatus(ctx context.Context, actor domain.Profile, requestID string, status domain.DocumentRequestStatus) (*domain.DocumentRequest, error) {
	args := m.Called(ctx, actor, requestID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentRequest), args.Error(1)
}
func (m *MockDocumentRequestService) AddDocument(ctx context.Context, actor domain.Profile, requestID string, req dto.AddDocumentRequest) (*domain.DocumentRequest, error) {
	args := m.Called(ctx, actor, requestID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentRequest), args.Error(1)
}

var _ portssvc.DocumentRequestSvcFacade = (*MockDocumentRequestService)(nil)

// --- Mock PBCService ---
type MockPBCService struct {
	mock.Mock
}

func (m *MockPBCService) workflow(args mock.Arguments) (*domain.PBCWorkflow, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PBCWorkflow), args.Error(1)
}
func (m *MockPBCService) GetWorkflow(ctx context.Context, actor domain.Profile, engagementID string) (*domain.PBCWorkflow, error) {
	return m.workflow(m.Called(ctx, actor, engagementID))
}
func (m *MockPBCService) InitiateWorkflow(ctx context.Context, actor domain.Profile, engagementID string) (*domain.PBCWorkflow, error) {
	return m.workflow(m.Called(ctx, actor, engagementID))
}
func (m *MockPBCService) AddCategory(ctx context.Context, actor domain.Profile, workflowID string, req dto.CreateCategoryRequest) (*domain.PBCWorkflow, error) {
	return m.workflow(m.Called(ctx, actor, workflowID, req))
}
func (m *MockPBCService) AddQuestion(ctx context.Context, actor domain.Profile, workflowID, categoryID string, req dto.CreateQuestionRequest) (*domain.PBCWorkflow, error) {
	return m.workflow(m.Called(ctx, actor, workflowID, categoryID, req))
}
func (m *MockPBCService) AnswerQuestion(ctx context.Context, actor domain.Profile, workflowID, questionID string, req dto.AnswerQuestionRequest) (*domain.PBCWorkflow, error) {
	return m.workflow(m.Called(ctx, actor, workflowID, questionID, req))
}
func (m *MockPBCService) RaiseDoubt(ctx context.Context, actor domain.Profile, workflowID, questionID string, req dto.RaiseDoubtRequest) (*domain.PBCWorkflow, error) {
	return m.workflow(m.Called(ctx, actor, workflowID, questionID, req))
}
func (m *MockPBCService) AddDiscussion(ctx context.Context, actor domain.Profile, workflowID, questionID string, req dto.AddDiscussionRequest) (*domain.PBCWorkflow, error) {
	return m.workflow(m.Called(ctx, actor, workflowID, questionID, req))
}
func (m *MockPBCService) Transition(ctx context.Context, actor domain.Profile, workflowID string, target domain.PBCStatus) (*domain.PBCWorkflow, error) {
	return m.workflow(m.Called(ctx, actor, workflowID, target))
}

var _ portssvc.PBCSvcFacade = (*MockPBCService)(nil)

// --- Mock ProfileService ---
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockProfileService) CountClients(ctx context.Context, actor domain.Profile) (int, error) {
	args := m.Called(ctx, actor)
	return args.Int(0), args.Error(1)
}

var _ portssvc.ProfileSvcFacade = (*MockProfileService)(nil)

// --- Mock TrialBalanceService ---
type MockTrialBalanceService struct {
	mock.Mock
}

func (m *MockTrialBalanceService) FetchTrialBalance(ctx context.Context, actor domain.Profile, engagementID string, sheetURL string) (*domain.TrialBalance, error) {
	args := m.Called(ctx, actor, engagementID, sheetURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

var _ portssvc.TrialBalanceSvc = (*MockTrialBalanceService)(nil)
