package services_test

import (
	"context"
	"sync"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockEngagementRepository struct {
	mock.Mock
}

func (m *MockEngagementRepository) FindEngagementByID(ctx context.Context, engagementID string) (*domain.Engagement, error) {
	args := m.Called(ctx, engagementID)
	var e *domain.Engagement
	if args.Get(0) != nil {
		e = args.Get(0).(*domain.Engagement)
	}
	return e, args.Error(1)
}

func (m *MockEngagementRepository) ListEngagementsByOrganization(ctx context.Context, organizationID string) ([]domain.Engagement, error) {
	args := m.Called(ctx, organizationID)
	var es []domain.Engagement
	if args.Get(0) != nil {
		es = args.Get(0).([]domain.Engagement)
	}
	return es, args.Error(1)
}

func (m *MockEngagementRepository) ListEngagementsByClient(ctx context.Context, clientID string) ([]domain.Engagement, error) {
	args := m.Called(ctx, clientID)
	var es []domain.Engagement
	if args.Get(0) != nil {
		es = args.Get(0).([]domain.Engagement)
	}
	return es, args.Error(1)
}

func (m *MockEngagementRepository) SaveEngagement(ctx context.Context, engagement domain.Engagement) error {
	args := m.Called(ctx, engagement)
	return args.Error(0)
}

type MockChecklistRepository struct {
	mock.Mock
}

func (m *MockChecklistRepository) ListChecklistItems(ctx context.Context, engagementID string) ([]domain.ChecklistItem, error) {
	args := m.Called(ctx, engagementID)
	var items []domain.ChecklistItem
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.ChecklistItem)
	}
	return items, args.Error(1)
}

func (m *MockChecklistRepository) FindChecklistItemByID(ctx context.Context, itemID string) (*domain.ChecklistItem, error) {
	args := m.Called(ctx, itemID)
	var item *domain.ChecklistItem
	if args.Get(0) != nil {
		item = args.Get(0).(*domain.ChecklistItem)
	}
	return item, args.Error(1)
}

func (m *MockChecklistRepository) SaveChecklistItem(ctx context.Context, item domain.ChecklistItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockChecklistRepository) UpdateChecklistItem(ctx context.Context, item domain.ChecklistItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

type MockDocumentRequestRepository struct {
	mock.Mock
}

func (m *MockDocumentRequestRepository) ListDocumentRequestsByEngagement(ctx context.Context, engagementID string) ([]domain.DocumentRequest, error) {
	args := m.Called(ctx, engagementID)
	var rs []domain.DocumentRequest
	if args.Get(0) != nil {
		rs = args.Get(0).([]domain.DocumentRequest)
	}
	return rs, args.Error(1)
}

func (m *MockDocumentRequestRepository) FindDocumentRequestByID(ctx context.Context, requestID string) (*domain.DocumentRequest, error) {
	args := m.Called(ctx, requestID)
	var r *domain.DocumentRequest
	if args.Get(0) != nil {
		r = args.Get(0).(*domain.DocumentRequest)
	}
	return r, args.Error(1)
}

func (m *MockDocumentRequestRepository) SaveDocumentRequest(ctx context.Context, request domain.DocumentRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockDocumentRequestRepository) UpdateDocumentRequest(ctx context.Context, request domain.DocumentRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

type MockWorkflowRepository struct {
	mock.Mock
}

func (m *MockWorkflowRepository) FindWorkflowByEngagement(ctx context.Context, engagementID string) (*domain.PBCWorkflow, error) {
	args := m.Called(ctx, engagementID)
	var wf *domain.PBCWorkflow
	if args.Get(0) != nil {
		wf = args.Get(0).(*domain.PBCWorkflow)
	}
	return wf, args.Error(1)
}

func (m *MockWorkflowRepository) FindWorkflowByID(ctx context.Context, workflowID string) (*domain.PBCWorkflow, error) {
	args := m.Called(ctx, workflowID)
	var wf *domain.PBCWorkflow
	if args.Get(0) != nil {
		wf = args.Get(0).(*domain.PBCWorkflow)
	}
	return wf, args.Error(1)
}

func (m *MockWorkflowRepository) SaveWorkflow(ctx context.Context, workflow domain.PBCWorkflow) error {
	args := m.Called(ctx, workflow)
	return args.Error(0)
}

func (m *MockWorkflowRepository) UpdateWorkflow(ctx context.Context, workflow domain.PBCWorkflow, changed ...domain.DocumentRequest) error {
	args := m.Called(ctx, workflow, changed)
	return args.Error(0)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindProfileByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	var p *domain.Profile
	if args.Get(0) != nil {
		p = args.Get(0).(*domain.Profile)
	}
	return p, args.Error(1)
}

func (m *MockProfileRepository) CountProfilesByRole(ctx context.Context, organizationID string, role domain.Role) (int, error) {
	args := m.Called(ctx, organizationID, role)
	return args.Int(0), args.Error(1)
}

// published is one recorded broadcast.
type published struct {
	EngagementID string
	Event        string
	Payload      any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(engagementID string, event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{EngagementID: engagementID, Event: event, Payload: payload})
}

func (p *recordingPublisher) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Event
	}
	return out
}

type MockAnalytics struct {
	mock.Mock
}

func (m *MockAnalytics) Enqueue(distinctID string, event string, properties map[string]any) {
	m.Called(distinctID, event, properties)
}

type stubSheetReader struct {
	values [][]any
	err    error
	gotID  string
}

func (s *stubSheetReader) ReadValues(_ context.Context, spreadsheetID, _ string) ([][]any, error) {
	s.gotID = spreadsheetID
	return s.values, s.err
}
