package stats_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/SscSPs/pbc_workflow_app/internal/stats"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) GetAll(ctx context.Context) ([]domain.Engagement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Engagement), args.Error(1)
}

func (m *MockGateway) GetClientEngagements(ctx context.Context) ([]domain.Engagement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Engagement), args.Error(1)
}

func (m *MockGateway) GetDocumentRequestsByEngagement(ctx context.Context, engagementID string) ([]domain.DocumentRequest, error) {
	args := m.Called(ctx, engagementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentRequest), args.Error(1)
}

func (m *MockGateway) CountClients(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func engagement(id string, status domain.EngagementStatus) domain.Engagement {
	return domain.Engagement{EngagementID: id, Status: status}
}

func requests(statuses ...domain.DocumentRequestStatus) []domain.DocumentRequest {
	out := make([]domain.DocumentRequest, len(statuses))
	for i, s := range statuses {
		out[i] = domain.DocumentRequest{RequestID: string(rune('a' + i)), Status: s}
	}
	return out
}

type ProjectorTestSuite struct {
	suite.Suite
	ctx       context.Context
	gateway   *MockGateway
	projector *stats.Projector
	client    domain.Profile
	employee  domain.Profile
}

func (suite *ProjectorTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.gateway = new(MockGateway)
	suite.projector = stats.NewProjector(suite.gateway)
	clientID := "client-1"
	suite.client = domain.Profile{UserID: "u-client", Role: domain.RoleClient, ClientID: &clientID}
	suite.employee = domain.Profile{UserID: "u-emp", OrganizationID: "org-1", Role: domain.RoleEmployee}
}

func (suite *ProjectorTestSuite) TestClientPartialFailureCountsSuccessfulEngagements() {
	es := []domain.Engagement{engagement("E1", domain.EngagementDraft), engagement("E2", domain.EngagementDraft)}
	suite.gateway.On("GetAll", mock.Anything).Return(es, nil).Once()
	suite.gateway.On("GetClientEngagements", mock.Anything).Return(es, nil).Once()
	suite.gateway.On("GetDocumentRequestsByEngagement", mock.Anything, "E1").
		Return(requests(domain.DocumentRequestPending, domain.DocumentRequestPending, domain.DocumentRequestPending, domain.DocumentRequestApproved), nil).Once()
	suite.gateway.On("GetDocumentRequestsByEngagement", mock.Anything, "E2").
		Return(nil, apperrors.NewTransportError("GET failed", errors.New("timeout"))).Once()

	got := suite.projector.Compute(suite.ctx, suite.client)

	suite.Equal(3, got.PendingRequests)
	suite.Equal(0, got.ActiveEngagements)
	suite.Equal(3, got.TodayTasks)
	suite.Equal(domain.NextTaskDocumentReview, got.NextTask)
	suite.Equal(0, got.TotalClients)
	suite.gateway.AssertNotCalled(suite.T(), "CountClients", mock.Anything)
}

func (suite *ProjectorTestSuite) TestActiveEngagementsTakePriority() {
	es := []domain.Engagement{engagement("E1", domain.EngagementActive), engagement("E2", domain.EngagementCompleted)}
	suite.gateway.On("GetAll", mock.Anything).Return(es, nil).Once()
	suite.gateway.On("GetClientEngagements", mock.Anything).Return(es[:1], nil).Once()
	suite.gateway.On("GetDocumentRequestsByEngagement", mock.Anything, "E1").Return(requests(domain.DocumentRequestPending), nil).Once()

	got := suite.projector.Compute(suite.ctx, suite.client)

	suite.Equal(1, got.ActiveEngagements)
	suite.Equal(1, got.PendingRequests)
	suite.Equal(2, got.TodayTasks)
	suite.Equal(domain.NextTaskClientReview, got.NextTask)
}

func (suite *ProjectorTestSuite) TestEmployeeClientCountFailureYieldsZero() {
	suite.gateway.On("GetAll", mock.Anything).Return([]domain.Engagement{}, nil).Once()
	suite.gateway.On("CountClients", mock.Anything).Return(0, apperrors.NewTransportError("boom", nil)).Once()

	got := suite.projector.Compute(suite.ctx, suite.employee)

	suite.Equal(0, got.TotalClients)
	suite.Equal(domain.NextTaskNone, got.NextTask)
	suite.gateway.AssertNotCalled(suite.T(), "GetClientEngagements", mock.Anything)
}

func (suite *ProjectorTestSuite) TestEmployeeCountsClients() {
	suite.gateway.On("GetAll", mock.Anything).Return([]domain.Engagement{engagement("E1", domain.EngagementActive)}, nil).Once()
	suite.gateway.On("CountClients", mock.Anything).Return(7, nil).Once()

	got := suite.projector.Compute(suite.ctx, suite.employee)

	suite.Equal(7, got.TotalClients)
	suite.Equal(1, got.TodayTasks)
}

func (suite *ProjectorTestSuite) TestEngagementFetchFailureDegradesToDefaults() {
	suite.gateway.On("GetAll", mock.Anything).Return(nil, apperrors.NewTransportError("down", nil)).Once()
	suite.gateway.On("CountClients", mock.Anything).Return(0, apperrors.NewTransportError("down", nil)).Once()

	got := suite.projector.Compute(suite.ctx, suite.employee)

	suite.Equal(domain.DefaultDashboardStats(), got)
}

func (suite *ProjectorTestSuite) TestStartComputesImmediatelyAndStopResets() {
	projector := stats.NewProjector(suite.gateway, stats.WithInterval(10*time.Millisecond))
	var refreshes atomic.Int32
	suite.gateway.On("GetAll", mock.Anything).
		Run(func(mock.Arguments) { refreshes.Add(1) }).
		Return([]domain.Engagement{engagement("E1", domain.EngagementActive)}, nil)
	suite.gateway.On("CountClients", mock.Anything).Return(2, nil)

	projector.Start(suite.ctx, suite.employee)
	suite.Equal(2, projector.Current().TotalClients)

	suite.Eventually(func() bool {
		return refreshes.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	projector.Stop()
	suite.Equal(domain.DefaultDashboardStats(), projector.Current())
	suite.Equal(domain.DefaultDashboardStats(), projector.Refresh(suite.ctx))
}

func TestProjectorTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectorTestSuite))
}
