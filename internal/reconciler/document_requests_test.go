package reconciler_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/SscSPs/pbc_workflow_app/internal/dto"
	"github.com/SscSPs/pbc_workflow_app/internal/realtime"
	"github.com/SscSPs/pbc_workflow_app/internal/reconciler"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

func docRequest(id string, status domain.DocumentRequestStatus) domain.DocumentRequest {
	return domain.DocumentRequest{RequestID: id, EngagementID: "eng-1", Category: "bank", Description: "statements", IsMandatory: true, Status: status, Documents: []domain.Document{}}
}

type DocumentRequestsTestSuite struct {
	suite.Suite
	ctx      context.Context
	gateway  *MockDocumentRequestGateway
	channel  *realtime.MemoryChannel
	requests *reconciler.DocumentRequests
}

func (suite *DocumentRequestsTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.gateway = new(MockDocumentRequestGateway)
	suite.channel = realtime.NewMemoryChannel()
	suite.requests = reconciler.NewDocumentRequests(suite.gateway, suite.channel, reconciler.WithClock(func() time.Time { return fixedNow }))

	suite.gateway.On("GetDocumentRequestsByEngagement", mock.Anything, "eng-1").
		Return([]domain.DocumentRequest{docRequest("r1", domain.DocumentRequestPending), docRequest("r2", domain.DocumentRequestSubmitted)}, nil).Once()
	suite.Require().NoError(suite.requests.Mount(suite.ctx, "eng-1"))
	suite.Require().NoError(suite.requests.Load(suite.ctx))
}

func (suite *DocumentRequestsTestSuite) TestCreateAppendsServerObject() {
	req := dto.CreateDocumentRequestRequest{Category: "payroll", Description: "payslips", IsMandatory: true}
	withEngagement := req
	withEngagement.EngagementID = "eng-1"
	created := docRequest("srv-42", domain.DocumentRequestPending)
	suite.gateway.On("CreateDocumentRequest", mock.Anything, withEngagement).Return(&created, nil).Once()

	got, err := suite.requests.Create(suite.ctx, req)

	suite.Require().NoError(err)
	suite.Equal("srv-42", got.RequestID)
	all := suite.requests.Requests()
	suite.Require().Len(all, 3)
	suite.Equal("srv-42", all[2].RequestID)
	suite.Equal(2, suite.requests.Pending())
}

func (suite *DocumentRequestsTestSuite) TestCreateForOtherEngagementRejected() {
	_, err := suite.requests.Create(suite.ctx, dto.CreateDocumentRequestRequest{EngagementID: "eng-2", Category: "x", Description: "y"})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.gateway.AssertNotCalled(suite.T(), "CreateDocumentRequest", mock.Anything, mock.Anything)
}

func (suite *DocumentRequestsTestSuite) TestUpdateStatusAppliesConfirmedRequest() {
	approved := docRequest("r2", domain.DocumentRequestApproved)
	approved.CompletedAt = &fixedNow
	suite.gateway.On("UpdateDocumentRequestStatus", mock.Anything, "r2", domain.DocumentRequestApproved).Return(&approved, nil).Once()

	suite.Require().NoError(suite.requests.UpdateStatus(suite.ctx, "r2", domain.DocumentRequestApproved))

	got := suite.requests.Requests()[1]
	suite.Equal(domain.DocumentRequestApproved, got.Status)
	suite.Require().NotNil(got.CompletedAt)
}

func (suite *DocumentRequestsTestSuite) TestInvalidTransitionRejectedLocally() {
	approved := docRequest("r2", domain.DocumentRequestApproved)
	suite.requests.ApplyUpdate(approved)

	err := suite.requests.UpdateStatus(suite.ctx, "r2", domain.DocumentRequestPending)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.gateway.AssertNotCalled(suite.T(), "UpdateDocumentRequestStatus", mock.Anything, mock.Anything, mock.Anything)
	suite.Equal(domain.DocumentRequestApproved, suite.requests.Requests()[1].Status)
}

func (suite *DocumentRequestsTestSuite) TestAddDocumentFailureLeavesState() {
	doc := dto.AddDocumentRequest{Name: "march.pdf", URL: "https://files/march.pdf"}
	suite.gateway.On("AddDocument", mock.Anything, "r1", doc).Return(nil, apperrors.NewTransportError("POST failed", nil)).Once()

	err := suite.requests.AddDocument(suite.ctx, "r1", doc)

	suite.ErrorIs(err, apperrors.ErrTransport)
	first := suite.requests.Requests()[0]
	suite.Equal(domain.DocumentRequestPending, first.Status)
	suite.Empty(first.Documents)
}

func (suite *DocumentRequestsTestSuite) TestEventReplacesInPlaceAndIgnoresUnknown() {
	update := docRequest("r1", domain.DocumentRequestSubmitted)
	suite.Require().NoError(suite.channel.Deliver(realtime.EventDocumentRequestUpdate, update))
	suite.Require().NoError(suite.channel.Deliver(realtime.EventDocumentRequestUpdate, update))
	suite.Require().NoError(suite.channel.Deliver(realtime.EventDocumentRequestUpdate, docRequest("r9", domain.DocumentRequestPending)))

	all := suite.requests.Requests()
	suite.Require().Len(all, 2)
	suite.Equal("r1", all[0].RequestID)
	suite.Equal(domain.DocumentRequestSubmitted, all[0].Status)
	suite.Equal(0, suite.requests.Pending())
}

func (suite *DocumentRequestsTestSuite) TestUnknownRequestIsNoop() {
	suite.NoError(suite.requests.UpdateStatus(suite.ctx, "missing", domain.DocumentRequestApproved))
}

func TestDocumentRequestsTestSuite(t *testing.T) {
	suite.Run(t, new(DocumentRequestsTestSuite))
}
