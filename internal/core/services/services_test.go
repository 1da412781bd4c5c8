package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pbc_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pbc_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/pbc_workflow_app/internal/core/services"
	"github.com/SscSPs/pbc_workflow_app/internal/dto"
	"github.com/SscSPs/pbc_workflow_app/internal/realtime"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ServicesTestSuite struct {
	suite.Suite
	ctx         context.Context
	engagements *MockEngagementRepository
	checklist   *MockChecklistRepository
	requests    *MockDocumentRequestRepository
	workflows   *MockWorkflowRepository
	profiles    *MockProfileRepository
	publisher   *recordingPublisher
	analytics   *MockAnalytics
	sheets      *stubSheetReader
	svc         *portssvc.ServiceContainer

	staff      domain.Profile
	client     domain.Profile
	engagement domain.Engagement
}

func (suite *ServicesTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.engagements = new(MockEngagementRepository)
	suite.checklist = new(MockChecklistRepository)
	suite.requests = new(MockDocumentRequestRepository)
	suite.workflows = new(MockWorkflowRepository)
	suite.profiles = new(MockProfileRepository)
	suite.publisher = &recordingPublisher{}
	suite.analytics = new(MockAnalytics)
	suite.sheets = &stubSheetReader{}

	suite.svc = services.NewServiceContainer(portsrepo.RepositoryProvider{
		EngagementRepo:      suite.engagements,
		ChecklistRepo:       suite.checklist,
		DocumentRequestRepo: suite.requests,
		PBCWorkflowRepo:     suite.workflows,
		ProfileRepo:         suite.profiles,
	}, services.Dependencies{
		Publisher: suite.publisher,
		Analytics: suite.analytics,
		Sheets:    suite.sheets,
	})

	clientID := "client-1"
	suite.staff = domain.Profile{UserID: "u-aud", OrganizationID: "org-1", Role: domain.RoleEmployee}
	suite.client = domain.Profile{UserID: "u-cli", OrganizationID: "org-1", Role: domain.RoleClient, ClientID: &clientID}
	suite.engagement = domain.Engagement{EngagementID: "eng-1", OrganizationID: "org-1", ClientID: "client-1", Status: domain.EngagementActive}
	suite.engagements.On("FindEngagementByID", mock.Anything, "eng-1").Return(&suite.engagement, nil).Maybe()
}

func (suite *ServicesTestSuite) workflow(status domain.PBCStatus, requests ...domain.DocumentRequest) *domain.PBCWorkflow {
	wf := domain.NewPBCWorkflow("wf-1", "eng-1")
	wf.Status = status
	wf.Version = 4
	if requests != nil {
		wf.DocumentRequests = requests
	}
	return &wf
}

func request(id string, status domain.DocumentRequestStatus, mandatory bool) domain.DocumentRequest {
	return domain.DocumentRequest{RequestID: id, EngagementID: "eng-1", Status: status, IsMandatory: mandatory, Documents: []domain.Document{}}
}

// --- engagements ---

func (suite *ServicesTestSuite) TestClientCannotSeeAnotherClientsEngagement() {
	other := "client-2"
	intruder := suite.client
	intruder.ClientID = &other

	_, err := suite.svc.Engagement.GetEngagement(suite.ctx, intruder, "eng-1")

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ServicesTestSuite) TestStaffCannotSeeAnotherOrganizationsEngagement() {
	outsider := suite.staff
	outsider.OrganizationID = "org-2"

	_, err := suite.svc.Engagement.GetEngagement(suite.ctx, outsider, "eng-1")

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ServicesTestSuite) TestCreateEngagementDefaultsToDraft() {
	suite.engagements.On("SaveEngagement", mock.Anything, mock.MatchedBy(func(e domain.Engagement) bool {
		return e.Status == domain.EngagementDraft && e.OrganizationID == "org-1" && e.CreatedBy == "u-aud"
	})).Return(nil).Once()

	e, err := suite.svc.Engagement.CreateEngagement(suite.ctx, suite.staff, dto.CreateEngagementRequest{
		ClientID: "client-1", Title: "FY26 audit", YearEndDate: time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	})

	suite.Require().NoError(err)
	suite.NotEmpty(e.EngagementID)
	suite.engagements.AssertExpectations(suite.T())
}

func (suite *ServicesTestSuite) TestClientsCannotCreateEngagements() {
	_, err := suite.svc.Engagement.CreateEngagement(suite.ctx, suite.client, dto.CreateEngagementRequest{ClientID: "client-1", Title: "x"})

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.engagements.AssertNotCalled(suite.T(), "SaveEngagement", mock.Anything, mock.Anything)
}

func (suite *ServicesTestSuite) TestListEngagementsScopesByRole() {
	suite.engagements.On("ListEngagementsByClient", mock.Anything, "client-1").Return([]domain.Engagement{suite.engagement}, nil).Once()
	suite.engagements.On("ListEngagementsByOrganization", mock.Anything, "org-1").Return(nil, nil).Once()

	mine, err := suite.svc.Engagement.ListEngagements(suite.ctx, suite.client)
	suite.Require().NoError(err)
	suite.Len(mine, 1)

	all, err := suite.svc.Engagement.ListEngagements(suite.ctx, suite.staff)
	suite.Require().NoError(err)
	suite.NotNil(all)
	suite.Empty(all)
}

// --- checklist ---

func (suite *ServicesTestSuite) TestToggleChecklistItemPersistsAndBroadcasts() {
	suite.checklist.On("FindChecklistItemByID", mock.Anything, "item-1").
		Return(&domain.ChecklistItem{ItemID: "item-1", EngagementID: "eng-1", Key: "bc_1"}, nil).Once()
	suite.checklist.On("UpdateChecklistItem", mock.Anything, mock.MatchedBy(func(i domain.ChecklistItem) bool {
		return i.Completed && i.CompletedAt != nil
	})).Return(nil).Once()
	done := true

	item, err := suite.svc.Checklist.UpdateChecklistItem(suite.ctx, suite.client, "item-1", domain.ChecklistItemPatch{Completed: &done})

	suite.Require().NoError(err)
	suite.True(item.Completed)
	suite.Equal([]string{realtime.EventChecklistUpdate}, suite.publisher.Events())
}

func (suite *ServicesTestSuite) TestChecklistPatchWithoutCompletedRejected() {
	_, err := suite.svc.Checklist.UpdateChecklistItem(suite.ctx, suite.staff, "item-1", domain.ChecklistItemPatch{})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.checklist.AssertNotCalled(suite.T(), "FindChecklistItemByID", mock.Anything, mock.Anything)
}

func (suite *ServicesTestSuite) TestChecklistFailureDoesNotBroadcast() {
	suite.checklist.On("FindChecklistItemByID", mock.Anything, "item-1").
		Return(&domain.ChecklistItem{ItemID: "item-1", EngagementID: "eng-1", Key: "bc_1"}, nil).Once()
	suite.checklist.On("UpdateChecklistItem", mock.Anything, mock.Anything).
		Return(apperrors.NewAppError(500, "db down", nil)).Once()
	done := true

	_, err := suite.svc.Checklist.UpdateChecklistItem(suite.ctx, suite.staff, "item-1", domain.ChecklistItemPatch{Completed: &done})

	suite.Error(err)
	suite.Empty(suite.publisher.Events())
}

// --- document requests ---

func (suite *ServicesTestSuite) TestCreateDocumentRequestWithoutWorkflow() {
	suite.workflows.On("FindWorkflowByEngagement", mock.Anything, "eng-1").Return(nil, apperrors.NewNotFoundError("no workflow")).Once()
	suite.requests.On("SaveDocumentRequest", mock.Anything, mock.MatchedBy(func(r domain.DocumentRequest) bool {
		return r.Status == domain.DocumentRequestPending && r.IsMandatory
	})).Return(nil).Once()

	r, err := suite.svc.DocumentRequest.CreateDocumentRequest(suite.ctx, suite.staff, dto.CreateDocumentRequestRequest{
		EngagementID: "eng-1", Category: "Cash", Description: "Bank statements", IsMandatory: true,
	})

	suite.Require().NoError(err)
	suite.NotEmpty(r.RequestID)
	suite.Equal([]string{realtime.EventDocumentRequestUpdate}, suite.publisher.Events())
}

func (suite *ServicesTestSuite) TestApprovingLastMandatoryRequestAdvancesWorkflow() {
	current := request("r1", domain.DocumentRequestSubmitted, true)
	suite.requests.On("FindDocumentRequestByID", mock.Anything, "r1").Return(&current, nil).Once()
	suite.workflows.On("FindWorkflowByEngagement", mock.Anything, "eng-1").
		Return(suite.workflow(domain.PBCDocumentCollection, current), nil).Once()
	suite.workflows.On("UpdateWorkflow", mock.Anything,
		mock.MatchedBy(func(wf domain.PBCWorkflow) bool {
			return wf.Status == domain.PBCQnAPreparation && wf.Version == 4
		}),
		mock.MatchedBy(func(changed []domain.DocumentRequest) bool {
			return len(changed) == 1 && changed[0].Status == domain.DocumentRequestApproved && changed[0].CompletedAt != nil
		}),
	).Return(nil).Once()
	approved := request("r1", domain.DocumentRequestApproved, true)
	approved.Version = 3
	suite.workflows.On("FindWorkflowByID", mock.Anything, "wf-1").
		Return(suite.workflow(domain.PBCQnAPreparation, approved), nil).Once()
	suite.analytics.On("Enqueue", "u-aud", "pbc_stage_changed", mock.MatchedBy(func(p map[string]any) bool {
		return p["from"] == "document-collection" && p["to"] == "qna-preparation"
	})).Once()

	r, err := suite.svc.DocumentRequest.UpdateDocumentRequestStatus(suite.ctx, suite.staff, "r1", domain.DocumentRequestApproved)

	suite.Require().NoError(err)
	suite.Equal(domain.DocumentRequestApproved, r.Status)
	suite.Equal(3, r.Version)
	suite.Equal([]string{realtime.EventPBCUpdate, realtime.EventDocumentRequestUpdate}, suite.publisher.Events())
	suite.analytics.AssertExpectations(suite.T())
}

func (suite *ServicesTestSuite) TestClientCannotApproveDocumentRequest() {
	current := request("r1", domain.DocumentRequestSubmitted, true)
	suite.requests.On("FindDocumentRequestByID", mock.Anything, "r1").Return(&current, nil).Once()

	_, err := suite.svc.DocumentRequest.UpdateDocumentRequestStatus(suite.ctx, suite.client, "r1", domain.DocumentRequestApproved)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.workflows.AssertNotCalled(suite.T(), "FindWorkflowByEngagement", mock.Anything, mock.Anything)
}

func (suite *ServicesTestSuite) TestUploadMovesPendingRequestToSubmitted() {
	current := request("r1", domain.DocumentRequestPending, false)
	suite.requests.On("FindDocumentRequestByID", mock.Anything, "r1").Return(&current, nil).Once()
	suite.workflows.On("FindWorkflowByEngagement", mock.Anything, "eng-1").Return(nil, apperrors.NewNotFoundError("no workflow")).Once()
	suite.requests.On("UpdateDocumentRequest", mock.Anything, mock.MatchedBy(func(r domain.DocumentRequest) bool {
		return r.Status == domain.DocumentRequestSubmitted && len(r.Documents) == 1
	})).Return(nil).Once()

	r, err := suite.svc.DocumentRequest.AddDocument(suite.ctx, suite.client, "r1", dto.AddDocumentRequest{Name: "bank.pdf", URL: "https://files.example/bank.pdf"})

	suite.Require().NoError(err)
	suite.Equal(domain.DocumentRequestSubmitted, r.Status)
	suite.Empty(current.Documents)
}

// --- PBC workflow ---

func (suite *ServicesTestSuite) TestSubmitWithUnansweredMandatoryQuestionRejected() {
	wf := suite.workflow(domain.PBCClientResponses, request("r1", domain.DocumentRequestApproved, true))
	wf.Categories = []domain.QnACategory{{CategoryID: "c1", Questions: []domain.QnAQuestion{
		{QuestionID: "q1", IsMandatory: true, Status: domain.QuestionUnanswered, Discussions: []domain.Discussion{}},
	}}}
	suite.workflows.On("FindWorkflowByID", mock.Anything, "wf-1").Return(wf, nil).Once()

	_, err := suite.svc.PBC.Transition(suite.ctx, suite.client, "wf-1", domain.PBCSubmitted)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.workflows.AssertNotCalled(suite.T(), "UpdateWorkflow", mock.Anything, mock.Anything, mock.Anything)
	suite.Empty(suite.publisher.Events())
}

func (suite *ServicesTestSuite) TestClientCannotMoveWorkflowBackwards() {
	_, err := suite.svc.PBC.Transition(suite.ctx, suite.client, "wf-1", domain.PBCQnAPreparation)

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *ServicesTestSuite) TestStaffCannotSetDerivedStage() {
	wf := suite.workflow(domain.PBCClientResponses, request("r1", domain.DocumentRequestApproved, true))
	wf.Categories = []domain.QnACategory{{CategoryID: "c1", Questions: []domain.QnAQuestion{
		{QuestionID: "q1", IsMandatory: true, Status: domain.QuestionAnswered, Discussions: []domain.Discussion{}},
	}}}
	suite.workflows.On("FindWorkflowByID", mock.Anything, "wf-1").Return(wf, nil).Once()

	_, err := suite.svc.PBC.Transition(suite.ctx, suite.staff, "wf-1", domain.PBCDocumentCollection)

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal(domain.PBCClientResponses, wf.Status)
	suite.workflows.AssertNotCalled(suite.T(), "UpdateWorkflow", mock.Anything, mock.Anything, mock.Anything)
	suite.Empty(suite.publisher.Events())
}

func (suite *ServicesTestSuite) TestConcurrentWorkflowWriteSurfacesConflict() {
	wf := suite.workflow(domain.PBCClientResponses, request("r1", domain.DocumentRequestApproved, true))
	wf.Categories = []domain.QnACategory{{CategoryID: "c1", Questions: []domain.QnAQuestion{
		{QuestionID: "q1", Status: domain.QuestionUnanswered, Discussions: []domain.Discussion{}},
	}}}
	suite.workflows.On("FindWorkflowByID", mock.Anything, "wf-1").Return(wf, nil).Once()
	suite.workflows.On("UpdateWorkflow", mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.NewConflictError("workflow wf-1 was modified concurrently")).Once()

	_, err := suite.svc.PBC.AnswerQuestion(suite.ctx, suite.client, "wf-1", "q1", dto.AnswerQuestionRequest{Answer: "Yes"})

	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Empty(suite.publisher.Events())
	q, _ := wf.FindQuestion("q1")
	suite.Equal(domain.QuestionUnanswered, q.Status)
}

func (suite *ServicesTestSuite) TestRaiseDoubtMovesToDoubtResolution() {
	wf := suite.workflow(domain.PBCClientResponses, request("r1", domain.DocumentRequestApproved, true))
	answeredAt := time.Now()
	wf.Categories = []domain.QnACategory{{CategoryID: "c1", Questions: []domain.QnAQuestion{
		{QuestionID: "q1", Status: domain.QuestionAnswered, Answer: "maybe", AnsweredAt: &answeredAt, Discussions: []domain.Discussion{}},
	}}}
	suite.workflows.On("FindWorkflowByID", mock.Anything, "wf-1").Return(wf, nil).Once()
	suite.workflows.On("UpdateWorkflow", mock.Anything, mock.MatchedBy(func(next domain.PBCWorkflow) bool {
		return next.Status == domain.PBCDoubtResolution
	}), mock.Anything).Return(nil).Once()
	stored := suite.workflow(domain.PBCDoubtResolution)
	suite.workflows.On("FindWorkflowByID", mock.Anything, "wf-1").Return(stored, nil).Once()
	suite.analytics.On("Enqueue", "u-aud", "pbc_stage_changed", mock.Anything).Once()

	got, err := suite.svc.PBC.RaiseDoubt(suite.ctx, suite.staff, "wf-1", "q1", dto.RaiseDoubtRequest{Reason: "incomplete"})

	suite.Require().NoError(err)
	suite.Equal(domain.PBCDoubtResolution, got.Status)
	suite.Equal([]string{realtime.EventPBCUpdate}, suite.publisher.Events())
}

func (suite *ServicesTestSuite) TestInitiateWorkflowAdoptsExistingRequests() {
	suite.requests.On("ListDocumentRequestsByEngagement", mock.Anything, "eng-1").
		Return([]domain.DocumentRequest{request("r1", domain.DocumentRequestApproved, true)}, nil).Once()
	suite.workflows.On("SaveWorkflow", mock.Anything, mock.MatchedBy(func(wf domain.PBCWorkflow) bool {
		return wf.Status == domain.PBCQnAPreparation && len(wf.DocumentRequests) == 1
	})).Return(nil).Once()
	suite.analytics.On("Enqueue", "u-aud", "pbc_stage_changed", mock.Anything).Once()

	wf, err := suite.svc.PBC.InitiateWorkflow(suite.ctx, suite.staff, "eng-1")

	suite.Require().NoError(err)
	suite.Equal(domain.PBCQnAPreparation, wf.Status)
	suite.workflows.AssertExpectations(suite.T())
}

// --- profiles ---

func (suite *ServicesTestSuite) TestCountClients() {
	suite.profiles.On("CountProfilesByRole", mock.Anything, "org-1", domain.RoleClient).Return(5, nil).Once()

	n, err := suite.svc.Profile.CountClients(suite.ctx, suite.staff)
	suite.Require().NoError(err)
	suite.Equal(5, n)

	_, err = suite.svc.Profile.CountClients(suite.ctx, suite.client)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- trial balance ---

func (suite *ServicesTestSuite) TestFetchTrialBalanceFromEngagementSheet() {
	url := "https://docs.google.com/spreadsheets/d/abc-123_X/edit#gid=0"
	suite.engagement.TrialBalanceURL = &url
	suite.sheets.values = [][]any{
		{"Code", "Account", "Debit", "Credit"},
		{"1000", "Cash", "1,500.00", ""},
		{},
		{"2000", "Payables", "", "1500"},
	}

	tb, err := suite.svc.TrialBalance.FetchTrialBalance(suite.ctx, suite.staff, "eng-1", "")

	suite.Require().NoError(err)
	suite.Equal("abc-123_X", suite.sheets.gotID)
	suite.Len(tb.Rows, 2)
	suite.True(tb.TotalDebit.Equal(decimal.NewFromInt(1500)))
	suite.True(tb.IsBalanced())
}

func (suite *ServicesTestSuite) TestFetchTrialBalanceWithoutSheetRejected() {
	_, err := suite.svc.TrialBalance.FetchTrialBalance(suite.ctx, suite.staff, "eng-1", "")

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestServicesTestSuite(t *testing.T) {
	suite.Run(t, new(ServicesTestSuite))
}

func TestParseTrialBalanceRows(t *testing.T) {
	rows, err := services.ParseTrialBalanceRows([][]any{
		{"4000", "Revenue", "-", "(250.50)"},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Credit.Equal(decimal.RequireFromString("-250.50")))

	_, err = services.ParseTrialBalanceRows([][]any{
		{"1000", "Cash", "10", "0"},
		{"1100", "Bank", "ten", "0"},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSpreadsheetID(t *testing.T) {
	id, err := services.SpreadsheetID("https://docs.google.com/spreadsheets/d/1AbC/edit")
	require.NoError(t, err)
	assert.Equal(t, "1AbC", id)

	_, err = services.SpreadsheetID("https://example.com/file.xlsx")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
