package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	portssvc "github.com/SscSPs/pbc_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/pbc_workflow_app/internal/dto"
	"github.com/SscSPs/pbc_workflow_app/internal/handlers"
	"github.com/SscSPs/pbc_workflow_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type HandlersTestSuite struct {
	suite.Suite
	router *gin.Engine

	engagements  *MockEngagementService
	checklist    *MockChecklistService
	requests     *MockDocumentRequestService
	pbc          *MockPBCService
	profiles     *MockProfileService
	trialBalance *MockTrialBalanceService

	actor       domain.Profile
	withProfile bool
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(handlers.RegisterValidators())

	suite.engagements = new(MockEngagementService)
	suite.checklist = new(MockChecklistService)
	suite.requests = new(MockDocumentRequestService)
	suite.pbc = new(MockPBCService)
	suite.profiles = new(MockProfileService)
	suite.trialBalance = new(MockTrialBalanceService)
	suite.actor = domain.Profile{UserID: "u-emp", OrganizationID: "org-1", Role: domain.RoleEmployee}
	suite.withProfile = true

	services := &portssvc.ServiceContainer{
		Engagement:      suite.engagements,
		Checklist:       suite.checklist,
		DocumentRequest: suite.requests,
		PBC:             suite.pbc,
		Profile:         suite.profiles,
		TrialBalance:    suite.trialBalance,
	}

	suite.router = gin.New()
	// Stands in for AuthMiddleware + ProfileMiddleware
	v1 := suite.router.Group("/api/v1", func(c *gin.Context) {
		if suite.withProfile {
			c.Request = c.Request.WithContext(middleware.WithProfile(c.Request.Context(), suite.actor))
		}
		c.Next()
	})
	handlers.RegisterEngagementRoutes(v1, services.Engagement)
	handlers.RegisterChecklistRoutes(v1, services.Checklist)
	handlers.RegisterDocumentRequestRoutes(v1, services.DocumentRequest)
	handlers.RegisterPBCRoutes(v1, services.PBC)
	handlers.RegisterProfileRoutes(v1, services.Profile)
	handlers.RegisterTrialBalanceRoutes(v1, services.TrialBalance)
}

func (suite *HandlersTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			suite.Require().NoError(json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) errorBody(w *httptest.ResponseRecorder) string {
	var body map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

// --- Engagements ---

func (suite *HandlersTestSuite) TestListEngagements() {
	suite.engagements.On("ListEngagements", mock.Anything, suite.actor).
		Return([]domain.Engagement{{EngagementID: "eng-1", Status: domain.EngagementActive}}, nil).Once()

	w := suite.do(http.MethodGet, "/engagements", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListEngagementsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Engagements, 1)
	suite.Equal("eng-1", resp.Engagements[0].EngagementID)
}

func (suite *HandlersTestSuite) TestListEngagementsHidesInternalErrors() {
	suite.engagements.On("ListEngagements", mock.Anything, suite.actor).
		Return(nil, errors.New("connection reset by peer")).Once()

	w := suite.do(http.MethodGet, "/engagements", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("Failed to list engagements", suite.errorBody(w))
}

func (suite *HandlersTestSuite) TestGetEngagementForbidden() {
	suite.engagements.On("GetEngagement", mock.Anything, suite.actor, "eng-2").
		Return(nil, apperrors.NewForbiddenError("engagement eng-2 belongs to another organization")).Once()

	w := suite.do(http.MethodGet, "/engagements/eng-2", nil)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("engagement eng-2 belongs to another organization", suite.errorBody(w))
}

func (suite *HandlersTestSuite) TestClientEngagementsRouteIsNotAnID() {
	suite.engagements.On("ListClientEngagements", mock.Anything, suite.actor).Return([]domain.Engagement{}, nil).Once()

	w := suite.do(http.MethodGet, "/engagements/client", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"engagements":[]}`, w.Body.String())
	suite.engagements.AssertNotCalled(suite.T(), "GetEngagement", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestCreateEngagementRejectsInvalidBody() {
	w := suite.do(http.MethodPost, "/engagements", `{"title":"FY24 audit"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.engagements.AssertNotCalled(suite.T(), "CreateEngagement", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestCreateEngagement() {
	yearEnd := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	req := dto.CreateEngagementRequest{ClientID: "client-1", Title: "FY24 audit", YearEndDate: yearEnd}
	suite.engagements.On("CreateEngagement", mock.Anything, suite.actor, req).
		Return(&domain.Engagement{EngagementID: "eng-9", ClientID: "client-1", Status: domain.EngagementDraft}, nil).Once()

	w := suite.do(http.MethodPost, "/engagements", req)

	suite.Equal(http.StatusCreated, w.Code)
	suite.Contains(w.Body.String(), `"id":"eng-9"`)
}

func (suite *HandlersTestSuite) TestMissingProfileIsUnauthorized() {
	suite.withProfile = false

	w := suite.do(http.MethodGet, "/engagements", nil)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.engagements.AssertNotCalled(suite.T(), "ListEngagements", mock.Anything, mock.Anything)
}

// --- Checklist ---

func (suite *HandlersTestSuite) TestToggleChecklistItem() {
	done := true
	suite.checklist.On("UpdateChecklistItem", mock.Anything, suite.actor, "item-1", domain.ChecklistItemPatch{Completed: &done}).
		Return(&domain.ChecklistItem{ItemID: "item-1", Key: "bc_1", Completed: true}, nil).Once()

	w := suite.do(http.MethodPatch, "/checklist/item-1", `{"completed":true}`)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"completed":true`)
}

func (suite *HandlersTestSuite) TestToggleChecklistItemRequiresCompleted() {
	w := suite.do(http.MethodPatch, "/checklist/item-1", `{}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.checklist.AssertNotCalled(suite.T(), "UpdateChecklistItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestToggleUnknownChecklistItem() {
	suite.checklist.On("UpdateChecklistItem", mock.Anything, suite.actor, "gone", mock.Anything).
		Return(nil, apperrors.NewNotFoundError("checklist item gone not found")).Once()

	w := suite.do(http.MethodPatch, "/checklist/gone", `{"completed":false}`)

	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Document requests ---

func (suite *HandlersTestSuite) TestCompletedStatusIsApproved() {
	suite.requests.On("UpdateDocumentRequestStatus", mock.Anything, suite.actor, "req-1", domain.DocumentRequestApproved).
		Return(&domain.DocumentRequest{RequestID: "req-1", Status: domain.DocumentRequestApproved}, nil).Once()

	w := suite.do(http.MethodPatch, "/document-requests/req-1/status", `{"status":"completed"}`)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"status":"approved"`)
}

func (suite *HandlersTestSuite) TestUnknownDocumentStatusRejected() {
	w := suite.do(http.MethodPatch, "/document-requests/req-1/status", `{"status":"archived"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.requests.AssertNotCalled(suite.T(), "UpdateDocumentRequestStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestWorkflowConflictOnDocumentUpload() {
	req := dto.AddDocumentRequest{Name: "bank.pdf", URL: "https://files.example.com/bank.pdf"}
	suite.requests.On("AddDocument", mock.Anything, suite.actor, "req-1", req).
		Return(nil, apperrors.NewConflictError("workflow wf-1 was modified concurrently")).Once()

	w := suite.do(http.MethodPost, "/document-requests/req-1/documents", req)

	suite.Equal(http.StatusConflict, w.Code)
}

// --- PBC workflow ---

func (suite *HandlersTestSuite) TestAnswerQuestionReturnsWorkflow() {
	wf := domain.NewPBCWorkflow("wf-1", "eng-1")
	wf.Status = domain.PBCClientResponses
	suite.pbc.On("AnswerQuestion", mock.Anything, suite.actor, "wf-1", "q-1", dto.AnswerQuestionRequest{Answer: "Attached"}).
		Return(&wf, nil).Once()

	w := suite.do(http.MethodPost, "/pbc/wf-1/questions/q-1/answer", `{"answer":"Attached"}`)

	suite.Equal(http.StatusOK, w.Code)
	var got domain.PBCWorkflow
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal("wf-1", got.WorkflowID)
	suite.Equal(domain.PBCClientResponses, got.Status)
}

func (suite *HandlersTestSuite) TestTransitionValidatesTargetStage() {
	w := suite.do(http.MethodPost, "/pbc/wf-1/transition", `{"status":"archived"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.pbc.AssertNotCalled(suite.T(), "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlersTestSuite) TestTransitionPreconditionFailure() {
	suite.pbc.On("Transition", mock.Anything, suite.actor, "wf-1", domain.PBCSubmitted).
		Return(nil, apperrors.NewValidationFailedError("2 mandatory questions are unanswered")).Once()

	w := suite.do(http.MethodPost, "/pbc/wf-1/transition", `{"status":"submitted"}`)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("2 mandatory questions are unanswered", suite.errorBody(w))
}

func (suite *HandlersTestSuite) TestInitiateWorkflow() {
	wf := domain.NewPBCWorkflow("wf-1", "eng-1")
	suite.pbc.On("InitiateWorkflow", mock.Anything, suite.actor, "eng-1").Return(&wf, nil).Once()

	w := suite.do(http.MethodPost, "/engagements/eng-1/pbc", nil)

	suite.Equal(http.StatusCreated, w.Code)
}

func (suite *HandlersTestSuite) TestAddQuestionPassesCategory() {
	wf := domain.NewPBCWorkflow("wf-1", "eng-1")
	req := dto.CreateQuestionRequest{Question: "Any related parties?", IsMandatory: true}
	suite.pbc.On("AddQuestion", mock.Anything, suite.actor, "wf-1", "cat-1", req).Return(&wf, nil).Once()

	w := suite.do(http.MethodPost, "/pbc/wf-1/categories/cat-1/questions", req)

	suite.Equal(http.StatusCreated, w.Code)
	suite.pbc.AssertExpectations(suite.T())
}

// --- Profiles and trial balance ---

func (suite *HandlersTestSuite) TestCountClients() {
	suite.profiles.On("CountClients", mock.Anything, suite.actor).Return(3, nil).Once()

	w := suite.do(http.MethodGet, "/profiles/clients/count", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"count":3}`, w.Body.String())
}

func (suite *HandlersTestSuite) TestGetMe() {
	w := suite.do(http.MethodGet, "/profiles/me", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"userId":"u-emp"`)
}

func (suite *HandlersTestSuite) TestFetchTrialBalancePassesSheetURL() {
	sheetURL := "https://docs.google.com/spreadsheets/d/abc123/edit"
	tb := &domain.TrialBalance{
		EngagementID: "eng-1",
		Rows:         []domain.TrialBalanceRow{{AccountCode: "1000", Debit: decimal.NewFromInt(10)}},
		TotalDebit:   decimal.NewFromInt(10),
	}
	suite.trialBalance.On("FetchTrialBalance", mock.Anything, suite.actor, "eng-1", sheetURL).Return(tb, nil).Once()

	w := suite.do(http.MethodGet, "/engagements/eng-1/trial-balance?sheetUrl="+sheetURL, nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"accountCode":"1000"`)
}

func (suite *HandlersTestSuite) TestFetchTrialBalanceNotConfigured() {
	suite.trialBalance.On("FetchTrialBalance", mock.Anything, suite.actor, "eng-1", "").
		Return(nil, apperrors.NewAppError(http.StatusServiceUnavailable, "trial balance import is not configured", nil)).Once()

	w := suite.do(http.MethodGet, "/engagements/eng-1/trial-balance", nil)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
