// Package gateway is the HTTP implementation of the remote data gateway,
// talking to the backend's /api/v1 REST API with a bearer token.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	portgateway "github.com/SscSPs/pbc_workflow_app/internal/core/ports/gateway"
	"github.com/SscSPs/pbc_workflow_app/internal/dto"
	"golang.org/x/oauth2"
)

const defaultTimeout = 30 * time.Second

// HTTPGateway implements gateway.Gateway over the backend REST API.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ portgateway.Gateway = (*HTTPGateway)(nil)

// Option configures an HTTPGateway.
type Option func(*HTTPGateway)

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(g *HTTPGateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithHTTPClient replaces the oauth2-authenticated client, mostly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(g *HTTPGateway) { g.client = client }
}

// NewHTTPGateway creates a gateway for baseURL (e.g. http://localhost:8080/api/v1)
// that sends accessToken as a bearer token on every request.
func NewHTTPGateway(ctx context.Context, baseURL, accessToken string, opts ...Option) *HTTPGateway {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}))
	client.Timeout = defaultTimeout
	g := &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type errorBody struct {
	Error string `json:"error"`
}

// mapStatus turns a non-2xx response into an error matching the apperrors sentinels.
func mapStatus(status int, body []byte) error {
	var eb errorBody
	message := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
		message = eb.Error
	}
	if message == "" {
		message = http.StatusText(status)
	}
	switch status {
	case http.StatusNotFound:
		return apperrors.NewNotFoundError(message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.NewValidationFailedError(message)
	case http.StatusConflict:
		return apperrors.NewConflictError(message)
	case http.StatusForbidden:
		return apperrors.NewForbiddenError(message)
	case http.StatusUnauthorized:
		return apperrors.NewAppError(status, message, apperrors.ErrUnauthorized)
	default:
		return apperrors.NewTransportError(message, fmt.Errorf("unexpected status %d", status))
	}
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: cannot encode request body: %w", apperrors.ErrValidation, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return apperrors.NewTransportError("failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		g.logger.WarnContext(ctx, "Gateway request failed", slog.String("method", method), slog.String("path", path), slog.Any("error", err))
		return apperrors.NewTransportError(method+" "+path+" failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		g.logger.DebugContext(ctx, "Gateway request rejected", slog.String("method", method), slog.String("path", path), slog.Int("status", resp.StatusCode))
		return mapStatus(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewTransportError("failed to decode response of "+method+" "+path, err)
	}
	return nil
}

func (g *HTTPGateway) GetAll(ctx context.Context) ([]domain.Engagement, error) {
	var resp dto.ListEngagementsResponse
	if err := g.do(ctx, http.MethodGet, "/engagements", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Engagements, nil
}

func (g *HTTPGateway) GetClientEngagements(ctx context.Context) ([]domain.Engagement, error) {
	var resp dto.ListEngagementsResponse
	if err := g.do(ctx, http.MethodGet, "/engagements/client", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Engagements, nil
}

func (g *HTTPGateway) GetChecklistByEngagement(ctx context.Context, engagementID string) ([]domain.ChecklistItem, error) {
	var resp dto.ListChecklistItemsResponse
	if err := g.do(ctx, http.MethodGet, "/engagements/"+url.PathEscape(engagementID)+"/checklist", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (g *HTTPGateway) UpdateChecklistItem(ctx context.Context, itemID string, patch domain.ChecklistItemPatch) (*domain.ChecklistItem, error) {
	var item domain.ChecklistItem
	if err := g.do(ctx, http.MethodPatch, "/checklist/"+url.PathEscape(itemID), patch, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (g *HTTPGateway) GetDocumentRequestsByEngagement(ctx context.Context, engagementID string) ([]domain.DocumentRequest, error) {
	var resp dto.ListDocumentRequestsResponse
	if err := g.do(ctx, http.MethodGet, "/engagements/"+url.PathEscape(engagementID)+"/document-requests", nil, &resp); err != nil {
		return nil, err
	}
	return resp.DocumentRequests, nil
}

func (g *HTTPGateway) CreateDocumentRequest(ctx context.Context, req dto.CreateDocumentRequestRequest) (*domain.DocumentRequest, error) {
	var created domain.DocumentRequest
	if err := g.do(ctx, http.MethodPost, "/document-requests", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (g *HTTPGateway) UpdateDocumentRequestStatus(ctx context.Context, requestID string, status domain.DocumentRequestStatus) (*domain.DocumentRequest, error) {
	var updated domain.DocumentRequest
	body := dto.UpdateDocumentRequestStatusRequest{Status: string(status)}
	if err := g.do(ctx, http.MethodPatch, "/document-requests/"+url.PathEscape(requestID)+"/status", body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (g *HTTPGateway) AddDocument(ctx context.Context, requestID string, doc dto.AddDocumentRequest) (*domain.DocumentRequest, error) {
	var updated domain.DocumentRequest
	if err := g.do(ctx, http.MethodPost, "/document-requests/"+url.PathEscape(requestID)+"/documents", doc, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (g *HTTPGateway) GetWorkflowByEngagement(ctx context.Context, engagementID string) (*domain.PBCWorkflow, error) {
	var wf domain.PBCWorkflow
	if err := g.do(ctx, http.MethodGet, "/engagements/"+url.PathEscape(engagementID)+"/pbc", nil, &wf); err != nil {
		return nil, err
	}
	return &wf, nil
}

func (g *HTTPGateway) questionAction(ctx context.Context, workflowID, questionID, action string, body any) (*domain.PBCWorkflow, error) {
	var wf domain.PBCWorkflow
	path := "/pbc/" + url.PathEscape(workflowID) + "/questions/" + url.PathEscape(questionID) + "/" + action
	if err := g.do(ctx, http.MethodPost, path, body, &wf); err != nil {
		return nil, err
	}
	return &wf, nil
}

func (g *HTTPGateway) AnswerQuestion(ctx context.Context, workflowID, questionID string, req dto.AnswerQuestionRequest) (*domain.PBCWorkflow, error) {
	return g.questionAction(ctx, workflowID, questionID, "answer", req)
}

func (g *HTTPGateway) RaiseDoubt(ctx context.Context, workflowID, questionID string, req dto.RaiseDoubtRequest) (*domain.PBCWorkflow, error) {
	return g.questionAction(ctx, workflowID, questionID, "doubt", req)
}

func (g *HTTPGateway) AddDiscussion(ctx context.Context, workflowID, questionID string, req dto.AddDiscussionRequest) (*domain.PBCWorkflow, error) {
	return g.questionAction(ctx, workflowID, questionID, "discussions", req)
}

func (g *HTTPGateway) Transition(ctx context.Context, workflowID string, target domain.PBCStatus) (*domain.PBCWorkflow, error) {
	var wf domain.PBCWorkflow
	if err := g.do(ctx, http.MethodPost, "/pbc/"+url.PathEscape(workflowID)+"/transition", dto.TransitionRequest{Status: target}, &wf); err != nil {
		return nil, err
	}
	return &wf, nil
}

func (g *HTTPGateway) CountClients(ctx context.Context) (int, error) {
	var resp dto.ClientCountResponse
	if err := g.do(ctx, http.MethodGet, "/profiles/clients/count", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (g *HTTPGateway) FetchTrialBalance(ctx context.Context, engagementID, sheetURL string) (*domain.TrialBalance, error) {
	path := "/engagements/" + url.PathEscape(engagementID) + "/trial-balance"
	if sheetURL != "" {
		path += "?" + url.Values{"sheetUrl": {sheetURL}}.Encode()
	}
	var tb domain.TrialBalance
	if err := g.do(ctx, http.MethodGet, path, nil, &tb); err != nil {
		return nil, err
	}
	return &tb, nil
}

// GetMe returns the profile the access token belongs to.
func (g *HTTPGateway) GetMe(ctx context.Context) (*domain.Profile, error) {
	var profile domain.Profile
	if err := g.do(ctx, http.MethodGet, "/profiles/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
