package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pbc_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pbc_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/pbc_workflow_app/internal/dto"
	"github.com/SscSPs/pbc_workflow_app/internal/realtime"
	"github.com/google/uuid"
)

type documentRequestService struct {
	BaseService
	requestRepo  portsrepo.DocumentRequestRepositoryFacade
	workflowRepo portsrepo.PBCWorkflowRepositoryFacade
}

// NewDocumentRequestService creates a new document request service
func NewDocumentRequestService(
	requestRepo portsrepo.DocumentRequestRepositoryFacade,
	workflowRepo portsrepo.PBCWorkflowRepositoryFacade,
	base BaseService,
) portssvc.DocumentRequestSvcFacade {
	return &documentRequestService{
		BaseService:  base,
		requestRepo:  requestRepo,
		workflowRepo: workflowRepo,
	}
}

var _ portssvc.DocumentRequestSvcFacade = (*documentRequestService)(nil)

func (s *documentRequestService) ListDocumentRequests(ctx context.Context, actor domain.Profile, engagementID string) ([]domain.DocumentRequest, error) {
	if _, err := s.AuthorizeEngagement(ctx, actor, engagementID); err != nil {
		return nil, err
	}
	requests, err := s.requestRepo.ListDocumentRequestsByEngagement(ctx, engagementID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list document requests", slog.String("engagement_id", engagementID))
		return nil, err
	}
	if requests == nil {
		return []domain.DocumentRequest{}, nil
	}
	return requests, nil
}

func (s *documentRequestService) CreateDocumentRequest(ctx context.Context, actor domain.Profile, req dto.CreateDocumentRequestRequest) (*domain.DocumentRequest, error) {
	if err := requireStaff(actor, "request documents"); err != nil {
		return nil, err
	}
	if _, err := s.AuthorizeEngagement(ctx, actor, req.EngagementID); err != nil {
		return nil, err
	}

	now := s.Now()
	request := domain.DocumentRequest{
		RequestID:    uuid.NewString(),
		EngagementID: req.EngagementID,
		Category:     req.Category,
		Description:  req.Description,
		IsMandatory:  req.IsMandatory,
		Status:       domain.DocumentRequestPending,
		Documents:    []domain.Document{},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
			Version:       1,
		},
	}
	return s.persist(ctx, actor, request, true)
}

func (s *documentRequestService) UpdateDocumentRequestStatus(ctx context.Context, actor domain.Profile, requestID string, status domain.DocumentRequestStatus) (*domain.DocumentRequest, error) {
	current, err := s.load(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}
	if actor.IsClient() && status != domain.DocumentRequestSubmitted {
		return nil, apperrors.NewForbiddenError("clients can only submit document requests")
	}

	updated := cloneRequest(*current)
	now := s.Now()
	if err := updated.TransitionTo(status, now); err != nil {
		return nil, err
	}
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = actor.UserID
	return s.persist(ctx, actor, updated, false)
}

func (s *documentRequestService) AddDocument(ctx context.Context, actor domain.Profile, requestID string, req dto.AddDocumentRequest) (*domain.DocumentRequest, error) {
	current, err := s.load(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}

	updated := cloneRequest(*current)
	now := s.Now()
	if err := updated.AddDocument(domain.Document{Name: req.Name, URL: req.URL, UploadedAt: now}); err != nil {
		return nil, err
	}
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = actor.UserID
	return s.persist(ctx, actor, updated, false)
}

func (s *documentRequestService) load(ctx context.Context, actor domain.Profile, requestID string) (*domain.DocumentRequest, error) {
	request, err := s.requestRepo.FindDocumentRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if _, err := s.AuthorizeEngagement(ctx, actor, request.EngagementID); err != nil {
		return nil, err
	}
	return request, nil
}

// persist writes the request. When the engagement has a workflow the request
// goes through it so the stage is re-derived in the same transaction.
func (s *documentRequestService) persist(ctx context.Context, actor domain.Profile, request domain.DocumentRequest, isNew bool) (*domain.DocumentRequest, error) {
	logger := s.GetLogger(ctx).With(
		slog.String("engagement_id", request.EngagementID),
		slog.String("request_id", request.RequestID))

	wf, err := s.workflowRepo.FindWorkflowByEngagement(ctx, request.EngagementID)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		if isNew {
			err = s.requestRepo.SaveDocumentRequest(ctx, request)
		} else {
			err = s.requestRepo.UpdateDocumentRequest(ctx, request)
		}
		if err != nil {
			logger.Error("Failed to persist document request", slog.String("error", err.Error()))
			return nil, err
		}
		if !isNew {
			request.Version++
		}
	case err != nil:
		logger.Error("Failed to load workflow for document request", slog.String("error", err.Error()))
		return nil, err
	default:
		from := wf.Status
		next := wf.Clone()
		if err := next.PutDocumentRequest(request); err != nil {
			return nil, err
		}
		next.LastUpdatedAt = request.LastUpdatedAt
		next.LastUpdatedBy = request.LastUpdatedBy
		saved, err := saveWorkflow(ctx, s.workflowRepo, next, request)
		if err != nil {
			logger.Error("Failed to persist document request through workflow", slog.String("error", err.Error()))
			return nil, err
		}
		if stored, err := saved.FindDocumentRequest(request.RequestID); err == nil {
			request = *stored
		}
		s.Publish(saved.EngagementID, realtime.EventPBCUpdate, *saved)
		s.TrackStageChange(actor, *saved, from, "document_request")
		if from != saved.Status {
			logger.Info("Workflow stage re-derived",
				slog.String("from", string(from)),
				slog.String("to", string(saved.Status)))
		}
	}

	logger.Info("Document request saved", slog.String("status", string(request.Status)))
	s.Publish(request.EngagementID, realtime.EventDocumentRequestUpdate, request)
	return &request, nil
}

func cloneRequest(r domain.DocumentRequest) domain.DocumentRequest {
	out := r
	out.Documents = append([]domain.Document{}, r.Documents...)
	return out
}

// saveWorkflow writes wf against the version it was loaded with and returns
// the stored workflow.
func saveWorkflow(ctx context.Context, repo portsrepo.PBCWorkflowRepositoryFacade, wf domain.PBCWorkflow, changed ...domain.DocumentRequest) (*domain.PBCWorkflow, error) {
	if err := repo.UpdateWorkflow(ctx, wf, changed...); err != nil {
		return nil, err
	}
	return repo.FindWorkflowByID(ctx, wf.WorkflowID)
}
