package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pbc_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pbc_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/pbc_workflow_app/internal/dto"
	"github.com/SscSPs/pbc_workflow_app/internal/realtime"
	"github.com/google/uuid"
)

type pbcService struct {
	BaseService
	workflowRepo portsrepo.PBCWorkflowRepositoryFacade
	requestRepo  portsrepo.DocumentRequestReader
}

// NewPBCService creates a new PBC workflow service
func NewPBCService(
	workflowRepo portsrepo.PBCWorkflowRepositoryFacade,
	requestRepo portsrepo.DocumentRequestReader,
	base BaseService,
) portssvc.PBCSvcFacade {
	return &pbcService{
		BaseService:  base,
		workflowRepo: workflowRepo,
		requestRepo:  requestRepo,
	}
}

var _ portssvc.PBCSvcFacade = (*pbcService)(nil)

func (s *pbcService) GetWorkflow(ctx context.Context, actor domain.Profile, engagementID string) (*domain.PBCWorkflow, error) {
	if _, err := s.AuthorizeEngagement(ctx, actor, engagementID); err != nil {
		return nil, err
	}
	return s.workflowRepo.FindWorkflowByEngagement(ctx, engagementID)
}

// InitiateWorkflow adopts the engagement's existing document requests, so a
// workflow started late may begin past document collection.
func (s *pbcService) InitiateWorkflow(ctx context.Context, actor domain.Profile, engagementID string) (*domain.PBCWorkflow, error) {
	if err := requireStaff(actor, "start a PBC workflow"); err != nil {
		return nil, err
	}
	if _, err := s.AuthorizeEngagement(ctx, actor, engagementID); err != nil {
		return nil, err
	}
	requests, err := s.requestRepo.ListDocumentRequestsByEngagement(ctx, engagementID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	wf := domain.NewPBCWorkflow(uuid.NewString(), engagementID)
	if requests != nil {
		wf.DocumentRequests = requests
	}
	wf.Status = domain.DeriveStatus(wf)
	wf.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actor.UserID,
		LastUpdatedAt: now,
		LastUpdatedBy: actor.UserID,
		Version:       1,
	}
	if err := s.workflowRepo.SaveWorkflow(ctx, wf); err != nil {
		s.LogError(ctx, err, "Failed to save workflow", slog.String("engagement_id", engagementID))
		return nil, err
	}

	s.LogInfo(ctx, "PBC workflow started",
		slog.String("engagement_id", engagementID),
		slog.String("workflow_id", wf.WorkflowID),
		slog.String("status", string(wf.Status)))
	s.Publish(engagementID, realtime.EventPBCUpdate, wf)
	s.TrackStageChange(actor, wf, "", "initiate")
	return &wf, nil
}

func (s *pbcService) AddCategory(ctx context.Context, actor domain.Profile, workflowID string, req dto.CreateCategoryRequest) (*domain.PBCWorkflow, error) {
	if err := requireStaff(actor, "edit questions"); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, workflowID, "add_category", func(wf *domain.PBCWorkflow) error {
		return wf.AddCategory(domain.QnACategory{CategoryID: uuid.NewString(), Title: req.Title})
	})
}

func (s *pbcService) AddQuestion(ctx context.Context, actor domain.Profile, workflowID, categoryID string, req dto.CreateQuestionRequest) (*domain.PBCWorkflow, error) {
	if err := requireStaff(actor, "edit questions"); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, workflowID, "add_question", func(wf *domain.PBCWorkflow) error {
		return wf.AddQuestion(categoryID, domain.QnAQuestion{
			QuestionID:  uuid.NewString(),
			Question:    req.Question,
			IsMandatory: req.IsMandatory,
		})
	})
}

func (s *pbcService) AnswerQuestion(ctx context.Context, actor domain.Profile, workflowID, questionID string, req dto.AnswerQuestionRequest) (*domain.PBCWorkflow, error) {
	now := s.Now()
	return s.mutate(ctx, actor, workflowID, "answer", func(wf *domain.PBCWorkflow) error {
		return wf.AnswerQuestion(questionID, req.Answer, now)
	})
}

func (s *pbcService) RaiseDoubt(ctx context.Context, actor domain.Profile, workflowID, questionID string, req dto.RaiseDoubtRequest) (*domain.PBCWorkflow, error) {
	if err := requireStaff(actor, "raise doubts"); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, workflowID, "doubt", func(wf *domain.PBCWorkflow) error {
		return wf.RaiseDoubt(questionID, req.Reason)
	})
}

func (s *pbcService) AddDiscussion(ctx context.Context, actor domain.Profile, workflowID, questionID string, req dto.AddDiscussionRequest) (*domain.PBCWorkflow, error) {
	d := domain.Discussion{
		DiscussionID: uuid.NewString(),
		AuthorID:     actor.UserID,
		Message:      req.Message,
		ReplyTo:      req.ReplyTo,
		CreatedAt:    s.Now(),
	}
	return s.mutate(ctx, actor, workflowID, "discussion", func(wf *domain.PBCWorkflow) error {
		return wf.AddDiscussion(questionID, d)
	})
}

// Transition publishes the questions (staff only) or submits the workflow.
func (s *pbcService) Transition(ctx context.Context, actor domain.Profile, workflowID string, target domain.PBCStatus) (*domain.PBCWorkflow, error) {
	if actor.IsClient() && target != domain.PBCSubmitted {
		return nil, apperrors.NewForbiddenError("clients can only submit the workflow")
	}
	now := s.Now()
	return s.mutate(ctx, actor, workflowID, "transition", func(wf *domain.PBCWorkflow) error {
		return wf.Transition(target, now)
	})
}

// mutate applies fn to a copy of the stored workflow and writes it back
// against the version it was read at. A concurrent writer yields a conflict.
func (s *pbcService) mutate(ctx context.Context, actor domain.Profile, workflowID, cause string, fn func(*domain.PBCWorkflow) error) (*domain.PBCWorkflow, error) {
	current, err := s.workflowRepo.FindWorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	if _, err := s.AuthorizeEngagement(ctx, actor, current.EngagementID); err != nil {
		return nil, err
	}

	next := current.Clone()
	if err := fn(&next); err != nil {
		s.LogDebug(ctx, "Workflow change rejected",
			slog.String("workflow_id", workflowID),
			slog.String("cause", cause),
			slog.String("error", err.Error()))
		return nil, err
	}
	next.LastUpdatedAt = s.Now()
	next.LastUpdatedBy = actor.UserID

	saved, err := saveWorkflow(ctx, s.workflowRepo, next)
	if err != nil {
		s.LogError(ctx, err, "Failed to save workflow",
			slog.String("workflow_id", workflowID),
			slog.String("cause", cause))
		return nil, err
	}

	s.LogInfo(ctx, "Workflow updated",
		slog.String("workflow_id", workflowID),
		slog.String("cause", cause),
		slog.String("status", string(saved.Status)))
	s.Publish(saved.EngagementID, realtime.EventPBCUpdate, *saved)
	s.TrackStageChange(actor, *saved, current.Status, cause)
	return saved, nil
}
