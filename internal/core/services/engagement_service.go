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
	"github.com/google/uuid"
)

// engagementService implements the EngagementSvcFacade interface
type engagementService struct {
	BaseService
	engagementRepo portsrepo.EngagementRepositoryFacade
}

// NewEngagementService creates a new engagement service. It is also the
// engagement authorizer of every other service.
func NewEngagementService(engagementRepo portsrepo.EngagementRepositoryFacade, base BaseService) portssvc.EngagementSvcFacade {
	s := &engagementService{
		BaseService:    base,
		engagementRepo: engagementRepo,
	}
	s.EngagementAuthorizer = s
	return s
}

var _ portssvc.EngagementSvcFacade = (*engagementService)(nil)

// AuthorizeEngagementAccess lets staff see their organization's engagements
// and clients see their own.
func (s *engagementService) AuthorizeEngagementAccess(ctx context.Context, actor domain.Profile, engagementID string) (*domain.Engagement, error) {
	engagement, err := s.engagementRepo.FindEngagementByID(ctx, engagementID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find engagement", slog.String("engagement_id", engagementID))
		}
		return nil, err
	}

	if actor.IsClient() {
		if actor.ClientID == nil || *actor.ClientID != engagement.ClientID {
			s.LogInfo(ctx, "Client denied access to engagement",
				slog.String("engagement_id", engagementID),
				slog.String("user_id", actor.UserID))
			return nil, apperrors.NewForbiddenError("engagement " + engagementID + " belongs to another client")
		}
		return engagement, nil
	}
	if actor.OrganizationID != engagement.OrganizationID {
		return nil, apperrors.NewForbiddenError("engagement " + engagementID + " belongs to another organization")
	}
	return engagement, nil
}

func (s *engagementService) ListEngagements(ctx context.Context, actor domain.Profile) ([]domain.Engagement, error) {
	if actor.IsClient() {
		return s.ListClientEngagements(ctx, actor)
	}
	engagements, err := s.engagementRepo.ListEngagementsByOrganization(ctx, actor.OrganizationID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list engagements", slog.String("organization_id", actor.OrganizationID))
		return nil, err
	}
	if engagements == nil {
		return []domain.Engagement{}, nil
	}
	return engagements, nil
}

func (s *engagementService) ListClientEngagements(ctx context.Context, actor domain.Profile) ([]domain.Engagement, error) {
	if !actor.IsClient() || actor.ClientID == nil {
		return nil, apperrors.NewForbiddenError("only client users have client engagements")
	}
	engagements, err := s.engagementRepo.ListEngagementsByClient(ctx, *actor.ClientID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list client engagements", slog.String("client_id", *actor.ClientID))
		return nil, err
	}
	if engagements == nil {
		return []domain.Engagement{}, nil
	}
	return engagements, nil
}

func (s *engagementService) GetEngagement(ctx context.Context, actor domain.Profile, engagementID string) (*domain.Engagement, error) {
	return s.AuthorizeEngagementAccess(ctx, actor, engagementID)
}

func (s *engagementService) CreateEngagement(ctx context.Context, actor domain.Profile, req dto.CreateEngagementRequest) (*domain.Engagement, error) {
	if err := requireStaff(actor, "create engagements"); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = domain.EngagementDraft
	}
	if !status.IsValid() {
		return nil, apperrors.NewValidationFailedError("unknown engagement status " + string(status))
	}

	now := s.Now()
	engagement := domain.Engagement{
		EngagementID:    uuid.NewString(),
		OrganizationID:  actor.OrganizationID,
		ClientID:        req.ClientID,
		Title:           req.Title,
		Status:          status,
		YearEndDate:     req.YearEndDate,
		TrialBalanceURL: req.TrialBalanceURL,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
			Version:       1,
		},
	}
	if err := s.engagementRepo.SaveEngagement(ctx, engagement); err != nil {
		s.LogError(ctx, err, "Failed to save engagement", slog.String("client_id", req.ClientID))
		return nil, err
	}

	s.LogInfo(ctx, "Engagement created",
		slog.String("engagement_id", engagement.EngagementID),
		slog.String("client_id", engagement.ClientID))
	return &engagement, nil
}
