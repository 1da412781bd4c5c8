package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pbc_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pbc_workflow_app/internal/core/ports/services"
)

type profileService struct {
	BaseService
	profileRepo portsrepo.ProfileRepositoryFacade
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo portsrepo.ProfileRepositoryFacade) portssvc.ProfileSvcFacade {
	return &profileService{profileRepo: profileRepo}
}

var _ portssvc.ProfileSvcFacade = (*profileService)(nil)

func (s *profileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.profileRepo.FindProfileByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load profile", slog.String("user_id", userID))
		}
		return nil, err
	}
	return profile, nil
}

// CountClients counts the client profiles of the actor's organization.
func (s *profileService) CountClients(ctx context.Context, actor domain.Profile) (int, error) {
	if err := requireStaff(actor, "count clients"); err != nil {
		return 0, err
	}
	count, err := s.profileRepo.CountProfilesByRole(ctx, actor.OrganizationID, domain.RoleClient)
	if err != nil {
		s.LogError(ctx, err, "Failed to count clients", slog.String("organization_id", actor.OrganizationID))
		return 0, err
	}
	return count, nil
}
