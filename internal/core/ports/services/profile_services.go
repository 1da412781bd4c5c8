package services

import (
	"context"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
)

// ProfileSvcFacade resolves authenticated users to profiles
type ProfileSvcFacade interface {
	// GetProfile returns the profile of userID.
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)

	// CountClients counts client profiles in the actor's organization.
	CountClients(ctx context.Context, actor domain.Profile) (int, error)
}
