package repositories

import (
	"context"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
)

// ProfileRepositoryFacade reads portal user profiles.
type ProfileRepositoryFacade interface {
	// FindProfileByUserID retrieves the profile of an authenticated user.
	FindProfileByUserID(ctx context.Context, userID string) (*domain.Profile, error)

	// CountProfilesByRole counts an organization's profiles having role.
	CountProfilesByRole(ctx context.Context, organizationID string, role domain.Role) (int, error)
}
