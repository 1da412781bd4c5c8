package repositories

import (
	"context"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
)

// EngagementReader defines read operations for engagement data
type EngagementReader interface {
	// FindEngagementByID retrieves a specific engagement by its ID.
	FindEngagementByID(ctx context.Context, engagementID string) (*domain.Engagement, error)

	// ListEngagementsByOrganization retrieves every engagement of an organization.
	ListEngagementsByOrganization(ctx context.Context, organizationID string) ([]domain.Engagement, error)

	// ListEngagementsByClient retrieves the engagements of one client.
	ListEngagementsByClient(ctx context.Context, clientID string) ([]domain.Engagement, error)
}

// EngagementWriter defines write operations for engagement data
type EngagementWriter interface {
	// SaveEngagement persists a new engagement.
	SaveEngagement(ctx context.Context, engagement domain.Engagement) error
}

// EngagementRepositoryFacade combines all engagement-related repository interfaces
type EngagementRepositoryFacade interface {
	EngagementReader
	EngagementWriter
}
