package services

import (
	"context"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/SscSPs/pbc_workflow_app/internal/dto"
)

// EngagementReaderSvc defines read operations for engagements
type EngagementReaderSvc interface {
	// ListEngagements returns every engagement visible to the actor:
	// the organization's engagements for staff, the client's own for clients.
	ListEngagements(ctx context.Context, actor domain.Profile) ([]domain.Engagement, error)

	// ListClientEngagements returns the engagements of the actor's client.
	ListClientEngagements(ctx context.Context, actor domain.Profile) ([]domain.Engagement, error)

	// GetEngagement returns a single engagement the actor may see.
	GetEngagement(ctx context.Context, actor domain.Profile, engagementID string) (*domain.Engagement, error)
}

// EngagementWriterSvc defines write operations for engagements
type EngagementWriterSvc interface {
	// CreateEngagement creates an engagement in the actor's organization.
	CreateEngagement(ctx context.Context, actor domain.Profile, req dto.CreateEngagementRequest) (*domain.Engagement, error)
}

// EngagementAuthorizerSvc guards access to engagement-scoped resources
type EngagementAuthorizerSvc interface {
	// AuthorizeEngagementAccess returns the engagement when the actor may see it.
	// Returns apperrors.ErrNotFound when it does not exist and
	// apperrors.ErrForbidden when it belongs to someone else.
	AuthorizeEngagementAccess(ctx context.Context, actor domain.Profile, engagementID string) (*domain.Engagement, error)
}

// EngagementSvcFacade combines all engagement-related service interfaces
type EngagementSvcFacade interface {
	EngagementReaderSvc
	EngagementWriterSvc
	EngagementAuthorizerSvc
}
