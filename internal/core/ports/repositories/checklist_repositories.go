package repositories

import (
	"context"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
)

// ChecklistRepositoryFacade defines persistence for engagement checklist items
type ChecklistRepositoryFacade interface {
	// ListChecklistItems returns an engagement's checklist in display order.
	ListChecklistItems(ctx context.Context, engagementID string) ([]domain.ChecklistItem, error)

	// FindChecklistItemByID retrieves an item by its storage ID.
	FindChecklistItemByID(ctx context.Context, itemID string) (*domain.ChecklistItem, error)

	// SaveChecklistItem persists a new checklist item.
	SaveChecklistItem(ctx context.Context, item domain.ChecklistItem) error

	// UpdateChecklistItem persists the completion state of an existing item.
	UpdateChecklistItem(ctx context.Context, item domain.ChecklistItem) error
}
