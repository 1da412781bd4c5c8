package services

import (
	"context"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/SscSPs/pbc_workflow_app/internal/dto"
)

// ChecklistSvcFacade defines operations on engagement checklists
type ChecklistSvcFacade interface {
	// ListChecklist returns the checklist of an engagement.
	ListChecklist(ctx context.Context, actor domain.Profile, engagementID string) ([]domain.ChecklistItem, error)

	// CreateChecklistItem adds an item to an engagement checklist.
	CreateChecklistItem(ctx context.Context, actor domain.Profile, engagementID string, req dto.CreateChecklistItemRequest) (*domain.ChecklistItem, error)

	// UpdateChecklistItem applies patch and broadcasts checklist:update.
	UpdateChecklistItem(ctx context.Context, actor domain.Profile, itemID string, patch domain.ChecklistItemPatch) (*domain.ChecklistItem, error)
}
