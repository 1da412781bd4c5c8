package dto

import "github.com/SscSPs/pbc_workflow_app/internal/core/domain"

// --- Checklist DTOs ---

// CreateChecklistItemRequest defines data for adding an item to an engagement checklist.
type CreateChecklistItemRequest struct {
	Key         string `json:"key" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description"`
}

// ListChecklistItemsResponse wraps an engagement checklist.
type ListChecklistItemsResponse struct {
	Items []domain.ChecklistItem `json:"items"`
}

// ToListChecklistItemsResponse converts a slice of domain.ChecklistItem to DTO.
func ToListChecklistItemsResponse(items []domain.ChecklistItem) ListChecklistItemsResponse {
	if items == nil {
		items = []domain.ChecklistItem{}
	}
	return ListChecklistItemsResponse{Items: items}
}
