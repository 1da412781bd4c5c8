package mapping

import (
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/SscSPs/pbc_workflow_app/internal/models"
)

// ToModelChecklistItem converts a domain ChecklistItem to a model ChecklistItem
func ToModelChecklistItem(d domain.ChecklistItem) models.ChecklistItem {
	return models.ChecklistItem{
		ItemID:       d.ItemID,
		EngagementID: d.EngagementID,
		ItemKey:      d.Key,
		Category:     d.Category,
		Description:  d.Description,
		Completed:    d.Completed,
		CompletedAt:  d.CompletedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// ToDomainChecklistItem converts a model ChecklistItem to a domain ChecklistItem
func ToDomainChecklistItem(m models.ChecklistItem) domain.ChecklistItem {
	return domain.ChecklistItem{
		ItemID:       m.ItemID,
		EngagementID: m.EngagementID,
		Key:          m.ItemKey,
		Category:     m.Category,
		Description:  m.Description,
		Completed:    m.Completed,
		CompletedAt:  m.CompletedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ToDomainChecklistItemSlice converts a slice of model ChecklistItems to domain ChecklistItems
func ToDomainChecklistItemSlice(ms []models.ChecklistItem) []domain.ChecklistItem {
	ds := make([]domain.ChecklistItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainChecklistItem(m)
	}
	return ds
}
