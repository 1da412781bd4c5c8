package models

import "time"

// ChecklistItem represents a row of the checklist_items table.
type ChecklistItem struct {
	ItemID       string     `json:"itemID"` // Primary Key
	EngagementID string     `json:"engagementID"`
	ItemKey      string     `json:"itemKey"` // Unique per engagement
	Category     string     `json:"category"`
	Description  string     `json:"description"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completedAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
