package domain

import "time"

// ChecklistItem is a per-engagement checklist entry. Key is the stable
// business identity used to reconcile real-time updates; ItemID is the
// storage identifier used for persistence calls.
type ChecklistItem struct {
	ItemID       string     `json:"id"`
	EngagementID string     `json:"engagementId"`
	Key          string     `json:"key"`
	Category     string     `json:"category"`
	Description  string     `json:"description"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// ChecklistItemPatch is a partial update of a checklist item.
type ChecklistItemPatch struct {
	Completed *bool `json:"completed" binding:"required"`
}

// SetCompleted flips the item's completion flag and keeps CompletedAt in step.
func (c *ChecklistItem) SetCompleted(done bool, at time.Time) {
	c.Completed = done
	c.UpdatedAt = at
	if done {
		c.CompletedAt = &at
		return
	}
	c.CompletedAt = nil
}
