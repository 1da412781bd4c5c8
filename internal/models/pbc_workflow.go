package models

import "time"

// PBCWorkflow represents a row of the pbc_workflows table. Categories holds
// the ordered Q&A categories, with their questions and discussions, as JSONB.
type PBCWorkflow struct {
	WorkflowID   string     `json:"workflowID"`   // Primary Key
	EngagementID string     `json:"engagementID"` // Unique
	Status       string     `json:"status"`
	Categories   []byte     `json:"categories"`
	SubmittedAt  *time.Time `json:"submittedAt"`
	AuditFields
}
