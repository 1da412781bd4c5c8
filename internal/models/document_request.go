package models

import "time"

// DocumentRequest represents a row of the document_requests table.
// Documents is the JSONB array of uploaded file descriptors.
type DocumentRequest struct {
	RequestID    string     `json:"requestID"` // Primary Key
	EngagementID string     `json:"engagementID"`
	Category     string     `json:"category"`
	Description  string     `json:"description"`
	IsMandatory  bool       `json:"isMandatory"`
	Status       string     `json:"status"`
	Documents    []byte     `json:"documents"`
	CompletedAt  *time.Time `json:"completedAt"`
	AuditFields
}
