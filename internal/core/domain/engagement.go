package domain

import "time"

// EngagementStatus is the lifecycle status of an audit engagement.
type EngagementStatus string

const (
	EngagementDraft     EngagementStatus = "draft"
	EngagementActive    EngagementStatus = "active"
	EngagementCompleted EngagementStatus = "completed"
)

// IsValid reports whether s is a known engagement status.
func (s EngagementStatus) IsValid() bool {
	switch s {
	case EngagementDraft, EngagementActive, EngagementCompleted:
		return true
	default:
		return false
	}
}

// Engagement is an audit engagement for one client of an organization.
type Engagement struct {
	EngagementID    string           `json:"id"`
	OrganizationID  string           `json:"organizationId"`
	ClientID        string           `json:"clientId"`
	Title           string           `json:"title"`
	Status          EngagementStatus `json:"status"`
	YearEndDate     time.Time        `json:"yearEndDate"`
	TrialBalanceURL *string          `json:"trialBalanceUrl,omitempty"`
	AuditFields
}

// IsActive reports whether the engagement counts towards active work.
func (e Engagement) IsActive() bool {
	return e.Status == EngagementActive
}
