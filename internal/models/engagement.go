package models

import "time"

// Engagement represents a row of the engagements table.
type Engagement struct {
	EngagementID    string    `json:"engagementID"` // Primary Key
	OrganizationID  string    `json:"organizationID"`
	ClientID        string    `json:"clientID"`
	Title           string    `json:"title"`
	Status          string    `json:"status"` // draft, active, completed
	YearEndDate     time.Time `json:"yearEndDate"`
	TrialBalanceURL *string   `json:"trialBalanceURL"`
	AuditFields
}
