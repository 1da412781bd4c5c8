package models

// Profile represents a row of the profiles table.
type Profile struct {
	UserID         string  `json:"userID"` // Primary Key
	OrganizationID string  `json:"organizationID"`
	ClientID       *string `json:"clientID"`
	Name           string  `json:"name"`
	Role           string  `json:"role"`
}
