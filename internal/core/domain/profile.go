package domain

// Role is a portal user's role within an organization.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleReviewer Role = "reviewer"
	RoleClient   Role = "client"
)

// Profile is the authenticated participant: who they are, which
// organization they belong to and, for clients, which client they act for.
type Profile struct {
	UserID         string  `json:"userId"`
	OrganizationID string  `json:"organizationId"`
	ClientID       *string `json:"clientId,omitempty"`
	Name           string  `json:"name"`
	Role           Role    `json:"role"`
}

// IsClient reports whether the profile acts on behalf of a client.
func (p Profile) IsClient() bool {
	return p.Role == RoleClient
}
