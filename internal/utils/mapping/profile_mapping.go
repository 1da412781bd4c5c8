package mapping

import (
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/SscSPs/pbc_workflow_app/internal/models"
)

// ToDomainProfile converts a model Profile to a domain Profile
func ToDomainProfile(m models.Profile) domain.Profile {
	return domain.Profile{
		UserID:         m.UserID,
		OrganizationID: m.OrganizationID,
		ClientID:       m.ClientID,
		Name:           m.Name,
		Role:           domain.Role(m.Role),
	}
}
