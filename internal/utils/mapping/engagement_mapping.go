package mapping

import (
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/SscSPs/pbc_workflow_app/internal/models"
)

// ToModelEngagement converts a domain Engagement to a model Engagement
func ToModelEngagement(d domain.Engagement) models.Engagement {
	return models.Engagement{
		EngagementID:    d.EngagementID,
		OrganizationID:  d.OrganizationID,
		ClientID:        d.ClientID,
		Title:           d.Title,
		Status:          string(d.Status),
		YearEndDate:     d.YearEndDate,
		TrialBalanceURL: d.TrialBalanceURL,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEngagement converts a model Engagement to a domain Engagement
func ToDomainEngagement(m models.Engagement) domain.Engagement {
	return domain.Engagement{
		EngagementID:    m.EngagementID,
		OrganizationID:  m.OrganizationID,
		ClientID:        m.ClientID,
		Title:           m.Title,
		Status:          domain.EngagementStatus(m.Status),
		YearEndDate:     m.YearEndDate,
		TrialBalanceURL: m.TrialBalanceURL,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainEngagementSlice converts a slice of model Engagements to domain Engagements
func ToDomainEngagementSlice(ms []models.Engagement) []domain.Engagement {
	ds := make([]domain.Engagement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainEngagement(m)
	}
	return ds
}
