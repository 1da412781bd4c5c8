package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/SscSPs/pbc_workflow_app/internal/models"
)

// ToModelDocumentRequest converts a domain DocumentRequest to a model DocumentRequest
func ToModelDocumentRequest(d domain.DocumentRequest) (models.DocumentRequest, error) {
	docs := d.Documents
	if docs == nil {
		docs = []domain.Document{}
	}
	raw, err := json.Marshal(docs)
	if err != nil {
		return models.DocumentRequest{}, fmt.Errorf("failed to encode documents of request %s: %w", d.RequestID, err)
	}
	return models.DocumentRequest{
		RequestID:    d.RequestID,
		EngagementID: d.EngagementID,
		Category:     d.Category,
		Description:  d.Description,
		IsMandatory:  d.IsMandatory,
		Status:       string(d.Status),
		Documents:    raw,
		CompletedAt:  d.CompletedAt,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainDocumentRequest converts a model DocumentRequest to a domain DocumentRequest
func ToDomainDocumentRequest(m models.DocumentRequest) (domain.DocumentRequest, error) {
	status, err := domain.ParseDocumentRequestStatus(m.Status)
	if err != nil {
		return domain.DocumentRequest{}, err
	}
	docs := []domain.Document{}
	if len(m.Documents) > 0 {
		if err := json.Unmarshal(m.Documents, &docs); err != nil {
			return domain.DocumentRequest{}, fmt.Errorf("failed to decode documents of request %s: %w", m.RequestID, err)
		}
	}
	return domain.DocumentRequest{
		RequestID:    m.RequestID,
		EngagementID: m.EngagementID,
		Category:     m.Category,
		Description:  m.Description,
		IsMandatory:  m.IsMandatory,
		Status:       status,
		Documents:    docs,
		CompletedAt:  m.CompletedAt,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainDocumentRequestSlice converts a slice of model DocumentRequests to domain DocumentRequests
func ToDomainDocumentRequestSlice(ms []models.DocumentRequest) ([]domain.DocumentRequest, error) {
	ds := make([]domain.DocumentRequest, len(ms))
	for i, m := range ms {
		d, err := ToDomainDocumentRequest(m)
		if err != nil {
			return nil, err
		}
		ds[i] = d
	}
	return ds, nil
}
