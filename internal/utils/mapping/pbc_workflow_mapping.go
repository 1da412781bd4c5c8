package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/SscSPs/pbc_workflow_app/internal/models"
)

// ToModelPBCWorkflow converts a domain PBCWorkflow to a model PBCWorkflow.
// Document requests live in their own table and are not part of the row.
func ToModelPBCWorkflow(d domain.PBCWorkflow) (models.PBCWorkflow, error) {
	categories := d.Categories
	if categories == nil {
		categories = []domain.QnACategory{}
	}
	raw, err := json.Marshal(categories)
	if err != nil {
		return models.PBCWorkflow{}, fmt.Errorf("failed to encode categories of workflow %s: %w", d.WorkflowID, err)
	}
	return models.PBCWorkflow{
		WorkflowID:   d.WorkflowID,
		EngagementID: d.EngagementID,
		Status:       string(d.Status),
		Categories:   raw,
		SubmittedAt:  d.SubmittedAt,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainPBCWorkflow converts a model PBCWorkflow and its document requests
// to a domain PBCWorkflow.
func ToDomainPBCWorkflow(m models.PBCWorkflow, requests []domain.DocumentRequest) (domain.PBCWorkflow, error) {
	status := domain.PBCStatus(m.Status)
	if !status.IsValid() {
		return domain.PBCWorkflow{}, fmt.Errorf("workflow %s has unknown status %q", m.WorkflowID, m.Status)
	}
	categories := []domain.QnACategory{}
	if len(m.Categories) > 0 {
		if err := json.Unmarshal(m.Categories, &categories); err != nil {
			return domain.PBCWorkflow{}, fmt.Errorf("failed to decode categories of workflow %s: %w", m.WorkflowID, err)
		}
	}
	if requests == nil {
		requests = []domain.DocumentRequest{}
	}
	return domain.PBCWorkflow{
		WorkflowID:       m.WorkflowID,
		EngagementID:     m.EngagementID,
		Status:           status,
		DocumentRequests: requests,
		Categories:       categories,
		SubmittedAt:      m.SubmittedAt,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}, nil
}
