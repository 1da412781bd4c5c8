package dto

import (
	"time"

	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
)

// --- Engagement DTOs ---

// CreateEngagementRequest defines data for creating a new engagement.
type CreateEngagementRequest struct {
	ClientID        string                  `json:"clientId" binding:"required"`
	Title           string                  `json:"title" binding:"required"`
	Status          domain.EngagementStatus `json:"status" binding:"omitempty,oneof=draft active completed"`
	YearEndDate     time.Time               `json:"yearEndDate" binding:"required"`
	TrialBalanceURL *string                 `json:"trialBalanceUrl" binding:"omitempty,url"`
}

// ListEngagementsResponse wraps a list of engagements.
type ListEngagementsResponse struct {
	Engagements []domain.Engagement `json:"engagements"`
}

// ToListEngagementsResponse converts a slice of domain.Engagement to DTO.
func ToListEngagementsResponse(es []domain.Engagement) ListEngagementsResponse {
	if es == nil {
		es = []domain.Engagement{}
	}
	return ListEngagementsResponse{Engagements: es}
}

// ClientCountResponse carries the number of client profiles of an organization.
type ClientCountResponse struct {
	Count int `json:"count"`
}
