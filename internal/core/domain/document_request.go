package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
)

// DocumentRequestStatus is the lifecycle status of a document request.
//
// The checklist-adjacent screens report a finished request as "completed";
// that is the same lifecycle point as "approved" and is normalized to it.
type DocumentRequestStatus string

const (
	DocumentRequestPending   DocumentRequestStatus = "pending"
	DocumentRequestSubmitted DocumentRequestStatus = "submitted"
	DocumentRequestApproved  DocumentRequestStatus = "approved"

	documentRequestCompletedAlias = "completed"
)

// ParseDocumentRequestStatus parses s, accepting "completed" as an alias of approved.
func ParseDocumentRequestStatus(s string) (DocumentRequestStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == documentRequestCompletedAlias {
		return DocumentRequestApproved, nil
	}
	status := DocumentRequestStatus(normalized)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: unknown document request status %q", apperrors.ErrValidation, s)
	}
	return status, nil
}

// IsValid reports whether s is a canonical document request status.
func (s DocumentRequestStatus) IsValid() bool {
	switch s {
	case DocumentRequestPending, DocumentRequestSubmitted, DocumentRequestApproved:
		return true
	default:
		return false
	}
}

// IsComplete reports whether the request needs no further client action.
func (s DocumentRequestStatus) IsComplete() bool {
	return s == DocumentRequestApproved
}

// UnmarshalJSON normalizes the "completed" alias.
func (s *DocumentRequestStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDocumentRequestStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Document is an uploaded file descriptor attached to a request.
type Document struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// DocumentRequest asks the client for one or more documents.
type DocumentRequest struct {
	RequestID    string                `json:"id"`
	EngagementID string                `json:"engagementId"`
	Category     string                `json:"category"`
	Description  string                `json:"description"`
	IsMandatory  bool                  `json:"isMandatory"`
	Status       DocumentRequestStatus `json:"status"`
	Documents    []Document            `json:"documents"`
	CompletedAt  *time.Time            `json:"completedAt,omitempty"`
	AuditFields
}

// TransitionTo moves the request to next.
//
// Allowed: pending <-> submitted, pending|submitted -> approved. approved is
// terminal so CompletedAt, once stamped, is never cleared.
func (r *DocumentRequest) TransitionTo(next DocumentRequestStatus, at time.Time) error {
	if !next.IsValid() {
		return fmt.Errorf("%w: unknown document request status %q", apperrors.ErrValidation, next)
	}
	if r.Status == next {
		return nil
	}
	if r.Status.IsComplete() {
		return fmt.Errorf("%w: document request %s is already approved", apperrors.ErrValidation, r.RequestID)
	}
	r.Status = next
	if next.IsComplete() && r.CompletedAt == nil {
		r.CompletedAt = &at
	}
	return nil
}

// AddDocument attaches an uploaded document. A pending request becomes submitted.
func (r *DocumentRequest) AddDocument(doc Document) error {
	if strings.TrimSpace(doc.Name) == "" || strings.TrimSpace(doc.URL) == "" {
		return fmt.Errorf("%w: document name and url are required", apperrors.ErrValidation)
	}
	if r.Status.IsComplete() {
		return fmt.Errorf("%w: document request %s is already approved", apperrors.ErrValidation, r.RequestID)
	}
	r.Documents = append(r.Documents, doc)
	if r.Status == DocumentRequestPending {
		r.Status = DocumentRequestSubmitted
	}
	return nil
}
