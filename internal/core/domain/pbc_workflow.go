package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
)

// PBCStatus is the stage of a Prepared-By-Client workflow.
type PBCStatus string

const (
	PBCDocumentCollection PBCStatus = "document-collection"
	PBCQnAPreparation     PBCStatus = "qna-preparation"
	PBCClientResponses    PBCStatus = "client-responses"
	PBCDoubtResolution    PBCStatus = "doubt-resolution"
	PBCSubmitted          PBCStatus = "submitted"
)

// IsValid reports whether s is a known workflow stage.
func (s PBCStatus) IsValid() bool {
	switch s {
	case PBCDocumentCollection, PBCQnAPreparation, PBCClientResponses, PBCDoubtResolution, PBCSubmitted:
		return true
	default:
		return false
	}
}

// PBCWorkflow is the per-engagement exchange of document requests and
// questions between auditor and client.
type PBCWorkflow struct {
	WorkflowID       string            `json:"id"`
	EngagementID     string            `json:"engagementId"`
	Status           PBCStatus         `json:"status"`
	DocumentRequests []DocumentRequest `json:"documentRequests"`
	Categories       []QnACategory     `json:"categories"`
	SubmittedAt      *time.Time        `json:"submittedAt,omitempty"`
	AuditFields
}

// NewPBCWorkflow starts a workflow in document collection.
func NewPBCWorkflow(workflowID, engagementID string) PBCWorkflow {
	return PBCWorkflow{
		WorkflowID:       workflowID,
		EngagementID:     engagementID,
		Status:           PBCDocumentCollection,
		DocumentRequests: []DocumentRequest{},
		Categories:       []QnACategory{},
	}
}

func (w PBCWorkflow) mandatoryDocumentsComplete() bool {
	for _, r := range w.DocumentRequests {
		if r.IsMandatory && !r.Status.IsComplete() {
			return false
		}
	}
	return true
}

func (w PBCWorkflow) hasDoubt() bool {
	for _, c := range w.Categories {
		for _, q := range c.Questions {
			if q.Status == QuestionDoubt {
				return true
			}
		}
	}
	return false
}

func (w PBCWorkflow) unansweredMandatory() int {
	n := 0
	for _, c := range w.Categories {
		for _, q := range c.Questions {
			if q.IsMandatory && q.Status == QuestionUnanswered {
				n++
			}
		}
	}
	return n
}

func (w PBCWorkflow) questionCount() int {
	n := 0
	for _, c := range w.Categories {
		n += len(c.Questions)
	}
	return n
}

// DeriveStatus computes the stage implied by the workflow's children.
// It is pure and is re-run after every child mutation.
//
// A doubt outranks everything else. Otherwise an outstanding mandatory
// request means document collection, whatever stage the workflow was in.
// With documents complete, collection advances to preparation once a request
// exists, a resolved doubt returns to client responses, and the published
// stages stay where they are.
func DeriveStatus(w PBCWorkflow) PBCStatus {
	if w.Status == PBCSubmitted {
		return PBCSubmitted
	}
	if w.hasDoubt() {
		return PBCDoubtResolution
	}
	if !w.mandatoryDocumentsComplete() {
		return PBCDocumentCollection
	}
	switch w.Status {
	case PBCDoubtResolution:
		return PBCClientResponses
	case PBCDocumentCollection, "":
		if len(w.DocumentRequests) > 0 {
			return PBCQnAPreparation
		}
		return PBCDocumentCollection
	default:
		return w.Status
	}
}

// CanTransition reports whether an explicit move to target is allowed. Only
// publishing the questions (qna-preparation to client-responses) and
// submission are explicit; every other stage follows from DeriveStatus.
// Returned errors wrap apperrors.ErrValidation.
func (w PBCWorkflow) CanTransition(target PBCStatus) error {
	if !target.IsValid() {
		return fmt.Errorf("%w: unknown workflow status %q", apperrors.ErrValidation, target)
	}
	if w.Status == PBCSubmitted {
		return fmt.Errorf("%w: workflow %s is already submitted", apperrors.ErrValidation, w.WorkflowID)
	}

	docsDone := w.mandatoryDocumentsComplete()
	doubt := w.hasDoubt()
	switch target {
	case PBCClientResponses:
		if w.Status != PBCQnAPreparation {
			return fmt.Errorf("%w: questions can only be published from %s", apperrors.ErrValidation, PBCQnAPreparation)
		}
		if !docsDone {
			return fmt.Errorf("%w: mandatory document requests are not approved", apperrors.ErrValidation)
		}
		if doubt {
			return fmt.Errorf("%w: open doubts must be resolved first", apperrors.ErrValidation)
		}
		if w.questionCount() == 0 {
			return fmt.Errorf("%w: no questions to send to the client", apperrors.ErrValidation)
		}
	case PBCSubmitted:
		if !docsDone {
			return fmt.Errorf("%w: mandatory document requests are not approved", apperrors.ErrValidation)
		}
		if doubt {
			return fmt.Errorf("%w: open doubts must be resolved before submission", apperrors.ErrValidation)
		}
		if n := w.unansweredMandatory(); n > 0 {
			return fmt.Errorf("%w: %d mandatory questions are unanswered", apperrors.ErrValidation, n)
		}
	default:
		return fmt.Errorf("%w: %s is reached from document and question changes, not set directly", apperrors.ErrValidation, target)
	}
	return nil
}

// Transition explicitly moves the workflow to target, or leaves it untouched
// and returns a validation error.
func (w *PBCWorkflow) Transition(target PBCStatus, at time.Time) error {
	if err := w.CanTransition(target); err != nil {
		return err
	}
	w.Status = target
	if target == PBCSubmitted {
		w.SubmittedAt = &at
	}
	return nil
}

// mutate applies a child mutation and re-derives the stage. Submitted
// workflows accept no child changes.
func (w *PBCWorkflow) mutate(fn func() error) error {
	if w.Status == PBCSubmitted {
		return fmt.Errorf("%w: workflow %s is already submitted", apperrors.ErrValidation, w.WorkflowID)
	}
	if err := fn(); err != nil {
		return err
	}
	w.Status = DeriveStatus(*w)
	return nil
}

// FindQuestion locates a question by id.
func (w *PBCWorkflow) FindQuestion(questionID string) (*QnAQuestion, error) {
	for ci := range w.Categories {
		for qi := range w.Categories[ci].Questions {
			if w.Categories[ci].Questions[qi].QuestionID == questionID {
				return &w.Categories[ci].Questions[qi], nil
			}
		}
	}
	return nil, apperrors.NewNotFoundError("question " + questionID + " not found")
}

// FindDocumentRequest locates a document request by id.
func (w *PBCWorkflow) FindDocumentRequest(requestID string) (*DocumentRequest, error) {
	for i := range w.DocumentRequests {
		if w.DocumentRequests[i].RequestID == requestID {
			return &w.DocumentRequests[i], nil
		}
	}
	return nil, apperrors.NewNotFoundError("document request " + requestID + " not found")
}

// AddCategory appends a question category.
func (w *PBCWorkflow) AddCategory(category QnACategory) error {
	return w.mutate(func() error {
		for _, c := range w.Categories {
			if c.CategoryID == category.CategoryID {
				return apperrors.NewConflictError("category " + category.CategoryID + " already exists")
			}
		}
		if category.Questions == nil {
			category.Questions = []QnAQuestion{}
		}
		w.Categories = append(w.Categories, category)
		return nil
	})
}

// AddQuestion appends an unanswered question to a category.
func (w *PBCWorkflow) AddQuestion(categoryID string, question QnAQuestion) error {
	return w.mutate(func() error {
		for i := range w.Categories {
			if w.Categories[i].CategoryID != categoryID {
				continue
			}
			question.Status = QuestionUnanswered
			question.Answer = ""
			question.DoubtReason = nil
			question.AnsweredAt = nil
			if question.Discussions == nil {
				question.Discussions = []Discussion{}
			}
			w.Categories[i].Questions = append(w.Categories[i].Questions, question)
			return nil
		}
		return apperrors.NewNotFoundError("category " + categoryID + " not found")
	})
}

// AcceptsAnswers reports whether the questions have been published to the
// client and not yet submitted.
func (w PBCWorkflow) AcceptsAnswers() bool {
	return w.Status == PBCClientResponses || w.Status == PBCDoubtResolution
}

// AnswerQuestion records the client's answer. Answers are only taken once the
// questions are published.
func (w *PBCWorkflow) AnswerQuestion(questionID, answer string, at time.Time) error {
	return w.mutate(func() error {
		q, err := w.FindQuestion(questionID)
		if err != nil {
			return err
		}
		if !w.AcceptsAnswers() {
			return fmt.Errorf("%w: workflow %s is in %s and does not accept answers", apperrors.ErrValidation, w.WorkflowID, w.Status)
		}
		return q.RecordAnswer(answer, at)
	})
}

// RaiseDoubt flags a question, which sends the workflow to doubt resolution.
func (w *PBCWorkflow) RaiseDoubt(questionID, reason string) error {
	return w.mutate(func() error {
		q, err := w.FindQuestion(questionID)
		if err != nil {
			return err
		}
		return q.RaiseDoubt(reason)
	})
}

// AddDiscussion appends to a question's thread.
func (w *PBCWorkflow) AddDiscussion(questionID string, d Discussion) error {
	return w.mutate(func() error {
		q, err := w.FindQuestion(questionID)
		if err != nil {
			return err
		}
		return q.AddDiscussion(d)
	})
}

// PutDocumentRequest replaces the request with the same id, or appends it.
func (w *PBCWorkflow) PutDocumentRequest(r DocumentRequest) error {
	return w.mutate(func() error {
		for i := range w.DocumentRequests {
			if w.DocumentRequests[i].RequestID == r.RequestID {
				w.DocumentRequests[i] = r
				return nil
			}
		}
		w.DocumentRequests = append(w.DocumentRequests, r)
		return nil
	})
}

// Clone returns a deep copy so a mutation can be tried without touching w.
func (w PBCWorkflow) Clone() PBCWorkflow {
	out := w
	out.DocumentRequests = make([]DocumentRequest, len(w.DocumentRequests))
	for i, r := range w.DocumentRequests {
		r.Documents = cloneSlice(r.Documents)
		out.DocumentRequests[i] = r
	}
	out.Categories = make([]QnACategory, len(w.Categories))
	for i, c := range w.Categories {
		qs := make([]QnAQuestion, len(c.Questions))
		for j, q := range c.Questions {
			q.Discussions = cloneSlice(q.Discussions)
			qs[j] = q
		}
		c.Questions = qs
		out.Categories[i] = c
	}
	return out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
