package dto

import "github.com/SscSPs/pbc_workflow_app/internal/core/domain"

// --- PBC workflow DTOs ---

// CreateCategoryRequest adds a question category to a workflow.
type CreateCategoryRequest struct {
	Title string `json:"title" binding:"required"`
}

// CreateQuestionRequest adds a question to a category.
type CreateQuestionRequest struct {
	Question    string `json:"question" binding:"required"`
	IsMandatory bool   `json:"isMandatory"`
}

// AnswerQuestionRequest records a client's answer.
type AnswerQuestionRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// RaiseDoubtRequest flags an answered question.
type RaiseDoubtRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// AddDiscussionRequest appends to a question thread.
type AddDiscussionRequest struct {
	Message string  `json:"message" binding:"required"`
	ReplyTo *string `json:"replyTo"`
}

// TransitionRequest asks for an explicit workflow stage change.
type TransitionRequest struct {
	Status domain.PBCStatus `json:"status" binding:"required,pbc_status"`
}
