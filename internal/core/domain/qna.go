package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
)

// QuestionStatus is the state of a single Q&A question.
type QuestionStatus string

const (
	QuestionUnanswered QuestionStatus = "unanswered"
	QuestionAnswered   QuestionStatus = "answered"
	QuestionDoubt      QuestionStatus = "doubt"
)

// IsValid reports whether s is a known question status.
func (s QuestionStatus) IsValid() bool {
	switch s {
	case QuestionUnanswered, QuestionAnswered, QuestionDoubt:
		return true
	default:
		return false
	}
}

// Discussion is one entry of a question's thread. Threads are append-only.
type Discussion struct {
	DiscussionID string    `json:"id"`
	AuthorID     string    `json:"authorId"`
	Message      string    `json:"message"`
	ReplyTo      *string   `json:"replyTo,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// QnAQuestion is a question the auditor asks the client.
type QnAQuestion struct {
	QuestionID  string         `json:"id"`
	Question    string         `json:"question"`
	IsMandatory bool           `json:"isMandatory"`
	Status      QuestionStatus `json:"status"`
	Answer      string         `json:"answer"`
	DoubtReason *string        `json:"doubtReason,omitempty"`
	AnsweredAt  *time.Time     `json:"answeredAt,omitempty"`
	Discussions []Discussion   `json:"discussions"`
}

// QnACategory groups questions. Question order is display and audit-trail order.
type QnACategory struct {
	CategoryID string        `json:"id"`
	Title      string        `json:"title"`
	Questions  []QnAQuestion `json:"questions"`
}

// RecordAnswer answers (or re-answers after a doubt) the question.
func (q *QnAQuestion) RecordAnswer(answer string, at time.Time) error {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return fmt.Errorf("%w: answer cannot be empty", apperrors.ErrValidation)
	}
	if q.Status == QuestionAnswered {
		return fmt.Errorf("%w: question %s is already answered", apperrors.ErrValidation, q.QuestionID)
	}
	q.Answer = answer
	q.Status = QuestionAnswered
	q.DoubtReason = nil
	q.AnsweredAt = &at
	return nil
}

// RaiseDoubt flags an answered question as doubtful.
func (q *QnAQuestion) RaiseDoubt(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("%w: doubt reason cannot be empty", apperrors.ErrValidation)
	}
	if q.Status != QuestionAnswered {
		return fmt.Errorf("%w: only answered questions can be doubted, question %s is %s", apperrors.ErrValidation, q.QuestionID, q.Status)
	}
	q.Status = QuestionDoubt
	q.DoubtReason = &reason
	return nil
}

// AddDiscussion appends d to the thread. ReplyTo must name an existing entry.
func (q *QnAQuestion) AddDiscussion(d Discussion) error {
	if strings.TrimSpace(d.Message) == "" {
		return fmt.Errorf("%w: discussion message cannot be empty", apperrors.ErrValidation)
	}
	if d.ReplyTo != nil {
		found := false
		for _, existing := range q.Discussions {
			if existing.DiscussionID == *d.ReplyTo {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: discussion %s does not exist on question %s", apperrors.ErrValidation, *d.ReplyTo, q.QuestionID)
		}
	}
	q.Discussions = append(q.Discussions, d)
	return nil
}
