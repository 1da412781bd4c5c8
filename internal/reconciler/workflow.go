package reconciler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	"github.com/SscSPs/pbc_workflow_app/internal/core/ports/gateway"
	"github.com/SscSPs/pbc_workflow_app/internal/dto"
	"github.com/SscSPs/pbc_workflow_app/internal/realtime"
)

// Workflow mirrors an engagement's PBC workflow. Mutations are checked
// against the local copy with the domain state machine before any network
// call, so a violated precondition never reaches the server.
type Workflow struct {
	base
	gateway gateway.PBCGateway

	workflow *domain.PBCWorkflow
}

// NewWorkflow creates an unmounted workflow reconciler.
func NewWorkflow(gw gateway.PBCGateway, channel realtime.Channel, opts ...Option) *Workflow {
	return &Workflow{
		base:    newBase(channel, "workflow_reconciler", opts),
		gateway: gw,
	}
}

func (w *Workflow) reset() {
	w.workflow = nil
}

// Mount subscribes to workflow updates of engagementID.
func (w *Workflow) Mount(ctx context.Context, engagementID string) error {
	return w.mount(ctx, engagementID, w.reset, map[string]func(json.RawMessage){
		realtime.EventPBCUpdate: func(payload json.RawMessage) {
			if wf, ok := decode[domain.PBCWorkflow](w.logger, realtime.EventPBCUpdate, payload); ok {
				w.replaceLocked(wf)
			}
		},
	})
}

// Unmount drops the subscription and the local state.
func (w *Workflow) Unmount(ctx context.Context) {
	w.unmount(ctx, w.reset)
}

// Load fetches the workflow. An engagement without a workflow yet loads as nil.
func (w *Workflow) Load(ctx context.Context) error {
	engagementID, gen, err := w.beginLoad()
	if err != nil {
		return err
	}

	wf, err := w.gateway.GetWorkflowByEngagement(ctx, engagementID)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.endLoad()
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		w.logger.Warn("Failed to load workflow", slog.String("engagement_id", engagementID), slog.Any("error", err))
		return err
	}
	if w.generation != gen {
		return nil
	}
	w.workflow = wf
	return nil
}

// AnswerQuestion records the client's answer to a question.
func (w *Workflow) AnswerQuestion(ctx context.Context, questionID, answer string) error {
	return w.mutate(ctx,
		func(wf *domain.PBCWorkflow) error { return wf.AnswerQuestion(questionID, answer, w.now()) },
		func(ctx context.Context, workflowID string) (*domain.PBCWorkflow, error) {
			return w.gateway.AnswerQuestion(ctx, workflowID, questionID, dto.AnswerQuestionRequest{Answer: answer})
		})
}

// RaiseDoubt flags an answered question.
func (w *Workflow) RaiseDoubt(ctx context.Context, questionID, reason string) error {
	return w.mutate(ctx,
		func(wf *domain.PBCWorkflow) error { return wf.RaiseDoubt(questionID, reason) },
		func(ctx context.Context, workflowID string) (*domain.PBCWorkflow, error) {
			return w.gateway.RaiseDoubt(ctx, workflowID, questionID, dto.RaiseDoubtRequest{Reason: reason})
		})
}

// AddDiscussion appends a message to a question's thread.
func (w *Workflow) AddDiscussion(ctx context.Context, questionID, message string, replyTo *string) error {
	return w.mutate(ctx,
		func(wf *domain.PBCWorkflow) error {
			return wf.AddDiscussion(questionID, domain.Discussion{DiscussionID: "local", Message: message, ReplyTo: replyTo, CreatedAt: w.now()})
		},
		func(ctx context.Context, workflowID string) (*domain.PBCWorkflow, error) {
			return w.gateway.AddDiscussion(ctx, workflowID, questionID, dto.AddDiscussionRequest{Message: message, ReplyTo: replyTo})
		})
}

// Transition asks for an explicit stage change.
func (w *Workflow) Transition(ctx context.Context, target domain.PBCStatus) error {
	return w.mutate(ctx,
		func(wf *domain.PBCWorkflow) error { return wf.Transition(target, w.now()) },
		func(ctx context.Context, workflowID string) (*domain.PBCWorkflow, error) {
			return w.gateway.Transition(ctx, workflowID, target)
		})
}

func (w *Workflow) mutate(ctx context.Context, check func(*domain.PBCWorkflow) error, persist func(context.Context, string) (*domain.PBCWorkflow, error)) error {
	w.mu.Lock()
	if w.engagementID == "" {
		w.mu.Unlock()
		return ErrNotMounted
	}
	if w.workflow == nil {
		w.mu.Unlock()
		return apperrors.NewNotFoundError("no PBC workflow loaded for engagement")
	}
	gen := w.generation
	candidate := w.workflow.Clone()
	w.mu.Unlock()

	if err := check(&candidate); err != nil {
		return err
	}

	updated, err := persist(ctx, candidate.WorkflowID)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.generation == gen {
		w.replaceLocked(*updated)
	}
	return nil
}

// ApplyUpdate merges an externally received workflow with the same id.
func (w *Workflow) ApplyUpdate(wf domain.PBCWorkflow) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.replaceLocked(wf)
}

func (w *Workflow) replaceLocked(wf domain.PBCWorkflow) {
	if w.workflow == nil || w.workflow.WorkflowID != wf.WorkflowID {
		return
	}
	w.workflow = &wf
}

// Current returns a copy of the workflow, or nil if none is loaded.
func (w *Workflow) Current() *domain.PBCWorkflow {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.workflow == nil {
		return nil
	}
	c := w.workflow.Clone()
	return &c
}
