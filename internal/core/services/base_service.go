package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	portssvc "github.com/SscSPs/pbc_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/pbc_workflow_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	EngagementAuthorizer portssvc.EngagementAuthorizerSvc
	Publisher            portssvc.EventPublisher
	Analytics            portssvc.Analytics
	Clock                func() time.Time
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Now returns the service clock's current time in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// AuthorizeEngagement resolves the engagement an actor is acting on.
func (s *BaseService) AuthorizeEngagement(ctx context.Context, actor domain.Profile, engagementID string) (*domain.Engagement, error) {
	if s.EngagementAuthorizer == nil {
		return nil, apperrors.NewAppError(500, "engagement authorizer is not configured", nil)
	}
	return s.EngagementAuthorizer.AuthorizeEngagementAccess(ctx, actor, engagementID)
}

// Publish broadcasts to the engagement room when a publisher is configured.
func (s *BaseService) Publish(engagementID, event string, payload any) {
	if s.Publisher != nil {
		s.Publisher.Publish(engagementID, event, payload)
	}
}

// TrackStageChange records a workflow stage change for product analytics.
func (s *BaseService) TrackStageChange(actor domain.Profile, wf domain.PBCWorkflow, from domain.PBCStatus, cause string) {
	if s.Analytics == nil || from == wf.Status {
		return
	}
	s.Analytics.Enqueue(actor.UserID, "pbc_stage_changed", map[string]any{
		"workflow_id":   wf.WorkflowID,
		"engagement_id": wf.EngagementID,
		"from":          string(from),
		"to":            string(wf.Status),
		"cause":         cause,
		"role":          string(actor.Role),
	})
}

// requireStaff rejects client participants from auditor-only operations.
func requireStaff(actor domain.Profile, action string) error {
	if actor.IsClient() {
		return apperrors.NewForbiddenError("clients cannot " + action)
	}
	return nil
}
