package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pbc_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pbc_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/pbc_workflow_app/internal/dto"
	"github.com/SscSPs/pbc_workflow_app/internal/realtime"
	"github.com/google/uuid"
)

type checklistService struct {
	BaseService
	checklistRepo portsrepo.ChecklistRepositoryFacade
}

// NewChecklistService creates a new checklist service
func NewChecklistService(checklistRepo portsrepo.ChecklistRepositoryFacade, base BaseService) portssvc.ChecklistSvcFacade {
	return &checklistService{
		BaseService:   base,
		checklistRepo: checklistRepo,
	}
}

var _ portssvc.ChecklistSvcFacade = (*checklistService)(nil)

func (s *checklistService) ListChecklist(ctx context.Context, actor domain.Profile, engagementID string) ([]domain.ChecklistItem, error) {
	if _, err := s.AuthorizeEngagement(ctx, actor, engagementID); err != nil {
		return nil, err
	}
	items, err := s.checklistRepo.ListChecklistItems(ctx, engagementID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list checklist", slog.String("engagement_id", engagementID))
		return nil, err
	}
	if items == nil {
		return []domain.ChecklistItem{}, nil
	}
	return items, nil
}

func (s *checklistService) CreateChecklistItem(ctx context.Context, actor domain.Profile, engagementID string, req dto.CreateChecklistItemRequest) (*domain.ChecklistItem, error) {
	if err := requireStaff(actor, "edit the checklist"); err != nil {
		return nil, err
	}
	if _, err := s.AuthorizeEngagement(ctx, actor, engagementID); err != nil {
		return nil, err
	}

	item := domain.ChecklistItem{
		ItemID:       uuid.NewString(),
		EngagementID: engagementID,
		Key:          req.Key,
		Category:     req.Category,
		Description:  req.Description,
		UpdatedAt:    s.Now(),
	}
	if err := s.checklistRepo.SaveChecklistItem(ctx, item); err != nil {
		s.LogError(ctx, err, "Failed to save checklist item",
			slog.String("engagement_id", engagementID),
			slog.String("key", req.Key))
		return nil, err
	}
	s.Publish(engagementID, realtime.EventChecklistUpdate, item)
	return &item, nil
}

// UpdateChecklistItem persists the patch, then tells every participant of
// the engagement room.
func (s *checklistService) UpdateChecklistItem(ctx context.Context, actor domain.Profile, itemID string, patch domain.ChecklistItemPatch) (*domain.ChecklistItem, error) {
	if patch.Completed == nil {
		return nil, apperrors.NewValidationFailedError("completed is required")
	}
	item, err := s.checklistRepo.FindChecklistItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := s.AuthorizeEngagement(ctx, actor, item.EngagementID); err != nil {
		return nil, err
	}

	item.SetCompleted(*patch.Completed, s.Now())
	if err := s.checklistRepo.UpdateChecklistItem(ctx, *item); err != nil {
		s.LogError(ctx, err, "Failed to update checklist item", slog.String("item_id", itemID))
		return nil, err
	}

	s.LogInfo(ctx, "Checklist item updated",
		slog.String("engagement_id", item.EngagementID),
		slog.String("key", item.Key),
		slog.Bool("completed", item.Completed))
	s.Publish(item.EngagementID, realtime.EventChecklistUpdate, *item)
	return item, nil
}
