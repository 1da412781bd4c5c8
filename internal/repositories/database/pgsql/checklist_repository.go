package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/pbc_workflow_app/internal/apperrors"
	"github.com/SscSPs/pbc_workflow_app/internal/core/domain"
	portsrepo "github.com/SscSPs/pbc_workflow_app/internal/core/ports/repositories"
	"github.com/SscSPs/pbc_workflow_app/internal/models"
	"github.com/SscSPs/pbc_workflow_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxChecklistRepository struct {
	BaseRepository
}

// newPgxChecklistRepository creates a new repository for checklist items.
func newPgxChecklistRepository(pool *pgxpool.Pool) portsrepo.ChecklistRepositoryFacade {
	return &PgxChecklistRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ChecklistRepositoryFacade = (*PgxChecklistRepository)(nil)

const checklistSelectQuery = `
SELECT
	c.item_id, c.engagement_id, c.item_key, c.category, c.description,
	c.completed, c.completed_at, c.created_at, c.updated_at
FROM checklist_items c
`

func scanChecklistItem(row pgx.CollectableRow) (models.ChecklistItem, error) {
	var m models.ChecklistItem
	err := row.Scan(
		&m.ItemID, &m.EngagementID, &m.ItemKey, &m.Category, &m.Description,
		&m.Completed, &m.CompletedAt, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func (r *PgxChecklistRepository) ListChecklistItems(ctx context.Context, engagementID string) ([]domain.ChecklistItem, error) {
	rows, err := r.Pool.Query(ctx, checklistSelectQuery+" WHERE c.engagement_id = $1 ORDER BY c.created_at, c.item_key", engagementID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query checklist items", err)
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, scanChecklistItem)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect checklist rows", err)
	}
	return mapping.ToDomainChecklistItemSlice(items), nil
}

func (r *PgxChecklistRepository) FindChecklistItemByID(ctx context.Context, itemID string) (*domain.ChecklistItem, error) {
	rows, err := r.Pool.Query(ctx, checklistSelectQuery+" WHERE c.item_id = $1", itemID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query checklist item", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, scanChecklistItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("checklist item " + itemID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find checklist item", err)
	}
	item := mapping.ToDomainChecklistItem(m)
	return &item, nil
}

func (r *PgxChecklistRepository) SaveChecklistItem(ctx context.Context, item domain.ChecklistItem) error {
	m := mapping.ToModelChecklistItem(item)
	query := `
		INSERT INTO checklist_items (
			item_id, engagement_id, item_key, category, description,
			completed, completed_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ItemID, m.EngagementID, m.ItemKey, m.Category, m.Description,
		m.Completed, m.CompletedAt, m.UpdatedAt,
	)
	if err != nil {
		return translateWriteError(err, "checklist item "+m.ItemKey)
	}
	return nil
}

func (r *PgxChecklistRepository) UpdateChecklistItem(ctx context.Context, item domain.ChecklistItem) error {
	query := `
		UPDATE checklist_items
		SET completed = $2, completed_at = $3, updated_at = $4
		WHERE item_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, item.ItemID, item.Completed, item.CompletedAt, item.UpdatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update checklist item", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("checklist item " + item.ItemID + " not found")
	}
	return nil
}
