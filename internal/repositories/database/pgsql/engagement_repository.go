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

type PgxEngagementRepository struct {
	BaseRepository
}

// newPgxEngagementRepository creates a new repository for engagement data.
func newPgxEngagementRepository(pool *pgxpool.Pool) portsrepo.EngagementRepositoryFacade {
	return &PgxEngagementRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxEngagementRepository implements portsrepo.EngagementRepositoryFacade
var _ portsrepo.EngagementRepositoryFacade = (*PgxEngagementRepository)(nil)

const engagementSelectQuery = `
SELECT
	e.engagement_id, e.organization_id, e.client_id, e.title, e.status, e.year_end_date,
	e.trial_balance_url, e.created_at, e.created_by, e.last_updated_at, e.last_updated_by, e.version
FROM engagements e
`

func scanEngagement(row pgx.CollectableRow) (models.Engagement, error) {
	var m models.Engagement
	err := row.Scan(
		&m.EngagementID, &m.OrganizationID, &m.ClientID, &m.Title, &m.Status, &m.YearEndDate,
		&m.TrialBalanceURL, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.Version,
	)
	return m, err
}

// getEngagements runs the shared select with filterQuery appended.
func (r *PgxEngagementRepository) getEngagements(ctx context.Context, filterQuery string, args ...any) ([]domain.Engagement, error) {
	rows, err := r.Pool.Query(ctx, engagementSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query engagements", err)
	}
	defer rows.Close()

	modelEngagements, err := pgx.CollectRows(rows, scanEngagement)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect engagement rows", err)
	}
	return mapping.ToDomainEngagementSlice(modelEngagements), nil
}

func (r *PgxEngagementRepository) FindEngagementByID(ctx context.Context, engagementID string) (*domain.Engagement, error) {
	rows, err := r.Pool.Query(ctx, engagementSelectQuery+" WHERE e.engagement_id = $1", engagementID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query engagement", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, scanEngagement)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("engagement " + engagementID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find engagement", err)
	}
	e := mapping.ToDomainEngagement(m)
	return &e, nil
}

func (r *PgxEngagementRepository) ListEngagementsByOrganization(ctx context.Context, organizationID string) ([]domain.Engagement, error) {
	return r.getEngagements(ctx, " WHERE e.organization_id = $1 ORDER BY e.year_end_date DESC, e.created_at", organizationID)
}

func (r *PgxEngagementRepository) ListEngagementsByClient(ctx context.Context, clientID string) ([]domain.Engagement, error) {
	return r.getEngagements(ctx, " WHERE e.client_id = $1 ORDER BY e.year_end_date DESC, e.created_at", clientID)
}

func (r *PgxEngagementRepository) SaveEngagement(ctx context.Context, engagement domain.Engagement) error {
	m := mapping.ToModelEngagement(engagement)
	query := `
		INSERT INTO engagements (
			engagement_id, organization_id, client_id, title, status, year_end_date,
			trial_balance_url, created_at, created_by, last_updated_at, last_updated_by, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 1);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.EngagementID, m.OrganizationID, m.ClientID, m.Title, m.Status, m.YearEndDate,
		m.TrialBalanceURL, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "engagement "+m.EngagementID)
	}
	return nil
}
