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

type PgxPBCWorkflowRepository struct {
	BaseRepository
}

// newPgxPBCWorkflowRepository creates a new repository for PBC workflows.
func newPgxPBCWorkflowRepository(pool *pgxpool.Pool) portsrepo.PBCWorkflowRepositoryFacade {
	return &PgxPBCWorkflowRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.PBCWorkflowRepositoryFacade = (*PgxPBCWorkflowRepository)(nil)

const workflowSelectQuery = `
SELECT
	w.workflow_id, w.engagement_id, w.status, w.categories, w.submitted_at,
	w.created_at, w.created_by, w.last_updated_at, w.last_updated_by, w.version
FROM pbc_workflows w
`

func scanWorkflow(row pgx.CollectableRow) (models.PBCWorkflow, error) {
	var m models.PBCWorkflow
	err := row.Scan(
		&m.WorkflowID, &m.EngagementID, &m.Status, &m.Categories, &m.SubmittedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.Version,
	)
	return m, err
}

// findWorkflow loads one workflow row and its document requests in a single
// read-only transaction so both reflect the same commit.
func (r *PgxPBCWorkflowRepository) findWorkflow(ctx context.Context, filter string, arg string) (*domain.PBCWorkflow, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly, IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	rows, err := tx.Query(ctx, workflowSelectQuery+filter, arg)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query workflow", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, scanWorkflow)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("workflow " + arg + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find workflow", err)
	}

	requests, err := listDocumentRequests(ctx, tx, m.EngagementID)
	if err != nil {
		return nil, err
	}
	wf, err := mapping.ToDomainPBCWorkflow(m, requests)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to map workflow", err)
	}
	return &wf, nil
}

func (r *PgxPBCWorkflowRepository) FindWorkflowByEngagement(ctx context.Context, engagementID string) (*domain.PBCWorkflow, error) {
	return r.findWorkflow(ctx, " WHERE w.engagement_id = $1", engagementID)
}

func (r *PgxPBCWorkflowRepository) FindWorkflowByID(ctx context.Context, workflowID string) (*domain.PBCWorkflow, error) {
	return r.findWorkflow(ctx, " WHERE w.workflow_id = $1", workflowID)
}

func (r *PgxPBCWorkflowRepository) SaveWorkflow(ctx context.Context, workflow domain.PBCWorkflow) error {
	m, err := mapping.ToModelPBCWorkflow(workflow)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO pbc_workflows (
			workflow_id, engagement_id, status, categories, submitted_at,
			created_at, created_by, last_updated_at, last_updated_by, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.WorkflowID, m.EngagementID, m.Status, m.Categories, m.SubmittedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "workflow for engagement "+m.EngagementID)
	}
	return nil
}

// UpdateWorkflow writes the workflow only if workflow.Version still matches
// the stored version; otherwise it returns a conflict and nothing is written.
func (r *PgxPBCWorkflowRepository) UpdateWorkflow(ctx context.Context, workflow domain.PBCWorkflow, changed ...domain.DocumentRequest) error {
	m, err := mapping.ToModelPBCWorkflow(workflow)
	if err != nil {
		return err
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `
		UPDATE pbc_workflows
		SET status = $3, categories = $4, submitted_at = $5, last_updated_at = $6, last_updated_by = $7,
			version = version + 1
		WHERE workflow_id = $1 AND version = $2;
	`
	tag, err := tx.Exec(ctx, query, m.WorkflowID, m.Version, m.Status, m.Categories, m.SubmittedAt, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update workflow", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM pbc_workflows WHERE workflow_id = $1)`, m.WorkflowID).Scan(&exists); err != nil {
			return apperrors.NewAppError(500, "failed to check workflow", err)
		}
		if !exists {
			return apperrors.NewNotFoundError("workflow " + m.WorkflowID + " not found")
		}
		return apperrors.NewConflictError("workflow " + m.WorkflowID + " was modified concurrently")
	}

	for _, req := range changed {
		if err := upsertDocumentRequest(ctx, tx, req); err != nil {
			return err
		}
	}
	return r.Commit(ctx, tx)
}
