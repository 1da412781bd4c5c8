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

type PgxDocumentRequestRepository struct {
	BaseRepository
}

// newPgxDocumentRequestRepository creates a new repository for document requests.
func newPgxDocumentRequestRepository(pool *pgxpool.Pool) *PgxDocumentRequestRepository {
	return &PgxDocumentRequestRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.DocumentRequestRepositoryFacade = (*PgxDocumentRequestRepository)(nil)

const documentRequestSelectQuery = `
SELECT
	d.request_id, d.engagement_id, d.category, d.description, d.is_mandatory, d.status,
	d.documents, d.completed_at, d.created_at, d.created_by, d.last_updated_at, d.last_updated_by, d.version
FROM document_requests d
`

func scanDocumentRequest(row pgx.CollectableRow) (models.DocumentRequest, error) {
	var m models.DocumentRequest
	err := row.Scan(
		&m.RequestID, &m.EngagementID, &m.Category, &m.Description, &m.IsMandatory, &m.Status,
		&m.Documents, &m.CompletedAt, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy, &m.Version,
	)
	return m, err
}

// listDocumentRequests is shared with the workflow repository so reads can
// run inside its transaction.
func listDocumentRequests(ctx context.Context, q querier, engagementID string) ([]domain.DocumentRequest, error) {
	rows, err := q.Query(ctx, documentRequestSelectQuery+" WHERE d.engagement_id = $1 ORDER BY d.created_at, d.request_id", engagementID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query document requests", err)
	}
	defer rows.Close()

	ms, err := pgx.CollectRows(rows, scanDocumentRequest)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect document request rows", err)
	}
	return mapping.ToDomainDocumentRequestSlice(ms)
}

// upsertDocumentRequest inserts r or overwrites its mutable columns.
func upsertDocumentRequest(ctx context.Context, q querier, r domain.DocumentRequest) error {
	m, err := mapping.ToModelDocumentRequest(r)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO document_requests (
			request_id, engagement_id, category, description, is_mandatory, status,
			documents, completed_at, created_at, created_by, last_updated_at, last_updated_by, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 1)
		ON CONFLICT (request_id) DO UPDATE SET
			status = EXCLUDED.status,
			documents = EXCLUDED.documents,
			completed_at = EXCLUDED.completed_at,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by,
			version = document_requests.version + 1;
	`
	_, err = q.Exec(ctx, query,
		m.RequestID, m.EngagementID, m.Category, m.Description, m.IsMandatory, m.Status,
		m.Documents, m.CompletedAt, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "document request "+m.RequestID)
	}
	return nil
}

func (r *PgxDocumentRequestRepository) ListDocumentRequestsByEngagement(ctx context.Context, engagementID string) ([]domain.DocumentRequest, error) {
	return listDocumentRequests(ctx, r.Pool, engagementID)
}

func (r *PgxDocumentRequestRepository) FindDocumentRequestByID(ctx context.Context, requestID string) (*domain.DocumentRequest, error) {
	rows, err := r.Pool.Query(ctx, documentRequestSelectQuery+" WHERE d.request_id = $1", requestID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query document request", err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, scanDocumentRequest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("document request " + requestID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find document request", err)
	}
	d, err := mapping.ToDomainDocumentRequest(m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to map document request", err)
	}
	return &d, nil
}

func (r *PgxDocumentRequestRepository) SaveDocumentRequest(ctx context.Context, request domain.DocumentRequest) error {
	m, err := mapping.ToModelDocumentRequest(request)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO document_requests (
			request_id, engagement_id, category, description, is_mandatory, status,
			documents, completed_at, created_at, created_by, last_updated_at, last_updated_by, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 1);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.RequestID, m.EngagementID, m.Category, m.Description, m.IsMandatory, m.Status,
		m.Documents, m.CompletedAt, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return translateWriteError(err, "document request "+m.RequestID)
	}
	return nil
}

func (r *PgxDocumentRequestRepository) UpdateDocumentRequest(ctx context.Context, request domain.DocumentRequest) error {
	m, err := mapping.ToModelDocumentRequest(request)
	if err != nil {
		return err
	}
	query := `
		UPDATE document_requests
		SET status = $2, documents = $3, completed_at = $4, last_updated_at = $5, last_updated_by = $6,
			version = version + 1
		WHERE request_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, m.RequestID, m.Status, m.Documents, m.CompletedAt, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update document request", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("document request " + m.RequestID + " not found")
	}
	return nil
}
