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

type PgxProfileRepository struct {
	BaseRepository
}

func newPgxProfileRepository(pool *pgxpool.Pool) portsrepo.ProfileRepositoryFacade {
	return &PgxProfileRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ProfileRepositoryFacade = (*PgxProfileRepository)(nil)

func (r *PgxProfileRepository) FindProfileByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `
		SELECT user_id, organization_id, client_id, name, role
		FROM profiles
		WHERE user_id = $1;
	`
	var m models.Profile
	err := r.Pool.QueryRow(ctx, query, userID).Scan(&m.UserID, &m.OrganizationID, &m.ClientID, &m.Name, &m.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("profile " + userID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find profile", err)
	}
	p := mapping.ToDomainProfile(m)
	return &p, nil
}

func (r *PgxProfileRepository) CountProfilesByRole(ctx context.Context, organizationID string, role domain.Role) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM profiles WHERE organization_id = $1 AND role = $2;`,
		organizationID, string(role),
	).Scan(&count)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to count profiles", err)
	}
	return count, nil
}
