package pgsql

import (
	portsrepo "github.com/SscSPs/pbc_workflow_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		EngagementRepo:      newPgxEngagementRepository(dbPool),
		ChecklistRepo:       newPgxChecklistRepository(dbPool),
		DocumentRequestRepo: newPgxDocumentRequestRepository(dbPool),
		PBCWorkflowRepo:     newPgxPBCWorkflowRepository(dbPool),
		ProfileRepo:         newPgxProfileRepository(dbPool),
	}
}
