package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	EngagementRepo      EngagementRepositoryFacade
	ChecklistRepo       ChecklistRepositoryFacade
	DocumentRequestRepo DocumentRequestRepositoryFacade
	PBCWorkflowRepo     PBCWorkflowRepositoryFacade
	ProfileRepo         ProfileRepositoryFacade
}
