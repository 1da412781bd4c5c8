package services

import (
	portsrepo "github.com/SscSPs/pbc_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pbc_workflow_app/internal/core/ports/services"
)

// Dependencies are the collaborators outside the repository layer.
type Dependencies struct {
	Publisher portssvc.EventPublisher
	Analytics portssvc.Analytics
	Sheets    portssvc.SheetReader
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, deps Dependencies) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Engagement service first, it authorizes every engagement-scoped call
	container.Engagement = NewEngagementService(repos.EngagementRepo, BaseService{})

	base := BaseService{
		EngagementAuthorizer: container.Engagement,
		Publisher:            deps.Publisher,
		Analytics:            deps.Analytics,
	}
	container.Checklist = NewChecklistService(repos.ChecklistRepo, base)
	container.DocumentRequest = NewDocumentRequestService(repos.DocumentRequestRepo, repos.PBCWorkflowRepo, base)
	container.PBC = NewPBCService(repos.PBCWorkflowRepo, repos.DocumentRequestRepo, base)
	container.Profile = NewProfileService(repos.ProfileRepo)
	container.TrialBalance = NewTrialBalanceService(deps.Sheets, base)

	return container
}
