package services

import (
	portsrepo "github.com/mikenapp/caja_backend/internal/core/ports/repositories"
	portssvc "github.com/mikenapp/caja_backend/internal/core/ports/services"
)

// NewContainer creates a new service container with properly initialized dependencies
func NewContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Register:   NewRegisterService(repos.DayStateRepo, repos.MovementRepo),
		Ledger:     NewLedgerService(repos.MovementRepo),
		Normalizer: NewNormalizerService(repos.NormalizerRepo),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.RegisterSvcFacade = (*RegisterService)(nil)
	_ portssvc.LedgerSvcFacade   = (*LedgerService)(nil)
	_ portssvc.NormalizerSvc     = (*NormalizerService)(nil)
)
