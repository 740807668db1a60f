package services

import (
	portsrepo "github.com/pharmatrack/ledger-core/internal/core/ports/repositories"
	portssvc "github.com/pharmatrack/ledger-core/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies. The lot registry and account resolver are
// collaborators supplied by the storage layer (or by test doubles).
func NewServiceContainer(repos portsrepo.RepositoryProvider, lots portssvc.LotRegistry, resolver portssvc.AccountResolver) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{
		Lots:     lots,
		Accounts: resolver,
	}

	stock := NewStockService(repos.UOW, repos.MovementRepo, lots)
	journal := NewJournalService(repos.UOW, repos.JournalRepo, repos.AccountRepo)

	container.Stock = stock
	container.Journal = journal
	container.Ledger = NewLedgerCoordinator(repos.UOW, stock, journal, resolver)
	container.Account = NewAccountService(repos.AccountRepo)

	return container
}
