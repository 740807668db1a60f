package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/pharmatrack/ledger-core/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every repository port to one connection pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		MovementRepo: newPgxMovementRepository(dbPool),
		JournalRepo:  newPgxJournalRepository(dbPool),
		AccountRepo:  newPgxAccountRepository(dbPool),
		AuditRepo:    newPgxAuditRepository(dbPool),
		UOW:          NewPgxUnitOfWork(dbPool),
	}
}
