package repositories

import "context"

// Ledger is the set of transaction-bound repositories handed to a unit of
// work callback. Everything written through it becomes durable together or
// not at all.
type Ledger interface {
	Movements() MovementRepositoryFacade
	Journals() JournalRepositoryFacade
	Audit() AuditLogRepository
}

// UnitOfWork runs a callback inside one atomic transaction boundary.
//
// The pgsql implementation opens a serializable pgx transaction and maps
// serialization failures to ErrConcurrencyConflict; the in-memory
// implementation stages writes and publishes them only when the callback
// returns nil. Readers outside the unit never observe partial state.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context, l Ledger) error) error
}
