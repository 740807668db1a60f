package repositories

import (
	"context"

	"github.com/pharmatrack/ledger-core/internal/core/domain"
)

// MovementAppender defines the only write operation the movement store
// exposes. There is deliberately no update or delete: immutability of stored
// movements is a property of the interface, not a runtime permission check.
type MovementAppender interface {
	// AppendMovement stores a new movement. Implementations re-check the
	// quantity and kind rules as defense in depth and return ErrValidation
	// on breach.
	AppendMovement(ctx context.Context, movement domain.Movement) error
}

// MovementReader defines read operations over the movement store.
type MovementReader interface {
	// ListMovements returns every movement for the key ordered by creation
	// time ascending. The sequence is finite and restartable: a fresh call
	// re-reads current committed state.
	ListMovements(ctx context.Context, key domain.StockKey) ([]domain.Movement, error)
}

// MovementKeyLocker lets the storage layer participate in the per-key
// critical section. The pgsql implementation takes a transaction-scoped
// advisory lock; the in-memory implementation is a no-op because the
// service-level lock table already serializes writers in process.
type MovementKeyLocker interface {
	LockStockKey(ctx context.Context, key domain.StockKey) error
}

// MovementRepositoryFacade combines all movement store interfaces.
type MovementRepositoryFacade interface {
	MovementAppender
	MovementReader
	MovementKeyLocker
}
