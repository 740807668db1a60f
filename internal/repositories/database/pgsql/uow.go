package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/pharmatrack/ledger-core/internal/core/ports/repositories"
)

// PgxUnitOfWork runs callbacks inside a serializable transaction. Repository
// instances handed to the callback are bound to that transaction, so every
// read inside the unit sees a consistent snapshot and every write commits or
// rolls back together. Serialization failures surface to the caller as
// ErrConcurrencyConflict via mapPgError.
type PgxUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewPgxUnitOfWork creates the serializable unit of work over a pool.
func NewPgxUnitOfWork(pool *pgxpool.Pool) *PgxUnitOfWork {
	return &PgxUnitOfWork{pool: pool}
}

var _ portsrepo.UnitOfWork = (*PgxUnitOfWork)(nil)

// Execute opens a serializable transaction, runs fn against a tx-bound
// ledger, and commits when fn returns nil.
func (u *PgxUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, l portsrepo.Ledger) error) error {
	tx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	if err := fn(ctx, &pgxLedger{tx: tx}); err != nil {
		return mapPgError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapPgError(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// pgxLedger binds the repository set to one transaction.
type pgxLedger struct {
	tx pgx.Tx
}

var _ portsrepo.Ledger = (*pgxLedger)(nil)

func (l *pgxLedger) Movements() portsrepo.MovementRepositoryFacade {
	return newPgxMovementRepository(l.tx)
}

func (l *pgxLedger) Journals() portsrepo.JournalRepositoryFacade {
	return newPgxJournalRepository(l.tx)
}

func (l *pgxLedger) Audit() portsrepo.AuditLogRepository {
	return newPgxAuditRepository(l.tx)
}
