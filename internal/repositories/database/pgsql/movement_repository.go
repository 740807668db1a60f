package pgsql

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/pharmatrack/ledger-core/internal/apperrors"
	"github.com/pharmatrack/ledger-core/internal/core/domain"
	portsrepo "github.com/pharmatrack/ledger-core/internal/core/ports/repositories"
)

// PgxMovementRepository stores movements in the movements table. The table
// carries no update or delete statements anywhere in this package; a trigger
// in the schema additionally rejects them at the database level.
type PgxMovementRepository struct {
	db DBTX
}

// newPgxMovementRepository creates a new repository for movement data.
func newPgxMovementRepository(db DBTX) *PgxMovementRepository {
	return &PgxMovementRepository{db: db}
}

var _ portsrepo.MovementRepositoryFacade = (*PgxMovementRepository)(nil)

// AppendMovement inserts a movement row.
func (r *PgxMovementRepository) AppendMovement(ctx context.Context, movement domain.Movement) error {
	if !movement.QuantityValid() || !movement.Kind.Valid() {
		return fmt.Errorf("%w: invalid movement %s", apperrors.ErrValidation, movement.MovementID)
	}

	query := `
		INSERT INTO movements (movement_id, entity_kind, entity_id, lot_id, kind, quantity, reference_id, reference_kind, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.db.Exec(ctx, query,
		movement.MovementID,
		string(movement.EntityKind),
		movement.EntityID,
		movement.LotID,
		string(movement.Kind),
		movement.Quantity,
		nullIfEmpty(movement.Reference.ReferenceID),
		nullIfEmpty(movement.Reference.ReferenceKind),
		movement.ActorID,
		movement.CreatedAt,
	)
	if err != nil {
		return mapPgError(fmt.Errorf("failed to insert movement %s: %w", movement.MovementID, err))
	}
	return nil
}

// ListMovements returns the key's movements ordered by creation time, with
// movement_id as tiebreaker so the sequence is stable.
func (r *PgxMovementRepository) ListMovements(ctx context.Context, key domain.StockKey) ([]domain.Movement, error) {
	query := `
		SELECT movement_id, entity_kind, entity_id, lot_id, kind, quantity, reference_id, reference_kind, actor_id, created_at
		FROM movements
		WHERE entity_kind = $1 AND entity_id = $2 AND lot_id = $3
		ORDER BY created_at ASC, movement_id ASC;
	`
	rows, err := r.db.Query(ctx, query, string(key.EntityKind), key.EntityID, key.LotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements for %s: %w", key, err)
	}
	defer rows.Close()

	var movements []domain.Movement
	for rows.Next() {
		var m domain.Movement
		var refID, refKind *string
		if err := rows.Scan(&m.MovementID, &m.EntityKind, &m.EntityID, &m.LotID, &m.Kind, &m.Quantity, &refID, &refKind, &m.ActorID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan movement row: %w", err)
		}
		if refID != nil {
			m.Reference.ReferenceID = *refID
		}
		if refKind != nil {
			m.Reference.ReferenceKind = *refKind
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read movement rows: %w", err)
	}
	return movements, nil
}

// LockStockKey takes a transaction-scoped advisory lock on the key, so the
// balance recheck and the append are serialized across processes, not just
// within one. Outside a transaction the lock is pointless; the unit of work
// always hands repositories a pgx.Tx.
func (r *PgxMovementRepository) LockStockKey(ctx context.Context, key domain.StockKey) error {
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock($1);`, advisoryLockKey(key)); err != nil {
		return mapPgError(fmt.Errorf("failed to take advisory lock for %s: %w", key, err))
	}
	return nil
}

// advisoryLockKey hashes the canonical key string down to the signed 64-bit
// space Postgres advisory locks use.
func advisoryLockKey(key domain.StockKey) int64 {
	sum := sha256.Sum256([]byte(key.String()))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}
