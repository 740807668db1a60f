package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pharmatrack/ledger-core/internal/apperrors"
	portssvc "github.com/pharmatrack/ledger-core/internal/core/ports/services"
)

// PgxLotRegistry resolves lot usability from the lots table. A lot backs
// movements only while its status is ACTIVE and it has not expired.
type PgxLotRegistry struct {
	db DBTX
}

// NewPgxLotRegistry creates the database-backed lot registry.
func NewPgxLotRegistry(db DBTX) *PgxLotRegistry {
	return &PgxLotRegistry{db: db}
}

var _ portssvc.LotRegistry = (*PgxLotRegistry)(nil)

// IsLotUsable reports whether the lot may back stock movements. An unknown
// lot is an error, not merely unusable: movements must never reference lots
// the registry has no record of.
func (r *PgxLotRegistry) IsLotUsable(ctx context.Context, lotID string) (bool, error) {
	query := `SELECT status, expiry_date FROM lots WHERE lot_id = $1;`
	var status string
	var expiryDate time.Time
	err := r.db.QueryRow(ctx, query, lotID).Scan(&status, &expiryDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("%w: lot %s", apperrors.ErrNotFound, lotID)
		}
		return false, fmt.Errorf("failed to look up lot %s: %w", lotID, err)
	}
	return status == "ACTIVE" && expiryDate.After(time.Now().UTC()), nil
}
