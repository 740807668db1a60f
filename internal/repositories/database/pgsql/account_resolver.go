package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pharmatrack/ledger-core/internal/apperrors"
	portssvc "github.com/pharmatrack/ledger-core/internal/core/ports/services"
)

// PgxAccountResolver maps stock-holding entities to their chart accounts via
// the entity_accounts table.
type PgxAccountResolver struct {
	db DBTX
}

// NewPgxAccountResolver creates the database-backed account resolver.
func NewPgxAccountResolver(db DBTX) *PgxAccountResolver {
	return &PgxAccountResolver{db: db}
}

var _ portssvc.AccountResolver = (*PgxAccountResolver)(nil)

// AccountsFor resolves the four chart accounts an entity posts against.
func (r *PgxAccountResolver) AccountsFor(ctx context.Context, entityID string) (portssvc.ChartAccounts, error) {
	query := `
		SELECT receivable_account_id, payable_account_id, inventory_account_id, revenue_account_id
		FROM entity_accounts
		WHERE entity_id = $1;
	`
	var accounts portssvc.ChartAccounts
	err := r.db.QueryRow(ctx, query, entityID).Scan(
		&accounts.Receivable, &accounts.Payable, &accounts.Inventory, &accounts.Revenue,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return portssvc.ChartAccounts{}, fmt.Errorf("%w: no chart accounts for entity %s", apperrors.ErrNotFound, entityID)
		}
		return portssvc.ChartAccounts{}, fmt.Errorf("failed to resolve accounts for entity %s: %w", entityID, err)
	}
	return accounts, nil
}
