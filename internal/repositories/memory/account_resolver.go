package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/pharmatrack/ledger-core/internal/apperrors"
	portssvc "github.com/pharmatrack/ledger-core/internal/core/ports/services"
)

// AccountResolver is an in-memory entity-to-chart-accounts map.
type AccountResolver struct {
	mu       sync.RWMutex
	accounts map[string]portssvc.ChartAccounts
}

var _ portssvc.AccountResolver = (*AccountResolver)(nil)

// NewAccountResolver creates an empty resolver.
func NewAccountResolver() *AccountResolver {
	return &AccountResolver{accounts: make(map[string]portssvc.ChartAccounts)}
}

// Register maps an entity to its chart accounts.
func (r *AccountResolver) Register(entityID string, accounts portssvc.ChartAccounts) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[entityID] = accounts
}

// AccountsFor resolves the chart accounts for an entity.
func (r *AccountResolver) AccountsFor(ctx context.Context, entityID string) (portssvc.ChartAccounts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	accounts, ok := r.accounts[entityID]
	if !ok {
		return portssvc.ChartAccounts{}, fmt.Errorf("%w: no chart accounts for entity %s", apperrors.ErrNotFound, entityID)
	}
	return accounts, nil
}
