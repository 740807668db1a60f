package services

import (
	"context"
	"fmt"

	"github.com/pharmatrack/ledger-core/internal/core/domain"
	portsrepo "github.com/pharmatrack/ledger-core/internal/core/ports/repositories"
)

// BalanceCalculator derives the current balance for an (entity, lot) pair by
// summing signed quantities from the movement store. It is stateless: the
// result is a pure function of stored movements, usable both on the read
// path and inside the write path's critical section.
type BalanceCalculator struct {
	movements portsrepo.MovementReader
}

// NewBalanceCalculator creates a calculator over the given movement reader.
func NewBalanceCalculator(movements portsrepo.MovementReader) *BalanceCalculator {
	return &BalanceCalculator{movements: movements}
}

// ComputeBalance returns sum(inbound) - sum(outbound) + sum(signed adjustments).
func (c *BalanceCalculator) ComputeBalance(ctx context.Context, key domain.StockKey) (int64, error) {
	return balanceFrom(ctx, c.movements, key)
}

// balanceFrom sums movements through whichever reader the caller is bound
// to — the shared pool on the read path, the transaction inside a unit of
// work — so the write path sees exactly the state it will append onto.
func balanceFrom(ctx context.Context, movements portsrepo.MovementReader, key domain.StockKey) (int64, error) {
	list, err := movements.ListMovements(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("failed to list movements for %s: %w", key, err)
	}
	var balance int64
	for _, m := range list {
		balance += m.SignedQuantity()
	}
	return balance, nil
}
