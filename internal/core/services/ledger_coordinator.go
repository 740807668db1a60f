package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmatrack/ledger-core/internal/apperrors"
	"github.com/pharmatrack/ledger-core/internal/core/domain"
	portsrepo "github.com/pharmatrack/ledger-core/internal/core/ports/repositories"
	portssvc "github.com/pharmatrack/ledger-core/internal/core/ports/services"
	"github.com/pharmatrack/ledger-core/internal/dto"
	"github.com/pharmatrack/ledger-core/internal/middleware"
)

// LedgerCoordinator binds the stock ledger and the finance ledger for flows
// that must land in both or neither. It owns no storage of its own; it
// composes the two services' transaction-scoped pieces inside one unit of
// work.
type LedgerCoordinator struct {
	uow      portsrepo.UnitOfWork
	stock    *StockService
	journal  *JournalService
	accounts portssvc.AccountResolver
}

// NewLedgerCoordinator creates the cross-ledger coordinator.
func NewLedgerCoordinator(uow portsrepo.UnitOfWork, stock *StockService, journal *JournalService, accounts portssvc.AccountResolver) *LedgerCoordinator {
	return &LedgerCoordinator{uow: uow, stock: stock, journal: journal, accounts: accounts}
}

var _ portssvc.LedgerSvcFacade = (*LedgerCoordinator)(nil)

// ExecuteTransfer records the seller-out/buyer-in movement pair and posts the
// balancing journal entry in one atomic unit. Account resolution and the lot
// usability check happen before any lock is taken; a resolver failure aborts
// the transfer with no movement recorded.
func (c *LedgerCoordinator) ExecuteTransfer(ctx context.Context, req dto.ExecuteTransferRequest, actorID string) (*dto.TransferResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.UnitValue.IsPositive() {
		return nil, fmt.Errorf("%w: unit value must be positive, got %s", apperrors.ErrValidation, req.UnitValue)
	}

	dual := req.DualMovement()
	now := time.Now().UTC()
	out, in := buildDualMovements(dual, actorID, now)
	if err := validateMovement(out); err != nil {
		return nil, err
	}
	if err := validateMovement(in); err != nil {
		return nil, err
	}
	if err := c.stock.checkLotUsable(ctx, req.LotID); err != nil {
		return nil, err
	}

	sellerAccounts, err := c.accounts.AccountsFor(ctx, req.SellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve seller accounts for %s: %w", req.SellerID, err)
	}
	buyerAccounts, err := c.accounts.AccountsFor(ctx, req.BuyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve buyer accounts for %s: %w", req.BuyerID, err)
	}

	entry, lines := buildTransferEntry(req, sellerAccounts, buyerAccounts, out.MovementID, actorID, now)

	if err := c.stock.withConflictRetry(ctx, func() error {
		unlock := c.stock.locks.lockPair(dual.SellerKey(), dual.BuyerKey())
		defer unlock()
		return c.uow.Execute(ctx, func(ctx context.Context, l portsrepo.Ledger) error {
			if err := c.stock.dualMovementTx(ctx, l, out, in); err != nil {
				return err
			}
			return c.journal.savePostedEntryTx(ctx, l, entry, lines, actorID, now)
		})
	}); err != nil {
		return nil, err
	}

	logger.Info("Transfer executed",
		slog.String("out_movement_id", out.MovementID),
		slog.String("in_movement_id", in.MovementID),
		slog.String("entry_id", entry.EntryID),
		slog.Int64("quantity", req.Quantity),
		slog.String("amount", entry.Lines[0].Debit.String()),
	)
	return &dto.TransferResult{
		OutMovementID: out.MovementID,
		InMovementID:  in.MovementID,
		EntryID:       entry.EntryID,
	}, nil
}

// buildTransferEntry constructs the already-POSTED financial side of a
// transfer: debit the buyer's inventory, credit the seller's revenue, both
// for quantity times unit value.
func buildTransferEntry(req dto.ExecuteTransferRequest, seller, buyer portssvc.ChartAccounts, outMovementID, actorID string, at time.Time) (domain.JournalEntry, []domain.JournalLine) {
	amount := req.UnitValue.Mul(decimal.NewFromInt(req.Quantity))
	audit := domain.AuditFields{
		CreatedAt:     at,
		CreatedBy:     actorID,
		LastUpdatedAt: at,
		LastUpdatedBy: actorID,
	}
	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		EntryDate:   at,
		Reference:   outMovementID,
		Description: fmt.Sprintf("Transfer of lot %s, qty %d", req.LotID, req.Quantity),
		Status:      domain.Posted,
		PostedBy:    &actorID,
		PostedAt:    &at,
		AuditFields: audit,
	}
	lines := []domain.JournalLine{
		{
			LineID:      uuid.NewString(),
			EntryID:     entry.EntryID,
			AccountID:   buyer.Inventory,
			Debit:       amount,
			Credit:      decimal.Zero,
			AuditFields: audit,
		},
		{
			LineID:      uuid.NewString(),
			EntryID:     entry.EntryID,
			AccountID:   seller.Revenue,
			Debit:       decimal.Zero,
			Credit:      amount,
			AuditFields: audit,
		},
	}
	entry.Lines = lines
	return entry, lines
}
