package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pharmatrack/ledger-core/internal/apperrors"
	"github.com/pharmatrack/ledger-core/internal/core/domain"
	portsrepo "github.com/pharmatrack/ledger-core/internal/core/ports/repositories"
	portssvc "github.com/pharmatrack/ledger-core/internal/core/ports/services"
	"github.com/pharmatrack/ledger-core/internal/dto"
	"github.com/pharmatrack/ledger-core/internal/middleware"
)

// StockService orchestrates movement recording against the append-only
// movement store. Outbound writes pass through a critical section keyed by
// (entityKind, entityID, lotID): the balance recheck and the append are
// indivisible with respect to other writers on the same key.
type StockService struct {
	uow       portsrepo.UnitOfWork
	movements portsrepo.MovementRepositoryFacade
	lots      portssvc.LotRegistry
	locks     *stockLockTable
	calc      *BalanceCalculator
}

// NewStockService creates the stock ledger service.
func NewStockService(uow portsrepo.UnitOfWork, movements portsrepo.MovementRepositoryFacade, lots portssvc.LotRegistry) *StockService {
	return &StockService{
		uow:       uow,
		movements: movements,
		lots:      lots,
		locks:     newStockLockTable(),
		calc:      NewBalanceCalculator(movements),
	}
}

var _ portssvc.StockSvcFacade = (*StockService)(nil)

// GetBalance implements the lock-free balance read.
func (s *StockService) GetBalance(ctx context.Context, key domain.StockKey) (int64, error) {
	return s.calc.ComputeBalance(ctx, key)
}

// GetMovementHistory returns the ordered movement sequence for a key.
func (s *StockService) GetMovementHistory(ctx context.Context, key domain.StockKey) ([]domain.Movement, error) {
	return s.movements.ListMovements(ctx, key)
}

// RecordMovement validates and appends a single movement. Outbound kinds
// (and negative adjustments) recheck the balance inside the critical section
// and fail with ErrInsufficientStock rather than drive it negative.
func (s *StockService) RecordMovement(ctx context.Context, req dto.RecordMovementRequest, actorID string) (*domain.Movement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	movement := domain.Movement{
		MovementID: uuid.NewString(),
		EntityKind: req.EntityKind,
		EntityID:   req.EntityID,
		LotID:      req.LotID,
		Kind:       req.Kind,
		Quantity:   req.Quantity,
		Reference:  req.Reference(),
		ActorID:    actorID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := validateMovement(movement); err != nil {
		return nil, err
	}

	// Collaborator check happens before any lock is taken; the critical
	// section must stay bounded and short.
	if err := s.checkLotUsable(ctx, movement.LotID); err != nil {
		return nil, err
	}

	if err := s.withConflictRetry(ctx, func() error {
		return s.appendChecked(ctx, movement)
	}); err != nil {
		return nil, err
	}

	logger.Info("Stock movement recorded",
		slog.String("movement_id", movement.MovementID),
		slog.String("kind", string(movement.Kind)),
		slog.String("key", movement.Key().String()),
		slog.Int64("quantity", movement.Quantity),
	)
	return &movement, nil
}

// ProcessSingleSale is RecordMovement specialized to SALE.
func (s *StockService) ProcessSingleSale(ctx context.Context, req dto.SingleSaleRequest, actorID string) (*domain.Movement, error) {
	return s.RecordMovement(ctx, dto.RecordMovementRequest{
		EntityKind:    req.EntityKind,
		EntityID:      req.EntityID,
		LotID:         req.LotID,
		Kind:          domain.Sale,
		Quantity:      req.Quantity,
		ReferenceID:   req.ReferenceID,
		ReferenceKind: req.ReferenceKind,
	}, actorID)
}

// ProcessDualMovement atomically records TRANSFER_OUT from the seller and
// TRANSFER_IN to the buyer. Both key locks are taken in canonical order.
func (s *StockService) ProcessDualMovement(ctx context.Context, req dto.DualMovementRequest, actorID string) (*domain.Movement, *domain.Movement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	out, in := buildDualMovements(req, actorID, time.Now().UTC())
	if err := validateMovement(out); err != nil {
		return nil, nil, err
	}
	if err := validateMovement(in); err != nil {
		return nil, nil, err
	}
	if err := s.checkLotUsable(ctx, req.LotID); err != nil {
		return nil, nil, err
	}

	if err := s.withConflictRetry(ctx, func() error {
		unlock := s.locks.lockPair(req.SellerKey(), req.BuyerKey())
		defer unlock()
		return s.uow.Execute(ctx, func(ctx context.Context, l portsrepo.Ledger) error {
			return s.dualMovementTx(ctx, l, out, in)
		})
	}); err != nil {
		return nil, nil, err
	}

	logger.Info("Dual stock movement recorded",
		slog.String("out_movement_id", out.MovementID),
		slog.String("in_movement_id", in.MovementID),
		slog.String("lot_id", req.LotID),
		slog.Int64("quantity", req.Quantity),
	)
	return &out, &in, nil
}

// appendChecked runs one attempt of the single-movement critical section.
func (s *StockService) appendChecked(ctx context.Context, movement domain.Movement) error {
	consumes := movementConsumesStock(movement)
	if consumes {
		unlock := s.locks.lock(movement.Key())
		defer unlock()
	}
	return s.uow.Execute(ctx, func(ctx context.Context, l portsrepo.Ledger) error {
		if consumes {
			if err := l.Movements().LockStockKey(ctx, movement.Key()); err != nil {
				return err
			}
			balance, err := balanceFrom(ctx, l.Movements(), movement.Key())
			if err != nil {
				return err
			}
			outflow := -movement.SignedQuantity()
			if balance-outflow < 0 {
				return fmt.Errorf("%w: balance=%d, requested=%d", apperrors.ErrInsufficientStock, balance, outflow)
			}
		}
		if err := l.Movements().AppendMovement(ctx, movement); err != nil {
			return err
		}
		return l.Audit().RecordAudit(ctx, movementAuditRecord(movement))
	})
}

// dualMovementTx appends the seller-out/buyer-in pair inside an already-open
// unit of work. Callers hold both key locks.
func (s *StockService) dualMovementTx(ctx context.Context, l portsrepo.Ledger, out, in domain.Movement) error {
	// Storage-level locks in the same canonical order as the in-process ones.
	first, second := out.Key(), in.Key()
	if second.Less(first) {
		first, second = second, first
	}
	if err := l.Movements().LockStockKey(ctx, first); err != nil {
		return err
	}
	if err := l.Movements().LockStockKey(ctx, second); err != nil {
		return err
	}

	balance, err := balanceFrom(ctx, l.Movements(), out.Key())
	if err != nil {
		return err
	}
	if balance-out.Quantity < 0 {
		return fmt.Errorf("%w: seller balance=%d, requested=%d", apperrors.ErrInsufficientStock, balance, out.Quantity)
	}

	if err := l.Movements().AppendMovement(ctx, out); err != nil {
		return err
	}
	if err := l.Movements().AppendMovement(ctx, in); err != nil {
		return err
	}
	if err := l.Audit().RecordAudit(ctx, movementAuditRecord(out)); err != nil {
		return err
	}
	return l.Audit().RecordAudit(ctx, movementAuditRecord(in))
}

// withConflictRetry re-enters the critical section from scratch exactly once
// when storage reports a serialization failure. The balance is re-read on the
// second attempt, so a contested last unit can never be accepted twice.
func (s *StockService) withConflictRetry(ctx context.Context, attempt func() error) error {
	err := attempt()
	if errors.Is(err, apperrors.ErrConcurrencyConflict) {
		middleware.GetLoggerFromCtx(ctx).Warn("Concurrency conflict on stock write, retrying once", slog.String("error", err.Error()))
		err = attempt()
	}
	return err
}

func (s *StockService) checkLotUsable(ctx context.Context, lotID string) error {
	usable, err := s.lots.IsLotUsable(ctx, lotID)
	if err != nil {
		return fmt.Errorf("lot registry check failed for lot %s: %w", lotID, err)
	}
	if !usable {
		return fmt.Errorf("%w: lot %s", apperrors.ErrLotUnusable, lotID)
	}
	return nil
}

// validateMovement enforces the closed enum sets and the quantity sign rules
// before anything touches storage.
func validateMovement(m domain.Movement) error {
	if !m.EntityKind.Valid() {
		return fmt.Errorf("%w: unknown entity kind %q", apperrors.ErrValidation, m.EntityKind)
	}
	if !m.Kind.Valid() {
		return fmt.Errorf("%w: unknown movement kind %q", apperrors.ErrValidation, m.Kind)
	}
	if !m.QuantityValid() {
		if m.Kind == domain.Adjustment {
			return fmt.Errorf("%w: adjustment quantity must be non-zero", apperrors.ErrValidation)
		}
		return fmt.Errorf("%w: quantity must be positive, got %d", apperrors.ErrValidation, m.Quantity)
	}
	if m.EntityID == "" || m.LotID == "" {
		return fmt.Errorf("%w: entity id and lot id are required", apperrors.ErrValidation)
	}
	return nil
}

// movementConsumesStock reports whether the movement must pass the
// non-negative balance check: every outbound kind plus negative adjustments.
func movementConsumesStock(m domain.Movement) bool {
	return m.Kind.Outbound() || (m.Kind == domain.Adjustment && m.Quantity < 0)
}

// buildDualMovements constructs the out/in pair sharing one reference and
// timestamp, so the two records are recognizably two halves of one event.
func buildDualMovements(req dto.DualMovementRequest, actorID string, at time.Time) (out, in domain.Movement) {
	out = domain.Movement{
		MovementID: uuid.NewString(),
		EntityKind: req.SellerKind,
		EntityID:   req.SellerID,
		LotID:      req.LotID,
		Kind:       domain.TransferOut,
		Quantity:   req.Quantity,
		Reference:  req.Reference(),
		ActorID:    actorID,
		CreatedAt:  at,
	}
	in = domain.Movement{
		MovementID: uuid.NewString(),
		EntityKind: req.BuyerKind,
		EntityID:   req.BuyerID,
		LotID:      req.LotID,
		Kind:       domain.TransferIn,
		Quantity:   req.Quantity,
		Reference:  req.Reference(),
		ActorID:    actorID,
		CreatedAt:  at,
	}
	return out, in
}
