package services

import (
	"context"

	"github.com/pharmatrack/ledger-core/internal/core/domain"
	"github.com/pharmatrack/ledger-core/internal/dto"
)

// StockReaderSvc defines the lock-free read path over the movement ledger.
type StockReaderSvc interface {
	// GetBalance derives the current balance for an (entity, lot) pair from
	// the movement history. Nothing is ever stored as a balance.
	GetBalance(ctx context.Context, key domain.StockKey) (int64, error)

	// GetMovementHistory returns the ordered, restartable movement sequence
	// for an (entity, lot) pair.
	GetMovementHistory(ctx context.Context, key domain.StockKey) ([]domain.Movement, error)
}

// StockWriterSvc defines the write path over the movement ledger. Outbound
// writes run inside a per-key critical section so that the balance check and
// the append are indivisible with respect to concurrent writers.
type StockWriterSvc interface {
	// RecordMovement validates and appends a single movement.
	RecordMovement(ctx context.Context, req dto.RecordMovementRequest, actorID string) (*domain.Movement, error)

	// ProcessDualMovement atomically records TRANSFER_OUT from the seller
	// and TRANSFER_IN to the buyer; either both movements are appended or
	// neither is.
	ProcessDualMovement(ctx context.Context, req dto.DualMovementRequest, actorID string) (out, in *domain.Movement, err error)

	// ProcessSingleSale is RecordMovement specialized to SALE, the
	// highest-frequency outbound call.
	ProcessSingleSale(ctx context.Context, req dto.SingleSaleRequest, actorID string) (*domain.Movement, error)
}

// StockSvcFacade combines all stock ledger service interfaces.
type StockSvcFacade interface {
	StockReaderSvc
	StockWriterSvc
}
