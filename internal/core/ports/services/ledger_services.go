package services

import (
	"context"

	"github.com/pharmatrack/ledger-core/internal/dto"
)

// LedgerSvcFacade coordinates the stock ledger and the finance ledger into
// single atomic units of work.
type LedgerSvcFacade interface {
	// ExecuteTransfer performs the dual stock movement for a wholesale
	// delivery and posts the balancing journal entry for its financial side
	// as one unit: the two movements and the entry all become durable or
	// none do.
	ExecuteTransfer(ctx context.Context, req dto.ExecuteTransferRequest, actorID string) (*dto.TransferResult, error)
}
