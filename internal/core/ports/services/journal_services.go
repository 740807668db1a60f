package services

import (
	"context"

	"github.com/pharmatrack/ledger-core/internal/core/domain"
	"github.com/pharmatrack/ledger-core/internal/dto"
	"github.com/shopspring/decimal"
)

// JournalReaderSvc defines read operations over the finance ledger.
type JournalReaderSvc interface {
	// GetEntry retrieves an entry with its lines.
	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// GetAccountBalance computes an account balance from POSTED lines only,
	// signed by the account's class.
	GetAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// JournalWriterSvc defines write operations over the finance ledger.
// POSTED is terminal; the sole correction mechanism is Reverse.
type JournalWriterSvc interface {
	// CreateEntry validates line shape and balance, then stores the entry in
	// DRAFT status. No storage write happens when validation fails.
	CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorID string) (*domain.JournalEntry, error)

	// UpdateDraftEntry replaces a DRAFT entry wholesale (delete-and-recreate
	// of its lines). Fails with ErrImmutableRecord once posted.
	UpdateDraftEntry(ctx context.Context, entryID string, req dto.CreateJournalEntryRequest, actorID string) (*domain.JournalEntry, error)

	// Post transitions DRAFT to POSTED, stamping poster and timestamp.
	Post(ctx context.Context, entryID, posterID string) (*domain.JournalEntry, error)

	// Reverse creates and immediately posts a new entry whose lines swap
	// debit and credit relative to the original's.
	Reverse(ctx context.Context, entryID, posterID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all finance ledger service interfaces.
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
