package repositories

import (
	"context"
	"time"

	"github.com/pharmatrack/ledger-core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// JournalEntryReader defines read operations for journal data.
type JournalEntryReader interface {
	// FindEntryByID retrieves an entry header by its unique identifier.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves all lines belonging to an entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error)

	// SumPostedLinesByAccount totals the debit and credit amounts an account
	// has accumulated across POSTED entries only. Draft lines never count.
	SumPostedLinesByAccount(ctx context.Context, accountID string) (debits, credits decimal.Decimal, err error)
}

// JournalEntryWriter defines the write operations for journal data. POSTED
// entries have no mutation path here: MarkEntryPosted is the single one-way
// transition, and ReplaceDraftEntry refuses anything that is not a draft.
type JournalEntryWriter interface {
	// SaveEntry inserts an entry with its lines. Fails with ErrValidation if
	// lines is empty or any line has both or neither side positive.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error

	// ReplaceDraftEntry swaps an entry's header fields and lines wholesale.
	// Fails with ErrImmutableRecord if the stored entry is POSTED.
	ReplaceDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error

	// MarkEntryPosted transitions DRAFT to POSTED, stamping the poster and
	// timestamp. Fails with ErrImmutableRecord if already POSTED.
	MarkEntryPosted(ctx context.Context, entryID, posterID string, postedAt time.Time) error
}

// JournalRepositoryFacade combines all journal store interfaces.
type JournalRepositoryFacade interface {
	JournalEntryReader
	JournalEntryWriter
}
