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
	"github.com/pharmatrack/ledger-core/internal/utils/accounting"
)

// JournalService implements the double-entry finance ledger. Entries are
// created in DRAFT, posted exactly once, and corrected only through reversal
// entries. Validation is all-or-nothing: a request that fails any check
// writes nothing.
type JournalService struct {
	uow      portsrepo.UnitOfWork
	journals portsrepo.JournalRepositoryFacade
	accounts portsrepo.AccountReader
}

// NewJournalService creates the finance ledger service.
func NewJournalService(uow portsrepo.UnitOfWork, journals portsrepo.JournalRepositoryFacade, accounts portsrepo.AccountReader) *JournalService {
	return &JournalService{uow: uow, journals: journals, accounts: accounts}
}

var _ portssvc.JournalSvcFacade = (*JournalService)(nil)

// GetEntry retrieves an entry together with its lines.
func (s *JournalService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journals.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journals.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return entry, nil
}

// GetAccountBalance sums POSTED lines for the account and signs the result by
// the account's class. Draft lines never contribute.
func (s *JournalService) GetAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := s.accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	debits, credits, err := s.journals.SumPostedLinesByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return accounting.SignedBalance(account.Class, debits, credits)
}

// CreateEntry validates and stores a new DRAFT entry.
func (s *JournalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	entry, lines := buildEntry(req, creatorID, now)
	if err := s.validateEntry(ctx, entry, lines); err != nil {
		return nil, err
	}

	err := s.uow.Execute(ctx, func(ctx context.Context, l portsrepo.Ledger) error {
		if err := l.Journals().SaveEntry(ctx, entry, lines); err != nil {
			return err
		}
		return l.Audit().RecordAudit(ctx, entryAuditRecord(domain.AuditActionCreate, creatorID, entry, nil, now))
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.Int("lines", len(lines)),
	)
	entry.Lines = lines
	return &entry, nil
}

// UpdateDraftEntry replaces a DRAFT entry wholesale. The stored lines are
// deleted and recreated; there is no per-line patching.
func (s *JournalService) UpdateDraftEntry(ctx context.Context, entryID string, req dto.CreateJournalEntryRequest, actorID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.journals.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if existing.Status == domain.Posted {
		return nil, fmt.Errorf("%w: entry %s is posted", apperrors.ErrImmutableRecord, entryID)
	}

	now := time.Now().UTC()
	entry, lines := buildEntry(req, existing.CreatedBy, existing.CreatedAt)
	entry.EntryID = existing.EntryID
	for i := range lines {
		lines[i].EntryID = entry.EntryID
	}
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actorID
	if err := s.validateEntry(ctx, entry, lines); err != nil {
		return nil, err
	}

	old := map[string]any{
		"entryDate":   existing.EntryDate,
		"reference":   existing.Reference,
		"description": existing.Description,
	}
	err = s.uow.Execute(ctx, func(ctx context.Context, l portsrepo.Ledger) error {
		if err := l.Journals().ReplaceDraftEntry(ctx, entry, lines); err != nil {
			return err
		}
		return l.Audit().RecordAudit(ctx, entryAuditRecord(domain.AuditActionReplace, actorID, entry, old, now))
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Draft journal entry replaced", slog.String("entry_id", entry.EntryID))
	entry.Lines = lines
	return &entry, nil
}

// Post transitions a DRAFT entry to POSTED. The transition is one-way; a
// second Post on the same entry fails with ErrImmutableRecord.
func (s *JournalService) Post(ctx context.Context, entryID, posterID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status == domain.Posted {
		return nil, fmt.Errorf("%w: entry %s is already posted", apperrors.ErrImmutableRecord, entryID)
	}

	now := time.Now().UTC()
	err = s.uow.Execute(ctx, func(ctx context.Context, l portsrepo.Ledger) error {
		if err := l.Journals().MarkEntryPosted(ctx, entryID, posterID, now); err != nil {
			return err
		}
		posted := *entry
		posted.Status = domain.Posted
		old := map[string]any{"status": string(domain.Draft)}
		return l.Audit().RecordAudit(ctx, entryAuditRecord(domain.AuditActionPost, posterID, posted, old, now))
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Journal entry posted", slog.String("entry_id", entryID))
	entry.Status = domain.Posted
	entry.PostedBy = &posterID
	entry.PostedAt = &now
	return entry, nil
}

// Reverse creates and immediately posts a mirror entry for a POSTED one:
// every line keeps its account but swaps debit and credit. The original
// stays untouched; together the pair nets to zero on every account.
func (s *JournalService) Reverse(ctx context.Context, entryID, posterID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: only posted entries can be reversed, entry %s is %s", apperrors.ErrValidation, entryID, original.Status)
	}

	now := time.Now().UTC()
	reversal := domain.JournalEntry{
		EntryID:         uuid.NewString(),
		EntryDate:       now,
		Reference:       original.Reference,
		Description:     fmt.Sprintf("Reversal of entry %s", original.EntryID),
		Status:          domain.Posted,
		PostedBy:        &posterID,
		PostedAt:        &now,
		ReversesEntryID: &original.EntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     posterID,
			LastUpdatedAt: now,
			LastUpdatedBy: posterID,
		},
	}
	lines := make([]domain.JournalLine, 0, len(original.Lines))
	for _, l := range original.Lines {
		lines = append(lines, domain.JournalLine{
			LineID:    uuid.NewString(),
			EntryID:   reversal.EntryID,
			AccountID: l.AccountID,
			Debit:     l.Credit,
			Credit:    l.Debit,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     posterID,
				LastUpdatedAt: now,
				LastUpdatedBy: posterID,
			},
		})
	}

	err = s.uow.Execute(ctx, func(ctx context.Context, l portsrepo.Ledger) error {
		if err := l.Journals().SaveEntry(ctx, reversal, lines); err != nil {
			return err
		}
		old := map[string]any{"reversedEntryID": original.EntryID}
		return l.Audit().RecordAudit(ctx, entryAuditRecord(domain.AuditActionReverse, posterID, reversal, old, now))
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Journal entry reversed",
		slog.String("entry_id", original.EntryID),
		slog.String("reversal_entry_id", reversal.EntryID),
	)
	reversal.Lines = lines
	return &reversal, nil
}

// validateEntry runs the shared shape, balance, and account checks.
func (s *JournalService) validateEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: entry must have at least one line", apperrors.ErrValidation)
	}
	for _, l := range lines {
		if !l.SideValid() {
			return fmt.Errorf("%w: line for account %s must have exactly one positive side", apperrors.ErrValidation, l.AccountID)
		}
	}
	if !domain.LinesBalanced(lines) {
		debits, credits := domain.SumLines(lines)
		return fmt.Errorf("%w: debits %s != credits %s", apperrors.ErrUnbalancedEntry, debits, credits)
	}
	return s.checkAccountsUsable(ctx, lines)
}

// checkAccountsUsable verifies every referenced account exists and is active.
func (s *JournalService) checkAccountsUsable(ctx context.Context, lines []domain.JournalLine) error {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	found, err := s.accounts.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		account, ok := found[id]
		if !ok {
			return fmt.Errorf("%w: account %s does not exist", apperrors.ErrValidation, id)
		}
		if !account.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}
	return nil
}

// savePostedEntryTx writes an already-POSTED entry inside an open unit of
// work, for flows that pair a journal write with other ledger writes.
func (s *JournalService) savePostedEntryTx(ctx context.Context, l portsrepo.Ledger, entry domain.JournalEntry, lines []domain.JournalLine, actorID string, at time.Time) error {
	if err := l.Journals().SaveEntry(ctx, entry, lines); err != nil {
		return err
	}
	return l.Audit().RecordAudit(ctx, entryAuditRecord(domain.AuditActionCreate, actorID, entry, nil, at))
}

// buildEntry materializes the request into a DRAFT entry with fresh ids.
func buildEntry(req dto.CreateJournalEntryRequest, creatorID string, at time.Time) (domain.JournalEntry, []domain.JournalLine) {
	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		EntryDate:   req.Date,
		Reference:   req.Reference,
		Description: req.Description,
		Status:      domain.Draft,
		AuditFields: domain.AuditFields{
			CreatedAt:     at,
			CreatedBy:     creatorID,
			LastUpdatedAt: at,
			LastUpdatedBy: creatorID,
		},
	}
	lines := make([]domain.JournalLine, 0, len(req.Lines))
	for _, lr := range req.Lines {
		lines = append(lines, domain.JournalLine{
			LineID:    uuid.NewString(),
			EntryID:   entry.EntryID,
			AccountID: lr.AccountID,
			Debit:     lr.Debit,
			Credit:    lr.Credit,
			AuditFields: domain.AuditFields{
				CreatedAt:     at,
				CreatedBy:     creatorID,
				LastUpdatedAt: at,
				LastUpdatedBy: creatorID,
			},
		})
	}
	return entry, lines
}
