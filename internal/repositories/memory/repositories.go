package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharmatrack/ledger-core/internal/apperrors"
	"github.com/pharmatrack/ledger-core/internal/core/domain"
	portsrepo "github.com/pharmatrack/ledger-core/internal/core/ports/repositories"
)

// MovementRepository is the store-backed movement repository for use outside
// a unit of work. Writes commit immediately under the store lock.
type MovementRepository struct {
	store *Store
}

var _ portsrepo.MovementRepositoryFacade = (*MovementRepository)(nil)

func (r *MovementRepository) AppendMovement(ctx context.Context, movement domain.Movement) error {
	if err := checkMovement(movement); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.movements = append(r.store.movements, movement)
	return nil
}

func (r *MovementRepository) ListMovements(ctx context.Context, key domain.StockKey) ([]domain.Movement, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.movementsForKey(key), nil
}

// LockStockKey is a no-op in memory; the service lock table serializes
// writers in process.
func (r *MovementRepository) LockStockKey(ctx context.Context, key domain.StockKey) error {
	return nil
}

// JournalRepository is the store-backed journal repository for use outside a
// unit of work.
type JournalRepository struct {
	store *Store
}

var _ portsrepo.JournalRepositoryFacade = (*JournalRepository)(nil)

func (r *JournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	entry, ok := r.store.entries[entryID]
	if !ok {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	return &entry, nil
}

func (r *JournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if _, ok := r.store.entries[entryID]; !ok {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	return copyLines(r.store.lines[entryID]), nil
}

func (r *JournalRepository) SumPostedLinesByAccount(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	debits, credits := sumPostedLines(r.store, accountID)
	return debits, credits, nil
}

func (r *JournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	if err := checkEntryLines(lines); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.entries[entry.EntryID]; ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.EntryID)
	}
	r.store.entries[entry.EntryID] = entry
	r.store.lines[entry.EntryID] = copyLines(lines)
	return nil
}

func (r *JournalRepository) ReplaceDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	if err := checkEntryLines(lines); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.entries[entry.EntryID]
	if !ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entry.EntryID)
	}
	if existing.Status == domain.Posted {
		return fmt.Errorf("%w: journal entry %s is posted", apperrors.ErrImmutableRecord, entry.EntryID)
	}
	r.store.entries[entry.EntryID] = entry
	r.store.lines[entry.EntryID] = copyLines(lines)
	return nil
}

func (r *JournalRepository) MarkEntryPosted(ctx context.Context, entryID, posterID string, postedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	entry, ok := r.store.entries[entryID]
	if !ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	if entry.Status == domain.Posted {
		return fmt.Errorf("%w: journal entry %s is already posted", apperrors.ErrImmutableRecord, entryID)
	}
	entry.Status = domain.Posted
	entry.PostedBy = &posterID
	entry.PostedAt = &postedAt
	entry.LastUpdatedAt = postedAt
	entry.LastUpdatedBy = posterID
	r.store.entries[entryID] = entry
	return nil
}

// AccountRepository is the store-backed chart-of-accounts repository.
type AccountRepository struct {
	store *Store
}

var _ portsrepo.AccountRepositoryFacade = (*AccountRepository)(nil)

func (r *AccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	account, ok := r.store.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &account, nil
}

func (r *AccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if account, ok := r.store.accounts[id]; ok {
			out[id] = account
		}
	}
	return out, nil
}

func (r *AccountRepository) ListAccounts(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	all := make([]domain.Account, 0, len(r.store.accounts))
	for _, a := range r.store.accounts {
		all = append(all, a)
	}
	sortAccountsByCode(all)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *AccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.codes[account.Code]; ok {
		return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
	}
	r.store.accounts[account.AccountID] = account
	r.store.codes[account.Code] = account.AccountID
	return nil
}

// AuditRepository is the store-backed audit sink for writes done outside a
// unit of work.
type AuditRepository struct {
	store *Store
}

var _ portsrepo.AuditLogRepository = (*AuditRepository)(nil)

func (r *AuditRepository) RecordAudit(ctx context.Context, record domain.AuditRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.audits = append(r.store.audits, record)
	return nil
}
