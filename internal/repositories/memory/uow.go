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

// UnitOfWork stages writes against the store and publishes them only when
// the callback returns nil. The store's write lock is held for the whole
// callback, so readers never observe partial state and concurrent units are
// fully serialized.
type UnitOfWork struct {
	store *Store
}

var _ portsrepo.UnitOfWork = (*UnitOfWork)(nil)

// Execute runs fn against a transaction-bound ledger.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, l portsrepo.Ledger) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	tx := &memTx{store: u.store}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	tx.apply()
	return nil
}

type stagedEntry struct {
	entry domain.JournalEntry
	lines []domain.JournalLine
}

type stagedPost struct {
	entryID  string
	posterID string
	postedAt time.Time
}

// memTx buffers writes until apply. Reads see committed state plus the
// transaction's own staged writes. Callers hold the store write lock.
type memTx struct {
	store     *Store
	movements []domain.Movement
	saved     []stagedEntry
	replaced  []stagedEntry
	posted    []stagedPost
	audits    []domain.AuditRecord
}

var _ portsrepo.Ledger = (*memTx)(nil)

func (t *memTx) Movements() portsrepo.MovementRepositoryFacade { return &txMovements{tx: t} }
func (t *memTx) Journals() portsrepo.JournalRepositoryFacade   { return &txJournals{tx: t} }
func (t *memTx) Audit() portsrepo.AuditLogRepository           { return &txAudit{tx: t} }

func (t *memTx) apply() {
	s := t.store
	s.movements = append(s.movements, t.movements...)
	for _, st := range t.saved {
		s.entries[st.entry.EntryID] = st.entry
		s.lines[st.entry.EntryID] = st.lines
	}
	for _, st := range t.replaced {
		s.entries[st.entry.EntryID] = st.entry
		s.lines[st.entry.EntryID] = st.lines
	}
	for _, p := range t.posted {
		entry := s.entries[p.entryID]
		entry.Status = domain.Posted
		posterID, postedAt := p.posterID, p.postedAt
		entry.PostedBy = &posterID
		entry.PostedAt = &postedAt
		entry.LastUpdatedAt = postedAt
		entry.LastUpdatedBy = posterID
		s.entries[p.entryID] = entry
	}
	s.audits = append(s.audits, t.audits...)
}

// findEntry resolves an entry id against staged writes first, then committed
// state.
func (t *memTx) findEntry(entryID string) (domain.JournalEntry, []domain.JournalLine, bool) {
	for i := len(t.saved) - 1; i >= 0; i-- {
		if t.saved[i].entry.EntryID == entryID {
			return t.saved[i].entry, t.saved[i].lines, true
		}
	}
	for i := len(t.replaced) - 1; i >= 0; i-- {
		if t.replaced[i].entry.EntryID == entryID {
			return t.replaced[i].entry, t.replaced[i].lines, true
		}
	}
	entry, ok := t.store.entries[entryID]
	if !ok {
		return domain.JournalEntry{}, nil, false
	}
	return entry, t.store.lines[entryID], true
}

type txMovements struct{ tx *memTx }

func (r *txMovements) AppendMovement(ctx context.Context, movement domain.Movement) error {
	if err := checkMovement(movement); err != nil {
		return err
	}
	r.tx.movements = append(r.tx.movements, movement)
	return nil
}

func (r *txMovements) ListMovements(ctx context.Context, key domain.StockKey) ([]domain.Movement, error) {
	out := r.tx.store.movementsForKey(key)
	for _, m := range r.tx.movements {
		if m.Key() == key {
			out = append(out, m)
		}
	}
	return out, nil
}

// LockStockKey is a no-op: the in-process lock table and the store-wide
// write lock already serialize writers.
func (r *txMovements) LockStockKey(ctx context.Context, key domain.StockKey) error {
	return nil
}

type txJournals struct{ tx *memTx }

func (r *txJournals) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, _, ok := r.tx.findEntry(entryID)
	if !ok {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	return &entry, nil
}

func (r *txJournals) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	_, lines, ok := r.tx.findEntry(entryID)
	if !ok {
		return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	return copyLines(lines), nil
}

func (r *txJournals) SumPostedLinesByAccount(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	debits, credits := sumPostedLines(r.tx.store, accountID)
	return debits, credits, nil
}

func (r *txJournals) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	if err := checkEntryLines(lines); err != nil {
		return err
	}
	if _, _, ok := r.tx.findEntry(entry.EntryID); ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.EntryID)
	}
	r.tx.saved = append(r.tx.saved, stagedEntry{entry: entry, lines: copyLines(lines)})
	return nil
}

func (r *txJournals) ReplaceDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	if err := checkEntryLines(lines); err != nil {
		return err
	}
	existing, _, ok := r.tx.findEntry(entry.EntryID)
	if !ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entry.EntryID)
	}
	if existing.Status == domain.Posted {
		return fmt.Errorf("%w: journal entry %s is posted", apperrors.ErrImmutableRecord, entry.EntryID)
	}
	r.tx.replaced = append(r.tx.replaced, stagedEntry{entry: entry, lines: copyLines(lines)})
	return nil
}

func (r *txJournals) MarkEntryPosted(ctx context.Context, entryID, posterID string, postedAt time.Time) error {
	existing, _, ok := r.tx.findEntry(entryID)
	if !ok {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	if existing.Status == domain.Posted {
		return fmt.Errorf("%w: journal entry %s is already posted", apperrors.ErrImmutableRecord, entryID)
	}
	for _, p := range r.tx.posted {
		if p.entryID == entryID {
			return fmt.Errorf("%w: journal entry %s is already posted", apperrors.ErrImmutableRecord, entryID)
		}
	}
	r.tx.posted = append(r.tx.posted, stagedPost{entryID: entryID, posterID: posterID, postedAt: postedAt})
	return nil
}

type txAudit struct{ tx *memTx }

func (r *txAudit) RecordAudit(ctx context.Context, record domain.AuditRecord) error {
	r.tx.audits = append(r.tx.audits, record)
	return nil
}
