package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/pharmatrack/ledger-core/internal/apperrors"
	"github.com/pharmatrack/ledger-core/internal/core/domain"
	portsrepo "github.com/pharmatrack/ledger-core/internal/core/ports/repositories"
)

// PgxJournalRepository stores journal entries and lines. Posted entries are
// protected twice: the update statements here predicate on status = 'DRAFT',
// and a schema trigger rejects updates to posted rows outright.
type PgxJournalRepository struct {
	db DBTX
}

// newPgxJournalRepository creates a new repository for journal data.
func newPgxJournalRepository(db DBTX) *PgxJournalRepository {
	return &PgxJournalRepository{db: db}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// FindEntryByID retrieves an entry header.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT entry_id, entry_date, reference, description, status, posted_by, posted_at, reverses_entry_id,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM journal_entries
		WHERE entry_id = $1;
	`
	var e domain.JournalEntry
	var reference, description *string
	err := r.db.QueryRow(ctx, query, entryID).Scan(
		&e.EntryID, &e.EntryDate, &reference, &description, &e.Status, &e.PostedBy, &e.PostedAt, &e.ReversesEntryID,
		&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}
	if reference != nil {
		e.Reference = *reference
	}
	if description != nil {
		e.Description = *description
	}
	return &e, nil
}

// FindLinesByEntryID retrieves an entry's lines.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, entry_id, account_id, debit, credit, created_at, created_by, last_updated_at, last_updated_by
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY line_id ASC;
	`
	rows, err := r.db.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	var lines []domain.JournalLine
	for rows.Next() {
		var l domain.JournalLine
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.AccountID, &l.Debit, &l.Credit, &l.CreatedAt, &l.CreatedBy, &l.LastUpdatedAt, &l.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal line rows: %w", err)
	}
	return lines, nil
}

// SumPostedLinesByAccount totals an account's debit and credit across POSTED
// entries only.
func (r *PgxJournalRepository) SumPostedLinesByAccount(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1 AND e.status = 'POSTED';
	`
	var debits, credits decimal.Decimal
	if err := r.db.QueryRow(ctx, query, accountID).Scan(&debits, &credits); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum posted lines for account %s: %w", accountID, err)
	}
	return debits, credits, nil
}

// SaveEntry inserts the header and all lines.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: entry must have at least one line", apperrors.ErrValidation)
	}
	for _, l := range lines {
		if !l.SideValid() {
			return fmt.Errorf("%w: line %s must have exactly one positive side", apperrors.ErrValidation, l.LineID)
		}
	}

	headerQuery := `
		INSERT INTO journal_entries (entry_id, entry_date, reference, description, status, posted_by, posted_at, reverses_entry_id,
		                             created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.db.Exec(ctx, headerQuery,
		entry.EntryID,
		entry.EntryDate,
		nullIfEmpty(entry.Reference),
		nullIfEmpty(entry.Description),
		string(entry.Status),
		entry.PostedBy,
		entry.PostedAt,
		entry.ReversesEntryID,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(fmt.Errorf("failed to insert journal entry %s: %w", entry.EntryID, err))
	}
	return r.insertLines(ctx, lines)
}

// ReplaceDraftEntry swaps the header fields and lines of a DRAFT entry.
func (r *PgxJournalRepository) ReplaceDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: entry must have at least one line", apperrors.ErrValidation)
	}

	headerQuery := `
		UPDATE journal_entries
		SET entry_date = $2, reference = $3, description = $4, last_updated_at = $5, last_updated_by = $6
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	tag, err := r.db.Exec(ctx, headerQuery,
		entry.EntryID,
		entry.EntryDate,
		nullIfEmpty(entry.Reference),
		nullIfEmpty(entry.Description),
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(fmt.Errorf("failed to update journal entry %s: %w", entry.EntryID, err))
	}
	if tag.RowsAffected() == 0 {
		return r.missingOrPosted(ctx, entry.EntryID)
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entry.EntryID); err != nil {
		return mapPgError(fmt.Errorf("failed to delete lines of entry %s: %w", entry.EntryID, err))
	}
	return r.insertLines(ctx, lines)
}

// MarkEntryPosted transitions DRAFT to POSTED.
func (r *PgxJournalRepository) MarkEntryPosted(ctx context.Context, entryID, posterID string, postedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = 'POSTED', posted_by = $2, posted_at = $3, last_updated_at = $3, last_updated_by = $2
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	tag, err := r.db.Exec(ctx, query, entryID, posterID, postedAt)
	if err != nil {
		return mapPgError(fmt.Errorf("failed to post journal entry %s: %w", entryID, err))
	}
	if tag.RowsAffected() == 0 {
		return r.missingOrPosted(ctx, entryID)
	}
	return nil
}

// missingOrPosted disambiguates a zero-row update: the entry either does not
// exist or is already posted.
func (r *PgxJournalRepository) missingOrPosted(ctx context.Context, entryID string) error {
	var status string
	err := r.db.QueryRow(ctx, `SELECT status FROM journal_entries WHERE entry_id = $1;`, entryID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: journal entry %s", apperrors.ErrNotFound, entryID)
	}
	if err != nil {
		return fmt.Errorf("failed to check status of entry %s: %w", entryID, err)
	}
	return fmt.Errorf("%w: journal entry %s is %s", apperrors.ErrImmutableRecord, entryID, status)
}

func (r *PgxJournalRepository) insertLines(ctx context.Context, lines []domain.JournalLine) error {
	lineQuery := `
		INSERT INTO journal_lines (line_id, entry_id, account_id, debit, credit, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, l := range lines {
		if _, err := r.db.Exec(ctx, lineQuery,
			l.LineID, l.EntryID, l.AccountID, l.Debit, l.Credit,
			l.CreatedAt, l.CreatedBy, l.LastUpdatedAt, l.LastUpdatedBy,
		); err != nil {
			return mapPgError(fmt.Errorf("failed to insert journal line %s: %w", l.LineID, err))
		}
	}
	return nil
}
